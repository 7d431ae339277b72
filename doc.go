// Package batchexport exports every artboard of every vector document in a
// folder as PDF, SVG and a set of PNG sizes.
//
// The CLI lives in cmd/batch-export; this root package exposes the same
// pipeline as a Go API so that callers can embed it or plug in their own
// document host.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named batchexport:
//
//	import "github.com/hellenic-development/batch-export" // package batchexport
//
// # Quick start
//
//	result, err := batchexport.Run(batchexport.Options{
//	    SourceDir: "icons",
//	    PNGWidths: []int{24, 48, 96},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Notice)
//
// # Output layout
//
// Each document gets a folder named after its file name without the extension,
// next to the document:
//
//	<source>/<doc>/PDF/<artboard>.pdf
//	<source>/<doc>/SVG/<artboard>.svg
//	<source>/<doc>/PNG/<width>w/<artboard>.png
//
// PNG widths assume 72 DPI, so one point is one pixel.
//
// # Failures
//
// A document that fails to export is recorded in [Result.Errors] and the batch
// moves on. A missing SVG is recorded and the document's other artboards still
// export. Only fatal preconditions (no folder, no matching documents) and a
// failed close are returned as errors.
//
// # Document host
//
// [Options.Host] defaults to the canvas-backed host in pkg/render, which reads
// YAML-encoded .vdoc documents. Any [host.Host] implementation can be supplied.
package batchexport
