// Package render is a document host backed by tdewolff/canvas. It opens
// YAML-encoded vector documents and renders artboards to PDF, SVG and PNG.
package render

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/hellenic-development/batch-export/pkg/document"
	"github.com/hellenic-development/batch-export/pkg/host"
)

// mmPerPt converts document points to canvas millimeters.
const mmPerPt = 25.4 / 72

// Host renders documents with canvas. It is not safe for concurrent use.
type Host struct {
	logger *logrus.Logger
	open   map[*document.Document]bool
	active *document.Document
}

var _ host.Host = (*Host)(nil)

// New creates a new Host. A nil logger discards output.
func New(logger *logrus.Logger) *Host {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Host{logger: logger, open: make(map[*document.Document]bool)}
}

// Open loads the document at path and makes it active.
func (h *Host) Open(path string) (*document.Document, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	h.open[doc] = true
	h.active = doc
	h.logger.Debugf("Opened %s (%d artboards, %d layers)", doc.Name, len(doc.Artboards), len(doc.Layers))
	return doc, nil
}

// Activate makes doc the active document.
func (h *Host) Activate(doc *document.Document) error {
	if !h.open[doc] {
		return fmt.Errorf("document %q is not open", doc.Name)
	}
	h.active = doc
	return nil
}

// Active returns the active document, or nil.
func (h *Host) Active() *document.Document {
	return h.active
}

// Close releases doc. Documents are never modified by this host, so SaveChanges
// behaves like DiscardChanges.
func (h *Host) Close(doc *document.Document, save host.SaveOptions) error {
	if !h.open[doc] {
		return fmt.Errorf("document %q is not open", doc.Name)
	}
	delete(h.open, doc)
	if h.active == doc {
		h.active = nil
	}
	h.logger.Debugf("Closed %s (%s)", doc.Name, save)
	return nil
}

// SavePDF writes the artboards selected by opts to dest as a single PDF, one page
// per artboard. The document's own layers are rendered.
func (h *Host) SavePDF(doc *document.Document, dest string, opts host.PDFOptions, artboardIndex int, artboardName string) error {
	if !h.open[doc] {
		return fmt.Errorf("document %q is not open", doc.Name)
	}
	indices, err := host.ParseArtboardRange(opts.ArtboardRange, len(doc.Artboards))
	if err != nil {
		return err
	}
	if len(indices) == 0 {
		return fmt.Errorf("no artboards selected for %s", dest)
	}

	items := document.Consolidate(doc).Layer.Items

	pages := make([]*canvas.Canvas, 0, len(indices))
	for _, i := range indices {
		c, err := drawArtboard(doc.Artboards[i], items, true)
		if err != nil {
			return err
		}
		pages = append(pages, c)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", dest, err)
	}
	defer f.Close()

	w := pdf.New(f, pages[0].W, pages[0].H, nil)
	for n, c := range pages {
		if n > 0 {
			w.NewPage(c.W, c.H)
		}
		c.RenderTo(w)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write PDF %q: %w", dest, err)
	}

	h.logger.Debugf("Saved PDF %s (artboard %d %q)", dest, artboardIndex+1, artboardName)
	return nil
}

// ExportSVG renders the artboards selected by opts. With SaveMultipleArtboards
// each artboard goes to <dir>/<stem>_<artboard>.svg next to dest; otherwise the
// first selected artboard is written to dest itself.
func (h *Host) ExportSVG(snap *document.Snapshot, dest string, opts host.SVGOptions) error {
	indices, err := host.ParseArtboardRange(opts.ArtboardRange, len(snap.Artboards))
	if err != nil {
		return err
	}
	if !opts.SaveMultipleArtboards && len(indices) > 1 {
		indices = indices[:1]
	}

	dir := filepath.Dir(dest)
	stem := strings.TrimSuffix(filepath.Base(dest), filepath.Ext(dest))

	for _, i := range indices {
		ab := snap.Artboards[i]
		out := dest
		if opts.SaveMultipleArtboards {
			out = filepath.Join(dir, stem+"_"+document.FileStem(ab.Name)+".svg")
		}

		c, err := drawArtboard(ab, snap.Layer.Items, true)
		if err != nil {
			return err
		}
		if err := writeSVG(c, out); err != nil {
			return err
		}
		h.logger.Debugf("Exported SVG %s (layer %q)", out, snap.Layer.Name)
	}

	return nil
}

// ExportPNG rasterizes one artboard. A scale of 100% maps one point to one pixel.
// Rendering is always anti-aliased and clipped to the artboard; an opaque white
// background is painted when Transparency is off.
func (h *Host) ExportPNG(snap *document.Snapshot, dest string, opts host.PNGOptions) error {
	ab, ok := snap.Artboard(opts.ArtboardIndex)
	if !ok {
		return fmt.Errorf("artboard %d out of range", opts.ArtboardIndex)
	}
	if opts.HorizontalScale <= 0 || opts.VerticalScale <= 0 {
		return fmt.Errorf("invalid PNG scale %gx%g", opts.HorizontalScale, opts.VerticalScale)
	}

	c, err := drawArtboard(ab, snap.Layer.Items, opts.Transparency)
	if err != nil {
		return err
	}

	// canvas rasterizes with a single resolution, so the horizontal scale wins.
	dpi := 72 * opts.HorizontalScale / 100
	img := rasterizer.Draw(c, canvas.DPI(dpi), canvas.DefaultColorSpace)

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", dest, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to write PNG %q: %w", dest, err)
	}

	h.logger.Debugf("Exported PNG %s (%dx%d)", dest, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

func writeSVG(c *canvas.Canvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", path, err)
	}
	defer f.Close()

	r := svg.New(f, c.W, c.H, nil)
	c.RenderTo(r)
	if err := r.Close(); err != nil {
		return fmt.Errorf("failed to write SVG %q: %w", path, err)
	}
	return nil
}
