// Package host declares the document host: the external application that owns
// open documents and encodes artboards as PDF, SVG and PNG. The batch driver and
// the export routine only talk to it through Host.
package host

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hellenic-development/batch-export/pkg/document"
)

// SaveOptions controls what happens to unsaved changes when a document closes.
type SaveOptions int

const (
	// DiscardChanges closes without persisting anything.
	DiscardChanges SaveOptions = iota
	// SaveChanges writes the document back before closing.
	SaveChanges
)

func (o SaveOptions) String() string {
	switch o {
	case DiscardChanges:
		return "discard"
	case SaveChanges:
		return "save"
	default:
		return "SaveOptions(" + strconv.Itoa(int(o)) + ")"
	}
}

// PDFOptions configures a PDF save. ArtboardRange uses the host's 1-based
// convention, e.g. "3" or "1-2,4".
type PDFOptions struct {
	ArtboardRange       string
	PreserveEditability bool
}

// SVGOptions configures an SVG export. With SaveMultipleArtboards set the host
// picks the output file names itself and only the destination directory and
// stem are honored.
type SVGOptions struct {
	ArtboardRange         string
	SaveMultipleArtboards bool
	PreserveEditability   bool
}

// PNGOptions configures a raster export of one artboard. Scales are percentages
// of the artboard size at 72 DPI.
type PNGOptions struct {
	ArtboardIndex    int
	HorizontalScale  float64
	VerticalScale    float64
	AntiAliasing     bool
	Transparency     bool
	ArtboardClipping bool
}

// Host is the document host collaborator.
type Host interface {
	// Open loads the document at path and makes it the active document.
	Open(path string) (*document.Document, error)
	// Activate makes doc the host's current document.
	Activate(doc *document.Document) error
	// SavePDF writes artboards selected by opts.ArtboardRange to dest.
	SavePDF(doc *document.Document, dest string, opts PDFOptions, artboardIndex int, artboardName string) error
	// ExportSVG exports the artboards selected by opts.ArtboardRange.
	ExportSVG(snap *document.Snapshot, dest string, opts SVGOptions) error
	// ExportPNG rasterizes one artboard to dest.
	ExportPNG(snap *document.Snapshot, dest string, opts PNGOptions) error
	// Close releases doc.
	Close(doc *document.Document, save SaveOptions) error
}

// ArtboardRange returns the 1-based range string selecting only artboard index.
func ArtboardRange(index int) string {
	return strconv.Itoa(index + 1)
}

// ParseArtboardRange converts a 1-based range string into 0-based indices, in
// the order written and without duplicates. An empty range selects every
// artboard.
func ParseArtboardRange(r string, count int) ([]int, error) {
	if strings.TrimSpace(r) == "" {
		all := make([]int, count)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	seen := make(map[int]bool)
	var out []int
	for _, part := range strings.Split(r, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi := part, part
		if i := strings.Index(part, "-"); i > 0 {
			lo, hi = part[:i], part[i+1:]
		}

		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid artboard range %q: %w", r, err)
		}
		to, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("invalid artboard range %q: %w", r, err)
		}
		if from < 1 || to > count || from > to {
			return nil, fmt.Errorf("artboard range %q out of bounds for %d artboard(s)", r, count)
		}

		for n := from; n <= to; n++ {
			if !seen[n-1] {
				seen[n-1] = true
				out = append(out, n-1)
			}
		}
	}

	return out, nil
}
