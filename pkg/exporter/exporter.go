package exporter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/hellenic-development/batch-export/pkg/document"
	"github.com/hellenic-development/batch-export/pkg/host"
	"github.com/hellenic-development/batch-export/pkg/report"
)

// DefaultPNGWidths are the raster widths, in pixels at 72 DPI, exported when
// none are configured.
var DefaultPNGWidths = []int{24, 32, 48, 72, 96, 120, 144, 192, 240, 480}

// ErrDegenerateArtboard is returned for an artboard whose width is not positive,
// since no PNG scale can be derived from it.
var ErrDegenerateArtboard = errors.New("artboard has no width")

// Config holds configuration for artboard export.
type Config struct {
	PNGWidths []int  // one PNG per width, in order
	TempDir   string // parent of SVG staging directories, "" = os.TempDir()
}

// Asset is a single file written for an artboard.
type Asset struct {
	Document      string
	ArtboardIndex int
	Artboard      string
	Format        Format
	Width         int // PNG only
	Path          string
}

// Result holds the outcome of exporting one document. Errors carries the
// failures that did not stop the export, such as a missing SVG.
type Result struct {
	Document string
	Root     string
	Assets   []Asset
	Errors   *report.List
}

// Exporter runs the export routine for one document at a time.
type Exporter struct {
	host   host.Host
	config Config
	log    logrus.FieldLogger
}

// New creates an Exporter. A nil logger discards output.
func New(h host.Host, config Config, log logrus.FieldLogger) *Exporter {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Exporter{host: h, config: config, log: log}
}

// ExportDocument writes every artboard of doc as PDF, SVG and PNG below
// DocumentRoot(sourceDir, doc.Name). Artboards are processed by ascending index.
// The first PDF, PNG or host failure stops the remaining artboards and is
// returned together with the partial result.
func (e *Exporter) ExportDocument(doc *document.Document, sourceDir string) (*Result, error) {
	res := &Result{
		Document: doc.Name,
		Root:     DocumentRoot(sourceDir, doc.Name),
		Errors:   &report.List{},
	}

	if err := ensureDir(res.Root); err != nil {
		return res, err
	}

	snap := document.Consolidate(doc)
	log := e.log.WithField("document", doc.Name)
	log.Infof("Exporting %d artboard(s) to %s", len(doc.Artboards), res.Root)

	for i, ab := range doc.Artboards {
		ab.Index = i
		if err := e.exportArtboard(doc, snap.ForArtboard(ab), ab, res); err != nil {
			return res, fmt.Errorf("artboard %q: %w", ab.Name, err)
		}
	}

	return res, nil
}

func (e *Exporter) exportArtboard(doc *document.Document, snap *document.Snapshot, ab document.Artboard, res *Result) error {
	log := e.log.WithFields(logrus.Fields{"document": doc.Name, "artboard": ab.Name})

	// PDF
	pdfPath := OutputPath(res.Root, FormatPDF, ab.Name, 0)
	if err := ensureDir(filepath.Dir(pdfPath)); err != nil {
		return err
	}
	pdfOpts := host.PDFOptions{ArtboardRange: host.ArtboardRange(ab.Index)}
	if err := e.host.SavePDF(doc, pdfPath, pdfOpts, ab.Index, ab.Name); err != nil {
		return fmt.Errorf("save pdf: %w", err)
	}
	res.add(ab, FormatPDF, 0, pdfPath)
	log.Debugf("Saved %s", pdfPath)

	// SVG
	if err := e.exportSVG(snap, ab, res, log); err != nil {
		return err
	}

	// PNG
	if len(e.config.PNGWidths) == 0 {
		return nil
	}
	abWidth := ArtboardWidth(ab)
	if abWidth <= 0 {
		return fmt.Errorf("%w: %g", ErrDegenerateArtboard, abWidth)
	}
	for _, width := range e.config.PNGWidths {
		scale := Scale(abWidth, float64(width))
		pngPath := OutputPath(res.Root, FormatPNG, ab.Name, width)
		if err := ensureDir(filepath.Dir(pngPath)); err != nil {
			return err
		}

		opts := host.PNGOptions{
			ArtboardIndex:    ab.Index,
			HorizontalScale:  scale,
			VerticalScale:    scale,
			AntiAliasing:     true,
			Transparency:     true,
			ArtboardClipping: true,
		}
		if err := e.host.ExportPNG(snap, pngPath, opts); err != nil {
			return fmt.Errorf("export png %dw: %w", width, err)
		}
		res.add(ab, FormatPNG, width, pngPath)
		log.Debugf("Exported %s at %.2f%%", pngPath, scale)
	}

	return nil
}

// exportSVG stages the export in a temporary directory because the host names
// multi-artboard SVG files itself. Exactly one staged file is copied into place;
// anything else is recorded and the artboard's SVG is skipped.
func (e *Exporter) exportSVG(snap *document.Snapshot, ab document.Artboard, res *Result, log logrus.FieldLogger) error {
	svgPath := OutputPath(res.Root, FormatSVG, ab.Name, 0)
	if err := ensureDir(filepath.Dir(svgPath)); err != nil {
		return err
	}

	staging, err := os.MkdirTemp(e.config.TempDir, "tmpFolder"+document.FileStem(ab.Name)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create svg staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	opts := host.SVGOptions{
		ArtboardRange:         host.ArtboardRange(ab.Index),
		SaveMultipleArtboards: true,
	}
	if err := e.host.ExportSVG(snap, filepath.Join(staging, document.FileStem(ab.Name)+FormatSVG.Ext()), opts); err != nil {
		return fmt.Errorf("export svg: %w", err)
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		return fmt.Errorf("failed to read svg staging directory: %w", err)
	}
	if len(entries) != 1 {
		res.Errors.Recordf("Failed to export the artboard: %s.", ab.Name)
		log.Warnf("SVG export produced %d file(s), expected 1", len(entries))
		return nil
	}

	if err := copyFile(filepath.Join(staging, entries[0].Name()), svgPath); err != nil {
		return err
	}
	res.add(ab, FormatSVG, 0, svgPath)
	log.Debugf("Exported %s", svgPath)

	return nil
}

func (r *Result) add(ab document.Artboard, f Format, width int, path string) {
	r.Assets = append(r.Assets, Asset{
		Document:      r.Document,
		ArtboardIndex: ab.Index,
		Artboard:      ab.Name,
		Format:        f,
		Width:         width,
		Path:          path,
	})
}

// ensureDir creates dir and its parents; an existing directory is left alone.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %q: %w", dir, err)
	}
	return nil
}

// copyFile copies src to dst, replacing dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to write file %q: %w", dst, err)
	}
	return out.Close()
}
