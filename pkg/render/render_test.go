package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/hellenic-development/batch-export/pkg/document"
	"github.com/hellenic-development/batch-export/pkg/host"
)

const iconsDoc = `
artboards:
  - name: square
    rect: [0, 0, 100, 100]
  - name: wide
    rect: [120, 0, 320, 50]
layers:
  - name: Shapes
    items:
      - path: "M10 10H90V90H10z"
        fill: "#3366cc"
      - path: "M130 10H310V40H130z"
        fill: "#cc3333"
        stroke: "#000"
        stroke_width: 2
  - name: Empty
`

func openTestDoc(t *testing.T) (*Host, *document.Document) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "icons.vdoc")
	if err := os.WriteFile(path, []byte(iconsDoc), 0644); err != nil {
		t.Fatal(err)
	}
	h := New(nil)
	doc, err := h.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return h, doc
}

func TestOpenActivateClose(t *testing.T) {
	h, doc := openTestDoc(t)
	if h.Active() != doc {
		t.Errorf("Open() did not activate the document")
	}
	if err := h.Close(doc, host.DiscardChanges); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if h.Active() != nil {
		t.Errorf("Active() after close = %v, want nil", h.Active())
	}
	if err := h.Activate(doc); err == nil {
		t.Errorf("Activate() on a closed document should fail")
	}
	if err := h.Close(doc, host.DiscardChanges); err == nil {
		t.Errorf("second Close() should fail")
	}
}

func TestOpenRejectsBrokenDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.vdoc")
	if err := os.WriteFile(path, []byte("artboards: [{name: a, rect: [1]}]"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(nil).Open(path); err == nil {
		t.Errorf("Open() of a broken document should fail")
	}
}

func TestSavePDF(t *testing.T) {
	h, doc := openTestDoc(t)
	dest := filepath.Join(t.TempDir(), "square.pdf")

	err := h.SavePDF(doc, dest, host.PDFOptions{ArtboardRange: host.ArtboardRange(0)}, 0, "square")
	if err != nil {
		t.Fatalf("SavePDF() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("SavePDF() output does not start with %%PDF")
	}

	if err := h.SavePDF(doc, dest, host.PDFOptions{ArtboardRange: "9"}, 8, "nope"); err == nil {
		t.Errorf("SavePDF() with an out-of-range artboard should fail")
	}
}

func TestExportSVGMultipleArtboardsNamesFiles(t *testing.T) {
	h, doc := openTestDoc(t)
	snap := document.Consolidate(doc).ForArtboard(doc.Artboards[1])
	dir := t.TempDir()

	opts := host.SVGOptions{ArtboardRange: "2", SaveMultipleArtboards: true}
	if err := h.ExportSVG(snap, filepath.Join(dir, "wide.svg"), opts); err != nil {
		t.Fatalf("ExportSVG() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "wide_wide.svg" {
		t.Fatalf("ExportSVG() wrote %v, want [wide_wide.svg]", entries)
	}

	data, err := os.ReadFile(filepath.Join(dir, "wide_wide.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Errorf("ExportSVG() output is not SVG: %.80s", data)
	}
}

func TestExportSVGSingleFile(t *testing.T) {
	h, doc := openTestDoc(t)
	snap := document.Consolidate(doc)
	dest := filepath.Join(t.TempDir(), "out.svg")

	if err := h.ExportSVG(snap, dest, host.SVGOptions{ArtboardRange: "1"}); err != nil {
		t.Fatalf("ExportSVG() error = %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("ExportSVG() did not write %s: %v", dest, err)
	}
}

func TestExportPNGWidth(t *testing.T) {
	h, doc := openTestDoc(t)
	snap := document.Consolidate(doc)

	tests := []struct {
		name    string
		index   int
		width   float64
		abWidth float64
		wantW   int
		wantH   int
	}{
		{name: "square 48", index: 0, width: 48, abWidth: 100, wantW: 48, wantH: 48},
		{name: "square 240", index: 0, width: 240, abWidth: 100, wantW: 240, wantH: 240},
		{name: "wide 100", index: 1, width: 100, abWidth: 200, wantW: 100, wantH: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "out.png")
			scale := tt.width / tt.abWidth * 100
			opts := host.PNGOptions{
				ArtboardIndex:    tt.index,
				HorizontalScale:  scale,
				VerticalScale:    scale,
				AntiAliasing:     true,
				Transparency:     true,
				ArtboardClipping: true,
			}
			if err := h.ExportPNG(snap, dest, opts); err != nil {
				t.Fatalf("ExportPNG() error = %v", err)
			}

			f, err := os.Open(dest)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			cfg, err := png.DecodeConfig(f)
			if err != nil {
				t.Fatalf("output is not a PNG: %v", err)
			}
			if abs(cfg.Width-tt.wantW) > 1 || abs(cfg.Height-tt.wantH) > 1 {
				t.Errorf("PNG size = %dx%d, want about %dx%d", cfg.Width, cfg.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestExportPNGRejectsBadOptions(t *testing.T) {
	h, doc := openTestDoc(t)
	snap := document.Consolidate(doc)
	dest := filepath.Join(t.TempDir(), "out.png")

	if err := h.ExportPNG(snap, dest, host.PNGOptions{ArtboardIndex: 5, HorizontalScale: 100, VerticalScale: 100}); err == nil {
		t.Errorf("ExportPNG() with a missing artboard should fail")
	}
	if err := h.ExportPNG(snap, dest, host.PNGOptions{ArtboardIndex: 0}); err == nil {
		t.Errorf("ExportPNG() with a zero scale should fail")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    [4]uint8
		wantErr bool
	}{
		{in: "", want: [4]uint8{0, 0, 0, 255}},
		{in: "none", want: [4]uint8{0, 0, 0, 0}},
		{in: "#ff0000", want: [4]uint8{255, 0, 0, 255}},
		{in: "#fff", want: [4]uint8{255, 255, 255, 255}},
		{in: "red", wantErr: true},
		{in: "#gg0000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseColor(tt.in, canvas.Black)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if [4]uint8{got.R, got.G, got.B, got.A} != tt.want {
				t.Errorf("parseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestExportSVGSeparatorInArtboardName(t *testing.T) {
	h, doc := openTestDoc(t)
	doc.Artboards[0].Name = "icons/home"
	snap := document.Consolidate(doc).ForArtboard(doc.Artboards[0])
	dir := t.TempDir()

	opts := host.SVGOptions{ArtboardRange: "1", SaveMultipleArtboards: true}
	if err := h.ExportSVG(snap, filepath.Join(dir, "icons-home.svg"), opts); err != nil {
		t.Fatalf("ExportSVG() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "icons-home_icons-home.svg" {
		t.Errorf("ExportSVG() wrote %v, want [icons-home_icons-home.svg]", entries)
	}
}

const flatDoc = `
artboards:
  - name: ok
    rect: [0, 0, 10, 10]
  - name: flat
    rect: [0, 0, 10, 0]
layers:
  - name: Shapes
    items:
      - path: "M0 0H10V10H0z"
`

func TestSavePDFRenderErrorWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.vdoc")
	if err := os.WriteFile(path, []byte(flatDoc), 0644); err != nil {
		t.Fatal(err)
	}
	h := New(nil)
	doc, err := h.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	tests := []struct {
		name  string
		rng   string
		index int
	}{
		{name: "single flat artboard", rng: "2", index: 1},
		{name: "flat artboard after a good one", rng: "1-2", index: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "out.pdf")
			if err := h.SavePDF(doc, dest, host.PDFOptions{ArtboardRange: tt.rng}, tt.index, "flat"); err == nil {
				t.Fatalf("SavePDF() should fail for an empty artboard")
			}
			if _, err := os.Stat(dest); !os.IsNotExist(err) {
				t.Errorf("SavePDF() left %s behind, stat error = %v", dest, err)
			}
		})
	}
}
