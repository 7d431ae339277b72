package exporter

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hellenic-development/batch-export/pkg/document"
)

// Format names an output format and doubles as its directory name.
type Format string

const (
	FormatPDF Format = "PDF"
	FormatSVG Format = "SVG"
	FormatPNG Format = "PNG"
)

// Ext returns the lowercase file extension including the dot.
func (f Format) Ext() string {
	return "." + strings.ToLower(string(f))
}

// DocumentRoot returns the per-document output root: the document's file name
// without its extension, inside sourceDir.
func DocumentRoot(sourceDir, docName string) string {
	return filepath.Join(sourceDir, strings.TrimSuffix(docName, filepath.Ext(docName)))
}

// FormatDir returns <root>/<FORMAT>, or <root>/PNG/<width>w for PNG.
func FormatDir(root string, f Format, width int) string {
	if f == FormatPNG {
		return filepath.Join(root, string(f), strconv.Itoa(width)+"w")
	}
	return filepath.Join(root, string(f))
}

// OutputPath returns the file an artboard is written to. width is only used for PNG.
func OutputPath(root string, f Format, artboardName string, width int) string {
	return filepath.Join(FormatDir(root, f, width), document.FileStem(artboardName)+f.Ext())
}

// Scale returns the percentage that scales curWidth to desired.
func Scale(curWidth, desired float64) float64 {
	return desired / curWidth * 100
}

// ArtboardWidth returns the artboard width in points.
func ArtboardWidth(ab document.Artboard) float64 {
	return ab.Rect.Right - ab.Rect.Left
}
