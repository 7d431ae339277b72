// Package hosttest provides an in-memory document host for tests. It writes small
// placeholder files instead of rendering, records every call, and can be told to
// fail specific operations.
package hosttest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hellenic-development/batch-export/pkg/document"
	"github.com/hellenic-development/batch-export/pkg/host"
)

// Host is a fake host.Host. Documents are looked up by file base name in Docs.
type Host struct {
	Docs map[string]*document.Document

	OpenErr  map[string]error // by file base name
	PDFErr   map[string]error // by artboard name
	PNGErr   map[string]error // by artboard name
	CloseErr map[string]error // by document name
	SkipSVG  map[string]bool  // artboard names whose SVG never materializes
	ExtraSVG map[string]bool  // artboard names that produce a second SVG file
	PanicPDF map[string]bool  // artboard names whose PDF save panics

	Calls  []string
	Active string
	Opened map[string]bool
}

var _ host.Host = (*Host)(nil)

// New returns a fake host serving docs.
func New(docs ...*document.Document) *Host {
	h := &Host{
		Docs:     make(map[string]*document.Document),
		OpenErr:  make(map[string]error),
		PDFErr:   make(map[string]error),
		PNGErr:   make(map[string]error),
		CloseErr: make(map[string]error),
		SkipSVG:  make(map[string]bool),
		ExtraSVG: make(map[string]bool),
		PanicPDF: make(map[string]bool),
		Opened:   make(map[string]bool),
	}
	for _, d := range docs {
		h.Docs[d.Name] = d
	}
	return h
}

// NewDocument builds a document with one layer and the named artboards, each
// width points wide and laid out side by side.
func NewDocument(name string, width float64, artboards ...string) *document.Document {
	d := &document.Document{Name: name}
	for i, ab := range artboards {
		left := float64(i) * (width + 10)
		d.Artboards = append(d.Artboards, document.Artboard{
			Index: i,
			Name:  ab,
			Rect:  document.Rect{Left: left, Top: 0, Right: left + width, Bottom: width},
		})
	}
	d.Layers = []document.Layer{{Name: "Layer 1", Items: []document.Item{{Path: "M0 0H10V10H0z"}}}}
	return d
}

// Seed writes an empty file for every document so a directory scan finds them.
func Seed(dir string, docs ...*document.Document) error {
	for _, d := range docs {
		if err := os.WriteFile(filepath.Join(dir, d.Name), nil, 0644); err != nil {
			return err
		}
	}
	return nil
}

func (h *Host) record(format string, args ...any) {
	h.Calls = append(h.Calls, fmt.Sprintf(format, args...))
}

// CallsWithPrefix returns the recorded calls starting with prefix.
func (h *Host) CallsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range h.Calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (h *Host) Open(path string) (*document.Document, error) {
	name := filepath.Base(path)
	h.record("open %s", name)
	if err := h.OpenErr[name]; err != nil {
		return nil, err
	}
	d, ok := h.Docs[name]
	if !ok {
		return nil, fmt.Errorf("no such document %q", name)
	}
	d.Path = path
	h.Opened[name] = true
	h.Active = name
	return d, nil
}

func (h *Host) Activate(doc *document.Document) error {
	h.record("activate %s", doc.Name)
	if !h.Opened[doc.Name] {
		return fmt.Errorf("document %q is not open", doc.Name)
	}
	h.Active = doc.Name
	return nil
}

func (h *Host) SavePDF(doc *document.Document, dest string, opts host.PDFOptions, artboardIndex int, artboardName string) error {
	h.record("pdf %s %s range=%s", doc.Name, artboardName, opts.ArtboardRange)
	if h.PanicPDF[artboardName] {
		panic("pdf engine crashed on " + artboardName)
	}
	if err := h.PDFErr[artboardName]; err != nil {
		return err
	}
	return os.WriteFile(dest, []byte("%PDF-fake"), 0644)
}

func (h *Host) ExportSVG(snap *document.Snapshot, dest string, opts host.SVGOptions) error {
	indices, err := host.ParseArtboardRange(opts.ArtboardRange, len(snap.Artboards))
	if err != nil {
		return err
	}
	dir := filepath.Dir(dest)
	stem := strings.TrimSuffix(filepath.Base(dest), filepath.Ext(dest))
	for _, i := range indices {
		ab := snap.Artboards[i]
		h.record("svg %s %s layer=%s", snap.Document, ab.Name, snap.Layer.Name)
		if h.SkipSVG[ab.Name] {
			continue
		}
		out := filepath.Join(dir, stem+"_"+document.FileStem(ab.Name)+".svg")
		if err := os.WriteFile(out, []byte("<svg/>"), 0644); err != nil {
			return err
		}
		if h.ExtraSVG[ab.Name] {
			if err := os.WriteFile(filepath.Join(dir, stem+"_extra.svg"), []byte("<svg/>"), 0644); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *Host) ExportPNG(snap *document.Snapshot, dest string, opts host.PNGOptions) error {
	ab, ok := snap.Artboard(opts.ArtboardIndex)
	if !ok {
		return fmt.Errorf("no artboard %d", opts.ArtboardIndex)
	}
	h.record("png %s %s scale=%g", snap.Document, ab.Name, opts.HorizontalScale)
	if err := h.PNGErr[ab.Name]; err != nil {
		return err
	}
	return os.WriteFile(dest, []byte("\x89PNG-fake"), 0644)
}

func (h *Host) Close(doc *document.Document, save host.SaveOptions) error {
	h.record("close %s %s", doc.Name, save)
	if err := h.CloseErr[doc.Name]; err != nil {
		return err
	}
	delete(h.Opened, doc.Name)
	if h.Active == doc.Name {
		h.Active = ""
	}
	return nil
}
