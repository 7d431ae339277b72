package document

// Snapshot is an export-ready view of a document: every page item collapsed onto
// a single layer. Vector exporters emit one group per layer, so a single layer
// keeps empty groups and stray layer names out of the output.
type Snapshot struct {
	Document  string // source document name
	Artboards []Artboard
	Layer     Layer
}

// Consolidate builds a Snapshot without touching d. Items keep the document's
// stacking order: layers top to bottom, and front-to-back within each layer.
func Consolidate(d *Document) *Snapshot {
	var n int
	for _, l := range d.Layers {
		n += len(l.Items)
	}

	items := make([]Item, 0, n)
	for _, l := range d.Layers {
		items = append(items, l.Items...)
	}

	artboards := make([]Artboard, len(d.Artboards))
	copy(artboards, d.Artboards)

	return &Snapshot{
		Document:  d.Name,
		Artboards: artboards,
		Layer:     Layer{Items: items},
	}
}

// ForArtboard returns a copy whose consolidated layer is named after artboard ab.
// The item slice is shared; snapshots are read-only.
func (s *Snapshot) ForArtboard(ab Artboard) *Snapshot {
	c := *s
	c.Layer.Name = ab.Name
	return &c
}

// Artboard returns the artboard at index i.
func (s *Snapshot) Artboard(i int) (Artboard, bool) {
	if i < 0 || i >= len(s.Artboards) {
		return Artboard{}, false
	}
	return s.Artboards[i], true
}
