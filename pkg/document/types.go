package document

// Document is an open vector document. It is produced by a document host and
// held by the batch driver until close-out. Name is the file base name including
// its extension, e.g. "icons.vdoc".
type Document struct {
	Name      string     `yaml:"-"`
	Path      string     `yaml:"-"`
	Artboards []Artboard `yaml:"artboards"`
	Layers    []Layer    `yaml:"layers"`
}

// Artboard is a named rectangular region of the document exported on its own.
// Index is its 0-based position in Document.Artboards.
type Artboard struct {
	Index int    `yaml:"-"`
	Name  string `yaml:"name"`
	Rect  Rect   `yaml:"rect"`
}

// Rect is an artboard bounding box in points. Y grows downwards, so Bottom is
// normally greater than Top. It is encoded in YAML as [left, top, right, bottom].
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Width returns right minus left.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent regardless of axis direction.
func (r Rect) Height() float64 {
	if r.Bottom < r.Top {
		return r.Top - r.Bottom
	}
	return r.Bottom - r.Top
}

// Layer groups page items. Items are stored front-to-back.
type Layer struct {
	Name  string `yaml:"name"`
	Items []Item `yaml:"items"`
}

// Item is a single page item: an SVG path with its paint.
type Item struct {
	Name        string  `yaml:"name,omitempty"`
	Path        string  `yaml:"path"`
	Fill        string  `yaml:"fill,omitempty"`   // hex color, "none" or empty for black
	Stroke      string  `yaml:"stroke,omitempty"` // hex color, empty for no stroke
	StrokeWidth float64 `yaml:"stroke_width,omitempty"`
}
