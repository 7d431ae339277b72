package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is wrapped by every validation failure.
var ErrInvalidDocument = errors.New("invalid document")

// FileStem returns name usable as a single file name component. Path
// separators become "-"; everything else is kept verbatim.
func FileStem(name string) string {
	return strings.NewReplacer("/", "-", `\`, "-").Replace(name)
}

// Load reads and decodes the document stored at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	doc.Name = filepath.Base(path)
	doc.Path = path

	return doc, nil
}

// Decode parses a YAML-encoded document and assigns artboard indices.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for i := range doc.Artboards {
		doc.Artboards[i].Index = i
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks that every artboard is named and every item carries path data.
// Degenerate artboard rectangles are accepted here; exporting them fails later.
func (d *Document) Validate() error {
	for i, ab := range d.Artboards {
		if strings.TrimSpace(ab.Name) == "" {
			return fmt.Errorf("%w: artboard %d has no name", ErrInvalidDocument, i)
		}
	}
	for _, l := range d.Layers {
		for j, it := range l.Items {
			if strings.TrimSpace(it.Path) == "" {
				return fmt.Errorf("%w: item %d of layer %q has no path data", ErrInvalidDocument, j, l.Name)
			}
		}
	}
	return nil
}

// BaseName returns the document name with its extension stripped.
func (d *Document) BaseName() string {
	return strings.TrimSuffix(d.Name, filepath.Ext(d.Name))
}

// UnmarshalYAML decodes a [left, top, right, bottom] sequence.
func (r *Rect) UnmarshalYAML(value *yaml.Node) error {
	var v []float64
	if err := value.Decode(&v); err != nil {
		return err
	}
	if len(v) != 4 {
		return fmt.Errorf("%w: rect needs 4 values [left, top, right, bottom], got %d", ErrInvalidDocument, len(v))
	}
	r.Left, r.Top, r.Right, r.Bottom = v[0], v[1], v[2], v[3]
	return nil
}

// MarshalYAML encodes the rect as a flow sequence.
func (r Rect) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []float64{r.Left, r.Top, r.Right, r.Bottom} {
		var item yaml.Node
		if err := item.Encode(v); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &item)
	}
	return n, nil
}
