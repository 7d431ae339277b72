package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleDoc = `
artboards:
  - name: home
    rect: [0, 0, 100, 50]
  - name: settings
    rect: [120, 0, 220, 100]
layers:
  - name: Top
    items:
      - path: "M0 0L10 0L10 10z"
        fill: "#ff0000"
      - path: "M20 20L30 20L30 30z"
  - name: Bottom
    items:
      - path: "M0 0H100V50H0z"
        fill: "#eeeeee"
  - name: Empty
`

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(doc.Artboards) != 2 {
		t.Fatalf("Decode() returned %d artboards, want 2", len(doc.Artboards))
	}
	ab := doc.Artboards[1]
	if ab.Index != 1 || ab.Name != "settings" {
		t.Errorf("Artboards[1] = %+v, want index 1 named settings", ab)
	}
	if ab.Rect.Width() != 100 || ab.Rect.Height() != 100 {
		t.Errorf("Artboards[1].Rect = %+v, want 100x100", ab.Rect)
	}
	if len(doc.Layers) != 3 {
		t.Errorf("Decode() returned %d layers, want 3", len(doc.Layers))
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "short rect",
			yaml: "artboards:\n  - name: a\n    rect: [0, 0, 10]\n",
		},
		{
			name: "unnamed artboard",
			yaml: "artboards:\n  - rect: [0, 0, 10, 10]\n",
		},
		{
			name: "item without path",
			yaml: "layers:\n  - name: L\n    items:\n      - fill: \"#000\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("Decode() error = %v, want ErrInvalidDocument", err)
			}
		})
	}
}

func TestLoadSetsNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icons.v2.vdoc")
	if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Name != "icons.v2.vdoc" {
		t.Errorf("Name = %q, want %q", doc.Name, "icons.v2.vdoc")
	}
	if doc.BaseName() != "icons.v2" {
		t.Errorf("BaseName() = %q, want %q", doc.BaseName(), "icons.v2")
	}
}

func TestRectHeightIgnoresAxisDirection(t *testing.T) {
	up := Rect{Left: 0, Top: 50, Right: 10, Bottom: 0}
	down := Rect{Left: 0, Top: 0, Right: 10, Bottom: 50}
	if up.Height() != 50 || down.Height() != 50 {
		t.Errorf("Height() = %g / %g, want 50 / 50", up.Height(), down.Height())
	}
}

func TestConsolidate(t *testing.T) {
	doc, err := Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}

	snap := Consolidate(doc)

	if len(snap.Layer.Items) != 3 {
		t.Fatalf("Consolidate() kept %d items, want 3", len(snap.Layer.Items))
	}
	wantOrder := []string{"M0 0L10 0L10 10z", "M20 20L30 20L30 30z", "M0 0H100V50H0z"}
	for i, p := range wantOrder {
		if snap.Layer.Items[i].Path != p {
			t.Errorf("Items[%d].Path = %q, want %q", i, snap.Layer.Items[i].Path, p)
		}
	}

	// The live document must be untouched.
	if len(doc.Layers) != 3 || len(doc.Layers[0].Items) != 2 {
		t.Errorf("Consolidate() mutated the document layers: %+v", doc.Layers)
	}

	named := snap.ForArtboard(doc.Artboards[1])
	if named.Layer.Name != "settings" {
		t.Errorf("ForArtboard().Layer.Name = %q, want %q", named.Layer.Name, "settings")
	}
	if snap.Layer.Name != "" {
		t.Errorf("ForArtboard() renamed the shared snapshot to %q", snap.Layer.Name)
	}

	if _, ok := snap.Artboard(5); ok {
		t.Errorf("Artboard(5) ok = true, want false")
	}
}

func TestFileStem(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{"home", "home"},
		{"icons/home", "icons-home"},
		{`icons\home`, "icons-home"},
		{"a/b\\c", "a-b-c"},
		{"with space.v2", "with space.v2"},
	}
	for _, tt := range tests {
		if got := FileStem(tt.name); got != tt.want {
			t.Errorf("FileStem(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
