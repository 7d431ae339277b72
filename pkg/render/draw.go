package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/hellenic-development/batch-export/pkg/document"
)

// drawArtboard lays items out on a canvas the size of ab. Document coordinates
// are points with Y pointing down; canvas uses millimeters with Y pointing up,
// so every path is translated to the artboard origin, scaled and flipped.
// Anything outside the artboard falls off the canvas.
func drawArtboard(ab document.Artboard, items []document.Item, transparent bool) (*canvas.Canvas, error) {
	w := ab.Rect.Width() * mmPerPt
	h := ab.Rect.Height() * mmPerPt
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("artboard %q has an empty rect", ab.Name)
	}

	top := ab.Rect.Top
	if ab.Rect.Bottom < top {
		top = ab.Rect.Bottom
	}
	m := canvas.Identity.Translate(0, h).Scale(mmPerPt, -mmPerPt).Translate(-ab.Rect.Left, -top)

	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)

	if !transparent {
		ctx.SetFillColor(canvas.White)
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.DrawPath(0, 0, canvas.Rectangle(w, h))
	}

	for i, it := range items {
		p, err := canvas.ParseSVGPath(it.Path)
		if err != nil {
			return nil, fmt.Errorf("item %d: invalid path data: %w", i, err)
		}

		fill, err := parseColor(it.Fill, canvas.Black)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		stroke, err := parseColor(it.Stroke, canvas.Transparent)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		ctx.SetFillColor(fill)
		ctx.SetStrokeColor(stroke)
		ctx.SetStrokeWidth(it.StrokeWidth * mmPerPt)
		ctx.DrawPath(0, 0, p.Transform(m))
	}

	return c, nil
}

// parseColor accepts "#rgb", "#rrggbb", "#rrggbbaa" or "none". Empty yields def.
func parseColor(s string, def color.RGBA) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return def, nil
	case strings.EqualFold(s, "none"):
		return canvas.Transparent, nil
	case strings.HasPrefix(s, "#") && (len(s) == 4 || len(s) == 7 || len(s) == 9):
		for _, r := range s[1:] {
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return def, fmt.Errorf("invalid color %q", s)
			}
		}
		return canvas.Hex(s), nil
	default:
		return def, fmt.Errorf("invalid color %q", s)
	}
}
