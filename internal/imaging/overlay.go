package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/lucasb-eyer/go-colorful"
)

// OverlayStyle controls how the crop preview is drawn.
type OverlayStyle struct {
	// Dim is how much to darken the area outside the selection, 0-1.
	Dim float64

	// BorderColor and HandleColor are "#RRGGBB" hex strings.
	BorderColor string
	HandleColor string

	// BorderWidth is the selection outline thickness in pixels.
	BorderWidth int
}

// DefaultOverlayStyle returns a half-dimmed mask with white border and
// handles.
func DefaultOverlayStyle() OverlayStyle {
	return OverlayStyle{
		Dim:         0.5,
		BorderColor: "#FFFFFF",
		HandleColor: "#FFFFFF",
		BorderWidth: 2,
	}
}

// OverlaySpec is the crop UI geometry to draw, in the pixel space of the
// image passed to RenderOverlay.
type OverlaySpec struct {
	// Selection is the crop rectangle; nil dims the whole image.
	Selection *image.Rectangle

	// Handles are the filled handle squares.
	Handles []image.Rectangle
}

// RenderOverlay draws the crop UI over img: everything outside the selection
// is darkened, the selection gets an outline and the handles are filled in.
// img is not modified.
func RenderOverlay(img image.Image, spec OverlaySpec, style OverlayStyle) (*image.RGBA, error) {
	border, err := parseColor(style.BorderColor)
	if err != nil {
		return nil, fmt.Errorf("border color: %w", err)
	}
	handle, err := parseColor(style.HandleColor)
	if err != nil {
		return nil, fmt.Errorf("handle color: %w", err)
	}

	out := adjust.Brightness(img, -clampUnit(style.Dim))
	bounds := out.Bounds()
	if spec.Selection == nil {
		return out, nil
	}

	sel := spec.Selection.Add(bounds.Min).Intersect(bounds)
	if sel.Empty() {
		return out, nil
	}
	src := img.Bounds().Min.Add(sel.Min.Sub(bounds.Min))
	draw.Draw(out, sel, img, src, draw.Src)

	bw := style.BorderWidth
	if bw > 0 {
		fill(out, image.Rect(sel.Min.X, sel.Min.Y, sel.Max.X, sel.Min.Y+bw), border)
		fill(out, image.Rect(sel.Min.X, sel.Max.Y-bw, sel.Max.X, sel.Max.Y), border)
		fill(out, image.Rect(sel.Min.X, sel.Min.Y, sel.Min.X+bw, sel.Max.Y), border)
		fill(out, image.Rect(sel.Max.X-bw, sel.Min.Y, sel.Max.X, sel.Max.Y), border)
	}

	for _, h := range spec.Handles {
		fill(out, h.Add(bounds.Min), handle)
	}
	return out, nil
}

func fill(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// parseColor parses a "#RRGGBB" hex color into an opaque color.RGBA.
func parseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
