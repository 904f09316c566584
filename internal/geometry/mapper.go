package geometry

// Mapper converts between screen space and image space for an image of the
// given pixel dimensions drawn into a display bounds rectangle.
//
// The scale is width-driven: the display is assumed to preserve the image's
// aspect ratio, so the vertical scale is never computed on its own.
type Mapper struct {
	ImageWidth  float64
	ImageHeight float64
}

// NewMapper returns a Mapper for an image of w x h pixels.
func NewMapper(w, h int) Mapper {
	return Mapper{ImageWidth: float64(w), ImageHeight: float64(h)}
}

// Scale returns display points per image pixel for the given bounds.
func (m Mapper) Scale(bounds Rect) float64 {
	if m.ImageWidth <= 0 {
		return 1
	}
	return bounds.W / m.ImageWidth
}

// ScreenToImage converts a screen point to image space. The result is always
// clamped into [0,width]x[0,height]; pointer positions outside the image are
// projected onto the nearest valid coordinate rather than rejected.
func (m Mapper) ScreenToImage(bounds Rect, p Point) Point {
	scale := m.Scale(bounds)
	if scale <= 0 {
		return Point{}
	}
	return Point{
		X: Clamp((p.X-bounds.X)/scale, 0, m.ImageWidth),
		Y: Clamp((p.Y-bounds.Y)/scale, 0, m.ImageHeight),
	}
}

// ImageToScreen converts an image-space coordinate to screen space. It is the
// exact inverse of the unclamped ScreenToImage mapping.
func (m Mapper) ImageToScreen(bounds Rect, x, y float64) Point {
	scale := m.Scale(bounds)
	return Point{X: bounds.X + x*scale, Y: bounds.Y + y*scale}
}

// RectToScreen projects an image-space rectangle into screen space.
func (m Mapper) RectToScreen(bounds Rect, r Rect) Rect {
	tl := m.ImageToScreen(bounds, r.X, r.Y)
	br := m.ImageToScreen(bounds, r.Right(), r.Bottom())
	return RectFromEdges(tl.X, tl.Y, br.X, br.Y)
}

// Clamp limits an image-space point to the image area.
func (m Mapper) Clamp(p Point) Point {
	return Point{
		X: Clamp(p.X, 0, m.ImageWidth),
		Y: Clamp(p.Y, 0, m.ImageHeight),
	}
}
