// Package geometry provides the floating-point primitives shared by the crop
// selection engine: points, rectangles and the mapping between screen space
// and image-pixel space.
//
// # Coordinate Spaces
//
// Two spaces are in play and are never mixed implicitly:
//   - Image space: origin at the top-left pixel of the raster, units are pixels.
//   - Screen space: the displayed, scaled widget, units are display points.
//
// A Mapper converts between the two given the display bounds of the image.
package geometry

import "math"

// Point is a 2D position. Which space it lives in is determined by context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Rect is an axis-aligned rectangle with a top-left origin.
//
// Width and height are never negative. A zero-area rectangle is valid and
// represents "no effective selection".
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// RectFromEdges builds a rectangle from two arbitrary x and y extents,
// ordering them so the result has non-negative size.
func RectFromEdges(x1, y1, x2, y2 float64) Rect {
	return Rect{
		X: math.Min(x1, x2),
		Y: math.Min(y1, y2),
		W: math.Abs(x2 - x1),
		H: math.Abs(y2 - y1),
	}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Empty reports whether the rectangle has zero width or zero height.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether p lies inside r. Edges are inclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// ShiftInto moves r so it lies inside [0,w]x[0,h] without changing its size.
// A rectangle larger than the area along an axis is pinned to the origin.
func (r Rect) ShiftInto(w, h float64) Rect {
	r.X = Clamp(r.X, 0, math.Max(0, w-r.W))
	r.Y = Clamp(r.Y, 0, math.Max(0, h-r.H))
	return r
}

// Within reports whether r lies entirely inside [0,w]x[0,h].
func (r Rect) Within(w, h float64) bool {
	return r.X >= 0 && r.Y >= 0 && r.Right() <= w && r.Bottom() <= h
}

// ClipTo intersects r with [0,w]x[0,h].
func (r Rect) ClipTo(w, h float64) Rect {
	x1 := Clamp(r.X, 0, w)
	y1 := Clamp(r.Y, 0, h)
	x2 := Clamp(r.Right(), 0, w)
	y2 := Clamp(r.Bottom(), 0, h)
	return RectFromEdges(x1, y1, x2, y2)
}

// SquareAround returns a square of the given side centred on c.
func SquareAround(c Point, side float64) Rect {
	half := side / 2
	return Rect{X: c.X - half, Y: c.Y - half, W: side, H: side}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
