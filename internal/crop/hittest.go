package crop

import "github.com/ironsheep/image-edit-mcp/internal/geometry"

// Default handle sizes in screen units. The hit square is deliberately larger
// than the drawn square so small handles stay easy to grab.
const (
	DefaultHandleSize    = 14.0
	DefaultHandleHitSize = 28.0
)

// handlePoint pairs a handle with its anchor on the selection.
type handlePoint struct {
	Handle Handle
	At     geometry.Point
}

// cornerPoints returns the four corners of r in hit-test priority order.
func cornerPoints(r geometry.Rect) [4]handlePoint {
	return [4]handlePoint{
		{HandleTopLeft, geometry.Pt(r.X, r.Y)},
		{HandleTopRight, geometry.Pt(r.Right(), r.Y)},
		{HandleBottomLeft, geometry.Pt(r.X, r.Bottom())},
		{HandleBottomRight, geometry.Pt(r.Right(), r.Bottom())},
	}
}

// edgePoints returns the four edge midpoints of r in hit-test priority order.
func edgePoints(r geometry.Rect) [4]handlePoint {
	midX := r.X + r.W/2
	midY := r.Y + r.H/2
	return [4]handlePoint{
		{HandleTop, geometry.Pt(midX, r.Y)},
		{HandleBottom, geometry.Pt(midX, r.Bottom())},
		{HandleLeft, geometry.Pt(r.X, midY)},
		{HandleRight, geometry.Pt(r.Right(), midY)},
	}
}

// HitTest classifies screen point p against an image-space selection drawn
// into bounds. Corners win over edge midpoints, which win over the interior.
// A nil selection always yields HandleNone.
func HitTest(m geometry.Mapper, bounds geometry.Rect, selection *geometry.Rect, p geometry.Point, hitSize float64) Handle {
	if selection == nil {
		return HandleNone
	}
	screen := m.RectToScreen(bounds, *selection)

	for _, hp := range cornerPoints(screen) {
		if geometry.SquareAround(hp.At, hitSize).Contains(p) {
			return hp.Handle
		}
	}
	for _, hp := range edgePoints(screen) {
		if geometry.SquareAround(hp.At, hitSize).Contains(p) {
			return hp.Handle
		}
	}
	if screen.Contains(p) {
		return HandleMove
	}
	return HandleNone
}
