package crop

import "github.com/ironsheep/image-edit-mcp/internal/geometry"

// HandleMarker is a drawn handle square in screen space.
type HandleMarker struct {
	Handle Handle        `json:"handle"`
	Rect   geometry.Rect `json:"rect"`
}

// Overlay is everything a renderer needs to draw the crop UI for one frame.
type Overlay struct {
	// Bounds is the display rectangle of the image.
	Bounds geometry.Rect `json:"bounds"`

	// Selection is the displayed selection in screen space. It is nil when
	// there is no selection or the live one has zero area, in which case the
	// whole image should be dimmed.
	Selection *geometry.Rect `json:"selection,omitempty"`

	// Handles holds the eight drawn handle squares, corners first.
	Handles []HandleMarker `json:"handles,omitempty"`

	Dragging bool   `json:"dragging"`
	Handle   Handle `json:"handle"`
}

// Overlay returns the overlay geometry for the displayed selection drawn
// into bounds, with handle squares of side handleSize.
func (c Controller) Overlay(bounds geometry.Rect, handleSize float64) Overlay {
	o := Overlay{
		Bounds:   bounds,
		Dragging: c.drag.Active,
		Handle:   c.drag.Handle,
	}

	live := c.Live()
	if live == nil || live.Empty() {
		return o
	}

	screen := c.mapper.RectToScreen(bounds, *live)
	o.Selection = &screen

	corners := cornerPoints(screen)
	edges := edgePoints(screen)
	o.Handles = make([]HandleMarker, 0, len(corners)+len(edges))
	for _, hp := range corners {
		o.Handles = append(o.Handles, HandleMarker{Handle: hp.Handle, Rect: geometry.SquareAround(hp.At, handleSize)})
	}
	for _, hp := range edges {
		o.Handles = append(o.Handles, HandleMarker{Handle: hp.Handle, Rect: geometry.SquareAround(hp.At, handleSize)})
	}
	return o
}

// CursorAt returns the pointer style for hovering at screen point p. While a
// drag is in progress the grabbed handle decides the style.
func (c Controller) CursorAt(bounds geometry.Rect, p geometry.Point) CursorStyle {
	if c.drag.Active {
		return Cursor(c.drag.Handle)
	}
	if h := HitTest(c.mapper, bounds, c.Selection(), p, c.hitSize); h != HandleNone {
		return Cursor(h)
	}
	if bounds.Contains(p) {
		return CursorCrosshair
	}
	return CursorDefault
}
