package crop

import "github.com/ironsheep/image-edit-mcp/internal/geometry"

// DragState describes an in-progress drag. The zero value is Idle.
type DragState struct {
	Active bool `json:"active"`

	// Handle is the zone grabbed at DragStart. It is not reassigned when the
	// rectangle inverts mid-drag.
	Handle Handle `json:"handle"`

	// Anchor is the image-space point where the drag started.
	Anchor geometry.Point `json:"anchor"`

	// Original is the selection as it was at DragStart.
	Original geometry.Rect `json:"original"`
}

// Event is a pointer input consumed by Step.
type Event interface {
	isEvent()
}

// DragStart is a button press at Point, with the image drawn into Bounds.
type DragStart struct {
	Bounds geometry.Rect
	Point  geometry.Point
}

// DragMove is a cursor move to Point while the button is held.
type DragMove struct {
	Bounds geometry.Rect
	Point  geometry.Point
}

// DragEnd is a button release. Hosts also send it when pointer capture is
// lost so the controller never stays stuck mid-drag.
type DragEnd struct{}

func (DragStart) isEvent() {}
func (DragMove) isEvent()  {}
func (DragEnd) isEvent()   {}

// Command is an instruction emitted by Step for the host to act on.
type Command interface {
	isCommand()
}

// SelectionChanged carries the live, uncommitted selection to re-render.
type SelectionChanged struct {
	Rect geometry.Rect
}

// CropCommitted carries a selection to store as the crop region.
type CropCommitted struct {
	Region geometry.Rect
}

// CropCleared tells the host to drop any stored crop region.
type CropCleared struct{}

func (SelectionChanged) isCommand() {}
func (CropCommitted) isCommand()    {}
func (CropCleared) isCommand()      {}

// Controller owns the selection geometry and drag state for one image.
//
// It is a value type: Step returns an updated copy and never mutates its
// input. The zero Controller has no image and ignores every event; use
// NewController.
type Controller struct {
	mapper  geometry.Mapper
	hitSize float64

	selection    geometry.Rect
	hasSelection bool

	live    geometry.Rect
	hasLive bool

	drag DragState
}

// Option configures a Controller.
type Option func(*Controller)

// WithHitSize sets the side of the square hit zone around each handle, in
// screen units.
func WithHitSize(size float64) Option {
	return func(c *Controller) {
		if size > 0 {
			c.hitSize = size
		}
	}
}

// NewController returns an idle controller with no selection for an image of
// w x h pixels.
func NewController(w, h int, opts ...Option) Controller {
	c := Controller{
		mapper:  geometry.NewMapper(w, h),
		hitSize: DefaultHandleHitSize,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Reset drops the selection and any drag, and rebinds the controller to an
// image of w x h pixels.
func (c *Controller) Reset(w, h int) {
	c.mapper = geometry.NewMapper(w, h)
	c.hasSelection, c.hasLive = false, false
	c.selection, c.live = geometry.Rect{}, geometry.Rect{}
	c.drag = DragState{}
}

// Mapper returns the coordinate mapper for the bound image.
func (c Controller) Mapper() geometry.Mapper { return c.mapper }

// HitSize returns the handle hit-zone side in screen units.
func (c Controller) HitSize() float64 { return c.hitSize }

// Selection returns the committed selection, or nil.
func (c Controller) Selection() *geometry.Rect {
	if !c.hasSelection {
		return nil
	}
	r := c.selection
	return &r
}

// Live returns the selection being displayed: the in-progress rectangle while
// dragging, the committed one otherwise.
func (c Controller) Live() *geometry.Rect {
	if c.drag.Active && c.hasLive {
		r := c.live
		return &r
	}
	return c.Selection()
}

// Drag returns the current drag state.
func (c Controller) Drag() DragState { return c.drag }

// Dragging reports whether a drag is in progress.
func (c Controller) Dragging() bool { return c.drag.Active }

// SetSelection replaces the committed selection. The rectangle is clipped to
// the image; nil or an empty result clears the selection. Any drag in
// progress is abandoned.
func (c *Controller) SetSelection(r *geometry.Rect) {
	c.drag = DragState{}
	c.hasLive = false
	if r == nil {
		c.hasSelection = false
		c.selection = geometry.Rect{}
		return
	}
	clipped := r.ClipTo(c.mapper.ImageWidth, c.mapper.ImageHeight)
	if clipped.Empty() {
		c.hasSelection = false
		c.selection = geometry.Rect{}
		return
	}
	c.selection, c.hasSelection = clipped, true
}

// Step applies one event to c and returns the new controller together with
// the commands the host should carry out.
func Step(c Controller, ev Event) (Controller, []Command) {
	switch e := ev.(type) {
	case DragStart:
		return c.start(e)
	case DragMove:
		return c.move(e)
	case DragEnd:
		return c.end()
	default:
		return c, nil
	}
}

func (c Controller) start(e DragStart) (Controller, []Command) {
	var cmds []Command
	if c.drag.Active {
		// Missed release; finish the old drag before starting a new one.
		c, cmds = c.end()
	}

	handle := HitTest(c.mapper, e.Bounds, c.Selection(), e.Point, c.hitSize)
	anchor := c.mapper.ScreenToImage(e.Bounds, e.Point)

	switch {
	case handle != HandleNone:
		c.drag = DragState{Active: true, Handle: handle, Anchor: anchor, Original: c.selection}
	case e.Bounds.Contains(e.Point):
		// New selections grow from the press point with the anchor as the
		// fixed top-left corner.
		c.drag = DragState{
			Active:   true,
			Handle:   HandleBottomRight,
			Anchor:   anchor,
			Original: geometry.Rect{X: anchor.X, Y: anchor.Y},
		}
	default:
		return c, cmds
	}

	c.live, c.hasLive = c.drag.Original, true
	return c, append(cmds, SelectionChanged{Rect: c.live})
}

func (c Controller) move(e DragMove) (Controller, []Command) {
	if !c.drag.Active {
		return c, nil
	}
	p := c.mapper.ScreenToImage(e.Bounds, e.Point)
	c.live, c.hasLive = dragRect(c.drag, p, c.mapper), true
	return c, []Command{SelectionChanged{Rect: c.live}}
}

func (c Controller) end() (Controller, []Command) {
	if !c.drag.Active {
		return c, nil
	}
	live := c.live
	c.drag = DragState{}
	c.hasLive = false

	if live.Empty() {
		c.selection, c.hasSelection = geometry.Rect{}, false
		return c, []Command{CropCleared{}}
	}
	c.selection, c.hasSelection = live, true
	return c, []Command{CropCommitted{Region: live}}
}

// dragRect computes the rectangle for a drag that has reached image point p.
func dragRect(d DragState, p geometry.Point, m geometry.Mapper) geometry.Rect {
	o := d.Original
	if d.Handle == HandleMove {
		return o.Translate(p.X-d.Anchor.X, p.Y-d.Anchor.Y).ShiftInto(m.ImageWidth, m.ImageHeight)
	}

	left, top, right, bottom := o.X, o.Y, o.Right(), o.Bottom()
	if d.Handle.movesLeft() {
		left = p.X
	}
	if d.Handle.movesRight() {
		right = p.X
	}
	if d.Handle.movesTop() {
		top = p.Y
	}
	if d.Handle.movesBottom() {
		bottom = p.Y
	}
	return geometry.RectFromEdges(left, top, right, bottom)
}

// OnDragStart feeds a DragStart through Step and keeps the result.
func (c *Controller) OnDragStart(bounds geometry.Rect, p geometry.Point) []Command {
	var cmds []Command
	*c, cmds = Step(*c, DragStart{Bounds: bounds, Point: p})
	return cmds
}

// OnDragMove feeds a DragMove through Step and keeps the result.
func (c *Controller) OnDragMove(bounds geometry.Rect, p geometry.Point) []Command {
	var cmds []Command
	*c, cmds = Step(*c, DragMove{Bounds: bounds, Point: p})
	return cmds
}

// OnDragEnd feeds a DragEnd through Step and keeps the result.
func (c *Controller) OnDragEnd() []Command {
	var cmds []Command
	*c, cmds = Step(*c, DragEnd{})
	return cmds
}

// Cancel ends any drag as if the button had been released. Hosts call it
// when pointer capture is lost.
func (c *Controller) Cancel() []Command {
	return c.OnDragEnd()
}
