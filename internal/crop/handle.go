package crop

import (
	"fmt"
	"strings"
)

// Handle identifies one of the interaction zones over a selection.
type Handle int

// The zones, in no particular order. HandleNone means nothing was hit.
const (
	HandleNone Handle = iota
	HandleMove
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
	HandleTop
	HandleBottom
	HandleLeft
	HandleRight
)

var handleNames = map[Handle]string{
	HandleNone:        "none",
	HandleMove:        "move",
	HandleTopLeft:     "top_left",
	HandleTopRight:    "top_right",
	HandleBottomLeft:  "bottom_left",
	HandleBottomRight: "bottom_right",
	HandleTop:         "top",
	HandleBottom:      "bottom",
	HandleLeft:        "left",
	HandleRight:       "right",
}

func (h Handle) String() string {
	if name, ok := handleNames[h]; ok {
		return name
	}
	return fmt.Sprintf("handle(%d)", int(h))
}

// MarshalText implements encoding.TextMarshaler.
func (h Handle) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Handle) UnmarshalText(b []byte) error {
	s := strings.ToLower(string(b))
	for k, v := range handleNames {
		if v == s {
			*h = k
			return nil
		}
	}
	return fmt.Errorf("unknown handle: %q", string(b))
}

// movesLeft reports whether dragging h moves the left edge.
func (h Handle) movesLeft() bool {
	return h == HandleTopLeft || h == HandleBottomLeft || h == HandleLeft
}

func (h Handle) movesRight() bool {
	return h == HandleTopRight || h == HandleBottomRight || h == HandleRight
}

func (h Handle) movesTop() bool {
	return h == HandleTopLeft || h == HandleTopRight || h == HandleTop
}

func (h Handle) movesBottom() bool {
	return h == HandleBottomLeft || h == HandleBottomRight || h == HandleBottom
}

// CursorStyle is the pointer shape a renderer should show for a handle.
type CursorStyle int

const (
	CursorDefault CursorStyle = iota
	CursorCrosshair
	CursorResizeDiagonalDown
	CursorResizeDiagonalUp
	CursorResizeVertical
	CursorResizeHorizontal
	CursorGrabbing
)

var cursorNames = [...]string{
	CursorDefault:            "default",
	CursorCrosshair:          "crosshair",
	CursorResizeDiagonalDown: "resize_diagonal_down",
	CursorResizeDiagonalUp:   "resize_diagonal_up",
	CursorResizeVertical:     "resize_vertical",
	CursorResizeHorizontal:   "resize_horizontal",
	CursorGrabbing:           "grabbing",
}

func (c CursorStyle) String() string {
	if int(c) >= 0 && int(c) < len(cursorNames) {
		return cursorNames[c]
	}
	return fmt.Sprintf("cursor(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c CursorStyle) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Cursor returns the pointer style for a handle. HandleNone maps to a
// crosshair because a press there starts a new selection.
func Cursor(h Handle) CursorStyle {
	switch h {
	case HandleTopLeft, HandleBottomRight:
		return CursorResizeDiagonalDown
	case HandleTopRight, HandleBottomLeft:
		return CursorResizeDiagonalUp
	case HandleTop, HandleBottom:
		return CursorResizeVertical
	case HandleLeft, HandleRight:
		return CursorResizeHorizontal
	case HandleMove:
		return CursorGrabbing
	default:
		return CursorCrosshair
	}
}
