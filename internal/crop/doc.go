// Package crop implements the interactive crop-selection engine: hit-testing
// of the eight resize handles plus move, and the drag state machine that turns
// pointer events into selection geometry.
//
// # State Machine
//
// A Controller is driven by three events supplied by the host UI:
//
//   - DragStart: pointer pressed at a screen point
//   - DragMove: pointer moved while pressed
//   - DragEnd: pointer released (or capture lost)
//
// Step is a pure function from (Controller, Event) to (Controller, []Command);
// the host applies the emitted commands (re-render the live selection, store a
// committed CropRegion, clear it) and never touches DragState directly. The
// OnDragStart/OnDragMove/OnDragEnd methods are thin wrappers for hosts that
// prefer to keep a single mutable controller.
//
// # Geometry
//
// Selections are stored in image space. Pointer input arrives in screen space
// together with the display bounds of the image for the current frame, and
// is converted with a geometry.Mapper. Out-of-range pointer positions are
// clamped, never rejected, so no operation in this package can fail.
//
// # Rendering
//
// Nothing here draws. Overlay returns the selection rectangle and handle
// positions in screen space, and Cursor maps a handle to the pointer style a
// renderer should show.
//
// # Thread Safety
//
// A Controller is a plain value with no internal locking. It belongs to the
// event-handling goroutine of its host.
package crop
