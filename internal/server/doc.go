// Package server implements the MCP (Model Context Protocol) server for
// interactive crop and transform editing.
//
// This package provides a JSON-RPC 2.0 server that lets an MCP client drive
// the same crop workflow a pointer-driven editor would: press, drag and
// release on a displayed image, stack rotations and flips, preview the
// result with the crop overlay, and save.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Sessions
//
// image_load and the nav_* tools open a session: one source image, its
// transform list and crop, and the crop controller bound to the image's
// size after the transforms. All selection coordinates are pixels of that
// transformed image. Changing the transform list drops the crop.
//
// Pointer tools take the screen rectangle the image is displayed in
// ("bounds"). The scale is bounds.width / image width; pointer positions
// are clamped onto the image before use.
//
// # Available Tools
//
// Image Sessions:
//   - image_load, image_dimensions, session_close
//
// Directory Navigation:
//   - nav_open, nav_next, nav_prev, nav_first, nav_last, nav_goto
//
// Crop Selection:
//   - crop_drag_start, crop_drag_move, crop_drag_end
//   - crop_hit_test, crop_set, crop_clear, crop_auto
//
// Transforms:
//   - transform_add, transform_remove, transform_move, transform_clear
//
// Edit Output:
//   - edit_state, edit_preview, edit_apply, edit_save
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(cfg).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
