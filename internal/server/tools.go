package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var sessionIDProp = map[string]interface{}{
	"type":        "string",
	"description": "Session id returned by image_load or nav_open",
}

var boundsProp = map[string]interface{}{
	"type":        "object",
	"description": "Screen rectangle the image is displayed in. Scale is width/image_width.",
	"properties": map[string]interface{}{
		"x":      map[string]interface{}{"type": "number"},
		"y":      map[string]interface{}{"type": "number"},
		"width":  map[string]interface{}{"type": "number"},
		"height": map[string]interface{}{"type": "number"},
	},
	"required": []string{"x", "y", "width", "height"},
}

var transformNames = []string{"rotate90", "rotate180", "rotate270", "flip_horizontal", "flip_vertical"}

// sessionOnly is the schema for tools that take just a session id.
func sessionOnly() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": sessionIDProp,
		},
		"required": []string{"session_id"},
	}
}

// pointerSchema is the schema for tools that take a screen point.
func pointerSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": sessionIDProp,
			"bounds":     boundsProp,
			"x": map[string]interface{}{
				"type":        "number",
				"description": "Pointer X in screen coordinates",
			},
			"y": map[string]interface{}{
				"type":        "number",
				"description": "Pointer Y in screen coordinates",
			},
		},
		"required": []string{"session_id", "bounds", "x", "y"},
	}
}

func navSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Sessions
		{
			Name:        "image_load",
			Description: "Load an image file and open an edit session for it. Returns the session id and image metadata.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "session_close",
			Description: "Close an edit session and discard its unsaved edits.",
			InputSchema: sessionOnly(),
		},

		// Directory Navigation
		{
			Name:        "nav_open",
			Description: "List the supported images in a directory and load one into the navigation session.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the directory",
					},
					"select": map[string]interface{}{
						"type":        "string",
						"description": "Optional file name or path to start on. Defaults to the first image.",
					},
				},
				"required": []string{"dir"},
			},
		},
		{
			Name:        "nav_next",
			Description: "Load the next image in the directory, wrapping to the first. Discards unsaved edits.",
			InputSchema: navSchema(),
		},
		{
			Name:        "nav_prev",
			Description: "Load the previous image in the directory, wrapping to the last. Discards unsaved edits.",
			InputSchema: navSchema(),
		},
		{
			Name:        "nav_first",
			Description: "Load the first image in the directory.",
			InputSchema: navSchema(),
		},
		{
			Name:        "nav_last",
			Description: "Load the last image in the directory.",
			InputSchema: navSchema(),
		},
		{
			Name:        "nav_goto",
			Description: "Load the image at a 0-based index in the directory listing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "0-based position in the listing",
					},
				},
				"required": []string{"index"},
			},
		},

		// Crop Selection
		{
			Name:        "crop_drag_start",
			Description: "Press the pointer at a screen point. Grabs a handle of the current selection, or starts a new selection if the point is on the image.",
			InputSchema: pointerSchema(),
		},
		{
			Name:        "crop_drag_move",
			Description: "Move the pointer while pressed. Updates the live selection.",
			InputSchema: pointerSchema(),
		},
		{
			Name:        "crop_drag_end",
			Description: "Release the pointer. Commits the live selection as the crop, or clears the crop if the selection has no area.",
			InputSchema: sessionOnly(),
		},
		{
			Name:        "crop_hit_test",
			Description: "Report which handle is under a screen point and the cursor to show for it.",
			InputSchema: pointerSchema(),
		},
		{
			Name:        "crop_set",
			Description: "Set the crop rectangle directly, in pixels of the transformed image. The rectangle must lie inside the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProp,
					"x":          map[string]interface{}{"type": "number", "description": "Left edge"},
					"y":          map[string]interface{}{"type": "number", "description": "Top edge"},
					"width":      map[string]interface{}{"type": "number", "description": "Width in pixels"},
					"height":     map[string]interface{}{"type": "number", "description": "Height in pixels"},
				},
				"required": []string{"session_id", "x", "y", "width", "height"},
			},
		},
		{
			Name:        "crop_auto",
			Description: "Detect the content of the transformed image with edge detection and set the crop to its bounding box. Trims uniform borders such as scanner beds.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProp,
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Low edge threshold (0-255). Default 50",
						"default":     50,
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "High edge threshold (0-255). Default 150",
						"default":     150,
					},
					"inset": map[string]interface{}{
						"type":        "number",
						"description": "Fraction to shrink the detected box by. Default 0.005",
						"default":     0.005,
					},
				},
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "crop_clear",
			Description: "Remove the crop rectangle.",
			InputSchema: sessionOnly(),
		},

		// Transforms
		{
			Name:        "transform_add",
			Description: "Append a rotation or flip to the edit. Changing the orientation clears the crop.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProp,
					"transform": map[string]interface{}{
						"type":        "string",
						"enum":        transformNames,
						"description": "rotate90 is a clockwise quarter turn",
					},
				},
				"required": []string{"session_id", "transform"},
			},
		},
		{
			Name:        "transform_remove",
			Description: "Remove the transform at an index. Clears the crop.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProp,
					"index":      map[string]interface{}{"type": "integer", "description": "0-based index"},
				},
				"required": []string{"session_id", "index"},
			},
		},
		{
			Name:        "transform_move",
			Description: "Move a transform to a new position in the list. Clears the crop.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProp,
					"from":       map[string]interface{}{"type": "integer", "description": "Current 0-based index"},
					"to":         map[string]interface{}{"type": "integer", "description": "New 0-based index"},
				},
				"required": []string{"session_id", "from", "to"},
			},
		},
		{
			Name:        "transform_clear",
			Description: "Remove every transform. Clears the crop.",
			InputSchema: sessionOnly(),
		},

		// Edit Output
		{
			Name:        "edit_state",
			Description: "Return the transforms, crop and resulting output size of a session.",
			InputSchema: sessionOnly(),
		},
		{
			Name:        "edit_preview",
			Description: "Render the transformed image with the crop overlay (dimmed outside the selection, border and handles) as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProp,
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum preview width in pixels. Defaults to the server setting.",
					},
				},
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "edit_apply",
			Description: "Apply the transforms and crop and return the result as base64 PNG without saving.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProp,
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the returned image. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "edit_save",
			Description: "Apply the edits and write the result. The format follows the file extension (png, jpg, gif, bmp, tif, webp). The session continues on the saved image with no pending edits.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProp,
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute output path. Defaults to overwriting the source file.",
					},
				},
				"required": []string{"session_id"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
