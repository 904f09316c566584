package server

import (
	"encoding/json"
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/image-edit-mcp/internal/crop"
	"github.com/ironsheep/image-edit-mcp/internal/edit"
	"github.com/ironsheep/image-edit-mcp/internal/geometry"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "crop_drag_start").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.debugf("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": s.mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Looks up the session or loads images from cache as needed
//  4. Drives the crop controller or the edit pipeline
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Image Sessions
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "session_close":
		return s.handleSessionClose(args)

	// Directory Navigation
	case "nav_open":
		return s.handleNavOpen(args)
	case "nav_next":
		return s.navigate(s.nav.Next)
	case "nav_prev":
		return s.navigate(s.nav.Prev)
	case "nav_first":
		return s.navigate(s.nav.First)
	case "nav_last":
		return s.navigate(s.nav.Last)
	case "nav_goto":
		return s.handleNavGoTo(args)

	// Crop Selection
	case "crop_drag_start":
		return s.handleCropDragStart(args)
	case "crop_drag_move":
		return s.handleCropDragMove(args)
	case "crop_drag_end":
		return s.handleCropDragEnd(args)
	case "crop_hit_test":
		return s.handleCropHitTest(args)
	case "crop_set":
		return s.handleCropSet(args)
	case "crop_clear":
		return s.handleCropClear(args)
	case "crop_auto":
		return s.handleCropAuto(args)

	// Transforms
	case "transform_add":
		return s.handleTransformAdd(args)
	case "transform_remove":
		return s.handleTransformRemove(args)
	case "transform_move":
		return s.handleTransformMove(args)
	case "transform_clear":
		return s.handleTransformClear(args)

	// Edit Output
	case "edit_state":
		return s.handleEditState(args)
	case "edit_preview":
		return s.handleEditPreview(args)
	case "edit_apply":
		return s.handleEditApply(args)
	case "edit_save":
		return s.handleEditSave(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it logs the error and returns an empty string.
func (s *Server) mustMarshalJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.debugf("marshal result: %v", err)
		return ""
	}
	return string(b)
}

// sessionArgs is embedded by every tool that operates on a session.
type sessionArgs struct {
	SessionID string `json:"session_id"`
}

func (s *Server) sessionFrom(args json.RawMessage) (*session, error) {
	var a sessionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.lookupSession(a.SessionID)
}

// === Image Session Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

type sessionResult struct {
	SessionID string             `json:"session_id"`
	Image     *imaging.ImageInfo `json:"image"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	sess := s.openSession(a.Path, img)
	return &sessionResult{SessionID: sess.ID, Image: info}, nil
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	dims, err := imaging.GetDimensions(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	s.release(a.Path)
	return dims, nil
}

func (s *Server) handleSessionClose(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if !s.closeSession(a.SessionID) {
		return nil, fmt.Errorf("unknown session: %s", a.SessionID)
	}
	return map[string]interface{}{"session_id": a.SessionID, "closed": true}, nil
}

// === Directory Navigation Handlers ===

type navOpenArgs struct {
	Dir    string `json:"dir"`
	Select string `json:"select"`
}

type navResult struct {
	SessionID string             `json:"session_id"`
	Dir       string             `json:"dir"`
	Index     int                `json:"index"`
	Count     int                `json:"count"`
	Image     *imaging.ImageInfo `json:"image"`
}

func (s *Server) handleNavOpen(args json.RawMessage) (interface{}, error) {
	var a navOpenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	if err := s.nav.Open(a.Dir, s.codecs.Supports, a.Select); err != nil {
		return nil, err
	}
	return s.navigate(s.nav.Current)
}

type navGoToArgs struct {
	Index int `json:"index"`
}

func (s *Server) handleNavGoTo(args json.RawMessage) (interface{}, error) {
	var a navGoToArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if s.nav.Len() > 0 && (a.Index < 0 || a.Index >= s.nav.Len()) {
		return nil, fmt.Errorf("index %d out of range [0, %d)", a.Index, s.nav.Len())
	}
	return s.navigate(func() (string, bool) { return s.nav.GoTo(a.Index) })
}

// navigate moves the navigator and loads the resulting image into a fresh
// navigation session, discarding the previous one.
func (s *Server) navigate(step func() (string, bool)) (interface{}, error) {
	if s.nav.Dir() == "" {
		return nil, fmt.Errorf("no directory open: call nav_open first")
	}
	path, ok := step()
	if !ok {
		return nil, fmt.Errorf("no supported images in %s", s.nav.Dir())
	}

	info, err := imaging.LoadImageInfo(s.cache, path)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}

	prev := s.navSession
	sess := s.openSession(path, img)
	s.navSession = sess.ID
	if prev != "" {
		s.closeSession(prev)
	}

	return &navResult{
		SessionID: sess.ID,
		Dir:       s.nav.Dir(),
		Index:     s.nav.Index(),
		Count:     s.nav.Len(),
		Image:     info,
	}, nil
}

// === Crop Selection Handlers ===

type pointerArgs struct {
	SessionID string        `json:"session_id"`
	Bounds    geometry.Rect `json:"bounds"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
}

func (a *pointerArgs) point() geometry.Point {
	return geometry.Pt(a.X, a.Y)
}

func parsePointer(args json.RawMessage) (*pointerArgs, error) {
	var a pointerArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Bounds.Empty() {
		return nil, fmt.Errorf("bounds must have positive width and height")
	}
	return &a, nil
}

// commandResult is the JSON form of a controller command.
type commandResult struct {
	Type string         `json:"type"`
	Rect *geometry.Rect `json:"rect,omitempty"`
}

func describeCommands(cmds []crop.Command) []commandResult {
	out := make([]commandResult, 0, len(cmds))
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case crop.SelectionChanged:
			r := c.Rect
			out = append(out, commandResult{Type: "selection_changed", Rect: &r})
		case crop.CropCommitted:
			r := c.Region
			out = append(out, commandResult{Type: "crop_committed", Rect: &r})
		case crop.CropCleared:
			out = append(out, commandResult{Type: "crop_cleared"})
		}
	}
	return out
}

type selectionResult struct {
	SessionID string           `json:"session_id"`
	Selection *geometry.Rect   `json:"selection"`
	Crop      *edit.CropRegion `json:"crop"`
	Dragging  bool             `json:"dragging"`
	Handle    crop.Handle      `json:"handle"`
	Commands  []commandResult  `json:"commands"`
}

func selectionOf(sess *session, cmds []crop.Command) *selectionResult {
	return &selectionResult{
		SessionID: sess.ID,
		Selection: sess.ctrl.Live(),
		Crop:      sess.edits.Crop,
		Dragging:  sess.ctrl.Dragging(),
		Handle:    sess.ctrl.Drag().Handle,
		Commands:  describeCommands(cmds),
	}
}

func (s *Server) handleCropDragStart(args json.RawMessage) (interface{}, error) {
	a, err := parsePointer(args)
	if err != nil {
		return nil, err
	}
	sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}
	cmds := sess.ctrl.OnDragStart(a.Bounds, a.point())
	sess.apply(cmds)
	return selectionOf(sess, cmds), nil
}

func (s *Server) handleCropDragMove(args json.RawMessage) (interface{}, error) {
	a, err := parsePointer(args)
	if err != nil {
		return nil, err
	}
	sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}
	cmds := sess.ctrl.OnDragMove(a.Bounds, a.point())
	sess.apply(cmds)
	return selectionOf(sess, cmds), nil
}

func (s *Server) handleCropDragEnd(args json.RawMessage) (interface{}, error) {
	sess, err := s.sessionFrom(args)
	if err != nil {
		return nil, err
	}
	cmds := sess.ctrl.OnDragEnd()
	sess.apply(cmds)
	return selectionOf(sess, cmds), nil
}

type hitTestResult struct {
	Handle crop.Handle      `json:"handle"`
	Cursor crop.CursorStyle `json:"cursor"`
}

func (s *Server) handleCropHitTest(args json.RawMessage) (interface{}, error) {
	a, err := parsePointer(args)
	if err != nil {
		return nil, err
	}
	sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}
	h := crop.HitTest(sess.ctrl.Mapper(), a.Bounds, sess.ctrl.Selection(), a.point(), sess.ctrl.HitSize())
	return &hitTestResult{
		Handle: h,
		Cursor: sess.ctrl.CursorAt(a.Bounds, a.point()),
	}, nil
}

type cropSetArgs struct {
	SessionID string  `json:"session_id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

func (s *Server) handleCropSet(args json.RawMessage) (interface{}, error) {
	var a cropSetArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}
	if a.Width <= 0 || a.Height <= 0 {
		return nil, fmt.Errorf("%w: width and height must be positive", edit.ErrInvalidRegion)
	}
	r := geometry.Rect{X: a.X, Y: a.Y, W: a.Width, H: a.Height}
	w, h := sess.size()
	if !r.Within(float64(w), float64(h)) {
		return nil, fmt.Errorf("%w: rectangle (%g,%g %gx%g) extends outside the %dx%d image",
			edit.ErrInvalidRegion, r.X, r.Y, r.W, r.H, w, h)
	}
	sess.setCrop(&r)
	return selectionOf(sess, nil), nil
}

func (s *Server) handleCropClear(args json.RawMessage) (interface{}, error) {
	sess, err := s.sessionFrom(args)
	if err != nil {
		return nil, err
	}
	sess.setCrop(nil)
	return selectionOf(sess, nil), nil
}

type cropAutoArgs struct {
	SessionID     string  `json:"session_id"`
	ThresholdLow  int     `json:"threshold_low"`
	ThresholdHigh int     `json:"threshold_high"`
	Inset         float64 `json:"inset"`
}

func (s *Server) handleCropAuto(args json.RawMessage) (interface{}, error) {
	var a cropAutoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}

	opts := imaging.DefaultAutoCropOptions()
	if a.ThresholdLow != 0 {
		opts.ThresholdLow = a.ThresholdLow
	}
	if a.ThresholdHigh != 0 {
		opts.ThresholdHigh = a.ThresholdHigh
	}
	if a.Inset != 0 {
		opts.Inset = a.Inset
	}

	view := edit.ApplyTransforms(sess.source, sess.edits.Transforms)
	r, err := imaging.ContentBounds(view, opts)
	if err != nil {
		return nil, err
	}
	sess.setCrop(&geometry.Rect{
		X: float64(r.Min.X),
		Y: float64(r.Min.Y),
		W: float64(r.Dx()),
		H: float64(r.Dy()),
	})
	return selectionOf(sess, nil), nil
}

// === Transform Handlers ===

type transformAddArgs struct {
	SessionID string `json:"session_id"`
	Transform string `json:"transform"`
}

func (s *Server) handleTransformAdd(args json.RawMessage) (interface{}, error) {
	var a transformAddArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}
	t, err := edit.ParseTransform(a.Transform)
	if err != nil {
		return nil, err
	}
	sess.edits.Append(t)
	sess.transformsChanged()
	return editStateOf(sess), nil
}

type transformRemoveArgs struct {
	SessionID string `json:"session_id"`
	Index     int    `json:"index"`
}

func (s *Server) handleTransformRemove(args json.RawMessage) (interface{}, error) {
	var a transformRemoveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.edits.Remove(a.Index); err != nil {
		return nil, err
	}
	sess.transformsChanged()
	return editStateOf(sess), nil
}

type transformMoveArgs struct {
	SessionID string `json:"session_id"`
	From      int    `json:"from"`
	To        int    `json:"to"`
}

func (s *Server) handleTransformMove(args json.RawMessage) (interface{}, error) {
	var a transformMoveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.edits.Move(a.From, a.To); err != nil {
		return nil, err
	}
	sess.transformsChanged()
	return editStateOf(sess), nil
}

func (s *Server) handleTransformClear(args json.RawMessage) (interface{}, error) {
	sess, err := s.sessionFrom(args)
	if err != nil {
		return nil, err
	}
	sess.edits.ClearTransforms()
	sess.transformsChanged()
	return editStateOf(sess), nil
}

// === Edit Output Handlers ===

type editStateResult struct {
	SessionID    string           `json:"session_id"`
	Path         string           `json:"path"`
	Width        int              `json:"width"`
	Height       int              `json:"height"`
	Transforms   []edit.Transform `json:"transforms"`
	Crop         *edit.CropRegion `json:"crop"`
	OutputWidth  int              `json:"output_width"`
	OutputHeight int              `json:"output_height"`
}

func editStateOf(sess *session) *editStateResult {
	b := sess.source.Bounds()
	ow, oh := sess.outputSize()
	ts := append([]edit.Transform{}, sess.edits.Transforms...)
	return &editStateResult{
		SessionID:    sess.ID,
		Path:         sess.Path,
		Width:        b.Dx(),
		Height:       b.Dy(),
		Transforms:   ts,
		Crop:         sess.edits.Crop,
		OutputWidth:  ow,
		OutputHeight: oh,
	}
}

func (s *Server) handleEditState(args json.RawMessage) (interface{}, error) {
	sess, err := s.sessionFrom(args)
	if err != nil {
		return nil, err
	}
	return editStateOf(sess), nil
}

type editPreviewArgs struct {
	SessionID string `json:"session_id"`
	Width     int    `json:"width"`
}

type previewResult struct {
	*imaging.ImageResult
	Overlay crop.Overlay `json:"overlay"`
}

func (s *Server) handleEditPreview(args json.RawMessage) (interface{}, error) {
	var a editPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Width == 0 {
		a.Width = s.cfg.PreviewWidth
	}
	if a.Width < 0 {
		return nil, fmt.Errorf("invalid width %d: must be positive", a.Width)
	}
	sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}

	view := imaging.FitWidth(edit.ApplyTransforms(sess.source, sess.edits.Transforms), a.Width)
	vb := view.Bounds()
	bounds := geometry.Rect{W: float64(vb.Dx()), H: float64(vb.Dy())}
	overlay := sess.ctrl.Overlay(bounds, s.cfg.HandleSize)

	rendered, err := imaging.RenderOverlay(view, overlaySpec(overlay), imaging.OverlayStyle{
		Dim:         s.cfg.OverlayDim,
		BorderColor: s.cfg.BorderColor,
		HandleColor: s.cfg.HandleColor,
		BorderWidth: imaging.DefaultOverlayStyle().BorderWidth,
	})
	if err != nil {
		return nil, err
	}
	res, err := imaging.EncodeResult(rendered, 1.0)
	if err != nil {
		return nil, err
	}
	return &previewResult{ImageResult: res, Overlay: overlay}, nil
}

// overlaySpec snaps the screen-space overlay to pixels of the preview.
func overlaySpec(o crop.Overlay) imaging.OverlaySpec {
	var spec imaging.OverlaySpec
	if o.Selection != nil {
		r := screenPixels(*o.Selection)
		spec.Selection = &r
	}
	for _, h := range o.Handles {
		spec.Handles = append(spec.Handles, screenPixels(h.Rect))
	}
	return spec
}

func screenPixels(r geometry.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.Right())),
		int(math.Round(r.Bottom())),
	)
}

type editApplyArgs struct {
	SessionID string  `json:"session_id"`
	Scale     float64 `json:"scale"`
}

func (s *Server) handleEditApply(args json.RawMessage) (interface{}, error) {
	var a editApplyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}
	out, err := edit.ApplyEdits(sess.source, sess.edits.Clone())
	if err != nil {
		return nil, err
	}
	return imaging.EncodeResult(out, a.Scale)
}

type editSaveArgs struct {
	SessionID string `json:"session_id"`
	Path      string `json:"path"`
}

type saveResult struct {
	SessionID string `json:"session_id"`
	Path      string `json:"path"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

func (s *Server) handleEditSave(args json.RawMessage) (interface{}, error) {
	var a editSaveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}
	if a.Path == "" {
		a.Path = sess.Path
	}
	if !s.codecs.Supports(a.Path) {
		return nil, fmt.Errorf("%w: %s", imaging.ErrUnsupportedFormat, a.Path)
	}

	out, err := edit.ApplyEdits(sess.source, sess.edits.Clone())
	if err != nil {
		return nil, err
	}
	if err := edit.SaveImage(s.codecs, out, a.Path); err != nil {
		return nil, err
	}
	s.cache.Evict(a.Path)
	prevPath := sess.Path
	sess.replaceSource(a.Path, out)
	s.release(prevPath)
	s.debugf("session %s saved to %s", sess.ID, a.Path)

	b := out.Bounds()
	return &saveResult{
		SessionID: sess.ID,
		Path:      a.Path,
		Format:    s.codecs.FormatOf(a.Path),
		Width:     b.Dx(),
		Height:    b.Dy(),
	}, nil
}
