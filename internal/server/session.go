package server

import (
	"fmt"
	"image"

	"github.com/google/uuid"

	"github.com/ironsheep/image-edit-mcp/internal/crop"
	"github.com/ironsheep/image-edit-mcp/internal/edit"
	"github.com/ironsheep/image-edit-mcp/internal/geometry"
)

// session is one image being edited. The controller is always bound to the
// dimensions of the source after the current transforms, so selection
// coordinates and the stored crop share one pixel space.
type session struct {
	ID     string
	Path   string
	source image.Image
	edits  *edit.State
	ctrl   crop.Controller
}

func (s *Server) openSession(path string, img image.Image) *session {
	b := img.Bounds()
	sess := &session{
		ID:     uuid.NewString(),
		Path:   path,
		source: img,
		edits:  edit.NewState(),
		ctrl:   crop.NewController(b.Dx(), b.Dy(), crop.WithHitSize(s.cfg.HandleHitSize)),
	}
	s.sessions[sess.ID] = sess
	s.debugf("session %s opened for %s (%dx%d)", sess.ID, path, b.Dx(), b.Dy())
	return sess
}

func (s *Server) lookupSession(id string) (*session, error) {
	if id == "" {
		return nil, fmt.Errorf("session_id is required")
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown session: %s", id)
	}
	return sess, nil
}

func (s *Server) closeSession(id string) bool {
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	path := s.sessions[id].Path
	delete(s.sessions, id)
	if s.navSession == id {
		s.navSession = ""
	}
	s.debugf("session %s closed", id)
	s.release(path)
	return true
}

// release drops path from the image cache unless an open session still
// edits it.
func (s *Server) release(path string) {
	for _, sess := range s.sessions {
		if sess.Path == path {
			return
		}
	}
	s.cache.Evict(path)
}

// size returns the dimensions of the source after the transforms.
func (sess *session) size() (int, int) {
	b := sess.source.Bounds()
	return sess.edits.TransformedSize(b.Dx(), b.Dy())
}

// apply carries out controller commands against the edit state.
func (sess *session) apply(cmds []crop.Command) {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case crop.CropCommitted:
			sess.edits.SetCrop(c.Region)
		case crop.CropCleared:
			sess.edits.ClearCrop()
		}
	}
}

// transformsChanged rebinds the controller to the new orientation. A crop
// drawn for the old orientation no longer lines up, so it is dropped.
func (sess *session) transformsChanged() {
	w, h := sess.size()
	sess.ctrl.Reset(w, h)
	sess.edits.ClearCrop()
}

// setCrop replaces the selection and keeps the stored crop in step with it.
func (sess *session) setCrop(r *geometry.Rect) {
	sess.ctrl.SetSelection(r)
	if sel := sess.ctrl.Selection(); sel != nil {
		sess.edits.SetCrop(*sel)
	} else {
		sess.edits.ClearCrop()
	}
}

// replaceSource makes img the new unedited source, as after a save.
func (sess *session) replaceSource(path string, img image.Image) {
	b := img.Bounds()
	sess.Path = path
	sess.source = img
	sess.edits = edit.NewState()
	sess.ctrl.Reset(b.Dx(), b.Dy())
}

// outputSize is the size edit_apply would produce.
func (sess *session) outputSize() (int, int) {
	if sess.edits.Crop != nil {
		px := edit.PixelRect(*sess.edits.Crop)
		return px.Dx(), px.Dy()
	}
	return sess.size()
}
