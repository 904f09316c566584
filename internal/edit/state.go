package edit

import (
	"errors"
	"fmt"

	"github.com/ironsheep/image-edit-mcp/internal/geometry"
)

// CropRegion is a crop rectangle in image-pixel space of the transformed
// image.
type CropRegion = geometry.Rect

// ErrIndexOutOfRange is returned by State mutators given a bad index.
var ErrIndexOutOfRange = errors.New("transform index out of range")

// State is the edit recipe for one image.
type State struct {
	Transforms []Transform  `json:"transforms"`
	Crop       *CropRegion `json:"crop,omitempty"`
}

// NewState returns an empty recipe.
func NewState() *State {
	return &State{Transforms: []Transform{}}
}

// Append adds t to the end of the transform list.
func (s *State) Append(t Transform) {
	s.Transforms = append(s.Transforms, t)
}

// Remove deletes the transform at index i.
func (s *State) Remove(i int) error {
	if i < 0 || i >= len(s.Transforms) {
		return fmt.Errorf("remove %d of %d: %w", i, len(s.Transforms), ErrIndexOutOfRange)
	}
	s.Transforms = append(s.Transforms[:i], s.Transforms[i+1:]...)
	return nil
}

// Move relocates the transform at index from so it ends up at index to,
// shifting the ones in between.
func (s *State) Move(from, to int) error {
	n := len(s.Transforms)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d to %d of %d: %w", from, to, n, ErrIndexOutOfRange)
	}
	if from == to {
		return nil
	}
	t := s.Transforms[from]
	s.Transforms = append(s.Transforms[:from], s.Transforms[from+1:]...)
	s.Transforms = append(s.Transforms[:to], append([]Transform{t}, s.Transforms[to:]...)...)
	return nil
}

// ClearTransforms empties the transform list.
func (s *State) ClearTransforms() {
	s.Transforms = s.Transforms[:0]
}

// SetCrop stores a copy of r as the crop region.
func (s *State) SetCrop(r CropRegion) {
	s.Crop = &r
}

// ClearCrop removes the crop region.
func (s *State) ClearCrop() {
	s.Crop = nil
}

// IsEmpty reports whether applying s would leave an image unchanged.
func (s *State) IsEmpty() bool {
	return len(s.Transforms) == 0 && s.Crop == nil
}

// Clone returns a deep copy, safe to hand to another goroutine.
func (s *State) Clone() *State {
	c := &State{Transforms: make([]Transform, len(s.Transforms))}
	copy(c.Transforms, s.Transforms)
	if s.Crop != nil {
		r := *s.Crop
		c.Crop = &r
	}
	return c
}

// TransformedSize returns the dimensions of a w x h image after the
// transforms have run, ignoring the crop.
func (s *State) TransformedSize(w, h int) (int, int) {
	for _, t := range s.Transforms {
		if t.SwapsDimensions() {
			w, h = h, w
		}
	}
	return w, h
}
