package edit

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ErrInvalidRegion is returned when a crop region is missing or does not fit
// the image it is applied to. Regions are never clamped to fit.
var ErrInvalidRegion = errors.New("invalid crop region")

// regionSlack is the float noise tolerated on region edges computed from
// pointer input.
const regionSlack = 1e-6

// Encoder writes an image to a path. The codec registry in the imaging
// package implements it.
type Encoder interface {
	Save(img image.Image, path string) error
}

// ApplyTransform returns a new image with t applied. Rotations exchange width
// and height; flips mirror one axis. An unknown transform returns img as is.
func ApplyTransform(img image.Image, t Transform) image.Image {
	switch t {
	case Rotate90:
		// imaging rotates counter-clockwise.
		return imaging.Rotate270(img)
	case Rotate180:
		return imaging.Rotate180(img)
	case Rotate270:
		return imaging.Rotate90(img)
	case FlipHorizontal:
		return imaging.FlipH(img)
	case FlipVertical:
		return imaging.FlipV(img)
	default:
		return img
	}
}

// ApplyTransforms folds ApplyTransform over ts from left to right. An empty
// list returns img unchanged.
func ApplyTransforms(img image.Image, ts []Transform) image.Image {
	for _, t := range ts {
		img = ApplyTransform(img, t)
	}
	return img
}

// PixelRect converts a region to whole pixels relative to the image origin,
// rounding each edge to the nearest pixel.
func PixelRect(r CropRegion) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.Right())),
		int(math.Round(r.Bottom())),
	)
}

// CropImage cuts region out of img. It fails with ErrInvalidRegion when the
// region is nil, reaches outside the image, or rounds to an empty rectangle.
func CropImage(img image.Image, region *CropRegion) (image.Image, error) {
	if region == nil {
		return nil, fmt.Errorf("%w: no region", ErrInvalidRegion)
	}
	bounds := img.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	r := *region

	if r.X < -regionSlack || r.Y < -regionSlack || r.W < 0 || r.H < 0 ||
		r.Right() > w+regionSlack || r.Bottom() > h+regionSlack {
		return nil, fmt.Errorf("%w: (%g,%g %gx%g) outside %dx%d image",
			ErrInvalidRegion, r.X, r.Y, r.W, r.H, bounds.Dx(), bounds.Dy())
	}

	px := PixelRect(r)
	if px.Empty() {
		return nil, fmt.Errorf("%w: (%g,%g %gx%g) is smaller than a pixel",
			ErrInvalidRegion, r.X, r.Y, r.W, r.H)
	}

	return imaging.Crop(img, px.Add(bounds.Min)), nil
}

// ApplyEdits runs the transforms of s over img and then, if s has a crop,
// cuts it. No partial result is returned on failure.
func ApplyEdits(img image.Image, s *State) (image.Image, error) {
	if s == nil {
		return img, nil
	}
	out := ApplyTransforms(img, s.Transforms)
	if s.Crop == nil {
		return out, nil
	}
	cropped, err := CropImage(out, s.Crop)
	if err != nil {
		return nil, fmt.Errorf("failed to apply edits: %w", err)
	}
	return cropped, nil
}

// SaveImage hands img to enc. Codec and I/O failures are returned wrapped
// but otherwise untouched.
func SaveImage(enc Encoder, img image.Image, path string) error {
	if err := enc.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
