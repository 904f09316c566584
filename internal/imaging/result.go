package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ImageResult is an image returned inline to an MCP client.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeResult PNG-encodes img as base64, optionally rescaled first.
//
// A scale of 0 or 1 leaves the size unchanged; other positive values resize
// with Lanczos resampling. Negative scales are rejected.
func EncodeResult(img image.Image, scale float64) (*ImageResult, error) {
	if scale < 0 {
		return nil, fmt.Errorf("invalid scale %g: must be positive", scale)
	}

	if scale != 0 && scale != 1.0 {
		newWidth := int(float64(img.Bounds().Dx()) * scale)
		newHeight := int(float64(img.Bounds().Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %g shrinks %dx%d image to nothing", scale, img.Bounds().Dx(), img.Bounds().Dy())
		}
		img = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	return &ImageResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// FitWidth returns img resized to the given width, keeping the aspect ratio.
// Images already at most that wide are returned unchanged.
func FitWidth(img image.Image, width int) image.Image {
	if width <= 0 || img.Bounds().Dx() <= width {
		return img
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}
