package imaging

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// ErrNoContent is returned by ContentBounds when no edges are found.
var ErrNoContent = errors.New("no content edges found")

// AutoCropOptions tunes ContentBounds.
type AutoCropOptions struct {
	// ThresholdLow and ThresholdHigh are the hysteresis thresholds (0-255).
	// Gradients above ThresholdHigh are strong edges; those between the two
	// are kept only next to a strong edge.
	ThresholdLow  int
	ThresholdHigh int

	// Inset shrinks the detected box about its centre by this fraction of
	// its size, trimming the soft border left by the blur.
	Inset float64

	// AnalysisWidth caps the width the detector works at. Wider images are
	// downscaled first and the result scaled back.
	AnalysisWidth int
}

// DefaultAutoCropOptions returns thresholds suited to scans and screenshots.
func DefaultAutoCropOptions() AutoCropOptions {
	return AutoCropOptions{
		ThresholdLow:  50,
		ThresholdHigh: 150,
		Inset:         0.005,
		AnalysisWidth: 512,
	}
}

// ContentBounds returns the smallest rectangle, relative to the image
// origin, that holds every detected edge of img. Uniform borders such as
// scanner beds or letterboxing fall outside it.
//
// # Algorithm
//
//  1. Downscale to AnalysisWidth
//  2. Grayscale and 5x5 Gaussian blur
//  3. Sobel gradients, then non-maximum suppression
//  4. Hysteresis thresholding into an edge mask
//  5. Bounding box of the mask, inset and scaled back to full size
func ContentBounds(img image.Image, opts AutoCropOptions) (image.Rectangle, error) {
	if opts.ThresholdLow < 0 || opts.ThresholdHigh > 255 || opts.ThresholdLow > opts.ThresholdHigh {
		return image.Rectangle{}, fmt.Errorf("invalid thresholds %d/%d: want 0 <= low <= high <= 255", opts.ThresholdLow, opts.ThresholdHigh)
	}
	if opts.Inset < 0 || opts.Inset >= 1 {
		return image.Rectangle{}, fmt.Errorf("invalid inset %g: want [0, 1)", opts.Inset)
	}

	full := img.Bounds()
	work := img
	if opts.AnalysisWidth > 0 && full.Dx() > opts.AnalysisWidth {
		work = imaging.Resize(img, opts.AnalysisWidth, 0, imaging.Box)
	}
	wb := work.Bounds()

	mask := edgeMask(work, opts.ThresholdLow, opts.ThresholdHigh)
	minX, minY, maxX, maxY := wb.Dx(), wb.Dy(), -1, -1
	for y, row := range mask {
		for x, edge := range row {
			if !edge {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, ErrNoContent
	}

	sx := float64(full.Dx()) / float64(wb.Dx())
	sy := float64(full.Dy()) / float64(wb.Dy())
	left := float64(minX) * sx
	top := float64(minY) * sy
	right := float64(maxX+1) * sx
	bottom := float64(maxY+1) * sy

	if opts.Inset > 0 {
		dx := (right - left) * opts.Inset / 2
		dy := (bottom - top) * opts.Inset / 2
		left, right = left+dx, right-dx
		top, bottom = top+dy, bottom-dy
	}

	r := image.Rect(
		clamp(int(math.Floor(left)), 0, full.Dx()),
		clamp(int(math.Floor(top)), 0, full.Dy()),
		clamp(int(math.Ceil(right)), 0, full.Dx()),
		clamp(int(math.Ceil(bottom)), 0, full.Dy()),
	)
	if r.Empty() {
		return image.Rectangle{}, ErrNoContent
	}
	return r, nil
}

// edgeMask runs Canny-style edge detection and reports edge pixels as true.
// The mask is indexed [y][x] from the image origin.
func edgeMask(img image.Image, thresholdLow, thresholdHigh int) [][]bool {
	gray := blur.Gaussian(effect.Grayscale(img), 1.4)
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	lum := make([][]float64, height)
	for y := 0; y < height; y++ {
		lum[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			r, _, _, _ := gray.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			lum[y][x] = float64(r>>8) / 255.0
		}
	}

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	magnitude := make([][]float64, height)
	direction := make([][]float64, height)
	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)

		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					gx += lum[py][px] * sobelX[ky+1][kx+1]
					gy += lum[py][px] * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression
	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if y == 0 || y == height-1 || x == 0 || x == width-1 {
				continue
			}

			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8):
				n1, n2 = magnitude[y][x-1], magnitude[y][x+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[y-1][x+1], magnitude[y+1][x-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[y-1][x], magnitude[y+1][x]
			default:
				n1, n2 = magnitude[y-1][x-1], magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	// Double threshold and edge tracking by hysteresis
	lowThresh := float64(thresholdLow) / 255.0
	highThresh := float64(thresholdHigh) / 255.0
	mask := make([][]bool, height)
	for y := 0; y < height; y++ {
		mask[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			val := suppressed[y][x]
			if val >= highThresh && val > 0 {
				mask[y][x] = true
				continue
			}
			if val < lowThresh || val == 0 {
				continue
			}
			for ky := -1; ky <= 1 && !mask[y][x]; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					if suppressed[py][px] >= highThresh {
						mask[y][x] = true
						break
					}
				}
			}
		}
	}
	return mask
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
