package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// createBoxImage draws a black box over a white background.
func createBoxImage(width, height int, box image.Rectangle) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (image.Point{X: x, Y: y}).In(box) {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}

func near(a, b, tol int) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestContentBounds(t *testing.T) {
	box := image.Rect(30, 20, 70, 60)
	img := createBoxImage(100, 100, box)

	opts := DefaultAutoCropOptions()
	opts.Inset = 0

	got, err := ContentBounds(img, opts)
	if err != nil {
		t.Fatalf("ContentBounds failed: %v", err)
	}

	if !near(got.Min.X, box.Min.X, 3) || !near(got.Min.Y, box.Min.Y, 3) ||
		!near(got.Max.X, box.Max.X, 3) || !near(got.Max.Y, box.Max.Y, 3) {
		t.Errorf("bounds: got %v, want about %v", got, box)
	}
}

func TestContentBounds_Downscaled(t *testing.T) {
	box := image.Rect(300, 100, 700, 400)
	img := createBoxImage(1000, 500, box)

	opts := DefaultAutoCropOptions()
	opts.Inset = 0

	got, err := ContentBounds(img, opts)
	if err != nil {
		t.Fatalf("ContentBounds failed: %v", err)
	}

	// One analysis pixel is about two source pixels.
	if !near(got.Min.X, box.Min.X, 8) || !near(got.Min.Y, box.Min.Y, 8) ||
		!near(got.Max.X, box.Max.X, 8) || !near(got.Max.Y, box.Max.Y, 8) {
		t.Errorf("bounds: got %v, want about %v", got, box)
	}
}

func TestContentBounds_Inset(t *testing.T) {
	img := createBoxImage(100, 100, image.Rect(20, 20, 80, 80))

	opts := DefaultAutoCropOptions()
	opts.Inset = 0
	loose, err := ContentBounds(img, opts)
	if err != nil {
		t.Fatalf("ContentBounds failed: %v", err)
	}

	opts.Inset = 0.2
	tight, err := ContentBounds(img, opts)
	if err != nil {
		t.Fatalf("ContentBounds failed: %v", err)
	}

	if !tight.In(loose) || tight.Dx() >= loose.Dx() || tight.Dy() >= loose.Dy() {
		t.Errorf("inset bounds %v should lie strictly inside %v", tight, loose)
	}
}

func TestContentBounds_UniformImage(t *testing.T) {
	img := solidImage(50, 50, color.NRGBA{128, 128, 128, 255})

	_, err := ContentBounds(img, DefaultAutoCropOptions())
	if !errors.Is(err, ErrNoContent) {
		t.Errorf("expected ErrNoContent, got %v", err)
	}
}

func TestContentBounds_SmallImage(t *testing.T) {
	// Very small image (edge cases for convolution)
	img := solidImage(3, 3, color.NRGBA{0, 0, 0, 255})

	_, err := ContentBounds(img, DefaultAutoCropOptions())
	if !errors.Is(err, ErrNoContent) {
		t.Errorf("expected ErrNoContent, got %v", err)
	}
}

func TestContentBounds_InvalidOptions(t *testing.T) {
	img := createBoxImage(20, 20, image.Rect(5, 5, 15, 15))

	tests := []struct {
		name string
		opts AutoCropOptions
	}{
		{"low above high", AutoCropOptions{ThresholdLow: 200, ThresholdHigh: 100}},
		{"negative low", AutoCropOptions{ThresholdLow: -1, ThresholdHigh: 100}},
		{"high above 255", AutoCropOptions{ThresholdLow: 10, ThresholdHigh: 300}},
		{"inset of one", AutoCropOptions{ThresholdLow: 50, ThresholdHigh: 150, Inset: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ContentBounds(img, tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEdgeMask_StrongEdge(t *testing.T) {
	// Create image with strong contrast edge
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x < 50 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}

	mask := edgeMask(img, 50, 150)

	// The edge should be detected around x=50
	edgeFound := false
	for x := 47; x <= 52; x++ {
		if mask[50][x] {
			edgeFound = true
			break
		}
	}
	if !edgeFound {
		t.Error("strong vertical edge was not detected")
	}

	if mask[50][10] || mask[50][90] {
		t.Error("flat regions should not be marked as edges")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},   // within range
		{-1, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tt := range tests {
		got := clamp(tt.val, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d",
				tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}
