package edit

import (
	"fmt"
	"strings"
)

// Transform is a whole-image geometric remap.
type Transform int

const (
	// Rotate90 turns the image a quarter turn clockwise.
	Rotate90 Transform = iota + 1
	// Rotate180 turns the image half a turn.
	Rotate180
	// Rotate270 turns the image a quarter turn counter-clockwise.
	Rotate270
	// FlipHorizontal mirrors the image left to right.
	FlipHorizontal
	// FlipVertical mirrors the image top to bottom.
	FlipVertical
)

var transformNames = map[Transform]string{
	Rotate90:       "rotate90",
	Rotate180:      "rotate180",
	Rotate270:      "rotate270",
	FlipHorizontal: "flip_horizontal",
	FlipVertical:   "flip_vertical",
}

// Transforms lists every transform in declaration order.
func Transforms() []Transform {
	return []Transform{Rotate90, Rotate180, Rotate270, FlipHorizontal, FlipVertical}
}

func (t Transform) String() string {
	if name, ok := transformNames[t]; ok {
		return name
	}
	return fmt.Sprintf("transform(%d)", int(t))
}

// Valid reports whether t is one of the defined transforms.
func (t Transform) Valid() bool {
	_, ok := transformNames[t]
	return ok
}

// SwapsDimensions reports whether t exchanges width and height.
func (t Transform) SwapsDimensions() bool {
	return t == Rotate90 || t == Rotate270
}

// ParseTransform parses a transform name such as "rotate90" or
// "flip_horizontal". Matching is case-insensitive and accepts "-" for "_".
func ParseTransform(s string) (Transform, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for t, name := range transformNames {
		if name == norm {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown transform: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Transform) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid transform: %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Transform) UnmarshalText(b []byte) error {
	parsed, err := ParseTransform(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
