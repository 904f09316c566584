// Package nav scans a directory for images and steps through them in order.
package nav

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Filter reports whether a file path should be listed.
type Filter func(path string) bool

// ScanDir lists the files in dir accepted by keep, sorted by name.
// Subdirectories are not descended into.
func ScanDir(dir string, keep Filter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if keep == nil || keep(path) {
			paths = append(paths, path)
		}
	}
	sort.Slice(paths, func(i, j int) bool {
		return strings.ToLower(paths[i]) < strings.ToLower(paths[j])
	})
	return paths, nil
}

// Navigator tracks a position in an ordered list of image paths.
// Next and Prev wrap around at either end.
type Navigator struct {
	images []string
	idx    int
	dir    string
}

// Open scans dir and positions the navigator on selected, or on the first
// image when selected is empty or not found.
func (n *Navigator) Open(dir string, keep Filter, selected string) error {
	paths, err := ScanDir(dir, keep)
	if err != nil {
		return err
	}
	n.dir = dir
	n.SetImages(paths, selected)
	return nil
}

// SetImages replaces the list and selects the given path, falling back to
// the first entry.
func (n *Navigator) SetImages(paths []string, selected string) {
	n.images = paths
	n.idx = 0
	if selected == "" {
		return
	}
	for i, p := range paths {
		if p == selected || filepath.Base(p) == selected {
			n.idx = i
			return
		}
	}
}

// Dir returns the directory last opened.
func (n *Navigator) Dir() string { return n.dir }

// Images returns the listed paths.
func (n *Navigator) Images() []string { return n.images }

// Index returns the current position.
func (n *Navigator) Index() int { return n.idx }

// Len returns the number of images.
func (n *Navigator) Len() int { return len(n.images) }

// Current returns the selected path, or false when the list is empty.
func (n *Navigator) Current() (string, bool) {
	if len(n.images) == 0 {
		return "", false
	}
	return n.images[n.idx], true
}

// Next advances one image, wrapping to the first.
func (n *Navigator) Next() (string, bool) {
	if len(n.images) == 0 {
		return "", false
	}
	n.idx = (n.idx + 1) % len(n.images)
	return n.Current()
}

// Prev steps back one image, wrapping to the last.
func (n *Navigator) Prev() (string, bool) {
	if len(n.images) == 0 {
		return "", false
	}
	n.idx = (n.idx - 1 + len(n.images)) % len(n.images)
	return n.Current()
}

// First jumps to the first image.
func (n *Navigator) First() (string, bool) {
	if len(n.images) == 0 {
		return "", false
	}
	n.idx = 0
	return n.Current()
}

// Last jumps to the last image.
func (n *Navigator) Last() (string, bool) {
	if len(n.images) == 0 {
		return "", false
	}
	n.idx = len(n.images) - 1
	return n.Current()
}

// GoTo jumps to index i. Out-of-range indexes leave the position unchanged.
func (n *Navigator) GoTo(i int) (string, bool) {
	if i < 0 || i >= len(n.images) {
		return "", false
	}
	n.idx = i
	return n.Current()
}
