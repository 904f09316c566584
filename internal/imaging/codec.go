package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Codec errors. Underlying decoder, encoder and I/O errors are wrapped, so
// errors.Is works against both these sentinels and the original cause.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("failed to decode image")
	ErrEncode            = errors.New("failed to encode image")
)

// EncodeOptions carries per-format encoder settings.
type EncodeOptions struct {
	// JPEGQuality is the JPEG quality, 1-100.
	JPEGQuality int

	// WebPQuality is the lossy WebP quality, 0-100.
	WebPQuality float32

	// WebPLossless selects lossless WebP output.
	WebPLossless bool
}

// DefaultEncodeOptions returns the encoder settings used when none are given.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{JPEGQuality: 90, WebPQuality: 90}
}

// DecodeFunc decodes one image from r.
type DecodeFunc func(r io.Reader) (image.Image, error)

// EncodeFunc writes img to w.
type EncodeFunc func(w io.Writer, img image.Image, opts EncodeOptions) error

// Codec describes how one file format is read and written.
//
// Either function may be nil: a format with no Encode can be loaded but not
// saved, and a format with no Decode falls back to content sniffing.
type Codec struct {
	Format     string
	Extensions []string
	Decode     DecodeFunc
	Encode     EncodeFunc
}

// Registry maps file extensions to codecs.
//
// It replaces build-time format hooks: optional codecs are added with
// Register at startup, and the rest of the program only deals with
// image.Image values and paths. Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec  // by format
	byExt  map[string]string // ".ext" -> format
	opts   EncodeOptions
}

// NewRegistry returns a registry with PNG, JPEG, GIF, BMP, TIFF and WebP
// registered.
func NewRegistry(opts EncodeOptions) *Registry {
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = DefaultEncodeOptions().JPEGQuality
	}
	r := &Registry{
		codecs: make(map[string]Codec),
		byExt:  make(map[string]string),
		opts:   opts,
	}
	for _, c := range builtinCodecs() {
		r.Register(c)
	}
	return r
}

func builtinCodecs() []Codec {
	std := func(f imaging.Format) EncodeFunc {
		return func(w io.Writer, img image.Image, opts EncodeOptions) error {
			return imaging.Encode(w, img, f, imaging.JPEGQuality(opts.JPEGQuality))
		}
	}
	return []Codec{
		{Format: "png", Extensions: []string{".png"}, Encode: std(imaging.PNG)},
		{Format: "jpeg", Extensions: []string{".jpg", ".jpeg"}, Encode: std(imaging.JPEG)},
		{Format: "gif", Extensions: []string{".gif"}, Encode: std(imaging.GIF)},
		{Format: "bmp", Extensions: []string{".bmp"}, Encode: std(imaging.BMP)},
		{Format: "tiff", Extensions: []string{".tif", ".tiff"}, Encode: std(imaging.TIFF)},
		{
			Format:     "webp",
			Extensions: []string{".webp"},
			Decode:     webp.Decode,
			Encode: func(w io.Writer, img image.Image, opts EncodeOptions) error {
				return webp.Encode(w, img, &webp.Options{Lossless: opts.WebPLossless, Quality: opts.WebPQuality})
			},
		},
	}
}

// Register adds or replaces the codec for c.Format.
func (r *Registry) Register(c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Format = strings.ToLower(c.Format)
	r.codecs[c.Format] = c
	for _, ext := range c.Extensions {
		r.byExt[normalizeExt(ext)] = c.Format
	}
}

// Lookup returns the codec registered for the extension of path.
func (r *Registry) Lookup(path string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	format, ok := r.byExt[normalizeExt(filepath.Ext(path))]
	if !ok {
		return Codec{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return r.codecs[format], nil
}

// Supports reports whether files like path can be loaded.
func (r *Registry) Supports(path string) bool {
	_, err := r.Lookup(path)
	return err == nil
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// FormatOf returns the registered format name for path, or "unknown".
func (r *Registry) FormatOf(path string) string {
	c, err := r.Lookup(path)
	if err != nil {
		return "unknown"
	}
	return c.Format
}

// Open decodes the image at path. The codec for the extension is tried
// first; if it has no decoder or fails, the content is sniffed against every
// decoder registered with the image package.
func (r *Registry) Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	if c, err := r.Lookup(path); err == nil && c.Decode != nil {
		if img, err := c.Decode(f); err == nil {
			return img, nil
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to rewind image: %w", err)
		}
	}

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return img, nil
}

// Encode writes img to w in the given format.
func (r *Registry) Encode(w io.Writer, img image.Image, format string) error {
	r.mu.RLock()
	c, ok := r.codecs[strings.ToLower(format)]
	opts := r.opts
	r.mu.RUnlock()
	if !ok || c.Encode == nil {
		return fmt.Errorf("%w: cannot encode %q", ErrUnsupportedFormat, format)
	}
	if err := c.Encode(w, img, opts); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// Save encodes img in the format implied by the extension of path. The file
// is written to a temporary sibling and renamed into place, so a failed save
// never leaves a truncated image behind.
func (r *Registry) Save(img image.Image, path string) error {
	c, err := r.Lookup(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()

	if err := r.Encode(tmp, img, c.Format); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
