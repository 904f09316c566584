// Package imaging provides the image I/O and rendering collaborators of the
// crop editor: a pluggable codec registry, a decoded-image cache, inline
// result encoding, the crop preview renderer and content detection for
// automatic crops.
//
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Codecs
//
// A Registry maps file extensions to Codec values. PNG, JPEG, GIF, BMP, TIFF
// and WebP are registered by NewRegistry; further formats are added with
// Register at startup rather than compiled in behind build flags. Loading
// tries the codec for the extension first and falls back to content
// sniffing, so a mislabelled file still opens. Saving picks the encoder from
// the output extension and writes through a temporary file.
//
// # Content Detection
//
// ContentBounds runs Canny-style edge detection over a downscaled copy of an
// image and returns the bounding box of the edges found. Flat margins carry
// no edges, so the box is a good first guess for a crop.
//
// # Thread Safety
//
// Registry and ImageCache are safe for concurrent use. The remaining
// functions are stateless and never modify their input images.
//
// # Error Handling
//
// Failures wrap one of ErrUnsupportedFormat, ErrDecode or ErrEncode together
// with the underlying cause, so callers can test for either with errors.Is:
//
//	if errors.Is(err, fs.ErrNotExist) { ... }
//	if errors.Is(err, imaging.ErrDecode) { ... }
//
// # Performance Considerations
//
// Cached images stay in memory until Evict() or Clear(). Large images may
// consume significant memory when cached. Edge detection allocates several
// float64 buffers the size of the downscaled analysis copy.
package imaging
