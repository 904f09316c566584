// Package edit holds the edit recipe for an image and the pipeline that
// applies it.
//
// A State is an ordered list of Transforms plus an optional CropRegion.
// Transforms are applied left to right, each to the full output of the one
// before. The crop is expressed in the coordinate space of the image after
// every transform has run, and is applied last, so it always matches the
// orientation the user is looking at.
//
// Pipeline functions allocate a new image per step and never modify their
// input. A State is not safe for concurrent mutation; hand a Clone to any
// goroutine that runs ApplyEdits in the background.
package edit
