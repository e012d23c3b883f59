// Package contour extracts boundary polylines from binary images.
//
// The package implements a three stage pipeline:
//
//  1. Buffer building: a flat run of 8-bit samples plus width and height is
//     validated and turned into a Grid (row-major, one byte per pixel).
//  2. Border following: the Grid is scanned in raster order and every border
//     of a connected foreground region is traced with the Suzuki–Abe
//     algorithm over 8-connectivity.
//  3. Line adaptation: each traced border is wrapped in an immutable Line.
//
// # Binary Input
//
// Any nonzero sample is foreground ("white"), zero is background ("black").
// Callers are expected to pass thresholded images. Non-binary input is not
// rejected; every nonzero value is simply treated as foreground, so gray
// levels do not separate regions.
//
// # Entry Points
//
// Find works on a Grid. FindBytes and FindSamples accept raw buffers, and
// FindImage accepts an image.Image. FindImage decodes the image with
// DecodeImage and then takes the FindBytes path, so both always return the
// same lines for the same pixels.
//
// # Line Order
//
// Lines are returned in the order their first pixel is met by a top-to-bottom,
// left-to-right scan. Within a line, points follow the trace direction: outer
// borders run counterclockwise on screen (y grows downward), hole borders
// clockwise. The start point is not repeated at the end; connect the last point
// back to the first to close the polygon.
//
// # Thread Safety
//
// All functions are stateless. Inputs must not be mutated while a call is in
// flight.
package contour
