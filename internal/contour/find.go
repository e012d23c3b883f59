package contour

import (
	"fmt"
	"image"
)

// FindOptions controls which borders are returned.
type FindOptions struct {
	// Mode selects external borders only (default) or every border.
	Mode Mode

	// MinPoints drops lines with fewer points. Zero keeps everything.
	MinPoints int
}

// Find traces the borders of every foreground region in g.
//
// Parameters:
//   - g: the grid to trace. Nonzero samples are foreground. Not modified.
//   - opts: retrieval mode and size filter.
//
// Returns:
//   - []Line: traced borders in discovery order. Empty (never nil) when the
//     grid has no foreground pixels.
//   - error: wraps ErrInvalidDimensions for a malformed grid, or
//     ErrEmptyContour if a border comes back empty.
//
// # Algorithm
//
// Suzuki–Abe border following over 8-connectivity:
//
//  1. Pad the grid with a zero frame and label foreground pixels 1.
//  2. Scan rows top to bottom, columns left to right. A 0→1 transition starts
//     an outer border, a 1→0 transition on an unvisited right edge starts a
//     hole border.
//  3. Follow the border around its region, labelling visited pixels so that
//     each border is traced exactly once, and record every pixel stepped on.
//  4. Track each border's parent so external borders can be told apart from
//     borders nested inside holes.
//
// No chain approximation is applied: every boundary pixel visited is a point,
// and a pixel visited twice (one pixel wide spurs) appears twice.
func Find(g *Grid, opts FindOptions) ([]Line, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInvalidDimensions)
	}
	if err := checkDimensions(len(g.Pix), g.Width, g.Height); err != nil {
		return nil, err
	}

	lines := make([]Line, 0)
	t := newTracer(g)
	err := t.scan(g.Width, g.Height, func(nbd int, b border, pts []Point) error {
		if opts.Mode == RetrieveExternal && (b.hole || b.parent != 1) {
			return nil
		}
		if len(pts) < opts.MinPoints {
			return nil
		}
		line, err := NewLine(pts)
		if err != nil {
			return fmt.Errorf("border %d: %w", nbd, err)
		}
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// FindBytes traces a raw 8-bit buffer of width*height samples.
func FindBytes(pix []byte, width, height int, opts FindOptions) ([]Line, error) {
	g, err := FromBytes(pix, width, height)
	if err != nil {
		return nil, err
	}
	return Find(g, opts)
}

// FindSamples traces a buffer of integer samples, validating them according
// to build before tracing.
func FindSamples(samples []int, width, height int, build BuildOptions, opts FindOptions) ([]Line, error) {
	g, err := Build(samples, width, height, build)
	if err != nil {
		return nil, err
	}
	return Find(g, opts)
}

// FindImage traces an image. The image is decoded to luminance with
// DecodeImage and then handled exactly like FindBytes. An empty image has no
// valid dimensions and fails with ErrInvalidDimensions.
func FindImage(img image.Image, opts FindOptions) ([]Line, error) {
	pix, width, height := DecodeImage(img)
	return FindBytes(pix, width, height, opts)
}
