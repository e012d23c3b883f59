package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// Region is a rectangle in image coordinates.
type Region struct {
	X1 int `json:"x1"` // Left edge X coordinate (inclusive)
	Y1 int `json:"y1"` // Top edge Y coordinate (inclusive)
	X2 int `json:"x2"` // Right edge X coordinate (exclusive)
	Y2 int `json:"y2"` // Bottom edge Y coordinate (exclusive)
}

// PrepareOptions describes how an image is turned into a binary image
// before contour tracing.
type PrepareOptions struct {
	// Region restricts tracing to part of the image. Nil uses the whole image.
	Region *Region

	// MedianRadius removes speckle noise before thresholding. Zero skips it.
	MedianRadius float64

	// Threshold is the luminance level at or above which a pixel becomes
	// foreground. Zero skips binarization.
	Threshold int

	// Invert makes dark pixels foreground. Applied after thresholding.
	Invert bool
}

// Prepare crops, denoises and binarizes img for contour tracing.
//
// The steps run in this order, each optional:
//
//  1. Crop to Region (disintegration/imaging). The result is rebased to (0,0)
//     so contour coordinates are relative to the region's top-left corner.
//  2. Median filter with MedianRadius (bild/effect).
//  3. Threshold at Threshold (bild/segment). Fully transparent pixels count
//     as white.
//  4. Invert (disintegration/imaging).
//
// The source image is never modified. With every option at its zero value the
// image is returned as is.
func Prepare(img image.Image, opts PrepareOptions) (image.Image, error) {
	if opts.Threshold < 0 || opts.Threshold > 255 {
		return nil, fmt.Errorf("threshold %d out of range 0-255", opts.Threshold)
	}
	if opts.MedianRadius < 0 {
		return nil, fmt.Errorf("median radius must not be negative")
	}

	out := img
	if opts.Region != nil {
		r := opts.Region
		bounds := img.Bounds()
		if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
				r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
		}
		if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
			return nil, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
		}
		out = imaging.Crop(out, image.Rect(r.X1, r.Y1, r.X2, r.Y2))
	}

	if opts.MedianRadius > 0 {
		out = effect.Median(out, opts.MedianRadius)
	}

	if opts.Threshold > 0 {
		out = segment.Threshold(out, uint8(opts.Threshold))
	}

	if opts.Invert {
		out = imaging.Invert(out)
	}

	return out, nil
}
