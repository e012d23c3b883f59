package contour

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Grid is a single-channel 8-bit intensity image stored row-major.
//
// Pix[y*Width+x] holds the sample at (x, y). A Grid built by this package
// always satisfies len(Pix) == Width*Height.
type Grid struct {
	Width  int
	Height int
	Pix    []uint8
}

// BuildOptions controls sample validation in Build.
type BuildOptions struct {
	// Unchecked skips the per-sample [0,255] range check. Use it once the
	// buffer's provenance is trusted; out-of-range samples are then truncated
	// to their low 8 bits instead of being rejected.
	Unchecked bool
}

// Build converts a flat run of intensity samples into a Grid.
//
// Parameters:
//   - samples: row-major intensity values, one per pixel.
//   - width, height: grid dimensions, both must be positive.
//   - opts: validation options. The zero value checks every sample.
//
// Returns:
//   - *Grid: a freshly allocated grid owned by the caller.
//   - error: wraps ErrInvalidDimensions when len(samples) != width*height or a
//     dimension is not positive, and ErrInvalidSampleValue when a checked
//     sample is outside [0,255].
func Build(samples []int, width, height int, opts BuildOptions) (*Grid, error) {
	if err := checkDimensions(len(samples), width, height); err != nil {
		return nil, err
	}

	pix := make([]uint8, len(samples))
	if opts.Unchecked {
		for i, v := range samples {
			pix[i] = uint8(v)
		}
	} else {
		for i, v := range samples {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("%w: sample %d at (%d,%d) is %d, want 0-255",
					ErrInvalidSampleValue, i, i%width, i/width, v)
			}
			pix[i] = uint8(v)
		}
	}

	return &Grid{Width: width, Height: height, Pix: pix}, nil
}

// FromBytes builds a Grid from a byte buffer. Only the dimensions are
// checked, since a byte is always a valid sample. The buffer is copied.
func FromBytes(pix []byte, width, height int) (*Grid, error) {
	if err := checkDimensions(len(pix), width, height); err != nil {
		return nil, err
	}
	return &Grid{Width: width, Height: height, Pix: append([]uint8(nil), pix...)}, nil
}

func checkDimensions(n, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d, width and height must be positive", ErrInvalidDimensions, width, height)
	}
	if n != width*height {
		return fmt.Errorf("%w: buffer has %d samples, %dx%d needs %d",
			ErrInvalidDimensions, n, width, height, width*height)
	}
	return nil
}

// At returns the sample at (x, y). It panics if the point is outside the grid.
func (g *Grid) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Image returns a view of the grid as an *image.Gray sharing its pixels.
func (g *Grid) Image() *image.Gray {
	return &image.Gray{
		Pix:    g.Pix,
		Stride: g.Width,
		Rect:   image.Rect(0, 0, g.Width, g.Height),
	}
}

// DecodeImage converts an image into row-major 8-bit luminance samples.
//
// Luminance uses ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B), rounded.
// An *image.Gray decodes to exactly its own pixels. The image's bounds are
// rebased so the first sample is its top-left pixel.
func DecodeImage(img image.Image) (pix []byte, width, height int) {
	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	pix = make([]byte, width*height)

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < height; y++ {
			off := g.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(pix[y*width:(y+1)*width], g.Pix[off:off+width])
		}
		return pix, width, height
	}

	gray := imaging.Grayscale(img)
	for y := 0; y < height; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < width; x++ {
			pix[y*width+x] = row[x*4]
		}
	}
	return pix, width, height
}
