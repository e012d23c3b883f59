//go:build gocv

package contour

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// opencvTracer delegates border following to OpenCV's findContours with
// CHAIN_APPROX_NONE. Its line order is OpenCV's, which is not guaranteed to
// match the native tracer's discovery order.
type opencvTracer struct{}

func newOpenCVTracer() (Tracer, error) {
	return opencvTracer{}, nil
}

func (opencvTracer) Name() string { return "opencv" }

func (opencvTracer) Find(g *Grid, opts FindOptions) ([]Line, error) {
	if g == nil {
		return nil, errors.Wrap(ErrInvalidDimensions, "nil grid")
	}
	if err := checkDimensions(len(g.Pix), g.Width, g.Height); err != nil {
		return nil, err
	}

	mat, err := gocv.NewMatFromBytes(g.Height, g.Width, gocv.MatTypeCV8U, g.Pix)
	if err != nil {
		return nil, errors.Wrap(err, "could not wrap grid in a Mat")
	}
	defer mat.Close()

	mode := gocv.RetrievalExternal
	if opts.Mode == RetrieveList {
		mode = gocv.RetrievalList
	}

	contours := gocv.FindContours(mat, mode, gocv.ChainApproxNone)
	defer contours.Close()

	lines := make([]Line, 0, contours.Size())
	for i, raw := range contours.ToPoints() {
		if len(raw) < opts.MinPoints {
			continue
		}
		pts := make([]Point, len(raw))
		for j, p := range raw {
			pts[j] = Point{X: p.X, Y: p.Y}
		}
		line, err := NewLine(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "opencv contour %d", i)
		}
		lines = append(lines, line)
	}
	return lines, nil
}
