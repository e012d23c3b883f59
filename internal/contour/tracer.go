package contour

import "fmt"

// Tracer finds contours in a grid. The native tracer is always available;
// the OpenCV tracer only when built with the gocv tag.
type Tracer interface {
	Name() string
	Find(g *Grid, opts FindOptions) ([]Line, error)
}

// NewTracer returns the tracer registered under name.
func NewTracer(name string) (Tracer, error) {
	switch name {
	case "native", "":
		return nativeTracer{}, nil
	case "opencv":
		return newOpenCVTracer()
	default:
		return nil, fmt.Errorf("unknown contour backend: %s", name)
	}
}

type nativeTracer struct{}

func (nativeTracer) Name() string { return "native" }

func (nativeTracer) Find(g *Grid, opts FindOptions) ([]Line, error) {
	return Find(g, opts)
}
