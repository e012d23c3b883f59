//go:build !gocv

package contour

import "fmt"

func newOpenCVTracer() (Tracer, error) {
	return nil, fmt.Errorf("%w: opencv (rebuild with -tags gocv)", ErrBackendUnavailable)
}
