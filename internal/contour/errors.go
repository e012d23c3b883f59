package contour

import "errors"

var (
	// ErrInvalidDimensions is returned when width or height is not positive or
	// the buffer length does not equal width*height.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrInvalidSampleValue is returned by checked builds when a sample lies
	// outside [0,255].
	ErrInvalidSampleValue = errors.New("invalid sample value")

	// ErrEmptyContour is returned when a traced border yields no points.
	// The tracer never produces one; seeing it means an internal bug.
	ErrEmptyContour = errors.New("empty contour")

	// ErrBackendUnavailable is returned when a tracer backend was not compiled in.
	ErrBackendUnavailable = errors.New("contour backend unavailable")
)
