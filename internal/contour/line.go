package contour

import (
	"fmt"
	"math"
)

// Point is an integer pixel coordinate. (0,0) is the top-left pixel.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Bounds is an inclusive pixel bounding box.
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (inclusive)
	Y2 int `json:"y2"` // Bottom edge (inclusive)
}

// Line is one traced border: a non-empty, ordered run of points.
//
// A Line is immutable. Points returns a copy, so callers may keep or modify
// the returned slice freely.
type Line struct {
	points []Point
}

// NewLine wraps a point sequence into a Line. The slice is copied.
// It fails with ErrEmptyContour when points is empty.
func NewLine(points []Point) (Line, error) {
	if len(points) == 0 {
		return Line{}, fmt.Errorf("%w: border has no points", ErrEmptyContour)
	}
	return Line{points: append([]Point(nil), points...)}, nil
}

// Len returns the number of points.
func (l Line) Len() int { return len(l.points) }

// At returns the i-th point in trace order.
func (l Line) At(i int) Point { return l.points[i] }

// Points returns a copy of the points in trace order.
func (l Line) Points() []Point {
	return append([]Point(nil), l.points...)
}

// Bounds returns the smallest box containing every point.
func (l Line) Bounds() Bounds {
	if len(l.points) == 0 {
		return Bounds{}
	}
	b := Bounds{X1: l.points[0].X, Y1: l.points[0].Y, X2: l.points[0].X, Y2: l.points[0].Y}
	for _, p := range l.points[1:] {
		b.X1 = min(b.X1, p.X)
		b.Y1 = min(b.Y1, p.Y)
		b.X2 = max(b.X2, p.X)
		b.Y2 = max(b.Y2, p.Y)
	}
	return b
}

// Perimeter returns the Euclidean length of the closed polygon, including
// the segment from the last point back to the first.
func (l Line) Perimeter() float64 {
	n := len(l.points)
	if n < 2 {
		return 0
	}
	var total float64
	for i, p := range l.points {
		q := l.points[(i+1)%n]
		total += math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
	}
	return total
}

// Area returns the signed shoelace area of the closed polygon.
//
// With y growing downward, outer borders (traced counterclockwise on screen)
// come out negative and hole borders positive.
func (l Line) Area() float64 {
	n := len(l.points)
	if n < 3 {
		return 0
	}
	var sum int
	for i, p := range l.points {
		q := l.points[(i+1)%n]
		sum += p.X*q.Y - q.X*p.Y
	}
	return float64(sum) / 2
}
