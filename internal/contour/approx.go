package contour

import "math"

// DefaultEpsilon is the approximation tolerance used when none is configured.
const DefaultEpsilon = 1.5

// Approximate simplifies a closed line with the Douglas–Peucker algorithm.
//
// A point is kept when its distance from the chord between the surrounding
// kept points is at least epsilon. The first point is always kept and the
// result stays closed implicitly, like its input. Lines of three points or
// fewer, and a non-positive epsilon, return the line unchanged.
//
// The recursion is replaced by an explicit stack of segment end indices so
// long borders cannot exhaust the goroutine stack.
func Approximate(l Line, epsilon float64) Line {
	n := len(l.points)
	if n <= 3 || epsilon <= 0 {
		return l
	}

	// Close the ring by repeating the first point; index n is that copy.
	ring := make([]Point, n+1)
	copy(ring, l.points)
	ring[n] = l.points[0]

	keep := make([]bool, n+1)
	keep[0], keep[n] = true, true

	type span struct{ a, b int }
	stack := []span{{0, n}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		far, dist := -1, -1.0
		for i := s.a + 1; i < s.b; i++ {
			if d := segmentDistance(ring[i], ring[s.a], ring[s.b]); d > dist {
				far, dist = i, d
			}
		}
		if far < 0 || dist < epsilon {
			continue
		}
		keep[far] = true
		stack = append(stack, span{far, s.b}, span{s.a, far})
	}

	pts := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		if keep[i] {
			pts = append(pts, ring[i])
		}
	}
	return Line{points: pts}
}

// segmentDistance returns the distance from p to segment ab. A degenerate
// segment measures the distance to a.
func segmentDistance(p, a, b Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	px, py := float64(p.X-a.X), float64(p.Y-a.Y)
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px, py)
	}
	t := (px*dx + py*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-t*dx, py-t*dy)
}
