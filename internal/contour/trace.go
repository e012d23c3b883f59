package contour

// Mode selects which borders Find returns.
type Mode int

const (
	// RetrieveExternal returns only the outer border of each foreground
	// region that is not nested inside a hole of another region.
	RetrieveExternal Mode = iota

	// RetrieveList returns every outer and hole border.
	RetrieveList
)

// String returns the mode's config name.
func (m Mode) String() string {
	switch m {
	case RetrieveExternal:
		return "external"
	case RetrieveList:
		return "list"
	default:
		return "unknown"
	}
}

// ParseMode parses "external" or "list". The empty string is external.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "external":
		return RetrieveExternal, true
	case "list":
		return RetrieveList, true
	default:
		return RetrieveExternal, false
	}
}

// Neighbor offsets indexed by chain code. Increasing codes turn
// counterclockwise on screen: E, NE, N, NW, W, SW, S, SE.
var chainDX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
var chainDY = [8]int{0, -1, -1, -1, 0, 1, 1, 1}

// border records the type and parent of a border numbered by the tracer.
// Border 1 is the frame around the image and counts as a hole.
type border struct {
	hole   bool
	parent int
}

// tracer holds the working label image for one Suzuki–Abe pass.
//
// labels is the input padded by a one pixel zero frame, so neighbor lookups
// never leave the slice. Values: 0 background, 1 unvisited foreground,
// +n visited pixel of border n, -n right-hand pixel of border n.
type tracer struct {
	labels  []int32
	stride  int
	offsets [8]int
	borders []border
}

func newTracer(g *Grid) *tracer {
	stride := g.Width + 2
	t := &tracer{
		labels:  make([]int32, stride*(g.Height+2)),
		stride:  stride,
		borders: []border{{}, {hole: true}},
	}
	for y := 0; y < g.Height; y++ {
		row := g.Pix[y*g.Width : (y+1)*g.Width]
		base := (y+1)*stride + 1
		for x, v := range row {
			if v != 0 {
				t.labels[base+x] = 1
			}
		}
	}
	for d := range t.offsets {
		t.offsets[d] = chainDY[d]*stride + chainDX[d]
	}
	return t
}

// point converts a padded index back to grid coordinates.
func (t *tracer) point(idx int) Point {
	return Point{X: idx%t.stride - 1, Y: idx/t.stride - 1}
}

// direction returns the chain code leading from idx to its neighbor nb.
func (t *tracer) direction(idx, nb int) int {
	for d, off := range t.offsets {
		if idx+off == nb {
			return d
		}
	}
	return -1
}

// scan runs the raster scan and calls emit for every traced border in
// discovery order. emit receives the border number, whether it is a hole,
// its parent border number and its points.
func (t *tracer) scan(width, height int, emit func(nbd int, b border, pts []Point) error) error {
	nbd := int32(1)
	for y := 1; y <= height; y++ {
		lnbd := int32(1)
		for x := 1; x <= width; x++ {
			idx := y*t.stride + x
			v := t.labels[idx]
			if v == 0 {
				continue
			}

			var from int
			var hole bool
			switch {
			case v == 1 && t.labels[idx-1] == 0:
				from, hole = idx-1, false
			case v >= 1 && t.labels[idx+1] == 0:
				from, hole = idx+1, true
				if v > 1 {
					lnbd = v
				}
			default:
				if v != 1 {
					lnbd = abs32(v)
				}
				continue
			}

			nbd++
			b := border{hole: hole, parent: t.parentOf(hole, int(lnbd))}
			t.borders = append(t.borders, b)

			pts := t.follow(idx, from, nbd)
			if err := emit(int(nbd), b, pts); err != nil {
				return err
			}

			if t.labels[idx] != 1 {
				lnbd = abs32(t.labels[idx])
			}
		}
	}
	return nil
}

// parentOf applies the Suzuki–Abe parent rule given the border last met
// on the current row.
func (t *tracer) parentOf(hole bool, lnbd int) int {
	last := t.borders[lnbd]
	if hole == last.hole {
		return last.parent
	}
	return lnbd
}

// follow traces the border that starts at idx, entered from the zero pixel
// at from, labelling pixels with nbd. The start point is not repeated.
func (t *tracer) follow(start, from int, nbd int32) []Point {
	// Look clockwise around start, beginning at from, for a nonzero neighbor.
	d0 := t.direction(start, from)
	first := -1
	for i := 1; i <= 8; i++ {
		d := (d0 - i + 8) & 7
		if t.labels[start+t.offsets[d]] != 0 {
			first = start + t.offsets[d]
			break
		}
	}
	if first < 0 {
		t.labels[start] = -nbd
		return []Point{t.point(start)}
	}

	var pts []Point
	prev, cur := first, start
	for {
		// Look counterclockwise around cur, starting just after prev.
		dPrev := t.direction(cur, prev)
		next := -1
		eastZero := false
		for i := 1; i <= 8; i++ {
			d := (dPrev + i) & 7
			nb := cur + t.offsets[d]
			if t.labels[nb] != 0 {
				next = nb
				break
			}
			if d == 0 {
				eastZero = true
			}
		}

		switch {
		case eastZero:
			t.labels[cur] = -nbd
		case t.labels[cur] == 1:
			t.labels[cur] = nbd
		}
		pts = append(pts, t.point(cur))

		if next == start && cur == first {
			return pts
		}
		prev, cur = cur, next
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
