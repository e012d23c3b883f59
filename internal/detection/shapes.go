package detection

import (
	"image"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/contour-tools-mcp/internal/contour"
)

// Shape kinds reported by Classify.
const (
	KindLine      = "line"
	KindTriangle  = "triangle"
	KindRectangle = "rectangle"
	KindCircle    = "circle"
	KindPolygon   = "polygon"
)

// DefaultTolerance is the rectangularity and circularity a contour needs to
// be reported as a rectangle or circle.
const DefaultTolerance = 0.9

// Shape describes one traced contour.
type Shape struct {
	// Index is the position of the contour in the traced line list.
	Index int `json:"index"`

	// Kind is one of the Kind constants.
	Kind string `json:"kind"`

	// Bounds is the inclusive bounding box of the contour, in the coordinates
	// the contour was traced in.
	Bounds contour.Bounds `json:"bounds"`

	// Center is the middle of Bounds.
	Center contour.Point `json:"center"`

	// Width and Height are the extents between the outermost border pixel
	// centers (X2 - X1 and Y2 - Y1).
	Width  int `json:"width"`
	Height int `json:"height"`

	// Area is the unsigned polygon area of the contour in square pixels.
	Area float64 `json:"area"`

	// Vertices is the vertex count of the simplified polygon.
	Vertices int `json:"vertices"`

	// Radius is the radius of a circle with the same area. Circles only.
	Radius float64 `json:"radius,omitempty"`

	// FillColor is the hex color sampled at Center in the source image.
	// Empty when no image is given or the pixel is fully transparent.
	FillColor string `json:"fill_color,omitempty"`

	// Confidence is the rectangularity of a rectangle or the circularity of
	// a circle (0.0 to 1.0). Zero for other kinds.
	Confidence float64 `json:"confidence,omitempty"`
}

// ShapesResult contains every classified contour.
type ShapesResult struct {
	// Shapes is sorted by area (largest first).
	Shapes []Shape `json:"shapes"`

	// Count is the number of shapes.
	Count int `json:"count"`
}

// Options tunes Classify.
type Options struct {
	// MinArea drops contours enclosing fewer square pixels.
	MinArea float64

	// Tolerance is the minimum rectangularity or circularity (0.0 to 1.0).
	// Zero uses DefaultTolerance.
	Tolerance float64

	// Epsilon is the polygon simplification tolerance. Zero uses
	// contour.DefaultEpsilon.
	Epsilon float64
}

// Classify sorts traced contours into lines, triangles, rectangles, circles
// and general polygons.
//
// Parameters:
//   - img: Optional source image for color sampling. May be nil.
//   - origin: Absolute position of the traced area's top-left corner in img.
//   - lines: Contours from the contour package.
//   - opts: Size filter and tolerances.
//
// # Algorithm
//
//  1. Simplify each contour with contour.Approximate and count vertices.
//  2. Rectangularity = area / (width × height). A 4-vertex polygon at or
//     above Tolerance is a rectangle. Only axis-aligned rectangles pass.
//  3. Circularity = 4π × area / perimeter², measured on the simplified
//     polygon, since the raw border's staircase inflates the perimeter.
//     Six or more vertices at or above Tolerance make a circle.
//  4. Zero-area contours (one pixel wide spurs) are lines, three vertices a
//     triangle, anything else a polygon.
func Classify(img image.Image, origin image.Point, lines []contour.Line, opts Options) *ShapesResult {
	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	epsilon := opts.Epsilon
	if epsilon <= 0 {
		epsilon = contour.DefaultEpsilon
	}

	shapes := make([]Shape, 0, len(lines))
	for i, l := range lines {
		area := math.Abs(l.Area())
		if area < opts.MinArea {
			continue
		}

		b := l.Bounds()
		s := Shape{
			Index:  i,
			Bounds: b,
			Center: contour.Point{X: (b.X1 + b.X2) / 2, Y: (b.Y1 + b.Y2) / 2},
			Width:  b.X2 - b.X1,
			Height: b.Y2 - b.Y1,
			Area:   area,
		}

		poly := contour.Approximate(l, epsilon)
		s.Vertices = poly.Len()

		switch {
		case area == 0 || s.Vertices < 3:
			s.Kind = KindLine
		case s.Vertices == 3:
			s.Kind = KindTriangle
		case s.Vertices == 4 && rectangularity(area, s.Width, s.Height) >= tolerance:
			s.Kind = KindRectangle
			s.Confidence = rectangularity(area, s.Width, s.Height)
		case s.Vertices >= 6 && circularity(poly) >= tolerance:
			s.Kind = KindCircle
			s.Confidence = math.Min(circularity(poly), 1)
			s.Radius = math.Sqrt(area / math.Pi)
		default:
			s.Kind = KindPolygon
		}

		if img != nil {
			s.FillColor = sampleColorHex(img, image.Pt(s.Center.X+origin.X, s.Center.Y+origin.Y))
		}
		shapes = append(shapes, s)
	}

	sort.SliceStable(shapes, func(i, j int) bool {
		return shapes[i].Area > shapes[j].Area
	})

	return &ShapesResult{
		Shapes: shapes,
		Count:  len(shapes),
	}
}

func rectangularity(area float64, width, height int) float64 {
	if width == 0 || height == 0 {
		return 0
	}
	return area / float64(width*height)
}

func circularity(poly contour.Line) float64 {
	p := poly.Perimeter()
	if p == 0 {
		return 0
	}
	return 4 * math.Pi * math.Abs(poly.Area()) / (p * p)
}

// sampleColorHex returns the hex color (#rrggbb) of the pixel at pt, or ""
// when pt is outside img or the pixel is fully transparent.
func sampleColorHex(img image.Image, pt image.Point) string {
	if !pt.In(img.Bounds()) {
		return ""
	}
	c, ok := colorful.MakeColor(img.At(pt.X, pt.Y))
	if !ok {
		return ""
	}
	return c.Hex()
}
