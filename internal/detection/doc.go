// Package detection classifies traced contours into simple geometric shapes.
//
// It works on the output of the contour package rather than on pixels: each
// contour is simplified with contour.Approximate and measured, then reported
// as a line, triangle, rectangle, circle or general polygon. This suits
// diagrams, flowcharts and other clean, high-contrast images.
//
// # Confidence Scores
//
// Rectangles and circles carry a confidence score (0.0 to 1.0):
//   - Rectangles: area over bounding box area. 1.0 is an axis-aligned rectangle.
//   - Circles: 4π·area/perimeter² of the simplified polygon. 1.0 is a perfect circle.
//
// # Limitations
//
//   - Rotated rectangles fail the rectangularity check and come out as polygons
//   - Circles with a radius below about 8 pixels simplify to too few vertices
//   - Ellipses are reported as polygons
package detection
