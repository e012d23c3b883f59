package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/contour-tools-mcp/internal/contour"
)

// RenderResult contains the image with contours drawn on top.
type RenderResult struct {
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	ImageBase64 string   `json:"image_base64"`
	MimeType    string   `json:"mime_type"`
	LineColors  []string `json:"line_colors"`
}

// RenderContours draws every line onto a copy of img and returns it as a
// base64 PNG.
//
// Line points are offset by origin, the absolute top-left corner of the area
// they were traced in: img.Bounds().Min for a whole-image trace, or the
// region's (X1, Y1) for a cropped one.
// When colorHex is empty each line gets its own hue, spread evenly around the
// HSV wheel; otherwise every line uses colorHex ("#RRGGBB"). The color chosen
// for each line is reported in LineColors, in line order.
func RenderContours(img image.Image, lines []contour.Line, origin image.Point, colorHex string) (*RenderResult, error) {
	bounds := img.Bounds()

	colors, err := linePalette(len(lines), colorHex)
	if err != nil {
		return nil, err
	}

	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	hex := make([]string, len(lines))
	for i, l := range lines {
		c := colors[i]
		r, g, b := c.Clamped().RGB255()
		rgba := color.RGBA{R: r, G: g, B: b, A: 255}
		hex[i] = c.Clamped().Hex()
		for j := 0; j < l.Len(); j++ {
			p := l.At(j)
			pt := image.Pt(p.X+origin.X, p.Y+origin.Y)
			if pt.In(bounds) {
				result.SetRGBA(pt.X, pt.Y, rgba)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &RenderResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		LineColors:  hex,
	}, nil
}

// linePalette returns n colors, all equal to colorHex when it is set.
func linePalette(n int, colorHex string) ([]colorful.Color, error) {
	colors := make([]colorful.Color, n)
	if colorHex != "" {
		c, err := colorful.Hex(colorHex)
		if err != nil {
			return nil, fmt.Errorf("invalid line color %q: %w", colorHex, err)
		}
		for i := range colors {
			colors[i] = c
		}
		return colors, nil
	}

	for i := range colors {
		colors[i] = colorful.Hsv(360*float64(i)/float64(n), 0.85, 0.95)
	}
	return colors, nil
}
