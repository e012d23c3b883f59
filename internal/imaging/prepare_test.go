package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/contour-tools-mcp/internal/contour"
)

// luminance decodes img the way the contour tracer sees it.
func luminance(img image.Image) []byte {
	pix, _, _ := contour.DecodeImage(img)
	return pix
}

func TestPrepare_NoOptions(t *testing.T) {
	img := shapeImage(10, 10, image.Rect(2, 2, 5, 5))
	out, err := Prepare(img, PrepareOptions{})
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if out != image.Image(img) {
		t.Error("zero options should return the image unchanged")
	}
}

func TestPrepare_Threshold(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 1))
	img.Pix = []uint8{0, 90, 110, 250}

	out, err := Prepare(img, PrepareOptions{Threshold: 100})
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if diff := cmp.Diff([]byte{0, 0, 255, 255}, luminance(out)); diff != "" {
		t.Errorf("threshold mismatch (-want +got):\n%s", diff)
	}

	out, err = Prepare(img, PrepareOptions{Threshold: 100, Invert: true})
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if diff := cmp.Diff([]byte{255, 255, 0, 0}, luminance(out)); diff != "" {
		t.Errorf("inverted threshold mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepare_Region(t *testing.T) {
	img := shapeImage(20, 20, image.Rect(8, 6, 12, 10))

	out, err := Prepare(img, PrepareOptions{Region: &Region{X1: 5, Y1: 5, X2: 15, Y2: 15}, Threshold: 128})
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("cropped bounds: got %v, want (0,0)-(10,10)", out.Bounds())
	}

	lines, err := contour.FindImage(out, contour.FindOptions{})
	if err != nil {
		t.Fatalf("FindImage failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	want := contour.Bounds{X1: 3, Y1: 1, X2: 6, Y2: 4}
	if got := lines[0].Bounds(); got != want {
		t.Errorf("line bounds relative to region: got %+v, want %+v", got, want)
	}
}

func TestPrepare_MedianRemovesSpeckle(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 9, 9))
	img.SetGray(4, 4, color.Gray{Y: 255})

	out, err := Prepare(img, PrepareOptions{MedianRadius: 1, Threshold: 128})
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	lines, err := contour.FindImage(out, contour.FindOptions{})
	if err != nil {
		t.Fatalf("FindImage failed: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("isolated pixel should be filtered out, got %d lines", len(lines))
	}
}

func TestPrepare_Errors(t *testing.T) {
	img := shapeImage(10, 10, image.Rect(0, 0, 1, 1))

	tests := []struct {
		name string
		opts PrepareOptions
	}{
		{"threshold too high", PrepareOptions{Threshold: 256}},
		{"negative threshold", PrepareOptions{Threshold: -1}},
		{"negative radius", PrepareOptions{MedianRadius: -0.5}},
		{"region outside", PrepareOptions{Region: &Region{X1: 5, Y1: 5, X2: 11, Y2: 8}}},
		{"empty region", PrepareOptions{Region: &Region{X1: 5, Y1: 5, X2: 5, Y2: 8}}},
		{"inverted region", PrepareOptions{Region: &Region{X1: 6, Y1: 5, X2: 2, Y2: 8}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Prepare(img, tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPrepare_SourceUnchanged(t *testing.T) {
	img := shapeImage(10, 10, image.Rect(2, 2, 6, 6))
	before := append([]uint8(nil), img.Pix...)

	if _, err := Prepare(img, PrepareOptions{Threshold: 128, Invert: true, MedianRadius: 1}); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if diff := cmp.Diff(before, img.Pix); diff != "" {
		t.Errorf("Prepare modified its source (-before +after):\n%s", diff)
	}
}
