package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/contour-tools-mcp/internal/config"
	"github.com/ironsheep/contour-tools-mcp/internal/contour"
	"github.com/ironsheep/contour-tools-mcp/internal/detection"
	"github.com/ironsheep/contour-tools-mcp/internal/export"
)

// writeShapeImage writes a width x height PNG filled with bg and with each
// rectangle filled with fg, and returns its path.
func writeShapeImage(t *testing.T, width, height int, bg, fg color.Color, shapes ...image.Rectangle) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := bg
			for _, r := range shapes {
				if image.Pt(x, y).In(r) {
					c = fg
				}
			}
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "shapes.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool sends a tools/call request and decodes the text content into out.
// It returns the JSON-RPC error, if any.
func callTool(t *testing.T, s *Server, name string, args interface{}, out interface{}) *MCPError {
	t.Helper()

	params, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return resp.Error
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}
	if out != nil {
		if err := json.Unmarshal([]byte(content[0]["text"].(string)), out); err != nil {
			t.Fatalf("failed to decode %s result: %v", name, err)
		}
	}
	return nil
}

func mustCallTool(t *testing.T, s *Server, name string, args interface{}, out interface{}) {
	t.Helper()
	if mcpErr := callTool(t, s, name, args, out); mcpErr != nil {
		t.Fatalf("%s failed: %s (%v)", name, mcpErr.Message, mcpErr.Data)
	}
}

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer(t)
	path := writeShapeImage(t, 100, 80, black, white, image.Rect(10, 10, 20, 20))

	var info struct {
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Format    string `json:"format"`
		Grayscale bool   `json:"grayscale"`
	}
	mustCallTool(t, s, "image_load", map[string]interface{}{"path": path}, &info)

	if info.Width != 100 || info.Height != 80 || info.Format != "png" {
		t.Errorf("unexpected info: %+v", info)
	}

	var dims struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	mustCallTool(t, s, "image_dimensions", map[string]interface{}{"path": path}, &dims)
	if dims.Width != 100 || dims.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := newTestServer(t)

	if mcpErr := callTool(t, s, "image_sharpen", map[string]interface{}{}, nil); mcpErr == nil || mcpErr.Code != -32000 {
		t.Errorf("unknown tool: got %+v, want -32000", mcpErr)
	}

	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: json.RawMessage(`"oops"`)})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("invalid params: got %+v, want -32602", resp.Error)
	}

	if mcpErr := callTool(t, s, "contour_find", map[string]interface{}{"path": "/nonexistent/image.png"}, nil); mcpErr == nil {
		t.Error("expected error for missing image")
	}
}

func TestContourFind(t *testing.T) {
	s := newTestServer(t)
	path := writeShapeImage(t, 20, 20, black, white, image.Rect(4, 4, 10, 10))

	var res ContoursResult
	mustCallTool(t, s, "contour_find", map[string]interface{}{"path": path}, &res)

	if res.Width != 20 || res.Height != 20 || res.Backend != "native" || res.Mode != "external" {
		t.Errorf("unexpected result header: %+v", res)
	}
	if res.Count != 1 || len(res.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", res.Count)
	}
	line := res.Lines[0]
	if line.PointCount != 20 || len(line.Points) != 20 {
		t.Errorf("6x6 square should have 20 border points, got %d", line.PointCount)
	}
	if want := (contour.Bounds{X1: 4, Y1: 4, X2: 9, Y2: 9}); line.Bounds != want {
		t.Errorf("bounds: got %+v, want %+v", line.Bounds, want)
	}
	if line.Area >= 0 {
		t.Errorf("outer border area should be negative, got %v", line.Area)
	}
	if line.Approximated != nil {
		t.Error("approximation should be omitted unless requested")
	}
}

func TestContourFind_MatchesFindBytes(t *testing.T) {
	s := newTestServer(t)
	shapes := []image.Rectangle{image.Rect(2, 3, 9, 8), image.Rect(12, 1, 15, 12), image.Rect(5, 10, 6, 11)}
	path := writeShapeImage(t, 16, 14, black, white, shapes...)

	samples := make([]int, 16*14)
	for y := 0; y < 14; y++ {
		for x := 0; x < 16; x++ {
			for _, r := range shapes {
				if image.Pt(x, y).In(r) {
					samples[y*16+x] = 255
				}
			}
		}
	}

	var fromFile, fromBytes ContoursResult
	mustCallTool(t, s, "contour_find", map[string]interface{}{"path": path, "mode": "list"}, &fromFile)
	mustCallTool(t, s, "contour_find_bytes", map[string]interface{}{
		"samples": samples, "width": 16, "height": 14, "mode": "list",
	}, &fromBytes)

	if fromFile.Count != 3 {
		t.Errorf("expected 3 lines, got %d", fromFile.Count)
	}
	if diff := cmp.Diff(fromBytes, fromFile); diff != "" {
		t.Errorf("contour_find and contour_find_bytes disagree (-bytes +file):\n%s", diff)
	}
}

func TestContourFind_Modes(t *testing.T) {
	s := newTestServer(t)
	// White frame with a black square: one outer border and one hole.
	ring := writeShapeImage(t, 12, 12, white, black, image.Rect(2, 2, 10, 10))

	var external, list ContoursResult
	mustCallTool(t, s, "contour_find", map[string]interface{}{"path": ring, "mode": "external"}, &external)
	mustCallTool(t, s, "contour_find", map[string]interface{}{"path": ring, "mode": "list"}, &list)

	if external.Count != 1 {
		t.Errorf("external: got %d lines, want 1", external.Count)
	}
	if list.Count != 2 {
		t.Fatalf("list: got %d lines, want 2", list.Count)
	}
	if list.Lines[1].Area <= 0 {
		t.Errorf("hole border area should be positive, got %v", list.Lines[1].Area)
	}

	if mcpErr := callTool(t, s, "contour_find", map[string]interface{}{"path": ring, "mode": "tree"}, nil); mcpErr == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestContourFind_Invert(t *testing.T) {
	s := newTestServer(t)
	path := writeShapeImage(t, 20, 20, white, black, image.Rect(5, 6, 12, 9))

	var res ContoursResult
	mustCallTool(t, s, "contour_find", map[string]interface{}{"path": path, "invert": true}, &res)

	if res.Count != 1 {
		t.Fatalf("expected 1 line, got %d", res.Count)
	}
	if want := (contour.Bounds{X1: 5, Y1: 6, X2: 11, Y2: 8}); res.Lines[0].Bounds != want {
		t.Errorf("inverted bounds: got %+v, want %+v", res.Lines[0].Bounds, want)
	}
}

func TestContourFind_Region(t *testing.T) {
	s := newTestServer(t)
	path := writeShapeImage(t, 30, 30, black, white, image.Rect(2, 2, 6, 6), image.Rect(15, 15, 20, 22))

	var res ContoursResult
	mustCallTool(t, s, "contour_find", map[string]interface{}{
		"path":   path,
		"region": map[string]int{"x1": 10, "y1": 10, "x2": 30, "y2": 30},
	}, &res)

	if res.Width != 20 || res.Height != 20 {
		t.Errorf("traced area: got %dx%d, want 20x20", res.Width, res.Height)
	}
	if res.Origin != (contour.Point{X: 10, Y: 10}) {
		t.Errorf("origin: got %+v, want (10,10)", res.Origin)
	}
	if res.Count != 1 {
		t.Fatalf("only the shape inside the region should be traced, got %d lines", res.Count)
	}
	if want := (contour.Bounds{X1: 5, Y1: 5, X2: 9, Y2: 11}); res.Lines[0].Bounds != want {
		t.Errorf("bounds relative to region: got %+v, want %+v", res.Lines[0].Bounds, want)
	}
}

func TestContourFind_ApproximateAndMinPoints(t *testing.T) {
	s := newTestServer(t)
	path := writeShapeImage(t, 20, 15, black, white, image.Rect(2, 3, 12, 10), image.Rect(15, 2, 16, 3))

	var res ContoursResult
	mustCallTool(t, s, "contour_find", map[string]interface{}{
		"path":        path,
		"approximate": true,
		"min_points":  2,
	}, &res)

	if res.Count != 1 {
		t.Fatalf("min_points should drop the single pixel, got %d lines", res.Count)
	}
	want := []contour.Point{{X: 2, Y: 3}, {X: 2, Y: 9}, {X: 11, Y: 9}, {X: 11, Y: 3}}
	if diff := cmp.Diff(want, res.Lines[0].Approximated); diff != "" {
		t.Errorf("approximated corners mismatch (-want +got):\n%s", diff)
	}
	if res.Lines[0].PointCount != 30 {
		t.Errorf("full border should still have 30 points, got %d", res.Lines[0].PointCount)
	}
}

func TestContourFindBytes(t *testing.T) {
	s := newTestServer(t)
	samples := []int{
		0, 0, 0, 0, 0,
		0, 9, 9, 9, 0,
		0, 9, 9, 9, 0,
		0, 9, 9, 9, 0,
		0, 0, 0, 0, 0,
	}

	var res ContoursResult
	mustCallTool(t, s, "contour_find_bytes", map[string]interface{}{"samples": samples, "width": 5, "height": 5}, &res)

	want := []contour.Point{
		{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 3}, {X: 2, Y: 3},
		{X: 3, Y: 3}, {X: 3, Y: 2}, {X: 3, Y: 1}, {X: 2, Y: 1},
	}
	if res.Count != 1 {
		t.Fatalf("expected 1 line, got %d", res.Count)
	}
	if diff := cmp.Diff(want, res.Lines[0].Points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestContourFindBytes_Validation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantErr bool
	}{
		{"short buffer", map[string]interface{}{"samples": []int{0, 0, 0}, "width": 2, "height": 2}, true},
		{"zero width", map[string]interface{}{"samples": []int{}, "width": 0, "height": 2}, true},
		{"sample out of range", map[string]interface{}{"samples": []int{0, 300, 0, 0}, "width": 2, "height": 2}, true},
		{"unchecked", map[string]interface{}{"samples": []int{0, 300, 0, 0}, "width": 2, "height": 2, "unchecked": true}, false},
		{"empty grid", map[string]interface{}{"samples": []int{0, 0, 0, 0}, "width": 2, "height": 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res ContoursResult
			mcpErr := callTool(t, s, "contour_find_bytes", tt.args, &res)
			if (mcpErr != nil) != tt.wantErr {
				t.Fatalf("error = %+v, wantErr %v", mcpErr, tt.wantErr)
			}
			if mcpErr == nil && res.Lines == nil {
				t.Error("lines should be an empty list, not null")
			}
		})
	}
}

func TestContourFindBatch(t *testing.T) {
	s := newTestServer(t)
	a := writeShapeImage(t, 10, 10, black, white, image.Rect(1, 1, 4, 4))
	b := writeShapeImage(t, 10, 10, black, white, image.Rect(1, 1, 4, 4), image.Rect(6, 6, 9, 9))
	missing := filepath.Join(t.TempDir(), "missing.png")

	var res BatchResult
	mustCallTool(t, s, "contour_find_batch", map[string]interface{}{"paths": []string{a, missing, b, a}}, &res)

	if len(res.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(res.Items))
	}
	if res.Failed != 1 {
		t.Errorf("Failed: got %d, want 1", res.Failed)
	}

	wantCounts := []int{1, -1, 2, 1}
	for i, it := range res.Items {
		if it.Path != []string{a, missing, b, a}[i] {
			t.Errorf("item %d out of order: %s", i, it.Path)
		}
		if wantCounts[i] < 0 {
			if it.Error == "" || it.Result != nil {
				t.Errorf("item %d should have failed: %+v", i, it)
			}
			continue
		}
		if it.Result == nil || it.Result.Count != wantCounts[i] {
			t.Errorf("item %d: got %+v, want %d lines", i, it.Result, wantCounts[i])
		}
	}

	if mcpErr := callTool(t, s, "contour_find_batch", map[string]interface{}{"paths": []string{a, missing}, "fail_fast": true}, nil); mcpErr == nil {
		t.Error("fail_fast batch should fail")
	}
	if mcpErr := callTool(t, s, "contour_find_batch", map[string]interface{}{"paths": []string{}}, nil); mcpErr == nil {
		t.Error("empty batch should fail")
	}
}

func TestContourRender(t *testing.T) {
	s := newTestServer(t)
	path := writeShapeImage(t, 20, 20, black, white, image.Rect(2, 2, 8, 8), image.Rect(12, 12, 18, 18))

	var res struct {
		Width       int      `json:"width"`
		Height      int      `json:"height"`
		ImageBase64 string   `json:"image_base64"`
		MimeType    string   `json:"mime_type"`
		LineColors  []string `json:"line_colors"`
		Count       int      `json:"count"`
	}
	mustCallTool(t, s, "contour_render", map[string]interface{}{"path": path}, &res)

	if res.Count != 2 || len(res.LineColors) != 2 {
		t.Errorf("expected 2 lines and colors, got %d and %v", res.Count, res.LineColors)
	}
	if res.Width != 20 || res.Height != 20 || res.MimeType != "image/png" || res.ImageBase64 == "" {
		t.Errorf("unexpected render result: %dx%d %s", res.Width, res.Height, res.MimeType)
	}

	if mcpErr := callTool(t, s, "contour_render", map[string]interface{}{"path": path, "color": "nope"}, nil); mcpErr == nil {
		t.Error("expected error for invalid color")
	}
}

func TestContourExport(t *testing.T) {
	s := newTestServer(t)
	path := writeShapeImage(t, 20, 15, black, white, image.Rect(2, 3, 12, 10))
	dir := t.TempDir()

	var traced ContoursResult
	mustCallTool(t, s, "contour_find", map[string]interface{}{"path": path}, &traced)

	out := filepath.Join(dir, "contours.yaml")
	var res ExportResult
	mustCallTool(t, s, "contour_export", map[string]interface{}{"path": path, "output": out}, &res)
	if res.Format != "yaml" || res.Count != 1 || res.Output != out {
		t.Errorf("unexpected export result: %+v", res)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	defer f.Close()
	doc, err := export.Decode(f, "yaml")
	if err != nil {
		t.Fatalf("failed to decode export: %v", err)
	}
	if doc.Width != 20 || doc.Height != 15 {
		t.Errorf("document size: got %dx%d, want 20x15", doc.Width, doc.Height)
	}
	if diff := cmp.Diff([][]contour.Point{traced.Lines[0].Points}, doc.Lines); diff != "" {
		t.Errorf("exported lines differ from contour_find (-find +export):\n%s", diff)
	}

	svg := filepath.Join(dir, "approx.out")
	mustCallTool(t, s, "contour_export", map[string]interface{}{
		"path": path, "output": svg, "format": "svg", "approximate": true,
	}, &res)
	data, err := os.ReadFile(svg)
	if err != nil {
		t.Fatalf("svg export missing: %v", err)
	}
	want := `d="M2.5,3.5 L2.5,9.5 L11.5,9.5 L11.5,3.5 Z"`
	if !strings.Contains(string(data), want) {
		t.Errorf("approximated svg should contain %s:\n%s", want, data)
	}

	if mcpErr := callTool(t, s, "contour_export", map[string]interface{}{"path": path}, nil); mcpErr == nil {
		t.Error("expected error without output path")
	}
	if mcpErr := callTool(t, s, "contour_export", map[string]interface{}{"path": path, "output": filepath.Join(dir, "x.bmp")}, nil); mcpErr == nil {
		t.Error("expected error for unknown output format")
	}
}

func TestContourShapes(t *testing.T) {
	s := newTestServer(t)
	path := writeShapeImage(t, 40, 30, black, color.RGBA{0, 128, 255, 255},
		image.Rect(2, 2, 22, 14), image.Rect(30, 20, 32, 22))

	var res ShapesToolResult
	mustCallTool(t, s, "contour_shapes", map[string]interface{}{"path": path, "threshold": 64}, &res)

	if res.Count != 2 || res.Width != 40 || res.Height != 30 {
		t.Fatalf("unexpected result: count %d, %dx%d", res.Count, res.Width, res.Height)
	}
	big := res.Shapes[0]
	if big.Kind != detection.KindRectangle || big.Index != 0 {
		t.Errorf("largest shape: got %s at index %d, want rectangle at 0", big.Kind, big.Index)
	}
	if big.FillColor != "#0080ff" {
		t.Errorf("FillColor: got %q, want #0080ff", big.FillColor)
	}

	mustCallTool(t, s, "contour_shapes", map[string]interface{}{"path": path, "threshold": 64, "min_area": 5}, &res)
	if res.Count != 1 {
		t.Errorf("min_area should drop the small square, got %d shapes", res.Count)
	}

	if mcpErr := callTool(t, s, "contour_shapes", map[string]interface{}{"path": path, "tolerance": 2}, nil); mcpErr == nil {
		t.Error("expected error for tolerance above 1")
	}
}

func TestTraceArgs_ExplicitZeroOverridesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MinPoints = 2
	cfg.Epsilon = 3
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	path := writeShapeImage(t, 20, 15, black, white, image.Rect(2, 3, 12, 10), image.Rect(15, 2, 16, 3))

	var res ContoursResult
	mustCallTool(t, s, "contour_find", map[string]interface{}{"path": path}, &res)
	if res.Count != 1 {
		t.Errorf("config min_points should drop the single pixel, got %d lines", res.Count)
	}

	mustCallTool(t, s, "contour_find", map[string]interface{}{
		"path": path, "min_points": 0, "approximate": true, "epsilon": 0,
	}, &res)
	if res.Count != 2 {
		t.Fatalf("min_points 0 should keep every contour, got %d lines", res.Count)
	}
	for i, l := range res.Lines {
		if diff := cmp.Diff(l.Points, l.Approximated); diff != "" {
			t.Errorf("line %d: epsilon 0 should keep every point (-points +approximated):\n%s", i, diff)
		}
	}

	mustCallTool(t, s, "contour_find", map[string]interface{}{"path": path, "approximate": true}, &res)
	if got := len(res.Lines[0].Approximated); got != 4 {
		t.Errorf("config epsilon should simplify the rectangle to 4 corners, got %d points", got)
	}
}
