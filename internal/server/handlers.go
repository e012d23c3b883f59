package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/contour-tools-mcp/internal/contour"
	"github.com/ironsheep/contour-tools-mcp/internal/detection"
	"github.com/ironsheep/contour-tools-mcp/internal/export"
	"github.com/ironsheep/contour-tools-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "contour_find").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug() {
			log.Printf("%s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Contour Operations
	case "contour_find":
		return s.handleContourFind(args)
	case "contour_find_bytes":
		return s.handleContourFindBytes(args)
	case "contour_find_batch":
		return s.handleContourFindBatch(args)
	case "contour_render":
		return s.handleContourRender(args)
	case "contour_export":
		return s.handleContourExport(args)
	case "contour_shapes":
		return s.handleContourShapes(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Contour Handlers ===

// LineResult describes one traced border.
type LineResult struct {
	PointCount   int             `json:"point_count"`
	Points       []contour.Point `json:"points"`
	Bounds       contour.Bounds  `json:"bounds"`
	Perimeter    float64         `json:"perimeter"`
	Area         float64         `json:"area"`
	Approximated []contour.Point `json:"approximated,omitempty"`
}

// ContoursResult is returned by the contour_find tools.
type ContoursResult struct {
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Origin  contour.Point `json:"origin"`
	Backend string        `json:"backend"`
	Mode    string        `json:"mode"`
	Count   int           `json:"count"`
	Lines   []LineResult  `json:"lines"`
}

// traceArgs are the tracing options shared by every contour tool.
type traceArgs struct {
	Mode        string   `json:"mode"`
	MinPoints   *int     `json:"min_points"`
	Approximate bool     `json:"approximate"`
	Epsilon     *float64 `json:"epsilon"`
}

// prepareArgs are the preprocessing options for tools that read image files.
type prepareArgs struct {
	Threshold    *int            `json:"threshold"`
	Invert       *bool           `json:"invert"`
	MedianRadius *float64        `json:"median_radius"`
	Region       *imaging.Region `json:"region"`
}

func (s *Server) findOptions(a traceArgs) (contour.FindOptions, error) {
	name := a.Mode
	if name == "" {
		name = s.cfg.Mode
	}
	mode, ok := contour.ParseMode(name)
	if !ok {
		return contour.FindOptions{}, fmt.Errorf("unknown mode: %s", name)
	}
	minPoints := s.cfg.MinPoints
	if a.MinPoints != nil {
		minPoints = *a.MinPoints
	}
	return contour.FindOptions{Mode: mode, MinPoints: minPoints}, nil
}

// epsilon returns the call's approximation tolerance, or the configured one
// when the call omits it. An explicit 0 disables simplification.
func (s *Server) epsilon(a traceArgs) float64 {
	if a.Epsilon != nil {
		return *a.Epsilon
	}
	return s.cfg.Epsilon
}

func (s *Server) prepareOptions(a prepareArgs) imaging.PrepareOptions {
	opts := imaging.PrepareOptions{
		Region:       a.Region,
		Threshold:    s.cfg.Threshold,
		Invert:       s.cfg.Invert,
		MedianRadius: s.cfg.MedianRadius,
	}
	if a.Threshold != nil {
		opts.Threshold = *a.Threshold
	}
	if a.Invert != nil {
		opts.Invert = *a.Invert
	}
	if a.MedianRadius != nil {
		opts.MedianRadius = *a.MedianRadius
	}
	return opts
}

// traceGrid runs the configured backend over g and formats the result.
func (s *Server) traceGrid(g *contour.Grid, origin image.Point, ta traceArgs) (*ContoursResult, []contour.Line, error) {
	opts, err := s.findOptions(ta)
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.tracer.Find(g, opts)
	if err != nil {
		return nil, nil, err
	}

	epsilon := s.epsilon(ta)

	result := &ContoursResult{
		Width:   g.Width,
		Height:  g.Height,
		Origin:  contour.Point{X: origin.X, Y: origin.Y},
		Backend: s.tracer.Name(),
		Mode:    opts.Mode.String(),
		Count:   len(lines),
		Lines:   make([]LineResult, len(lines)),
	}
	for i, l := range lines {
		lr := LineResult{
			PointCount: l.Len(),
			Points:     l.Points(),
			Bounds:     l.Bounds(),
			Perimeter:  l.Perimeter(),
			Area:       l.Area(),
		}
		if ta.Approximate {
			lr.Approximated = contour.Approximate(l, epsilon).Points()
		}
		result.Lines[i] = lr
	}
	return result, lines, nil
}

// traceFile loads, prepares and traces one image file. The returned origin is
// the absolute top-left corner of the traced area.
func (s *Server) traceFile(path string, pa prepareArgs, ta traceArgs) (*ContoursResult, []contour.Line, image.Image, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}

	prepared, err := imaging.Prepare(img, s.prepareOptions(pa))
	if err != nil {
		return nil, nil, nil, err
	}

	origin := img.Bounds().Min
	if pa.Region != nil {
		origin = image.Pt(pa.Region.X1, pa.Region.Y1)
	}

	pix, width, height := contour.DecodeImage(prepared)
	g, err := contour.FromBytes(pix, width, height)
	if err != nil {
		return nil, nil, nil, err
	}

	result, lines, err := s.traceGrid(g, origin, ta)
	if err != nil {
		return nil, nil, nil, err
	}
	if s.cfg.Debug() {
		log.Printf("traced %s: %dx%d, %d lines", path, width, height, len(lines))
	}
	return result, lines, img, nil
}

type contourFindArgs struct {
	Path string `json:"path"`
	prepareArgs
	traceArgs
}

func (s *Server) handleContourFind(args json.RawMessage) (interface{}, error) {
	var a contourFindArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	result, _, _, err := s.traceFile(a.Path, a.prepareArgs, a.traceArgs)
	return result, err
}

type contourFindBytesArgs struct {
	Samples   []int `json:"samples"`
	Width     int   `json:"width"`
	Height    int   `json:"height"`
	Unchecked bool  `json:"unchecked"`
	traceArgs
}

func (s *Server) handleContourFindBytes(args json.RawMessage) (interface{}, error) {
	var a contourFindBytesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	g, err := contour.Build(a.Samples, a.Width, a.Height, contour.BuildOptions{Unchecked: a.Unchecked})
	if err != nil {
		return nil, err
	}
	result, _, err := s.traceGrid(g, image.Point{}, a.traceArgs)
	return result, err
}

type contourFindBatchArgs struct {
	Paths    []string `json:"paths"`
	FailFast bool     `json:"fail_fast"`
	prepareArgs
	traceArgs
}

// BatchItem is the outcome for one path of a batch.
type BatchItem struct {
	Path   string          `json:"path"`
	Result *ContoursResult `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// BatchResult lists batch items in request order.
type BatchResult struct {
	Items  []BatchItem `json:"items"`
	Failed int         `json:"failed"`
}

func (s *Server) handleContourFindBatch(args json.RawMessage) (interface{}, error) {
	var a contourFindBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, fmt.Errorf("paths must not be empty")
	}

	items := make([]BatchItem, len(a.Paths))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(s.cfg.BatchWorkers)

	for i, path := range a.Paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				items[i] = BatchItem{Path: path, Error: err.Error()}
				return nil
			}
			result, _, _, err := s.traceFile(path, a.prepareArgs, a.traceArgs)
			if err != nil {
				items[i] = BatchItem{Path: path, Error: err.Error()}
				if a.FailFast {
					return fmt.Errorf("%s: %w", path, err)
				}
				return nil
			}
			items[i] = BatchItem{Path: path, Result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &BatchResult{Items: items}
	for _, it := range items {
		if it.Error != "" {
			out.Failed++
		}
	}
	return out, nil
}

type contourRenderArgs struct {
	Path  string `json:"path"`
	Color string `json:"color"`
	prepareArgs
	traceArgs
}

// RenderToolResult pairs the overlay image with the line count.
type RenderToolResult struct {
	*imaging.RenderResult
	Count int `json:"count"`
}

func (s *Server) handleContourRender(args json.RawMessage) (interface{}, error) {
	var a contourRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	result, lines, img, err := s.traceFile(a.Path, a.prepareArgs, a.traceArgs)
	if err != nil {
		return nil, err
	}

	origin := image.Pt(result.Origin.X, result.Origin.Y)
	rendered, err := imaging.RenderContours(img, lines, origin, a.Color)
	if err != nil {
		return nil, err
	}
	return &RenderToolResult{RenderResult: rendered, Count: len(lines)}, nil
}

type contourExportArgs struct {
	Path   string `json:"path"`
	Output string `json:"output"`
	Format string `json:"format"`
	prepareArgs
	traceArgs
}

// ExportResult reports where contours were written.
type ExportResult struct {
	Output string `json:"output"`
	Format string `json:"format"`
	Count  int    `json:"count"`
}

func (s *Server) handleContourExport(args json.RawMessage) (interface{}, error) {
	var a contourExportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, fmt.Errorf("output path is required")
	}
	result, lines, _, err := s.traceFile(a.Path, a.prepareArgs, a.traceArgs)
	if err != nil {
		return nil, err
	}
	if a.Approximate {
		for i, l := range result.Lines {
			approx, err := contour.NewLine(l.Approximated)
			if err != nil {
				return nil, err
			}
			lines[i] = approx
		}
	}

	format, err := export.WriteFile(a.Output, a.Format, export.NewDocument(result.Width, result.Height, lines))
	if err != nil {
		return nil, err
	}
	return &ExportResult{Output: a.Output, Format: format, Count: len(lines)}, nil
}

type contourShapesArgs struct {
	Path      string  `json:"path"`
	MinArea   float64 `json:"min_area"`
	Tolerance float64 `json:"tolerance"`
	prepareArgs
	traceArgs
}

// ShapesToolResult adds the traced area to the classified shapes.
type ShapesToolResult struct {
	*detection.ShapesResult
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Origin contour.Point `json:"origin"`
}

func (s *Server) handleContourShapes(args json.RawMessage) (interface{}, error) {
	var a contourShapesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Tolerance < 0 || a.Tolerance > 1 {
		return nil, fmt.Errorf("tolerance must be between 0 and 1")
	}

	// Classification simplifies every contour itself.
	a.Approximate = false
	result, lines, img, err := s.traceFile(a.Path, a.prepareArgs, a.traceArgs)
	if err != nil {
		return nil, err
	}

	epsilon := s.epsilon(a.traceArgs)
	shapes := detection.Classify(img, image.Pt(result.Origin.X, result.Origin.Y), lines, detection.Options{
		MinArea:   a.MinArea,
		Tolerance: a.Tolerance,
		Epsilon:   epsilon,
	})
	return &ShapesToolResult{
		ShapesResult: shapes,
		Width:        result.Width,
		Height:       result.Height,
		Origin:       result.Origin,
	}, nil
}
