package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// traceProperties returns the schema entries shared by every contour tool.
func traceProperties() map[string]interface{} {
	return map[string]interface{}{
		"mode": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"external", "list"},
			"description": "external returns the outer border of each top-level shape; list also returns hole borders and shapes inside holes",
		},
		"min_points": map[string]interface{}{
			"type":        "integer",
			"description": "Drop contours with fewer points. Omit to use the server default; 0 keeps every contour",
		},
		"approximate": map[string]interface{}{
			"type":        "boolean",
			"description": "Also return a Douglas-Peucker simplified polygon for each contour",
			"default":     false,
		},
		"epsilon": map[string]interface{}{
			"type":        "number",
			"description": "Approximation tolerance in pixels. Omit to use the server default (1.5); 0 keeps every point",
			"default":     1.5,
		},
	}
}

// prepareProperties returns the preprocessing schema for tools reading image files.
func prepareProperties() map[string]interface{} {
	return map[string]interface{}{
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Luminance level (1-255) at or above which a pixel is foreground. 0 traces the image as is; any nonzero pixel is then foreground. Default 128",
		},
		"invert": map[string]interface{}{
			"type":        "boolean",
			"description": "Treat dark pixels as foreground (for dark shapes on a light background)",
		},
		"median_radius": map[string]interface{}{
			"type":        "number",
			"description": "Median filter radius applied before thresholding to remove speckles (0 disables)",
		},
		"region": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required":    []string{"x1", "y1", "x2", "y2"},
			"description": "Only trace inside this rectangle; returned points are relative to (x1, y1)",
		},
	}
}

func merge(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and whether it is already grayscale.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Contour Operations
		{
			Name:        "contour_find",
			Description: "Trace the borders of shapes in an image. The image is thresholded so shapes are white on black, then each border is returned as an ordered list of pixel points (start point not repeated).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(
					map[string]interface{}{"path": pathProperty()},
					prepareProperties(),
					traceProperties(),
				),
				"required": []string{"path"},
			},
		},
		{
			Name:        "contour_find_bytes",
			Description: "Trace borders in a raw 8-bit grayscale buffer given row by row. Nonzero samples are foreground. Returns the same contours contour_find returns for an image with these pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(
					map[string]interface{}{
						"samples": map[string]interface{}{
							"type":        "array",
							"items":       map[string]interface{}{"type": "integer"},
							"description": "width*height intensity values (0-255), row-major",
						},
						"width": map[string]interface{}{
							"type":        "integer",
							"description": "Buffer width in pixels",
						},
						"height": map[string]interface{}{
							"type":        "integer",
							"description": "Buffer height in pixels",
						},
						"unchecked": map[string]interface{}{
							"type":        "boolean",
							"description": "Skip the per-sample 0-255 range check for trusted buffers",
							"default":     false,
						},
					},
					traceProperties(),
				),
				"required": []string{"samples", "width", "height"},
			},
		},
		{
			Name:        "contour_find_batch",
			Description: "Trace several image files in parallel with the same settings. Results are returned in the order of paths.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(
					map[string]interface{}{
						"paths": map[string]interface{}{
							"type":        "array",
							"items":       map[string]interface{}{"type": "string"},
							"description": "Absolute paths to the image files",
						},
						"fail_fast": map[string]interface{}{
							"type":        "boolean",
							"description": "Abort the whole batch on the first failure instead of reporting per-file errors",
							"default":     false,
						},
					},
					prepareProperties(),
					traceProperties(),
				),
				"required": []string{"paths"},
			},
		},
		{
			Name:        "contour_render",
			Description: "Draw traced contours over the image and return it as base64-encoded PNG, one color per contour.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(
					map[string]interface{}{
						"path": pathProperty(),
						"color": map[string]interface{}{
							"type":        "string",
							"description": "Hex color (#RRGGBB) for every contour. Omit to color each contour differently",
						},
					},
					prepareProperties(),
					traceProperties(),
				),
				"required": []string{"path"},
			},
		},
		{
			Name:        "contour_export",
			Description: "Trace contours and write them to a file as SVG paths, YAML or JSON.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(
					map[string]interface{}{
						"path": pathProperty(),
						"output": map[string]interface{}{
							"type":        "string",
							"description": "Absolute path of the file to write",
						},
						"format": map[string]interface{}{
							"type":        "string",
							"enum":        []string{"svg", "yaml", "json"},
							"description": "Output format. Inferred from the output extension when omitted",
						},
					},
					prepareProperties(),
					traceProperties(),
				),
				"required": []string{"path", "output"},
			},
		},
		{
			Name:        "contour_shapes",
			Description: "Trace contours and classify each as a line, triangle, rectangle, circle or polygon, largest first, with bounds, area and fill color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(
					map[string]interface{}{
						"path": pathProperty(),
						"min_area": map[string]interface{}{
							"type":        "number",
							"description": "Skip contours enclosing fewer square pixels",
							"default":     0,
						},
						"tolerance": map[string]interface{}{
							"type":        "number",
							"minimum":     0,
							"maximum":     1,
							"description": "Minimum rectangularity or circularity (0.0-1.0) for rectangles and circles. Default 0.9",
							"default":     0.9,
						},
					},
					prepareProperties(),
					traceProperties(),
				),
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
