// Package server implements the MCP (Model Context Protocol) server for contour tracing.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Contour Operations:
//   - contour_find: Threshold an image file and trace its borders
//   - contour_find_bytes: Trace a raw grayscale buffer
//   - contour_find_batch: Trace several files in parallel
//   - contour_render: Draw traced borders over the image
//   - contour_export: Write traced borders as SVG, YAML or JSON
//   - contour_shapes: Classify traced borders as rectangles, circles and so on
//
// contour_find and contour_find_bytes agree: tracing a file, and tracing the
// luminance bytes of the same prepared image, give identical contours.
//
// # Defaults
//
// Parameters a call omits fall back to the server's config.Config, so
// threshold, mode, min_points, epsilon and backend can be set once per
// deployment.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := server.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
