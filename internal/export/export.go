// Package export writes traced contours to vector and data formats.
//
// Three formats are supported:
//
//   - "svg": one <path> per line, closed with Z, sized to the source image
//   - "yaml": a Document encoded with gopkg.in/yaml.v3
//   - "json": the same Document encoded as indented JSON
//
// YAML and JSON output can be read back with Decode.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/contour-tools-mcp/internal/contour"
)

// Document is the serialized form of a contour set.
type Document struct {
	Width  int               `json:"width" yaml:"width"`
	Height int               `json:"height" yaml:"height"`
	Lines  [][]contour.Point `json:"lines" yaml:"lines"`
}

// NewDocument captures lines traced from a width x height image.
func NewDocument(width, height int, lines []contour.Line) Document {
	doc := Document{Width: width, Height: height, Lines: make([][]contour.Point, len(lines))}
	for i, l := range lines {
		doc.Lines[i] = l.Points()
	}
	return doc
}

// ContourLines converts the document back into Lines.
func (d Document) ContourLines() ([]contour.Line, error) {
	lines := make([]contour.Line, 0, len(d.Lines))
	for i, pts := range d.Lines {
		l, err := contour.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return "svg", nil
	case ".yaml", ".yml":
		return "yaml", nil
	case ".json":
		return "json", nil
	default:
		return "", fmt.Errorf("cannot infer export format from %q", path)
	}
}

// Encode writes doc to w in the given format.
func Encode(w io.Writer, format string, doc Document) error {
	switch format {
	case "svg":
		return writeSVG(w, doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}

// Decode reads a YAML or JSON document.
func Decode(r io.Reader, format string) (Document, error) {
	var doc Document
	switch format {
	case "yaml":
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("failed to decode yaml: %w", err)
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("failed to decode json: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("cannot decode format: %s", format)
	}
	return doc, nil
}

// WriteFile encodes doc into path. When format is empty it is inferred
// from the extension. The file is written in one go so a failed encode
// leaves no partial output.
func WriteFile(path, format string, doc Document) (string, error) {
	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return "", err
		}
		format = f
	}

	var buf bytes.Buffer
	if err := Encode(&buf, format, doc); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return format, nil
}
