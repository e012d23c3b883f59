// Package config loads server settings.
//
// Settings start from Default, are overridden by an optional YAML file named
// by CONTOUR_MCP_CONFIG, and finally by individual environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/contour-tools-mcp/internal/contour"
)

// Environment variables read by Load.
const (
	EnvConfigFile = "CONTOUR_MCP_CONFIG"
	EnvLogLevel   = "CONTOUR_MCP_LOG_LEVEL"
	EnvBackend    = "CONTOUR_MCP_BACKEND"
	EnvWorkers    = "CONTOUR_MCP_BATCH_WORKERS"
)

// Config holds the defaults applied to tool calls that omit a parameter.
type Config struct {
	LogLevel string `yaml:"log_level"`

	// Threshold binarizes images before tracing: luminance >= Threshold is
	// foreground. Zero traces the decoded luminance as is.
	Threshold int `yaml:"threshold"`

	// Invert swaps foreground and background after thresholding, for dark
	// shapes on a light background.
	Invert bool `yaml:"invert"`

	// MedianRadius applies a median filter before thresholding. Zero disables it.
	MedianRadius float64 `yaml:"median_radius"`

	// Mode is "external" or "list".
	Mode string `yaml:"mode"`

	MinPoints int `yaml:"min_points"`

	// Epsilon is the polygon approximation tolerance in pixels.
	Epsilon float64 `yaml:"epsilon"`

	BatchWorkers int `yaml:"batch_workers"`

	// Backend is "native" or "opencv".
	Backend string `yaml:"backend"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:     "info",
		Threshold:    128,
		Mode:         "external",
		Epsilon:      contour.DefaultEpsilon,
		BatchWorkers: 4,
		Backend:      "native",
	}
}

// Load builds the configuration from the environment.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", EnvWorkers, err)
		}
		cfg.BatchWorkers = n
	}

	return cfg, cfg.Validate()
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("threshold %d out of range 0-255", c.Threshold)
	}
	if c.MedianRadius < 0 {
		return fmt.Errorf("median_radius must not be negative")
	}
	if _, ok := contour.ParseMode(c.Mode); !ok {
		return fmt.Errorf("unknown mode: %s", c.Mode)
	}
	if c.MinPoints < 0 {
		return fmt.Errorf("min_points must not be negative")
	}
	if c.Epsilon < 0 {
		return fmt.Errorf("epsilon must not be negative")
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("batch_workers must be at least 1")
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}
