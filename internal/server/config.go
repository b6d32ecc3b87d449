package server

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ironsheep/segment-tools-mcp/internal/imaging"
)

// Environment variables read by LoadEnv.
const (
	EnvThreshold    = "SEGMENT_MCP_THRESHOLD"
	EnvInvert       = "SEGMENT_MCP_INVERT"
	EnvWorkers      = "SEGMENT_MCP_WORKERS"
	EnvMaxDimension = "SEGMENT_MCP_MAX_DIMENSION"
)

// Config holds server-wide defaults. Individual tool calls may override
// Threshold and Invert.
type Config struct {
	// Threshold is the default binarization level (0-255).
	Threshold uint8

	// Invert makes bright pixels foreground by default.
	Invert bool

	// Workers is the number of goroutines used per thinning sub-pass.
	Workers int

	// MaxDimension shrinks images whose longer side exceeds it before
	// segmentation. 0 disables shrinking.
	MaxDimension int
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Threshold: imaging.DefaultThreshold,
		Workers:   1,
	}
}

// ConfigFromEnv returns DefaultConfig overlaid with any SEGMENT_MCP_*
// environment variables that are set.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := cfg.LoadEnv(nil); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadEnv overlays the SEGMENT_MCP_* variables that are set onto c. Keys in
// skip are neither parsed nor applied, so a value already chosen elsewhere
// wins over a malformed variable. LoadEnv does not call Validate.
func (c *Config) LoadEnv(skip map[string]bool) error {
	lookup := func(key string) string {
		if skip[key] {
			return ""
		}
		return os.Getenv(key)
	}

	if v := lookup(EnvThreshold); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return fmt.Errorf("invalid %s %q: must be 0-255", EnvThreshold, v)
		}
		c.Threshold = uint8(n)
	}
	if v := lookup(EnvInvert); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvInvert, v, err)
		}
		c.Invert = b
	}
	if v := lookup(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}
		c.Workers = n
	}
	if v := lookup(EnvMaxDimension); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxDimension, v, err)
		}
		c.MaxDimension = n
	}
	return nil
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.MaxDimension < 0 {
		return fmt.Errorf("max dimension must be >= 0, got %d", c.MaxDimension)
	}
	return nil
}
