package renderer

import (
	"runtime"
)

// Config holds all render settings
type Config struct {
	Width             int     // Image width in pixels
	Height            int     // Image height in pixels
	SamplesPerPixel   int     // Sample budget per pixel
	MaxDepth          int     // Path length cap
	MinRRDepth        int     // Bounces before Russian roulette kicks in
	TileSize          int     // Tile edge length in pixels
	Workers           int     // Worker goroutines; 0 uses all CPUs
	Seed              int64   // Base seed for deterministic sampling
	Adaptive          bool    // Enable two-pass adaptive sampling
	AdaptiveMin       float64 // Fraction of the budget spent in the first pass
	AdaptiveThreshold float64 // Relative error below which pixels stop early
}

// DefaultConfig returns production render settings for the given image size
func DefaultConfig(width, height int) Config {
	return Config{
		Width:             width,
		Height:            height,
		SamplesPerPixel:   64,
		MaxDepth:          12,
		MinRRDepth:        3,
		TileSize:          32,
		Workers:           0,
		Seed:              42,
		Adaptive:          true,
		AdaptiveMin:       0.25,
		AdaptiveThreshold: 0.02,
	}
}

// Validate checks the configuration and returns a ConfigError describing
// the first invalid field
func (c *Config) Validate() error {
	if c.Width <= 0 {
		return &ConfigError{Field: "width", Reason: "must be positive"}
	}
	if c.Height <= 0 {
		return &ConfigError{Field: "height", Reason: "must be positive"}
	}
	if c.SamplesPerPixel <= 0 {
		return &ConfigError{Field: "samples per pixel", Reason: "must be positive"}
	}
	if c.MaxDepth <= 0 {
		return &ConfigError{Field: "max depth", Reason: "must be positive"}
	}
	if c.TileSize <= 0 {
		return &ConfigError{Field: "tile size", Reason: "must be positive"}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Reason: "must be non-negative"}
	}
	if c.Adaptive {
		if c.AdaptiveMin <= 0 || c.AdaptiveMin > 1 {
			return &ConfigError{Field: "adaptive minimum fraction", Reason: "must be in (0, 1]"}
		}
		if c.AdaptiveThreshold < 0 {
			return &ConfigError{Field: "adaptive variance threshold", Reason: "must be non-negative"}
		}
	}
	return nil
}

// EffectiveWorkers resolves the worker count, defaulting to all CPUs
func (c *Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
