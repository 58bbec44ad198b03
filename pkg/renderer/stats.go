package renderer

import (
	"time"
)

// RenderStats summarizes one completed render
type RenderStats struct {
	Width, Height  int
	TotalSamples   int64
	AverageSamples float64
	MinSamples     int // Fewest samples any pixel received
	MaxSamples     int // Most samples any pixel received
	Tiles          int
	FailedTiles    int
	Workers        int
	Duration       time.Duration

	// Acceleration structure diagnostics
	BVHNodes    int
	BVHLeaves   int
	BVHMaxDepth int
}

// SamplesPerSecond returns the measured throughput
func (s *RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// collectPixelStats scans the framebuffer for per-pixel sample extremes
func collectPixelStats(fb *Framebuffer, stats *RenderStats) {
	stats.MinSamples = int(^uint(0) >> 1)
	stats.MaxSamples = 0
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			count := fb.Pixel(x, y).SampleCount
			if count < stats.MinSamples {
				stats.MinSamples = count
			}
			if count > stats.MaxSamples {
				stats.MaxSamples = count
			}
		}
	}
	stats.TotalSamples = fb.TotalSamples()
	pixels := fb.Width * fb.Height
	if pixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(pixels)
	}
}
