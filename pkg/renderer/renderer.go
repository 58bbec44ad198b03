package renderer

import (
	"context"
	"time"

	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/integrator"
	"github.com/spectraforge/spectraforge/pkg/log"
	"github.com/spectraforge/spectraforge/pkg/scene"
)

var logger = log.New("renderer")

// RenderResult is the outcome of a completed (or cancelled) render
type RenderResult struct {
	Framebuffer *Framebuffer
	Stats       RenderStats
	TileErrors  []*TileError
}

// Renderer schedules tiles across a worker pool and accumulates samples
// into a framebuffer. Pixel sample streams are seeded from (seed, x, y,
// sample index) alone, so the output is identical for any worker count.
type Renderer struct {
	config     Config
	scene      *scene.Scene
	integrator integrator.Integrator
	fb         *Framebuffer
	progress   progressCounter

	// OnTileComplete, when set before Render, is called from a single
	// collector goroutine as each tile finishes. pass is 1 or 2.
	OnTileComplete func(tile Tile, pass int)
}

// NewRenderer validates the configuration, prepares the scene if needed,
// and builds the default path-tracing integrator
func NewRenderer(config Config, scn *scene.Scene) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if !scn.HasIllumination() {
		return nil, &ConfigError{Field: "scene", Reason: "no lights and no environment emission"}
	}
	if !scn.Prepared() {
		if err := scn.Preprocess(); err != nil {
			return nil, err
		}
	}

	pt := integrator.NewPathTracer(integrator.PathTracingConfig{
		MaxDepth:        config.MaxDepth,
		MinRRDepth:      config.MinRRDepth,
		RRSurvivalMin:   0.05,
		RussianRoulette: true,
	})

	return &Renderer{
		config:     config,
		scene:      scn,
		integrator: pt,
		fb:         NewFramebuffer(config.Width, config.Height),
	}, nil
}

// Framebuffer exposes the accumulation buffer, e.g. for live previews.
// Reading it during a render races with the workers; consumers who need a
// consistent view should wait for tile completion callbacks.
func (r *Renderer) Framebuffer() *Framebuffer {
	return r.fb
}

// Progress returns the fraction of the sample budget spent so far
func (r *Renderer) Progress() float64 {
	return r.progress.Fraction()
}

// Render runs the full render: a first pass distributing the base sample
// budget over all tiles and, when adaptive sampling is enabled, a second
// pass spending the remainder only on unconverged pixels. The first pass
// fully completes before the second starts, so pass-two convergence
// decisions see every pixel's pass-one statistics.
func (r *Renderer) Render(ctx context.Context) (*RenderResult, error) {
	start := time.Now()
	tiles := GenerateTiles(r.config.Width, r.config.Height, r.config.TileSize)
	workers := r.config.EffectiveWorkers()

	firstPassSamples := r.config.SamplesPerPixel
	if r.config.Adaptive {
		firstPassSamples = int(float64(r.config.SamplesPerPixel) * r.config.AdaptiveMin)
		if firstPassSamples < 2 {
			firstPassSamples = 2 // Variance needs at least two samples
		}
		if firstPassSamples > r.config.SamplesPerPixel {
			firstPassSamples = r.config.SamplesPerPixel
		}
	}
	r.progress.expected = int64(r.config.Width) * int64(r.config.Height) * int64(r.config.SamplesPerPixel)

	logger.Infof("rendering %dx%d, %d spp (%d in first pass), %d tiles, %d workers",
		r.config.Width, r.config.Height, r.config.SamplesPerPixel, firstPassSamples, len(tiles), workers)

	var tileErrors []*TileError
	pool := newWorkerPool(workers, r.renderTile)

	runPass := func(pass int, tasks []tileTask) {
		pool.run(ctx, tasks, func(result tileResult) {
			if result.err != nil && result.err != context.Canceled {
				logger.Errorf("tile %d failed: %v", result.tile.Index, result.err)
				tileErrors = append(tileErrors, &TileError{
					TileIndex: result.tile.Index,
					Bounds:    result.tile,
					Err:       result.err,
				})
			}
			if r.OnTileComplete != nil {
				r.OnTileComplete(result.tile, pass)
			}
		})
	}

	// Pass 1: uniform base samples
	tasks := make([]tileTask, len(tiles))
	for i, tile := range tiles {
		tasks[i] = tileTask{tile: tile, startSample: 0, endSample: firstPassSamples}
	}
	runPass(1, tasks)

	// Pass 2: refine unconverged pixels up to the full budget
	if r.config.Adaptive && firstPassSamples < r.config.SamplesPerPixel && ctx.Err() == nil {
		for i, tile := range tiles {
			tasks[i] = tileTask{
				tile:        tile,
				startSample: firstPassSamples,
				endSample:   r.config.SamplesPerPixel,
				adaptive:    true,
			}
		}
		runPass(2, tasks)
	}

	if err := ctx.Err(); err != nil {
		logger.Warningf("render cancelled after %s", time.Since(start).Round(time.Millisecond))
		return nil, err
	}

	stats := RenderStats{
		Width:       r.config.Width,
		Height:      r.config.Height,
		Tiles:       len(tiles),
		FailedTiles: len(tileErrors),
		Workers:     workers,
		Duration:    time.Since(start),
	}
	collectPixelStats(r.fb, &stats)
	bvhStats := r.scene.BVHStats()
	stats.BVHNodes = bvhStats.TotalNodes
	stats.BVHLeaves = bvhStats.LeafNodes
	stats.BVHMaxDepth = bvhStats.MaxDepth

	logger.Infof("render finished in %s, %.0f samples/s, %d/%d tiles ok",
		stats.Duration.Round(time.Millisecond), stats.SamplesPerSecond(),
		stats.Tiles-stats.FailedTiles, stats.Tiles)

	return &RenderResult{Framebuffer: r.fb, Stats: stats, TileErrors: tileErrors}, nil
}

// renderTile renders one task's sample range for every pixel in the tile.
// Cancellation is checked at pixel boundaries so a cancelled render stops
// promptly without tearing individual pixels.
func (r *Renderer) renderTile(ctx context.Context, task tileTask) (int64, error) {
	camera := r.scene.Camera
	var samples int64

	for y := task.tile.Y0; y < task.tile.Y1; y++ {
		for x := task.tile.X0; x < task.tile.X1; x++ {
			if ctx.Err() != nil {
				return samples, ctx.Err()
			}

			pixel := r.fb.Pixel(x, y)
			if task.adaptive && pixel.RelativeError() < r.config.AdaptiveThreshold {
				continue
			}

			pixelStart := samples
			for s := task.startSample; s < task.endSample; s++ {
				// The sample stream depends only on (seed, x, y, s), never
				// on which worker runs it
				sampler := core.NewPixelSampler(r.config.Seed, x, y, s)
				ray := camera.GetRay(x, y, r.config.Width, r.config.Height, sampler)

				var aux *integrator.AuxRecord
				if s == 0 {
					aux = &integrator.AuxRecord{}
				}

				color := r.integrator.RayColor(ray, r.scene, sampler, aux)
				if !color.IsFinite() {
					// Degenerate sample: drop it rather than poison the mean
					continue
				}
				r.fb.AddSample(x, y, color, aux)
				samples++

				if task.adaptive && pixel.RelativeError() < r.config.AdaptiveThreshold {
					break
				}
			}
			// Charge only samples actually taken, so the progress fraction
			// tracks real work rather than the budget upper bound
			r.progress.add(samples - pixelStart)
		}
	}

	return samples, nil
}
