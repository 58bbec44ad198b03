package renderer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// tileTask is one unit of work: render a sample range for every pixel of a
// tile. In adaptive passes, converged pixels drop out early.
type tileTask struct {
	tile        Tile
	startSample int
	endSample   int
	adaptive    bool
}

// tileResult reports one finished tile
type tileResult struct {
	tile    Tile
	samples int64
	err     error
}

// renderTileFunc renders one task; implemented by the Renderer
type renderTileFunc func(ctx context.Context, task tileTask) (int64, error)

// workerPool fans tile tasks out to a fixed set of goroutines and gathers
// results. A panic inside a tile is recovered and surfaced as that tile's
// error instead of crashing the process.
type workerPool struct {
	workers int
	render  renderTileFunc
}

func newWorkerPool(workers int, render renderTileFunc) *workerPool {
	return &workerPool{workers: workers, render: render}
}

// run renders all tasks and streams results to the handler from a single
// collector goroutine. It returns once every task finished or the context
// was cancelled.
func (wp *workerPool) run(ctx context.Context, tasks []tileTask, handle func(tileResult)) {
	taskQueue := make(chan tileTask, len(tasks))
	resultQueue := make(chan tileResult, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskQueue {
				samples, err := wp.renderSafely(ctx, task)
				resultQueue <- tileResult{tile: task.tile, samples: samples, err: err}
			}
		}()
	}

	for _, task := range tasks {
		taskQueue <- task
	}
	close(taskQueue)

	go func() {
		wg.Wait()
		close(resultQueue)
	}()

	for result := range resultQueue {
		handle(result)
	}
}

// renderSafely wraps the tile render with panic recovery
func (wp *workerPool) renderSafely(ctx context.Context, task tileTask) (samples int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return wp.render(ctx, task)
}

// progressCounter tracks completed pixel samples across workers
type progressCounter struct {
	done     atomic.Int64
	expected int64
}

func (p *progressCounter) add(n int64) {
	p.done.Add(n)
}

// Fraction returns completion in [0, 1]. The expected total is an upper
// bound: converged pixels in adaptive passes and dropped degenerate samples
// spend less, so the fraction may finish below 1.
func (p *progressCounter) Fraction() float64 {
	if p.expected <= 0 {
		return 0
	}
	f := float64(p.done.Load()) / float64(p.expected)
	if f > 1 {
		f = 1
	}
	return f
}
