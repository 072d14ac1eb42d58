package renderer

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RowTask represents one image row to render
type RowTask struct {
	Row int
}

// WorkerPool renders image rows in parallel
type WorkerPool struct {
	raytracer  *Raytracer
	numWorkers int
	seed       int64
	logger     zerolog.Logger
	rowsDone   atomic.Int64
	lastDecile atomic.Int64
}

// Worker handles individual row rendering tasks. Each worker owns its
// sampler; it is reseeded from the row index before every row.
type Worker struct {
	ID      int
	sampler *core.RandomSampler
	pool    *WorkerPool
	stats   RenderStats
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(raytracer *Raytracer, numWorkers int, seed int64, logger zerolog.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &WorkerPool{
		raytracer:  raytracer,
		numWorkers: numWorkers,
		seed:       seed,
		logger:     logger,
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run renders every row of frame. It stops between rows once ctx is
// cancelled or any worker fails, and returns the first error.
func (wp *WorkerPool) Run(ctx context.Context, frame *Frame) (RenderStats, error) {
	g, ctx := errgroup.WithContext(ctx)
	tasks := make(chan RowTask)

	g.Go(func() error {
		defer close(tasks)
		for j := 0; j < frame.Height; j++ {
			select {
			case tasks <- RowTask{Row: j}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	workers := make([]*Worker, wp.numWorkers)
	for i := range workers {
		workers[i] = &Worker{
			ID:      i,
			sampler: core.NewSeededSampler(wp.seed),
			pool:    wp,
		}
		worker := workers[i]
		g.Go(func() error {
			return worker.run(ctx, tasks, frame)
		})
	}

	if err := g.Wait(); err != nil {
		return RenderStats{}, err
	}

	stats := RenderStats{Workers: wp.numWorkers}
	for _, worker := range workers {
		stats.merge(worker.stats)
	}
	return stats, nil
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, tasks <-chan RowTask, frame *Frame) error {
	for task := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}

		w.sampler.Reseed(core.RowSeed(w.pool.seed, task.Row))
		samples, err := w.pool.raytracer.RenderRow(task.Row, frame.Row(task.Row), w.sampler)
		if err != nil {
			return fmt.Errorf("row %d: %w", task.Row, err)
		}

		w.stats.merge(RenderStats{
			TotalPixels:  frame.Width,
			TotalSamples: samples,
			RowsRendered: 1,
		})
		w.pool.reportRow(task.Row, frame.Height)
	}
	return nil
}

// reportRow logs progress; every row at debug level and every tenth of the
// image at info level
func (wp *WorkerPool) reportRow(row, totalRows int) {
	done := wp.rowsDone.Add(1)
	percent := 100 * float64(done) / float64(totalRows)

	wp.logger.Debug().
		Int("row", row).
		Int64("rows_done", done).
		Int("rows_total", totalRows).
		Msg("row complete")

	decile := done * 10 / int64(totalRows)
	for {
		last := wp.lastDecile.Load()
		if decile <= last {
			return
		}
		if wp.lastDecile.CompareAndSwap(last, decile) {
			wp.logger.Info().
				Int64("rows_done", done).
				Int("rows_total", totalRows).
				Msgf("%.0f%% done", percent)
			return
		}
	}
}
