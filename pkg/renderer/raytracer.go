package renderer

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Scene interface to avoid circular imports
type Scene interface {
	Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool)
	Background(ray core.Ray) core.Vec3
}

// RenderOptions controls how a render is executed. None of the options
// change the image for a given seed.
type RenderOptions struct {
	Workers int            // Number of parallel workers (0 = use CPU count)
	Seed    int64          // Base seed; every row derives its own stream from it
	Logger  zerolog.Logger // Progress output
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene  Scene
	camera *Camera
	config CameraConfig
}

// NewRaytracer creates a new raytracer, rejecting invalid camera settings
// before any rendering starts
func NewRaytracer(scene Scene, config CameraConfig) (*Raytracer, error) {
	if scene == nil {
		return nil, fmt.Errorf("no scene: %w", core.ErrInvalidConfig)
	}
	camera, err := NewCamera(config)
	if err != nil {
		return nil, err
	}
	return &Raytracer{
		scene:  scene,
		camera: camera,
		config: config,
	}, nil
}

// RayColor traces one path. The background seen along the primary ray is
// attenuated by every surface the path scatters from, for at most
// ScatterDepth bounces. A light source replaces the color with its emission
// and ends the path.
func (rt *Raytracer) RayColor(ray core.Ray, sampler core.Sampler) (core.Vec3, error) {
	color := rt.scene.Background(ray)
	hit, isHit := rt.scene.Hit(ray, core.Minimum, math.Inf(1))

	for depth := 0; depth < rt.config.ScatterDepth; depth++ {
		if !isHit {
			break
		}
		if err := checkHit(hit); err != nil {
			return core.Vec3{}, err
		}

		color = hit.Material.Attenuate(color)
		scattered, ok := hit.Material.Scatter(ray, hit, sampler)
		if !ok {
			break
		}

		ray = scattered
		hit, isHit = rt.scene.Hit(ray, core.Minimum, math.Inf(1))
	}

	return color, nil
}

// checkHit verifies what every shape promises about a reported hit
func checkHit(hit material.HitRecord) error {
	if hit.Material == nil {
		return fmt.Errorf("hit at t=%g has no material: %w", hit.T, core.ErrInternal)
	}
	if !(hit.T > core.Minimum) || math.IsInf(hit.T, 0) {
		return fmt.Errorf("hit at t=%g outside the query range: %w", hit.T, core.ErrInternal)
	}
	return nil
}

// RenderPixel averages PixelSamples jittered paths through pixel (i, j)
func (rt *Raytracer) RenderPixel(i, j int, sampler core.Sampler) (core.Vec3, error) {
	var ps PixelStats
	for ps.SampleCount < rt.config.PixelSamples {
		ray := rt.camera.GetRay(i, j, sampler)
		color, err := rt.RayColor(ray, sampler)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("pixel (%d, %d): %w", i, j, err)
		}
		ps.AddSample(color)
	}
	return ps.GetColor(), nil
}

// RenderRow renders row j left to right into dst and returns the number of
// samples taken
func (rt *Raytracer) RenderRow(j int, dst []core.Vec3, sampler core.Sampler) (int, error) {
	for i := range dst {
		color, err := rt.RenderPixel(i, j, sampler)
		if err != nil {
			return 0, err
		}
		dst[i] = color
	}
	return len(dst) * rt.config.PixelSamples, nil
}

// Render renders the full image. The result depends only on the scene, the
// camera and opts.Seed.
func (rt *Raytracer) Render(ctx context.Context, opts RenderOptions) (*Frame, RenderStats, error) {
	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	logger := opts.Logger.With().
		Str("render_id", uuid.NewString()).
		Int64("seed", opts.Seed).
		Logger()

	logger.Info().
		Int("width", rt.config.Width).
		Int("height", rt.config.Height).
		Int("pixel_samples", rt.config.PixelSamples).
		Int("scatter_depth", rt.config.ScatterDepth).
		Int("workers", numWorkers).
		Msg("starting render")

	frame := NewFrame(rt.config.Width, rt.config.Height)
	pool := NewWorkerPool(rt, numWorkers, opts.Seed, logger)

	startTime := time.Now()
	stats, err := pool.Run(ctx, frame)
	if err != nil {
		return nil, RenderStats{}, err
	}
	stats.Duration = time.Since(startTime)
	stats.Seed = opts.Seed
	stats.finalize()

	logger.Info().
		Dur("duration", stats.Duration).
		Int("samples", stats.TotalSamples).
		Msg("render complete")

	return frame, stats, nil
}
