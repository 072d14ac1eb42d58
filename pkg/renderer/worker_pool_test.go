package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// createTestRaytracer builds a small scene with a diffuse ground and a
// metal ball so that every pixel depends on the sampler
func createTestRaytracer(t *testing.T) *Raytracer {
	t.Helper()

	diffuse, err := material.NewDiffuse(core.NewVec3(0.7, 0.7, 0.2))
	require.NoError(t, err)
	metal, err := material.NewMetallic(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	require.NoError(t, err)

	ground, err := geometry.NewSphere(core.NewVec3(0, 1, -100.5), 100, diffuse)
	require.NoError(t, err)
	ball, err := geometry.NewSphere(core.NewVec3(0, 1.2, 0), 0.5, metal)
	require.NoError(t, err)

	config := CameraConfig{
		Width:            12,
		Height:           8,
		Position:         core.NewVec3(0, 0, 0),
		ViewportCenter:   core.NewVec3(0, 1, 0),
		ViewportDiagonal: core.NewVec3(3, 0, -2),
		PixelSamples:     4,
		ScatterDepth:     5,
	}
	rt, err := NewRaytracer(MockScene{
		shapes:     []geometry.Shape{ground, ball},
		background: core.NewVec3(0.5, 0.7, 1.0),
	}, config)
	require.NoError(t, err)
	return rt
}

func TestWorkerPool_DeterministicAcrossWorkerCounts(t *testing.T) {
	rt := createTestRaytracer(t)

	reference, _, err := rt.Render(context.Background(), RenderOptions{Workers: 1, Seed: 42, Logger: zerolog.Nop()})
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8} {
		frame, _, err := rt.Render(context.Background(), RenderOptions{Workers: workers, Seed: 42, Logger: zerolog.Nop()})
		require.NoError(t, err)
		assert.Equal(t, reference.Pixels, frame.Pixels, "%d workers", workers)
	}
}

func TestWorkerPool_SeedChangesImage(t *testing.T) {
	rt := createTestRaytracer(t)

	a, _, err := rt.Render(context.Background(), RenderOptions{Workers: 2, Seed: 1, Logger: zerolog.Nop()})
	require.NoError(t, err)
	b, _, err := rt.Render(context.Background(), RenderOptions{Workers: 2, Seed: 2, Logger: zerolog.Nop()})
	require.NoError(t, err)

	assert.NotEqual(t, a.Pixels, b.Pixels)
}

func TestWorkerPool_Stats(t *testing.T) {
	rt := createTestRaytracer(t)

	frame, stats, err := rt.Render(context.Background(), RenderOptions{Workers: 3, Seed: 7, Logger: zerolog.Nop()})
	require.NoError(t, err)

	assert.Equal(t, 12*8, stats.TotalPixels)
	assert.Equal(t, 12*8*4, stats.TotalSamples)
	assert.Equal(t, 4.0, stats.AverageSamples)
	assert.Equal(t, 8, stats.RowsRendered)
	assert.Equal(t, 3, stats.Workers)
	assert.Equal(t, int64(7), stats.Seed)

	width, height := frame.Size()
	assert.Equal(t, 12, width)
	assert.Equal(t, 8, height)
	for _, pixel := range frame.Pixels {
		assert.True(t, pixel.InUnitRange(), "pixel %v outside [0, 1]", pixel)
	}
}

func TestWorkerPool_Cancelled(t *testing.T) {
	rt := createTestRaytracer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frame, _, err := rt.Render(ctx, RenderOptions{Workers: 2, Logger: zerolog.Nop()})
	assert.Nil(t, frame)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestNewWorkerPool_ClampsWorkers(t *testing.T) {
	rt := createTestRaytracer(t)
	assert.Equal(t, 1, NewWorkerPool(rt, 0, 0, zerolog.Nop()).GetNumWorkers())
	assert.Equal(t, 4, NewWorkerPool(rt, 4, 0, zerolog.Nop()).GetNumWorkers())
}

func TestFrame_Rows(t *testing.T) {
	frame := NewFrame(3, 2)
	row := frame.Row(1)
	require.Len(t, row, 3)

	row[2] = core.NewVec3(1, 0, 0)
	assert.Equal(t, core.NewVec3(1, 0, 0), frame.At(2, 1))
	assert.Equal(t, core.Vec3{}, frame.At(2, 0))

	// Appending to a row must not spill into the next one
	_ = append(frame.Row(0), core.NewVec3(0, 1, 0))
	assert.Equal(t, core.Vec3{}, frame.At(0, 1))
}
