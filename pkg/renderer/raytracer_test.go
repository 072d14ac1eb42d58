package renderer

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// MockMaterial counts calls and scatters straight back along the normal
type MockMaterial struct {
	albedo      core.Vec3
	attenuated  int
	terminating bool
}

func (m *MockMaterial) Attenuate(color core.Vec3) core.Vec3 {
	m.attenuated++
	return color.MultiplyVec(m.albedo)
}

func (m *MockMaterial) Scatter(rayIn core.Ray, hit material.HitRecord, sampler core.Sampler) (core.Ray, bool) {
	if m.terminating {
		return core.Ray{}, false
	}
	return core.NewRay(hit.Point, hit.Normal), true
}

// MockShape implements geometry.Shape for testing
type MockShape struct {
	hitFn func(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool)
}

func (m MockShape) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	return m.hitFn(ray, tMin, tMax)
}

// MockScene implements Scene with a linear scan and a flat background
type MockScene struct {
	shapes     []geometry.Shape
	background core.Vec3
}

func (m MockScene) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var closest material.HitRecord
	found := false
	for _, shape := range m.shapes {
		if hit, ok := shape.Hit(ray, tMin, tMax); ok && (!found || hit.T < closest.T) {
			closest, found = hit, true
		}
	}
	return closest, found
}

func (m MockScene) Background(ray core.Ray) core.Vec3 {
	return m.background
}

func alwaysHit(mat material.Material) MockShape {
	return MockShape{hitFn: func(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
		hit := material.HitRecord{T: 1, Point: ray.At(1), Material: mat}
		hit.SetFaceNormal(ray, ray.Direction.Negate())
		return hit, true
	}}
}

func newTestRaytracer(t *testing.T, scene Scene, depth int) *Raytracer {
	t.Helper()
	config := smallCameraConfig()
	config.ScatterDepth = depth
	rt, err := NewRaytracer(scene, config)
	require.NoError(t, err)
	return rt
}

func TestRaytracer_MissReturnsBackground(t *testing.T) {
	background := core.NewVec3(0.4, 0.6, 1.0)
	rt := newTestRaytracer(t, MockScene{background: background}, 5)

	color, err := rt.RayColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), constSampler(0.5))
	require.NoError(t, err)
	assert.Equal(t, background, color)
}

func TestRaytracer_AttenuatesOncePerBounce(t *testing.T) {
	tests := []struct {
		depth    int
		expected int
	}{
		{0, 0},
		{1, 1},
		{3, 3},
		{10, 10},
	}

	for _, tt := range tests {
		mat := &MockMaterial{albedo: core.NewVec3(0.5, 0.5, 0.5)}
		rt := newTestRaytracer(t, MockScene{
			shapes:     []geometry.Shape{alwaysHit(mat)},
			background: core.NewVec3(1, 1, 1),
		}, tt.depth)

		color, err := rt.RayColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), constSampler(0.5))
		require.NoError(t, err)
		assert.Equal(t, tt.expected, mat.attenuated, "depth %d", tt.depth)
		assert.InDelta(t, math.Pow(0.5, float64(tt.expected)), color.X, 1e-12)
	}
}

func TestRaytracer_TerminatingMaterialStopsPath(t *testing.T) {
	mat := &MockMaterial{albedo: core.NewVec3(0.5, 0.5, 0.5), terminating: true}
	rt := newTestRaytracer(t, MockScene{
		shapes:     []geometry.Shape{alwaysHit(mat)},
		background: core.NewVec3(1, 1, 1),
	}, 10)

	color, err := rt.RayColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), constSampler(0.5))
	require.NoError(t, err)

	// Attenuation happens before the scatter check
	assert.Equal(t, 1, mat.attenuated)
	assert.Equal(t, core.NewVec3(0.5, 0.5, 0.5), color)
}

func TestRaytracer_LightSourceReplacesColor(t *testing.T) {
	light, err := material.NewLightSource(core.NewVec3(0.9, 0.9, 0.2))
	require.NoError(t, err)
	rt := newTestRaytracer(t, MockScene{
		shapes:     []geometry.Shape{alwaysHit(light)},
		background: core.NewVec3(0.1, 0.1, 0.1),
	}, 4)

	color, err := rt.RayColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), constSampler(0.5))
	require.NoError(t, err)
	assert.Equal(t, core.NewVec3(0.9, 0.9, 0.2), color)
}

func TestRaytracer_HitWithoutMaterialIsInternalError(t *testing.T) {
	rt := newTestRaytracer(t, MockScene{
		shapes:     []geometry.Shape{alwaysHit(nil)},
		background: core.NewVec3(1, 1, 1),
	}, 2)

	_, err := rt.RayColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), constSampler(0.5))
	assert.True(t, errors.Is(err, core.ErrInternal))

	_, _, err = rt.Render(context.Background(), RenderOptions{Workers: 2, Logger: zerolog.Nop()})
	assert.True(t, errors.Is(err, core.ErrInternal), "a failing pixel aborts the render")
}

func TestRaytracer_RenderPixelAverages(t *testing.T) {
	config := smallCameraConfig()
	config.PixelSamples = 8
	rt, err := NewRaytracer(MockScene{background: core.NewVec3(0.25, 0.5, 0.75)}, config)
	require.NoError(t, err)

	color, err := rt.RenderPixel(1, 1, core.NewSeededSampler(1))
	require.NoError(t, err)
	assert.InDelta(t, 0.25, color.X, 1e-12)
	assert.InDelta(t, 0.5, color.Y, 1e-12)
	assert.InDelta(t, 0.75, color.Z, 1e-12)
}

func TestNewRaytracer_RejectsInvalidConfig(t *testing.T) {
	config := smallCameraConfig()
	config.Width = 0
	_, err := NewRaytracer(MockScene{}, config)
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))

	_, err = NewRaytracer(nil, smallCameraConfig())
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))
}

func TestPixelStats(t *testing.T) {
	var ps PixelStats
	assert.Equal(t, core.Vec3{}, ps.GetColor())

	ps.AddSample(core.NewVec3(1, 0, 0.5))
	ps.AddSample(core.NewVec3(0, 1, 0.5))
	assert.Equal(t, 2, ps.SampleCount)
	assert.Equal(t, core.NewVec3(0.5, 0.5, 0.5), ps.GetColor())
}
