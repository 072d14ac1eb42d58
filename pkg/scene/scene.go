package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Default background colors
var (
	DefaultSkyColor     = core.NewVec3(0.4, 0.6, 1.0)
	DefaultHorizonColor = core.NewVec3(1.0, 1.0, 1.0)
)

var _ renderer.Scene = (*Scene)(nil)

// Scene contains all the elements needed for rendering. It is read-only
// while a render is running.
type Scene struct {
	Shapes       []geometry.Shape      // Objects in the scene, in insertion order
	SkyColor     core.Vec3             // Background straight up (+Z)
	HorizonColor core.Vec3             // Background straight down (-Z)
	Camera       renderer.CameraConfig // Camera the scene was composed for
}

// New creates an empty scene with the default background and camera
func New() *Scene {
	return &Scene{
		SkyColor:     DefaultSkyColor,
		HorizonColor: DefaultHorizonColor,
		Camera:       renderer.DefaultCameraConfig(),
	}
}

// Add appends shapes to the scene
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// Hit returns the nearest intersection over all shapes. Every shape is queried
// with the same range; on equal T the earlier shape wins.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var closest material.HitRecord
	found := false

	for _, shape := range s.Shapes {
		hit, ok := shape.Hit(ray, tMin, tMax)
		if !ok {
			continue
		}
		if !found || hit.T < closest.T {
			closest = hit
			found = true
		}
	}

	return closest, found
}

// Background blends from the horizon color to the sky color by the vertical
// component of the ray direction
func (s *Scene) Background(ray core.Ray) core.Vec3 {
	t := 0.5 * (ray.Direction.Normalize().Z + 1.0)
	return s.HorizonColor.Lerp(s.SkyColor, t)
}

// Len returns the number of shapes in the scene
func (s *Scene) Len() int {
	return len(s.Shapes)
}

// Raytracer builds a raytracer for the scene using its own camera
func (s *Scene) Raytracer() (*renderer.Raytracer, error) {
	return renderer.NewRaytracer(s, s.Camera)
}
