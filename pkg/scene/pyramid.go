package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewPyramidScene creates a square pyramid built from triangles on a ground
// plane, with a glowing ball hovering behind it
func NewPyramidScene() (*Scene, error) {
	s := New()

	groundMat, err := material.NewDiffuse(core.NewVec3(0.6, 0.6, 0.6))
	if err != nil {
		return nil, err
	}
	ground, err := geometry.NewPlane(0, 0, -0.5, core.NewVec3(0, 0, -10), groundMat)
	if err != nil {
		return nil, err
	}
	s.Add(ground)

	faceMat, err := material.NewMetallic(core.NewVec3(0.9, 0.7, 0.4), 0.2)
	if err != nil {
		return nil, err
	}

	// Base corners counter-clockwise seen from above, apex over the center
	base := []core.Vec3{
		core.NewVec3(-0.6, 1.8, -0.5),
		core.NewVec3(0.6, 1.8, -0.5),
		core.NewVec3(0.6, 3.0, -0.5),
		core.NewVec3(-0.6, 3.0, -0.5),
	}
	apex := core.NewVec3(0, 2.4, 0.6)

	for k := range base {
		face, err := geometry.NewTriangle(base[k], base[(k+1)%len(base)], apex, faceMat)
		if err != nil {
			return nil, err
		}
		s.Add(face)
	}

	light, err := material.NewLightSource(core.NewVec3(1.0, 0.9, 0.7))
	if err != nil {
		return nil, err
	}
	lamp, err := geometry.NewSphere(core.NewVec3(1.4, 4, 0.8), 0.4, light)
	if err != nil {
		return nil, err
	}
	s.Add(lamp)

	return s, nil
}
