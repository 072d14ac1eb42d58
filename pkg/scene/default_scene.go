package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewDefaultScene creates the four sphere world: a huge yellowish ground
// sphere, and a diffuse, a glass and a brushed metal ball in front of the
// camera
func NewDefaultScene() (*Scene, error) {
	s := New()

	// Create materials
	groundMat, err := material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.0))
	if err != nil {
		return nil, err
	}
	middleMat, err := material.NewDiffuse(core.NewVec3(0.1, 0.2, 0.5))
	if err != nil {
		return nil, err
	}
	glass, err := material.NewDielectric(1.5)
	if err != nil {
		return nil, err
	}
	gold, err := material.NewMetallic(core.NewVec3(0.8, 0.6, 0.2), 1.0)
	if err != nil {
		return nil, err
	}

	spheres := []struct {
		center core.Vec3
		radius float64
		mat    material.Material
	}{
		{core.NewVec3(0, 1, -100.5), 100, groundMat},
		{core.NewVec3(0, 1.2, 0), 0.5, middleMat},
		{core.NewVec3(-1, 1, 0), 0.5, glass},
		{core.NewVec3(1, 1, 0), 0.5, gold},
	}

	for _, sp := range spheres {
		sphere, err := geometry.NewSphere(sp.center, sp.radius, sp.mat)
		if err != nil {
			return nil, err
		}
		s.Add(sphere)
	}

	return s, nil
}
