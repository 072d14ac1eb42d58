package geometry

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices. The
// outward normal follows the counter-clockwise winding V0, V1, V2.
type Triangle struct {
	V0, V1, V2 core.Vec3
	plane      Plane // Supporting plane
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) (*Triangle, error) {
	if mat == nil {
		return nil, fmt.Errorf("triangle has no material: %w", core.ErrInvalidConfig)
	}

	normal, ok := v1.Subtract(v0).Cross(v2.Subtract(v0)).UnitVector()
	if !ok {
		return nil, fmt.Errorf("triangle %v %v %v is degenerate: %w", v0, v1, v2, core.ErrInvalidConfig)
	}

	return &Triangle{
		V0: v0,
		V1: v1,
		V2: v2,
		plane: Plane{
			Point:    v0,
			Normal:   normal,
			Material: mat,
		},
	}, nil
}

// Normal returns the triangle's outward unit normal
func (t *Triangle) Normal() core.Vec3 {
	return t.plane.Normal
}

// Material returns the triangle's material
func (t *Triangle) Material() material.Material {
	return t.plane.Material
}

// Hit intersects the supporting plane and keeps the hit only when it falls
// inside all three edges
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	hit, ok := t.plane.Hit(ray, tMin, tMax)
	if !ok || !t.contains(hit.Point) {
		return material.HitRecord{}, false
	}
	return hit, true
}

// contains reports whether a point on the supporting plane lies inside the
// triangle or on its boundary, using same-side tests against each edge
func (t *Triangle) contains(p core.Vec3) bool {
	n := t.plane.Normal
	edges := [3][2]core.Vec3{{t.V0, t.V1}, {t.V1, t.V2}, {t.V2, t.V0}}
	for _, e := range edges {
		if e[1].Subtract(e[0]).Cross(p.Subtract(e[0])).Dot(n) < 0 {
			return false
		}
	}
	return true
}
