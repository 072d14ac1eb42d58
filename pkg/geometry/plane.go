package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and an outward normal
type Plane struct {
	Point    core.Vec3         // A point on the plane
	Normal   core.Vec3         // Outward unit normal
	Material material.Material // Material of the plane
}

// NewPlane creates the plane z = mx*x + my*y + b. Its outward normal faces
// away from interior, which must not lie on the plane.
func NewPlane(mx, my, b float64, interior core.Vec3, mat material.Material) (*Plane, error) {
	for _, v := range []float64{mx, my, b} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("plane coefficients (%g, %g, %g) must be finite: %w", mx, my, b, core.ErrInvalidConfig)
		}
	}

	// Gradient of z - mx*x - my*y
	normal := core.NewVec3(-mx, -my, 1)
	return NewPlaneFromPoint(core.NewVec3(0, 0, b), normal, interior, mat)
}

// NewPlaneFromPoint creates a plane through point with the given normal
// direction, flipped if needed so that it faces away from interior
func NewPlaneFromPoint(point, normal, interior core.Vec3, mat material.Material) (*Plane, error) {
	if mat == nil {
		return nil, fmt.Errorf("plane has no material: %w", core.ErrInvalidConfig)
	}
	unit, ok := normal.UnitVector()
	if !ok {
		return nil, fmt.Errorf("plane normal %v is degenerate: %w", normal, core.ErrInvalidConfig)
	}

	side := interior.Subtract(point).Dot(unit)
	if math.Abs(side) < core.Minimum {
		return nil, fmt.Errorf("interior point %v lies on the plane: %w", interior, core.ErrInvalidConfig)
	}
	if side > 0 {
		unit = unit.Negate()
	}

	return &Plane{
		Point:    point,
		Normal:   unit,
		Material: mat,
	}, nil
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	t, ok := p.intersect(ray, tMin, tMax)
	if !ok {
		return material.HitRecord{}, false
	}

	hit := material.HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: p.Material,
	}
	hit.SetFaceNormal(ray, p.Normal)

	return hit, true
}

// intersect solves for the ray parameter where the ray meets the plane
func (p *Plane) intersect(ray core.Ray, tMin, tMax float64) (float64, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray is parallel to the plane
	if math.Abs(denominator) < core.Minimum {
		return 0, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if math.IsNaN(t) || math.IsInf(t, 0) || !inRange(t, tMin, tMax) {
		return 0, false
	}
	return t, true
}
