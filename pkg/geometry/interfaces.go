package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Shape interface for objects that can be hit by rays. The range (tMin, tMax)
// is open: a root equal to either bound is a miss.
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool)
}

// inRange reports whether t lies strictly inside (tMin, tMax). NaN is never
// in range.
func inRange(t, tMin, tMax float64) bool {
	return t > tMin && t < tMax
}
