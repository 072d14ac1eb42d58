package material

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Metallic represents a metallic material with specular reflection
type Metallic struct {
	Albedo core.Vec3 // Metal color
	Fuzz   float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetallic creates a new metallic material
func NewMetallic(albedo core.Vec3, fuzz float64) (*Metallic, error) {
	if err := checkUnitColor("metallic albedo", albedo); err != nil {
		return nil, err
	}
	if !(fuzz >= 0 && fuzz <= 1) {
		return nil, fmt.Errorf("metallic fuzz %g outside [0, 1]: %w", fuzz, core.ErrInvalidConfig)
	}
	return &Metallic{Albedo: albedo, Fuzz: fuzz}, nil
}

// Attenuate multiplies the color by the albedo
func (m *Metallic) Attenuate(color core.Vec3) core.Vec3 {
	return color.MultiplyVec(m.Albedo)
}

// Scatter mirrors the incoming ray about the normal and perturbs it by the
// fuzz factor. A large fuzz may send the ray below the surface; such rays are
// still returned.
func (m *Metallic) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (core.Ray, bool) {
	reflected, ok := reflect(rayIn.Direction, hit.Normal).UnitVector()
	if !ok {
		reflected = hit.Normal
	}

	direction, ok := reflected.Add(core.RandomUnitVector(sampler).Multiply(m.Fuzz)).UnitVector()
	if !ok {
		direction = hit.Normal
	}
	return core.NewRay(hit.Point, direction), true
}
