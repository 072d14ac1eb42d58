package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Diffuse represents a matte surface that scatters light around its normal
type Diffuse struct {
	Albedo core.Vec3 // Fraction of each channel re-emitted, in [0, 1]
}

// NewDiffuse creates a new diffuse material
func NewDiffuse(albedo core.Vec3) (*Diffuse, error) {
	if err := checkUnitColor("diffuse albedo", albedo); err != nil {
		return nil, err
	}
	return &Diffuse{Albedo: albedo}, nil
}

// Attenuate multiplies the color by the albedo
func (d *Diffuse) Attenuate(color core.Vec3) core.Vec3 {
	return color.MultiplyVec(d.Albedo)
}

// Scatter sends the ray in a random direction biased around the normal
func (d *Diffuse) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (core.Ray, bool) {
	direction, ok := core.RandomUnitVector(sampler).Add(hit.Normal).UnitVector()
	if !ok {
		// The random vector cancelled the normal
		direction = hit.Normal
	}
	return core.NewRay(hit.Point, direction), true
}
