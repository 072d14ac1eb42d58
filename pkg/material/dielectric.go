package material

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) (*Dielectric, error) {
	if !(refractiveIndex > 0) || math.IsInf(refractiveIndex, 0) {
		return nil, fmt.Errorf("refractive index %g must be positive: %w", refractiveIndex, core.ErrInvalidConfig)
	}
	return &Dielectric{RefractiveIndex: refractiveIndex}, nil
}

// Attenuate leaves the color unchanged; clear glass absorbs nothing
func (d *Dielectric) Attenuate(color core.Vec3) core.Vec3 {
	return color
}

// Scatter reflects or refracts the incoming ray
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (core.Ray, bool) {
	// Determine if we're entering or exiting the material
	refractionRatio := d.RefractiveIndex
	if hit.Face == FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex
	}

	unitDirection, ok := rayIn.Direction.UnitVector()
	if !ok {
		return core.NewRay(hit.Point, hit.Normal), true
	}

	inward := hit.Normal.Negate()
	cosTheta := math.Min(unitDirection.Dot(inward), 1.0)
	sinTheta := unitDirection.Cross(inward).Length()

	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		direction = reflect(unitDirection, hit.Normal)
	} else {
		direction = refract(unitDirection, hit.Normal, cosTheta, refractionRatio)
	}

	return core.NewRay(hit.Point, direction), true
}

// refract bends a unit vector through the surface using Snell's law, split
// into the components perpendicular and parallel to the normal
func refract(uv, n core.Vec3, cosTheta, etaiOverEtat float64) core.Vec3 {
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
