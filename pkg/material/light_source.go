package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// LightSource represents a light-emitting material
type LightSource struct {
	Emission core.Vec3 // Emitted light color, in [0, 1]
}

// NewLightSource creates a new light source
func NewLightSource(emission core.Vec3) (*LightSource, error) {
	if err := checkUnitColor("emitted color", emission); err != nil {
		return nil, err
	}
	return &LightSource{Emission: emission}, nil
}

// NewWhiteLight creates a light source emitting full white
func NewWhiteLight() *LightSource {
	return &LightSource{Emission: core.NewVec3(1, 1, 1)}
}

// Attenuate ignores the incoming color and returns the emission
func (l *LightSource) Attenuate(color core.Vec3) core.Vec3 {
	return l.Emission
}

// Scatter never scatters; paths end at a light
func (l *LightSource) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (core.Ray, bool) {
	return core.Ray{}, false
}
