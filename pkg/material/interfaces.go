package material

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Material interface for surfaces that shade and scatter rays
type Material interface {
	// Attenuate returns the color carried by a path after it interacts with
	// this surface
	Attenuate(color core.Vec3) core.Vec3

	// Scatter returns the outgoing ray, or false when the path terminates here
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (core.Ray, bool)
}

// Face records which geometric side of a surface a ray struck
type Face int

const (
	// FrontFace means the outward normal already opposed the ray
	FrontFace Face = iota
	// BackFace means the outward normal had to be flipped
	BackFace
)

func (f Face) String() string {
	if f == FrontFace {
		return "front"
	}
	return "back"
}

// HitRecord contains information about a ray-object intersection. Shapes
// return it together with a hit flag and its fields are only meaningful when
// that flag is true.
type HitRecord struct {
	T               float64   // Parameter t along the ray
	Point           core.Vec3 // Point of intersection
	Normal          core.Vec3 // Shading normal, always opposing the ray
	GeometricNormal core.Vec3 // True outward normal
	Face            Face      // Side of the surface that was hit
	Material        Material  // Material of the hit object
}

// SetFaceNormal sets the shading normal from the outward normal and records
// which face was hit
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.GeometricNormal = outwardNormal
	if ray.Direction.Dot(outwardNormal) <= 0 {
		h.Face = FrontFace
		h.Normal = outwardNormal
	} else {
		h.Face = BackFace
		h.Normal = outwardNormal.Negate()
	}
}

// checkUnitColor rejects color-like parameters outside [0, 1]
func checkUnitColor(name string, c core.Vec3) error {
	if !c.InUnitRange() {
		return fmt.Errorf("%s %v outside [0, 1]: %w", name, c, core.ErrInvalidConfig)
	}
	return nil
}

// reflect calculates the reflection of a vector v off a surface with normal n
func reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
