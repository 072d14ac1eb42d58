package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to linear RGB clamped to [0, 1]
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(clamp01(r), clamp01(g), clamp01(blue))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// NewSphereGridScene creates a gridSize x gridSize carpet of colored metal
// balls resting on a gray ground plane, seen slightly from above
func NewSphereGridScene(gridSize int) (*Scene, error) {
	if gridSize < 1 {
		gridSize = 1
	}

	s := New()
	s.Camera.Position = core.NewVec3(0, -2, 2)
	s.Camera.ViewportCenter = core.NewVec3(0, -1, 1.6)

	gray, err := material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))
	if err != nil {
		return nil, err
	}
	ground, err := geometry.NewPlane(0, 0, 0, core.NewVec3(0, 0, -1), gray)
	if err != nil {
		return nil, err
	}
	s.Add(ground)

	// The grid always covers the same 4x4 area in front of the camera
	area := 4.0
	spacing := area
	if gridSize > 1 {
		spacing = area / float64(gridSize-1)
	}
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - area/2
			y := float64(j)*spacing + 1
			if gridSize == 1 {
				x, y = 0, 3
			}

			// Hue varies across X, chroma grows with distance
			t := 0.0
			if gridSize > 1 {
				t = float64(j) / float64(gridSize-1)
			}
			hue := float64(i) / float64(gridSize) * 360.0
			chroma := 0.05 + t*0.20
			lightness := 0.65 + 0.1*math.Sin(float64(i+j)*0.5)

			fuzz := 0.05 + 0.1*float64((i+j)%3)/2.0
			metal, err := material.NewMetallic(oklchToRGB(lightness, chroma, hue), fuzz)
			if err != nil {
				return nil, err
			}

			sphere, err := geometry.NewSphere(core.NewVec3(x, y, radius), radius, metal)
			if err != nil {
				return nil, err
			}
			s.Add(sphere)
		}
	}

	return s, nil
}
