package renderer

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CameraConfig contains the image and viewport parameters of a render
type CameraConfig struct {
	Width            int       // Image width in pixels
	Height           int       // Image height in pixels
	Position         core.Vec3 // Eye position, origin of every primary ray
	ViewportCenter   core.Vec3 // Center of the viewport rectangle
	ViewportDiagonal core.Vec3 // Top-left to bottom-right; X spans columns, Z spans rows
	PixelSamples     int       // Rays per pixel
	ScatterDepth     int       // Maximum bounces per ray
}

// DefaultCameraConfig returns a 512 wide 16:9 camera at the origin looking
// along +Y through a viewport centered one unit away
func DefaultCameraConfig() CameraConfig {
	width := 512
	height := width * 9 / 16
	aspect := float64(width) / float64(height)
	return CameraConfig{
		Width:            width,
		Height:           height,
		Position:         core.NewVec3(0, 0, 0),
		ViewportCenter:   core.NewVec3(0, 1, 0),
		ViewportDiagonal: core.NewVec3(2*aspect, 0, -2),
		PixelSamples:     100,
		ScatterDepth:     50,
	}
}

// Validate rejects configurations that cannot produce an image
func (c CameraConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size %dx%d must be positive: %w", c.Width, c.Height, core.ErrInvalidConfig)
	}
	if c.PixelSamples < 1 {
		return fmt.Errorf("pixel samples %d must be at least 1: %w", c.PixelSamples, core.ErrInvalidConfig)
	}
	if c.ScatterDepth < 0 {
		return fmt.Errorf("scatter depth %d must not be negative: %w", c.ScatterDepth, core.ErrInvalidConfig)
	}
	if c.ViewportDiagonal.X == 0 || c.ViewportDiagonal.Z == 0 || !c.ViewportDiagonal.IsFinite() {
		return fmt.Errorf("viewport diagonal %v needs non-zero X and Z extents: %w", c.ViewportDiagonal, core.ErrInvalidConfig)
	}
	if !c.Position.IsFinite() || !c.ViewportCenter.IsFinite() {
		return fmt.Errorf("camera position and viewport center must be finite: %w", core.ErrInvalidConfig)
	}
	return nil
}

// Camera generates jittered primary rays through a viewport rectangle
type Camera struct {
	config           CameraConfig
	topLeft          core.Vec3
	bottomRight      core.Vec3
	dx               core.Vec3 // One pixel step to the right
	dy               core.Vec3 // One pixel step down
	firstPixelCenter core.Vec3
}

// NewCamera validates the configuration and derives the viewport basis
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	half := config.ViewportDiagonal.Divide(2)
	topLeft := config.ViewportCenter.Subtract(half)
	bottomRight := config.ViewportCenter.Add(half)

	dx := core.NewVec3(config.ViewportDiagonal.X/float64(config.Width), 0, 0)
	dy := core.NewVec3(0, 0, config.ViewportDiagonal.Z/float64(config.Height))

	return &Camera{
		config:           config,
		topLeft:          topLeft,
		bottomRight:      bottomRight,
		dx:               dx,
		dy:               dy,
		firstPixelCenter: topLeft.Add(dx.Add(dy).Divide(2)),
	}, nil
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// Corners returns the top-left and bottom-right corners of the viewport
func (c *Camera) Corners() (topLeft, bottomRight core.Vec3) {
	return c.topLeft, c.bottomRight
}

// PixelTarget returns the viewport point for pixel (i, j) shifted by the
// given sub-pixel offsets
func (c *Camera) PixelTarget(i, j int, offsetX, offsetY float64) core.Vec3 {
	return c.firstPixelCenter.
		Add(c.dx.Multiply(float64(i) + offsetX)).
		Add(c.dy.Multiply(float64(j) + offsetY))
}

// GetRay generates a jittered ray from the camera position through pixel
// (i, j). Column i grows to the right and row j grows downwards.
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	offsetX := sampler.Get1D() - 0.5
	offsetY := sampler.Get1D() - 0.5

	target := c.PixelTarget(i, j, offsetX, offsetY)
	direction, ok := target.Subtract(c.config.Position).UnitVector()
	if !ok {
		// Eye placed on the viewport; look straight through it
		direction = c.dx.Cross(c.dy).Normalize()
	}
	return core.NewRay(c.config.Position, direction)
}
