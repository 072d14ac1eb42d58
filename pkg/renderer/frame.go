package renderer

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Frame is the linear-color result of a render, stored row-major with the
// top row first
type Frame struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// Size returns the frame dimensions
func (f *Frame) Size() (width, height int) {
	return f.Width, f.Height
}

// At returns the color of column i in row j
func (f *Frame) At(i, j int) core.Vec3 {
	return f.Pixels[j*f.Width+i]
}

// Row returns the pixels of row j. Distinct rows never share memory, so
// workers may fill different rows concurrently.
func (f *Frame) Row(j int) []core.Vec3 {
	start := j * f.Width
	return f.Pixels[start : start+f.Width : start+f.Width]
}
