// Package ppm writes and reads plain (P3) portable pixmaps
package ppm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// MaxValue is the largest channel value written to the header
const MaxValue = 255

// ErrChannelRange is returned when a color channel lies outside [0, 1]
var ErrChannelRange = errors.New("color channel outside [0, 1]")

// Image is a grid of linear colors addressed by column and row, with row 0
// at the top
type Image interface {
	Size() (width, height int)
	At(i, j int) core.Vec3
}

// EncodeChannel maps a channel in [0, 1] to an integer in [0, 255]
func EncodeChannel(c float64) (int, error) {
	if !(c >= 0 && c <= 1) {
		return 0, fmt.Errorf("%g: %w", c, ErrChannelRange)
	}
	return int(math.Floor(255.99 * c)), nil
}

// encodePixel converts all three channels of a color
func encodePixel(color core.Vec3) (r, g, b int, err error) {
	if r, err = EncodeChannel(color.X); err != nil {
		return
	}
	if g, err = EncodeChannel(color.Y); err != nil {
		return
	}
	b, err = EncodeChannel(color.Z)
	return
}

// Encode writes img as a P3 pixmap: the header, then one "r g b" line per
// pixel, top row first and left to right within a row. Output stops at the
// first pixel that cannot be encoded.
func Encode(w io.Writer, img Image) error {
	width, height := img.Size()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n%d\n", width, height, MaxValue); err != nil {
		return err
	}

	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			color := img.At(i, j)
			r, g, b, err := encodePixel(color)
			if err != nil {
				err = fmt.Errorf("pixel (%d, %d) %v: %w", i, j, color, err)
				return errors.Join(err, bw.Flush())
			}
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", r, g, b); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}
