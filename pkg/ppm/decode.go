package ppm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
)

// MaxPixels bounds the pixel count a header may declare
const MaxPixels = 1 << 28

// Pixmap is a decoded P3 image with channels scaled back to [0, 1]
type Pixmap struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// Size returns the image dimensions
func (p *Pixmap) Size() (width, height int) {
	return p.Width, p.Height
}

// At returns the color of column i in row j
func (p *Pixmap) At(i, j int) core.Vec3 {
	return p.Pixels[j*p.Width+i]
}

// tokenizer yields whitespace separated words, skipping '#' comments
type tokenizer struct {
	scanner *bufio.Scanner
	pending []string
}

func (t *tokenizer) next() (string, error) {
	for len(t.pending) == 0 {
		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		line := t.scanner.Text()
		if k := strings.IndexByte(line, '#'); k >= 0 {
			line = line[:k]
		}
		t.pending = strings.Fields(line)
	}
	word := t.pending[0]
	t.pending = t.pending[1:]
	return word, nil
}

func (t *tokenizer) nextInt(what string) (int, error) {
	word, err := t.next()
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", what, err)
	}
	v, err := strconv.Atoi(word)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s %q: %w", what, word, err)
	}
	return v, nil
}

// Decode reads a P3 pixmap
func Decode(r io.Reader) (*Pixmap, error) {
	t := &tokenizer{scanner: bufio.NewScanner(r)}

	magic, err := t.next()
	if err != nil {
		return nil, fmt.Errorf("reading magic number: %w", err)
	}
	if magic != "P3" {
		return nil, fmt.Errorf("unsupported magic number %q", magic)
	}

	width, err := t.nextInt("width")
	if err != nil {
		return nil, err
	}
	height, err := t.nextInt("height")
	if err != nil {
		return nil, err
	}
	maxValue, err := t.nextInt("max value")
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 || maxValue <= 0 {
		return nil, fmt.Errorf("invalid header %dx%d max %d", width, height, maxValue)
	}
	if width > MaxPixels/height {
		return nil, fmt.Errorf("image %dx%d exceeds %d pixels", width, height, MaxPixels)
	}

	// Pixels are appended as they are read so a short stream never forces
	// the full allocation
	count := width * height
	pixmap := &Pixmap{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, 0, min(count, 1<<16)),
	}
	scale := float64(maxValue)
	for k := 0; k < count; k++ {
		var rgb [3]int
		for c := range rgb {
			if rgb[c], err = t.nextInt("channel"); err != nil {
				return nil, fmt.Errorf("pixel %d: %w", k, err)
			}
			if rgb[c] < 0 || rgb[c] > maxValue {
				return nil, fmt.Errorf("pixel %d value %d: %w", k, rgb[c], ErrChannelRange)
			}
		}
		pixmap.Pixels = append(pixmap.Pixels, core.NewVec3(float64(rgb[0])/scale, float64(rgb[1])/scale, float64(rgb[2])/scale))
	}

	return pixmap, nil
}

// LoadFile decodes the P3 pixmap stored at filename
func LoadFile(filename string) (*Pixmap, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open pixmap: %w", err)
	}
	defer file.Close()

	return Decode(file)
}
