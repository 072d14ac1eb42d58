package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// SceneFile is the YAML description of a scene
type SceneFile struct {
	Camera     *CameraSection         `yaml:"camera,omitempty"`
	Background *BackgroundSection     `yaml:"background,omitempty"`
	Materials  map[string]MaterialDef `yaml:"materials"`
	Objects    []ObjectDef            `yaml:"objects"`
}

// CameraSection overrides fields of the default camera. Omitted fields keep
// their default values.
type CameraSection struct {
	Width            *int  `yaml:"width,omitempty"`
	Height           *int  `yaml:"height,omitempty"`
	Position         *Vec3 `yaml:"position,omitempty"`
	ViewportCenter   *Vec3 `yaml:"viewport_center,omitempty"`
	ViewportDiagonal *Vec3 `yaml:"viewport_diagonal,omitempty"`
	PixelSamples     *int  `yaml:"pixel_samples,omitempty"`
	ScatterDepth     *int  `yaml:"scatter_depth,omitempty"`
}

// BackgroundSection sets the sky gradient
type BackgroundSection struct {
	Sky     *Vec3 `yaml:"sky,omitempty"`
	Horizon *Vec3 `yaml:"horizon,omitempty"`
}

// MaterialDef describes one named material
type MaterialDef struct {
	Type     string   `yaml:"type"`               // diffuse, metallic, dielectric or light
	Albedo   *Vec3    `yaml:"albedo,omitempty"`   // diffuse, metallic
	Fuzz     *float64 `yaml:"fuzz,omitempty"`     // metallic
	Index    *float64 `yaml:"index,omitempty"`    // dielectric
	Emission *Vec3    `yaml:"emission,omitempty"` // light; white when omitted
}

// ObjectDef describes one shape. Planes are given either by slope (mx, my,
// b) or by point and normal, plus a point on their interior side.
type ObjectDef struct {
	Type     string   `yaml:"type"` // sphere, plane or triangle
	Material string   `yaml:"material"`
	Center   *Vec3    `yaml:"center,omitempty"`
	Radius   *float64 `yaml:"radius,omitempty"`
	MX       *float64 `yaml:"mx,omitempty"`
	MY       *float64 `yaml:"my,omitempty"`
	B        *float64 `yaml:"b,omitempty"`
	Point    *Vec3    `yaml:"point,omitempty"`
	Normal   *Vec3    `yaml:"normal,omitempty"`
	Interior *Vec3    `yaml:"interior,omitempty"`
	Vertices []Vec3   `yaml:"vertices,omitempty"`
}

// Vec3 is written as a flow sequence [x, y, z]
type Vec3 core.Vec3

// UnmarshalYAML accepts exactly three numbers
func (v *Vec3) UnmarshalYAML(node *yaml.Node) error {
	var xyz []float64
	if err := node.Decode(&xyz); err != nil {
		return fmt.Errorf("line %d: vector must be a list of numbers: %w", node.Line, err)
	}
	if len(xyz) != 3 {
		return fmt.Errorf("line %d: vector needs 3 components, got %d", node.Line, len(xyz))
	}
	*v = Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	return nil
}

// MarshalYAML writes the vector as a flow sequence
func (v Vec3) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, c := range []float64{v.X, v.Y, v.Z} {
		var item yaml.Node
		if err := item.Encode(c); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &item)
	}
	return node, nil
}

func (v *Vec3) vec() core.Vec3 {
	return core.Vec3(*v)
}

// LoadScene parses a YAML scene description and builds the scene. Unknown
// keys are rejected.
func LoadScene(r io.Reader) (*scene.Scene, error) {
	var file SceneFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty scene file: %w", core.ErrInvalidConfig)
		}
		return nil, fmt.Errorf("failed to parse scene file: %v: %w", err, core.ErrInvalidConfig)
	}
	return file.Build()
}

// LoadSceneFile loads a YAML scene from disk
func LoadSceneFile(filename string) (*scene.Scene, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}

	s, err := LoadScene(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// Build validates the description and constructs the scene
func (f *SceneFile) Build() (*scene.Scene, error) {
	s := scene.New()

	if f.Camera != nil {
		s.Camera = f.Camera.apply(s.Camera)
	}
	if err := s.Camera.Validate(); err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	if f.Background != nil {
		if f.Background.Sky != nil {
			s.SkyColor = f.Background.Sky.vec()
		}
		if f.Background.Horizon != nil {
			s.HorizonColor = f.Background.Horizon.vec()
		}
	}
	if !s.SkyColor.InUnitRange() || !s.HorizonColor.InUnitRange() {
		return nil, fmt.Errorf("background colors must be in [0, 1]: %w", core.ErrInvalidConfig)
	}

	materials := make(map[string]material.Material, len(f.Materials))
	for name, def := range f.Materials {
		mat, err := def.build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}

	for k, def := range f.Objects {
		mat, ok := materials[def.Material]
		if !ok {
			return nil, fmt.Errorf("object %d: unknown material %q: %w", k, def.Material, core.ErrInvalidConfig)
		}
		shape, err := def.build(mat)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", k, def.Type, err)
		}
		s.Add(shape)
	}

	return s, nil
}

func (c *CameraSection) apply(config renderer.CameraConfig) renderer.CameraConfig {
	if c.Width != nil {
		config.Width = *c.Width
	}
	if c.Height != nil {
		config.Height = *c.Height
	}
	if c.Position != nil {
		config.Position = c.Position.vec()
	}
	if c.ViewportCenter != nil {
		config.ViewportCenter = c.ViewportCenter.vec()
	}
	if c.ViewportDiagonal != nil {
		config.ViewportDiagonal = c.ViewportDiagonal.vec()
	}
	if c.PixelSamples != nil {
		config.PixelSamples = *c.PixelSamples
	}
	if c.ScatterDepth != nil {
		config.ScatterDepth = *c.ScatterDepth
	}
	return config
}

func (m MaterialDef) build() (material.Material, error) {
	switch m.Type {
	case "diffuse":
		if m.Albedo == nil {
			return nil, missing("albedo")
		}
		return material.NewDiffuse(m.Albedo.vec())
	case "metallic":
		if m.Albedo == nil {
			return nil, missing("albedo")
		}
		return material.NewMetallic(m.Albedo.vec(), valueOr(m.Fuzz))
	case "dielectric":
		if m.Index == nil {
			return nil, missing("index")
		}
		return material.NewDielectric(*m.Index)
	case "light":
		if m.Emission == nil {
			return material.NewWhiteLight(), nil
		}
		return material.NewLightSource(m.Emission.vec())
	default:
		return nil, fmt.Errorf("unknown material type %q: %w", m.Type, core.ErrInvalidConfig)
	}
}

func (o ObjectDef) build(mat material.Material) (geometry.Shape, error) {
	switch o.Type {
	case "sphere":
		if o.Center == nil || o.Radius == nil {
			return nil, missing("center and radius")
		}
		return geometry.NewSphere(o.Center.vec(), *o.Radius, mat)
	case "plane":
		if o.Interior == nil {
			return nil, missing("interior")
		}
		if o.Point != nil && o.Normal != nil {
			return geometry.NewPlaneFromPoint(o.Point.vec(), o.Normal.vec(), o.Interior.vec(), mat)
		}
		return geometry.NewPlane(valueOr(o.MX), valueOr(o.MY), valueOr(o.B), o.Interior.vec(), mat)
	case "triangle":
		if len(o.Vertices) != 3 {
			return nil, fmt.Errorf("triangle needs 3 vertices, got %d: %w", len(o.Vertices), core.ErrInvalidConfig)
		}
		return geometry.NewTriangle(o.Vertices[0].vec(), o.Vertices[1].vec(), o.Vertices[2].vec(), mat)
	default:
		return nil, fmt.Errorf("unknown object type %q: %w", o.Type, core.ErrInvalidConfig)
	}
}

// valueOr returns *p, or zero when the key was omitted
func valueOr(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func missing(field string) error {
	return fmt.Errorf("missing %s: %w", field, core.ErrInvalidConfig)
}
