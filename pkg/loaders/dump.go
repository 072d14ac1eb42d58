package loaders

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Describe converts a scene back into its YAML description. Materials
// shared by several shapes are written once.
func Describe(s *scene.Scene) (*SceneFile, error) {
	config := s.Camera
	sky := Vec3(s.SkyColor)
	horizon := Vec3(s.HorizonColor)
	position := Vec3(config.Position)
	center := Vec3(config.ViewportCenter)
	diagonal := Vec3(config.ViewportDiagonal)

	file := &SceneFile{
		Camera: &CameraSection{
			Width:            &config.Width,
			Height:           &config.Height,
			Position:         &position,
			ViewportCenter:   &center,
			ViewportDiagonal: &diagonal,
			PixelSamples:     &config.PixelSamples,
			ScatterDepth:     &config.ScatterDepth,
		},
		Background: &BackgroundSection{Sky: &sky, Horizon: &horizon},
		Materials:  make(map[string]MaterialDef),
	}

	names := make(map[material.Material]string)
	nameOf := func(mat material.Material) (string, error) {
		if name, ok := names[mat]; ok {
			return name, nil
		}
		def, err := describeMaterial(mat)
		if err != nil {
			return "", err
		}
		name := fmt.Sprintf("%s%d", def.Type, len(names))
		names[mat] = name
		file.Materials[name] = def
		return name, nil
	}

	for k, shape := range s.Shapes {
		obj, mat, err := describeShape(shape)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", k, err)
		}
		if obj.Material, err = nameOf(mat); err != nil {
			return nil, fmt.Errorf("object %d: %w", k, err)
		}
		file.Objects = append(file.Objects, obj)
	}

	return file, nil
}

// DumpScene writes s as YAML that LoadScene reads back into the same scene
func DumpScene(w io.Writer, s *scene.Scene) error {
	file, err := Describe(s)
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(file); err != nil {
		return fmt.Errorf("failed to write scene: %w", err)
	}
	return encoder.Close()
}

func describeShape(shape geometry.Shape) (ObjectDef, material.Material, error) {
	switch sh := shape.(type) {
	case *geometry.Sphere:
		center := Vec3(sh.Center)
		radius := sh.Radius
		return ObjectDef{Type: "sphere", Center: &center, Radius: &radius}, sh.Material, nil
	case *geometry.Plane:
		point := Vec3(sh.Point)
		normal := Vec3(sh.Normal)
		// The outward normal faces away from the interior
		interior := Vec3(sh.Point.Subtract(sh.Normal))
		return ObjectDef{Type: "plane", Point: &point, Normal: &normal, Interior: &interior}, sh.Material, nil
	case *geometry.Triangle:
		return ObjectDef{
			Type:     "triangle",
			Vertices: []Vec3{Vec3(sh.V0), Vec3(sh.V1), Vec3(sh.V2)},
		}, sh.Material(), nil
	default:
		return ObjectDef{}, nil, fmt.Errorf("cannot describe shape %T: %w", shape, core.ErrInvalidConfig)
	}
}

func describeMaterial(mat material.Material) (MaterialDef, error) {
	switch m := mat.(type) {
	case *material.Diffuse:
		albedo := Vec3(m.Albedo)
		return MaterialDef{Type: "diffuse", Albedo: &albedo}, nil
	case *material.Metallic:
		albedo := Vec3(m.Albedo)
		fuzz := m.Fuzz
		return MaterialDef{Type: "metallic", Albedo: &albedo, Fuzz: &fuzz}, nil
	case *material.Dielectric:
		index := m.RefractiveIndex
		return MaterialDef{Type: "dielectric", Index: &index}, nil
	case *material.LightSource:
		emission := Vec3(m.Emission)
		return MaterialDef{Type: "light", Emission: &emission}, nil
	default:
		return MaterialDef{}, fmt.Errorf("cannot describe material %T: %w", mat, core.ErrInvalidConfig)
	}
}
