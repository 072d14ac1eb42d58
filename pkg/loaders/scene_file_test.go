package loaders

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestLoadScene_AllObjectTypes(t *testing.T) {
	input := `
camera:
  width: 64
  height: 32
  pixel_samples: 3
background:
  sky: [0, 0, 1]
materials:
  matte:
    type: diffuse
    albedo: [0.5, 0.5, 0.5]
  chrome:
    type: metallic
    albedo: [0.9, 0.9, 0.9]
  glass:
    type: dielectric
    index: 1.33
  lamp:
    type: light
    emission: [1, 0.5, 0.25]
objects:
  - type: sphere
    center: [0, 2, 0]
    radius: 0.5
    material: glass
  - type: plane
    mx: 0.5
    b: -1
    interior: [0, 0, -5]
    material: matte
  - type: plane
    point: [0, 10, 0]
    normal: [0, 1, 0]
    interior: [0, 0, 0]
    material: chrome
  - type: triangle
    vertices: [[0, 3, 0], [1, 3, 0], [0, 3, 1]]
    material: lamp
`
	s, err := LoadScene(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 4, s.Len())

	// Camera overrides keep the remaining defaults
	assert.Equal(t, 64, s.Camera.Width)
	assert.Equal(t, 32, s.Camera.Height)
	assert.Equal(t, 3, s.Camera.PixelSamples)
	assert.Equal(t, 50, s.Camera.ScatterDepth)
	assert.Equal(t, core.NewVec3(0, 1, 0), s.Camera.ViewportCenter)

	assert.Equal(t, core.NewVec3(0, 0, 1), s.SkyColor)
	assert.Equal(t, scene.DefaultHorizonColor, s.HorizonColor)

	sphere, ok := s.Shapes[0].(*geometry.Sphere)
	require.True(t, ok)
	assert.Equal(t, core.NewVec3(0, 2, 0), sphere.Center)
	glass, ok := sphere.Material.(*material.Dielectric)
	require.True(t, ok)
	assert.Equal(t, 1.33, glass.RefractiveIndex)

	slope, ok := s.Shapes[1].(*geometry.Plane)
	require.True(t, ok)
	assert.Equal(t, core.NewVec3(0, 0, -1), slope.Point)
	assert.Greater(t, slope.Normal.Z, 0.0, "normal faces away from the interior")

	wall, ok := s.Shapes[2].(*geometry.Plane)
	require.True(t, ok)
	assert.Equal(t, core.NewVec3(0, 1, 0), wall.Normal)
	chrome, ok := wall.Material.(*material.Metallic)
	require.True(t, ok)
	assert.Equal(t, 0.0, chrome.Fuzz)

	triangle, ok := s.Shapes[3].(*geometry.Triangle)
	require.True(t, ok)
	light, ok := triangle.Material().(*material.LightSource)
	require.True(t, ok)
	assert.Equal(t, core.NewVec3(1, 0.5, 0.25), light.Emission)
}

func TestLoadScene_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not yaml", "objects: [\n"},
		{"unknown key", "materials: {}\nobjects: []\nlights: []\n"},
		{"unknown material type", "materials:\n  m: {type: plastic}\nobjects: []\n"},
		{"missing albedo", "materials:\n  m: {type: diffuse}\nobjects: []\n"},
		{"albedo out of range", "materials:\n  m: {type: diffuse, albedo: [1.5, 0, 0]}\nobjects: []\n"},
		{"fuzz out of range", "materials:\n  m: {type: metallic, albedo: [1, 1, 1], fuzz: 2}\nobjects: []\n"},
		{"bad index", "materials:\n  m: {type: dielectric, index: 0}\nobjects: []\n"},
		{"short vector", "materials:\n  m: {type: diffuse, albedo: [1, 1]}\nobjects: []\n"},
		{"undefined material", "materials: {}\nobjects:\n  - {type: sphere, center: [0, 0, 0], radius: 1, material: m}\n"},
		{"unknown object", "materials:\n  m: {type: light}\nobjects:\n  - {type: torus, material: m}\n"},
		{"negative radius", "materials:\n  m: {type: light}\nobjects:\n  - {type: sphere, center: [0, 0, 0], radius: -1, material: m}\n"},
		{"plane without interior", "materials:\n  m: {type: light}\nobjects:\n  - {type: plane, b: 1, material: m}\n"},
		{"degenerate triangle", "materials:\n  m: {type: light}\nobjects:\n  - {type: triangle, vertices: [[0, 0, 0], [1, 1, 1], [2, 2, 2]], material: m}\n"},
		{"two vertices", "materials:\n  m: {type: light}\nobjects:\n  - {type: triangle, vertices: [[0, 0, 0], [1, 1, 1]], material: m}\n"},
		{"bad camera", "camera: {width: 0}\nmaterials: {}\nobjects: []\n"},
		{"bright sky", "background: {sky: [2, 2, 2]}\nmaterials: {}\nobjects: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScene(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadSceneFile_DefaultMatchesBuiltin(t *testing.T) {
	loaded, err := LoadSceneFile(filepath.Join("..", "..", "scenes", "default.yaml"))
	require.NoError(t, err)
	builtin, err := scene.NewDefaultScene()
	require.NoError(t, err)

	assert.Equal(t, builtin.Camera.Width, loaded.Camera.Width)
	assert.Equal(t, builtin.Camera.Height, loaded.Camera.Height)
	assert.InDelta(t, builtin.Camera.ViewportDiagonal.X, loaded.Camera.ViewportDiagonal.X, 1e-12)
	assert.Equal(t, builtin.SkyColor, loaded.SkyColor)
	assert.Equal(t, builtin.HorizonColor, loaded.HorizonColor)

	require.Equal(t, builtin.Len(), loaded.Len())
	for k := range builtin.Shapes {
		assert.Equal(t, builtin.Shapes[k], loaded.Shapes[k], "shape %d", k)
	}
}

func TestLoadSceneFile_Examples(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "scenes", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		s, err := LoadSceneFile(file)
		require.NoError(t, err, file)
		assert.NotZero(t, s.Len(), file)
	}
}

func TestLoadSceneFile_Missing(t *testing.T) {
	_, err := LoadSceneFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDumpScene_RoundTrip(t *testing.T) {
	for _, info := range scene.ListScenes() {
		t.Run(info.ID, func(t *testing.T) {
			original, err := scene.NewBuiltin(info.ID)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, DumpScene(&buf, original))

			loaded, err := LoadScene(&buf)
			require.NoError(t, err)

			assert.Equal(t, original.Camera, loaded.Camera)
			require.Equal(t, original.Len(), loaded.Len())

			// Shapes report the same hits, materials included
			rays := []core.Ray{
				core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)),
				core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)),
				core.NewRay(core.NewVec3(0, 0, 0.3), core.NewVec3(0.2, 1, -0.1)),
			}
			for _, ray := range rays {
				want, wantOK := original.Hit(ray, core.Minimum, 1e9)
				got, gotOK := loaded.Hit(ray, core.Minimum, 1e9)
				require.Equal(t, wantOK, gotOK)
				if wantOK {
					assert.InDelta(t, want.T, got.T, 1e-9)
					assert.Equal(t, want.Material, got.Material)
				}
			}
		})
	}
}

func TestDumpScene_SharesMaterials(t *testing.T) {
	mat, err := material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))
	require.NoError(t, err)
	a, err := geometry.NewSphere(core.NewVec3(0, 2, 0), 0.5, mat)
	require.NoError(t, err)
	b, err := geometry.NewSphere(core.NewVec3(0, 4, 0), 0.5, mat)
	require.NoError(t, err)

	s := scene.New()
	s.Add(a, b)

	file, err := Describe(s)
	require.NoError(t, err)
	assert.Len(t, file.Materials, 1)
	assert.Equal(t, file.Objects[0].Material, file.Objects[1].Material)
}
