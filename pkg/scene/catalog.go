package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `yaml:"id"`          // Unique identifier
	Name        string `yaml:"name"`        // Display name
	Description string `yaml:"description"` // Optional description
}

type builtin struct {
	info  SceneInfo
	build func() (*Scene, error)
}

var builtins = map[string]builtin{
	"default": {
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Ground, diffuse, glass and metal spheres",
		},
		build: NewDefaultScene,
	},
	"sphere-grid": {
		info: SceneInfo{
			ID:          "sphere-grid",
			Name:        "Sphere Grid",
			Description: "10x10 grid of rainbow-colored metallic spheres",
		},
		build: func() (*Scene, error) { return NewSphereGridScene(10) },
	},
	"pyramid": {
		info: SceneInfo{
			ID:          "pyramid",
			Name:        "Pyramid",
			Description: "Triangle pyramid on a ground plane with a glowing ball",
		},
		build: NewPyramidScene,
	},
}

// ListScenes returns the built-in scenes sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		scenes = append(scenes, b.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// NewBuiltin builds the built-in scene with the given ID
func NewBuiltin(id string) (*Scene, error) {
	b, ok := builtins[id]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q: %w", id, core.ErrInvalidConfig)
	}
	return b.build()
}
