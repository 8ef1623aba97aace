// Package demos holds the runnable scenes, selected by name on the command
// line or in config.toml.
package demos

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spaghettifunk/anima-scenes/engine"
	"github.com/spaghettifunk/anima-scenes/engine/core"
)

type Demo struct {
	Name        string
	Description string
	New         func(config *core.Config) *engine.Game
}

var registry = map[string]Demo{}

func register(d Demo) {
	if _, ok := registry[d.Name]; ok {
		panic(fmt.Sprintf("demo %s registered twice", d.Name))
	}
	registry[d.Name] = d
}

func init() {
	register(Demo{Name: "hello_triangle", Description: "two triangles, two inline shader programs", New: NewHelloTriangle})
	register(Demo{Name: "shaders", Description: "a coloured triangle with shaders loaded from files", New: NewShaders})
	register(Demo{Name: "mats_and_vecs", Description: "a triangle bouncing along x through a matrix uniform", New: NewMatsAndVecs})
	register(Demo{Name: "virtual_camera", Description: "a yaw-only free camera, WASD PgUp PgDn and arrows", New: NewVirtualCamera})
	register(Demo{Name: "quaternion_camera", Description: "a quaternion camera looking at four meshes", New: NewQuaternionCamera})
}

// Lookup returns the demo registered under name.
func Lookup(name string) (Demo, error) {
	d, ok := registry[name]
	if !ok {
		return Demo{}, fmt.Errorf("unknown demo %q, available: %s", name, strings.Join(Names(), ", "))
	}
	return d, nil
}

// Names returns the registered demo names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var (
	trianglePoints = []float32{
		0.0, 0.5, 0.0,
		0.5, -0.5, 0.0,
		-0.5, -0.5, 0.0,
	}
	triangleColours = []float32{
		1.0, 0.0, 0.0,
		0.0, 1.0, 0.0,
		0.0, 0.0, 1.0,
	}
)
