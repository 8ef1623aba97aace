package demos

import (
	"github.com/spaghettifunk/anima-scenes/engine"
	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"
)

const (
	helloVertexShader = `#version 410
in vec3 vp;
void main() {
	gl_Position = vec4(vp.x, vp.y, vp.z, 1.0);
}`
	helloFragmentShader = `#version 410
out vec4 frag_colour;
void main() {
	frag_colour = vec4(0.5, 0.3, 0.5, 1.0);
}`
	helloFragmentShader2 = `#version 410
out vec4 frag_colour;
void main() {
	frag_colour = vec4(0.5, 0.0, 0.5, 1.0);
}`
)

// A quad made of two triangles, each drawn with its own program.
type helloTriangle struct {
	*engine.Game

	quad     *metadata.Geometry
	programs [2]*metadata.ShaderProgram
}

func NewHelloTriangle(config *core.Config) *engine.Game {
	d := &helloTriangle{Game: &engine.Game{ApplicationConfig: engine.NewApplicationConfig(config)}}
	d.FnInitialize = d.Initialize
	d.FnRender = d.Render
	return d.Game
}

func (d *helloTriangle) Initialize(ctx *engine.Context) error {
	ctx.Renderer.SetClearColor(1, 1, 1, 1)
	ctx.Renderer.EnableDepthTest()

	points := []float32{
		-0.5, 0.5, 0.0,
		0.5, -0.5, 0.0,
		-0.5, -0.5, 0.0,
		-0.5, 0.5, 0.0,
		0.5, 0.5, 0.0,
		0.5, -0.5, 0.0,
	}
	quad, err := ctx.Geometry.Upload("hello_triangle.quad", 6,
		metadata.VertexAttribute{Location: metadata.AttributePosition, Components: 3, Data: points})
	if err != nil {
		return err
	}
	d.quad = quad

	for i, fs := range []string{helloFragmentShader, helloFragmentShader2} {
		program, err := ctx.Shaders.Build(helloProgramNames[i], helloVertexShader, fs)
		if err != nil {
			return err
		}
		d.programs[i] = program
	}
	return nil
}

var helloProgramNames = [2]string{"hello_triangle.0", "hello_triangle.1"}

func (d *helloTriangle) Render(ctx *engine.Context, deltaTime float64) error {
	for i, program := range d.programs {
		ctx.Shaders.Use(program)
		ctx.Geometry.DrawRange(d.quad, int32(3*i), 3)
	}
	return nil
}
