package demos

import (
	"github.com/spaghettifunk/anima-scenes/engine"
	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"
)

// A per-vertex coloured triangle with GLSL read from the asset tree. Edits
// to the shader files are picked up while running.
type shadersDemo struct {
	*engine.Game

	triangle *metadata.Geometry
	program  *metadata.ShaderProgram
}

func NewShaders(config *core.Config) *engine.Game {
	d := &shadersDemo{Game: &engine.Game{ApplicationConfig: engine.NewApplicationConfig(config)}}
	d.FnInitialize = d.Initialize
	d.FnRender = d.Render
	return d.Game
}

// uploadColouredTriangle is shared by the demos drawing the RGB triangle.
func uploadColouredTriangle(ctx *engine.Context, name string) (*metadata.Geometry, error) {
	return ctx.Geometry.Upload(name, 3,
		metadata.VertexAttribute{Location: 0, Components: 3, Data: trianglePoints},
		metadata.VertexAttribute{Location: 1, Components: 3, Data: triangleColours},
	)
}

func (d *shadersDemo) Initialize(ctx *engine.Context) error {
	ctx.Renderer.EnableDepthTest()
	ctx.Renderer.SetFaceCulling(metadata.FrontFaceClockwise)

	triangle, err := uploadColouredTriangle(ctx, "shaders.triangle")
	if err != nil {
		return err
	}
	d.triangle = triangle

	program, err := ctx.Shaders.BuildFromFiles("shaders", "shaders/colour.vert", "shaders/colour.frag")
	if err != nil {
		return err
	}
	d.program = program
	if err := ctx.Shaders.Validate(program); err != nil {
		core.LogWarn("%s", err)
	}
	return nil
}

func (d *shadersDemo) Render(ctx *engine.Context, deltaTime float64) error {
	ctx.Shaders.Use(d.program)
	ctx.Geometry.Draw(d.triangle)
	return nil
}
