package demos

import (
	"github.com/spaghettifunk/anima-scenes/engine"
	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/math"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"
)

// The triangle slides along x at Speed units per second and turns back
// once it is more than one unit from the origin.
type matsAndVecs struct {
	*engine.Game

	triangle *metadata.Geometry
	program  *metadata.ShaderProgram

	Speed        float32
	LastPosition float32
}

func NewMatsAndVecs(config *core.Config) *engine.Game {
	d := &matsAndVecs{
		Game:  &engine.Game{ApplicationConfig: engine.NewApplicationConfig(config)},
		Speed: 1.0,
	}
	d.FnInitialize = d.Initialize
	d.FnUpdate = d.Update
	d.FnRender = d.Render
	return d.Game
}

func (d *matsAndVecs) Initialize(ctx *engine.Context) error {
	ctx.Renderer.EnableDepthTest()
	ctx.Renderer.SetFaceCulling(metadata.FrontFaceClockwise)

	triangle, err := uploadColouredTriangle(ctx, "mats_and_vecs.triangle")
	if err != nil {
		return err
	}
	d.triangle = triangle

	program, err := ctx.Shaders.BuildFromFiles("mats_and_vecs", "shaders/matrix.vert", "shaders/colour.frag", "matrix")
	if err != nil {
		return err
	}
	d.program = program
	ctx.Shaders.SetMat4(program, "matrix", math.NewMat4Translation(math.NewVec3(0.5, 0, 0)))
	return nil
}

// step advances the animation by elapsed seconds.
func (d *matsAndVecs) step(elapsed float32) {
	// reverse direction when heading further past the left or right edge
	if (d.LastPosition > 1.0 && d.Speed > 0) || (d.LastPosition < -1.0 && d.Speed < 0) {
		d.Speed = -d.Speed
	}
	d.LastPosition += elapsed * d.Speed
}

func (d *matsAndVecs) Update(ctx *engine.Context, deltaTime float64) error {
	d.step(float32(deltaTime))
	ctx.Shaders.SetMat4(d.program, "matrix", math.NewMat4Translation(math.NewVec3(d.LastPosition, 0, 0)))
	return nil
}

func (d *matsAndVecs) Render(ctx *engine.Context, deltaTime float64) error {
	ctx.Shaders.Use(d.program)
	ctx.Geometry.Draw(d.triangle)
	return nil
}
