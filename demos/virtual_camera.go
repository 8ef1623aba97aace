package demos

import (
	"github.com/spaghettifunk/anima-scenes/engine"
	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/math"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/components"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"
)

/**
 * @brief The coloured triangle seen through a free camera that moves along
 * world axes and turns about +Y.
 *
 * The view matrix is uploaded only on frames where the camera moved, or
 * after the program was rebuilt.
 */
type virtualCamera struct {
	*engine.Game

	triangle *metadata.Geometry
	program  *metadata.ShaderProgram
	camera   *components.Camera
	bindings components.CameraBindings
	// program handle the current uniforms were uploaded to
	uploadedTo uint32
}

func NewVirtualCamera(config *core.Config) *engine.Game {
	d := &virtualCamera{
		Game: &engine.Game{ApplicationConfig: engine.NewApplicationConfig(config)},
		// don't start at zero, or we will be too close
		camera:   components.NewCamera(math.NewVec3(0, 0, 2), config.Camera.Speed, config.Camera.YawSpeed),
		bindings: components.DefaultCameraBindings(),
	}
	d.FnInitialize = d.Initialize
	d.FnUpdate = d.Update
	d.FnRender = d.Render
	d.FnOnResize = d.OnResize
	return d.Game
}

func (d *virtualCamera) Initialize(ctx *engine.Context) error {
	ctx.Renderer.EnableDepthTest()
	ctx.Renderer.SetFaceCulling(metadata.FrontFaceClockwise)

	triangle, err := uploadColouredTriangle(ctx, "virtual_camera.triangle")
	if err != nil {
		return err
	}
	d.triangle = triangle

	program, err := ctx.Shaders.BuildFromFiles("virtual_camera", "shaders/camera.vert", "shaders/colour.frag", "view", "proj")
	if err != nil {
		return err
	}
	d.program = program
	ctx.Shaders.SetMat4(program, "view", d.camera.GetView())
	d.uploadedTo = program.Handle
	return nil
}

func (d *virtualCamera) OnResize(ctx *engine.Context, width, height uint32) error {
	return uploadProjection(ctx, d.program)
}

func (d *virtualCamera) Update(ctx *engine.Context, deltaTime float64) error {
	if d.program.Handle != d.uploadedTo {
		ctx.Shaders.SetMat4(d.program, "view", d.camera.GetView())
		d.uploadedTo = d.program.Handle
		if err := uploadProjection(ctx, d.program); err != nil {
			return err
		}
	}
	if d.camera.ApplyControls(ctx.Input, d.bindings, float32(deltaTime)) {
		ctx.Shaders.SetMat4(d.program, "view", d.camera.GetView())
	}
	return nil
}

func (d *virtualCamera) Render(ctx *engine.Context, deltaTime float64) error {
	ctx.Shaders.Use(d.program)
	ctx.Geometry.Draw(d.triangle)
	return nil
}

// uploadProjection sends the perspective for the current framebuffer to
// the proj uniform of program.
func uploadProjection(ctx *engine.Context, program *metadata.ShaderProgram) error {
	proj, err := ctx.Projection()
	if err != nil {
		core.LogError("projection: %s", err)
		return err
	}
	ctx.Shaders.SetMat4(program, "proj", proj)
	return nil
}
