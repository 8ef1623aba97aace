package demos

import (
	"github.com/spaghettifunk/anima-scenes/engine"
	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/math"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/components"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"
)

const quaternionCameraMesh = "models/cube.obj"

// a world position for each mesh in the scene
var meshPositions = []math.Vec3{
	{X: -2.0, Y: 0.0, Z: 0.0},
	{X: 2.0, Y: 0.0, Z: 0.0},
	{X: -2.0, Y: 0.0, Z: -2.0},
	{X: 1.5, Y: 1.0, Z: -1.0},
}

/**
 * @brief A mesh loaded from OBJ, drawn at four world positions through a
 * quaternion camera.
 */
type quaternionCamera struct {
	*engine.Game

	mesh       *metadata.Geometry
	program    *metadata.ShaderProgram
	camera     *components.QuatCamera
	bindings   components.CameraBindings
	transforms []*math.Transform
	uploadedTo uint32
}

func NewQuaternionCamera(config *core.Config) *engine.Game {
	d := &quaternionCamera{
		Game:     &engine.Game{ApplicationConfig: engine.NewApplicationConfig(config)},
		camera:   components.NewQuatCamera(math.NewVec3(0, 0, 5), config.Camera.Speed, config.Camera.YawSpeed),
		bindings: components.DefaultCameraBindings(),
	}
	for _, p := range meshPositions {
		d.transforms = append(d.transforms, math.NewTransformFromPosition(p))
	}
	d.FnInitialize = d.Initialize
	d.FnUpdate = d.Update
	d.FnRender = d.Render
	d.FnOnResize = d.OnResize
	return d.Game
}

func (d *quaternionCamera) Initialize(ctx *engine.Context) error {
	ctx.Renderer.EnableDepthTest()
	// OBJ exporters write counter-clockwise front faces
	ctx.Renderer.SetFaceCulling(metadata.FrontFaceCounterClockwise)

	mesh, err := ctx.Assets.LoadMesh(quaternionCameraMesh)
	if err != nil {
		return err
	}
	geometry, err := ctx.Geometry.UploadMesh(mesh)
	if err != nil {
		return err
	}
	d.mesh = geometry

	program, err := ctx.Shaders.BuildFromFiles("quaternion_camera", "shaders/mesh.vert", "shaders/mesh.frag", "model", "view", "proj")
	if err != nil {
		return err
	}
	d.program = program
	ctx.Shaders.SetMat4(program, "view", d.camera.GetView())
	d.uploadedTo = program.Handle
	return nil
}

func (d *quaternionCamera) OnResize(ctx *engine.Context, width, height uint32) error {
	return uploadProjection(ctx, d.program)
}

func (d *quaternionCamera) Update(ctx *engine.Context, deltaTime float64) error {
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

func (d *quaternionCamera) Render(ctx *engine.Context, deltaTime float64) error {
	ctx.Shaders.Use(d.program)
	for _, t := range d.transforms {
		ctx.Shaders.SetMat4(d.program, "model", t.GetLocal())
		ctx.Geometry.Draw(d.mesh)
	}
	return nil
}
