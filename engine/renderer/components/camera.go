package components

import (
	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/math"
)

/** @brief Upper bound on the time step applied by a single ApplyControls call. */
const MaxStepSeconds float32 = 0.25

/**
 * @brief Keys that drive a camera. Each pair moves along one world axis in
 * the negative and positive direction; TurnLeft/TurnRight yaw about +Y.
 */
type CameraBindings struct {
	Left, Right       core.KeyCode
	Up, Down          core.KeyCode
	Forward, Backward core.KeyCode
	TurnLeft          core.KeyCode
	TurnRight         core.KeyCode
}

// DefaultCameraBindings: A/D strafe, PgUp/PgDn rise and fall, W/S move along
// z and the arrow keys turn.
func DefaultCameraBindings() CameraBindings {
	return CameraBindings{
		Left:      core.KEY_A,
		Right:     core.KEY_D,
		Up:        core.KEY_PRIOR,
		Down:      core.KEY_NEXT,
		Forward:   core.KEY_W,
		Backward:  core.KEY_S,
		TurnLeft:  core.KEY_LEFT,
		TurnRight: core.KEY_RIGHT,
	}
}

// clampStep keeps a frame delta inside [0, MaxStepSeconds].
func clampStep(elapsed float32) float32 {
	return math.Clamp(elapsed, 0, MaxStepSeconds)
}

// translation sums the world-space movement requested by the held keys.
func translation(keys core.KeyQuery, b CameraBindings, step float32) (math.Vec3, bool) {
	delta := math.NewVec3Zero()
	moved := false
	if keys.IsKeyDown(b.Left) {
		delta.X -= step
		moved = true
	}
	if keys.IsKeyDown(b.Right) {
		delta.X += step
		moved = true
	}
	if keys.IsKeyDown(b.Up) {
		delta.Y += step
		moved = true
	}
	if keys.IsKeyDown(b.Down) {
		delta.Y -= step
		moved = true
	}
	if keys.IsKeyDown(b.Forward) {
		delta.Z -= step
		moved = true
	}
	if keys.IsKeyDown(b.Backward) {
		delta.Z += step
		moved = true
	}
	return delta, moved
}

// turn returns the requested yaw change in degrees.
func turn(keys core.KeyQuery, b CameraBindings, step float32) (float32, bool) {
	yaw := float32(0)
	moved := false
	if keys.IsKeyDown(b.TurnLeft) {
		yaw += step
		moved = true
	}
	if keys.IsKeyDown(b.TurnRight) {
		yaw -= step
		moved = true
	}
	return yaw, moved
}

/**
 * @brief A free-fly camera described by a position and a yaw angle about
 * the world Y axis.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/** @brief Rotation about +Y in degrees. */
	Yaw float32
	/** @brief Units per second. */
	Speed float32
	/** @brief Degrees per second. */
	YawSpeed float32
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/**
	 * @brief The view matrix of this camera.
	 * NOTE: IMPORTANT: Do not get this directly, use GetView() instead
	 * so the view matrix is recalculated when needed.
	 */
	ViewMatrix math.Mat4
}

func NewCamera(position math.Vec3, speed, yawSpeed float32) *Camera {
	return &Camera{
		Position:   position,
		Speed:      speed,
		YawSpeed:   yawSpeed,
		IsDirty:    true,
		ViewMatrix: math.NewMat4Identity(),
	}
}

func (c *Camera) GetPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) SetYaw(degrees float32) {
	c.Yaw = degrees
	c.IsDirty = true
}

// GetView returns R(-yaw) * T(-position), rebuilding it only when dirty.
func (c *Camera) GetView() math.Mat4 {
	if c.IsDirty {
		t := math.Translate(math.NewMat4Identity(), c.Position.Negate())
		r := math.RotateYDegrees(math.NewMat4Identity(), -c.Yaw)
		c.ViewMatrix = r.Mul(t)
		c.IsDirty = false
	}
	return c.ViewMatrix
}

/**
 * @brief Moves and turns the camera according to the held keys.
 *
 * @param keys Keyboard state for the current frame.
 * @param bindings Which keys drive which motion.
 * @param elapsed Seconds since the previous frame, clamped to [0, MaxStepSeconds].
 * @return True if any binding was active, in which case the view must be re-uploaded.
 */
func (c *Camera) ApplyControls(keys core.KeyQuery, bindings CameraBindings, elapsed float32) bool {
	elapsed = clampStep(elapsed)
	delta, moved := translation(keys, bindings, c.Speed*elapsed)
	yaw, turned := turn(keys, bindings, c.YawSpeed*elapsed)
	if moved {
		c.Position = c.Position.Add(delta)
	}
	if turned {
		c.Yaw += yaw
	}
	if moved || turned {
		c.IsDirty = true
		return true
	}
	return false
}

/**
 * @brief A camera whose orientation is a unit quaternion. Movement is along
 * world axes like Camera; turning composes a yaw increment about +Y onto
 * the current orientation.
 */
type QuatCamera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/**
	 * @brief Unit quaternion applied to the camera. Set it through
	 * SetOrientation() for the same reason as Position.
	 */
	Orientation math.Quaternion
	/** @brief Units per second. */
	Speed float32
	/** @brief Degrees per second. */
	YawSpeed float32
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/**
	 * @brief The view matrix of this camera.
	 * NOTE: IMPORTANT: Do not get this directly, use GetView() instead
	 * so the view matrix is recalculated when needed.
	 */
	ViewMatrix math.Mat4
}

func NewQuatCamera(position math.Vec3, speed, yawSpeed float32) *QuatCamera {
	return &QuatCamera{
		Position:    position,
		Orientation: math.NewQuatIdentity(),
		Speed:       speed,
		YawSpeed:    yawSpeed,
		IsDirty:     true,
		ViewMatrix:  math.NewMat4Identity(),
	}
}

func (c *QuatCamera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *QuatCamera) SetOrientation(orientation math.Quaternion) {
	c.Orientation = orientation.Normalize()
	c.IsDirty = true
}

// Turn composes a rotation of degrees about axis onto the orientation.
func (c *QuatCamera) Turn(degrees float32, axis math.Vec3) {
	inc := math.NewQuatFromAxisAngle(degrees, axis)
	c.Orientation = math.QuatMultiply(c.Orientation, inc)
	c.IsDirty = true
}

// GetView returns transpose(R(orientation)) * T(-position).
func (c *QuatCamera) GetView() math.Mat4 {
	if c.IsDirty {
		t := math.Translate(math.NewMat4Identity(), c.Position.Negate())
		r := c.Orientation.Normalize().ToMat4().Transpose()
		c.ViewMatrix = r.Mul(t)
		c.IsDirty = false
	}
	return c.ViewMatrix
}

// ApplyControls behaves like Camera.ApplyControls.
func (c *QuatCamera) ApplyControls(keys core.KeyQuery, bindings CameraBindings, elapsed float32) bool {
	elapsed = clampStep(elapsed)
	delta, moved := translation(keys, bindings, c.Speed*elapsed)
	yaw, turned := turn(keys, bindings, c.YawSpeed*elapsed)
	if moved {
		c.Position = c.Position.Add(delta)
		c.IsDirty = true
	}
	if turned {
		c.Turn(yaw, math.NewVec3Up())
	}
	return moved || turned
}
