package renderer

import (
	"fmt"

	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"
)

/**
 * @brief Frame-level front end over a Backend: per-frame clear, viewport size and
 * render state toggles.
 */
type Renderer struct {
	backend    Backend
	clearColor [4]float32
	width      int32
	height     int32
}

func New(backend Backend) *Renderer {
	return &Renderer{
		backend:    backend,
		clearColor: [4]float32{0.2, 0.2, 0.2, 1.0},
	}
}

// Initialize brings up the backend and logs what the driver reports.
func (r *Renderer) Initialize(width, height uint32) error {
	if err := r.backend.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize renderer backend: %w", err)
	}
	info := r.backend.Info()
	core.LogInfo("Renderer: %s", info.Renderer)
	core.LogInfo("OpenGL version supported %s", info.Version)
	core.LogInfo("GLSL version %s", info.GLSL)
	r.OnResize(width, height)
	return nil
}

func (r *Renderer) Backend() Backend {
	return r.backend
}

func (r *Renderer) SetClearColor(red, green, blue, alpha float32) {
	r.clearColor = [4]float32{red, green, blue, alpha}
}

// BeginFrame sets the viewport and clears color and depth.
func (r *Renderer) BeginFrame() {
	r.backend.Viewport(r.width, r.height)
	r.backend.Clear(r.clearColor[0], r.clearColor[1], r.clearColor[2], r.clearColor[3])
}

// SetFaceCulling enables back-face culling with the given front winding.
// FrontFaceNone leaves culling off.
func (r *Renderer) SetFaceCulling(front metadata.FrontFace) {
	if front == metadata.FrontFaceNone {
		return
	}
	r.backend.CullBackFaces(front == metadata.FrontFaceClockwise)
}

func (r *Renderer) EnableDepthTest() {
	r.backend.EnableDepthTest()
}

func (r *Renderer) OnResize(width, height uint32) {
	r.width = int32(width)
	r.height = int32(height)
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}
