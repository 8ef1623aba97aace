package engine

import (
	"github.com/spaghettifunk/anima-scenes/engine/assets"
	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/math"
	"github.com/spaghettifunk/anima-scenes/engine/renderer"
	"github.com/spaghettifunk/anima-scenes/engine/systems"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name string
	// Upper bound on the frame delta handed to the game, in seconds.
	MaxFrameSeconds float64
}

// NewApplicationConfig takes the window settings from the [application]
// section of config.
func NewApplicationConfig(config *core.Config) *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:       config.Application.StartPosX,
		StartPosY:       config.Application.StartPosY,
		StartWidth:      config.Application.StartWidth,
		StartHeight:     config.Application.StartHeight,
		Name:            config.Application.Name,
		MaxFrameSeconds: config.Application.MaxFrameSeconds,
	}
}

/**
 * @brief Everything a game needs to draw: the renderer and its systems,
 * assets, input and the current framebuffer size. Only valid on the render
 * thread.
 */
type Context struct {
	Config   *core.Config
	Renderer *renderer.Renderer
	Shaders  *systems.ShaderSystem
	Geometry *systems.GeometrySystem
	Assets   *assets.AssetManager
	Input    *core.Input
	Events   *core.EventBus
	// Framebuffer size in pixels.
	Width  uint32
	Height uint32
}

// AspectRatio of the framebuffer.
func (c *Context) AspectRatio() float32 {
	return math.AspectRatio(c.Width, c.Height)
}

// Projection builds a perspective matrix from the [projection] settings and
// the current framebuffer size.
func (c *Context) Projection() (math.Mat4, error) {
	p := c.Config.Projection
	return math.BuildPerspective(p.FOV, c.AspectRatio(), p.Near, p.Far)
}

// Quit asks the engine to stop after the current frame.
func (c *Context) Quit() {
	c.Events.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
}
