package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/anima-scenes/engine/assets"
	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/math"
	"github.com/spaghettifunk/anima-scenes/engine/platform"
	"github.com/spaghettifunk/anima-scenes/engine/renderer"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/opengl"
	"github.com/spaghettifunk/anima-scenes/engine/systems"
)

var (
	_ renderer.Backend = (*opengl.Backend)(nil)
	_ Window           = (*platform.Platform)(nil)
)

type RendererType uint8

const (
	RendererTypeOpenGL RendererType = iota
)

// NewBackend creates the GPU backend for t. The backend is not usable until
// a context is current and Initialize has been called.
func NewBackend(t RendererType) (renderer.Backend, error) {
	switch t {
	case RendererTypeOpenGL:
		return opengl.New(), nil
	}
	return nil, fmt.Errorf("renderer type %d is not supported", t)
}

/**
 * @brief The window side of the engine. *platform.Platform is the glfw
 * implementation.
 */
type Window interface {
	Startup(applicationName string, x, y, width, height uint32) error
	FramebufferSize() (uint32, uint32)
	PumpMessages() bool
	SwapBuffers()
	SetTitle(title string)
	Shutdown() error
}

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released every resource
	EngineStageShutdown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	config        *core.Config
	isRunning     atomic.Bool
	isSuspended   bool
	window        Window
	renderer      *renderer.Renderer
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	events        *core.EventBus
	input         *core.Input
	clock         *core.Clock
	metrics       *core.Metrics
	context       *Context
	lastTime      float64
}

// New creates an engine that renders into a glfw window with the OpenGL
// backend.
func New(g *Game, config *core.Config) (*Engine, error) {
	backend, err := NewBackend(RendererTypeOpenGL)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	events := core.NewEventBus()
	input := core.NewInput(events)
	return newEngine(g, config, platform.New(input, events), backend, events, input)
}

// NewWithWindow creates an engine over a caller-supplied window and backend.
// Key events reach the engine through the returned engine's Context().Input.
func NewWithWindow(g *Game, config *core.Config, window Window, backend renderer.Backend) (*Engine, error) {
	events := core.NewEventBus()
	return newEngine(g, config, window, backend, events, core.NewInput(events))
}

func newEngine(g *Game, config *core.Config, window Window, backend renderer.Backend, events *core.EventBus, input *core.Input) (*Engine, error) {
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = NewApplicationConfig(config)
	}
	am := assets.NewAssetManager()
	sm, err := systems.NewSystemManager(backend, am)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	r := renderer.New(backend)

	e := &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		config:        config,
		window:        window,
		renderer:      r,
		assetManager:  am,
		systemManager: sm,
		events:        events,
		input:         input,
		clock:         core.NewClock(),
		metrics:       core.NewMetrics(),
	}
	e.context = &Context{
		Config:   config,
		Renderer: r,
		Shaders:  sm.Shaders(),
		Geometry: sm.Geometry(),
		Assets:   am,
		Input:    input,
		Events:   events,
		Width:    g.ApplicationConfig.StartWidth,
		Height:   g.ApplicationConfig.StartHeight,
	}
	return e, nil
}

// Context returns the render context handed to the game hooks.
func (e *Engine) Context() *Context {
	return e.context
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine already initialized")
	}
	e.currentStage = EngineStageInitializing
	app := e.gameInstance.ApplicationConfig

	// register some events
	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	e.events.Register(core.EVENT_CODE_RESIZED, e.onResized)

	if err := e.window.Startup(app.Name, app.StartPosX, app.StartPosY, app.StartWidth, app.StartHeight); err != nil {
		return err
	}
	e.context.Width, e.context.Height = e.window.FramebufferSize()

	if err := e.renderer.Initialize(e.context.Width, e.context.Height); err != nil {
		core.LogError(err.Error())
		return err
	}

	if err := e.assetManager.Initialize(e.config.Assets.Root, e.config.Assets.Watch); err != nil {
		return err
	}
	e.assetManager.OnChange(e.onAssetChanged)

	if fn := e.gameInstance.FnInitialize; fn != nil {
		if err := fn(e.context); err != nil {
			return err
		}
	}
	if fn := e.gameInstance.FnOnResize; fn != nil {
		if err := fn(e.context, e.context.Width, e.context.Height); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

/**
 * @brief Runs the main loop until the window closes, Escape is pressed or
 * Stop is called. Must be called from the thread that owns the GL context.
 */
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before running")
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		if !e.window.PumpMessages() {
			e.isRunning.Store(false)
			break
		}
		if e.isSuspended {
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		frameTime := currentTime - e.lastTime
		delta := math.Clamp(frameTime, 0, e.gameInstance.ApplicationConfig.MaxFrameSeconds)

		if err := e.frame(delta); err != nil {
			e.isRunning.Store(false)
			return err
		}

		if e.metrics.Update(frameTime) {
			fps, _ := e.metrics.Frame()
			e.window.SetTitle(fmt.Sprintf("%s @ fps: %.2f", e.gameInstance.ApplicationConfig.Name, fps))
		}

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		e.input.Update()
		e.lastTime = currentTime
	}
	return nil
}

func (e *Engine) frame(delta float64) error {
	// shader edits are applied before the game sees the frame
	e.assetManager.ProcessChanges()

	if fn := e.gameInstance.FnUpdate; fn != nil {
		if err := fn(e.context, delta); err != nil {
			core.LogError("Game update failed, shutting down: %s", err)
			return err
		}
	}

	e.renderer.BeginFrame()
	if fn := e.gameInstance.FnRender; fn != nil {
		if err := fn(e.context, delta); err != nil {
			core.LogError("Game render failed, shutting down: %s", err)
			return err
		}
	}
	e.window.SwapBuffers()
	return nil
}

// Stop makes Run return after the current frame. Safe to call from any
// goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	if fn := e.gameInstance.FnShutdown; fn != nil {
		if err := fn(e.context); err != nil {
			core.LogError(err.Error())
		}
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	e.events.Shutdown()
	if err := e.window.Shutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageShutdown
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.context.Width, e.context.Height
}

func (e *Engine) onAssetChanged(info assets.AssetInfo) {
	shaders := e.systemManager.Shaders()
	for _, name := range shaders.UsesFile(info.Name) {
		if err := shaders.Rebuild(name); err != nil {
			core.LogWarn("hot reload of %s failed: %s", name, err)
		}
	}
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if ke.KeyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.events.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		// Block anything else from processing this.
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	width, height := se.WindowWidth, se.WindowHeight

	// Check if different. If so, trigger a resize event.
	if width == e.context.Width && height == e.context.Height {
		return false
	}
	e.context.Width = width
	e.context.Height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return false
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	e.renderer.OnResize(width, height)
	if fn := e.gameInstance.FnOnResize; fn != nil {
		if err := fn(e.context, width, height); err != nil {
			core.LogError(err.Error())
		}
	}
	return false
}
