package engine

/**
 * @brief A runnable scene. The engine calls the hooks on the render thread
 * with the render context; unset hooks are skipped.
 */
type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func(ctx *Context) error
type Update func(ctx *Context, deltaTime float64) error
type Render func(ctx *Context, deltaTime float64) error
type OnResize func(ctx *Context, width uint32, height uint32) error
type Shutdown func(ctx *Context) error
