package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/rendertest"
)

type fakeWindow struct {
	width, height uint32
	// frames left before the window reports it was closed
	frames  int
	titles  []string
	swaps   int
	onPump  func(frame int)
	pumped  int
	started bool
	closed  bool
}

func (w *fakeWindow) Startup(name string, x, y, width, height uint32) error {
	w.started = true
	w.width, w.height = width, height
	return nil
}

func (w *fakeWindow) FramebufferSize() (uint32, uint32) { return w.width, w.height }

func (w *fakeWindow) PumpMessages() bool {
	w.pumped++
	if w.onPump != nil {
		w.onPump(w.pumped)
	}
	if w.frames <= 0 {
		return false
	}
	w.frames--
	return true
}

func (w *fakeWindow) SwapBuffers()          { w.swaps++ }
func (w *fakeWindow) SetTitle(title string) { w.titles = append(w.titles, title) }
func (w *fakeWindow) Shutdown() error       { w.closed = true; return nil }

func testConfig(t *testing.T) *core.Config {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "shaders"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"shaders/test.vert": "#version 410\nvoid main() {}\n",
		"shaders/test.frag": "#version 410\nout vec4 c;\nvoid main() { c = vec4(1.0); }\n",
	}
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	config := core.DefaultConfig()
	config.Assets.Root = root
	config.Assets.Watch = false
	return config
}

type counters struct {
	initialized, updates, renders, resizes, shutdowns int
	lastWidth, lastHeight                             uint32
}

func countingGame(c *counters) *Game {
	return &Game{
		FnInitialize: func(ctx *Context) error {
			c.initialized++
			_, err := ctx.Shaders.BuildFromFiles("test", "shaders/test.vert", "shaders/test.frag")
			return err
		},
		FnUpdate: func(ctx *Context, dt float64) error {
			c.updates++
			if dt < 0 || dt > ctx.Config.Application.MaxFrameSeconds {
				return errors.New("delta out of range")
			}
			return nil
		},
		FnRender: func(ctx *Context, dt float64) error {
			c.renders++
			return nil
		},
		FnOnResize: func(ctx *Context, w, h uint32) error {
			c.resizes++
			c.lastWidth, c.lastHeight = w, h
			return nil
		},
		FnShutdown: func(ctx *Context) error {
			c.shutdowns++
			return nil
		},
	}
}

func TestEngineLifecycle(t *testing.T) {
	var c counters
	window := &fakeWindow{frames: 3}
	backend := rendertest.New()
	e, err := NewWithWindow(countingGame(&c), testConfig(t), window, backend)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(); err == nil {
		t.Fatal("Run before Initialize succeeded")
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	if c.initialized != 1 || c.resizes != 1 || c.lastWidth != 640 || c.lastHeight != 480 {
		t.Errorf("after initialize: %+v", c)
	}
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if c.updates != 3 || c.renders != 3 || window.swaps != 3 {
		t.Errorf("updates=%d renders=%d swaps=%d, want 3", c.updates, c.renders, window.swaps)
	}
	if got := backend.Count("Clear"); got != 3 {
		t.Errorf("Clear called %d times", got)
	}
	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if c.shutdowns != 1 || !window.closed {
		t.Errorf("shutdowns=%d closed=%v", c.shutdowns, window.closed)
	}
	if backend.LiveObjects() != 0 {
		t.Errorf("live objects after shutdown = %d", backend.LiveObjects())
	}
}

func TestEscapeQuits(t *testing.T) {
	var c counters
	window := &fakeWindow{frames: 100}
	e, err := NewWithWindow(countingGame(&c), testConfig(t), window, rendertest.New())
	if err != nil {
		t.Fatal(err)
	}
	window.onPump = func(frame int) {
		if frame == 2 {
			e.Context().Input.ProcessKey(core.KEY_ESCAPE, true)
		}
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	// the frame in which Escape arrived still completes
	if c.updates != 2 {
		t.Errorf("updates = %d, want 2", c.updates)
	}
	_ = e.Shutdown()
}

func TestResizeAndSuspend(t *testing.T) {
	var c counters
	window := &fakeWindow{frames: 4}
	e, err := NewWithWindow(countingGame(&c), testConfig(t), window, rendertest.New())
	if err != nil {
		t.Fatal(err)
	}
	resize := func(w, h uint32) {
		e.Context().Events.Fire(core.EventContext{
			Type: core.EVENT_CODE_RESIZED,
			Data: &core.SystemEvent{WindowWidth: w, WindowHeight: h},
		})
	}
	window.onPump = func(frame int) {
		switch frame {
		case 2:
			resize(0, 0)
		case 4:
			resize(800, 600)
		}
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	// frames 2 and 3 are skipped while minimized
	if c.updates != 2 {
		t.Errorf("updates = %d, want 2", c.updates)
	}
	if c.lastWidth != 800 || c.lastHeight != 600 {
		t.Errorf("last resize = %dx%d", c.lastWidth, c.lastHeight)
	}
	if w, h := e.GetFramebufferSize(); w != 800 || h != 600 {
		t.Errorf("framebuffer = %dx%d", w, h)
	}
	_ = e.Shutdown()
}

func TestRenderErrorStopsRun(t *testing.T) {
	var c counters
	g := countingGame(&c)
	g.FnRender = func(ctx *Context, dt float64) error { return errors.New("boom") }
	e, err := NewWithWindow(g, testConfig(t), &fakeWindow{frames: 10}, rendertest.New())
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := e.Run(); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Run = %v", err)
	}
	if c.updates != 1 {
		t.Errorf("updates = %d", c.updates)
	}
	_ = e.Shutdown()
}

func TestShaderHotReload(t *testing.T) {
	var c counters
	config := testConfig(t)
	backend := rendertest.New()
	e, err := NewWithWindow(countingGame(&c), config, &fakeWindow{}, backend)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	program, err := e.Context().Shaders.Get("test")
	if err != nil {
		t.Fatal(err)
	}
	before := program.Handle

	info, ok := e.Context().Assets.Lookup("shaders/test.frag")
	if !ok {
		t.Fatal("fragment shader not indexed")
	}
	e.onAssetChanged(info)
	if program.Handle == before {
		t.Error("program not rebuilt")
	}
	_ = e.Shutdown()
}

func TestContextProjection(t *testing.T) {
	ctx := &Context{Config: core.DefaultConfig(), Width: 640, Height: 480}
	proj, err := ctx.Projection()
	if err != nil {
		t.Fatal(err)
	}
	if proj.Data[11] != -1 {
		t.Errorf("proj[11] = %f", proj.Data[11])
	}
	ctx.Config.Projection.Near = 0
	if _, err := ctx.Projection(); err == nil {
		t.Error("expected an error for near = 0")
	}
}

func TestNewBackendRejectsUnknownType(t *testing.T) {
	if _, err := NewBackend(RendererType(42)); err == nil {
		t.Error("expected an error")
	}
}
