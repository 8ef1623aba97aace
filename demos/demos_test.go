package demos

import (
	stdmath "math"
	"testing"

	"github.com/spaghettifunk/anima-scenes/engine"
	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/math"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/rendertest"
)

type fakeWindow struct {
	frames int
	pumped int
	onPump func(frame int)
}

func (w *fakeWindow) Startup(name string, x, y, width, height uint32) error { return nil }
func (w *fakeWindow) FramebufferSize() (uint32, uint32)                        { return 640, 480 }
func (w *fakeWindow) SwapBuffers()                                             {}
func (w *fakeWindow) SetTitle(string)                                          {}
func (w *fakeWindow) Shutdown() error                                          { return nil }

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

func testConfig() *core.Config {
	config := core.DefaultConfig()
	config.Assets.Root = "../assets"
	config.Assets.Watch = false
	return config
}

func startDemo(t *testing.T, name string, window *fakeWindow) (*engine.Engine, *rendertest.Backend) {
	t.Helper()
	d, err := Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	config := testConfig()
	backend := rendertest.New()
	backend.Uniforms = []string{"model", "view", "proj", "matrix"}
	e, err := engine.NewWithWindow(d.New(config), config, window, backend)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := e.Shutdown(); err != nil {
			t.Error(err)
		}
	})
	return e, backend
}

func TestEveryDemoRuns(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			e, backend := startDemo(t, name, &fakeWindow{frames: 2})
			if err := e.Run(); err != nil {
				t.Fatal(err)
			}
			if backend.Count("DrawTriangles") == 0 {
				t.Error("nothing drawn")
			}
		})
	}
}

func TestLookupUnknownDemo(t *testing.T) {
	if _, err := Lookup("06_vcam"); err == nil {
		t.Error("expected an error")
	}
	if got := len(Names()); got != 5 {
		t.Errorf("%d demos registered", got)
	}
}

func TestHelloTriangleDrawsBothHalves(t *testing.T) {
	e, backend := startDemo(t, "hello_triangle", &fakeWindow{frames: 1})
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	var draws []string
	for _, c := range backend.Calls {
		if c.Name == "DrawTriangles" {
			draws = append(draws, c.Arg)
		}
	}
	if len(draws) != 2 || draws[0] != "0+3" || draws[1] != "3+3" {
		t.Errorf("draws = %v", draws)
	}
}

func TestMatsAndVecsBounces(t *testing.T) {
	d := &matsAndVecs{Speed: 1}
	maxAbs := float32(0)
	turned := 0
	for i := 0; i < 100; i++ {
		before := d.Speed
		d.step(0.25)
		if d.Speed != before {
			turned++
		}
		if a := float32(stdmath.Abs(float64(d.LastPosition))); a > maxAbs {
			maxAbs = a
		}
	}
	if turned < 4 {
		t.Errorf("direction changed %d times", turned)
	}
	// one step past the bound at most
	if maxAbs != 1.25 {
		t.Errorf("position reached %f", maxAbs)
	}
}

func TestMatsAndVecsReturnsAfterLongFrame(t *testing.T) {
	d := &matsAndVecs{Speed: 1, LastPosition: 0.9}
	d.step(0.25)
	if stdmath.Abs(float64(d.LastPosition)-1.15) > 1e-5 {
		t.Fatalf("position after overshoot = %f", d.LastPosition)
	}
	for i := 0; i < 20; i++ {
		d.step(0.016)
		if d.Speed > 0 {
			t.Fatalf("frame %d: still moving outward at %f", i, d.LastPosition)
		}
	}
	if d.LastPosition > 1.0 {
		t.Errorf("stuck outside the edge at %f", d.LastPosition)
	}
}

func TestCameraUploadsViewOnlyWhenMoved(t *testing.T) {
	for _, name := range []string{"virtual_camera", "quaternion_camera"} {
		t.Run(name, func(t *testing.T) {
			window := &fakeWindow{frames: 6}
			e, backend := startDemo(t, name, window)
			viewLocation := "1"
			countViews := func() int {
				n := 0
				for _, c := range backend.Calls {
					if c.Name == "UniformMatrix4fv" && c.Arg == viewLocation {
						n++
					}
				}
				return n
			}
			if got := countViews(); got != 1 {
				t.Fatalf("view uploaded %d times during initialize", got)
			}

			var idle, moving int
			window.onPump = func(frame int) {
				switch frame {
				case 4:
					idle = countViews()
					e.Context().Input.ProcessKey(core.KEY_W, true)
				case 6:
					e.Context().Input.ProcessKey(core.KEY_W, false)
				case 7:
					moving = countViews()
				}
			}
			if err := e.Run(); err != nil {
				t.Fatal(err)
			}
			if idle != 1 {
				t.Errorf("view uploaded %d times after idle frames, want 1", idle)
			}
			// frames 4 and 5 had W held
			if moving != 3 {
				t.Errorf("view uploaded %d times after moving, want 3", moving)
			}
		})
	}
}

func TestQuaternionCameraModelMatrices(t *testing.T) {
	e, backend := startDemo(t, "quaternion_camera", &fakeWindow{frames: 1})
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if got := backend.Count("DrawTriangles"); got != len(meshPositions) {
		t.Errorf("drew %d meshes, want %d", got, len(meshPositions))
	}
	// the last model upload is the last position
	model := backend.Matrices[0]
	want := math.NewMat4Translation(meshPositions[len(meshPositions)-1])
	if model != want.Data {
		t.Errorf("model = %v, want %v", model, want.Data)
	}
	cube, err := e.Context().Geometry.Get(quaternionCameraMesh)
	if err != nil {
		t.Fatal(err)
	}
	if cube.VertexCount != 36 {
		t.Errorf("cube has %d vertices", cube.VertexCount)
	}
}
