package math

import (
	"errors"
	m "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBuildPerspectiveSanity(t *testing.T) {
	proj, err := BuildPerspective(67, 640.0/480.0, 0.1, 100)
	if err != nil {
		t.Fatalf("BuildPerspective failed: %v", err)
	}

	// [2][2] and [3][2] in column-major storage.
	for _, i := range []int{10, 14} {
		v := proj.Data[i]
		if !(v < 0) || !IsFinite(v) {
			t.Errorf("Data[%d] = %v, want a negative finite value", i, v)
		}
	}
	if proj.Data[11] != -1 {
		t.Errorf("Data[11] = %v, want -1", proj.Data[11])
	}
	if proj.Data[15] != 0 {
		t.Errorf("Data[15] = %v, want 0", proj.Data[15])
	}

	want := mgl32.Perspective(mgl32.DegToRad(67), 640.0/480.0, 0.1, 100)
	if !proj.Compare(Mat4{Data: want}, 1e-4) {
		t.Errorf("got %v\nwant %v", proj.Data, want)
	}
}

func TestBuildPerspectiveMapsClipPlanes(t *testing.T) {
	near, far := float32(0.1), float32(100)
	proj, err := BuildPerspective(67, 1.5, near, far)
	if err != nil {
		t.Fatal(err)
	}
	ndcZ := func(z float32) float32 {
		c := proj.MulVec4(NewVec4(0, 0, z, 1))
		return c.Z / c.W
	}
	if got := ndcZ(-near); kabs(got+1) > 1e-3 {
		t.Errorf("near plane maps to %v, want -1", got)
	}
	if got := ndcZ(-far); kabs(got-1) > 1e-3 {
		t.Errorf("far plane maps to %v, want 1", got)
	}
}

func TestBuildPerspectiveInvalidParameter(t *testing.T) {
	nan := float32(m.NaN())
	inf := float32(m.Inf(1))
	tests := []struct {
		name                   string
		fov, aspect, near, far float32
	}{
		{"far equals near", 67, 1, 1, 1},
		{"far below near", 67, 1, 10, 1},
		{"zero near", 67, 1, 0, 100},
		{"negative near", 67, 1, -0.1, 100},
		{"zero aspect", 67, 0, 0.1, 100},
		{"zero fov", 0, 1, 0.1, 100},
		{"fov 180", 180, 1, 0.1, 100},
		{"nan far", 67, 1, 0.1, nan},
		{"inf far", 67, 1, 0.1, inf},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildPerspective(tc.fov, tc.aspect, tc.near, tc.far)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestAspectRatio(t *testing.T) {
	if got := AspectRatio(640, 480); kabs(got-1.3333334) > testTolerance {
		t.Errorf("AspectRatio(640, 480) = %v", got)
	}
	if got := AspectRatio(640, 0); got != 1 {
		t.Errorf("AspectRatio(640, 0) = %v", got)
	}
}

func TestIsFinite(t *testing.T) {
	for _, x := range []float32{float32(m.NaN()), float32(m.Inf(1)), float32(m.Inf(-1))} {
		if IsFinite(x) {
			t.Errorf("IsFinite(%v) = true", x)
		}
	}
	if !IsFinite(-3.5) || !IsFinite(0) {
		t.Error("ordinary values reported non-finite")
	}
}
