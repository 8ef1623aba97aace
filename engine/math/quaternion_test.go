package math

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestQuatFromAxisAngleIsUnit(t *testing.T) {
	tests := []struct {
		name  string
		angle float32
		axis  Vec3
	}{
		{"up", 30, NewVec3Up()},
		{"x", -90, NewVec3(1, 0, 0)},
		{"diagonal", 45, NewVec3(1, 1, 1).Normalized()},
		{"non-unit axis", 10, NewVec3(0, 5, 0)},
		{"full turn", 360, NewVec3(0, 0, 1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := NewQuatFromAxisAngle(tc.angle, tc.axis)
			if d := kabs(1 - q.LengthSquared()); d > K_QUAT_NORMALIZE_THRESHOLD {
				t.Errorf("|q|^2 = %v", q.LengthSquared())
			}
		})
	}
}

func TestQuatFromAxisAngleZeroAxis(t *testing.T) {
	if q := NewQuatFromAxisAngle(45, NewVec3Zero()); q != NewQuatIdentity() {
		t.Errorf("zero axis produced %v", q)
	}
}

func TestQuatFromAxisAngleMatchesReference(t *testing.T) {
	axis := NewVec3(0.3, -0.2, 0.9).Normalized()
	q := NewQuatFromAxisAngle(73, axis)
	ref := mgl32.QuatRotate(mgl32.DegToRad(73), mgl32.Vec3{axis.X, axis.Y, axis.Z})
	want := Quaternion{X: ref.V[0], Y: ref.V[1], Z: ref.V[2], W: ref.W}
	if !q.Compare(want, testTolerance) {
		t.Errorf("got %v, want %v", q, want)
	}
	if !q.ToMat4().Compare(Mat4{Data: ref.Mat4()}, testTolerance) {
		t.Errorf("ToMat4 = %v, want %v", q.ToMat4().Data, ref.Mat4())
	}
}

func TestQuatNormalizeThreshold(t *testing.T) {
	// Within tolerance: left untouched, bit for bit.
	q := Quaternion{X: 0, Y: 0, Z: 0, W: 1.00002}
	if got := q.Normalize(); got != q {
		t.Errorf("Normalize changed a near-unit quaternion: %v", got)
	}

	// Outside tolerance: rescaled.
	q = Quaternion{X: 0, Y: 2, Z: 0, W: 2}
	got := q.Normalize()
	if d := kabs(1 - got.LengthSquared()); d > 1e-6 {
		t.Errorf("|Normalize(q)|^2 = %v", got.LengthSquared())
	}
	if !got.Compare(Quaternion{X: 0, Y: 0.70710677, Z: 0, W: 0.70710677}, testTolerance) {
		t.Errorf("Normalize = %v", got)
	}
}

func TestQuatUnitInvariantOverCompositions(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	q := NewQuatIdentity()
	for i := 0; i < 10000; i++ {
		axis := NewVec3(r.Float32()*2-1, r.Float32()*2-1, r.Float32()*2-1)
		inc := NewQuatFromAxisAngle(r.Float32()*20-10, axis)
		q = QuatMultiply(q, inc)
		if d := kabs(1 - q.LengthSquared()); d > K_QUAT_NORMALIZE_THRESHOLD {
			t.Fatalf("step %d: |q|^2 = %v", i, q.LengthSquared())
		}
	}
}

func TestQuatToMat4PreservesLength(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		axis := NewVec3(r.Float32()*2-1, r.Float32()*2-1, r.Float32()*2-1).Normalized()
		q := NewQuatFromAxisAngle(r.Float32()*720-360, axis)
		m := q.ToMat4()
		v := NewVec3(r.Float32()*10-5, r.Float32()*10-5, r.Float32()*10-5)
		before := v.Length()
		after := m.MulVec3(v).Length()
		if kabs(before-after) > 1e-4*before+1e-5 {
			t.Fatalf("#%d: |v| = %v, |Rv| = %v", i, before, after)
		}
	}
}

func TestQuatToMat4LastRowAndColumn(t *testing.T) {
	m := NewQuatFromAxisAngle(33, NewVec3(1, 2, 3)).ToMat4()
	for _, i := range []int{3, 7, 11, 12, 13, 14} {
		if m.Data[i] != 0 {
			t.Errorf("Data[%d] = %v, want 0", i, m.Data[i])
		}
	}
	if m.Data[15] != 1 {
		t.Errorf("Data[15] = %v, want 1", m.Data[15])
	}
}

func TestQuatRotationComposition(t *testing.T) {
	tests := []struct {
		a, b float32
		axis Vec3
	}{
		{10, 20, NewVec3Up()},
		{-35, 80, NewVec3(1, 0, 0)},
		{90, 90, NewVec3(0, 0, 1)},
		{12.5, -100, NewVec3(1, 1, 0).Normalized()},
	}
	for _, tc := range tests {
		composed := QuatMultiply(NewQuatFromAxisAngle(tc.a, tc.axis), NewQuatFromAxisAngle(tc.b, tc.axis))
		once := NewQuatFromAxisAngle(tc.a+tc.b, tc.axis)
		if !composed.ToMat4().Compare(once.ToMat4(), testTolerance) {
			t.Errorf("rotate(%v) then rotate(%v) about %v != rotate(%v)", tc.a, tc.b, tc.axis, tc.a+tc.b)
		}
	}
}

func TestQuatYawMatchesMatrixPath(t *testing.T) {
	for _, deg := range []float32{-120, -10, 0, 45, 200} {
		q := NewQuatFromAxisAngle(deg, NewVec3Up()).ToMat4()
		m := RotateYDegrees(NewMat4Identity(), deg)
		if !q.Compare(m, testTolerance) {
			t.Errorf("yaw %v: quaternion %v, matrix %v", deg, q.Data, m.Data)
		}
	}
}

func TestQuatMultiplyOrder(t *testing.T) {
	// Apply a yaw of 90 degrees, then a pitch of 90 degrees about world X.
	yaw := NewQuatFromAxisAngle(90, NewVec3Up())
	pitch := NewQuatFromAxisAngle(90, NewVec3(1, 0, 0))
	q := QuatMultiply(yaw, pitch)

	// (1,0,0) -yaw-> (0,0,-1) -pitch-> (0,1,0)
	got := q.ToMat4().MulVec3(NewVec3(1, 0, 0))
	if !got.Compare(NewVec3(0, 1, 0), testTolerance) {
		t.Errorf("got %v, want (0, 1, 0)", got)
	}

	ref := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{1, 0, 0}).Mul(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))
	if !q.ToMat4().Compare(Mat4{Data: ref.Mat4()}, testTolerance) {
		t.Errorf("QuatMultiply disagrees with reference Hamilton product")
	}
}

func TestQuatConjugateInvertsRotation(t *testing.T) {
	q := NewQuatFromAxisAngle(64, NewVec3(0.2, 0.9, -0.4))
	m := q.ToMat4().Mul(q.Conjugate().ToMat4())
	if !m.Compare(NewMat4Identity(), testTolerance) {
		t.Errorf("R(q) * R(q*) = %v", m.Data)
	}
	if !q.Conjugate().ToMat4().Compare(q.ToMat4().Transpose(), testTolerance) {
		t.Error("R(q*) != transpose(R(q))")
	}
}
