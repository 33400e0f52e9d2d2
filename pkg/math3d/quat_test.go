package math3d

import (
	"math"
	"testing"
)

func TestQuatIdentityRotation(t *testing.T) {
	v := V3(1, 2, 3)
	if got := QuatIdentity().Rotate(v); got.Sub(v).Len() > 1e-12 {
		t.Errorf("identity rotated %v to %v", v, got)
	}
	if m := QuatIdentity().Mat4(); m != Identity() {
		t.Errorf("identity quat matrix = %v", m)
	}
}

func TestQuatAxisRotation(t *testing.T) {
	// 90 degrees around Z takes +X to +Y.
	s, c := math.Sin(math.Pi/4), math.Cos(math.Pi/4)
	q := Q(0, 0, s, c)

	got := q.Rotate(V3(1, 0, 0))
	want := V3(0, 1, 0)
	if got.Sub(want).Len() > 1e-12 {
		t.Errorf("rotated to %v, want %v", got, want)
	}

	// Matrix and direct rotation agree.
	mgot := q.Mat4().MulVec3(V3(1, 0, 0))
	if mgot.Sub(want).Len() > 1e-12 {
		t.Errorf("matrix rotated to %v, want %v", mgot, want)
	}
}

func TestTRSComposition(t *testing.T) {
	// Scale, then rotate 90 around Z, then translate.
	s, c := math.Sin(math.Pi/4), math.Cos(math.Pi/4)
	m := TRS(V3(10, 0, 0), Q(0, 0, s, c), V3(2, 2, 2))

	got := m.MulVec3(V3(1, 0, 0))
	want := V3(10, 2, 0)
	if got.Sub(want).Len() > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMat4AddScaled(t *testing.T) {
	a := Translate(V3(1, 0, 0))
	b := Translate(V3(0, 2, 0))

	// A half-and-half blend of two translations.
	blend := ZeroMat4().AddScaled(a, 0.5).AddScaled(b, 0.5)
	got := blend.MulVec3(V3(0, 0, 0))
	want := V3(0.5, 1, 0)
	if got.Sub(want).Len() > 1e-12 {
		t.Errorf("blended origin = %v, want %v", got, want)
	}
}

func TestVec3Component(t *testing.T) {
	v := V3(1, 2, 3)
	for axis, want := range []float64{1, 2, 3} {
		if got := v.Component(axis); got != want {
			t.Errorf("Component(%d) = %v, want %v", axis, got, want)
		}
	}
}
