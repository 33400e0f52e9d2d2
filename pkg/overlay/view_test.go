package overlay

import (
	"math"
	"testing"

	"nadecast/pkg/math3d"
)

func TestWorldToScreenCenter(t *testing.T) {
	// Camera at origin looking down +X; a point straight ahead lands in
	// the middle of the screen.
	v := NewView(math3d.V3(0, 0, 0), 0, 0, 90, 800, 600)

	s, ok := v.WorldToScreen(math3d.V3(100, 0, 0))
	if !ok {
		t.Fatal("point ahead rejected")
	}
	if math.Abs(s.X-400) > 1e-6 || math.Abs(s.Y-300) > 1e-6 {
		t.Errorf("screen = %v, want (400, 300)", s)
	}
}

func TestWorldToScreenRejectsBehind(t *testing.T) {
	v := NewView(math3d.V3(0, 0, 0), 0, 0, 90, 800, 600)

	if _, ok := v.WorldToScreen(math3d.V3(-100, 0, 0)); ok {
		t.Fatal("point behind the camera projected")
	}
	if _, ok := v.WorldToScreen(math3d.V3(0.01, 0, 0)); ok {
		t.Fatal("point inside the near plane projected")
	}
}

func TestWorldToScreenDirections(t *testing.T) {
	v := NewView(math3d.V3(0, 0, 0), 0, 0, 90, 800, 600)

	// Game is Z-up: a point above the view direction lands in the upper
	// half of the screen (smaller Y).
	up, ok := v.WorldToScreen(math3d.V3(100, 0, 20))
	if !ok {
		t.Fatal("rejected")
	}
	if up.Y >= 300 {
		t.Errorf("point above landed at Y=%v, want above center", up.Y)
	}

	// Looking down +X with Z up, +Y is to the camera's left.
	left, ok := v.WorldToScreen(math3d.V3(100, 20, 0))
	if !ok {
		t.Fatal("rejected")
	}
	if left.X >= 400 {
		t.Errorf("point to the left landed at X=%v, want left of center", left.X)
	}
}

func TestWorldToScreenYaw(t *testing.T) {
	// Yaw 90 looks down +Y; a +Y point is now centered.
	v := NewView(math3d.V3(0, 0, 0), 0, 90, 90, 800, 600)

	s, ok := v.WorldToScreen(math3d.V3(0, 100, 0))
	if !ok {
		t.Fatal("rejected")
	}
	if math.Abs(s.X-400) > 1e-6 || math.Abs(s.Y-300) > 1e-6 {
		t.Errorf("screen = %v, want (400, 300)", s)
	}
}

func TestViewCameraPosition(t *testing.T) {
	cam := math3d.V3(10, 20, 30)
	v := NewView(cam, 0, 0, 90, 800, 600)
	if v.CameraPosition() != cam {
		t.Errorf("camera = %v, want %v", v.CameraPosition(), cam)
	}
}
