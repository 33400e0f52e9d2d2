package overlay

import (
	"testing"

	"nadecast/pkg/math3d"
)

// standingPlayer builds a three-bone skeleton ahead of the test camera.
func standingPlayer(health int) PlayerState {
	pos := math3d.V3(200, 0, 0)
	return PlayerState{
		Position: pos,
		Health:   health,
		Bones: []BoneState{
			{Name: "pelvis", Position: pos.Add(math3d.V3(0, 0, 36)), Rotation: math3d.QuatIdentity(), Parent: -1, Hitbox: true},
			{Name: "spine_1", Position: pos.Add(math3d.V3(0, 0, 48)), Rotation: math3d.QuatIdentity(), Parent: 0, Hitbox: true},
			{Name: "head_0", Position: pos.Add(math3d.V3(0, 0, 64)), Rotation: math3d.QuatIdentity(), Parent: 1, Hitbox: true},
			{Name: "attach_helper", Position: pos, Rotation: math3d.QuatIdentity(), Parent: 0, Hitbox: false},
		},
	}
}

func testView() *View {
	return NewView(math3d.V3(0, 0, 50), 0, 0, 90, 800, 600)
}

func TestPlayerOverlaySkeletonFallback(t *testing.T) {
	// No model file exists in the test environment, so chams fall back to
	// the line skeleton.
	o := NewPlayerOverlay(nil)
	o.ModelFile = "definitely-missing.glb"

	rec := &Recorder{}
	o.Render(rec, testView(), &fakeProvider{players: []PlayerState{standingPlayer(100)}})

	// Two hitbox bones have hitbox parents; the non-hitbox helper is
	// skipped.
	if got := rec.CountKind("line"); got != 2 {
		t.Errorf("skeleton lines = %d, want 2", got)
	}
}

func TestPlayerOverlayFailedLoadIsRemembered(t *testing.T) {
	o := NewPlayerOverlay(nil)
	o.ModelFile = "definitely-missing.glb"
	p := &fakeProvider{players: []PlayerState{standingPlayer(100)}}

	o.Render(&Recorder{}, testView(), p)
	if _, seen := o.models[o.ModelFile]; !seen {
		t.Fatal("failed load not recorded")
	}
	if o.models[o.ModelFile] != nil {
		t.Fatal("failed load recorded as a model")
	}
	// Second render reuses the recorded failure.
	o.Render(&Recorder{}, testView(), p)
	if len(o.models) != 1 {
		t.Errorf("model cache has %d entries, want 1", len(o.models))
	}
}

func TestPlayerOverlaySkipsDeadPlayers(t *testing.T) {
	o := NewPlayerOverlay(nil)
	o.ModelFile = "definitely-missing.glb"

	rec := &Recorder{}
	o.Render(rec, testView(), &fakeProvider{players: []PlayerState{standingPlayer(0)}})
	if len(rec.Ops) != 0 {
		t.Errorf("dead player drew %d ops", len(rec.Ops))
	}
}

func TestPlayerOverlayDisabled(t *testing.T) {
	o := NewPlayerOverlay(nil)
	o.Chams = false
	o.Skeleton = false

	rec := &Recorder{}
	o.Render(rec, testView(), &fakeProvider{players: []PlayerState{standingPlayer(100)}})
	if len(rec.Ops) != 0 {
		t.Errorf("disabled overlay drew %d ops", len(rec.Ops))
	}
}

func TestBoneTransforms(t *testing.T) {
	player := standingPlayer(100)
	transforms := player.BoneTransforms()

	if len(transforms) != 4 {
		t.Fatalf("got %d transforms, want 4", len(transforms))
	}
	head, ok := transforms["head_0"]
	if !ok {
		t.Fatal("head transform missing")
	}
	want := player.Bones[2].Position
	if head.Translation() != want {
		t.Errorf("head translation = %v, want %v", head.Translation(), want)
	}
}
