package overlay

import (
	"nadecast/pkg/math3d"
	"nadecast/pkg/trajectory"
)

// BoneState is one bone of a player's live skeleton, in world space.
// Parent indexes into the same slice; -1 marks a root. Hitbox marks bones
// worth drawing in the line skeleton.
type BoneState struct {
	Name     string
	Position math3d.Vec3
	Rotation math3d.Quat
	Parent   int
	Hitbox   bool
}

// Transform returns the bone's world transform (translation and rotation,
// no scale).
func (b BoneState) Transform() math3d.Mat4 {
	return math3d.Translate(b.Position).Mul(b.Rotation.Mat4())
}

// PlayerState is one opposing player's render-relevant state for a frame.
type PlayerState struct {
	Position math3d.Vec3
	Health   int
	Bones    []BoneState
}

// BoneTransforms builds the name-keyed transform map the model renderer
// consumes. Later duplicates of a name win.
func (p *PlayerState) BoneTransforms() map[string]math3d.Mat4 {
	out := make(map[string]math3d.Mat4, len(p.Bones))
	for i := range p.Bones {
		out[p.Bones[i].Name] = p.Bones[i].Transform()
	}
	return out
}

// LocalPlayer is the local player's throw-relevant state.
type LocalPlayer struct {
	EyePosition     math3d.Vec3
	ViewAngles      math3d.Vec3
	Velocity        math3d.Vec3
	FloorZ          float64
	HoldingGrenade  bool
	GrenadeKind     trajectory.Kind
	PrimaryAttack   bool
	SecondaryAttack bool
}

// Provider supplies world state. Overlays call it fresh every frame and
// carry no copies across frames, so a provider may return different data on
// every call. A false ok means the state is unavailable this frame.
type Provider interface {
	// MapName returns the current map, or ok=false when no map is
	// loaded. The literal name "<empty>" also means no map.
	MapName() (name string, ok bool)
	LocalPlayer() (LocalPlayer, bool)
	Players() []PlayerState
}
