package trajectory

import (
	"math"

	"go.uber.org/zap"

	"nadecast/pkg/mapmesh"
	"nadecast/pkg/math3d"
)

const (
	gravity      = 800.0
	tickInterval = 1.0 / 64.0
	maxSteps     = 130
	elasticity   = 0.45
	friction     = 0.40

	// Grenades sweep as a thin capsule, not a point.
	defaultCapsuleRadius = 2.0

	// Bounces slower than this (speed squared) come to rest.
	restSpeedSq = 100.0

	// Simulation aborts once the grenade falls this far below the
	// thrower's floor.
	floorCutoff = 1000.0
)

// State is the throw input that determines a trajectory. Two states close
// enough under similar() produce the same path, which is what the cache
// keys on.
type State struct {
	Position      math3d.Vec3
	Velocity      math3d.Vec3
	ThrowStrength float64
	Kind          Kind
}

func (s State) similar(other State) bool {
	if s.Kind != other.Kind {
		return false
	}
	if math.Abs(s.ThrowStrength-other.ThrowStrength) > 0.01 {
		return false
	}
	if s.Position.Sub(other.Position).LenSq() > 0.01 {
		return false
	}
	if s.Velocity.Sub(other.Velocity).LenSq() > 0.01 {
		return false
	}
	return true
}

// ThrowInput is everything the simulator needs from the world to compute a
// throw: where the player looks from, their view angles in degrees
// (pitch, yaw, roll), their own velocity which carries into the throw, the
// z of the floor they stand on, and the charge state.
type ThrowInput struct {
	EyePosition    math3d.Vec3
	ViewAngles     math3d.Vec3
	PlayerVelocity math3d.Vec3
	FloorZ         float64
	ThrowStrength  float64
	Kind           Kind
}

// Simulator computes grenade paths against a collision mesh, caching the
// last path so an unchanged throw costs nothing per frame.
type Simulator struct {
	mesh *mapmesh.MapMesh
	lg   *zap.Logger

	CapsuleRadius float64

	lastState State
	lastPath  []math3d.Vec3
	hasCached bool
}

// NewSimulator returns a simulator over the given mesh.
func NewSimulator(mesh *mapmesh.MapMesh, lg *zap.Logger) *Simulator {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Simulator{
		mesh:          mesh,
		lg:            lg,
		CapsuleRadius: defaultCapsuleRadius,
	}
}

// Invalidate drops the cached path, forcing the next Simulate to recompute.
// Call it when the mesh or map changes.
func (s *Simulator) Invalidate() {
	s.hasCached = false
	s.lastPath = nil
}

// Simulate integrates the throw at the fixed tick rate and returns the
// predicted path, ending at the detonation or resting point. The returned
// slice is owned by the simulator and valid until the next call. cached
// reports whether the previous path was reused.
func (s *Simulator) Simulate(in ThrowInput) (path []math3d.Vec3, cached bool) {
	dir := throwDirection(in.ViewAngles)
	speed := (in.ThrowStrength*0.7 + 0.3) * 1115.0
	velocity := dir.Scale(speed).Add(in.PlayerVelocity.Scale(1.25))

	position := in.EyePosition
	position.Z += 2

	state := State{
		Position:      position,
		Velocity:      velocity,
		ThrowStrength: in.ThrowStrength,
		Kind:          in.Kind,
	}
	if s.hasCached && s.lastState.similar(state) {
		return s.lastPath, true
	}

	s.lastPath = s.integrate(state, in.FloorZ, s.lastPath[:0])
	s.lastState = state
	s.hasCached = true
	return s.lastPath, false
}

func (s *Simulator) integrate(state State, floorZ float64, path []math3d.Vec3) []math3d.Vec3 {
	position := state.Position
	velocity := state.Velocity
	detTime, hasDet := state.Kind.DetonationTime()

	elapsed := 0.0
	for step := 0; step < maxSteps; step++ {
		path = append(path, position)

		elapsed += tickInterval
		if hasDet && elapsed >= detTime {
			break
		}

		velocity.Z -= gravity * tickInterval
		next := position.Add(velocity.Scale(tickInterval))

		hit, ok := s.mesh.Collide(position, next, s.CapsuleRadius)
		if !ok {
			position = next
			if position.Z < floorZ-floorCutoff {
				break
			}
			continue
		}

		position = hit.Point
		path = append(path, position)

		// Molotovs ignite on the first floor-like surface.
		if state.Kind == Molotov && hit.Normal.Z > 0.7 {
			break
		}

		normalSpeed := velocity.Dot(hit.Normal)
		normalVel := hit.Normal.Scale(normalSpeed)
		tangentVel := velocity.Sub(normalVel)
		velocity = normalVel.Scale(-elasticity).Add(tangentVel.Scale(friction))

		position = position.Add(hit.Normal.Scale(0.1))

		if velocity.LenSq() < restSpeedSq {
			break
		}
		if position.Z < floorZ-floorCutoff {
			break
		}
	}
	return path
}

// throwDirection converts view angles in degrees to the unit throw
// direction. Pitch is unwrapped into [-89, 89] and then tilted further up
// to match how the game releases grenades above the crosshair.
func throwDirection(viewAngles math3d.Vec3) math3d.Vec3 {
	pitchDeg := viewAngles.X
	if pitchDeg < -89 {
		pitchDeg += 360
	} else if pitchDeg > 89 {
		pitchDeg -= 360
	}
	pitchDeg -= (90 - math.Abs(pitchDeg)) * 10 / 90

	pitch := pitchDeg * math.Pi / 180
	yaw := viewAngles.Y * math.Pi / 180
	return math3d.V3(
		math.Cos(pitch)*math.Cos(yaw),
		math.Cos(pitch)*math.Sin(yaw),
		-math.Sin(pitch),
	)
}
