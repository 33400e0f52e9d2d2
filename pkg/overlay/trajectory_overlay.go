package overlay

import (
	"math"

	"go.uber.org/zap"

	"nadecast/pkg/mapmesh"
	"nadecast/pkg/math3d"
	"nadecast/pkg/trajectory"
)

// AutoMap selects the map reported by the world-state provider.
const AutoMap = "Auto"

// Fallback map loaded once when neither a selection nor the provider names
// a map.
const defaultMap = "de_mirage"

const (
	landingRingSegments = 48
	landingRingLift     = 2.0
	landingDotRadius    = 3.0
	arcThickness        = 2.0
)

// TrajectoryOverlay predicts and draws the grenade arc for the local
// player's currently charged throw. It owns the collision mesh for the
// active map and reloads it wholesale on a map switch.
type TrajectoryOverlay struct {
	lg *zap.Logger

	// SelectedMap overrides automatic map detection when not AutoMap.
	SelectedMap string

	currentMap string
	sim        *trajectory.Simulator

	path []math3d.Vec3
	kind trajectory.Kind
}

// NewTrajectoryOverlay returns an overlay with automatic map selection.
func NewTrajectoryOverlay(lg *zap.Logger) *TrajectoryOverlay {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &TrajectoryOverlay{lg: lg, SelectedMap: AutoMap}
}

// CurrentMap returns the name of the map whose mesh is loaded, empty when
// none is.
func (o *TrajectoryOverlay) CurrentMap() string {
	return o.currentMap
}

// Update refreshes the collision mesh for the active map and recomputes
// the trajectory from the provider's state. A provider with no usable
// local player, no grenade in hand or no charge collapses the overlay to
// idle (nothing drawn) rather than erroring.
func (o *TrajectoryOverlay) Update(provider Provider) {
	o.updateMap(provider)

	local, ok := provider.LocalPlayer()
	if !ok || !local.HoldingGrenade {
		o.path = nil
		return
	}
	strength, charging := trajectory.StrengthFromTriggers(local.PrimaryAttack, local.SecondaryAttack)
	if !charging {
		o.path = nil
		return
	}
	if o.sim == nil {
		o.path = nil
		return
	}

	o.kind = local.GrenadeKind
	o.path, _ = o.sim.Simulate(trajectory.ThrowInput{
		EyePosition:    local.EyePosition,
		ViewAngles:     local.ViewAngles,
		PlayerVelocity: local.Velocity,
		FloorZ:         local.FloorZ,
		ThrowStrength:  strength,
		Kind:           local.GrenadeKind,
	})
}

func (o *TrajectoryOverlay) updateMap(provider Provider) {
	target := ""
	if o.SelectedMap != "" && o.SelectedMap != AutoMap {
		target = o.SelectedMap
	} else if name, ok := provider.MapName(); ok {
		target = name
	}
	// One-time fallback so the overlay is demonstrable before any map
	// state exists.
	if target == "" && o.currentMap == "" {
		target = defaultMap
	}
	if target == "" || target == "<empty>" || target == o.currentMap {
		return
	}

	o.lg.Info("map switch requested", zap.String("map", target))
	o.currentMap = target
	o.path = nil

	mesh, err := mapmesh.Load(target+".glb", o.lg)
	if err != nil {
		o.lg.Warn("failed to load collision mesh",
			zap.String("map", target), zap.Error(err))
		o.sim = nil
		return
	}
	o.sim = trajectory.NewSimulator(mesh, o.lg)
}

// Render draws the current arc and its landing marker. Idle overlays draw
// nothing.
func (o *TrajectoryOverlay) Render(draw DrawList, view *View) {
	if len(o.path) == 0 {
		return
	}

	fill, radius := o.kind.Visuals()
	outline := fill.Opaque()

	if len(o.path) > 1 {
		points := make([]math3d.Vec2, 0, len(o.path))
		for _, p := range o.path {
			if s, ok := view.WorldToScreen(p); ok {
				points = append(points, s)
			}
		}
		if len(points) > 1 {
			draw.Polyline(points, outline, arcThickness)
		}
	}

	landing := o.path[len(o.path)-1]
	ring := make([]math3d.Vec2, 0, landingRingSegments+1)
	for i := 0; i <= landingRingSegments; i++ {
		angle := float64(i) * 2 * math.Pi / landingRingSegments
		p := landing.Add(math3d.V3(
			math.Cos(angle)*radius,
			math.Sin(angle)*radius,
			landingRingLift,
		))
		if s, ok := view.WorldToScreen(p); ok {
			ring = append(ring, s)
		}
	}
	if len(ring) > 2 {
		draw.FillPolygon(ring, fill)
		draw.Polyline(ring, outline, arcThickness)
		if center, ok := view.WorldToScreen(landing); ok {
			draw.FillCircle(center, landingDotRadius, outline)
		}
	}
}
