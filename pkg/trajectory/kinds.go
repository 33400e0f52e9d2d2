// Package trajectory simulates grenade flight paths against the level's
// collision mesh at the game's fixed tick rate.
package trajectory

import "nadecast/pkg/math3d"

// Kind identifies the grenade type in flight. It selects the detonation
// timer and the landing visuals.
type Kind int

const (
	Smoke Kind = iota
	Molotov
	HE
	Flash
	Decoy
	Unknown
)

func (k Kind) String() string {
	switch k {
	case Smoke:
		return "smoke"
	case Molotov:
		return "molotov"
	case HE:
		return "he"
	case Flash:
		return "flash"
	case Decoy:
		return "decoy"
	default:
		return "unknown"
	}
}

// DetonationTime returns the fuse time in seconds, if the kind detonates on
// a timer. Molotov's value is its maximum air time rather than a fuse.
func (k Kind) DetonationTime() (float64, bool) {
	switch k {
	case HE, Flash:
		return 1.1, true
	case Molotov:
		return 3.5, true
	default:
		return 0, false
	}
}

// Visuals returns the fill color and landing ring radius (in game units)
// used when drawing the predicted impact.
func (k Kind) Visuals() (math3d.RGBA, float64) {
	switch k {
	case Smoke:
		return math3d.RGBA{R: 0.5, G: 0.5, B: 0.6, A: 0.4}, 144
	case Molotov:
		return math3d.RGBA{R: 1.0, G: 0.3, B: 0.0, A: 0.4}, 150
	case HE:
		return math3d.RGBA{R: 1.0, G: 0.1, B: 0.1, A: 0.4}, 144
	case Flash:
		return math3d.RGBA{R: 1.0, G: 1.0, B: 1.0, A: 0.6}, 30
	case Decoy:
		return math3d.RGBA{R: 0.2, G: 1.0, B: 0.2, A: 0.6}, 15
	default:
		return math3d.RGBA{R: 1.0, G: 1.0, B: 1.0, A: 0.4}, 10
	}
}

// StrengthFromTriggers maps the attack buttons to throw strength: primary
// alone is a full throw, secondary alone an underhand toss, both together a
// medium lob. Neither pressed means no throw is charging.
func StrengthFromTriggers(primary, secondary bool) (float64, bool) {
	switch {
	case primary && secondary:
		return 0.7, true
	case secondary:
		return 0.39, true
	case primary:
		return 1.0, true
	default:
		return 0, false
	}
}
