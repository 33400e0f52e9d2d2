package math3d

// RGBA is a normalized color, components in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Shade scales the color channels by s, leaving alpha untouched.
func (c RGBA) Shade(s float64) RGBA {
	return RGBA{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A}
}

// Opaque returns the color with full alpha.
func (c RGBA) Opaque() RGBA {
	c.A = 1
	return c
}
