// Package overlay projects world-space game state onto a 2D surface: the
// predicted grenade arc with its landing marker, and opposing players as
// shaded models or line skeletons.
package overlay

import "nadecast/pkg/math3d"

// DrawList receives 2D primitives in screen coordinates. Implementations
// draw in call order; painter-style layering is the caller's job.
type DrawList interface {
	Line(a, b math3d.Vec2, c math3d.RGBA, thickness float64)
	Polyline(points []math3d.Vec2, c math3d.RGBA, thickness float64)
	FillPolygon(points []math3d.Vec2, c math3d.RGBA)
	FillTriangle(p0, p1, p2 math3d.Vec2, c math3d.RGBA)
	FillCircle(center math3d.Vec2, radius float64, c math3d.RGBA)
}

// Op is one recorded draw call.
type Op struct {
	Kind   string
	Points []math3d.Vec2
	Radius float64
	Color  math3d.RGBA
}

// Recorder is a DrawList that records calls instead of drawing, for tests.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) Line(a, b math3d.Vec2, c math3d.RGBA, thickness float64) {
	r.Ops = append(r.Ops, Op{Kind: "line", Points: []math3d.Vec2{a, b}, Color: c})
}

func (r *Recorder) Polyline(points []math3d.Vec2, c math3d.RGBA, thickness float64) {
	r.Ops = append(r.Ops, Op{Kind: "polyline", Points: append([]math3d.Vec2(nil), points...), Color: c})
}

func (r *Recorder) FillPolygon(points []math3d.Vec2, c math3d.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "fillpolygon", Points: append([]math3d.Vec2(nil), points...), Color: c})
}

func (r *Recorder) FillTriangle(p0, p1, p2 math3d.Vec2, c math3d.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "filltriangle", Points: []math3d.Vec2{p0, p1, p2}, Color: c})
}

func (r *Recorder) FillCircle(center math3d.Vec2, radius float64, c math3d.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: "fillcircle", Points: []math3d.Vec2{center}, Radius: radius, Color: c})
}

// CountKind returns how many recorded ops have the given kind.
func (r *Recorder) CountKind(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
