package mapmesh

import (
	"math"
	"testing"

	"nadecast/pkg/math3d"
)

// floorMesh builds a flat square floor at z=0, facing up, spanning
// [-size, size] on both axes.
func floorMesh(size float64) *MapMesh {
	a := math3d.V3(-size, -size, 0)
	b := math3d.V3(size, -size, 0)
	c := math3d.V3(size, size, 0)
	d := math3d.V3(-size, size, 0)
	return Build([]Triangle{
		NewTriangle(a, b, c),
		NewTriangle(a, c, d),
	})
}

func TestCollideRayHitsFloor(t *testing.T) {
	m := floorMesh(100)

	hit, ok := m.Collide(math3d.V3(0, 0, 50), math3d.V3(0, 0, -50), 0)
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(hit.Fraction-0.5) > 1e-9 {
		t.Errorf("fraction = %v, want 0.5", hit.Fraction)
	}
	if hit.Point.Sub(math3d.V3(0, 0, 0)).Len() > 1e-9 {
		t.Errorf("point = %v, want origin", hit.Point)
	}
	if math.Abs(hit.Normal.Z-1) > 1e-9 {
		t.Errorf("normal = %v, want +Z", hit.Normal)
	}
}

func TestCollideIgnoresBackFaces(t *testing.T) {
	m := floorMesh(100)

	// From below, the floor's underside is a back face.
	if _, ok := m.Collide(math3d.V3(0, 0, -50), math3d.V3(0, 0, 50), 0); ok {
		t.Fatal("hit a back face")
	}
}

func TestCollideMissesShortSegment(t *testing.T) {
	m := floorMesh(100)

	if _, ok := m.Collide(math3d.V3(0, 0, 50), math3d.V3(0, 0, 49), 0); ok {
		t.Fatal("hit beyond segment end")
	}
	if _, ok := m.Collide(math3d.V3(0, 0, 5), math3d.V3(0, 0, 5), 0); ok {
		t.Fatal("zero-length segment reported a hit")
	}
}

func TestCollideClosestOfMany(t *testing.T) {
	// Two stacked floors; the ray must report the upper one.
	upper := floorMesh(100).Triangles()
	lower := floorMesh(100)
	var tris []Triangle
	tris = append(tris, upper...)
	for _, tri := range lower.Triangles() {
		tris = append(tris, NewTriangle(
			tri.V0.Add(math3d.V3(0, 0, -20)),
			tri.V1.Add(math3d.V3(0, 0, -20)),
			tri.V2.Add(math3d.V3(0, 0, -20)),
		))
	}
	m := Build(tris)

	hit, ok := m.Collide(math3d.V3(1, 2, 40), math3d.V3(1, 2, -40), 0)
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(hit.Point.Z) > 1e-9 {
		t.Errorf("hit z = %v, want 0 (upper floor)", hit.Point.Z)
	}
}

func TestCollideTinyRadiusMatchesRay(t *testing.T) {
	m := floorMesh(100)
	start := math3d.V3(3, -7, 30)
	end := math3d.V3(3, -7, -30)

	rayHit, rayOK := m.Collide(start, end, 0)
	capHit, capOK := m.Collide(start, end, 1e-4)
	if rayOK != capOK {
		t.Fatalf("ray ok=%v, capsule ok=%v", rayOK, capOK)
	}
	if rayHit != capHit {
		t.Errorf("ray hit %+v, capsule hit %+v", rayHit, capHit)
	}
}

func TestCollideCapsuleWidensQuery(t *testing.T) {
	// A narrow wall just off the central ray's path: the center misses,
	// an offset ray grazes it.
	wall := Build([]Triangle{
		NewTriangle(
			math3d.V3(5, 1.5, -10),
			math3d.V3(5, 1.5, 10),
			math3d.V3(5, 4, 0),
		),
	})

	start := math3d.V3(0, 0, 0)
	end := math3d.V3(10, 0, 0)

	if _, ok := wall.Collide(start, end, 0); ok {
		t.Fatal("central ray should miss the offset wall")
	}
	hit, ok := wall.Collide(start, end, 2.0)
	if !ok {
		t.Fatal("capsule should clip the offset wall")
	}
	// The reported point lies on the central ray.
	if math.Abs(hit.Point.Y) > 1e-9 || math.Abs(hit.Point.Z) > 1e-9 {
		t.Errorf("hit point %v not on central ray", hit.Point)
	}
	if hit.Fraction <= 0 || hit.Fraction > 1 {
		t.Errorf("fraction = %v, want (0, 1]", hit.Fraction)
	}
}

func TestCollideNearVerticalCapsule(t *testing.T) {
	// Near-vertical travel switches the offset basis reference; the
	// query must still land.
	m := floorMesh(100)
	hit, ok := m.Collide(math3d.V3(0, 0, 50), math3d.V3(0.01, 0, -50), 2.0)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Normal.Z < 0.99 {
		t.Errorf("normal = %v, want up", hit.Normal)
	}
}

func TestCollideLargeMesh(t *testing.T) {
	// A grid of floor tiles; rays through tile centers must hit at the
	// right height.
	var tris []Triangle
	for x := -10; x < 10; x++ {
		for y := -10; y < 10; y++ {
			x0, y0 := float64(x)*10, float64(y)*10
			a := math3d.V3(x0, y0, 0)
			b := math3d.V3(x0+10, y0, 0)
			c := math3d.V3(x0+10, y0+10, 0)
			d := math3d.V3(x0, y0+10, 0)
			tris = append(tris, NewTriangle(a, b, c), NewTriangle(a, c, d))
		}
	}
	m := Build(tris)

	for _, probe := range []math3d.Vec3{
		{X: -95, Y: -95}, {X: 0.5, Y: 0.5}, {X: 94, Y: -3}, {X: -41, Y: 77},
	} {
		start := math3d.V3(probe.X, probe.Y, 25)
		end := math3d.V3(probe.X, probe.Y, -25)
		hit, ok := m.Collide(start, end, 0)
		if !ok {
			t.Fatalf("probe %v: no hit", probe)
		}
		if math.Abs(hit.Point.Z) > 1e-9 {
			t.Fatalf("probe %v: hit z = %v", probe, hit.Point.Z)
		}
	}
}
