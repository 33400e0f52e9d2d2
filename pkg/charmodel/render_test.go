package charmodel

import (
	"math"
	"testing"

	"go.uber.org/zap"

	"nadecast/pkg/math3d"
)

// flatProjector maps world X/Y straight to screen and looks down +Z from
// far away, so every up-facing triangle is front-facing.
type flatProjector struct {
	cam math3d.Vec3
}

func (p flatProjector) WorldToScreen(v math3d.Vec3) (math3d.Vec2, bool) {
	return math3d.V2(v.X, v.Y), true
}

func (p flatProjector) CameraPosition() math3d.Vec3 { return p.cam }

type recordingSurface struct {
	tris   [][3]math3d.Vec2
	colors []math3d.RGBA
}

func (s *recordingSurface) FillTriangle(p0, p1, p2 math3d.Vec2, c math3d.RGBA) {
	s.tris = append(s.tris, [3]math3d.Vec2{p0, p1, p2})
	s.colors = append(s.colors, c)
}

// testModel builds a model around an already-parsed mesh.
func testModel(mesh *SkinnedMesh) *CharacterModel {
	return &CharacterModel{
		mesh:          mesh,
		lg:            zap.NewNop(),
		missingLogged: make(map[string]struct{}),
	}
}

// twoTriangleMesh has one triangle at z=0 and one at z=10, both facing +Z,
// weighted to a single pelvis joint.
func twoTriangleMesh() *SkinnedMesh {
	vertex := func(x, y, z float64) SkinnedVertex {
		return SkinnedVertex{
			Position: math3d.V3(x, y, z),
			Joints:   [4]uint16{0, 0, 0, 0},
			Weights:  [4]float64{1, 0, 0, 0},
		}
	}
	return &SkinnedMesh{
		Vertices: []SkinnedVertex{
			vertex(0, 0, 0), vertex(10, 0, 0), vertex(0, 10, 0),
			vertex(20, 0, 10), vertex(30, 0, 10), vertex(20, 10, 10),
		},
		Indices:     []uint32{0, 1, 2, 3, 4, 5},
		JointNames:  map[int]string{0: BonePelvis},
		InverseBind: []math3d.Mat4{math3d.Identity()},
	}
}

func TestRenderPainterOrder(t *testing.T) {
	model := testModel(twoTriangleMesh())
	surface := &recordingSurface{}
	proj := flatProjector{cam: math3d.V3(0, 0, 100)}

	bones := map[string]math3d.Mat4{BonePelvis: math3d.Identity()}
	_, _, ok := model.Render(surface, proj, bones, math3d.RGBA{R: 1, A: 1})
	if !ok {
		t.Fatal("nothing drawn")
	}
	if len(surface.tris) != 2 {
		t.Fatalf("drew %d triangles, want 2", len(surface.tris))
	}

	// The z=0 triangle is farther from the camera at z=100, so it must be
	// drawn first.
	if surface.tris[0][0] != math3d.V2(0, 0) {
		t.Errorf("first drawn triangle starts at %v, want the farther one at (0,0)", surface.tris[0][0])
	}
	if surface.tris[1][0] != math3d.V2(20, 0) {
		t.Errorf("second drawn triangle starts at %v, want the nearer one at (20,0)", surface.tris[1][0])
	}
}

func TestRenderBackfaceCull(t *testing.T) {
	mesh := twoTriangleMesh()
	// Reverse the second triangle's winding so it faces away.
	mesh.Indices[3], mesh.Indices[4] = mesh.Indices[4], mesh.Indices[3]

	model := testModel(mesh)
	surface := &recordingSurface{}
	proj := flatProjector{cam: math3d.V3(0, 0, 100)}
	bones := map[string]math3d.Mat4{BonePelvis: math3d.Identity()}

	if _, _, ok := model.Render(surface, proj, bones, math3d.RGBA{R: 1, A: 1}); !ok {
		t.Fatal("nothing drawn")
	}
	if len(surface.tris) != 1 {
		t.Fatalf("drew %d triangles, want 1 after culling", len(surface.tris))
	}
}

func TestRenderBoneTransformMovesVertices(t *testing.T) {
	model := testModel(twoTriangleMesh())
	surface := &recordingSurface{}
	proj := flatProjector{cam: math3d.V3(0, 0, 100)}

	bones := map[string]math3d.Mat4{
		BonePelvis: math3d.Translate(math3d.V3(100, 50, 0)),
	}
	minPt, maxPt, ok := model.Render(surface, proj, bones, math3d.RGBA{R: 1, A: 1})
	if !ok {
		t.Fatal("nothing drawn")
	}
	if minPt.X < 100 || minPt.Y < 50 {
		t.Errorf("bounds min = %v, want translated past (100, 50)", minPt)
	}
	if maxPt.X <= minPt.X || maxPt.Y <= minPt.Y {
		t.Errorf("degenerate bounds %v..%v", minPt, maxPt)
	}
}

func TestRenderMissingBoneFallsBack(t *testing.T) {
	mesh := twoTriangleMesh()
	mesh.JointNames[0] = BoneHead // not provided below

	model := testModel(mesh)
	surface := &recordingSurface{}
	proj := flatProjector{cam: math3d.V3(0, 0, 100)}

	// Only the pelvis is known; the head-bound joint must fall back to it
	// rather than collapsing to the origin.
	bones := map[string]math3d.Mat4{
		BonePelvis: math3d.Translate(math3d.V3(500, 0, 0)),
	}
	minPt, _, ok := model.Render(surface, proj, bones, math3d.RGBA{R: 1, A: 1})
	if !ok {
		t.Fatal("nothing drawn")
	}
	if minPt.X < 500 {
		t.Errorf("bounds min X = %v, want fallback translation applied", minPt.X)
	}
	for _, tri := range surface.tris {
		for _, p := range tri {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) {
				t.Fatal("non-finite screen position")
			}
		}
	}

	// The miss is logged once, not per joint per frame.
	model.Render(surface, proj, bones, math3d.RGBA{R: 1, A: 1})
	if _, seen := model.missingLogged[BoneHead]; !seen {
		t.Error("missing bone not recorded")
	}
	if len(model.missingLogged) != 1 {
		t.Errorf("recorded %d missing bones, want 1", len(model.missingLogged))
	}
}

func TestRenderZeroWeightsUseIdentity(t *testing.T) {
	mesh := twoTriangleMesh()
	for i := range mesh.Vertices {
		mesh.Vertices[i].Weights = [4]float64{}
	}

	model := testModel(mesh)
	surface := &recordingSurface{}
	proj := flatProjector{cam: math3d.V3(0, 0, 100)}
	bones := map[string]math3d.Mat4{
		BonePelvis: math3d.Translate(math3d.V3(100, 100, 100)),
	}

	minPt, _, ok := model.Render(surface, proj, bones, math3d.RGBA{R: 1, A: 1})
	if !ok {
		t.Fatal("nothing drawn")
	}
	// Unweighted vertices stay in model space, untouched by the bone.
	if minPt.X != 0 || minPt.Y != 0 {
		t.Errorf("bounds min = %v, want origin", minPt)
	}
}

func TestRenderShading(t *testing.T) {
	model := testModel(twoTriangleMesh())
	surface := &recordingSurface{}
	proj := flatProjector{cam: math3d.V3(0, 0, 100)}
	bones := map[string]math3d.Mat4{BonePelvis: math3d.Identity()}

	base := math3d.RGBA{R: 1, G: 0.5, B: 0.25, A: 0.8}
	if _, _, ok := model.Render(surface, proj, bones, base); !ok {
		t.Fatal("nothing drawn")
	}
	for _, c := range surface.colors {
		if c.A != base.A {
			t.Errorf("alpha changed to %v", c.A)
		}
		if c.R < 0.3*base.R || c.R > base.R {
			t.Errorf("shaded red %v outside [0.3, 1]×base", c.R)
		}
	}
}
