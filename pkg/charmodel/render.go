package charmodel

import (
	"sort"

	"go.uber.org/zap"

	"nadecast/pkg/math3d"
)

// Projector maps world positions to screen coordinates. A false result
// means the point is behind or outside the view.
type Projector interface {
	WorldToScreen(p math3d.Vec3) (math3d.Vec2, bool)
	CameraPosition() math3d.Vec3
}

// DrawSurface receives the renderer's output triangles, already sorted
// back to front.
type DrawSurface interface {
	FillTriangle(p0, p1, p2 math3d.Vec2, c math3d.RGBA)
}

// lightDir is a fixed directional light from above and slightly to the
// side, normalized at init.
var lightDir = math3d.V3(0.5, 1.0, 0.5).Normalize()

type renderTri struct {
	p0, p1, p2 math3d.Vec2
	distSq     float64
	shade      float64
}

// Render skins the mesh with the given bone transforms (keyed by canonical
// bone name), culls back faces, shades, depth-sorts and emits the visible
// triangles onto the surface. It returns the screen bounding box of what
// was drawn; ok is false when nothing was visible.
//
// Bones present in the rig but absent from the transforms fall back to the
// pelvis (or root, or identity) so their vertices never collapse to the
// origin; each such bone is logged once.
func (m *CharacterModel) Render(
	surface DrawSurface,
	proj Projector,
	boneTransforms map[string]math3d.Mat4,
	color math3d.RGBA,
) (min, max math3d.Vec2, ok bool) {
	mesh := m.mesh

	fallback, haveFallback := boneTransforms[BonePelvis]
	if !haveFallback {
		fallback, haveFallback = boneTransforms["root"]
	}
	if !haveFallback {
		fallback = math3d.Identity()
	}

	jointMatrices := make([]math3d.Mat4, len(mesh.InverseBind))
	for i := range jointMatrices {
		jointMatrices[i] = math3d.Identity()
	}
	for jointIdx, boneName := range mesh.JointNames {
		if jointIdx >= len(jointMatrices) {
			continue
		}
		ibm := math3d.Identity()
		if jointIdx < len(mesh.InverseBind) {
			ibm = mesh.InverseBind[jointIdx]
		}
		if transform, found := boneTransforms[boneName]; found {
			jointMatrices[jointIdx] = transform.Mul(ibm)
		} else {
			m.logMissingBone(boneName)
			jointMatrices[jointIdx] = fallback.Mul(ibm)
		}
	}

	// CPU skinning: blend the joint matrices by weight, then transform.
	positions := make([]math3d.Vec3, len(mesh.Vertices))
	for i := range mesh.Vertices {
		v := &mesh.Vertices[i]
		skin := math3d.ZeroMat4()
		for j := range 4 {
			if v.Weights[j] <= 0 {
				continue
			}
			joint := int(v.Joints[j])
			if joint >= len(jointMatrices) {
				continue
			}
			skin = skin.AddScaled(jointMatrices[joint], v.Weights[j])
		}
		// All-zero weights leave an unusable matrix.
		if skin[15] == 0 {
			skin = math3d.Identity()
		}
		positions[i] = skin.MulVec3(v.Position)
	}

	camPos := proj.CameraPosition()
	tris := make([]renderTri, 0, len(mesh.Indices)/3)
	minPt := math3d.V2(mathMax, mathMax)
	maxPt := math3d.V2(-mathMax, -mathMax)

	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		v0 := positions[mesh.Indices[i]]
		v1 := positions[mesh.Indices[i+1]]
		v2 := positions[mesh.Indices[i+2]]

		normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
		if normal.Dot(v0.Sub(camPos)) >= 0 {
			continue
		}

		shade := normal.Dot(lightDir)
		if shade < 0 {
			shade = 0
		}
		shade = shade*0.7 + 0.3

		s0, ok0 := proj.WorldToScreen(v0)
		s1, ok1 := proj.WorldToScreen(v1)
		s2, ok2 := proj.WorldToScreen(v2)
		if !ok0 || !ok1 || !ok2 {
			continue
		}

		minPt = minPt.Min(s0).Min(s1).Min(s2)
		maxPt = maxPt.Max(s0).Max(s1).Max(s2)

		distSq := (v0.Sub(camPos).LenSq() + v1.Sub(camPos).LenSq() + v2.Sub(camPos).LenSq()) / 3

		tris = append(tris, renderTri{p0: s0, p1: s1, p2: s2, distSq: distSq, shade: shade})
	}

	// Painter's algorithm: farthest first.
	sort.Slice(tris, func(a, b int) bool {
		return tris[a].distSq > tris[b].distSq
	})

	for _, t := range tris {
		surface.FillTriangle(t.p0, t.p1, t.p2, color.Shade(t.shade))
	}

	if minPt.X >= maxPt.X || minPt.Y >= maxPt.Y {
		return math3d.Vec2{}, math3d.Vec2{}, false
	}
	return minPt, maxPt, true
}

const mathMax = 1e30

// logMissingBone warns once per bone name. The lock is only tried so a
// contended render never blocks on logging.
func (m *CharacterModel) logMissingBone(boneName string) {
	if !m.missingMu.TryLock() {
		return
	}
	defer m.missingMu.Unlock()
	if _, seen := m.missingLogged[boneName]; seen {
		return
	}
	m.missingLogged[boneName] = struct{}{}
	m.lg.Warn("model bone not found in game bone data", zap.String("bone", boneName))
}
