package mapmesh

import (
	"math"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"nadecast/pkg/assets"
	"nadecast/pkg/math3d"
)

// The asset convention is glTF (right-handed, Y-up, meters); game space is
// right-handed, Z-up, inches. Points map as (x,y,z) -> (z,x,y) scaled.
const metersToInches = 39.3700787

func toGameSpace(p math3d.Vec3) math3d.Vec3 {
	return math3d.V3(p.Z, p.X, p.Y).Scale(metersToInches)
}

// Load reads a GLB level file and builds its collision BVH. Texture and
// image references in the container are ignored entirely; only geometry can
// fail the load.
func Load(filename string, lg *zap.Logger) (*MapMesh, error) {
	if lg == nil {
		lg = zap.NewNop()
	}

	doc, err := assets.Open(filename, lg)
	if err != nil {
		return nil, err
	}

	tris, err := TrianglesFromDocument(doc)
	if err != nil {
		return nil, err
	}
	if len(tris) == 0 {
		lg.Warn("map contains no triangles", zap.String("file", filename))
		return &MapMesh{}, nil
	}

	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for i := range tris {
		t := &tris[i]
		minZ = math.Min(minZ, math.Min(t.V0.Z, math.Min(t.V1.Z, t.V2.Z)))
		maxZ = math.Max(maxZ, math.Max(t.V0.Z, math.Max(t.V1.Z, t.V2.Z)))
	}

	m := Build(tris)
	lg.Info("map collision mesh built",
		zap.String("file", filename),
		zap.Int("triangles", m.TriangleCount()),
		zap.Int("bvhNodes", m.NodeCount()),
		zap.Float64("minZ", minZ),
		zap.Float64("maxZ", maxZ),
	)
	return m, nil
}

// TrianglesFromDocument extracts world-space, game-convention triangles
// from the document's first scene, composing node transforms down the
// scene graph.
func TrianglesFromDocument(doc *gltf.Document) ([]Triangle, error) {
	if len(doc.Scenes) == 0 {
		return nil, nil
	}
	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}

	type stackEntry struct {
		node   int
		parent math3d.Mat4
	}
	var stack []stackEntry
	for _, n := range doc.Scenes[sceneIdx].Nodes {
		stack = append(stack, stackEntry{node: n, parent: math3d.Identity()})
	}

	var tris []Triangle
	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if entry.node < 0 || entry.node >= len(doc.Nodes) {
			continue
		}
		n := doc.Nodes[entry.node]
		world := entry.parent.Mul(assets.NodeTransform(n))

		if n.Mesh != nil && int(*n.Mesh) < len(doc.Meshes) {
			for _, prim := range doc.Meshes[*n.Mesh].Primitives {
				primTris, err := primitiveTriangles(doc, prim, world)
				if err != nil {
					return nil, err
				}
				tris = append(tris, primTris...)
			}
		}

		for _, child := range n.Children {
			stack = append(stack, stackEntry{node: child, parent: world})
		}
	}
	return tris, nil
}

func primitiveTriangles(doc *gltf.Document, prim *gltf.Primitive, world math3d.Mat4) ([]Triangle, error) {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		return nil, nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}

	positions, err := assets.ReadVec3(doc, int(posIdx))
	if err != nil {
		return nil, err
	}
	if prim.Indices == nil {
		return nil, nil
	}
	indices, err := assets.ReadIndices(doc, int(*prim.Indices))
	if err != nil {
		return nil, err
	}

	tris := make([]Triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		if i0 >= len(positions) || i1 >= len(positions) || i2 >= len(positions) {
			continue
		}
		v0 := toGameSpace(world.MulVec3(positions[i0]))
		v1 := toGameSpace(world.MulVec3(positions[i1]))
		v2 := toGameSpace(world.MulVec3(positions[i2]))
		tris = append(tris, NewTriangle(v0, v1, v2))
	}
	return tris, nil
}
