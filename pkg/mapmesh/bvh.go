// Package mapmesh loads static level geometry from GLB containers and
// answers ray and capsule collision queries against it through a linear
// bounding volume hierarchy.
package mapmesh

import (
	"math"

	"nadecast/pkg/math3d"
)

// Triangle is one face of the collision mesh: world-space vertices, the
// outward face normal derived from winding order, and the centroid used for
// BVH splits. Immutable after construction.
type Triangle struct {
	V0, V1, V2 math3d.Vec3
	Normal     math3d.Vec3
	Center     math3d.Vec3
}

// NewTriangle builds a triangle, computing its normal and centroid.
func NewTriangle(v0, v1, v2 math3d.Vec3) Triangle {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	return Triangle{
		V0:     v0,
		V1:     v1,
		V2:     v2,
		Normal: e1.Cross(e2).Normalize(),
		Center: v0.Add(v1).Add(v2).Div(3),
	}
}

// AABB is an axis-aligned bounding box. The empty box uses infinity
// sentinels and must be expanded before being queried.
type AABB struct {
	Min, Max math3d.Vec3
}

func emptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: math3d.V3(inf, inf, inf),
		Max: math3d.V3(-inf, -inf, -inf),
	}
}

// Expand grows the box to contain p.
func (b *AABB) Expand(p math3d.Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Contains reports whether other lies fully inside b.
func (b AABB) Contains(other AABB) bool {
	return b.Min.X <= other.Min.X && b.Min.Y <= other.Min.Y && b.Min.Z <= other.Min.Z &&
		b.Max.X >= other.Max.X && b.Max.Y >= other.Max.Y && b.Max.Z >= other.Max.Z
}

// intersectRay is the slab test: whether the ray from origin with the given
// inverse direction enters the box within [0, tMax].
func (b AABB) intersectRay(origin, invDir math3d.Vec3, tMax float64) bool {
	tx1 := (b.Min.X - origin.X) * invDir.X
	tx2 := (b.Max.X - origin.X) * invDir.X
	tmin := math.Min(tx1, tx2)
	tmax := math.Max(tx1, tx2)

	ty1 := (b.Min.Y - origin.Y) * invDir.Y
	ty2 := (b.Max.Y - origin.Y) * invDir.Y
	tmin = math.Max(tmin, math.Min(ty1, ty2))
	tmax = math.Min(tmax, math.Max(ty1, ty2))

	tz1 := (b.Min.Z - origin.Z) * invDir.Z
	tz2 := (b.Max.Z - origin.Z) * invDir.Z
	tmin = math.Max(tmin, math.Min(tz1, tz2))
	tmax = math.Min(tmax, math.Max(tz1, tz2))

	return tmax >= tmin && tmax >= 0 && tmin <= tMax
}

// node is one slot of the flattened BVH. Count > 0 marks a leaf whose
// triangles start at Offset in the reordered triangle array. Count == 0
// marks a branch whose right child index is Offset; the left child is
// always the next slot.
type node struct {
	Bounds AABB
	Offset uint32
	Count  uint16
}

// Leaves hold at most this many triangles.
const maxLeafSize = 8

// MapMesh owns the reordered triangle array and the flattened node array
// for one loaded level. Immutable once built; a level change builds a new
// mesh wholesale.
type MapMesh struct {
	triangles []Triangle
	nodes     []node
}

// Build constructs the BVH over the given triangles. The input slice is not
// retained; triangles are reordered so every leaf's span is contiguous.
// Zero triangles yields an empty mesh that reports no hits.
func Build(tris []Triangle) *MapMesh {
	if len(tris) == 0 {
		return &MapMesh{}
	}

	indices := make([]int, len(tris))
	for i := range indices {
		indices[i] = i
	}
	root := buildNode(tris, indices)

	m := &MapMesh{
		triangles: make([]Triangle, 0, len(tris)),
		nodes:     make([]node, 0, 2*len(tris)/maxLeafSize+1),
	}
	m.flatten(root, tris)
	return m
}

// TriangleCount returns the number of triangles in the mesh.
func (m *MapMesh) TriangleCount() int {
	return len(m.triangles)
}

// NodeCount returns the number of BVH nodes.
func (m *MapMesh) NodeCount() int {
	return len(m.nodes)
}

// Triangles exposes the reordered triangle array. Callers must not modify
// it.
func (m *MapMesh) Triangles() []Triangle {
	return m.triangles
}

// buildTree is the temporary recursive structure used only during
// construction; it is discarded after flattening.
type buildTree struct {
	bounds      AABB
	left, right *buildTree
	tris        []int
}

func buildNode(tris []Triangle, indices []int) *buildTree {
	bounds := emptyAABB()
	for _, idx := range indices {
		t := &tris[idx]
		bounds.Expand(t.V0)
		bounds.Expand(t.V1)
		bounds.Expand(t.V2)
	}

	if len(indices) <= maxLeafSize {
		return &buildTree{bounds: bounds, tris: indices}
	}

	// Split on the widest axis, ties toward the earlier axis.
	extent := bounds.Max.Sub(bounds.Min)
	axis := 2
	if extent.X > extent.Y && extent.X > extent.Z {
		axis = 0
	} else if extent.Y > extent.Z {
		axis = 1
	}

	mid := len(indices) / 2
	selectNth(indices, mid, func(a, b int) bool {
		return tris[a].Center.Component(axis) < tris[b].Center.Component(axis)
	})

	return &buildTree{
		bounds: bounds,
		left:   buildNode(tris, indices[:mid]),
		right:  buildNode(tris, indices[mid:]),
	}
}

// flatten emits the tree depth-first, pre-order: a branch is immediately
// followed by its whole left subtree, so the left child index is implicit
// and only the right child index is stored.
func (m *MapMesh) flatten(t *buildTree, tris []Triangle) uint32 {
	idx := uint32(len(m.nodes))
	m.nodes = append(m.nodes, node{Bounds: t.bounds})

	if t.left != nil {
		m.flatten(t.left, tris)
		right := m.flatten(t.right, tris)
		m.nodes[idx].Offset = right
		return idx
	}

	m.nodes[idx].Offset = uint32(len(m.triangles))
	m.nodes[idx].Count = uint16(len(t.tris))
	for _, triIdx := range t.tris {
		m.triangles = append(m.triangles, tris[triIdx])
	}
	return idx
}

// selectNth partially sorts indices so that indices[n] holds the element
// that would be there after a full sort, with smaller elements before it.
// Quickselect with median-of-three pivoting; cheaper than sorting every
// split level.
func selectNth(s []int, n int, less func(a, b int) bool) {
	lo, hi := 0, len(s)-1
	for lo < hi {
		// Median of three to dodge sorted-input degeneracy.
		mid := (lo + hi) / 2
		if less(s[mid], s[lo]) {
			s[mid], s[lo] = s[lo], s[mid]
		}
		if less(s[hi], s[lo]) {
			s[hi], s[lo] = s[lo], s[hi]
		}
		if less(s[hi], s[mid]) {
			s[hi], s[mid] = s[mid], s[hi]
		}
		pivot := s[mid]

		i, j := lo, hi
		for i <= j {
			for less(s[i], pivot) {
				i++
			}
			for less(pivot, s[j]) {
				j--
			}
			if i <= j {
				s[i], s[j] = s[j], s[i]
				i++
				j--
			}
		}

		switch {
		case n <= j:
			hi = j
		case n >= i:
			lo = i
		default:
			return
		}
	}
}
