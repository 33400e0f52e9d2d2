package mapmesh

import (
	"math"

	"nadecast/pkg/math3d"
)

// Hit describes the closest surface struck along a query segment.
type Hit struct {
	// Fraction of the segment length at which the hit occurred, in (0, 1].
	Fraction float64
	// Point is the world-space hit position on the central ray.
	Point math3d.Vec3
	// Normal is the struck triangle's face normal.
	Normal math3d.Vec3
}

const (
	// Möller–Trumbore epsilon.
	rayEpsilon = 1e-7
	// Segments shorter than this report no hit.
	minSegment = 1e-4
	// Radii at or below this collapse to a single ray.
	minRadius = 1e-3
	// Traversal stack depth; a median-split BVH over millions of
	// triangles stays far below this.
	maxStackDepth = 64
)

// Collide reports the first surface hit between start and end. A positive
// radius approximates a capsule sweep with five parallel rays: the center
// plus four offset by the radius along two basis vectors orthogonal to the
// travel direction. The closest hit among the five is reported, with the
// hit point re-projected onto the central ray.
func (m *MapMesh) Collide(start, end math3d.Vec3, radius float64) (Hit, bool) {
	if radius <= minRadius {
		return m.collideRay(start, end)
	}

	dir := end.Sub(start)
	length := dir.Len()
	if length < minSegment {
		return Hit{}, false
	}
	dirNorm := dir.Div(length)

	// World up as the basis reference, unless the ray is near-vertical.
	upRef := math3d.UnitZ()
	if math.Abs(dirNorm.Z) >= 0.99 {
		upRef = math3d.UnitX()
	}
	right := dirNorm.Cross(upRef).Normalize()
	up := right.Cross(dirNorm).Normalize()

	offsets := [5]math3d.Vec3{
		{},
		right.Scale(radius),
		right.Scale(-radius),
		up.Scale(radius),
		up.Scale(-radius),
	}

	var closest Hit
	found := false
	minFraction := 1.0
	for _, offset := range offsets {
		hit, ok := m.collideRay(start.Add(offset), end.Add(offset))
		if ok && hit.Fraction < minFraction {
			minFraction = hit.Fraction
			closest = Hit{
				Fraction: hit.Fraction,
				Point:    start.Add(dirNorm.Scale(length * hit.Fraction)),
				Normal:   hit.Normal,
			}
			found = true
		}
	}
	return closest, found
}

// collideRay walks the flattened BVH iteratively with an explicit stack,
// pruning nodes whose box lies beyond the closest hit so far. Leaf
// triangles are tested with Möller–Trumbore; back faces never hit.
func (m *MapMesh) collideRay(start, end math3d.Vec3) (Hit, bool) {
	if len(m.nodes) == 0 {
		return Hit{}, false
	}

	dir := end.Sub(start)
	length := dir.Len()
	if length < minSegment {
		return Hit{}, false
	}
	dirNorm := dir.Div(length)
	invDir := math3d.V3(1/dirNorm.X, 1/dirNorm.Y, 1/dirNorm.Z)

	var hit Hit
	found := false
	closestDist := length

	var stack [maxStackDepth]uint32
	stackPtr := 1 // root pre-pushed at stack[0]

	for stackPtr > 0 {
		stackPtr--
		nodeIdx := stack[stackPtr]
		n := &m.nodes[nodeIdx]

		if !n.Bounds.intersectRay(start, invDir, closestDist) {
			continue
		}

		if n.Count > 0 {
			first := int(n.Offset)
			for i := first; i < first+int(n.Count); i++ {
				tri := &m.triangles[i]
				if dirNorm.Dot(tri.Normal) > 0 {
					continue
				}

				e1 := tri.V1.Sub(tri.V0)
				e2 := tri.V2.Sub(tri.V0)
				h := dirNorm.Cross(e2)
				a := e1.Dot(h)
				if a > -rayEpsilon && a < rayEpsilon {
					continue
				}

				f := 1 / a
				s := start.Sub(tri.V0)
				u := f * s.Dot(h)
				if u < 0 || u > 1 {
					continue
				}

				q := s.Cross(e1)
				v := f * dirNorm.Dot(q)
				if v < 0 || u+v > 1 {
					continue
				}

				t := f * e2.Dot(q)
				if t > rayEpsilon && t < closestDist {
					closestDist = t
					hit = Hit{
						Fraction: t / length,
						Point:    start.Add(dirNorm.Scale(t)),
						Normal:   tri.Normal,
					}
					found = true
				}
			}
		} else if stackPtr < maxStackDepth-1 {
			// Right child first so the left (next slot) pops first.
			stack[stackPtr] = n.Offset
			stack[stackPtr+1] = nodeIdx + 1
			stackPtr += 2
		}
	}

	return hit, found
}
