// Package charmodel loads skinned character meshes from GLB files and
// renders them with CPU skinning driven by game bone transforms.
package charmodel

import (
	"fmt"
	"sync"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"nadecast/pkg/assets"
	"nadecast/pkg/math3d"
)

// SkinnedVertex is one mesh vertex with its skinning data: up to four
// joint influences with normalized weights.
type SkinnedVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Joints   [4]uint16
	Weights  [4]float64
}

// SkinnedMesh is the immutable, shareable part of a character model: the
// vertex and index arrays plus the skeleton binding. JointNames maps joint
// index to the canonical bone name; JointParents maps joint index to its
// parent joint index.
type SkinnedMesh struct {
	Vertices     []SkinnedVertex
	Indices      []uint32
	JointNames   map[int]string
	JointParents map[int]int
	InverseBind  []math3d.Mat4
}

// CharacterModel wraps a shared mesh with per-model render bookkeeping.
// Safe to render from a single goroutine; the missing-bone set tolerates
// concurrent renders by skipping the log when contended.
type CharacterModel struct {
	mesh *SkinnedMesh
	lg   *zap.Logger

	missingMu     sync.Mutex
	missingLogged map[string]struct{}
}

// Mesh returns the shared mesh data.
func (m *CharacterModel) Mesh() *SkinnedMesh {
	return m.mesh
}

// Load reads a skinned GLB model. The file must carry at least one skin
// and every primitive must have positions, joints and weights; normals are
// optional and default to zero.
func Load(filename string, lg *zap.Logger) (*CharacterModel, error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	doc, err := assets.Open(filename, lg)
	if err != nil {
		return nil, err
	}
	mesh, err := MeshFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("load character model %s: %w", filename, err)
	}
	lg.Info("character model loaded",
		zap.String("file", filename),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", len(mesh.Indices)/3),
		zap.Int("joints", len(mesh.JointNames)),
	)
	return &CharacterModel{
		mesh:          mesh,
		lg:            lg,
		missingLogged: make(map[string]struct{}),
	}, nil
}

// MeshFromDocument extracts the skinned mesh and skeleton binding from a
// decoded document.
func MeshFromDocument(doc *gltf.Document) (*SkinnedMesh, error) {
	if len(doc.Skins) == 0 {
		return nil, fmt.Errorf("model has no skin")
	}
	skin := doc.Skins[0]

	mesh := &SkinnedMesh{
		JointNames:   make(map[int]string),
		JointParents: make(map[int]int),
	}

	if skin.InverseBindMatrices != nil {
		ibms, err := assets.ReadMat4(doc, int(*skin.InverseBindMatrices))
		if err != nil {
			return nil, fmt.Errorf("inverse bind matrices: %w", err)
		}
		mesh.InverseBind = ibms
	}

	// Joint names normalized onto the canonical skeleton, parents wired
	// through the scene graph.
	nodeToJoint := make(map[int]int, len(skin.Joints))
	for jointIdx, nodeIdx := range skin.Joints {
		if int(nodeIdx) >= len(doc.Nodes) {
			continue
		}
		nodeToJoint[int(nodeIdx)] = jointIdx
		if name := doc.Nodes[nodeIdx].Name; name != "" {
			mesh.JointNames[jointIdx] = NormalizeBoneName(name)
		}
	}
	for jointIdx, nodeIdx := range skin.Joints {
		if int(nodeIdx) >= len(doc.Nodes) {
			continue
		}
		for _, child := range doc.Nodes[nodeIdx].Children {
			if childJoint, ok := nodeToJoint[int(child)]; ok {
				mesh.JointParents[childJoint] = jointIdx
			}
		}
	}

	for _, n := range doc.Nodes {
		if n.Mesh == nil || int(*n.Mesh) >= len(doc.Meshes) {
			continue
		}
		for _, prim := range doc.Meshes[*n.Mesh].Primitives {
			if err := appendPrimitive(doc, prim, mesh); err != nil {
				return nil, err
			}
		}
	}

	if len(mesh.Vertices) == 0 {
		return nil, fmt.Errorf("model has no skinned geometry")
	}
	return mesh, nil
}

func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *SkinnedMesh) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return fmt.Errorf("primitive has no positions")
	}
	jointsIdx, ok := prim.Attributes[gltf.JOINTS_0]
	if !ok {
		return fmt.Errorf("primitive has no joints")
	}
	weightsIdx, ok := prim.Attributes[gltf.WEIGHTS_0]
	if !ok {
		return fmt.Errorf("primitive has no weights")
	}

	positions, err := assets.ReadVec3(doc, int(posIdx))
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}
	joints, err := assets.ReadJoints(doc, int(jointsIdx))
	if err != nil {
		return fmt.Errorf("joints: %w", err)
	}
	weights, err := assets.ReadWeights(doc, int(weightsIdx))
	if err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if len(joints) < len(positions) || len(weights) < len(positions) {
		return fmt.Errorf("skinning attributes shorter than positions")
	}

	var normals []math3d.Vec3
	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = assets.ReadVec3(doc, int(normIdx))
		if err != nil {
			return fmt.Errorf("normals: %w", err)
		}
	}

	base := uint32(len(mesh.Vertices))
	for i := range positions {
		v := SkinnedVertex{
			Position: positions[i],
			Joints:   joints[i],
			Weights:  weights[i],
		}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	if prim.Indices != nil {
		indices, err := assets.ReadIndices(doc, int(*prim.Indices))
		if err != nil {
			return fmt.Errorf("indices: %w", err)
		}
		for _, idx := range indices {
			if int(idx) >= len(positions) {
				return fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
			}
			mesh.Indices = append(mesh.Indices, base+idx)
		}
	}
	return nil
}
