package assets

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"

	"nadecast/pkg/math3d"
)

// accessor resolves an accessor index. Documents decode fine with dangling
// accessor references, so every reader bounds-checks before indexing.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range (document has %d)", idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}

// accessorData returns the raw bytes backing an accessor together with the
// byte stride between elements. Only embedded (GLB) buffers are supported;
// an external URI buffer is a hard load failure.
func accessorData(doc *gltf.Document, a *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if a.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	if int(*a.BufferView) >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("buffer view %d out of range", *a.BufferView)
	}
	bv := doc.BufferViews[*a.BufferView]
	if int(bv.Buffer) >= len(doc.Buffers) {
		return nil, 0, fmt.Errorf("buffer %d out of range", bv.Buffer)
	}
	buf := doc.Buffers[bv.Buffer]
	if buf.URI != "" && buf.Data == nil {
		return nil, 0, fmt.Errorf("external buffer %q not loaded", buf.URI)
	}
	if buf.Data == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	stride := int(bv.ByteStride)
	if stride == 0 {
		stride = elemSize
	}
	start := int(bv.ByteOffset) + int(a.ByteOffset)
	need := start + (int(a.Count)-1)*stride + elemSize
	if a.Count == 0 {
		need = start
	}
	if need > len(buf.Data) {
		return nil, 0, fmt.Errorf("accessor spans %d bytes, buffer has %d", need, len(buf.Data))
	}
	return buf.Data[start:], stride, nil
}

func f32At(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}

// ReadVec3 reads a float VEC3 accessor.
func ReadVec3(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	a, err := accessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if a.Type != gltf.AccessorVec3 || a.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v/%v", a.Type, a.ComponentType)
	}
	data, stride, err := accessorData(doc, a, 12)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec3, a.Count)
	for i := range out {
		p := data[i*stride:]
		out[i] = math3d.V3(f32At(p), f32At(p[4:]), f32At(p[8:]))
	}
	return out, nil
}

// ReadMat4 reads a float MAT4 accessor (column-major, as stored).
func ReadMat4(doc *gltf.Document, accessorIdx int) ([]math3d.Mat4, error) {
	a, err := accessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if a.Type != gltf.AccessorMat4 || a.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float MAT4, got %v/%v", a.Type, a.ComponentType)
	}
	data, stride, err := accessorData(doc, a, 64)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Mat4, a.Count)
	for i := range out {
		p := data[i*stride:]
		var m math3d.Mat4
		for j := range 16 {
			m[j] = f32At(p[j*4:])
		}
		out[i] = m
	}
	return out, nil
}

// ReadJoints reads a VEC4 joint-index accessor (unsigned byte or short).
func ReadJoints(doc *gltf.Document, accessorIdx int) ([][4]uint16, error) {
	a, err := accessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if a.Type != gltf.AccessorVec4 {
		return nil, fmt.Errorf("expected VEC4 joints, got %v", a.Type)
	}

	switch a.ComponentType {
	case gltf.ComponentUbyte:
		data, stride, err := accessorData(doc, a, 4)
		if err != nil {
			return nil, err
		}
		out := make([][4]uint16, a.Count)
		for i := range out {
			p := data[i*stride:]
			out[i] = [4]uint16{uint16(p[0]), uint16(p[1]), uint16(p[2]), uint16(p[3])}
		}
		return out, nil
	case gltf.ComponentUshort:
		data, stride, err := accessorData(doc, a, 8)
		if err != nil {
			return nil, err
		}
		out := make([][4]uint16, a.Count)
		for i := range out {
			p := data[i*stride:]
			for j := range 4 {
				out[i][j] = binary.LittleEndian.Uint16(p[j*2:])
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported joint component type: %v", a.ComponentType)
	}
}

// ReadWeights reads a VEC4 blend-weight accessor (float, or normalized
// unsigned byte/short).
func ReadWeights(doc *gltf.Document, accessorIdx int) ([][4]float64, error) {
	a, err := accessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if a.Type != gltf.AccessorVec4 {
		return nil, fmt.Errorf("expected VEC4 weights, got %v", a.Type)
	}

	switch a.ComponentType {
	case gltf.ComponentFloat:
		data, stride, err := accessorData(doc, a, 16)
		if err != nil {
			return nil, err
		}
		out := make([][4]float64, a.Count)
		for i := range out {
			p := data[i*stride:]
			for j := range 4 {
				out[i][j] = f32At(p[j*4:])
			}
		}
		return out, nil
	case gltf.ComponentUbyte:
		data, stride, err := accessorData(doc, a, 4)
		if err != nil {
			return nil, err
		}
		out := make([][4]float64, a.Count)
		for i := range out {
			p := data[i*stride:]
			for j := range 4 {
				out[i][j] = float64(p[j]) / 255.0
			}
		}
		return out, nil
	case gltf.ComponentUshort:
		data, stride, err := accessorData(doc, a, 8)
		if err != nil {
			return nil, err
		}
		out := make([][4]float64, a.Count)
		for i := range out {
			p := data[i*stride:]
			for j := range 4 {
				out[i][j] = float64(binary.LittleEndian.Uint16(p[j*2:])) / 65535.0
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported weight component type: %v", a.ComponentType)
	}
}

// ReadIndices reads a SCALAR index accessor (unsigned byte, short or int).
func ReadIndices(doc *gltf.Document, accessorIdx int) ([]uint32, error) {
	a, err := accessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if a.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", a.Type)
	}

	switch a.ComponentType {
	case gltf.ComponentUbyte:
		data, stride, err := accessorData(doc, a, 1)
		if err != nil {
			return nil, err
		}
		out := make([]uint32, a.Count)
		for i := range out {
			out[i] = uint32(data[i*stride])
		}
		return out, nil
	case gltf.ComponentUshort:
		data, stride, err := accessorData(doc, a, 2)
		if err != nil {
			return nil, err
		}
		out := make([]uint32, a.Count)
		for i := range out {
			out[i] = uint32(binary.LittleEndian.Uint16(data[i*stride:]))
		}
		return out, nil
	case gltf.ComponentUint:
		data, stride, err := accessorData(doc, a, 4)
		if err != nil {
			return nil, err
		}
		out := make([]uint32, a.Count)
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(data[i*stride:])
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported index component type: %v", a.ComponentType)
	}
}

// NodeTransform returns a node's local transform. An explicit matrix wins;
// otherwise translation, rotation and scale are composed. Zero-value
// rotation and scale (from hand-built documents) are treated as identity.
func NodeTransform(n *gltf.Node) math3d.Mat4 {
	var zero [16]float64
	if n.Matrix != zero && n.Matrix != identity16 {
		var m math3d.Mat4
		for i, v := range n.Matrix {
			m[i] = v
		}
		return m
	}

	t := math3d.V3(n.Translation[0], n.Translation[1], n.Translation[2])
	r := math3d.Q(n.Rotation[0], n.Rotation[1], n.Rotation[2], n.Rotation[3])
	if r == (math3d.Quat{}) {
		r = math3d.QuatIdentity()
	}
	s := math3d.V3(n.Scale[0], n.Scale[1], n.Scale[2])
	if s == math3d.Zero3() {
		s = math3d.V3(1, 1, 1)
	}
	return math3d.TRS(t, r, s)
}

var identity16 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
