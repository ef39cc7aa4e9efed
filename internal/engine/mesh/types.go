// Package mesh turns parsed geometry into GPU-ready vertex and index arrays.
package mesh

import (
	"errors"
	"fmt"
	"unsafe"
)

// Assembly errors.
var (
	ErrNoGeometry        = errors.New("no geometry")
	ErrMalformedGeometry = errors.New("malformed geometry")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrEmptyMesh         = errors.New("mesh has no faces")
)

// Vertex is one interleaved vertex record: position then normal.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// VertexSize is the byte stride of Vertex in a vertex buffer.
const VertexSize = int(unsafe.Sizeof(Vertex{}))

// NormalOffset is the byte offset of Vertex.Normal.
const NormalOffset = int(unsafe.Offsetof(Vertex{}.Normal))

// DefaultNormal is used for face corners that carry no normal.
var DefaultNormal = [3]float32{0, 0, 1}

// Mesh holds vertex and index data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Size returns the extent along each axis.
func (b Bounds) Size() [3]float32 {
	return [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// TriangleCount returns the number of triangles described by Indices.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks that every index refers to an existing vertex.
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return ErrEmptyMesh
	}
	n := uint32(len(m.Vertices))
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("%w: index %d is %d, vertex count %d", ErrIndexOutOfRange, i, idx, n)
		}
	}
	return nil
}

func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
