package mesh

import (
	"fmt"

	"github.com/Faultbox/meshview/pkg/formats"
)

// Assemble builds a mesh from parsed OBJ data.
//
// Every face corner becomes its own vertex, in the order the corners appear
// across shapes, and the index buffer is simply 0..N-1. Identical corners are
// not merged: the 1:1 mapping between face corners and vertices is part of the
// buffer layout contract.
//
// Any out-of-range reference rejects the whole mesh.
func Assemble(obj *formats.OBJ) (*Mesh, error) {
	if obj == nil {
		return nil, ErrNoGeometry
	}
	if len(obj.Positions)%3 != 0 || len(obj.Normals)%3 != 0 {
		return nil, fmt.Errorf("%w: %d position floats, %d normal floats",
			ErrMalformedGeometry, len(obj.Positions), len(obj.Normals))
	}

	total := obj.FaceVertexCount()
	if total == 0 {
		return nil, ErrEmptyMesh
	}

	vertexCount := obj.VertexCount()
	normalCount := obj.NormalCount()
	hasNormals := normalCount > 0

	m := &Mesh{
		Vertices: make([]Vertex, 0, total),
		Indices:  make([]uint32, 0, total),
		Bounds:   emptyBounds(),
	}

	for s := range obj.Shapes {
		shape := &obj.Shapes[s]
		for i, ref := range shape.Indices {
			if ref.Position < 0 || ref.Position >= vertexCount {
				return nil, fmt.Errorf("%w: shape %q corner %d: position %d of %d",
					ErrIndexOutOfRange, shape.Name, i, ref.Position, vertexCount)
			}

			v := Vertex{Normal: DefaultNormal}
			copy(v.Position[:], obj.Positions[3*ref.Position:3*ref.Position+3])

			if hasNormals && ref.Normal != formats.NoIndex {
				if ref.Normal < 0 || ref.Normal >= normalCount {
					return nil, fmt.Errorf("%w: shape %q corner %d: normal %d of %d",
						ErrIndexOutOfRange, shape.Name, i, ref.Normal, normalCount)
				}
				copy(v.Normal[:], obj.Normals[3*ref.Normal:3*ref.Normal+3])
			}

			updateBounds(&m.Bounds, v.Position)
			m.Indices = append(m.Indices, uint32(len(m.Vertices)))
			m.Vertices = append(m.Vertices, v)
		}
	}

	return m, nil
}

// DefaultCube returns a 2x2x2 axis-aligned cube centred on the origin with flat
// per-face normals: 24 vertices and 12 triangles.
func DefaultCube() *Mesh {
	vertices := []Vertex{
		// Front
		{[3]float32{-1, -1, 1}, [3]float32{0, 0, 1}},
		{[3]float32{1, -1, 1}, [3]float32{0, 0, 1}},
		{[3]float32{1, 1, 1}, [3]float32{0, 0, 1}},
		{[3]float32{-1, 1, 1}, [3]float32{0, 0, 1}},
		// Back
		{[3]float32{-1, -1, -1}, [3]float32{0, 0, -1}},
		{[3]float32{-1, 1, -1}, [3]float32{0, 0, -1}},
		{[3]float32{1, 1, -1}, [3]float32{0, 0, -1}},
		{[3]float32{1, -1, -1}, [3]float32{0, 0, -1}},
		// Left
		{[3]float32{-1, -1, -1}, [3]float32{-1, 0, 0}},
		{[3]float32{-1, -1, 1}, [3]float32{-1, 0, 0}},
		{[3]float32{-1, 1, 1}, [3]float32{-1, 0, 0}},
		{[3]float32{-1, 1, -1}, [3]float32{-1, 0, 0}},
		// Right
		{[3]float32{1, -1, -1}, [3]float32{1, 0, 0}},
		{[3]float32{1, 1, -1}, [3]float32{1, 0, 0}},
		{[3]float32{1, 1, 1}, [3]float32{1, 0, 0}},
		{[3]float32{1, -1, 1}, [3]float32{1, 0, 0}},
		// Top
		{[3]float32{-1, 1, -1}, [3]float32{0, 1, 0}},
		{[3]float32{-1, 1, 1}, [3]float32{0, 1, 0}},
		{[3]float32{1, 1, 1}, [3]float32{0, 1, 0}},
		{[3]float32{1, 1, -1}, [3]float32{0, 1, 0}},
		// Bottom
		{[3]float32{-1, -1, -1}, [3]float32{0, -1, 0}},
		{[3]float32{1, -1, -1}, [3]float32{0, -1, 0}},
		{[3]float32{1, -1, 1}, [3]float32{0, -1, 0}},
		{[3]float32{-1, -1, 1}, [3]float32{0, -1, 0}},
	}

	indices := make([]uint32, 0, 36)
	for face := uint32(0); face < 6; face++ {
		base := face * 4
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Bounds: Bounds{
			Min: [3]float32{-1, -1, -1},
			Max: [3]float32{1, 1, 1},
		},
	}
}
