package model

import (
	"encoding/binary"
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/stencil-shadows/pkg/math"
)

// Group validation errors.
var (
	ErrInvalidStride      = errors.New("vertex stride smaller than a position")
	ErrVertexDataSize     = errors.New("vertex data is not a multiple of the stride")
	ErrIncompleteTriangle = errors.New("index count is not a multiple of 3")
	ErrIndexOutOfRange    = errors.New("index references a missing vertex")
	ErrTooManyVertices    = errors.New("vertex count exceeds 16-bit index range")
)

// NewGroup validates a vertex buffer and index list and computes bounds.
// Positions are read as little-endian float32 xyz at the start of every vertex.
func NewGroup(vertices []byte, stride int, indices []uint16) (*Group, error) {
	if stride < PositionSize {
		return nil, fmt.Errorf("stride %d: %w", stride, ErrInvalidStride)
	}
	if len(vertices)%stride != 0 {
		return nil, fmt.Errorf("%d bytes, stride %d: %w", len(vertices), stride, ErrVertexDataSize)
	}
	count := len(vertices) / stride
	if count > MaxVertices {
		return nil, fmt.Errorf("%d vertices: %w", count, ErrTooManyVertices)
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%d indices: %w", len(indices), ErrIncompleteTriangle)
	}
	for i, idx := range indices {
		if int(idx) >= count {
			return nil, fmt.Errorf("index %d = %d, %d vertices: %w", i, idx, count, ErrIndexOutOfRange)
		}
	}

	g := &Group{
		Vertices: vertices,
		Stride:   stride,
		Indices:  indices,
	}
	g.computeBounds()
	return g, nil
}

// NewGroupFromPositions packs positions into a 12-byte stride vertex buffer.
func NewGroupFromPositions(positions []math.Vec3, indices []uint16) (*Group, error) {
	return NewGroup(packPositions(positions), PositionSize, indices)
}

func packPositions(positions []math.Vec3) []byte {
	buf := make([]byte, 0, len(positions)*PositionSize)
	for _, p := range positions {
		buf = binary.LittleEndian.AppendUint32(buf, gomath.Float32bits(p.X))
		buf = binary.LittleEndian.AppendUint32(buf, gomath.Float32bits(p.Y))
		buf = binary.LittleEndian.AppendUint32(buf, gomath.Float32bits(p.Z))
	}
	return buf
}

// VertexCount returns the number of vertices.
func (g *Group) VertexCount() int {
	if g.Stride == 0 {
		return 0
	}
	return len(g.Vertices) / g.Stride
}

// TriangleCount returns the number of triangles.
func (g *Group) TriangleCount() int {
	return len(g.Indices) / 3
}

// IsEmpty reports whether the group has no triangles.
func (g *Group) IsEmpty() bool {
	return len(g.Indices) == 0
}

// Position decodes the position of vertex i.
func (g *Group) Position(i int) math.Vec3 {
	off := i * g.Stride
	v := g.Vertices[off : off+PositionSize]
	return math.Vec3{
		X: gomath.Float32frombits(binary.LittleEndian.Uint32(v[0:])),
		Y: gomath.Float32frombits(binary.LittleEndian.Uint32(v[4:])),
		Z: gomath.Float32frombits(binary.LittleEndian.Uint32(v[8:])),
	}
}

// Triangle returns the indices of triangle t.
func (g *Group) Triangle(t int) [3]uint16 {
	return [3]uint16{g.Indices[t*3], g.Indices[t*3+1], g.Indices[t*3+2]}
}

// ReverseWinding returns a copy of the group with the second and third index
// of every triangle swapped. Vertex data is shared.
func (g *Group) ReverseWinding() *Group {
	indices := make([]uint16, len(g.Indices))
	for i := 0; i+2 < len(g.Indices); i += 3 {
		indices[i] = g.Indices[i]
		indices[i+1] = g.Indices[i+2]
		indices[i+2] = g.Indices[i+1]
	}
	out := *g
	out.Indices = indices
	return &out
}

// computeBounds fills the bounding box and a sphere centered on it.
func (g *Group) computeBounds() {
	n := g.VertexCount()
	if n == 0 {
		g.Bounds = Bounds{}
		g.Sphere = Sphere{}
		return
	}

	b := Bounds{
		Min: [3]float32{gomath.MaxFloat32, gomath.MaxFloat32, gomath.MaxFloat32},
		Max: [3]float32{-gomath.MaxFloat32, -gomath.MaxFloat32, -gomath.MaxFloat32},
	}
	for i := 0; i < n; i++ {
		p := g.Position(i).Array()
		for k := 0; k < 3; k++ {
			b.Min[k] = min(b.Min[k], p[k])
			b.Max[k] = max(b.Max[k], p[k])
		}
	}

	center := b.Center()
	var radius float32
	for i := 0; i < n; i++ {
		radius = max(radius, g.Position(i).Distance(center))
	}

	g.Bounds = b
	g.Sphere = Sphere{Center: center, Radius: radius}
}
