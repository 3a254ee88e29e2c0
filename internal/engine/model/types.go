// Package model holds triangle meshes in the layout the shadow volume code consumes:
// raw vertex bytes with the position at offset 0 and a 16-bit index list.
package model

import "github.com/Faultbox/stencil-shadows/pkg/math"

// PositionSize is the byte size of the float32 xyz position at the start of every vertex.
const PositionSize = 12

// MaxVertices is the number of vertices addressable by 16-bit indices.
const MaxVertices = 1 << 16

// Sphere is a bounding sphere.
type Sphere struct {
	Center math.Vec3
	Radius float32
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the center point of the box.
func (b Bounds) Center() math.Vec3 {
	return math.Vec3{
		X: (b.Min[0] + b.Max[0]) / 2,
		Y: (b.Min[1] + b.Max[1]) / 2,
		Z: (b.Min[2] + b.Max[2]) / 2,
	}
}

// Primitive is a named sub-range of a group.
type Primitive struct {
	Name        string
	StartIndex  uint32
	NumIndices  uint32
	StartVertex uint32
	NumVertices uint32
}

// Group is an immutable triangle list sharing one vertex buffer.
// Vertices holds VertexCount()*Stride bytes; Indices holds three entries per triangle.
type Group struct {
	Vertices   []byte
	Stride     int
	Indices    []uint16
	Sphere     Sphere
	Bounds     Bounds
	Material   string
	Primitives []Primitive
}

// Mesh is a named collection of groups.
type Mesh struct {
	Name   string
	Groups []*Group
}

// TriangleCount returns the number of triangles across all groups.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, g := range m.Groups {
		n += g.TriangleCount()
	}
	return n
}

// VertexCount returns the number of vertices across all groups.
func (m *Mesh) VertexCount() int {
	n := 0
	for _, g := range m.Groups {
		n += g.VertexCount()
	}
	return n
}
