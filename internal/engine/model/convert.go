package model

import (
	"fmt"

	"github.com/Faultbox/stencil-shadows/pkg/formats"
	"github.com/Faultbox/stencil-shadows/pkg/math"
)

// Load reads a mesh file from disk.
func Load(path string) (*Mesh, error) {
	f, err := formats.LoadMesh(path)
	if err != nil {
		return nil, err
	}
	m, err := FromMeshFile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Name = path
	return m, nil
}

// FromMeshFile converts a parsed mesh file into validated groups.
// Bounds stored in the file are kept when present; otherwise the computed ones are used.
func FromMeshFile(f *formats.MeshFile) (*Mesh, error) {
	m := &Mesh{Groups: make([]*Group, 0, len(f.Groups))}
	for i := range f.Groups {
		src := &f.Groups[i]
		g, err := NewGroup(src.Vertices, int(src.Stride), src.Indices)
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		if src.Sphere.Radius > 0 {
			g.Sphere = Sphere{Center: math.V3(src.Sphere.Center), Radius: src.Sphere.Radius}
			g.Bounds = Bounds{Min: src.AABB.Min, Max: src.AABB.Max}
		}
		g.Material = src.Material
		for _, p := range src.Primitives {
			g.Primitives = append(g.Primitives, Primitive{
				Name:        p.Name,
				StartIndex:  p.StartIndex,
				NumIndices:  p.NumIndices,
				StartVertex: p.StartVertex,
				NumVertices: p.NumVertices,
			})
		}
		m.Groups = append(m.Groups, g)
	}
	return m, nil
}

// ToMeshFile converts the mesh back to its file representation.
func (m *Mesh) ToMeshFile() *formats.MeshFile {
	f := &formats.MeshFile{Groups: make([]formats.MeshGroup, 0, len(m.Groups))}
	for _, g := range m.Groups {
		fg := formats.MeshGroup{
			Sphere:      formats.MeshSphere{Center: g.Sphere.Center.Array(), Radius: g.Sphere.Radius},
			AABB:        formats.MeshAABB{Min: g.Bounds.Min, Max: g.Bounds.Max},
			OBB:         obbFromBounds(g.Bounds),
			Stride:      uint16(g.Stride),
			NumVertices: uint16(g.VertexCount()),
			Vertices:    g.Vertices,
			Indices:     g.Indices,
			Material:    g.Material,
		}
		for _, p := range g.Primitives {
			fg.Primitives = append(fg.Primitives, formats.MeshPrimitive{
				Name:        p.Name,
				StartIndex:  p.StartIndex,
				NumIndices:  p.NumIndices,
				StartVertex: p.StartVertex,
				NumVertices: p.NumVertices,
				Sphere:      fg.Sphere,
				AABB:        fg.AABB,
				OBB:         fg.OBB,
			})
		}
		f.Groups = append(f.Groups, fg)
	}
	return f
}

// obbFromBounds encodes the box as a scale-translate matrix mapping the unit cube onto it.
func obbFromBounds(b Bounds) formats.MeshOBB {
	c := b.Center()
	half := math.Vec3{
		X: (b.Max[0] - b.Min[0]) / 2,
		Y: (b.Max[1] - b.Min[1]) / 2,
		Z: (b.Max[2] - b.Min[2]) / 2,
	}
	return formats.MeshOBB{Matrix: math.Translate(c.X, c.Y, c.Z).Mul(math.Scale(half.X, half.Y, half.Z))}
}
