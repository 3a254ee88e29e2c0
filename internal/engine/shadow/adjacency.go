package shadow

import (
	"github.com/Faultbox/stencil-shadows/internal/engine/model"
	"github.com/Faultbox/stencil-shadows/pkg/math"
)

// Face is a triangle with its outward plane.
type Face struct {
	I     [3]uint16
	Plane math.Plane
}

// IncidentFace is one side of an edge.
// ReverseVertexOrder is true when the face walks the edge I1->I0.
type IncidentFace struct {
	Face               int
	Plane              math.Plane
	ReverseVertexOrder bool
}

// Edge is an undirected edge with at most two incident faces.
// I0->I1 is the direction the first face walks it.
type Edge struct {
	I0, I1   uint16
	V0, V1   math.Vec3
	Faces    [2]IncidentFace
	NumFaces int
}

// Adjacency is the topology of one group, built once in object space and
// shared read-only by every extraction against that group.
type Adjacency struct {
	Positions []math.Vec3
	Faces     []Face
	Edges     []Edge
	HalfEdges *HalfEdgeTable
}

// BuildAdjacency derives faces, edges and the half-edge table from g.
// Face planes come from the (v0, v2, v1) ordering so that clockwise-wound
// triangles get outward normals.
func BuildAdjacency(g *model.Group) (*Adjacency, error) {
	n := g.VertexCount()
	numFaces := g.TriangleCount()

	adj := &Adjacency{
		Positions: make([]math.Vec3, n),
		Faces:     make([]Face, 0, numFaces),
		Edges:     make([]Edge, 0, numFaces*3/2),
	}
	for i := range adj.Positions {
		adj.Positions[i] = g.Position(i)
	}

	rows := make([][]uint16, n)
	directed := make(map[[2]uint16]struct{}, numFaces*3)
	edgeIndex := make(map[[2]uint16]int, numFaces*3/2)

	for f := 0; f < numFaces; f++ {
		tri := g.Triangle(f)
		v0, v1, v2 := adj.Positions[tri[0]], adj.Positions[tri[1]], adj.Positions[tri[2]]
		plane := math.PlaneFromPoints(v0, v2, v1)
		adj.Faces = append(adj.Faces, Face{I: tri, Plane: plane})

		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]

			key := [2]uint16{a, b}
			if _, dup := directed[key]; dup {
				return nil, &TopologyError{Face: f, I0: a, I1: b, Err: ErrNonManifold}
			}
			directed[key] = struct{}{}
			rows[a] = append(rows[a], b)

			if idx, ok := edgeIndex[[2]uint16{b, a}]; ok {
				e := &adj.Edges[idx]
				if e.NumFaces >= 2 {
					return nil, &TopologyError{Face: f, I0: a, I1: b, Err: ErrNonManifold}
				}
				e.Faces[1] = IncidentFace{Face: f, Plane: plane, ReverseVertexOrder: true}
				e.NumFaces = 2
				continue
			}

			edgeIndex[key] = len(adj.Edges)
			adj.Edges = append(adj.Edges, Edge{
				I0:       a,
				I1:       b,
				V0:       adj.Positions[a],
				V1:       adj.Positions[b],
				Faces:    [2]IncidentFace{{Face: f, Plane: plane}},
				NumFaces: 1,
			})
		}
	}

	adj.HalfEdges = newHalfEdgeTable(rows)
	return adj, nil
}

// Closed reports whether every edge has two incident faces.
func (a *Adjacency) Closed() bool {
	for i := range a.Edges {
		if a.Edges[i].NumFaces != 2 {
			return false
		}
	}
	return true
}

// OpenEdges returns the number of edges with a single incident face.
func (a *Adjacency) OpenEdges() int {
	n := 0
	for i := range a.Edges {
		if a.Edges[i].NumFaces == 1 {
			n++
		}
	}
	return n
}
