package shadow

import "github.com/Faultbox/stencil-shadows/pkg/math"

// SideVertex is one vertex of the volume sides. Extrude is 0 for the vertex
// on the mesh and 1 for its copy pushed away from the light. K is the edge
// multiplicity; always 1 for the face-based algorithm.
type SideVertex struct {
	Position [3]float32
	Extrude  float32
	K        float32
}

// Triangle is three 16-bit indices.
type Triangle [3]uint16

// SilhouetteEdge is a directed silhouette edge between mesh vertices.
type SilhouetteEdge struct {
	I0, I1 uint16
}

// ShadowVolume is the geometry for one group, one light and one instance.
// Side vertices are new; cap triangles index the group's own vertex buffer.
type ShadowVolume struct {
	Vertices   []SideVertex
	Indices    []Triangle
	FrontCap   []Triangle
	BackCap    []Triangle
	Silhouette []SilhouetteEdge
	Cap        bool

	World             math.Mat4
	Light             math.Vec4
	ExtrusionDistance float32
}

// NumVertices returns the number of side vertices.
func (v *ShadowVolume) NumVertices() int {
	return len(v.Vertices)
}

// NumIndices returns the side and cap index count.
func (v *ShadowVolume) NumIndices() int {
	return 3 * (len(v.Indices) + len(v.FrontCap) + len(v.BackCap))
}

// IsEmpty reports whether the volume has no sides and no caps.
func (v *ShadowVolume) IsEmpty() bool {
	return len(v.Indices) == 0 && len(v.FrontCap) == 0 && len(v.BackCap) == 0
}
