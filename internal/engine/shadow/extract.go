// Package shadow builds stencil shadow volumes: per-group adjacency built once,
// per-light silhouette extraction and extrusion, and the near clip test that
// picks depth-fail or depth-pass per caster.
package shadow

import (
	"slices"

	"github.com/Faultbox/stencil-shadows/internal/engine/model"
	"github.com/Faultbox/stencil-shadows/pkg/math"
)

// Options select how a volume is built.
type Options struct {
	Technique        Technique
	Algorithm        Algorithm
	TextureAsStencil bool
	// MaxSideVertices bounds the side vertex count; 0 means the 16-bit index range.
	MaxSideVertices int
}

// Extractor builds shadow volumes for one group. It owns the mark set and
// scratch buffers, so it must not be used from more than one goroutine.
// Create one extractor per worker to build volumes for the same group in parallel.
type Extractor struct {
	adj   *Adjacency
	marks *MarkSet

	facing     []bool
	edgeK      []int8
	vertices   []SideVertex
	indices    []Triangle
	frontCap   []Triangle
	backCap    []Triangle
	silhouette []SilhouetteEdge
}

// NewExtractor returns an extractor with scratch sized for the worst case of adj:
// every edge a silhouette edge with doubled sides, every face capped twice.
func NewExtractor(adj *Adjacency) *Extractor {
	numEdges, numFaces := len(adj.Edges), len(adj.Faces)
	return &Extractor{
		adj:        adj,
		marks:      NewMarkSet(adj.HalfEdges),
		facing:     make([]bool, numFaces),
		edgeK:      make([]int8, numEdges),
		vertices:   make([]SideVertex, 0, 4*numEdges),
		indices:    make([]Triangle, 0, 4*numEdges),
		frontCap:   make([]Triangle, 0, 2*numFaces),
		backCap:    make([]Triangle, 0, 2*numFaces),
		silhouette: make([]SilhouetteEdge, 0, numEdges),
	}
}

// Adjacency returns the topology the extractor works on.
func (e *Extractor) Adjacency() *Adjacency {
	return e.adj
}

// Extract builds the volume for an object-space light. Point lights have
// w=1, directional lights w=0. Caps are produced for DepthFail. The returned
// slices are owned by the caller.
func (e *Extractor) Extract(light math.Vec4, opts Options) (*ShadowVolume, error) {
	e.reset()

	for f := range e.adj.Faces {
		e.facing[f] = e.adj.Faces[f].Plane.DotVec4(light) > 0
	}

	capped := opts.Technique == DepthFail
	var err error
	switch opts.Algorithm {
	case EdgeBased:
		err = e.edgeBased(opts, capped)
	default:
		err = e.faceBased(opts, capped)
	}
	if err != nil {
		return nil, err
	}

	return &ShadowVolume{
		Vertices:   slices.Clone(e.vertices),
		Indices:    slices.Clone(e.indices),
		FrontCap:   slices.Clone(e.frontCap),
		BackCap:    slices.Clone(e.backCap),
		Silhouette: slices.Clone(e.silhouette),
		Cap:        capped,
		World:      math.Identity(),
		Light:      light,
	}, nil
}

// ExtractInstance brings a world-space light into the instance's object space,
// extracts, and stamps the instance placement onto the volume.
func (e *Extractor) ExtractInstance(worldLight math.Vec4, t Transform, extrusion float32, opts Options) (*ShadowVolume, error) {
	v, err := e.Extract(t.ObjectLight(worldLight), opts)
	if err != nil {
		return nil, err
	}
	v.World = t.World()
	v.ExtrusionDistance = extrusion
	return v, nil
}

func (e *Extractor) reset() {
	e.vertices = e.vertices[:0]
	e.indices = e.indices[:0]
	e.frontCap = e.frontCap[:0]
	e.backCap = e.backCap[:0]
	e.silhouette = e.silhouette[:0]
}

// faceBased finds silhouette edges by toggling directed half-edges of
// light-facing faces: an edge shared by two such faces cancels itself out.
func (e *Extractor) faceBased(opts Options, capped bool) error {
	for f := range e.adj.Faces {
		face := &e.adj.Faces[f]
		if e.facing[f] {
			for k := 0; k < 3; k++ {
				a, b := face.I[k], face.I[(k+1)%3]
				cleared, err := e.marks.Unmark(b, a)
				if err != nil {
					e.marks.Reset()
					return err
				}
				if cleared {
					continue
				}
				if err := e.marks.Mark(a, b); err != nil {
					e.marks.Reset()
					return err
				}
			}
		}
		if capped {
			e.addCap(f, 1)
		}
	}

	if err := checkCapacity(4*e.marks.Count(), opts); err != nil {
		e.marks.Reset()
		return err
	}

	pos := e.adj.Positions
	e.marks.Drain(func(a, b uint16) {
		e.addQuad(pos[a], pos[b], 1, true, 1)
		e.silhouette = append(e.silhouette, SilhouetteEdge{I0: a, I1: b})
	})
	return nil
}

// edgeBased sums, per edge, +1 for each light-facing incident face and -1
// otherwise, flipped for faces walking the edge backwards. A nonzero sum
// marks a silhouette edge whose sides are repeated |k| times.
func (e *Extractor) edgeBased(opts Options, capped bool) error {
	silhouettes := 0
	for i := range e.adj.Edges {
		edge := &e.adj.Edges[i]
		k := 0
		for j := 0; j < edge.NumFaces; j++ {
			inc := &edge.Faces[j]
			s := -1
			if e.facing[inc.Face] {
				s = 1
			}
			if inc.ReverseVertexOrder {
				s = -s
			}
			k += s
		}
		e.edgeK[i] = int8(k)
		if k != 0 {
			silhouettes++
		}
	}

	if err := checkCapacity(4*silhouettes, opts); err != nil {
		return err
	}

	for i := range e.adj.Edges {
		k := int(e.edgeK[i])
		if k == 0 {
			continue
		}
		edge := &e.adj.Edges[i]

		repeat := abs(k)
		if opts.TextureAsStencil {
			repeat = 1
		}
		e.addQuad(edge.V0, edge.V1, float32(k), k > 0, repeat)

		if k > 0 {
			e.silhouette = append(e.silhouette, SilhouetteEdge{I0: edge.I0, I1: edge.I1})
		} else {
			e.silhouette = append(e.silhouette, SilhouetteEdge{I0: edge.I1, I1: edge.I0})
		}
	}

	if capped {
		times := 2
		if opts.TextureAsStencil {
			times = 1
		}
		for f := range e.adj.Faces {
			e.addCap(f, times)
		}
	}
	return nil
}

// addQuad appends the four side vertices of an edge, v0 and v1 each on the
// mesh and extruded, and repeat copies of its two triangles.
func (e *Extractor) addQuad(v0, v1 math.Vec3, k float32, positive bool, repeat int) {
	base := uint16(len(e.vertices))
	e.vertices = append(e.vertices,
		SideVertex{Position: v0.Array(), Extrude: 0, K: k},
		SideVertex{Position: v0.Array(), Extrude: 1, K: k},
		SideVertex{Position: v1.Array(), Extrude: 0, K: k},
		SideVertex{Position: v1.Array(), Extrude: 1, K: k},
	)

	var w uint16
	if positive {
		w = 1
	}
	for r := 0; r < repeat; r++ {
		e.indices = append(e.indices,
			Triangle{base, base + 2 - w, base + 1 + w},
			Triangle{base + 2, base + 3 - 2*w, base + 1 + 2*w},
		)
	}
}

func (e *Extractor) addCap(f, times int) {
	tri := Triangle(e.adj.Faces[f].I)
	for r := 0; r < times; r++ {
		if e.facing[f] {
			e.frontCap = append(e.frontCap, tri)
		} else {
			e.backCap = append(e.backCap, tri)
		}
	}
}

func checkCapacity(need int, opts Options) error {
	limit := model.MaxVertices
	if opts.MaxSideVertices > 0 && opts.MaxSideVertices < limit {
		limit = opts.MaxSideVertices
	}
	if need > limit {
		return &CapacityError{What: "side vertices", Need: need, Limit: limit}
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
