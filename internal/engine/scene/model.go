package scene

import (
	"fmt"

	"github.com/Faultbox/stencil-shadows/internal/engine/model"
	"github.com/Faultbox/stencil-shadows/internal/engine/shadow"
)

// Model is a caster mesh with its per-group topology, built once at load.
type Model struct {
	Name string
	Mesh *model.Mesh

	adjacency  []*shadow.Adjacency
	extractors []*shadow.Extractor
}

// NewModel builds adjacency for every group of mesh.
func NewModel(name string, mesh *model.Mesh) (*Model, error) {
	m := &Model{
		Name:       name,
		Mesh:       mesh,
		adjacency:  make([]*shadow.Adjacency, len(mesh.Groups)),
		extractors: make([]*shadow.Extractor, len(mesh.Groups)),
	}
	for i, g := range mesh.Groups {
		adj, err := shadow.BuildAdjacency(g)
		if err != nil {
			return nil, fmt.Errorf("model %s group %d: %w", name, i, err)
		}
		m.adjacency[i] = adj
		m.extractors[i] = shadow.NewExtractor(adj)
	}
	return m, nil
}

// NewGroupModel wraps a single group.
func NewGroupModel(name string, g *model.Group) (*Model, error) {
	return NewModel(name, &model.Mesh{Name: name, Groups: []*model.Group{g}})
}

// LoadModel reads a mesh file and builds its topology.
func LoadModel(path string) (*Model, error) {
	mesh, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	return NewModel(mesh.Name, mesh)
}

// NumGroups returns the number of groups.
func (m *Model) NumGroups() int {
	return len(m.adjacency)
}

// Adjacency returns the topology of group i.
func (m *Model) Adjacency(i int) *shadow.Adjacency {
	return m.adjacency[i]
}

// Extractor returns the model's own extractor for group i. It serves the
// sequential path only.
func (m *Model) Extractor(i int) *shadow.Extractor {
	return m.extractors[i]
}

// newExtractors returns a private extractor per group over the shared adjacency.
func (m *Model) newExtractors() []*shadow.Extractor {
	out := make([]*shadow.Extractor, len(m.adjacency))
	for i, adj := range m.adjacency {
		out[i] = shadow.NewExtractor(adj)
	}
	return out
}

// extractorCache hands one goroutine its own extractors, created on first use.
type extractorCache map[*Model][]*shadow.Extractor

func (c extractorCache) get(m *Model, group int) *shadow.Extractor {
	e, ok := c[m]
	if !ok {
		e = m.newExtractors()
		c[m] = e
	}
	return e[group]
}

// DefaultExtrusionDistance is how far side vertices are pushed away from the light.
const DefaultExtrusionDistance = 150.0

// Instance is a placed shadow caster.
type Instance struct {
	Name              string
	Model             *Model
	Transform         shadow.Transform
	ExtrusionDistance float32
}

// NewInstance places m with transform t and the default extrusion distance.
func NewInstance(name string, m *Model, t shadow.Transform) *Instance {
	return &Instance{
		Name:              name,
		Model:             m,
		Transform:         t,
		ExtrusionDistance: DefaultExtrusionDistance,
	}
}
