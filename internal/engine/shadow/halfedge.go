package shadow

import "errors"

// HalfEdgeTable is the directed adjacency of a group in CSR layout:
// row v holds the targets of every directed edge leaving vertex v, in
// insertion order. The table is immutable once built and safe to share.
type HalfEdgeTable struct {
	offsets []uint32 // len = vertexCount+1
	targets []uint16
}

// newHalfEdgeTable flattens per-origin target lists into a table.
func newHalfEdgeTable(rows [][]uint16) *HalfEdgeTable {
	t := &HalfEdgeTable{offsets: make([]uint32, len(rows)+1)}
	total := 0
	for _, r := range rows {
		total += len(r)
	}
	t.targets = make([]uint16, 0, total)
	for v, r := range rows {
		t.offsets[v] = uint32(len(t.targets))
		t.targets = append(t.targets, r...)
	}
	t.offsets[len(rows)] = uint32(len(t.targets))
	return t
}

// VertexCount returns the number of rows.
func (t *HalfEdgeTable) VertexCount() int {
	return len(t.offsets) - 1
}

// Len returns the number of directed edges.
func (t *HalfEdgeTable) Len() int {
	return len(t.targets)
}

// Row returns the targets of the edges leaving origin.
func (t *HalfEdgeTable) Row(origin uint16) ([]uint16, error) {
	start, end, err := t.rowRange(origin)
	if err != nil {
		return nil, err
	}
	return t.targets[start:end], nil
}

func (t *HalfEdgeTable) rowRange(origin uint16) (uint32, uint32, error) {
	if int(origin) >= t.VertexCount() {
		return 0, 0, &TopologyError{Face: -1, I0: origin, I1: origin, Err: ErrNoOutgoingEdges}
	}
	start, end := t.offsets[origin], t.offsets[origin+1]
	if start == end {
		return 0, 0, &TopologyError{Face: -1, I0: origin, I1: origin, Err: ErrNoOutgoingEdges}
	}
	return start, end, nil
}

// find returns the flat entry index of origin->target.
func (t *HalfEdgeTable) find(origin, target uint16) (uint32, error) {
	start, end, err := t.rowRange(origin)
	if err != nil {
		return 0, err
	}
	for i := start; i < end; i++ {
		if t.targets[i] == target {
			return i, nil
		}
	}
	return 0, &TopologyError{Face: -1, I0: origin, I1: target, Err: ErrEdgeNotFound}
}

// MarkSet holds one mark bit per directed edge of a HalfEdgeTable.
// Each extraction owns its own set; it is not safe for concurrent use.
type MarkSet struct {
	table  *HalfEdgeTable
	marked []bool
	count  int
}

// NewMarkSet returns a cleared mark set for t.
func NewMarkSet(t *HalfEdgeTable) *MarkSet {
	return &MarkSet{table: t, marked: make([]bool, t.Len())}
}

// Mark sets the bit of origin->target.
func (m *MarkSet) Mark(origin, target uint16) error {
	i, err := m.table.find(origin, target)
	if err != nil {
		return err
	}
	if !m.marked[i] {
		m.marked[i] = true
		m.count++
	}
	return nil
}

// Unmark clears the bit of origin->target and reports whether it was set.
// An edge missing from a populated row, such as the twin of a boundary
// edge, is reported as not marked.
func (m *MarkSet) Unmark(origin, target uint16) (bool, error) {
	i, err := m.table.find(origin, target)
	if errors.Is(err, ErrEdgeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !m.marked[i] {
		return false, nil
	}
	m.marked[i] = false
	m.count--
	return true, nil
}

// IsMarked reports whether origin->target is marked.
func (m *MarkSet) IsMarked(origin, target uint16) bool {
	i, err := m.table.find(origin, target)
	return err == nil && m.marked[i]
}

// Count returns the number of marked entries.
func (m *MarkSet) Count() int {
	return m.count
}

// Drain calls fn for every marked edge in row order, origin 0 first,
// and clears the marks as it goes. The set is empty afterwards.
func (m *MarkSet) Drain(fn func(origin, target uint16)) {
	if m.count == 0 {
		return
	}
	t := m.table
	for v := 0; v < t.VertexCount(); v++ {
		for i := t.offsets[v]; i < t.offsets[v+1]; i++ {
			if !m.marked[i] {
				continue
			}
			m.marked[i] = false
			m.count--
			fn(uint16(v), t.targets[i])
		}
	}
}

// Reset clears every mark.
func (m *MarkSet) Reset() {
	clear(m.marked)
	m.count = 0
}
