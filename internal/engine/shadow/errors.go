package shadow

import (
	"errors"
	"fmt"
)

// Topology errors.
var (
	ErrNonManifold      = errors.New("mesh is not 2-manifold")
	ErrNoOutgoingEdges  = errors.New("vertex has no outgoing edges")
	ErrEdgeNotFound     = errors.New("directed edge not in table")
	ErrCapacityExceeded = errors.New("shadow volume capacity exceeded")
)

// TopologyError reports mesh topology that the adjacency structures cannot represent.
// The group must not be submitted for shadowing.
type TopologyError struct {
	Face int // triangle index, -1 when not tied to a face
	I0   uint16
	I1   uint16
	Err  error
}

func (e *TopologyError) Error() string {
	if e.Face < 0 {
		return fmt.Sprintf("topology: edge %d->%d: %v", e.I0, e.I1, e.Err)
	}
	return fmt.Sprintf("topology: face %d, edge %d->%d: %v", e.Face, e.I0, e.I1, e.Err)
}

func (e *TopologyError) Unwrap() error { return e.Err }

// CapacityError reports side geometry that would not fit its output bound.
// Nothing is truncated; the volume is not produced.
type CapacityError struct {
	What  string
	Need  int
	Limit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: need %d, limit %d: %v", e.What, e.Need, e.Limit, ErrCapacityExceeded)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }
