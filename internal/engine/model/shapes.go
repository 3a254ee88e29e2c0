package model

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/stencil-shadows/pkg/math"
)

// Procedural shapes are closed 2-manifolds wound clockwise when seen from
// outside, so face planes built from (v0, v2, v1) point outward.

// boxIndices lists the 12 box triangles, two per face.
var boxIndices = []uint16{
	0, 2, 3, 0, 1, 2, // -Z
	4, 6, 5, 4, 7, 6, // +Z
	0, 7, 4, 0, 3, 7, // -X
	1, 6, 2, 1, 5, 6, // +X
	0, 5, 1, 0, 4, 5, // -Y
	3, 6, 7, 3, 2, 6, // +Y
}

// NewBox returns an axis-aligned box centered on the origin with the given half extents.
func NewBox(half math.Vec3) *Group {
	x, y, z := half.X, half.Y, half.Z
	positions := []math.Vec3{
		{X: -x, Y: -y, Z: -z},
		{X: x, Y: -y, Z: -z},
		{X: x, Y: y, Z: -z},
		{X: -x, Y: y, Z: -z},
		{X: -x, Y: -y, Z: z},
		{X: x, Y: -y, Z: z},
		{X: x, Y: y, Z: z},
		{X: -x, Y: y, Z: z},
	}
	indices := make([]uint16, len(boxIndices))
	copy(indices, boxIndices)

	g, err := NewGroupFromPositions(positions, indices)
	if err != nil {
		panic("model: invalid box: " + err.Error())
	}
	return g
}

// MaxCylinderSegments is the largest segment count whose rings and cap
// centers fit in 16-bit indices.
const MaxCylinderSegments = (MaxVertices - 2) / 2

// NewCylinder returns a capped cylinder around the Y axis, centered on the origin.
// segments is clamped to at least 3; more than MaxCylinderSegments is an error.
func NewCylinder(segments int, radius, height float32) (*Group, error) {
	if segments > MaxCylinderSegments {
		return nil, fmt.Errorf("cylinder with %d segments: %w", segments, ErrTooManyVertices)
	}
	segments = max(segments, 3)
	h := height / 2

	positions := make([]math.Vec3, 0, segments*2+2)
	for i := 0; i < segments; i++ {
		a := 2 * gomath.Pi * float64(i) / float64(segments)
		x := radius * float32(gomath.Cos(a))
		z := radius * float32(gomath.Sin(a))
		positions = append(positions, math.Vec3{X: x, Y: -h, Z: z})
	}
	for i := 0; i < segments; i++ {
		p := positions[i]
		positions = append(positions, math.Vec3{X: p.X, Y: h, Z: p.Z})
	}
	bottom := uint16(len(positions))
	positions = append(positions, math.Vec3{Y: -h})
	top := bottom + 1
	positions = append(positions, math.Vec3{Y: h})

	n := uint16(segments)
	indices := make([]uint16, 0, segments*12)
	for i := uint16(0); i < n; i++ {
		j := (i + 1) % n
		b0, b1 := i, j
		t0, t1 := n+i, n+j
		indices = append(indices,
			b0, b1, t0,
			b1, t1, t0,
			bottom, b1, b0,
			top, t0, t1,
		)
	}

	return NewGroupFromPositions(positions, indices)
}
