package scene

import (
	"github.com/Faultbox/stencil-shadows/internal/engine/picking"
)

// WorldBounds returns the world-space box around every group of the instance.
func (inst *Instance) WorldBounds() picking.AABB {
	world := inst.Transform.World()
	var box picking.AABB
	for i, g := range inst.Model.Mesh.Groups {
		b := picking.WorldAABB(g.Bounds, world)
		if i == 0 {
			box = b
			continue
		}
		box = box.Union(b)
	}
	return box
}

// Bounds returns the box around all casters. ok is false for an empty scene.
func (s *Scene) Bounds() (box picking.AABB, ok bool) {
	for i, c := range s.Casters {
		if i == 0 {
			box = c.WorldBounds()
			continue
		}
		box = box.Union(c.WorldBounds())
	}
	return box, len(s.Casters) > 0
}

// Pick returns the index of the nearest caster whose bounds the ray enters.
func (s *Scene) Pick(r picking.Ray) (caster int, dist float32, ok bool) {
	caster = -1
	for i, c := range s.Casters {
		t, hit := r.IntersectAABB(c.WorldBounds())
		if !hit {
			continue
		}
		if caster < 0 || t < dist {
			caster, dist = i, t
		}
	}
	return caster, dist, caster >= 0
}
