package scene

import (
	"github.com/Faultbox/stencil-shadows/internal/engine/shadow"
	"github.com/Faultbox/stencil-shadows/pkg/math"
)

// DrawCall is one volume part handed to a rendering backend.
type DrawCall struct {
	Light  int // Index into Scene.Lights
	Caster int // Index into Scene.Casters
	Group  int

	Part    shadow.Part
	Program shadow.ProgramType
	Pass    shadow.RenderPass
	Volume  *shadow.ShadowVolume
}

// Triangles returns the index list the call draws: the sides, or one cap
// over the group's own vertex buffer.
func (c DrawCall) Triangles() []shadow.Triangle {
	switch c.Part {
	case shadow.PartFront:
		return c.Volume.FrontCap
	case shadow.PartBack:
		return c.Volume.BackCap
	default:
		return c.Volume.Indices
	}
}

// Transform returns the object-to-world matrix of the call.
func (c DrawCall) Transform() math.Mat4 {
	return c.Volume.World
}

// Renderer receives draw calls in submission order.
type Renderer interface {
	Submit(call DrawCall)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(DrawCall)

// Submit calls f(call).
func (f RendererFunc) Submit(call DrawCall) {
	f(call)
}

// Recorder keeps every submitted call.
type Recorder struct {
	Calls []DrawCall
}

// Submit appends call.
func (r *Recorder) Submit(call DrawCall) {
	r.Calls = append(r.Calls, call)
}

// Reset drops recorded calls and keeps the backing array.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}
