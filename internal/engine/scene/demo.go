package scene

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/stencil-shadows/internal/engine/model"
	"github.com/Faultbox/stencil-shadows/internal/engine/shadow"
	"github.com/Faultbox/stencil-shadows/pkg/math"
)

// PlatformExtrusionDistance keeps the thin platform volumes inside a tight view frustum.
const PlatformExtrusionDistance = 2.0

// DemoModels are the meshes placed by Demo.
type DemoModels struct {
	Figure   *Model
	Cube     *Model
	Column   *Model
	Platform *Model
}

// NewDemoModels generates the demo meshes. A non-nil figure replaces the generated one.
func NewDemoModels(figure *Model) (DemoModels, error) {
	m := DemoModels{Figure: figure}

	if m.Figure == nil {
		g, err := model.NewCylinder(24, 1, 2)
		if err != nil {
			return m, err
		}
		if m.Figure, err = NewGroupModel("figure", g); err != nil {
			return m, err
		}
	}

	column, err := model.NewCylinder(12, 1, 4.4)
	if err != nil {
		return m, err
	}
	if m.Column, err = NewGroupModel("column", column); err != nil {
		return m, err
	}
	if m.Cube, err = NewGroupModel("cube", model.NewBox(math.Vec3{X: 1, Y: 1, Z: 1})); err != nil {
		return m, err
	}
	if m.Platform, err = NewGroupModel("platform", model.NewBox(math.Vec3{X: 1, Y: 0.05, Z: 1})); err != nil {
		return m, err
	}
	return m, nil
}

func uniform(s float32) math.Vec3 {
	return math.Vec3{X: s, Y: s, Z: s}
}

// Demo lays out the showcase scene at time t seconds: a turning figure, two
// rings of orbiting cubes, four columns, a ceiling and a platform.
func Demo(m DemoModels, t float32) []*Instance {
	var out []*Instance

	out = append(out, NewInstance("figure", m.Figure, shadow.Transform{
		Scale:       uniform(5),
		Rotation:    math.Vec3{Y: 4 - t*0.7},
		Translation: math.Vec3{Y: 10},
	}))

	const numCubes = 9
	for _, y := range []float32{6, 22} {
		for i := 0; i < numCubes; i++ {
			a := float64(i)*2 + 13 + float64(t)*1.1
			out = append(out, NewInstance(fmt.Sprintf("cube_%v_%d", y, i), m.Cube, shadow.Transform{
				Scale: uniform(1),
				Translation: math.Vec3{
					X: float32(gomath.Sin(a) * 13),
					Y: y,
					Z: float32(gomath.Cos(a) * 13),
				},
			}))
		}
	}

	const dist = 16
	columns := [4]math.Vec3{
		{X: dist, Y: 3.3, Z: dist},
		{X: -dist, Y: 3.3, Z: dist},
		{X: dist, Y: 3.3, Z: -dist},
		{X: -dist, Y: 3.3, Z: -dist},
	}
	for i, pos := range columns {
		out = append(out, NewInstance(fmt.Sprintf("column_%d", i), m.Column, shadow.Transform{
			Scale:       uniform(1.5),
			Rotation:    math.Vec3{Y: 1.57},
			Translation: pos,
		}))
	}

	ceiling := NewInstance("ceiling", m.Platform, shadow.Transform{
		Scale:       uniform(21),
		Rotation:    math.Vec3{X: gomath.Pi},
		Translation: math.Vec3{Y: 28.2},
	})
	ceiling.ExtrusionDistance = PlatformExtrusionDistance

	platform := NewInstance("platform", m.Platform, shadow.Transform{
		Scale: uniform(24),
	})
	platform.ExtrusionDistance = PlatformExtrusionDistance

	return append(out, ceiling, platform)
}

// Spiral places n copies of m on a square spiral with 20 unit steps, all
// turned half way around Y.
func Spiral(m *Model, n int) []*Instance {
	const step = 20

	out := make([]*Instance, 0, n)
	var x, z float32
	dir, runLen, turnAt := 0, 0, float32(1)
	for i := 0; i < n; i++ {
		out = append(out, NewInstance(fmt.Sprintf("%s_%d", m.Name, i), m, shadow.Transform{
			Scale:       uniform(5),
			Rotation:    math.Vec3{Y: gomath.Pi},
			Translation: math.Vec3{X: x, Z: z},
		}))

		runLen++
		if float32(runLen) >= float32(gomath.Floor(float64(turnAt)/2)) {
			dir = (dir + 1) % 4
			runLen = 0
			turnAt++
		}

		switch dir {
		case 0:
			x -= step
		case 1:
			z -= step
		case 2:
			x += step
		case 3:
			z += step
		}
	}
	return out
}
