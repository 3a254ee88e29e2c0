package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/Faultbox/stencil-shadows/internal/engine/model"
	"github.com/Faultbox/stencil-shadows/pkg/formats"
	"github.com/Faultbox/stencil-shadows/pkg/math"
)

// shapeOptions are the generator parameters shared by gen and dump.
type shapeOptions struct {
	half     float64
	segments int
	radius   float64
	height   float64
	flip     bool
}

func (o *shapeOptions) register(fs *flag.FlagSet) {
	fs.Float64Var(&o.half, "half", 0.5, "Box half extent")
	fs.IntVar(&o.segments, "segments", 16, "Cylinder segments")
	fs.Float64Var(&o.radius, "radius", 1, "Cylinder radius")
	fs.Float64Var(&o.height, "height", 2, "Cylinder height")
	fs.BoolVar(&o.flip, "flip", false, "Reverse triangle winding")
}

var errUnknownShape = errors.New("unknown shape")

func isShape(name string) bool {
	return name == "box" || name == "cylinder"
}

// build generates the named shape.
func (o *shapeOptions) build(name string) (*model.Group, error) {
	var g *model.Group
	switch name {
	case "box":
		h := float32(o.half)
		g = model.NewBox(math.Vec3{X: h, Y: h, Z: h})
	case "cylinder":
		var err error
		if g, err = model.NewCylinder(o.segments, float32(o.radius), float32(o.height)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w %q", errUnknownShape, name)
	}
	if o.flip {
		g = g.ReverseWinding()
	}
	return g, nil
}

func cmdGen(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	var shape shapeOptions
	shape.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errors.New("usage: svtool gen [options] <box|cylinder> <out.bin>")
	}

	g, err := shape.build(fs.Arg(0))
	if err != nil {
		return err
	}
	g.Material = fs.Arg(0)

	mesh := &model.Mesh{Name: fs.Arg(0), Groups: []*model.Group{g}}
	if err := formats.SaveMesh(fs.Arg(1), mesh.ToMeshFile()); err != nil {
		return err
	}

	fmt.Fprintf(w, "Wrote %s: %d vertices, %d triangles\n", fs.Arg(1), g.VertexCount(), g.TriangleCount())
	return nil
}
