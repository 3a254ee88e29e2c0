package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/Faultbox/stencil-shadows/internal/engine/model"
	"github.com/Faultbox/stencil-shadows/internal/engine/shadow"
)

func cmdInfo(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: svtool info <mesh.bin>")
	}

	mesh, err := model.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Mesh:      %s\n", fs.Arg(0))
	fmt.Fprintf(w, "Groups:    %d\n", len(mesh.Groups))
	fmt.Fprintf(w, "Vertices:  %d\n", mesh.VertexCount())
	fmt.Fprintf(w, "Triangles: %d\n", mesh.TriangleCount())

	for i, g := range mesh.Groups {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Group %d:\n", i)
		fmt.Fprintf(w, "  Stride:    %d\n", g.Stride)
		fmt.Fprintf(w, "  Vertices:  %d\n", g.VertexCount())
		fmt.Fprintf(w, "  Triangles: %d\n", g.TriangleCount())
		fmt.Fprintf(w, "  Bounds:    %v - %v\n", g.Bounds.Min, g.Bounds.Max)
		fmt.Fprintf(w, "  Sphere:    center %v radius %.3f\n", g.Sphere.Center.Array(), g.Sphere.Radius)
		if g.Material != "" {
			fmt.Fprintf(w, "  Material:  %s\n", g.Material)
		}

		adj, err := shadow.BuildAdjacency(g)
		if err != nil {
			fmt.Fprintf(w, "  Topology:  %v\n", err)
			continue
		}
		fmt.Fprintf(w, "  Edges:     %d (%d open)\n", len(adj.Edges), adj.OpenEdges())
		fmt.Fprintf(w, "  Closed:    %v\n", adj.Closed())
	}
	return nil
}
