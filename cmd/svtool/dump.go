package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/stencil-shadows/internal/engine/model"
	"github.com/Faultbox/stencil-shadows/internal/engine/shadow"
	"github.com/Faultbox/stencil-shadows/pkg/math"
)

type volumeDump struct {
	Mesh      string      `yaml:"mesh"`
	Light     [4]float32  `yaml:"light,flow"`
	Technique string      `yaml:"technique"`
	Algorithm string      `yaml:"algorithm"`
	Stencil   string      `yaml:"stencil"`
	Groups    []groupDump `yaml:"groups"`
}

type groupDump struct {
	Index         int          `yaml:"index"`
	Faces         int          `yaml:"faces"`
	Edges         int          `yaml:"edges"`
	Closed        bool         `yaml:"closed"`
	Silhouette    [][2]uint16  `yaml:"silhouette,flow"`
	SideVertices  int          `yaml:"side_vertices"`
	SideTriangles int          `yaml:"side_triangles"`
	FrontCap      int          `yaml:"front_cap"`
	BackCap       int          `yaml:"back_cap"`
	Vertices      []vertexDump `yaml:"vertices,omitempty"`
	Triangles     [][3]uint16  `yaml:"triangles,omitempty,flow"`
}

type vertexDump struct {
	Position [3]float32 `yaml:"position,flow"`
	Extrude  float32    `yaml:"extrude"`
	K        float32    `yaml:"k"`
}

func cmdDump(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	lightStr := fs.String("light", "0,5,0", "Light position x,y,z")
	directional := fs.Bool("directional", false, "Treat -light as a direction towards the light")
	algorithm := fs.String("algorithm", "face", "Silhouette algorithm: face or edge")
	technique := fs.String("technique", "depth_fail", "Shadow technique: depth_pass or depth_fail")
	textureStencil := fs.Bool("texture-stencil", false, "Accumulate into a texture instead of the stencil buffer")
	verbose := fs.Bool("v", false, "Include side vertices and triangles")
	var shape shapeOptions
	shape.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: svtool dump [options] <mesh.bin|box|cylinder>")
	}

	pos, err := parseVec3(*lightStr)
	if err != nil {
		return err
	}
	light := pos.Point()
	if *directional {
		light = pos.Direction()
	}

	opts := shadow.Options{TextureAsStencil: *textureStencil}
	if opts.Technique, err = shadow.ParseTechnique(*technique); err != nil {
		return err
	}
	if opts.Algorithm, err = shadow.ParseAlgorithm(*algorithm); err != nil {
		return err
	}

	mesh, err := loadMesh(fs.Arg(0), &shape)
	if err != nil {
		return err
	}

	out := volumeDump{
		Mesh:      fs.Arg(0),
		Light:     light,
		Technique: opts.Technique.String(),
		Algorithm: opts.Algorithm.String(),
		Stencil:   shadow.StencilFor(opts.TextureAsStencil).String(),
	}
	for i, g := range mesh.Groups {
		adj, err := shadow.BuildAdjacency(g)
		if err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
		vol, err := shadow.NewExtractor(adj).Extract(light, opts)
		if err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}

		gd := groupDump{
			Index:         i,
			Faces:         len(adj.Faces),
			Edges:         len(adj.Edges),
			Closed:        adj.Closed(),
			SideVertices:  vol.NumVertices(),
			SideTriangles: len(vol.Indices),
			FrontCap:      len(vol.FrontCap),
			BackCap:       len(vol.BackCap),
		}
		for _, e := range vol.Silhouette {
			gd.Silhouette = append(gd.Silhouette, [2]uint16{e.I0, e.I1})
		}
		if *verbose {
			for _, v := range vol.Vertices {
				gd.Vertices = append(gd.Vertices, vertexDump{Position: v.Position, Extrude: v.Extrude, K: v.K})
			}
			for _, t := range vol.Indices {
				gd.Triangles = append(gd.Triangles, [3]uint16(t))
			}
		}
		out.Groups = append(out.Groups, gd)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

// loadMesh reads a mesh file, or generates a shape when name is "box" or
// "cylinder" and no such file exists.
func loadMesh(name string, shape *shapeOptions) (*model.Mesh, error) {
	if _, err := os.Stat(name); err != nil && isShape(name) {
		g, err := shape.build(name)
		if err != nil {
			return nil, err
		}
		return &model.Mesh{Name: name, Groups: []*model.Group{g}}, nil
	}
	return model.Load(name)
}

func parseVec3(s string) (math.Vec3, error) {
	v, err := parseFloats(s, 3)
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func parseVec2(s string) ([2]float32, error) {
	v, err := parseFloats(s, 2)
	if err != nil {
		return [2]float32{}, err
	}
	return [2]float32{v[0], v[1]}, nil
}

// parseFloats reads n comma-separated numbers.
func parseFloats(s string, n int) ([]float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%q: want %d comma-separated numbers", s, n)
	}
	out := make([]float32, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}
