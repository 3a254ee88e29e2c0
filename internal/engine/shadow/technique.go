package shadow

import (
	"errors"
	"fmt"
	"strings"
)

// Option parsing errors.
var (
	ErrUnknownTechnique = errors.New("unknown shadow volume technique")
	ErrUnknownAlgorithm = errors.New("unknown shadow volume algorithm")
)

// Technique selects how the stencil is crafted from a volume.
type Technique int

const (
	// DepthPass counts volume faces in front of the scene. Fast, but wrong
	// when the camera sits inside a volume.
	DepthPass Technique = iota
	// DepthFail counts volume faces behind the scene and needs caps.
	DepthFail
)

func (t Technique) String() string {
	switch t {
	case DepthPass:
		return "depth_pass"
	case DepthFail:
		return "depth_fail"
	default:
		return fmt.Sprintf("Technique(%d)", int(t))
	}
}

// ParseTechnique parses "depth_pass" or "depth_fail".
func ParseTechnique(s string) (Technique, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "depth_pass", "zpass":
		return DepthPass, nil
	case "depth_fail", "zfail":
		return DepthFail, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTechnique, s)
}

// Algorithm selects how silhouette edges are found.
type Algorithm int

const (
	// FaceBased toggles directed half-edges of light-facing faces.
	FaceBased Algorithm = iota
	// EdgeBased sums signed facing per undirected edge.
	EdgeBased
)

func (a Algorithm) String() string {
	switch a {
	case FaceBased:
		return "face_based"
	case EdgeBased:
		return "edge_based"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm parses "face_based"/"face" or "edge_based"/"edge".
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "face_based", "face":
		return FaceBased, nil
	case "edge_based", "edge":
		return EdgeBased, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// Stencil is where stencil counts are accumulated.
type Stencil int

const (
	StencilBuffer Stencil = iota
	StencilTexture
)

func (s Stencil) String() string {
	if s == StencilTexture {
		return "texture"
	}
	return "buffer"
}

// StencilFor returns the stencil kind for the texture-as-stencil flag.
func StencilFor(textureAsStencil bool) Stencil {
	if textureAsStencil {
		return StencilTexture
	}
	return StencilBuffer
}

// Part is the piece of a volume being drawn.
type Part int

const (
	PartBack Part = iota
	PartSide
	PartFront
)

func (p Part) String() string {
	switch p {
	case PartBack:
		return "back"
	case PartSide:
		return "side"
	case PartFront:
		return "front"
	default:
		return fmt.Sprintf("Part(%d)", int(p))
	}
}

// ProgramType is the shader family used to draw volume parts.
type ProgramType int

const (
	ProgramBlank ProgramType = iota
	ProgramColor
	ProgramTex1
	ProgramTex2
)

func (p ProgramType) String() string {
	switch p {
	case ProgramBlank:
		return "blank"
	case ProgramColor:
		return "color"
	case ProgramTex1:
		return "tex1"
	case ProgramTex2:
		return "tex2"
	default:
		return fmt.Sprintf("ProgramType(%d)", int(p))
	}
}

// StencilOp is a stencil update.
type StencilOp int

const (
	OpKeep StencilOp = iota
	OpIncr
	OpDecr
)

func (o StencilOp) String() string {
	switch o {
	case OpIncr:
		return "incr"
	case OpDecr:
		return "decr"
	default:
		return "keep"
	}
}

// StencilFaceOps are the updates for one facing of volume polygons.
type StencilFaceOps struct {
	DepthFail StencilOp
	DepthPass StencilOp
}

// RenderPass describes the state used to craft the stencil from a volume.
// Texture passes accumulate counts with additive blending instead of stencil ops.
type RenderPass struct {
	Name      string
	DepthTest string
	Front     StencilFaceOps
	Back      StencilFaceOps
	Additive  bool
}

// PassKey selects a craft-stencil pass.
type PassKey struct {
	Technique Technique
	Stencil   Stencil
}

// ProgramKey selects a program family.
type ProgramKey struct {
	Algorithm Algorithm
	Stencil   Stencil
}

var craftPasses = map[PassKey]RenderPass{
	{DepthPass, StencilBuffer}: {
		Name:      "stencil_buffer_depth_pass",
		DepthTest: "lequal",
		Front:     StencilFaceOps{DepthPass: OpDecr},
		Back:      StencilFaceOps{DepthPass: OpIncr},
	},
	{DepthFail, StencilBuffer}: {
		Name:      "stencil_buffer_depth_fail",
		DepthTest: "lequal",
		Front:     StencilFaceOps{DepthFail: OpIncr},
		Back:      StencilFaceOps{DepthFail: OpDecr},
	},
	{DepthPass, StencilTexture}: {
		Name:      "stencil_texture_depth_pass",
		DepthTest: "lequal",
		Additive:  true,
	},
	{DepthFail, StencilTexture}: {
		Name:      "stencil_texture_depth_fail",
		DepthTest: "gequal",
		Additive:  true,
	},
}

// LinesPass draws volume wireframes with the color program. It leaves the stencil alone.
var LinesPass = RenderPass{
	Name:      "draw_shadow_volume_lines",
	DepthTest: "less",
}

var programs = map[ProgramKey]ProgramType{
	{FaceBased, StencilBuffer}:  ProgramBlank,
	{EdgeBased, StencilBuffer}:  ProgramBlank,
	{FaceBased, StencilTexture}: ProgramTex1,
	{EdgeBased, StencilTexture}: ProgramTex2,
}

// CraftPass returns the craft-stencil pass for k.
func CraftPass(k PassKey) RenderPass {
	return craftPasses[k]
}

// Program returns the program family for k.
func Program(k ProgramKey) ProgramType {
	return programs[k]
}

// TechniqueDecision is the per instance, per light technique choice.
type TechniqueDecision struct {
	UseDepthFail bool
}

// Technique returns the technique the decision selects.
func (d TechniqueDecision) Technique() Technique {
	if d.UseDepthFail {
		return DepthFail
	}
	return DepthPass
}
