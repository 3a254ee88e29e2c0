// Package scene drives shadow volume construction for a frame: every caster
// against every light, with the technique chosen per caster and the results
// handed to a renderer as draw calls.
package scene

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/stencil-shadows/internal/engine/camera"
	"github.com/Faultbox/stencil-shadows/internal/engine/lighting"
	"github.com/Faultbox/stencil-shadows/internal/engine/shadow"
	"github.com/Faultbox/stencil-shadows/internal/logger"
)

// ErrNoCamera is returned when per-caster selection is on without a camera.
var ErrNoCamera = errors.New("mixed technique needs a camera")

// Settings select how the frame's volumes are built.
type Settings struct {
	// Options.Technique is used for every caster unless Mixed is set.
	Options shadow.Options
	// Mixed picks depth-fail for casters that may cover the near plane and
	// depth-pass for the rest.
	Mixed bool
	// DebugLines adds wireframe calls for every volume part.
	DebugLines bool
}

// Scene holds the casters and lights of a frame.
type Scene struct {
	Casters  []*Instance
	Lights   []lighting.Light
	Camera   *camera.Camera
	Settings Settings

	log *zap.Logger
}

// New creates an empty scene.
func New(cam *camera.Camera, settings Settings) *Scene {
	return &Scene{
		Camera:   cam,
		Settings: settings,
		log:      logger.Named("scene"),
	}
}

// AddCaster appends an instance.
func (s *Scene) AddCaster(inst *Instance) {
	s.Casters = append(s.Casters, inst)
}

// RenderShadows builds the frame's volumes and submits them to r, light by
// light, caster by caster, sides before caps.
func (s *Scene) RenderShadows(r Renderer) (FrameStats, error) {
	calls, stats, err := s.Build()
	if err != nil {
		return stats, err
	}
	for _, c := range calls {
		r.Submit(c)
	}
	return stats, nil
}

// Build builds the frame's draw calls on the calling goroutine.
func (s *Scene) Build() ([]DrawCall, FrameStats, error) {
	start := time.Now()
	clips, err := s.clipVolumes()
	if err != nil {
		return nil, FrameStats{}, err
	}

	stats := s.newStats()
	var calls []DrawCall
	for li := range s.Lights {
		for ci := range s.Casters {
			c, st, err := s.buildCaster(li, ci, clips[li], (*Model).Extractor)
			if err != nil {
				return nil, FrameStats{}, err
			}
			calls = append(calls, c...)
			stats.Add(st)
		}
	}

	stats.Duration = time.Since(start)
	s.lg().Debug("shadow frame built", zap.Object("stats", stats))
	return calls, stats, nil
}

// BuildParallel builds the same draw calls as Build with up to workers
// goroutines. Every worker owns its extractors; adjacency is shared. The
// result order does not depend on scheduling.
func (s *Scene) BuildParallel(ctx context.Context, workers int) ([]DrawCall, FrameStats, error) {
	start := time.Now()
	clips, err := s.clipVolumes()
	if err != nil {
		return nil, FrameStats{}, err
	}

	numJobs := len(s.Lights) * len(s.Casters)
	if workers < 1 {
		workers = 1
	}
	if workers > numJobs {
		workers = numJobs
	}

	type result struct {
		calls []DrawCall
		stats FrameStats
	}
	results := make([]result, numJobs)
	jobs := make(chan int)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for j := 0; j < numJobs; j++ {
			select {
			case jobs <- j:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			cache := make(extractorCache)
			for j := range jobs {
				li, ci := j/len(s.Casters), j%len(s.Casters)
				calls, st, err := s.buildCaster(li, ci, clips[li], cache.get)
				if err != nil {
					return err
				}
				results[j] = result{calls: calls, stats: st}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, FrameStats{}, err
	}

	stats := s.newStats()
	var calls []DrawCall
	for _, r := range results {
		calls = append(calls, r.calls...)
		stats.Add(r.stats)
	}

	stats.Duration = time.Since(start)
	s.lg().Debug("shadow frame built",
		zap.Int("workers", workers),
		zap.Object("stats", stats),
	)
	return calls, stats, nil
}

func (s *Scene) newStats() FrameStats {
	return FrameStats{Lights: len(s.Lights), Casters: len(s.Casters)}
}

// clipVolumes builds one near clip volume per light when Mixed is on.
func (s *Scene) clipVolumes() ([]*shadow.ClipVolume, error) {
	clips := make([]*shadow.ClipVolume, len(s.Lights))
	if !s.Settings.Mixed {
		return clips, nil
	}
	if s.Camera == nil {
		return nil, ErrNoCamera
	}

	view := s.Camera.ViewMatrix()
	for i, l := range s.Lights {
		clips[i] = shadow.NewNearClipVolume(l.Vec4(), view, s.Camera.FovY, s.Camera.Aspect, s.Camera.Near)
		if clips[i].Degenerate {
			s.lg().Debug("light on the near plane, depth-fail for every caster", zap.Int("light", i))
		}
	}
	return clips, nil
}

// buildCaster extracts every group of caster ci against light li.
func (s *Scene) buildCaster(li, ci int, clip *shadow.ClipVolume, extractor func(*Model, int) *shadow.Extractor) ([]DrawCall, FrameStats, error) {
	inst := s.Casters[ci]
	light := s.Lights[li].Vec4()

	opts := s.Settings.Options
	if clip != nil {
		opts.Technique = clip.Decide(inst.Model.Mesh, inst.Transform).Technique()
	}

	var stats FrameStats
	if opts.Technique == shadow.DepthFail {
		stats.DepthFail++
	} else {
		stats.DepthPass++
	}

	stencil := shadow.StencilFor(opts.TextureAsStencil)
	pass := shadow.CraftPass(shadow.PassKey{Technique: opts.Technique, Stencil: stencil})
	program := shadow.Program(shadow.ProgramKey{Algorithm: opts.Algorithm, Stencil: stencil})

	var calls []DrawCall
	for gi := 0; gi < inst.Model.NumGroups(); gi++ {
		vol, err := extractor(inst.Model, gi).ExtractInstance(light, inst.Transform, inst.ExtrusionDistance, opts)
		if err != nil {
			return nil, stats, fmt.Errorf("light %d caster %q group %d: %w", li, inst.Name, gi, err)
		}
		if vol.IsEmpty() {
			continue
		}

		stats.Volumes++
		stats.Vertices += vol.NumVertices()
		stats.Indices += vol.NumIndices()

		base := DrawCall{Light: li, Caster: ci, Group: gi, Volume: vol}
		calls = appendParts(calls, base, program, pass)
		if s.Settings.DebugLines {
			calls = appendParts(calls, base, shadow.ProgramColor, shadow.LinesPass)
		}
	}
	stats.DrawCalls = len(calls)
	return calls, stats, nil
}

// appendParts adds the side call and, for capped volumes, the front and back caps.
func appendParts(calls []DrawCall, base DrawCall, program shadow.ProgramType, pass shadow.RenderPass) []DrawCall {
	base.Program = program
	base.Pass = pass

	parts := []shadow.Part{shadow.PartSide}
	if base.Volume.Cap {
		parts = append(parts, shadow.PartFront, shadow.PartBack)
	}
	for _, p := range parts {
		c := base
		c.Part = p
		calls = append(calls, c)
	}
	return calls
}

func (s *Scene) lg() *zap.Logger {
	if s.log == nil {
		s.log = logger.Named("scene")
	}
	return s.log
}
