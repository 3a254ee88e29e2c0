package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/stencil-shadows/internal/config"
	"github.com/Faultbox/stencil-shadows/internal/engine/camera"
	"github.com/Faultbox/stencil-shadows/internal/engine/lighting"
	"github.com/Faultbox/stencil-shadows/internal/engine/picking"
	"github.com/Faultbox/stencil-shadows/internal/engine/scene"
	"github.com/Faultbox/stencil-shadows/internal/logger"
	"github.com/Faultbox/stencil-shadows/pkg/math"
)

func cmdBench(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	orbit := fs.Bool("orbit", false, "Frame the first frame's casters with an orbit camera")
	pickAt := fs.String("pick", "", "Report the caster under pixel x,y of the last frame")
	saveConfig := fs.String("save-config", "", "Write the effective config to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
		fileCfg.JSON = cfg.Logging.JSON
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		return err
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	if *saveConfig != "" {
		if err := cfg.SaveTo(*saveConfig); err != nil {
			return err
		}
		logger.Info("config saved", zap.String("path", *saveConfig))
	}

	s, err := newBenchScene(cfg)
	if err != nil {
		return err
	}

	pattern, err := lighting.ParsePattern(cfg.Scene.LightPattern)
	if err != nil {
		return err
	}

	layout, err := scene.ParseLayout(cfg.Scene.Layout)
	if err != nil {
		return err
	}
	sun, hasSun := cfg.Scene.SunLight()

	models, err := demoModels(cfg.Scene.MeshFiles)
	if err != nil {
		return err
	}

	if *orbit {
		fitOrbitCamera(s, layout.Casters(models, cfg.Scene.InstanceCount, 0))
	}

	var total scene.FrameStats
	var rec scene.Recorder
	ctx := context.Background()
	start := time.Now()

	for frame := 0; frame < cfg.Scene.Frames; frame++ {
		t := float32((time.Duration(frame) * cfg.Scene.FrameTime).Seconds())
		s.Casters = layout.Casters(models, cfg.Scene.InstanceCount, t)
		for _, c := range s.Casters {
			if c.Model != models.Platform {
				c.ExtrusionDistance = cfg.Shadow.ExtrusionDistance
			}
		}
		s.Lights = pattern.Lights(cfg.Scene.Lights, t)
		if hasSun {
			s.Lights = append(s.Lights, sun)
		}

		var stats scene.FrameStats
		if cfg.Shadow.Workers > 1 {
			var calls []scene.DrawCall
			calls, stats, err = s.BuildParallel(ctx, cfg.Shadow.Workers)
			for _, c := range calls {
				rec.Submit(c)
			}
		} else {
			stats, err = s.RenderShadows(&rec)
		}
		if err != nil {
			logger.Error("frame failed", zap.Int("frame", frame), zap.Error(err))
			return err
		}
		rec.Reset()

		total.Add(stats)
	}
	elapsed := time.Since(start)

	logger.Info("bench finished",
		zap.Int("frames", cfg.Scene.Frames),
		zap.Int("workers", cfg.Shadow.Workers),
		zap.Duration("elapsed", elapsed),
		zap.Object("totals", total),
	)

	frames := cfg.Scene.Frames
	if frames == 0 {
		frames = 1
	}
	fmt.Fprintf(w, "Frames:      %d\n", cfg.Scene.Frames)
	fmt.Fprintf(w, "Layout:      %s (%d casters)\n", layout, len(s.Casters))
	fmt.Fprintf(w, "Lights:      %d (%s)\n", cfg.Scene.Lights, pattern)
	if hasSun {
		fmt.Fprintf(w, "Sun:         lon %v lat %v\n", cfg.Scene.Sun[0], cfg.Scene.Sun[1])
	}
	fmt.Fprintf(w, "Algorithm:   %s\n", cfg.Shadow.Algorithm)
	fmt.Fprintf(w, "Mixed:       %v\n", cfg.Shadow.Mixed)
	fmt.Fprintf(w, "Workers:     %d\n", cfg.Shadow.Workers)
	fmt.Fprintf(w, "Volumes:     %d per frame\n", total.Volumes/frames)
	fmt.Fprintf(w, "Vertices:    %d per frame\n", total.Vertices/frames)
	fmt.Fprintf(w, "Indices:     %d per frame\n", total.Indices/frames)
	fmt.Fprintf(w, "Depth fail:  %d / pass: %d\n", total.DepthFail, total.DepthPass)
	fmt.Fprintf(w, "Frame time:  %v avg\n", total.Duration/time.Duration(frames))

	if *pickAt != "" {
		return printPick(w, s, *pickAt)
	}
	return nil
}

// pickWidth is the viewport width -pick coordinates refer to; the height
// follows the camera aspect.
const pickWidth = 1280

// printPick casts a ray through pixel x,y and reports the nearest caster, or
// where the ray meets the ground plane when it misses.
func printPick(w io.Writer, s *scene.Scene, at string) error {
	px, err := parseVec2(at)
	if err != nil {
		return err
	}
	height := float32(pickWidth) / s.Camera.Aspect

	ray := picking.ScreenToRay(px[0], px[1], pickWidth, height, s.Camera.ViewProjection().Inverse())
	if ci, dist, ok := s.Pick(ray); ok {
		fmt.Fprintf(w, "Pick:        %s at distance %.2f\n", s.Casters[ci].Name, dist)
		return nil
	}
	if x, z, ok := ray.IntersectPlaneY(0); ok {
		fmt.Fprintf(w, "Pick:        ground at %.2f, %.2f\n", x, z)
		return nil
	}
	fmt.Fprintln(w, "Pick:        nothing")
	return nil
}

func newBenchScene(cfg *config.Config) (*scene.Scene, error) {
	opts, err := cfg.Shadow.Options()
	if err != nil {
		return nil, err
	}

	cam := camera.New(math.V3(cfg.Camera.Eye), math.V3(cfg.Camera.At))
	cam.Lens = camera.Lens{
		FovY:   cfg.Camera.FovY,
		Aspect: cfg.Camera.Aspect,
		Near:   cfg.Camera.Near,
		Far:    cfg.Camera.Far,
	}

	return scene.New(cam, scene.Settings{
		Options: opts,
		Mixed:   cfg.Shadow.Mixed,
	}), nil
}

// fitOrbitCamera replaces the scene camera with an orbit camera around the casters' bounds.
func fitOrbitCamera(s *scene.Scene, casters []*scene.Instance) {
	framed := scene.Scene{Casters: casters}
	box, ok := framed.Bounds()
	if !ok {
		return
	}

	orbit := camera.NewOrbitCamera()
	orbit.Lens = s.Camera.Lens
	orbit.FitToBounds(box.Min, box.Max)
	s.Camera = orbit.Camera()
	logger.Debug("orbit camera fitted",
		zap.Float32("distance", orbit.Distance),
		zap.Any("center", orbit.Center),
	)
}

// demoModels generates the demo meshes, using the first mesh file as the figure when given.
func demoModels(meshFiles []string) (scene.DemoModels, error) {
	var figure *scene.Model
	if len(meshFiles) > 0 {
		m, err := scene.LoadModel(meshFiles[0])
		if err != nil {
			return scene.DemoModels{}, err
		}
		figure = m
	}
	return scene.NewDemoModels(figure)
}
