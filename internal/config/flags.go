package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// Flags holds command-line overrides bound to a flag set.
type Flags struct {
	Config         string
	Debug          bool
	Technique      string
	Algorithm      string
	TextureStencil bool
	Mixed          string // "", "on" or "off"
	Lights         int
	Pattern        string
	Sun            string // "lon,lat" in degrees
	Layout         string
	Instances      int
	Frames         int
	Workers        int
}

// RegisterFlags binds the override flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Technique, "technique", "", "Shadow technique: depth_pass or depth_fail")
	fs.StringVar(&f.Algorithm, "algorithm", "", "Silhouette algorithm: face or edge")
	fs.BoolVar(&f.TextureStencil, "texture-stencil", false, "Accumulate into a texture instead of the stencil buffer")
	fs.StringVar(&f.Mixed, "mixed", "", "Per-caster technique selection: on or off")
	fs.IntVar(&f.Lights, "lights", 0, "Number of lights")
	fs.StringVar(&f.Pattern, "pattern", "", "Light pattern: ring or arc")
	fs.StringVar(&f.Sun, "sun", "", "Add a directional sun at lon,lat degrees")
	fs.StringVar(&f.Layout, "layout", "", "Caster layout: demo or spiral")
	fs.IntVar(&f.Instances, "instances", 0, "Spiral instance count")
	fs.IntVar(&f.Frames, "frames", 0, "Frames to build")
	fs.IntVar(&f.Workers, "workers", 0, "Parallel volume builders")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) error {
	if f == nil {
		return nil
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Technique != "" {
		cfg.Shadow.Technique = f.Technique
		// An explicit technique only sticks without per-caster selection.
		cfg.Shadow.Mixed = false
	}
	if f.Algorithm != "" {
		cfg.Shadow.Algorithm = f.Algorithm
	}
	if f.TextureStencil {
		cfg.Shadow.TextureAsStencil = true
	}
	switch strings.ToLower(f.Mixed) {
	case "":
	case "on", "true":
		cfg.Shadow.Mixed = true
	case "off", "false":
		cfg.Shadow.Mixed = false
	default:
		return fmt.Errorf("%w: -mixed %q: want on or off", ErrInvalid, f.Mixed)
	}
	if f.Lights > 0 {
		cfg.Scene.Lights = f.Lights
	}
	if f.Pattern != "" {
		cfg.Scene.LightPattern = f.Pattern
	}
	if f.Sun != "" {
		sun, err := parseSun(f.Sun)
		if err != nil {
			return err
		}
		cfg.Scene.Sun = sun
	}
	if f.Layout != "" {
		cfg.Scene.Layout = f.Layout
	}
	if f.Instances > 0 {
		cfg.Scene.InstanceCount = f.Instances
	}
	if f.Frames > 0 {
		cfg.Scene.Frames = f.Frames
	}
	if f.Workers > 0 {
		cfg.Shadow.Workers = f.Workers
	}
	return nil
}

func parseSun(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: -sun %q: want lon,lat", ErrInvalid, s)
	}
	out := make([]float32, 2)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("%w: -sun %q: %w", ErrInvalid, s, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}
