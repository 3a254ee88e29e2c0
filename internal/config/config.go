// Package config handles shadow pipeline configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/stencil-shadows/internal/engine/lighting"
	"github.com/Faultbox/stencil-shadows/internal/engine/scene"
	"github.com/Faultbox/stencil-shadows/internal/engine/shadow"
	"github.com/Faultbox/stencil-shadows/internal/logger"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Shadow  ShadowConfig  `yaml:"shadow"`
	Camera  CameraConfig  `yaml:"camera"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// ShadowConfig selects how volumes are built.
type ShadowConfig struct {
	Technique         string  `yaml:"technique"` // depth_pass or depth_fail, used when Mixed is off
	Algorithm         string  `yaml:"algorithm"` // face_based or edge_based
	TextureAsStencil  bool    `yaml:"texture_as_stencil"`
	Mixed             bool    `yaml:"mixed"` // Pick the technique per caster with the near clip volume
	ExtrusionDistance float32 `yaml:"extrusion_distance"`
	MaxSideVertices   int     `yaml:"max_side_vertices"` // 0 = 16-bit index range
	Workers           int     `yaml:"workers"`           // Parallel builders, 1 = sequential
}

// CameraConfig holds the viewer placement and lens.
type CameraConfig struct {
	Eye    [3]float32 `yaml:"eye"`
	At     [3]float32 `yaml:"at"`
	FovY   float32    `yaml:"fov_y"` // degrees
	Aspect float32    `yaml:"aspect"`
	Near   float32    `yaml:"near"`
	Far    float32    `yaml:"far"`
}

// SceneConfig holds the demo scene and bench settings.
type SceneConfig struct {
	Layout        string        `yaml:"layout"`         // demo or spiral
	InstanceCount int           `yaml:"instance_count"` // Spiral length
	Lights        int           `yaml:"lights"`
	LightPattern  string        `yaml:"light_pattern"`      // ring or arc
	Sun           []float32     `yaml:"sun,flow,omitempty"` // Optional [lon, lat] degrees of an extra directional light
	Frames        int           `yaml:"frames"`
	FrameTime     time.Duration `yaml:"frame_time"` // Simulated time step between frames
	MeshFiles     []string      `yaml:"mesh_files"` // Optional caster meshes replacing the generated shapes
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Shadow: ShadowConfig{
			Technique:         shadow.DepthFail.String(),
			Algorithm:         shadow.FaceBased.String(),
			TextureAsStencil:  false,
			Mixed:             true,
			ExtrusionDistance: 150,
			MaxSideVertices:   0,
			Workers:           1,
		},
		Camera: CameraConfig{
			Eye:    [3]float32{3, 20, -58},
			At:     [3]float32{3, 5, 0},
			FovY:   60,
			Aspect: 16.0 / 9.0,
			Near:   1,
			Far:    1000,
		},
		Scene: SceneConfig{
			Layout:        scene.LayoutDemo.String(),
			InstanceCount: scene.DefaultSpiralInstances,
			Lights:        1,
			LightPattern:  lighting.PatternRing.String(),
			Frames:        60,
			FrameTime:     16 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks enum strings and numeric ranges.
func (c *Config) Validate() error {
	var errs []error
	if _, err := shadow.ParseTechnique(c.Shadow.Technique); err != nil {
		errs = append(errs, err)
	}
	if _, err := shadow.ParseAlgorithm(c.Shadow.Algorithm); err != nil {
		errs = append(errs, err)
	}
	if _, err := lighting.ParsePattern(c.Scene.LightPattern); err != nil {
		errs = append(errs, err)
	}
	if _, err := scene.ParseLayout(c.Scene.Layout); err != nil {
		errs = append(errs, err)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Shadow.ExtrusionDistance <= 0 {
		errs = append(errs, fmt.Errorf("extrusion_distance %v must be positive", c.Shadow.ExtrusionDistance))
	}
	if c.Shadow.MaxSideVertices < 0 {
		errs = append(errs, fmt.Errorf("max_side_vertices %d must not be negative", c.Shadow.MaxSideVertices))
	}
	if c.Shadow.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers %d must be at least 1", c.Shadow.Workers))
	}
	if c.Scene.Lights < 0 || c.Scene.Lights > lighting.MaxLights {
		errs = append(errs, fmt.Errorf("lights %d out of range [0, %d]", c.Scene.Lights, lighting.MaxLights))
	}
	if c.Scene.InstanceCount < 1 || c.Scene.InstanceCount > scene.MaxSpiralInstances {
		errs = append(errs, fmt.Errorf("instance_count %d out of range [1, %d]", c.Scene.InstanceCount, scene.MaxSpiralInstances))
	}
	if n := len(c.Scene.Sun); n != 0 && n != 2 {
		errs = append(errs, fmt.Errorf("sun has %d values, want [lon, lat]", n))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera planes near=%v far=%v", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 || c.Camera.Aspect <= 0 {
		errs = append(errs, fmt.Errorf("camera lens fov_y=%v aspect=%v", c.Camera.FovY, c.Camera.Aspect))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// SunLight returns the configured sun, if any.
func (s SceneConfig) SunLight() (lighting.Light, bool) {
	if len(s.Sun) != 2 {
		return lighting.Light{}, false
	}
	return lighting.SunLight(s.Sun[0], s.Sun[1]), true
}

// Options converts the shadow section into extractor options.
// The technique is the fixed one; Mixed overrides it per caster.
func (s ShadowConfig) Options() (shadow.Options, error) {
	tech, err := shadow.ParseTechnique(s.Technique)
	if err != nil {
		return shadow.Options{}, err
	}
	alg, err := shadow.ParseAlgorithm(s.Algorithm)
	if err != nil {
		return shadow.Options{}, err
	}
	return shadow.Options{
		Technique:        tech,
		Algorithm:        alg,
		TextureAsStencil: s.TextureAsStencil,
		MaxSideVertices:  s.MaxSideVertices,
	}, nil
}
