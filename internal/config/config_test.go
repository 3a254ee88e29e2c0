package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/stencil-shadows/internal/engine/scene"
	"github.com/Faultbox/stencil-shadows/internal/engine/shadow"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Shadow.Technique != "depth_fail" {
		t.Errorf("expected technique depth_fail, got %s", cfg.Shadow.Technique)
	}
	if cfg.Shadow.Algorithm != "face_based" {
		t.Errorf("expected algorithm face_based, got %s", cfg.Shadow.Algorithm)
	}
	if !cfg.Shadow.Mixed {
		t.Error("expected mixed to be enabled by default")
	}
	if cfg.Shadow.ExtrusionDistance != 150 {
		t.Errorf("expected extrusion distance 150, got %v", cfg.Shadow.ExtrusionDistance)
	}

	if cfg.Camera.Eye != [3]float32{3, 20, -58} {
		t.Errorf("unexpected camera eye %v", cfg.Camera.Eye)
	}
	if cfg.Camera.FovY != 60 || cfg.Camera.Near != 1 || cfg.Camera.Far != 1000 {
		t.Errorf("unexpected lens %+v", cfg.Camera)
	}

	if cfg.Scene.Lights != 1 || cfg.Scene.LightPattern != "ring" {
		t.Errorf("unexpected scene defaults %+v", cfg.Scene)
	}
	if cfg.Scene.Layout != "demo" || cfg.Scene.InstanceCount != 9 || cfg.Scene.Sun != nil {
		t.Errorf("unexpected layout defaults %+v", cfg.Scene)
	}
	if _, ok := cfg.Scene.SunLight(); ok {
		t.Error("no sun expected by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
shadow:
  technique: depth_pass
  algorithm: edge_based
  texture_as_stencil: true
  mixed: false
  extrusion_distance: 80
  max_side_vertices: 4096
  workers: 4

camera:
  eye: [0, 10, 30]
  at: [0, 0, 0]
  fov_y: 45

scene:
  layout: spiral
  instance_count: 16
  lights: 3
  light_pattern: arc
  sun: [30, 45]
  frames: 10
  frame_time: 33ms
  mesh_files: [bunny.bin]

logging:
  level: "debug"
  log_file: "shadow.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Shadow.Technique != "depth_pass" || cfg.Shadow.Algorithm != "edge_based" {
		t.Errorf("unexpected technique/algorithm %+v", cfg.Shadow)
	}
	if !cfg.Shadow.TextureAsStencil || cfg.Shadow.Mixed {
		t.Errorf("unexpected stencil/mixed %+v", cfg.Shadow)
	}
	if cfg.Shadow.ExtrusionDistance != 80 || cfg.Shadow.MaxSideVertices != 4096 || cfg.Shadow.Workers != 4 {
		t.Errorf("unexpected numbers %+v", cfg.Shadow)
	}

	if cfg.Camera.Eye != [3]float32{0, 10, 30} || cfg.Camera.FovY != 45 {
		t.Errorf("unexpected camera %+v", cfg.Camera)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Camera.Near != 1 {
		t.Errorf("expected near 1 to survive the merge, got %v", cfg.Camera.Near)
	}

	if cfg.Scene.Layout != "spiral" || cfg.Scene.InstanceCount != 16 {
		t.Errorf("unexpected layout %+v", cfg.Scene)
	}
	if sun, ok := cfg.Scene.SunLight(); !ok || !sun.Directional {
		t.Errorf("expected a directional sun from %v", cfg.Scene.Sun)
	}
	if cfg.Scene.FrameTime != 33*time.Millisecond {
		t.Errorf("expected frame time 33ms, got %v", cfg.Scene.FrameTime)
	}
	if len(cfg.Scene.MeshFiles) != 1 || cfg.Scene.MeshFiles[0] != "bunny.bin" {
		t.Errorf("unexpected mesh files %v", cfg.Scene.MeshFiles)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "shadow.log" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
shadow:
  workers: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileStrict(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"unknown key", "shadow:\n  extrude: 10\n", true},
		{"unknown section", "render:\n  vsync: true\n", true},
		{"empty file", "", false},
		{"comment only", "# nothing yet\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg := Default()
			err := loadFromFile(cfg, path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadFromFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.Shadow.ExtrusionDistance != 150 {
				t.Errorf("defaults changed by an empty file: %+v", cfg.Shadow)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)
	path := filepath.Join(tmpDir, "env.yaml")
	if err := os.WriteFile(path, []byte("scene:\n  frames: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Scene.Frames != 7 {
		t.Errorf("expected 7 frames from %s, got %d", EnvConfigPath, cfg.Scene.Frames)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"bad technique", func(c *Config) { c.Shadow.Technique = "stencil" }, shadow.ErrUnknownTechnique},
		{"bad algorithm", func(c *Config) { c.Shadow.Algorithm = "vertex" }, shadow.ErrUnknownAlgorithm},
		{"bad workers", func(c *Config) { c.Shadow.Workers = 0 }, ErrInvalid},
		{"too many lights", func(c *Config) { c.Scene.Lights = 9 }, ErrInvalid},
		{"bad extrusion", func(c *Config) { c.Shadow.ExtrusionDistance = 0 }, ErrInvalid},
		{"far before near", func(c *Config) { c.Camera.Far = 0.5 }, ErrInvalid},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, ErrInvalid},
		{"bad layout", func(c *Config) { c.Scene.Layout = "grid" }, scene.ErrUnknownLayout},
		{"too many instances", func(c *Config) { c.Scene.InstanceCount = 50 }, ErrInvalid},
		{"no instances", func(c *Config) { c.Scene.InstanceCount = 0 }, ErrInvalid},
		{"short sun", func(c *Config) { c.Scene.Sun = []float32{30} }, ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.target) {
				t.Errorf("Validate() = %v, want %v", err, tt.target)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want it to wrap ErrInvalid", err)
			}
		})
	}
}

func TestShadowOptions(t *testing.T) {
	sc := Default().Shadow
	sc.Algorithm = "edge"
	sc.TextureAsStencil = true
	sc.MaxSideVertices = 128

	opts, err := sc.Options()
	if err != nil {
		t.Fatalf("Options() failed: %v", err)
	}
	want := shadow.Options{
		Technique:        shadow.DepthFail,
		Algorithm:        shadow.EdgeBased,
		TextureAsStencil: true,
		MaxSideVertices:  128,
	}
	if opts != want {
		t.Errorf("Options() = %+v, want %+v", opts, want)
	}

	sc.Technique = "bogus"
	if _, err := sc.Options(); !errors.Is(err, shadow.ErrUnknownTechnique) {
		t.Errorf("expected ErrUnknownTechnique, got %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "svtool.yaml")
	if err := os.WriteFile(configPath, []byte("scene:\n  lights: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find svtool.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "technique disables mixed",
			args: []string{"-technique", "depth_pass"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Shadow.Technique != "depth_pass" || cfg.Shadow.Mixed {
					t.Errorf("unexpected shadow section %+v", cfg.Shadow)
				}
			},
		},
		{
			name: "technique with mixed on",
			args: []string{"-technique", "depth_pass", "-mixed", "on"},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Shadow.Mixed {
					t.Error("explicit -mixed on should win")
				}
			},
		},
		{
			name: "scene overrides",
			args: []string{"-lights", "4", "-pattern", "arc", "-frames", "3", "-workers", "8"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.Lights != 4 || cfg.Scene.LightPattern != "arc" || cfg.Scene.Frames != 3 {
					t.Errorf("unexpected scene %+v", cfg.Scene)
				}
				if cfg.Shadow.Workers != 8 {
					t.Errorf("expected 8 workers, got %d", cfg.Shadow.Workers)
				}
			},
		},
		{
			name: "mixed off",
			args: []string{"-mixed", "OFF"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Shadow.Mixed {
					t.Error("-mixed OFF should disable per-caster selection")
				}
			},
		},
		{
			name: "spiral with sun",
			args: []string{"-layout", "spiral", "-instances", "25", "-sun", "90, 30"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.Layout != "spiral" || cfg.Scene.InstanceCount != 25 {
					t.Errorf("unexpected scene %+v", cfg.Scene)
				}
				if len(cfg.Scene.Sun) != 2 || cfg.Scene.Sun[0] != 90 || cfg.Scene.Sun[1] != 30 {
					t.Errorf("unexpected sun %v", cfg.Scene.Sun)
				}
			},
		},
		{
			name: "edge with texture stencil",
			args: []string{"-algorithm", "edge", "-texture-stencil"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Shadow.Algorithm != "edge" || !cfg.Shadow.TextureAsStencil {
					t.Errorf("unexpected shadow section %+v", cfg.Shadow)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			flags := RegisterFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse %v: %v", tt.args, err)
			}

			cfg := Default()
			if err := flags.apply(cfg); err != nil {
				t.Fatalf("apply failed: %v", err)
			}
			tt.verify(t, cfg)
		})
	}
}

func TestApplyFlags_Rejects(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvConfigPath, "")

	tests := []struct {
		name string
		args []string
	}{
		{"mixed yes", []string{"-mixed", "yes"}},
		{"sun one value", []string{"-sun", "45"}},
		{"sun not numbers", []string{"-sun", "east,high"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			flags := RegisterFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse %v: %v", tt.args, err)
			}

			if err := flags.apply(Default()); !errors.Is(err, ErrInvalid) {
				t.Errorf("apply: expected ErrInvalid, got %v", err)
			}
			if _, err := Load(flags); !errors.Is(err, ErrInvalid) {
				t.Errorf("Load: expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
shadow:
  algorithm: edge_based
  workers: 2
scene:
  lights: 3
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", configPath, "-lights", "5"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Default survives, file overrides default, flag overrides file.
	if cfg.Shadow.ExtrusionDistance != 150 {
		t.Errorf("expected default extrusion 150, got %v", cfg.Shadow.ExtrusionDistance)
	}
	if cfg.Shadow.Algorithm != "edge_based" || cfg.Shadow.Workers != 2 {
		t.Errorf("file values not applied: %+v", cfg.Shadow)
	}
	if cfg.Scene.Lights != 5 {
		t.Errorf("expected flag to set 5 lights, got %d", cfg.Scene.Lights)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("shadow:\n  algorithm: vertex\n"), 0644); err != nil {
		t.Fatal(err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", configPath}); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(flags); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Shadow.Algorithm = "edge_based"
	cfg.Scene.FrameTime = 40 * time.Millisecond
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := &Config{}
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Shadow.Algorithm != "edge_based" || loaded.Scene.FrameTime != 40*time.Millisecond {
		t.Errorf("saved config did not reload: %+v", loaded)
	}
	if loaded.Camera != cfg.Camera {
		t.Errorf("camera section = %+v, want %+v", loaded.Camera, cfg.Camera)
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
