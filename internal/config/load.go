package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names a config file when no -config flag is given.
const EnvConfigPath = "SVTOOL_CONFIG"

const appDirName = "stencil-shadows"

// Load builds the configuration from defaults, then the config file, then
// flags, and validates the result. flags may be nil.
func Load(flags *Flags) (*Config, error) {
	cfg := Default()

	path := os.Getenv(EnvConfigPath)
	if flags != nil && flags.Config != "" {
		path = flags.Config
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := flags.apply(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first existing of ./svtool.yaml and
// ConfigDir()/config.yaml, or "".
func findConfigFile() string {
	for _, path := range []string{"svtool.yaml", filepath.Join(ConfigDir(), "config.yaml")} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory for this tool.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appDirName)
}

// loadFromFile decodes path over cfg. Keys not present in the file keep
// their current values; unknown keys are an error.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
