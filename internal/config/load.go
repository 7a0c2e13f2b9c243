package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Masterminds/semver/v3"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. PTOY_SCENE_DEPTH_FRACTION.
const EnvPrefix = "PTOY"

// supportedVersions is the range of config file versions this build reads.
const supportedVersions = "^1"

// Load loads configuration with priority: defaults < file < environment < flags.
func Load() (*Config, error) {
	return load(LoadedPath())
}

// load builds a config from path, or from defaults alone when path is
// empty, then overlays the environment and CLI flags.
func load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadedPath returns the file Load would read, or "" if there is none.
func LoadedPath() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	return findConfigFile()
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		userConfigFile(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "PerspectiveToy")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "PerspectiveToy")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "perspective-toy")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "perspective-toy")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return checkVersion(cfg.Version)
}

// applyEnv overlays PTOY_* environment variables. Unset variables keep
// the value already in cfg.
func applyEnv(cfg *Config) error {
	return envconfig.Process(EnvPrefix, cfg)
}

// checkVersion rejects config files written for an incompatible schema.
// An empty version is read as the current one.
func checkVersion(version string) error {
	if version == "" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", version, err)
	}
	c, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("unsupported config version %s (want %s)", v, supportedVersions)
	}
	return nil
}
