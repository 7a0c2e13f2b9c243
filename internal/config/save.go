package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Save writes the config to the user's config directory.
func (c *Config) Save() error {
	return c.SaveTo(userConfigFile())
}

// EnsureFile returns the config file Load reads. When there is none yet,
// the defaults are saved to the user's config directory first so the
// file can be edited and watched.
func EnsureFile() (string, error) {
	if path := LoadedPath(); path != "" {
		return path, nil
	}
	if err := Default().Save(); err != nil {
		return "", fmt.Errorf("write default config: %w", err)
	}
	return userConfigFile(), nil
}

func userConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// SaveTo writes the config to a specific path, stamping the schema version.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	out := *c
	out.Version = SchemaVersion
	data, err := yaml.Marshal(&out)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
