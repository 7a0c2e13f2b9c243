// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	gomath "math"
)

// SchemaVersion is the config file format written by Save.
const SchemaVersion = "1.0.0"

// Config holds all application settings.
type Config struct {
	Version    string           `yaml:"version" ignored:"true"`
	Graphics   GraphicsConfig   `yaml:"graphics" envconfig:"graphics"`
	Scene      SceneConfig      `yaml:"scene" envconfig:"scene"`
	Input      InputConfig      `yaml:"input" envconfig:"input"`
	Screenshot ScreenshotConfig `yaml:"screenshot" envconfig:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"logging"`
}

// GraphicsConfig holds window settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width" envconfig:"width"`
	Height     int  `yaml:"height" envconfig:"height"`
	Fullscreen bool `yaml:"fullscreen" envconfig:"fullscreen"`
	VSync      bool `yaml:"vsync" envconfig:"vsync"`
}

// SceneConfig holds drawing parameters.
type SceneConfig struct {
	HorizonY      float64 `yaml:"horizon_y" envconfig:"horizon_y"`
	DepthFraction float64 `yaml:"depth_fraction" envconfig:"depth_fraction"`
	HandleSize    float64 `yaml:"handle_size" envconfig:"handle_size"`
	DotRadius     float64 `yaml:"dot_radius" envconfig:"dot_radius"`
	StartWithCube bool    `yaml:"start_with_cube" envconfig:"start_with_cube"`
}

// InputConfig holds pointer settings.
type InputConfig struct {
	DragDeadZone float64 `yaml:"drag_dead_zone" envconfig:"drag_dead_zone"`
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir" envconfig:"dir"`
	Prefix string `yaml:"prefix" envconfig:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" envconfig:"level"`
	LogFile string `yaml:"log_file" envconfig:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: SchemaVersion,
		Graphics: GraphicsConfig{
			Width:      1024,
			Height:     800,
			Fullscreen: false,
			VSync:      true,
		},
		Scene: SceneConfig{
			HorizonY:      400,
			DepthFraction: 0.25,
			HandleSize:    10,
			DotRadius:     4,
			StartWithCube: true,
		},
		Input: InputConfig{
			DragDeadZone: 4,
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Prefix: "perspective",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that would break drawing or input.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if gomath.IsNaN(c.Scene.DepthFraction) || gomath.IsInf(c.Scene.DepthFraction, 0) {
		return fmt.Errorf("scene: depth_fraction must be finite")
	}
	if c.Scene.HandleSize <= 0 {
		return fmt.Errorf("scene: handle_size must be positive, got %v", c.Scene.HandleSize)
	}
	if c.Scene.DotRadius <= 0 {
		return fmt.Errorf("scene: dot_radius must be positive, got %v", c.Scene.DotRadius)
	}
	if c.Input.DragDeadZone < 0 {
		return fmt.Errorf("input: drag_dead_zone must not be negative, got %v", c.Input.DragDeadZone)
	}
	return nil
}
