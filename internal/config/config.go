// Package config provides configuration loading for the viewer.
// Settings come from an optional YAML file; missing values fall back to
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the viewer configuration loaded from YAML.
type Config struct {
	// Display parameters for the three slice views
	Display struct {
		// LabelWidth and LabelHeight fix the slice view widget size
		LabelWidth  int `yaml:"labelWidth"`
		LabelHeight int `yaml:"labelHeight"`

		// DefaultZoom is the initial zoom factor for every view
		DefaultZoom float64 `yaml:"defaultZoom"`
	} `yaml:"display"`

	// Timing parameters for the cooperative timers
	Timing struct {
		// CrosshairRefreshMs is the crosshair overlay refresh period
		CrosshairRefreshMs int `yaml:"crosshairRefreshMs"`

		// PlaybackIntervalMs is the nominal autoplay tick period
		PlaybackIntervalMs int `yaml:"playbackIntervalMs"`
	} `yaml:"timing"`

	// Rendering parameters for the 3D view
	Rendering struct {
		// FrameWidth and FrameHeight size the raycast output
		FrameWidth  int `yaml:"frameWidth"`
		FrameHeight int `yaml:"frameHeight"`
	} `yaml:"rendering"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.Display.LabelWidth = 300
	cfg.Display.LabelHeight = 300
	cfg.Display.DefaultZoom = 0.4
	cfg.Timing.CrosshairRefreshMs = 30
	cfg.Timing.PlaybackIntervalMs = 2
	cfg.Rendering.FrameWidth = 512
	cfg.Rendering.FrameHeight = 512
	return cfg
}

// Load reads configuration from the given path. An empty path looks for
// viewer.yaml in the user config directory; a missing file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			configDir = filepath.Join(os.Getenv("HOME"), ".config")
		}
		path = filepath.Join(configDir, "nifti-viewer", "viewer.yaml")
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.fillDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults replaces zero values with their defaults so a partial file
// only overrides what it mentions.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Display.LabelWidth == 0 {
		c.Display.LabelWidth = def.Display.LabelWidth
	}
	if c.Display.LabelHeight == 0 {
		c.Display.LabelHeight = def.Display.LabelHeight
	}
	if c.Display.DefaultZoom == 0 {
		c.Display.DefaultZoom = def.Display.DefaultZoom
	}
	if c.Timing.CrosshairRefreshMs == 0 {
		c.Timing.CrosshairRefreshMs = def.Timing.CrosshairRefreshMs
	}
	if c.Timing.PlaybackIntervalMs == 0 {
		c.Timing.PlaybackIntervalMs = def.Timing.PlaybackIntervalMs
	}
	if c.Rendering.FrameWidth == 0 {
		c.Rendering.FrameWidth = def.Rendering.FrameWidth
	}
	if c.Rendering.FrameHeight == 0 {
		c.Rendering.FrameHeight = def.Rendering.FrameHeight
	}
}

func (c *Config) validate() error {
	if c.Display.LabelWidth < 50 || c.Display.LabelHeight < 50 {
		return fmt.Errorf("display label size %dx%d is too small",
			c.Display.LabelWidth, c.Display.LabelHeight)
	}
	if c.Display.DefaultZoom < 0.2 || c.Display.DefaultZoom > 2.0 {
		return fmt.Errorf("default zoom %v outside [0.2, 2.0]", c.Display.DefaultZoom)
	}
	return nil
}

// CrosshairRefresh returns the crosshair refresh period.
func (c *Config) CrosshairRefresh() time.Duration {
	return time.Duration(c.Timing.CrosshairRefreshMs) * time.Millisecond
}

// PlaybackInterval returns the autoplay tick period.
func (c *Config) PlaybackInterval() time.Duration {
	return time.Duration(c.Timing.PlaybackIntervalMs) * time.Millisecond
}
