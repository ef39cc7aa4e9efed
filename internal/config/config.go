// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	FPSLimit   int        `yaml:"fps_limit"`
	Background [3]float32 `yaml:"background"`
}

// ViewerConfig holds model and camera settings.
type ViewerConfig struct {
	Model      string     `yaml:"model"` // OBJ file shown at startup; empty shows the cube
	Watch      bool       `yaml:"watch"` // reload Model when it changes on disk
	FovDegrees float32    `yaml:"fov_degrees"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	Light      [3]float32 `yaml:"light"`
	ShowFPS    bool       `yaml:"show_fps"`

	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			Background: [3]float32{0.1, 0.1, 0.12},
		},
		Viewer: ViewerConfig{
			FovDegrees: 45,
			Near:       0.1,
			Far:        100,
			Light:      [3]float32{0.3, 0.5, 0.8},

			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Validate checks values that would break the window or the projection.
func (c *Config) Validate() error {
	switch {
	case c.Graphics.Width <= 0 || c.Graphics.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Graphics.Width, c.Graphics.Height)
	case c.Graphics.FPSLimit < 0:
		return fmt.Errorf("%w: fps_limit %d", ErrInvalidConfig, c.Graphics.FPSLimit)
	case c.Viewer.FovDegrees <= 0 || c.Viewer.FovDegrees >= 180:
		return fmt.Errorf("%w: fov_degrees %v must be in (0, 180)", ErrInvalidConfig, c.Viewer.FovDegrees)
	case c.Viewer.Near <= 0 || c.Viewer.Near >= c.Viewer.Far:
		return fmt.Errorf("%w: need 0 < near < far, got near=%v far=%v", ErrInvalidConfig, c.Viewer.Near, c.Viewer.Far)
	case c.Viewer.Light == [3]float32{}:
		return fmt.Errorf("%w: light direction is zero", ErrInvalidConfig)
	}
	return nil
}
