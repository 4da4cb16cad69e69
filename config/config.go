// Package config loads viewer configuration.
//
// Priority: defaults -> YAML file -> OIISHI_* environment variables.
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("oiishi.yaml").
//	    Load()
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the complete configuration of the oiishi binary.
type Config struct {
	Window     WindowConfig     `yaml:"window" env:"WINDOW"`
	Viewer     ViewerConfig     `yaml:"viewer" env:"VIEWER"`
	Render     RenderConfig     `yaml:"render" env:"RENDER"`
	Export     ExportConfig     `yaml:"export" env:"EXPORT"`
	Log        LogConfig        `yaml:"log" env:"LOG"`
	Metrics    MetricsConfig    `yaml:"metrics" env:"METRICS"`
	Storefront StorefrontConfig `yaml:"storefront" env:"STOREFRONT"`
}

// WindowConfig configures the desktop window.
type WindowConfig struct {
	Title  string `yaml:"title" env:"TITLE"`
	Width  int    `yaml:"width" env:"WIDTH"`
	Height int    `yaml:"height" env:"HEIGHT"`
}

// ViewerConfig configures the bottle viewer.
type ViewerConfig struct {
	// SpinSpeed is the bottle's Y rotation per frame in radians.
	SpinSpeed     float64 `yaml:"spin_speed" env:"SPIN_SPEED"`
	Spinning      bool    `yaml:"spinning" env:"SPINNING"`
	DampingFactor float64 `yaml:"damping_factor" env:"DAMPING_FACTOR"`
	// PixelRatio overrides the display's pixel ratio; 0 uses the display's.
	PixelRatio float64 `yaml:"pixel_ratio" env:"PIXEL_RATIO"`
}

// RenderConfig configures the renderer and frame loop.
type RenderConfig struct {
	// Backend is "wgpu" or "software".
	Backend string `yaml:"backend" env:"BACKEND"`
	// Workers is the software rasterizer's band worker count; 0 uses every CPU.
	Workers int `yaml:"workers" env:"WORKERS"`
	// MSAA is the wgpu sample count, 1 or 4.
	MSAA int `yaml:"msaa" env:"MSAA"`
	// PresentMode is "vsync" or "uncapped".
	PresentMode   string  `yaml:"present_mode" env:"PRESENT_MODE"`
	ForceFallback bool    `yaml:"force_fallback" env:"FORCE_FALLBACK"`
	TickRate      float64 `yaml:"tick_rate" env:"TICK_RATE"`
	Profile       bool    `yaml:"profile" env:"PROFILE"`
	// ProfileInterval is how often the profiler logs frame stats.
	ProfileInterval time.Duration `yaml:"profile_interval" env:"PROFILE_INTERVAL"`
}

// ExportConfig configures GLB exports.
type ExportConfig struct {
	Dir         string `yaml:"dir" env:"DIR"`
	FileName    string `yaml:"file_name" env:"FILE_NAME"`
	Binary      bool   `yaml:"binary" env:"BINARY"`
	OnlyVisible bool   `yaml:"only_visible" env:"ONLY_VISIBLE"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format is json or console.
	Format      string   `yaml:"format" env:"FORMAT"`
	OutputPaths []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Addr    string `yaml:"addr" env:"ADDR"`
}

// StorefrontConfig points at storefront fixture overrides.
type StorefrontConfig struct {
	// FixturesPath is a YAML file replacing the embedded fixtures; empty keeps them.
	FixturesPath string `yaml:"fixtures_path" env:"FIXTURES_PATH"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "OIISHI",
			Width:  1280,
			Height: 720,
		},
		Viewer: ViewerConfig{
			SpinSpeed:     0.01,
			Spinning:      true,
			DampingFactor: 0.05,
		},
		Render: RenderConfig{
			Backend:         "wgpu",
			MSAA:            4,
			PresentMode:     "vsync",
			TickRate:        60,
			ProfileInterval: time.Second,
		},
		Export: ExportConfig{
			Dir:         ".",
			FileName:    "oishii_bottle.glb",
			Binary:      true,
			OnlyVisible: true,
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "console",
			OutputPaths: []string{"stderr"},
		},
		Metrics: MetricsConfig{
			Addr: "127.0.0.1:9464",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, "window size must be positive")
	}
	if c.Viewer.DampingFactor <= 0 || c.Viewer.DampingFactor > 1 {
		errs = append(errs, "damping_factor must be in (0, 1]")
	}
	if c.Viewer.PixelRatio < 0 {
		errs = append(errs, "pixel_ratio must not be negative")
	}
	switch c.Render.Backend {
	case "wgpu", "software":
	default:
		errs = append(errs, fmt.Sprintf("unknown render backend %q", c.Render.Backend))
	}
	if c.Render.MSAA != 1 && c.Render.MSAA != 4 {
		errs = append(errs, "msaa must be 1 or 4")
	}
	switch c.Render.PresentMode {
	case "vsync", "uncapped":
	default:
		errs = append(errs, fmt.Sprintf("unknown present mode %q", c.Render.PresentMode))
	}
	if c.Render.Workers < 0 {
		errs = append(errs, "workers must not be negative")
	}
	if c.Render.TickRate <= 0 {
		errs = append(errs, "tick_rate must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("unknown log level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("unknown log format %q", c.Log.Format))
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		errs = append(errs, "metrics addr is required when metrics are enabled")
	}
	if c.Export.FileName == "" {
		errs = append(errs, "export file_name is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
