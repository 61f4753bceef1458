// Package config provides configuration loading and access for the wind
// viewer and tools.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/brunoga/deep"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/windlayer/options"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all application configuration.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Data      DataConfig      `yaml:"data"`
	Layer     options.Partial `yaml:"layer"`
	Camera    CameraConfig    `yaml:"camera"`
	Engine    EngineConfig    `yaml:"engine"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// DataConfig lists the wind field files the viewer cycles through.
type DataConfig struct {
	Files     []string `yaml:"files"`
	CacheSize int      `yaml:"cache_size"`
	// StepInterval advances to the next file every this many seconds; 0
	// means manual stepping only.
	StepInterval float64 `yaml:"step_interval"`
}

// CameraConfig holds camera animation settings.
type CameraConfig struct {
	FlyDuration   float64 `yaml:"fly_duration"`   // seconds for ZoomTo
	MorphDuration float64 `yaml:"morph_duration"` // seconds for a 2D/Columbus switch
	ZoomStep      float64 `yaml:"zoom_step"`      // wheel zoom factor per notch
	ZoomToData    bool    `yaml:"zoom_to_data"`   // fly to the field on startup
}

// EngineConfig holds particle engine settings.
type EngineConfig struct {
	Seed          int64 `yaml:"seed"` // 0 picks a time-based seed
	StepsPerFrame int   `yaml:"steps_per_frame"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // empty logs to stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// TelemetryConfig holds telemetry output settings.
type TelemetryConfig struct {
	OutputDir  string  `yaml:"output_dir"` // empty disables CSV output
	WindowSec  float64 `yaml:"window_sec"`
	PerfWindow int     `yaml:"perf_window"`
	PerfLog    bool    `yaml:"perf_log"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT       float64         // seconds per frame
	Options  options.Options // Layer merged over the option defaults
	LogLevel slog.Level
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config and rejects
// values nothing downstream can use.
func (c *Config) computeDerived() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Screen.TargetFPS <= 0 {
		c.Screen.TargetFPS = 60
	}
	c.Derived.DT = 1 / float64(c.Screen.TargetFPS)

	if c.Engine.StepsPerFrame < 1 {
		c.Engine.StepsPerFrame = 1
	}
	if c.Data.CacheSize < 1 {
		c.Data.CacheSize = 1
	}

	c.Derived.Options = options.FromDefaults(c.Layer)
	if err := c.Derived.Options.Validate(); err != nil {
		return fmt.Errorf("layer options: %w", err)
	}

	if err := c.Derived.LogLevel.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Clone returns a deep copy, for handing the configuration to code that
// may modify it.
func (c *Config) Clone() *Config {
	return deep.MustCopy(c)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
