// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Grid      GridConfig      `yaml:"grid"`
	Rules     RulesConfig     `yaml:"rules"`
	Kernel    KernelConfig    `yaml:"kernel"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Palette   PaletteConfig   `yaml:"palette"`
	Parallel  ParallelConfig  `yaml:"parallel"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
	PanelOpen bool   `yaml:"panel_open"` // control panel visible at startup
}

// GridConfig holds the cell grid dimensions.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// RangeConfig is an inclusive integer interval.
type RangeConfig struct {
	Low  int `yaml:"low"`
	High int `yaml:"high"`
}

// RulesConfig holds the startup rule parameters.
type RulesConfig struct {
	Radius        int         `yaml:"radius"`
	IncludeCenter bool        `yaml:"include_center"`
	Survive       RangeConfig `yaml:"survive"`
	Birth         RangeConfig `yaml:"birth"`
	Boundary      string      `yaml:"boundary"` // wrap or clamp
}

// KernelConfig holds kernel generator parameters.
type KernelConfig struct {
	MaxWeight       float64 `yaml:"max_weight"`       // weights clamp to [-max, max]
	Topology        string  `yaml:"topology"`         // generator applied at startup; empty keeps all-ones
	NeutralFraction float64 `yaml:"neutral_fraction"` // uniform generator: share collapsed onto 1.0
	NegativeShare   float64 `yaml:"negative_share"`   // uniform generator: share of the rest mapped negative
	RandomMaxRadius int     `yaml:"random_max_radius"`
}

// SchedulerConfig holds update timing.
type SchedulerConfig struct {
	UpdatesPerSecond int     `yaml:"updates_per_second"`
	MaxUPS           int     `yaml:"max_ups"`
	MaxFrameDelta    float64 `yaml:"max_frame_delta"` // seconds; larger deltas are stalls
	StartPaused      bool    `yaml:"start_paused"`
	HeadlessDT       float64 `yaml:"headless_dt"` // simulated frame delta in headless mode
}

// PaletteConfig holds the startup colors and generator choice.
type PaletteConfig struct {
	Model    string     `yaml:"model"`
	Strategy string     `yaml:"strategy"`
	Alive    [3]float32 `yaml:"alive"`
	Dead     [3]float32 `yaml:"dead"`
}

// ParallelConfig holds worker pool settings.
type ParallelConfig struct {
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS
}

// TelemetryConfig holds stats window settings.
type TelemetryConfig struct {
	StatsWindowSec  float64 `yaml:"stats_window_sec"`
	RateWindowSec   float64 `yaml:"rate_window_sec"` // FPS/UPS measurement window
	PerfWindowTicks int     `yaml:"perf_window_ticks"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MaxFrameDelta time.Duration
	HeadlessDT    time.Duration
	StatsWindow   time.Duration
	RateWindow    time.Duration
	MaxWeight32   float32
	GridCells     int
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
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
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

	cfg.computeDerived()

	return cfg, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Grid.Width <= 0 {
		c.Grid.Width = 512
	}
	if c.Grid.Height <= 0 {
		c.Grid.Height = c.Grid.Width
	}
	if c.Kernel.MaxWeight < 1 {
		c.Kernel.MaxWeight = 1
	}
	if c.Scheduler.MaxUPS <= 0 {
		c.Scheduler.MaxUPS = 240
	}
	if c.Scheduler.HeadlessDT <= 0 {
		c.Scheduler.HeadlessDT = 1.0 / 60
	}
	if c.Telemetry.RateWindowSec <= 0 {
		c.Telemetry.RateWindowSec = 0.5
	}
	// A simulated frame above the stall limit would be discarded every time.
	if c.Scheduler.MaxFrameDelta > 0 && c.Scheduler.HeadlessDT > c.Scheduler.MaxFrameDelta {
		c.Scheduler.HeadlessDT = c.Scheduler.MaxFrameDelta
	}

	c.Derived.MaxFrameDelta = seconds(c.Scheduler.MaxFrameDelta)
	c.Derived.HeadlessDT = seconds(c.Scheduler.HeadlessDT)
	c.Derived.StatsWindow = seconds(c.Telemetry.StatsWindowSec)
	c.Derived.RateWindow = seconds(c.Telemetry.RateWindowSec)
	c.Derived.MaxWeight32 = float32(c.Kernel.MaxWeight)
	c.Derived.GridCells = c.Grid.Width * c.Grid.Height
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
