package sim

import (
	"fmt"
	"time"

	"github.com/pthm-cable/cellular/config"
	"github.com/pthm-cable/cellular/palette"
	"github.com/pthm-cable/cellular/rng"
	"github.com/pthm-cable/cellular/rules"
)

// Options configures a new Session.
type Options struct {
	Width, Height int

	Settings  rules.Settings
	MaxWeight float32
	// Topology, when set, regenerates the kernel at startup.
	Topology        *rules.Topology
	Generator       rules.GeneratorParams
	RandomMaxRadius int

	Palette         palette.Palette
	PaletteModel    palette.Model
	PaletteStrategy palette.Strategy

	UpdatesPerSecond int
	MaxUPS           int
	MaxFrameDelta    time.Duration
	StartPaused      bool

	Workers int

	Source  rng.Source
	Surface Surface
	Sink    ParameterSink
}

// OptionsFromConfig translates the loaded configuration. Name fields
// (boundary, topology, palette model and strategy) are parsed here so a bad
// config fails before any resources are created.
func OptionsFromConfig(cfg *config.Config, src rng.Source) (Options, error) {
	boundary, err := rules.ParseBoundary(cfg.Rules.Boundary)
	if err != nil {
		return Options{}, fmt.Errorf("rules.boundary: %w", err)
	}
	model, err := palette.ParseModel(cfg.Palette.Model)
	if err != nil {
		return Options{}, fmt.Errorf("palette.model: %w", err)
	}
	strategy, err := palette.ParseStrategy(cfg.Palette.Strategy)
	if err != nil {
		return Options{}, fmt.Errorf("palette.strategy: %w", err)
	}

	opts := Options{
		Width:  cfg.Grid.Width,
		Height: cfg.Grid.Height,
		Settings: rules.Settings{
			Radius:        cfg.Rules.Radius,
			IncludeCenter: cfg.Rules.IncludeCenter,
			Survive:       rules.Range{Low: cfg.Rules.Survive.Low, High: cfg.Rules.Survive.High},
			Birth:         rules.Range{Low: cfg.Rules.Birth.Low, High: cfg.Rules.Birth.High},
			Boundary:      boundary,
		},
		MaxWeight: cfg.Derived.MaxWeight32,
		Generator: rules.GeneratorParams{
			MaxWeight:       cfg.Derived.MaxWeight32,
			NeutralFraction: float32(cfg.Kernel.NeutralFraction),
			NegativeShare:   float32(cfg.Kernel.NegativeShare),
		},
		RandomMaxRadius:  cfg.Kernel.RandomMaxRadius,
		Palette:          palette.Palette{Alive: cfg.Palette.Alive, Dead: cfg.Palette.Dead},
		PaletteModel:     model,
		PaletteStrategy:  strategy,
		UpdatesPerSecond: cfg.Scheduler.UpdatesPerSecond,
		MaxUPS:           cfg.Scheduler.MaxUPS,
		MaxFrameDelta:    cfg.Derived.MaxFrameDelta,
		StartPaused:      cfg.Scheduler.StartPaused,
		Workers:          cfg.Parallel.Workers,
		Source:           src,
	}

	if cfg.Kernel.Topology != "" {
		t, err := rules.ParseTopology(cfg.Kernel.Topology)
		if err != nil {
			return Options{}, fmt.Errorf("kernel.topology: %w", err)
		}
		opts.Topology = &t
	}
	return opts, nil
}
