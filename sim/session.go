package sim

import (
	"fmt"
	"time"

	"github.com/pthm-cable/cellular/palette"
	"github.com/pthm-cable/cellular/rng"
	"github.com/pthm-cable/cellular/rules"
	"github.com/pthm-cable/cellular/systems"
)

// Session is the single owner of simulation state. All methods must be
// called from the control goroutine; evolution parallelism is internal to
// each step.
//
// Settings, Topology, Generator, Model and Strategy are edited directly by
// the control surface, which then calls the matching apply method. Edits
// have no effect on evolution until applied.
type Session struct {
	Grid      *systems.Grid
	Kernel    *rules.Kernel
	Scheduler *systems.Scheduler

	Settings  rules.Settings
	Topology  rules.Topology
	Generator rules.GeneratorParams

	Palette  palette.Palette
	Model    palette.Model
	Strategy palette.Strategy

	maxUPS          int
	randomMaxRadius int
	boundary        rules.Boundary // restored by ResetDefaults

	snap    rules.Snapshot
	evolver *systems.Evolver
	surface Surface
	sink    ParameterSink
	src     rng.Source

	generation uint64
	kernelBuf  []float32
}

// NewSession builds the grid, kernel and scheduler, fills the grid with
// random cells and pushes every shader parameter once.
func NewSession(opts Options) (*Session, error) {
	if opts.Source == nil {
		opts.Source = rng.New(0)
	}
	if opts.Surface == nil {
		opts.Surface = nopSurface{}
	}
	if opts.Sink == nil {
		opts.Sink = nopSink{}
	}
	if opts.MaxUPS <= 0 {
		opts.MaxUPS = 240
	}
	if opts.RandomMaxRadius <= 0 || opts.RandomMaxRadius > rules.MaxRadius {
		opts.RandomMaxRadius = 8
	}

	kernel, err := rules.NewKernel(opts.Settings.Radius, opts.MaxWeight)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	s := &Session{
		Grid:            systems.NewGrid(opts.Width, opts.Height),
		Kernel:          kernel,
		Scheduler:       systems.NewScheduler(clampUPS(opts.UpdatesPerSecond, opts.MaxUPS)),
		Settings:        opts.Settings,
		Generator:       opts.Generator,
		Palette:         opts.Palette,
		Model:           opts.PaletteModel,
		Strategy:        opts.PaletteStrategy,
		maxUPS:          opts.MaxUPS,
		randomMaxRadius: opts.RandomMaxRadius,
		boundary:        opts.Settings.Boundary,
		evolver:         systems.NewEvolver(opts.Workers),
		surface:         opts.Surface,
		sink:            opts.Sink,
		src:             opts.Source,
		kernelBuf:       make([]float32, KernelUniformLen),
	}
	s.Scheduler.SetMaxFrameDelta(opts.MaxFrameDelta)
	s.Scheduler.SetRunning(!opts.StartPaused)

	if opts.Topology != nil {
		s.Topology = *opts.Topology
		if err := s.Kernel.Regenerate(s.Topology, s.Generator, s.src); err != nil {
			s.evolver.Close()
			return nil, fmt.Errorf("new session: %w", err)
		}
		s.Settings.Clamp(s.Kernel.MaxNeighborCount(s.Settings.IncludeCenter))
	}
	if err := s.ApplySettings(); err != nil {
		s.evolver.Close()
		return nil, fmt.Errorf("new session: %w", err)
	}

	s.pushColors()
	s.Randomize()
	return s, nil
}

// Frame advances the scheduler by dt and runs the steps it releases.
// It returns the number of steps executed.
func (s *Session) Frame(dt time.Duration) int {
	n := s.Scheduler.Advance(dt)
	for i := 0; i < n; i++ {
		s.step()
	}
	return n
}

// Step runs exactly one generation regardless of the pause state.
func (s *Session) Step() { s.step() }

func (s *Session) step() {
	s.evolver.StepGrid(s.Grid, &s.snap)
	s.generation++
	s.surface.Upload(s.Grid.CurrentIndex(), s.Grid.Current())
}

// MaxNeighborCountFor reports the threshold bound that radius and
// includeCenter would have once applied. A radius change resets the kernel,
// so the bound is that of an all-ones footprint.
func (s *Session) MaxNeighborCountFor(radius int, includeCenter bool) int {
	if radius == s.Kernel.Radius() {
		return s.Kernel.MaxNeighborCount(includeCenter)
	}
	side := 2*radius + 1
	n := side * side
	if !includeCenter {
		n--
	}
	return n
}

// MaxNeighborCount is the bound for the currently edited settings.
func (s *Session) MaxNeighborCount() int {
	return s.MaxNeighborCountFor(s.Settings.Radius, s.Settings.IncludeCenter)
}

// ApplySettings validates Settings, resizes the kernel when the radius
// changed, takes a new snapshot and pushes the rule parameters. On error
// nothing is modified; call ClampSettings first to correct the values.
func (s *Session) ApplySettings() error {
	if err := rules.ValidateRadius(s.Settings.Radius); err != nil {
		return fmt.Errorf("apply settings: %w", err)
	}
	if err := s.Settings.Validate(s.MaxNeighborCount()); err != nil {
		return fmt.Errorf("apply settings: %w", err)
	}
	if _, err := s.Kernel.ResizeForRadius(s.Settings.Radius); err != nil {
		return fmt.Errorf("apply settings: %w", err)
	}
	s.refreshRules()
	return nil
}

// ClampSettings forces Settings into valid bounds in place.
func (s *Session) ClampSettings() {
	s.Settings.Radius = rules.ClampRadius(s.Settings.Radius)
	s.Settings.Clamp(s.MaxNeighborCount())
}

// ClampAndApply is the control panel path: correct then apply.
func (s *Session) ClampAndApply() {
	s.ClampSettings()
	// Clamped settings always validate.
	_ = s.ApplySettings()
}

// RegenerateKernel overwrites the kernel with the selected Topology. The
// ranges are clamped to the new neighbor count bound.
func (s *Session) RegenerateKernel() error {
	if err := s.Kernel.Regenerate(s.Topology, s.Generator, s.src); err != nil {
		return err
	}
	s.Settings.Clamp(s.Kernel.MaxNeighborCount(s.Settings.IncludeCenter))
	s.refreshRules()
	return nil
}

// GeneratePalette replaces the palette using Model and Strategy.
func (s *Session) GeneratePalette() error {
	p, err := palette.Generate(s.Model, s.Strategy, s.src)
	if err != nil {
		return err
	}
	s.Palette = p
	s.pushColors()
	return nil
}

// Randomize fills the current generation with uniform random cells.
func (s *Session) Randomize() {
	rng.FillBinary(s.src, s.Grid.Current())
	s.generation = 0
	s.surface.Upload(s.Grid.CurrentIndex(), s.Grid.Current())
}

// Clear kills every cell.
func (s *Session) Clear() {
	s.Grid.Clear()
	s.generation = 0
	s.surface.Upload(s.Grid.CurrentIndex(), s.Grid.Current())
}

// RandomizeRules draws a random radius, center flag and ranges, resets the
// kernel for the new radius and re-randomizes the grid.
func (s *Session) RandomizeRules() {
	s.Settings.Radius = s.src.IntRange(1, s.randomMaxRadius)
	s.Settings.IncludeCenter = s.src.IntRange(0, 1) == 1

	bound := s.MaxNeighborCount()
	low := s.src.IntRange(0, bound)
	s.Settings.Survive = rules.Range{Low: low, High: s.src.IntRange(low, bound)}
	low = s.src.IntRange(0, bound)
	s.Settings.Birth = rules.Range{Low: low, High: s.src.IntRange(low, bound)}

	s.ClampAndApply()
	s.Randomize()
}

// ResetDefaults restores the default rules and an all-ones kernel.
func (s *Session) ResetDefaults() {
	s.Settings = rules.DefaultSettings()
	s.Settings.Boundary = s.boundary
	// Radius 1 is always valid.
	_, _ = s.Kernel.ResizeForRadius(s.Settings.Radius)
	s.Kernel.Reset()
	_ = s.ApplySettings()
}

// SetBoundary switches the edge mode for subsequent steps without applying
// any other pending edit.
func (s *Session) SetBoundary(b rules.Boundary) {
	s.Settings.Boundary = b
	s.snap.Boundary = b
	s.pushBoundary()
}

// SetUpdatesPerSecond clamps ups to [0, MaxUPS] and applies it.
func (s *Session) SetUpdatesPerSecond(ups int) {
	s.Scheduler.SetRate(clampUPS(ups, s.maxUPS))
}

// MaxUPS returns the upper bound of the rate control.
func (s *Session) MaxUPS() int { return s.maxUPS }

// Snapshot returns the rule set evolution currently runs with.
func (s *Session) Snapshot() rules.Snapshot { return s.snap }

// Generation counts steps since the grid was last seeded.
func (s *Session) Generation() uint64 { return s.generation }

// Population counts live cells in the current generation.
func (s *Session) Population() int { return s.Grid.Population() }

// Density is the live fraction of the current generation.
func (s *Session) Density() float64 {
	return float64(s.Grid.Population()) / float64(s.Grid.W*s.Grid.H)
}

// Activity is the fraction of cells that changed in the last step. The
// previous generation is still held in the next buffer until the following
// step overwrites it.
func (s *Session) Activity() float64 {
	if s.generation == 0 {
		return 0
	}
	cur, prev := s.Grid.Current(), s.Grid.Next()
	changed := 0
	for i := range cur {
		if cur[i] != prev[i] {
			changed++
		}
	}
	return float64(changed) / float64(len(cur))
}

// Workers returns the evolution pool size.
func (s *Session) Workers() int { return s.evolver.Workers() }

// Close stops the evolution workers.
func (s *Session) Close() {
	s.evolver.Close()
}

func (s *Session) refreshRules() {
	s.snap = rules.NewSnapshot(s.Settings, s.Kernel)
	s.pushRules()
}

func (s *Session) pushRules() {
	center := 0
	if s.snap.IncludeCenter {
		center = 1
	}
	s.sink.SetInt(UniformRadius, s.snap.Radius)
	s.sink.SetInt(UniformIncludeCenter, center)
	s.sink.SetVec2(UniformSurviveRange, float32(s.snap.Survive.Low), float32(s.snap.Survive.High))
	s.sink.SetVec2(UniformBirthRange, float32(s.snap.Birth.Low), float32(s.snap.Birth.High))
	s.pushBoundary()

	clear(s.kernelBuf)
	copy(s.kernelBuf, s.snap.Weights)
	s.sink.SetFloats(UniformKernel, s.kernelBuf)
}

func (s *Session) pushBoundary() {
	clamped := 0
	if s.snap.Boundary == rules.BoundaryClamp {
		clamped = 1
	}
	s.sink.SetInt(UniformBoundary, clamped)
}

func (s *Session) pushColors() {
	s.sink.SetVec3(UniformAliveColor, s.Palette.Alive)
	s.sink.SetVec3(UniformDeadColor, s.Palette.Dead)
}

func clampUPS(ups, hi int) int {
	if ups < 0 {
		return 0
	}
	if ups > hi {
		return hi
	}
	return ups
}
