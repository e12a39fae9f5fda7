package sim

import (
	"errors"
	"testing"
	"time"

	"github.com/pthm-cable/cellular/config"
	"github.com/pthm-cable/cellular/rng"
	"github.com/pthm-cable/cellular/rules"
	"github.com/pthm-cable/cellular/systems"
)

func init() {
	config.MustInit("")
}

type fakeSink struct {
	ints   map[string]int
	vec2s  map[string][2]float32
	vec3s  map[string][3]float32
	floats map[string][]float32
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		ints:   make(map[string]int),
		vec2s:  make(map[string][2]float32),
		vec3s:  make(map[string][3]float32),
		floats: make(map[string][]float32),
	}
}

func (f *fakeSink) SetInt(name string, v int)         { f.ints[name] = v }
func (f *fakeSink) SetVec2(name string, x, y float32) { f.vec2s[name] = [2]float32{x, y} }
func (f *fakeSink) SetVec3(name string, v [3]float32) { f.vec3s[name] = v }
func (f *fakeSink) SetFloats(name string, v []float32) {
	f.floats[name] = append([]float32(nil), v...)
}

type fakeSurface struct {
	uploads   int
	lastIndex int
}

func (f *fakeSurface) Upload(index int, cells []uint8) {
	f.uploads++
	f.lastIndex = index
}

func newTestSession(t *testing.T, w, h int) (*Session, *fakeSink, *fakeSurface) {
	t.Helper()
	opts, err := OptionsFromConfig(config.Cfg(), rng.New(42))
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	opts.Width, opts.Height = w, h
	opts.Workers = 1
	sink := newFakeSink()
	surface := &fakeSurface{}
	opts.Sink = sink
	opts.Surface = surface

	s, err := NewSession(opts)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(s.Close)
	return s, sink, surface
}

func seedBlinker(s *Session) {
	s.Clear()
	s.Grid.Set(1, 2, systems.Alive)
	s.Grid.Set(2, 2, systems.Alive)
	s.Grid.Set(3, 2, systems.Alive)
}

// ---------- construction ----------

func TestNewSession_PushesUniforms(t *testing.T) {
	_, sink, surface := newTestSession(t, 32, 32)

	if sink.ints[UniformRadius] != 1 {
		t.Errorf("expected radius 1, got %d", sink.ints[UniformRadius])
	}
	if sink.ints[UniformIncludeCenter] != 0 {
		t.Errorf("expected includeCenter 0, got %d", sink.ints[UniformIncludeCenter])
	}
	if got := sink.vec2s[UniformSurviveRange]; got != [2]float32{2, 3} {
		t.Errorf("expected survive (2,3), got %v", got)
	}
	if got := sink.vec2s[UniformBirthRange]; got != [2]float32{3, 3} {
		t.Errorf("expected birth (3,3), got %v", got)
	}

	k := sink.floats[UniformKernel]
	if len(k) != KernelUniformLen {
		t.Fatalf("expected kernel uniform length %d, got %d", KernelUniformLen, len(k))
	}
	for i := 0; i < 9; i++ {
		if k[i] != 1 {
			t.Errorf("kernel[%d] expected 1, got %v", i, k[i])
		}
	}
	if k[9] != 0 {
		t.Errorf("kernel padding expected 0, got %v", k[9])
	}

	if _, ok := sink.vec3s[UniformAliveColor]; !ok {
		t.Error("alive color not pushed")
	}
	if surface.uploads != 1 {
		t.Errorf("expected initial upload, got %d", surface.uploads)
	}
}

func TestNewSession_BadRadius(t *testing.T) {
	opts, _ := OptionsFromConfig(config.Cfg(), rng.New(1))
	opts.Settings.Radius = rules.MaxRadius + 1
	if _, err := NewSession(opts); !errors.Is(err, rules.ErrRadiusOutOfRange) {
		t.Fatalf("expected ErrRadiusOutOfRange, got %v", err)
	}
}

func TestOptionsFromConfig_RejectsUnknownNames(t *testing.T) {
	cfg := *config.Cfg()
	cfg.Rules.Boundary = "mobius"
	if _, err := OptionsFromConfig(&cfg, rng.New(1)); err == nil {
		t.Error("expected error for unknown boundary")
	}

	cfg = *config.Cfg()
	cfg.Kernel.Topology = "spiral"
	if _, err := OptionsFromConfig(&cfg, rng.New(1)); err == nil {
		t.Error("expected error for unknown topology")
	}
}

// ---------- frames and steps ----------

func TestFrame_StepsFollowScheduler(t *testing.T) {
	s, _, surface := newTestSession(t, 16, 16)
	s.SetUpdatesPerSecond(50)
	before := surface.uploads

	total := 0
	for i := 0; i < 50; i++ {
		total += s.Frame(20 * time.Millisecond)
	}
	if total != 50 {
		t.Errorf("expected 50 steps, got %d", total)
	}
	if s.Generation() != 50 {
		t.Errorf("expected generation 50, got %d", s.Generation())
	}
	if surface.uploads-before != 50 {
		t.Errorf("expected one upload per step, got %d", surface.uploads-before)
	}
	if surface.lastIndex != s.Grid.CurrentIndex() {
		t.Errorf("last upload slot %d, current slot %d", surface.lastIndex, s.Grid.CurrentIndex())
	}
}

func TestFrame_PausedRunsNothing(t *testing.T) {
	s, _, _ := newTestSession(t, 16, 16)
	s.Scheduler.SetRunning(false)
	for i := 0; i < 10; i++ {
		if n := s.Frame(100 * time.Millisecond); n != 0 {
			t.Fatalf("paused frame ran %d steps", n)
		}
	}
	s.Step()
	if s.Generation() != 1 {
		t.Errorf("single step expected generation 1, got %d", s.Generation())
	}
}

func TestStep_BlinkerOscillates(t *testing.T) {
	s, _, _ := newTestSession(t, 5, 5)
	seedBlinker(s)

	s.Step()
	for _, y := range []int{1, 2, 3} {
		if s.Grid.Get(2, y) != systems.Alive {
			t.Errorf("expected (2,%d) alive after one step", y)
		}
	}
	if s.Population() != 3 {
		t.Errorf("expected population 3, got %d", s.Population())
	}
	// 4 cells flipped of 25.
	if a := s.Activity(); a != 4.0/25 {
		t.Errorf("expected activity 0.16, got %v", a)
	}

	s.Step()
	if s.Grid.Get(1, 2) != systems.Alive || s.Grid.Get(3, 2) != systems.Alive {
		t.Error("expected horizontal blinker after two steps")
	}
}

func TestClear_EmptyGridStaysEmpty(t *testing.T) {
	s, _, _ := newTestSession(t, 16, 16)
	s.Clear()
	for i := 0; i < 10; i++ {
		s.Step()
	}
	if s.Density() != 0 {
		t.Errorf("expected density 0, got %v", s.Density())
	}
}

// ---------- settings ----------

func TestApplySettings_RadiusOutOfRangeLeavesKernel(t *testing.T) {
	s, _, _ := newTestSession(t, 16, 16)
	s.Settings.Radius = 0
	err := s.ApplySettings()
	if !errors.Is(err, rules.ErrRadiusOutOfRange) {
		t.Fatalf("expected ErrRadiusOutOfRange, got %v", err)
	}
	if s.Kernel.Radius() != 1 {
		t.Errorf("kernel radius changed to %d", s.Kernel.Radius())
	}
	if s.Snapshot().Radius != 1 {
		t.Errorf("snapshot radius changed to %d", s.Snapshot().Radius)
	}
}

func TestApplySettings_RangeErrors(t *testing.T) {
	s, _, _ := newTestSession(t, 16, 16)

	s.Settings.Survive = rules.Range{Low: 3, High: 2}
	if err := s.ApplySettings(); !errors.Is(err, rules.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}

	s.Settings.Survive = rules.Range{Low: 2, High: 9}
	if err := s.ApplySettings(); !errors.Is(err, rules.ErrRangeOutOfBounds) {
		t.Errorf("expected ErrRangeOutOfBounds, got %v", err)
	}
}

func TestApplySettings_RadiusChangeResizes(t *testing.T) {
	s, sink, _ := newTestSession(t, 16, 16)
	s.Settings.Radius = 3
	s.Settings.Birth = rules.Range{Low: 20, High: 48}
	if err := s.ApplySettings(); err != nil {
		t.Fatalf("ApplySettings: %v", err)
	}
	if len(s.Kernel.Weights()) != 49 {
		t.Errorf("expected 49 weights, got %d", len(s.Kernel.Weights()))
	}
	if sink.ints[UniformRadius] != 3 {
		t.Errorf("expected radius uniform 3, got %d", sink.ints[UniformRadius])
	}
	if s.Snapshot().Birth.High != 48 {
		t.Errorf("expected snapshot birth high 48, got %d", s.Snapshot().Birth.High)
	}
}

func TestClampAndApply(t *testing.T) {
	s, _, _ := newTestSession(t, 16, 16)
	s.Settings.Radius = 50
	s.Settings.Survive = rules.Range{Low: -4, High: 1000}
	s.ClampAndApply()

	if s.Settings.Radius != rules.MaxRadius {
		t.Errorf("expected radius %d, got %d", rules.MaxRadius, s.Settings.Radius)
	}
	bound := 21*21 - 1
	if s.Settings.Survive != (rules.Range{Low: 0, High: bound}) {
		t.Errorf("expected survive [0,%d], got %v", bound, s.Settings.Survive)
	}
	if s.Snapshot().Radius != rules.MaxRadius {
		t.Errorf("clamped settings not applied")
	}
}

func TestUnappliedEditsDoNotAffectEvolution(t *testing.T) {
	s, _, _ := newTestSession(t, 5, 5)
	seedBlinker(s)
	s.Settings.Survive = rules.Range{Low: 0, High: 0}
	s.Settings.Birth = rules.Range{Low: 0, High: 0}
	s.Step()
	if s.Population() != 3 {
		t.Errorf("pending edits leaked into evolution: population %d", s.Population())
	}
}

func TestRegenerateKernel_ClampsRanges(t *testing.T) {
	s, sink, _ := newTestSession(t, 16, 16)
	s.Settings.Birth = rules.Range{Low: 3, High: 8}
	if err := s.ApplySettings(); err != nil {
		t.Fatal(err)
	}
	s.Topology = rules.TopologyVonNeumann
	if err := s.RegenerateKernel(); err != nil {
		t.Fatalf("RegenerateKernel: %v", err)
	}
	if s.Settings.Birth != (rules.Range{Low: 3, High: 4}) {
		t.Errorf("expected birth clamped to [3,4], got %v", s.Settings.Birth)
	}
	k := sink.floats[UniformKernel]
	if k[0] != 0 || k[1] != 1 {
		t.Errorf("expected von neumann corners 0 and edges 1, got %v %v", k[0], k[1])
	}
}

func TestRandomizeRules_ProducesValidSettings(t *testing.T) {
	s, _, _ := newTestSession(t, 16, 16)
	for i := 0; i < 50; i++ {
		s.RandomizeRules()
		if s.Settings.Radius < 1 || s.Settings.Radius > 8 {
			t.Fatalf("radius %d outside [1,8]", s.Settings.Radius)
		}
		if err := s.Settings.Validate(s.MaxNeighborCount()); err != nil {
			t.Fatalf("randomized settings invalid: %v", err)
		}
		if s.Snapshot().Radius != s.Settings.Radius {
			t.Fatalf("randomized settings not applied")
		}
		if s.Generation() != 0 {
			t.Fatalf("grid not reseeded")
		}
	}
}

func TestResetDefaults(t *testing.T) {
	s, _, _ := newTestSession(t, 16, 16)
	s.Topology = rules.TopologyCheckerboardNegative
	if err := s.RegenerateKernel(); err != nil {
		t.Fatal(err)
	}
	s.RandomizeRules()
	s.ResetDefaults()

	want := rules.DefaultSettings()
	if s.Settings != want {
		t.Errorf("expected defaults %+v, got %+v", want, s.Settings)
	}
	if s.Kernel.MaxWeightedSum(false) != 8 {
		t.Errorf("expected all-ones kernel sum 8, got %v", s.Kernel.MaxWeightedSum(false))
	}
}

func TestSetBoundary(t *testing.T) {
	s, sink, _ := newTestSession(t, 16, 16)
	if sink.ints[UniformBoundary] != 0 {
		t.Errorf("expected wrap pushed at startup, got %d", sink.ints[UniformBoundary])
	}
	s.SetBoundary(rules.BoundaryClamp)
	if s.Snapshot().Boundary != rules.BoundaryClamp {
		t.Error("boundary not applied to snapshot")
	}
	if sink.ints[UniformBoundary] != 1 {
		t.Errorf("expected clamp pushed, got %d", sink.ints[UniformBoundary])
	}
}

func TestSetUpdatesPerSecond_Clamps(t *testing.T) {
	s, _, _ := newTestSession(t, 16, 16)
	s.SetUpdatesPerSecond(100000)
	if s.Scheduler.Rate() != s.MaxUPS() {
		t.Errorf("expected rate clamped to %d, got %d", s.MaxUPS(), s.Scheduler.Rate())
	}
	s.SetUpdatesPerSecond(-1)
	if s.Scheduler.Rate() != 0 {
		t.Errorf("expected rate 0, got %d", s.Scheduler.Rate())
	}
}

// ---------- palette ----------

func TestGeneratePalette_PushesColors(t *testing.T) {
	s, sink, _ := newTestSession(t, 16, 16)
	if err := s.GeneratePalette(); err != nil {
		t.Fatalf("GeneratePalette: %v", err)
	}
	if sink.vec3s[UniformAliveColor] != s.Palette.Alive {
		t.Errorf("alive uniform %v does not match palette %v", sink.vec3s[UniformAliveColor], s.Palette.Alive)
	}
	if sink.vec3s[UniformDeadColor] != s.Palette.Dead {
		t.Errorf("dead uniform %v does not match palette %v", sink.vec3s[UniformDeadColor], s.Palette.Dead)
	}
}

func TestWorkers_ReportsPoolSize(t *testing.T) {
	s, _, _ := newTestSession(t, 8, 8)
	if s.Workers() != 1 {
		t.Errorf("expected 1 worker, got %d", s.Workers())
	}
}
