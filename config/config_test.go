package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_EmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Grid.Width != 512 || cfg.Grid.Height != 512 {
		t.Errorf("expected 512x512 grid, got %dx%d", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Rules.Radius != 1 || cfg.Rules.IncludeCenter {
		t.Errorf("expected radius 1 without center, got %d/%v", cfg.Rules.Radius, cfg.Rules.IncludeCenter)
	}
	if cfg.Rules.Survive != (RangeConfig{Low: 2, High: 3}) || cfg.Rules.Birth != (RangeConfig{Low: 3, High: 3}) {
		t.Errorf("expected B3/S23 defaults, got S%v B%v", cfg.Rules.Survive, cfg.Rules.Birth)
	}
	if cfg.Scheduler.UpdatesPerSecond != 50 {
		t.Errorf("expected 50 UPS, got %d", cfg.Scheduler.UpdatesPerSecond)
	}
	if cfg.Derived.MaxFrameDelta != 500*time.Millisecond {
		t.Errorf("expected 500ms stall limit, got %v", cfg.Derived.MaxFrameDelta)
	}
	if cfg.Derived.GridCells != 512*512 {
		t.Errorf("expected %d cells, got %d", 512*512, cfg.Derived.GridCells)
	}
}

func TestLoad_UserFileOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data := []byte("grid:\n  width: 64\n  height: 32\nrules:\n  boundary: clamp\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Grid.Width != 64 || cfg.Grid.Height != 32 {
		t.Errorf("expected 64x32 grid, got %dx%d", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Rules.Boundary != "clamp" {
		t.Errorf("expected clamp boundary, got %q", cfg.Rules.Boundary)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Rules.Survive.High != 3 {
		t.Errorf("expected default survive high 3, got %d", cfg.Rules.Survive.High)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("grid: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestComputeDerived_FillsGaps(t *testing.T) {
	c := &Config{}
	c.computeDerived()
	if c.Grid.Width != 512 || c.Grid.Height != 512 {
		t.Errorf("expected fallback grid 512x512, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Derived.MaxWeight32 != 1 {
		t.Errorf("expected max weight floor 1, got %v", c.Derived.MaxWeight32)
	}
	if c.Derived.RateWindow != 500*time.Millisecond {
		t.Errorf("expected 0.5s rate window, got %v", c.Derived.RateWindow)
	}
}

func TestComputeDerived_HeadlessFrameWithinStallLimit(t *testing.T) {
	tests := []struct {
		name               string
		headless, maxDelta float64
		want               time.Duration
	}{
		{"above limit", 2, 0.5, 500 * time.Millisecond},
		{"at limit", 0.5, 0.5, 500 * time.Millisecond},
		{"below limit", 0.1, 0.5, 100 * time.Millisecond},
		{"limit disabled", 2, 0, 2 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			c.Scheduler.HeadlessDT = tt.headless
			c.Scheduler.MaxFrameDelta = tt.maxDelta
			c.computeDerived()
			if c.Derived.HeadlessDT != tt.want {
				t.Errorf("expected headless dt %v, got %v", tt.want, c.Derived.HeadlessDT)
			}
		})
	}
}

func TestWriteYAML_RoundTripsThroughLoad(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Rules.Radius = 4
	path := filepath.Join(t.TempDir(), "effective.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Rules.Radius != 4 {
		t.Errorf("expected radius 4 after reload, got %d", back.Rules.Radius)
	}
}

func TestCfg_AfterMustInit(t *testing.T) {
	MustInit("")
	if Cfg().Screen.TargetFPS != 60 {
		t.Errorf("expected 60 target fps, got %d", Cfg().Screen.TargetFPS)
	}
}
