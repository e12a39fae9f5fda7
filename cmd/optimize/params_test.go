package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/cellular/config"
	"github.com/pthm-cable/cellular/rng"
	"github.com/pthm-cable/cellular/rules"
	"github.com/pthm-cable/cellular/sim"
	"github.com/pthm-cable/cellular/telemetry"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(raw[i]-back[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestRulesAreAlwaysValid(t *testing.T) {
	pv := NewParamVector()
	vectors := [][]float64{
		pv.DefaultVector(),
		{-5, -1, -1, -1, -1, -1, -1},
		{99, 2, 2, 2, 2, 2, 2},
		{4.6, 0.9, 0.9, 0.1, 0, 0.5, 0.5},
	}
	for _, v := range vectors {
		s := pv.Rules(v, false, rules.BoundaryWrap, 5)
		bound := onesBound(s.Radius, false, 5)
		if err := s.Validate(bound); err != nil {
			t.Errorf("Rules(%v) = %+v: %v", v, s, err)
		}
	}
}

func TestRulesRadiusRounds(t *testing.T) {
	pv := NewParamVector()
	v := pv.DefaultVector()
	v[0] = 2.6
	if s := pv.Rules(v, false, rules.BoundaryWrap, 5); s.Radius != 3 {
		t.Errorf("radius = %d, want 3", s.Radius)
	}
}

func TestApplyExtractConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()

	// Radius 2 Moore: bound 24
	v := []float64{2, 0.25, 0.125, 0.5, 0, 0.4, 0.2}
	pv.ApplyToConfig(cfg, v)

	if cfg.Rules.Radius != 2 {
		t.Errorf("radius = %d, want 2", cfg.Rules.Radius)
	}
	if cfg.Rules.Survive != (config.RangeConfig{Low: 6, High: 9}) {
		t.Errorf("survive = %+v, want 6-9", cfg.Rules.Survive)
	}
	if cfg.Rules.Birth != (config.RangeConfig{Low: 12, High: 12}) {
		t.Errorf("birth = %+v, want 12-12", cfg.Rules.Birth)
	}
	if cfg.Kernel.NeutralFraction != 0.4 || cfg.Kernel.NegativeShare != 0.2 {
		t.Errorf("generator = %v/%v", cfg.Kernel.NeutralFraction, cfg.Kernel.NegativeShare)
	}

	got := pv.ExtractFromConfig(cfg)
	for i := range v {
		if math.Abs(got[i]-v[i]) > 1e-9 {
			t.Errorf("%s: extracted %v, want %v", pv.Specs[i].Name, got[i], v[i])
		}
	}
}

func TestGeneratorParamsReachKernel(t *testing.T) {
	pv := NewParamVector()

	// Evolution weights for a vector after it is applied to the default config.
	weights := func(neutral, negative float64) []float32 {
		t.Helper()
		cfg, err := config.Load("")
		if err != nil {
			t.Fatal(err)
		}
		cfg.Grid.Width, cfg.Grid.Height = 16, 16
		v := pv.DefaultVector()
		v[5], v[6] = neutral, negative
		pv.ApplyToConfig(cfg, v)

		if cfg.Kernel.Topology != rules.TopologyUniform.Key() {
			t.Fatalf("topology = %q, want %q", cfg.Kernel.Topology, rules.TopologyUniform.Key())
		}
		opts, err := sim.OptionsFromConfig(cfg, rng.New(7))
		if err != nil {
			t.Fatal(err)
		}
		opts.Workers = 1
		s, err := sim.NewSession(opts)
		if err != nil {
			t.Fatal(err)
		}
		defer s.Close()
		return s.Snapshot().Weights
	}

	mostlyOnes := weights(0.95, 0)
	mostlyNegative := weights(0, 0.8)
	if len(mostlyOnes) != len(mostlyNegative) {
		t.Fatalf("kernel sizes differ: %d vs %d", len(mostlyOnes), len(mostlyNegative))
	}

	var negatives int
	same := true
	for i := range mostlyOnes {
		if mostlyOnes[i] != mostlyNegative[i] {
			same = false
		}
		if mostlyNegative[i] < 0 {
			negatives++
		}
	}
	if same {
		t.Error("neutral_fraction and negative_share did not change the evolving kernel")
	}
	if negatives == 0 {
		t.Error("negative_share 0.8 produced no negative weights")
	}
}

func TestComputeQuality(t *testing.T) {
	fe := NewFitnessEvaluator(NewParamVector(), 100, []int64{1}, nil)

	if q := fe.computeQuality(nil); q != 0 {
		t.Errorf("no windows: quality = %v, want 0", q)
	}

	steady := make([]telemetry.WindowStats, 5)
	for i := range steady {
		steady[i] = telemetry.WindowStats{DensityMean: targetDensity, ActivityMean: targetActivity}
	}
	if q := fe.computeQuality(steady); math.Abs(q-1) > 1e-9 {
		t.Errorf("ideal windows: quality = %v, want 1", q)
	}

	dead := make([]telemetry.WindowStats, 5)
	if q := fe.computeQuality(dead); q >= 0.1 {
		t.Errorf("dead windows: quality = %v, want near 0", q)
	}
}
