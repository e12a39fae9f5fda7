// Package main provides CMA-ES search over rule parameters.
package main

import (
	"math"

	"github.com/pthm-cable/cellular/config"
	"github.com/pthm-cable/cellular/rules"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
//
// Thresholds are searched as fractions of the neighbor count bound so one
// vector stays meaningful while the radius moves.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "radius", Path: "rules.radius", Min: 1, Max: 8, Default: 3},
			{Name: "survive_low", Path: "rules.survive.low", Min: 0, Max: 1, Default: 0.25},
			{Name: "survive_width", Path: "rules.survive.high", Min: 0, Max: 1, Default: 0.15},
			{Name: "birth_low", Path: "rules.birth.low", Min: 0, Max: 1, Default: 0.3},
			{Name: "birth_width", Path: "rules.birth.high", Min: 0, Max: 1, Default: 0.05},
			// Only read by the uniform kernel generator
			{Name: "neutral_fraction", Path: "kernel.neutral_fraction", Min: 0, Max: 0.95, Default: 0.6},
			{Name: "negative_share", Path: "kernel.negative_share", Min: 0, Max: 0.8, Default: 0.35},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Max(spec.Min, math.Min(spec.Max, v[i]))
	}
	return clamped
}

// Rules converts a parameter vector into concrete settings. includeCenter
// and boundary come from the base config.
func (pv *ParamVector) Rules(values []float64, includeCenter bool, boundary rules.Boundary, maxWeight float32) rules.Settings {
	c := pv.Clamp(values)

	radius := rules.ClampRadius(int(math.Round(c[0])))
	bound := onesBound(radius, includeCenter, maxWeight)

	s := rules.Settings{
		Radius:        radius,
		IncludeCenter: includeCenter,
		Survive:       fractionRange(c[1], c[2], bound),
		Birth:         fractionRange(c[3], c[4], bound),
		Boundary:      boundary,
	}
	s.Clamp(bound)
	return s
}

// ApplyToConfig applies parameter values to a Config struct. The kernel
// topology is forced to the uniform generator, the only one that reads
// neutral_fraction and negative_share.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	boundary, err := rules.ParseBoundary(cfg.Rules.Boundary)
	if err != nil {
		boundary = rules.BoundaryWrap
	}
	s := pv.Rules(values, cfg.Rules.IncludeCenter, boundary, cfg.Derived.MaxWeight32)
	c := pv.Clamp(values)

	cfg.Rules.Radius = s.Radius
	cfg.Rules.Survive = config.RangeConfig{Low: s.Survive.Low, High: s.Survive.High}
	cfg.Rules.Birth = config.RangeConfig{Low: s.Birth.Low, High: s.Birth.High}
	cfg.Kernel.Topology = rules.TopologyUniform.Key()
	cfg.Kernel.NeutralFraction = c[5]
	cfg.Kernel.NegativeShare = c[6]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	radius := rules.ClampRadius(cfg.Rules.Radius)
	bound := float64(onesBound(radius, cfg.Rules.IncludeCenter, cfg.Derived.MaxWeight32))
	if bound == 0 {
		bound = 1
	}
	frac := func(v int) float64 { return float64(v) / bound }

	return pv.Clamp([]float64{
		float64(radius),
		frac(cfg.Rules.Survive.Low),
		frac(cfg.Rules.Survive.High - cfg.Rules.Survive.Low),
		frac(cfg.Rules.Birth.Low),
		frac(cfg.Rules.Birth.High - cfg.Rules.Birth.Low),
		cfg.Kernel.NeutralFraction,
		cfg.Kernel.NegativeShare,
	})
}

// onesBound is the neighbor count bound of the all-ones kernel at radius.
func onesBound(radius int, includeCenter bool, maxWeight float32) int {
	k, err := rules.NewKernel(radius, maxWeight)
	if err != nil {
		return 0
	}
	return k.MaxNeighborCount(includeCenter)
}

func fractionRange(low, width float64, bound int) rules.Range {
	lo := int(math.Round(low * float64(bound)))
	hi := int(math.Round((low + width) * float64(bound)))
	return rules.Range{Low: lo, High: hi}
}
