package rules

import (
	"fmt"
	"math"
	"strings"

	"github.com/pthm-cable/cellular/rng"
)

// Topology names a kernel generation strategy.
type Topology int

const (
	TopologyUniform Topology = iota
	TopologyPositive
	TopologyBinary
	TopologyVonNeumann
	TopologyCircle
	TopologyCircleNegative
	TopologyCheckerboard
	TopologyCheckerboardNegative
)

// Topologies lists every generator in display order.
func Topologies() []Topology {
	return []Topology{
		TopologyUniform,
		TopologyPositive,
		TopologyBinary,
		TopologyVonNeumann,
		TopologyCircle,
		TopologyCircleNegative,
		TopologyCheckerboard,
		TopologyCheckerboardNegative,
	}
}

// String returns the display name.
func (t Topology) String() string {
	switch t {
	case TopologyUniform:
		return "Random"
	case TopologyPositive:
		return "Random Positive"
	case TopologyBinary:
		return "Random Binary"
	case TopologyVonNeumann:
		return "Von Neumann"
	case TopologyCircle:
		return "Filled Circle"
	case TopologyCircleNegative:
		return "Filled Circle (Negatives)"
	case TopologyCheckerboard:
		return "Checkerboard"
	case TopologyCheckerboardNegative:
		return "Checkerboard (Negatives)"
	}
	return fmt.Sprintf("Topology(%d)", int(t))
}

// Key returns the config identifier, e.g. "von_neumann".
func (t Topology) Key() string {
	return strings.NewReplacer(" (", "_", ")", "", " ", "_").Replace(strings.ToLower(t.String()))
}

// ParseTopology resolves a config identifier or display name.
func ParseTopology(s string) (Topology, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range Topologies() {
		if s == t.Key() || s == strings.ToLower(t.String()) {
			return t, nil
		}
	}
	return TopologyUniform, fmt.Errorf("unknown kernel topology %q", s)
}

// GeneratorParams tunes the randomized generators.
type GeneratorParams struct {
	// MaxWeight is K: weights are generated within [-K, K].
	MaxWeight float32
	// NeutralFraction of the uniform distribution collapses onto 1.0.
	NeutralFraction float32
	// NegativeShare of the remaining mass maps onto [-K, 0); the rest onto (1, K].
	NegativeShare float32
}

// DefaultGeneratorParams returns the tuning used when the config is silent.
func DefaultGeneratorParams() GeneratorParams {
	return GeneratorParams{MaxWeight: 5, NeutralFraction: 0.6, NegativeShare: 0.35}
}

type generatorFunc func(dst []float32, radius int, p GeneratorParams, src rng.Source)

func (t Topology) generator() generatorFunc {
	switch t {
	case TopologyUniform:
		return genUniform
	case TopologyPositive:
		return genPositive
	case TopologyBinary:
		return genBinary
	case TopologyVonNeumann:
		return genVonNeumann
	case TopologyCircle:
		return genCircle
	case TopologyCircleNegative:
		return genCircleNegative
	case TopologyCheckerboard:
		return genCheckerboard
	case TopologyCheckerboardNegative:
		return genCheckerboardNegative
	}
	return nil
}

// Generate returns a fresh (2r+1)² matrix built by topology t.
func Generate(t Topology, radius int, p GeneratorParams, src rng.Source) ([]float32, error) {
	if err := ValidateRadius(radius); err != nil {
		return nil, err
	}
	gen := t.generator()
	if gen == nil {
		return nil, fmt.Errorf("generate kernel: unknown topology %d", int(t))
	}
	side := 2*radius + 1
	dst := make([]float32, side*side)
	gen(dst, radius, p, src)
	return dst, nil
}

// Regenerate overwrites every weight of k using topology t at the kernel's
// current radius. Results are clamped to the kernel's weight bound.
func (k *Kernel) Regenerate(t Topology, p GeneratorParams, src rng.Source) error {
	gen := t.generator()
	if gen == nil {
		return fmt.Errorf("regenerate kernel: unknown topology %d", int(t))
	}
	if p.MaxWeight <= 0 || p.MaxWeight > k.maxWeight {
		p.MaxWeight = k.maxWeight
	}
	gen(k.weights, k.radius, p, src)
	for i, w := range k.weights {
		k.weights[i] = k.clampWeight(w)
	}
	return nil
}

// forEach visits every offset of the footprint in row-major order.
func forEach(dst []float32, radius int, fn func(dx, dy int) float32) {
	i := 0
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			dst[i] = fn(dx, dy)
			i++
		}
	}
}

// triZone maps a sample x in [-k, k] so that the first neutral fraction of the
// distribution lands on exactly 1, then splits the rest between [-k, 0) and (1, k].
func triZone(x float32, p GeneratorParams) float32 {
	k := p.MaxWeight
	t := (x + k) / (2 * k)
	neutral := p.NeutralFraction
	if t < neutral || neutral >= 1 {
		return 1
	}
	r := (t - neutral) / (1 - neutral)
	neg := p.NegativeShare
	if r < neg {
		return -k + (r/neg)*k
	}
	if neg >= 1 {
		return -k
	}
	return 1 + ((r-neg)/(1-neg))*(k-1)
}

func genUniform(dst []float32, radius int, p GeneratorParams, src rng.Source) {
	k := p.MaxWeight
	forEach(dst, radius, func(_, _ int) float32 {
		return triZone(src.Float32(-k, k), p)
	})
}

func genPositive(dst []float32, radius int, p GeneratorParams, src rng.Source) {
	forEach(dst, radius, func(_, _ int) float32 {
		return src.Float32(1, p.MaxWeight)
	})
}

func genBinary(dst []float32, radius int, _ GeneratorParams, src rng.Source) {
	forEach(dst, radius, func(_, _ int) float32 {
		return float32(src.IntRange(0, 1))
	})
}

func genVonNeumann(dst []float32, radius int, _ GeneratorParams, _ rng.Source) {
	forEach(dst, radius, func(dx, dy int) float32 {
		if abs(dx)+abs(dy) <= radius {
			return 1
		}
		return 0
	})
}

func genCircle(dst []float32, radius int, _ GeneratorParams, _ rng.Source) {
	r := float64(radius)
	forEach(dst, radius, func(dx, dy int) float32 {
		d := math.Hypot(float64(dx), float64(dy))
		if d <= r {
			return float32(r - d)
		}
		return 0
	})
}

// genCircleNegative applies the circle falloff without the outside clamp, so
// corners beyond the rim go negative by the same formula.
func genCircleNegative(dst []float32, radius int, _ GeneratorParams, _ rng.Source) {
	r := float64(radius)
	forEach(dst, radius, func(dx, dy int) float32 {
		return float32(r - math.Hypot(float64(dx), float64(dy)))
	})
}

func genCheckerboard(dst []float32, radius int, _ GeneratorParams, _ rng.Source) {
	forEach(dst, radius, func(dx, dy int) float32 {
		if (dx+dy+2*radius)%2 == 0 {
			return 1
		}
		return 0
	})
}

func genCheckerboardNegative(dst []float32, radius int, _ GeneratorParams, _ rng.Source) {
	forEach(dst, radius, func(dx, dy int) float32 {
		if (dx+dy+2*radius)%2 == 0 {
			return 1
		}
		return -1
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
