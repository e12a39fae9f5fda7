// Package palette generates alive/dead color pairs.
package palette

import (
	"fmt"
	"math"
	"strings"

	"github.com/pthm-cable/cellular/rng"
)

// Palette holds normalized RGB colors for live and dead cells.
type Palette struct {
	Alive [3]float32 `yaml:"alive"`
	Dead  [3]float32 `yaml:"dead"`
}

// Default is white cells on black.
func Default() Palette {
	return Palette{Alive: [3]float32{1, 1, 1}, Dead: [3]float32{0, 0, 0}}
}

// Model is the color space a palette is generated in.
type Model int

const (
	ModelHSV Model = iota
	ModelOKLab
)

// Models lists the color models in display order.
func Models() []Model { return []Model{ModelHSV, ModelOKLab} }

func (m Model) String() string {
	switch m {
	case ModelHSV:
		return "HSV"
	case ModelOKLab:
		return "OKLab"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// Strategy is the hue relationship between the alive and dead colors.
type Strategy int

const (
	Monochromatic Strategy = iota
	Analogous
	Complementary
	Random
)

// Strategies lists every strategy in display order.
func Strategies() []Strategy {
	return []Strategy{Monochromatic, Analogous, Complementary, Random}
}

func (s Strategy) String() string {
	switch s {
	case Monochromatic:
		return "Monochromatic"
	case Analogous:
		return "Analogous"
	case Complementary:
		return "Complementary"
	case Random:
		return "Random"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseModel resolves a config name.
func ParseModel(s string) (Model, error) {
	for _, m := range Models() {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return ModelHSV, fmt.Errorf("unknown color model %q", s)
}

// ParseStrategy resolves a config name.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies() {
		if strings.EqualFold(s, st.String()) {
			return st, nil
		}
	}
	return Random, fmt.Errorf("unknown palette strategy %q", s)
}

// Generate builds a palette in model using strategy.
func Generate(m Model, s Strategy, src rng.Source) (Palette, error) {
	switch m {
	case ModelHSV:
		alive, dead, err := hsvScheme(s, src)
		if err != nil {
			return Palette{}, err
		}
		return Palette{Alive: alive.RGB(), Dead: dead.RGB()}, nil
	case ModelOKLab:
		alive, dead, err := oklabScheme(s, src)
		if err != nil {
			return Palette{}, err
		}
		return Palette{Alive: alive.RGB(), Dead: dead.RGB()}, nil
	}
	return Palette{}, fmt.Errorf("generate palette: unknown model %d", int(m))
}

// resolve picks a concrete strategy for Random, each with probability 1/3.
func resolve(s Strategy, src rng.Source) Strategy {
	if s != Random {
		return s
	}
	switch src.IntRange(1, 3) {
	case 2:
		return Analogous
	case 3:
		return Complementary
	default:
		return Monochromatic
	}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// fract wraps x into [0, 1).
func fract(x float32) float32 {
	return x - float32(math.Floor(float64(x)))
}
