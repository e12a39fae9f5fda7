// Package rules holds the neighborhood kernel, the survive/birth thresholds
// and the kernel generators.
package rules

import (
	"errors"
	"fmt"
	"strings"
)

// MaxRadius is the largest supported neighborhood radius.
const MaxRadius = 10

// Configuration errors. They are returned at the point of mutation and are
// always recoverable by clamping.
var (
	ErrRadiusOutOfRange = errors.New("radius out of range")
	ErrInvalidRange     = errors.New("range low exceeds high")
	ErrRangeOutOfBounds = errors.New("range outside neighbor count bounds")
)

// Range is an inclusive interval of weighted-sum values.
type Range struct {
	Low  int `yaml:"low"`
	High int `yaml:"high"`
}

// Contains reports whether sum lies within the range, bounds included.
func (r Range) Contains(sum float32) bool {
	return sum >= float32(r.Low) && sum <= float32(r.High)
}

// Validate checks ordering and that both bounds lie in [0, maxCount].
func (r Range) Validate(maxCount int) error {
	if r.Low > r.High {
		return fmt.Errorf("[%d, %d]: %w", r.Low, r.High, ErrInvalidRange)
	}
	if r.Low < 0 || r.High > maxCount {
		return fmt.Errorf("[%d, %d] not within [0, %d]: %w", r.Low, r.High, maxCount, ErrRangeOutOfBounds)
	}
	return nil
}

// Clamp returns the range with both bounds forced into [0, maxCount] and
// Low ≤ High.
func (r Range) Clamp(maxCount int) Range {
	if maxCount < 0 {
		maxCount = 0
	}
	r.Low = clampInt(r.Low, 0, maxCount)
	r.High = clampInt(r.High, 0, maxCount)
	if r.Low > r.High {
		r.Low = r.High
	}
	return r
}

// WithLow sets Low, raising High when needed to keep the range ordered.
func (r Range) WithLow(v int) Range {
	r.Low = v
	if r.High < v {
		r.High = v
	}
	return r
}

// WithHigh sets High, lowering Low when needed to keep the range ordered.
func (r Range) WithHigh(v int) Range {
	r.High = v
	if r.Low > v {
		r.Low = v
	}
	return r
}

// Boundary selects how neighbors outside the grid are resolved.
type Boundary int

const (
	// BoundaryWrap treats the grid as a torus.
	BoundaryWrap Boundary = iota
	// BoundaryClamp treats cells outside the grid as dead (zero padding).
	BoundaryClamp
)

// String returns the config name of the boundary mode.
func (b Boundary) String() string {
	switch b {
	case BoundaryWrap:
		return "wrap"
	case BoundaryClamp:
		return "clamp"
	}
	return fmt.Sprintf("Boundary(%d)", int(b))
}

// ParseBoundary converts a config string into a Boundary.
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wrap", "torus", "toroidal":
		return BoundaryWrap, nil
	case "clamp", "zero", "padded":
		return BoundaryClamp, nil
	}
	return BoundaryWrap, fmt.Errorf("unknown boundary mode %q", s)
}

// Settings are the rule parameters edited through the control surface.
type Settings struct {
	Radius        int
	IncludeCenter bool
	Survive       Range
	Birth         Range
	Boundary      Boundary
}

// DefaultSettings returns Conway's Game of Life: B3/S23 on the Moore neighborhood.
func DefaultSettings() Settings {
	return Settings{
		Radius:        1,
		IncludeCenter: false,
		Survive:       Range{Low: 2, High: 3},
		Birth:         Range{Low: 3, High: 3},
		Boundary:      BoundaryWrap,
	}
}

// ValidateRadius reports ErrRadiusOutOfRange for radii outside [1, MaxRadius].
func ValidateRadius(r int) error {
	if r < 1 || r > MaxRadius {
		return fmt.Errorf("radius %d not within [1, %d]: %w", r, MaxRadius, ErrRadiusOutOfRange)
	}
	return nil
}

// ClampRadius forces r into [1, MaxRadius].
func ClampRadius(r int) int {
	return clampInt(r, 1, MaxRadius)
}

// Validate checks the radius and both ranges against maxCount.
func (s Settings) Validate(maxCount int) error {
	if err := ValidateRadius(s.Radius); err != nil {
		return err
	}
	if err := s.Survive.Validate(maxCount); err != nil {
		return fmt.Errorf("survive range %w", err)
	}
	if err := s.Birth.Validate(maxCount); err != nil {
		return fmt.Errorf("birth range %w", err)
	}
	return nil
}

// Clamp corrects the radius and both ranges in place.
func (s *Settings) Clamp(maxCount int) {
	s.Radius = ClampRadius(s.Radius)
	s.Survive = s.Survive.Clamp(maxCount)
	s.Birth = s.Birth.Clamp(maxCount)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
