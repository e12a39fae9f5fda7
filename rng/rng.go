// Package rng provides the randomness source used by the generators.
package rng

import (
	"math"
	"math/rand/v2"
	"time"
)

// Source is the uniform randomness the kernel, palette and rule generators draw from.
type Source interface {
	// Float32 returns a value in [lo, hi).
	Float32(lo, hi float32) float32
	// IntRange returns a value in [lo, hi], both inclusive.
	IntRange(lo, hi int) int
}

// PCG is a seedable Source backed by math/rand/v2.
type PCG struct {
	r *rand.Rand
}

// New creates a deterministic source from seed. A zero seed is replaced by
// the current time.
func New(seed int64) *PCG {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &PCG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Float32 returns a value in [lo, hi).
func (p *PCG) Float32(lo, hi float32) float32 {
	return lerp(lo, hi, p.r.Float32())
}

// lerp maps u in [0, 1) onto [lo, hi). Rounding can land exactly on hi for
// u just below 1, so that case steps back to the largest float below hi.
func lerp(lo, hi, u float32) float32 {
	v := lo + u*(hi-lo)
	if v >= hi && hi > lo {
		return math.Nextafter32(hi, lo)
	}
	return v
}

// IntRange returns a value in [lo, hi]. If hi < lo, lo is returned.
func (p *PCG) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + p.r.IntN(hi-lo+1)
}

// FillBinary fills buf with 0/1 values drawn from src.
func FillBinary(src Source, buf []uint8) {
	for i := range buf {
		buf[i] = uint8(src.IntRange(0, 1))
	}
}
