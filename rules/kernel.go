package rules

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Kernel is the square weight matrix applied to a cell's neighborhood.
// Weights are stored row-major; entry (dx, dy) lives at
// (dy+radius)*side + (dx+radius).
type Kernel struct {
	radius    int
	weights   []float32
	maxWeight float32
}

// NewKernel allocates a kernel for radius filled with the default weight.
// maxWeight bounds every weight to [-maxWeight, maxWeight].
func NewKernel(radius int, maxWeight float32) (*Kernel, error) {
	if err := ValidateRadius(radius); err != nil {
		return nil, err
	}
	if maxWeight < 1 {
		maxWeight = 1
	}
	k := &Kernel{maxWeight: maxWeight}
	k.allocate(radius)
	return k, nil
}

// Radius returns the currently applied radius.
func (k *Kernel) Radius() int { return k.radius }

// Side returns the matrix side, 2·radius+1.
func (k *Kernel) Side() int { return 2*k.radius + 1 }

// MaxWeight returns the symmetric weight bound.
func (k *Kernel) MaxWeight() float32 { return k.maxWeight }

// Weights exposes the backing slice.
func (k *Kernel) Weights() []float32 { return k.weights }

// At returns the weight at offset (dx, dy) from the center.
func (k *Kernel) At(dx, dy int) float32 {
	return k.weights[k.index(dx, dy)]
}

// Set stores w at offset (dx, dy), clamped to the weight bound.
func (k *Kernel) Set(dx, dy int, w float32) {
	k.weights[k.index(dx, dy)] = k.clampWeight(w)
}

// ResizeForRadius reallocates the matrix when radius differs from the applied
// one and reports whether it did. Contents are discarded and default-filled.
// An unchanged radius is a no-op.
func (k *Kernel) ResizeForRadius(radius int) (bool, error) {
	if err := ValidateRadius(radius); err != nil {
		return false, err
	}
	if radius == k.radius {
		return false, nil
	}
	k.allocate(radius)
	return true, nil
}

// Reset refills the current matrix with the default weight.
func (k *Kernel) Reset() {
	for i := range k.weights {
		k.weights[i] = 1
	}
}

// MaxWeightedSum sums the strictly positive weights of the footprint. The
// center weight only counts when includeCenter is set.
func (k *Kernel) MaxWeightedSum(includeCenter bool) float64 {
	center := k.index(0, 0)
	var sum float64
	for i, w := range k.weights {
		if i == center && !includeCenter {
			continue
		}
		if w > 0 {
			sum += float64(w)
		}
	}
	return sum
}

// MaxNeighborCount is the largest integer threshold a range may use.
func (k *Kernel) MaxNeighborCount(includeCenter bool) int {
	return int(math.Floor(k.MaxWeightedSum(includeCenter) + 1e-6))
}

// Bounds returns the smallest and largest weight in the matrix.
func (k *Kernel) Bounds() (lo, hi float64) {
	w := make([]float64, len(k.weights))
	for i, v := range k.weights {
		w[i] = float64(v)
	}
	return floats.Min(w), floats.Max(w)
}

func (k *Kernel) allocate(radius int) {
	k.radius = radius
	side := 2*radius + 1
	k.weights = make([]float32, side*side)
	k.Reset()
}

func (k *Kernel) index(dx, dy int) int {
	return (dy+k.radius)*k.Side() + (dx + k.radius)
}

func (k *Kernel) clampWeight(w float32) float32 {
	if w > k.maxWeight {
		return k.maxWeight
	}
	if w < -k.maxWeight {
		return -k.maxWeight
	}
	return w
}
