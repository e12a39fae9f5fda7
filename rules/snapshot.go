package rules

// Tap is one non-zero kernel entry taking part in the weighted sum.
type Tap struct {
	DX, DY int
	W      float32
}

// Snapshot is an immutable copy of the rule parameters and kernel handed to
// the evolution dispatch. It must not be mutated while a step is in flight;
// take a new one after every edit instead.
type Snapshot struct {
	Radius        int
	IncludeCenter bool
	Survive       Range
	Birth         Range
	Boundary      Boundary

	// Weights is a row-major copy of the kernel.
	Weights []float32
	// Taps lists the non-zero weights, center excluded unless counted.
	Taps []Tap
}

// NewSnapshot copies s and k. The radius is taken from the kernel so the
// weights and footprint always agree.
func NewSnapshot(s Settings, k *Kernel) Snapshot {
	snap := Snapshot{
		Radius:        k.Radius(),
		IncludeCenter: s.IncludeCenter,
		Survive:       s.Survive,
		Birth:         s.Birth,
		Boundary:      s.Boundary,
		Weights:       append([]float32(nil), k.Weights()...),
	}
	r := snap.Radius
	i := 0
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			w := snap.Weights[i]
			i++
			if w == 0 {
				continue
			}
			if dx == 0 && dy == 0 && !s.IncludeCenter {
				continue
			}
			snap.Taps = append(snap.Taps, Tap{DX: dx, DY: dy, W: w})
		}
	}
	return snap
}
