package systems

import "github.com/pthm-cable/cellular/rules"

// EvolveRows computes the next generation for rows [y0, y1) of a w×h grid.
// Every value is derived from src alone; dst is only written. For each cell
// the weighted sum of live neighbors over snap.Taps is classified against the
// survive range (live cells) or the birth range (dead cells).
func EvolveRows(src, dst []uint8, w, h int, snap *rules.Snapshot, y0, y1 int) {
	wrap := snap.Boundary == rules.BoundaryWrap
	taps := snap.Taps

	for y := y0; y < y1; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			var sum float32
			for i := range taps {
				tap := &taps[i]
				nx := x + tap.DX
				ny := y + tap.DY
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					if !wrap {
						continue
					}
					nx = wrapCoord(nx, w)
					ny = wrapCoord(ny, h)
				}
				if src[ny*w+nx] != Dead {
					sum += tap.W
				}
			}

			idx := row + x
			next := Dead
			if src[idx] != Dead {
				if snap.Survive.Contains(sum) {
					next = Alive
				}
			} else if snap.Birth.Contains(sum) {
				next = Alive
			}
			dst[idx] = next
		}
	}
}

// Evolve computes a full generation sequentially.
func Evolve(src, dst []uint8, w, h int, snap *rules.Snapshot) {
	EvolveRows(src, dst, w, h, snap, 0, h)
}

// wrapCoord applies toroidal wrapping. Offsets may exceed the grid size when
// the radius is larger than the grid.
func wrapCoord(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
