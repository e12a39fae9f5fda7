package systems

// Cell states.
const (
	Dead  uint8 = 0
	Alive uint8 = 1
)

// Grid is the ping-pong pair of cell buffers. Exactly one buffer is current:
// it holds the latest completed generation and is the source of the next step.
type Grid struct {
	W, H    int
	buffers [2][]uint8
	current int
}

// NewGrid allocates both buffers with identical dimensions.
func NewGrid(w, h int) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid{
		W:       w,
		H:       h,
		buffers: [2][]uint8{make([]uint8, w*h), make([]uint8, w*h)},
	}
}

// Current returns the buffer safe to read for display.
func (g *Grid) Current() []uint8 { return g.buffers[g.current] }

// Next returns the buffer the next step writes into.
func (g *Grid) Next() []uint8 { return g.buffers[1-g.current] }

// CurrentIndex returns 0 or 1, the slot of the current buffer.
func (g *Grid) CurrentIndex() int { return g.current }

// Flip makes the next buffer current. Call only once the step writing it
// has completed.
func (g *Grid) Flip() { g.current = 1 - g.current }

// Index returns the linear index for (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// Get reads the current generation at (x, y).
func (g *Grid) Get(x, y int) uint8 { return g.Current()[g.Index(x, y)] }

// Set writes the current generation at (x, y).
func (g *Grid) Set(x, y int, v uint8) { g.Current()[g.Index(x, y)] = v }

// Clear kills every cell in the current buffer.
func (g *Grid) Clear() {
	cur := g.Current()
	for i := range cur {
		cur[i] = Dead
	}
}

// Population counts live cells in the current buffer.
func (g *Grid) Population() int {
	n := 0
	for _, c := range g.Current() {
		if c != Dead {
			n++
		}
	}
	return n
}
