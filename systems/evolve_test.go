package systems

import (
	"testing"

	"github.com/pthm-cable/cellular/rng"
	"github.com/pthm-cable/cellular/rules"
)

var boundaries = []rules.Boundary{rules.BoundaryWrap, rules.BoundaryClamp}

func conwaySnapshot(t *testing.T, b rules.Boundary) *rules.Snapshot {
	t.Helper()
	k, err := rules.NewKernel(1, 5)
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}
	s := rules.DefaultSettings()
	s.Boundary = b
	snap := rules.NewSnapshot(s, k)
	return &snap
}

func setCells(g *Grid, cells [][2]int) {
	for _, c := range cells {
		g.Set(c[0], c[1], Alive)
	}
}

func liveSet(g *Grid) map[[2]int]bool {
	out := make(map[[2]int]bool)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if g.Get(x, y) == Alive {
				out[[2]int{x, y}] = true
			}
		}
	}
	return out
}

func sameCells(g *Grid, want [][2]int) bool {
	got := liveSet(g)
	if len(got) != len(want) {
		return false
	}
	for _, c := range want {
		if !got[c] {
			return false
		}
	}
	return true
}

// ---------- single generation ----------

func TestEvolve_EmptyGridStaysDead(t *testing.T) {
	for _, b := range boundaries {
		g := NewGrid(16, 16)
		snap := conwaySnapshot(t, b)
		ev := NewEvolver(1)
		for i := 0; i < 5; i++ {
			ev.StepGrid(g, snap)
		}
		if p := g.Population(); p != 0 {
			t.Errorf("%s: expected empty grid, got %d live cells", b, p)
		}
	}
}

func TestEvolve_BlinkerPeriodTwo(t *testing.T) {
	horizontal := [][2]int{{1, 2}, {2, 2}, {3, 2}}
	vertical := [][2]int{{2, 1}, {2, 2}, {2, 3}}

	for _, b := range boundaries {
		g := NewGrid(5, 5)
		setCells(g, horizontal)
		snap := conwaySnapshot(t, b)
		ev := NewEvolver(1)

		ev.StepGrid(g, snap)
		if !sameCells(g, vertical) {
			t.Fatalf("%s: step 1 expected vertical blinker, got %v", b, liveSet(g))
		}
		ev.StepGrid(g, snap)
		if !sameCells(g, horizontal) {
			t.Fatalf("%s: step 2 expected horizontal blinker, got %v", b, liveSet(g))
		}
	}
}

func TestEvolve_BlockStillLife(t *testing.T) {
	block := [][2]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}}
	for _, b := range boundaries {
		g := NewGrid(6, 6)
		setCells(g, block)
		snap := conwaySnapshot(t, b)
		ev := NewEvolver(1)
		for i := 0; i < 4; i++ {
			ev.StepGrid(g, snap)
		}
		if !sameCells(g, block) {
			t.Errorf("%s: block changed: %v", b, liveSet(g))
		}
	}
}

// A blinker straddling the edge only survives when the grid wraps.
func TestEvolve_EdgeBlinkerDependsOnBoundary(t *testing.T) {
	edge := [][2]int{{4, 2}, {0, 2}, {1, 2}}

	g := NewGrid(5, 5)
	setCells(g, edge)
	ev := NewEvolver(1)
	ev.StepGrid(g, conwaySnapshot(t, rules.BoundaryWrap))
	if !sameCells(g, [][2]int{{0, 1}, {0, 2}, {0, 3}}) {
		t.Errorf("wrap: expected vertical blinker at x=0, got %v", liveSet(g))
	}

	g = NewGrid(5, 5)
	setCells(g, edge)
	ev.StepGrid(g, conwaySnapshot(t, rules.BoundaryClamp))
	// Without wrapping (0,2) has one neighbor and dies; (0,1) and (0,3)
	// see only two live cells and stay dead.
	if p := g.Population(); p != 0 {
		t.Errorf("clamp: expected edge blinker to die, got %v", liveSet(g))
	}
}

func TestEvolve_IncludeCenterShiftsSum(t *testing.T) {
	k, _ := rules.NewKernel(1, 5)
	s := rules.DefaultSettings()
	s.IncludeCenter = true
	// A lone live cell sees its own weight: sum 1.
	s.Survive = rules.Range{Low: 1, High: 1}
	snap := rules.NewSnapshot(s, k)

	g := NewGrid(5, 5)
	g.Set(2, 2, Alive)
	NewEvolver(1).StepGrid(g, &snap)
	if g.Get(2, 2) != Alive {
		t.Error("lone cell should survive when the center is counted")
	}

	s.IncludeCenter = false
	snap = rules.NewSnapshot(s, k)
	g = NewGrid(5, 5)
	g.Set(2, 2, Alive)
	NewEvolver(1).StepGrid(g, &snap)
	if g.Get(2, 2) != Dead {
		t.Error("lone cell should die when the center is excluded")
	}
}

func TestEvolve_NegativeWeightsSuppressBirth(t *testing.T) {
	k, _ := rules.NewKernel(1, 5)
	k.Set(-1, 0, -2)
	s := rules.DefaultSettings()
	snap := rules.NewSnapshot(s, k)

	g := NewGrid(5, 5)
	// Three neighbors of (2,2), one sitting on the negative tap.
	setCells(g, [][2]int{{1, 2}, {2, 1}, {3, 1}})
	NewEvolver(1).StepGrid(g, &snap)
	if g.Get(2, 2) != Dead {
		t.Error("weighted sum 0 should not trigger birth on B3")
	}
}

func TestEvolve_RadiusLargerThanGridWraps(t *testing.T) {
	k, _ := rules.NewKernel(4, 5)
	s := rules.DefaultSettings()
	s.Radius = 4
	s.Survive = rules.Range{Low: 0, High: 80}
	snap := rules.NewSnapshot(s, k)

	g := NewGrid(3, 3)
	g.Set(1, 1, Alive)
	NewEvolver(1).StepGrid(g, &snap) // must not index out of range
	if g.Get(1, 1) != Alive {
		t.Error("cell should survive with a full survive range")
	}
}

// ---------- parallel dispatch ----------

func TestEvolver_ParallelMatchesSequential(t *testing.T) {
	for _, b := range boundaries {
		k, _ := rules.NewKernel(3, 5)
		src := rng.New(7)
		if err := k.Regenerate(rules.TopologyPositive, rules.DefaultGeneratorParams(), src); err != nil {
			t.Fatalf("Regenerate: %v", err)
		}
		s := rules.Settings{
			Radius:   3,
			Survive:  rules.Range{Low: 10, High: 40},
			Birth:    rules.Range{Low: 15, High: 30},
			Boundary: b,
		}
		snap := rules.NewSnapshot(s, k)

		seq := NewGrid(128, 96)
		rng.FillBinary(src, seq.Current())
		par := NewGrid(128, 96)
		copy(par.Current(), seq.Current())

		pool := NewEvolver(4)
		single := NewEvolver(1)
		for i := 0; i < 6; i++ {
			single.StepGrid(seq, &snap)
			pool.StepGrid(par, &snap)
		}
		pool.Close()

		a, c := seq.Current(), par.Current()
		for i := range a {
			if a[i] != c[i] {
				t.Fatalf("%s: cell %d differs: sequential %d, parallel %d", b, i, a[i], c[i])
			}
		}
	}
}

func TestEvolver_CloseIsIdempotent(t *testing.T) {
	ev := NewEvolver(2)
	ev.Close()

	g := NewGrid(100, 100)
	snap := conwaySnapshot(t, rules.BoundaryWrap)
	ev.StepGrid(g, snap)
	ev.Close()
	ev.Close()
}

func TestGrid_FlipSwapsRoles(t *testing.T) {
	g := NewGrid(4, 4)
	first := g.CurrentIndex()
	g.Next()[0] = Alive
	g.Flip()
	if g.CurrentIndex() == first {
		t.Fatal("flip should change the current slot")
	}
	if g.Get(0, 0) != Alive {
		t.Error("written buffer should become current after flip")
	}
}
