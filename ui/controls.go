package ui

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellular/palette"
	"github.com/pthm-cable/cellular/rules"
	"github.com/pthm-cable/cellular/sim"
)

// Action is a set of flags describing what the control panel did in a frame.
type Action uint8

const (
	ActionRules Action = 1 << iota // rules or kernel applied
	ActionReset                    // grid restarted from generation zero
	ActionStep                     // single step requested
	ActionPause                    // run state toggled
)

// Has reports whether a contains flag.
func (a Action) Has(flag Action) bool { return a&flag != 0 }

// ControlPanel is the left-side panel that edits the session.
type ControlPanel struct {
	renderer *Renderer
	width    int32
	visible  bool
}

// NewControlPanel creates a new control panel.
func NewControlPanel(width int32, visible bool) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		width:    width,
		visible:  visible,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Width returns the screen width the panel occupies, zero when hidden.
func (c *ControlPanel) Width() int32 {
	if !c.visible {
		return 0
	}
	return c.width
}

// Contains reports whether a screen point is over the panel.
func (c *ControlPanel) Contains(p rl.Vector2) bool {
	return c.visible && p.X < float32(c.width)
}

// Draw renders the panel and applies any edits to s.
func (c *ControlPanel) Draw(s *sim.Session, screenH int32) Action {
	if !c.visible {
		return 0
	}

	r := c.renderer
	th := r.Theme
	r.DrawPanel(0, 0, c.width, screenH)

	pad := float32(th.Padding)
	x := pad
	w := float32(c.width) - 2*pad
	half := (w - 6) / 2
	y := pad

	var act Action

	rl.DrawText("Cellular", int32(x), int32(y), 20, rl.White)
	y += 28

	// Rules
	y = float32(r.DrawSectionHeader(int32(x), int32(y), "Rules"))

	radius, ny := r.IntSlider(x, y, w, "Radius", s.Settings.Radius, 1, rules.MaxRadius)
	y = ny
	if radius != s.Settings.Radius {
		s.Settings.Radius = radius
		act |= ActionRules
	}

	if r.Button(x, y, half, toggleText(s.Settings.IncludeCenter, "Center: on", "Center: off")) {
		s.Settings.IncludeCenter = !s.Settings.IncludeCenter
		act |= ActionRules
	}
	boundary := s.Snapshot().Boundary
	if r.Button(x+half+6, y, half, "Edges: "+boundary.String()) {
		next := rules.BoundaryClamp
		if boundary == rules.BoundaryClamp {
			next = rules.BoundaryWrap
		}
		s.SetBoundary(next)
		slog.Info("boundary changed", "boundary", next.String())
	}
	y += th.ButtonHeight + 8

	// Apply structural edits first so the range sliders see the new bound.
	if act.Has(ActionRules) {
		s.ClampAndApply()
	}

	bound := s.MaxNeighborCount()
	survive, y, changed := c.rangeSliders(x, y, w, "Survive", s.Settings.Survive, bound)
	if changed {
		s.Settings.Survive = survive
		act |= ActionRules
	}
	birth, y, changed := c.rangeSliders(x, y, w, "Birth", s.Settings.Birth, bound)
	if changed {
		s.Settings.Birth = birth
		act |= ActionRules
	}
	if act.Has(ActionRules) {
		s.ClampAndApply()
	}
	rl.DrawText(fmt.Sprintf("neighbor bound %d", bound), int32(x), int32(y), th.FontSize, th.MutedColor)
	y += float32(th.LineHeight) + 4

	// Kernel
	y = float32(r.DrawSectionHeader(int32(x), int32(y), "Kernel"))
	if r.Button(x, y, 24, "<") {
		s.Topology = cycle(rules.Topologies(), s.Topology, -1)
	}
	rl.DrawText(s.Topology.String(), int32(x+32), int32(y+6), th.FontSize, th.ValueColor)
	if r.Button(x+w-24, y, 24, ">") {
		s.Topology = cycle(rules.Topologies(), s.Topology, 1)
	}
	y += th.ButtonHeight + 4
	if r.Button(x, y, w, "Generate Kernel") {
		if err := s.RegenerateKernel(); err != nil {
			slog.Error("kernel generation failed", "topology", s.Topology.Key(), "error", err)
		} else {
			slog.Info("kernel generated", "topology", s.Topology.Key(), "radius", s.Kernel.Radius())
			act |= ActionRules
		}
	}
	y += th.ButtonHeight + 10

	// Palette
	y = float32(r.DrawSectionHeader(int32(x), int32(y), "Palette"))
	if r.Button(x, y, half, s.Model.String()) {
		s.Model = cycle(palette.Models(), s.Model, 1)
	}
	if r.Button(x+half+6, y, half, s.Strategy.String()) {
		s.Strategy = cycle(palette.Strategies(), s.Strategy, 1)
	}
	y += th.ButtonHeight + 4
	if r.Button(x, y, w-40, "Generate Palette") {
		if err := s.GeneratePalette(); err != nil {
			slog.Error("palette generation failed", "error", err)
		}
	}
	rl.DrawRectangle(int32(x+w-32), int32(y+4), 14, 16, ColorFromRGB(s.Palette.Alive))
	rl.DrawRectangle(int32(x+w-16), int32(y+4), 14, 16, ColorFromRGB(s.Palette.Dead))
	y += th.ButtonHeight + 10

	// Speed
	y = float32(r.DrawSectionHeader(int32(x), int32(y), "Speed"))
	ups, ny := r.IntSlider(x, y, w, "Updates/sec", s.Scheduler.Rate(), 0, s.MaxUPS())
	y = ny
	if ups != s.Scheduler.Rate() {
		s.SetUpdatesPerSecond(ups)
	}
	if r.Button(x, y, half, toggleText(s.Scheduler.Running(), "Pause", "Resume")) {
		act |= ActionPause
	}
	if r.Button(x+half+6, y, half, "Step") {
		act |= ActionStep
	}
	y += th.ButtonHeight + 10

	// Grid
	y = float32(r.DrawSectionHeader(int32(x), int32(y), "Grid"))
	if r.Button(x, y, half, "Randomize") {
		s.Randomize()
		act |= ActionReset
	}
	if r.Button(x+half+6, y, half, "Clear") {
		s.Clear()
		act |= ActionReset
	}
	y += th.ButtonHeight + 4
	if r.Button(x, y, half, "Random Rules") {
		s.RandomizeRules()
		slog.Info("rules randomized", "settings", fmt.Sprintf("%+v", s.Settings))
		act |= ActionRules | ActionReset
	}
	if r.Button(x+half+6, y, half, "Defaults") {
		s.ResetDefaults()
		act |= ActionRules
	}

	return act
}

// rangeSliders draws low/high sliders for a range. Dragging one bound past
// the other carries the other along.
func (c *ControlPanel) rangeSliders(x, y, w float32, label string, cur rules.Range, bound int) (rules.Range, float32, bool) {
	next := cur
	low, y := c.renderer.IntSlider(x, y, w, label+" low", cur.Low, 0, bound)
	if low != cur.Low {
		next = next.WithLow(low)
	}
	high, y := c.renderer.IntSlider(x, y, w, label+" high", next.High, 0, bound)
	if high != next.High {
		next = next.WithHigh(high)
	}
	return next, y, next != cur
}

// cycle returns the element step places after cur in all, wrapping around.
func cycle[T comparable](all []T, cur T, step int) T {
	idx := 0
	for i, v := range all {
		if v == cur {
			idx = i
			break
		}
	}
	n := len(all)
	return all[((idx+step)%n+n)%n]
}
