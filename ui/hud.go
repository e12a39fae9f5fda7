package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellular/telemetry"
)

// HUDData holds all the data needed to render the stats readout.
type HUDData struct {
	Generation uint64
	Population int
	Density    float64
	Activity   float64
	FPS        float64
	UPS        float64
	TargetUPS  int
	Paused     bool
	Rule       string
	Topology   string
	Boundary   string
	Alive      rl.Color
	Dead       rl.Color

	// Cursor is the hovered cell, valid when HasCursor is set.
	CursorX, CursorY int
	CursorAlive      bool
	HasCursor        bool
}

var hudSections = []SectionDescriptor{
	{
		Title: "Simulation",
		Fields: []FieldDescriptor{
			{Label: "Generation", Widget: WidgetText, TextGetter: func(d any) string {
				return fmt.Sprintf("%d", d.(HUDData).Generation)
			}},
			{Label: "Population", Widget: WidgetText, TextGetter: func(d any) string {
				return fmt.Sprintf("%d", d.(HUDData).Population)
			}},
			{Label: "Density", Widget: WidgetBar, Getter: func(d any) float32 {
				return float32(d.(HUDData).Density)
			}},
			{Label: "Activity", Widget: WidgetBar, Getter: func(d any) float32 {
				return float32(d.(HUDData).Activity)
			}},
		},
	},
	{
		Title: "Rate",
		Fields: []FieldDescriptor{
			{Label: "FPS", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
				return float32(d.(HUDData).FPS)
			}},
			{Label: "UPS", Widget: WidgetText, TextGetter: func(d any) string {
				h := d.(HUDData)
				return fmt.Sprintf("%.0f / %d", h.UPS, h.TargetUPS)
			}},
			{Label: "State", Widget: WidgetText, TextGetter: func(d any) string {
				return toggleText(d.(HUDData).Paused, "PAUSED", "running")
			}},
		},
	},
	{
		Title: "Rule",
		Fields: []FieldDescriptor{
			{Label: "Rule", Widget: WidgetText, TextGetter: func(d any) string { return d.(HUDData).Rule }},
			{Label: "Kernel", Widget: WidgetText, TextGetter: func(d any) string { return d.(HUDData).Topology }},
			{Label: "Edges", Widget: WidgetText, TextGetter: func(d any) string { return d.(HUDData).Boundary }},
			{Label: "Alive", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color { return d.(HUDData).Alive }},
			{Label: "Dead", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color { return d.(HUDData).Dead }},
		},
	},
	{
		Title:   "Cursor",
		Visible: func(d any) bool { return d.(HUDData).HasCursor },
		Fields: []FieldDescriptor{
			{Label: "Cell", Widget: WidgetText, TextGetter: func(d any) string {
				h := d.(HUDData)
				return fmt.Sprintf("(%d, %d) %s", h.CursorX, h.CursorY, toggleText(h.CursorAlive, "alive", "dead"))
			}},
		},
	},
}

// HUD renders the stats readout in the top-right corner.
type HUD struct {
	renderer *Renderer
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		width:    230,
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData, screenW int32) {
	r := h.renderer
	pad := r.Theme.Padding

	height := pad * 2
	for _, sd := range hudSections {
		height += r.SectionHeight(sd, data)
	}

	x := screenW - h.width - pad
	y := pad
	r.DrawPanel(x, y, h.width, height)

	y += pad
	for _, sd := range hudSections {
		y = r.DrawSection(x+pad, y, sd, data, h.width-pad*2)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(x, screenH int32, controls string) {
	rl.DrawText(controls, x+10, screenH-22, 14, rl.Gray)
}

// PerfPanel renders frame phase timings.
type PerfPanel struct {
	renderer *Renderer
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel() *PerfPanel {
	return &PerfPanel{renderer: NewRenderer()}
}

// Draw renders the performance panel at x, y.
func (p *PerfPanel) Draw(x, y int32, stats telemetry.PerfStats) {
	r := p.renderer
	width := int32(260)
	lineHeight := int32(14)
	phases := []string{
		telemetry.PhaseInput,
		telemetry.PhaseSimulate,
		telemetry.PhaseTelemetry,
		telemetry.PhaseUI,
		telemetry.PhaseRender,
	}
	height := r.Theme.Padding*2 + 40 + lineHeight*int32(len(phases))
	r.DrawPanel(x, y, width, height)

	x += r.Theme.Padding
	y += r.Theme.Padding

	rl.DrawText("Frame Performance", x, y, 14, rl.White)
	y += 18
	rl.DrawText(fmt.Sprintf("tick %s  step %s  %.1f steps/tick",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.AvgStep.Round(time.Microsecond),
		stats.StepsPerTick), x, y, 12, rl.Yellow)
	y += 18

	for _, name := range phases {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += lineHeight
	}
}
