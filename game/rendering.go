package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellular/rules"
	"github.com/pthm-cable/cellular/systems"
	"github.com/pthm-cable/cellular/telemetry"
	"github.com/pthm-cable/cellular/ui"
)

// controlsLegend is drawn along the bottom edge.
const controlsLegend = "Space pause  N step  R randomize  C clear  Tab panel  </> speed  wheel zoom  RMB pan"

// Draw renders the frame and the control surface. It closes the perf tick
// opened by Update.
func (g *Game) Draw() {
	g.perf.StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 12, B: 16, A: 255})

	g.camera.SetWrap(g.session.Snapshot().Boundary == rules.BoundaryWrap)
	src, dst := g.camera.View()
	g.display.Draw(g.cells.Texture(g.session.Grid.CurrentIndex()), src, dst)
	g.drawGridOverlays()

	g.perf.StartPhase(telemetry.PhaseUI)
	act := g.panel.Draw(g.session, int32(g.screenHeight))
	g.handleAction(act)

	if g.overlays.IsEnabled(ui.OverlayStats) {
		g.hud.Draw(g.hudData(), int32(g.screenWidth))
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.panel.Width()+10, 10, g.perf.Stats())
	}
	g.hud.DrawControls(g.panel.Width(), int32(g.screenHeight), controlsLegend+"  "+g.overlays.Legend())

	rl.EndDrawing()
	g.perf.EndTick()
}

// hudData gathers the readout values.
func (g *Game) hudData() ui.HUDData {
	snap := g.session.Snapshot()
	center := ""
	if snap.IncludeCenter {
		center = " +c"
	}
	data := ui.HUDData{
		Generation: g.session.Generation(),
		Population: g.session.Population(),
		Density:    g.session.Density(),
		Activity:   g.session.Activity(),
		FPS:        g.rate.FPS(),
		UPS:        g.rate.UPS(),
		TargetUPS:  g.session.Scheduler.Rate(),
		Paused:     !g.session.Scheduler.Running(),
		Rule: fmt.Sprintf("r%d%s S%d-%d B%d-%d", snap.Radius, center,
			snap.Survive.Low, snap.Survive.High, snap.Birth.Low, snap.Birth.High),
		Topology: g.session.Topology.String(),
		Boundary: snap.Boundary.String(),
		Alive:    ui.ColorFromRGB(g.session.Palette.Alive),
		Dead:     ui.ColorFromRGB(g.session.Palette.Dead),
	}

	mouse := rl.GetMousePosition()
	if !g.panel.Contains(mouse) {
		if x, y, ok := g.camera.CellAt(mouse.X, mouse.Y); ok {
			data.HasCursor = true
			data.CursorX, data.CursorY = x, y
			data.CursorAlive = g.session.Grid.Get(x, y) == systems.Alive
		}
	}
	return data
}
