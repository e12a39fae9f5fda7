package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellular/ui"
)

// upsStep is the rate change per comma/period key press.
const upsStep = 10

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.togglePause()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		g.pendingSteps++
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.session.Randomize()
		g.resetDetection()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.session.Clear()
		g.resetDetection()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.panel.Toggle()
	}

	// Rate control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.session.SetUpdatesPerSecond(g.session.Scheduler.Rate() - upsStep)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.session.SetUpdatesPerSecond(g.session.Scheduler.Rate() + upsStep)
	}

	g.handleOverlayKeys()
	g.handleCameraInput()
}

// togglePause flips the run state.
func (g *Game) togglePause() {
	running := g.session.Scheduler.Toggle()
	slog.Info("run state changed", "running", running, "generation", g.session.Generation())
}

// handleOverlayKeys toggles overlays bound to pressed keys.
func (g *Game) handleOverlayKeys() {
	for _, key := range g.overlays.Keys() {
		if !rl.IsKeyPressed(key) {
			continue
		}
		id, enabled, ok := g.overlays.HandleKeyPress(key)
		if ok && id == ui.OverlayForecast {
			g.display.SetForecast(enabled)
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())
}

// syncViewport fits the camera to the area right of the panel.
func (g *Game) syncViewport() {
	viewX := float32(g.panel.Width())
	g.camera.SetViewport(viewX, 0, g.screenWidth-viewX, g.screenHeight)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	g.syncViewport()

	// Pan speed in screen pixels per frame
	panSpeed := float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	mouse := rl.GetMousePosition()
	overPanel := g.panel.Contains(mouse)

	// Drag to pan, started outside the panel
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) && !overPanel {
		g.dragging = true
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonRight) {
		g.dragging = false
	}
	if g.dragging {
		d := rl.GetMouseDelta()
		g.camera.Pan(-d.X, -d.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !overPanel {
		g.camera.ZoomBy(1 + wheel*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// handleAction applies what the control panel did this frame.
func (g *Game) handleAction(act ui.Action) {
	if act.Has(ui.ActionPause) {
		g.togglePause()
	}
	if act.Has(ui.ActionStep) {
		g.pendingSteps++
	}
	if act.Has(ui.ActionRules) {
		snap := g.session.Snapshot()
		slog.Info("rules applied",
			"radius", snap.Radius,
			"include_center", snap.IncludeCenter,
			"survive", snap.Survive,
			"birth", snap.Birth,
			"boundary", snap.Boundary.String(),
		)
	}
	if act.Has(ui.ActionRules) || act.Has(ui.ActionReset) {
		g.resetDetection()
	}
}
