package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellular/ui"
)

// gridLineMinZoom is the zoom (pixels per cell) below which grid lines are
// skipped.
const gridLineMinZoom = 6

// drawGridOverlays renders the enabled grid overlays clipped to the drawn
// grid area.
func (g *Game) drawGridOverlays() {
	gridLines := g.overlays.IsEnabled(ui.OverlayGridLines) && g.camera.Zoom >= gridLineMinZoom
	footprint := g.overlays.IsEnabled(ui.OverlayFootprint)
	if !gridLines && !footprint {
		return
	}

	_, dst := g.camera.View()
	rl.BeginScissorMode(int32(dst.X), int32(dst.Y), int32(dst.W), int32(dst.H))
	if gridLines {
		g.drawGridLines()
	}
	if footprint {
		g.drawFootprint()
	}
	rl.EndScissorMode()
}

// drawGridLines draws cell borders across the visible area.
func (g *Game) drawGridLines() {
	src, dst := g.camera.View()
	zoom := g.camera.Zoom
	color := rl.Color{R: 255, G: 255, B: 255, A: 28}

	x0 := float32(math.Floor(float64(src.X)))
	for cx := x0; cx <= src.X+src.W; cx++ {
		sx := int32(dst.X + (cx-src.X)*zoom)
		rl.DrawLine(sx, int32(dst.Y), sx, int32(dst.Y+dst.H), color)
	}
	y0 := float32(math.Floor(float64(src.Y)))
	for cy := y0; cy <= src.Y+src.H; cy++ {
		sy := int32(dst.Y + (cy-src.Y)*zoom)
		rl.DrawLine(int32(dst.X), sy, int32(dst.X+dst.W), sy, color)
	}
}

// drawFootprint shades the kernel taps around the hovered cell: green for
// positive weights, red for negative, alpha by magnitude.
func (g *Game) drawFootprint() {
	mouse := rl.GetMousePosition()
	if g.panel.Contains(mouse) {
		return
	}
	cx, cy, ok := g.camera.CellAt(mouse.X, mouse.Y)
	if !ok {
		return
	}

	snap := g.session.Snapshot()
	maxW := g.session.Kernel.MaxWeight()
	zoom := g.camera.Zoom
	ox, oy := g.camera.WorldToScreen(float32(cx), float32(cy))

	for _, tap := range snap.Taps {
		w := tap.W
		alpha := uint8(40 + 160*math.Min(1, math.Abs(float64(w/maxW))))
		color := rl.Color{R: 60, G: 220, B: 90, A: alpha}
		if w < 0 {
			color = rl.Color{R: 230, G: 60, B: 50, A: alpha}
		}
		rl.DrawRectangleV(
			rl.Vector2{X: ox + float32(tap.DX)*zoom, Y: oy + float32(tap.DY)*zoom},
			rl.Vector2{X: zoom, Y: zoom},
			color,
		)
	}
	rl.DrawRectangleLinesEx(rl.Rectangle{X: ox, Y: oy, Width: zoom, Height: zoom}, 1, rl.Yellow)
}
