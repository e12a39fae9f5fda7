// Package camera provides a 2D camera for viewing the cell grid.
package camera

import "math"

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float32
}

// Camera controls the viewport into the grid. World units are cells; Zoom is
// screen pixels per cell. The grid is never stretched: both axes share one
// zoom, and when the grid is smaller than the viewport it is centered.
type Camera struct {
	// Position is the camera center in cell coordinates
	X, Y float32

	// Zoom level in pixels per cell
	Zoom float32

	// Viewport rectangle on screen
	OriginX, OriginY     float32
	ViewportW, ViewportH float32

	// Grid dimensions in cells
	WorldW, WorldH float32

	// Wrap enables toroidal panning. When false the view is kept inside the
	// grid.
	Wrap bool

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera that fits the whole grid into the viewport.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		Wrap:      true,
		MaxZoom:   32,
	}
	c.MinZoom = c.FitZoom()
	c.Zoom = c.MinZoom
	return c
}

// FitZoom is the largest zoom at which the whole grid is visible.
func (c *Camera) FitZoom() float32 {
	return min(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// visibleSize returns the visible extent in cells, capped at the grid size.
func (c *Camera) visibleSize() (w, h float32) {
	return min(c.ViewportW/c.Zoom, c.WorldW), min(c.ViewportH/c.Zoom, c.WorldH)
}

// View returns the source rectangle in cell coordinates and the destination
// rectangle in screen pixels. With wrapping the source may extend past the
// grid edges and must be sampled with repeat addressing.
func (c *Camera) View() (src, dst Rect) {
	visW, visH := c.visibleSize()
	src = Rect{X: c.X - visW/2, Y: c.Y - visH/2, W: visW, H: visH}

	dstW, dstH := visW*c.Zoom, visH*c.Zoom
	dst = Rect{
		X: c.OriginX + (c.ViewportW-dstW)/2,
		Y: c.OriginY + (c.ViewportH-dstH)/2,
		W: dstW,
		H: dstH,
	}
	return src, dst
}

// WorldToScreen converts cell coordinates to screen coordinates.
// For toroidal grids, this finds the shortest path to the viewport center.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx, dy := wx-c.X, wy-c.Y
	if c.Wrap {
		dx = toroidalDelta(wx, c.X, c.WorldW)
		dy = toroidalDelta(wy, c.Y, c.WorldH)
	}
	sx = c.OriginX + c.ViewportW/2 + dx*c.Zoom
	sy = c.OriginY + c.ViewportH/2 + dy*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to cell coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	dx := (sx - c.OriginX - c.ViewportW/2) / c.Zoom
	dy := (sy - c.OriginY - c.ViewportH/2) / c.Zoom

	wx, wy = c.X+dx, c.Y+dy
	if c.Wrap {
		wx = mod(wx, c.WorldW)
		wy = mod(wy, c.WorldH)
	}
	return wx, wy
}

// CellAt returns the grid cell under a screen position, if the position
// falls on the drawn grid.
func (c *Camera) CellAt(sx, sy float32) (x, y int, ok bool) {
	_, dst := c.View()
	if sx < dst.X || sx >= dst.X+dst.W || sy < dst.Y || sy >= dst.Y+dst.H {
		return 0, 0, false
	}
	wx, wy := c.ScreenToWorld(sx, sy)
	x, y = int(math.Floor(float64(wx))), int(math.Floor(float64(wy)))
	if x < 0 || y < 0 || x >= int(c.WorldW) || y >= int(c.WorldH) {
		return 0, 0, false
	}
	return x, y, true
}

// SetViewport updates the viewport rectangle and recalculates zoom
// constraints.
func (c *Camera) SetViewport(originX, originY, viewportW, viewportH float32) {
	c.OriginX, c.OriginY = originX, originY
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	wasFit := c.Zoom <= c.MinZoom
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.FitZoom()
	if wasFit || c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.constrain()
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.constrain()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.constrain()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// SetWrap switches between toroidal and bounded panning.
func (c *Camera) SetWrap(wrap bool) {
	c.Wrap = wrap
	c.constrain()
}

// Reset returns the camera to the fitted, centered view.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = c.MinZoom
}

// constrain wraps the center on a torus, or keeps the view inside the grid.
func (c *Camera) constrain() {
	if c.Wrap {
		c.X = mod(c.X, c.WorldW)
		c.Y = mod(c.Y, c.WorldH)
		return
	}
	visW, visH := c.visibleSize()
	c.X = clamp(c.X, visW/2, c.WorldW-visW/2)
	c.Y = clamp(c.Y, visH/2, c.WorldH-visH/2)
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
