package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew_FitsGrid(t *testing.T) {
	cam := New(1024, 768, 512, 512)

	if cam.X != 256 || cam.Y != 256 {
		t.Errorf("expected camera at (256, 256), got (%f, %f)", cam.X, cam.Y)
	}
	// Height is the limiting axis: 768/512.
	if !near(cam.Zoom, 1.5) {
		t.Errorf("expected fit zoom 1.5, got %f", cam.Zoom)
	}
}

func TestView_PreservesAspectAndCenters(t *testing.T) {
	cam := New(1024, 768, 512, 512)
	src, dst := cam.View()

	if !near(src.W, 512) || !near(src.H, 512) {
		t.Errorf("expected whole grid as source, got %+v", src)
	}
	if !near(dst.W, dst.H) {
		t.Errorf("square grid drawn non-square: %+v", dst)
	}
	if !near(dst.X, (1024-768)/2) || !near(dst.Y, 0) {
		t.Errorf("expected letterboxed destination, got %+v", dst)
	}
}

func TestView_ZoomedSourceShrinks(t *testing.T) {
	cam := New(512, 512, 512, 512)
	cam.SetZoom(4)
	src, dst := cam.View()
	if !near(src.W, 128) || !near(src.H, 128) {
		t.Errorf("expected 128x128 visible cells, got %+v", src)
	}
	if !near(dst.W, 512) {
		t.Errorf("expected full viewport destination, got %+v", dst)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(800, 600, 400, 300)
	cam.SetViewport(200, 0, 800, 600)
	cam.SetZoom(3)

	testCases := []struct{ sx, sy float32 }{
		{600, 300},
		{300, 100},
		{900, 500},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPan_WrapsOnTorus(t *testing.T) {
	cam := New(512, 512, 512, 512)
	cam.SetZoom(2)
	cam.Pan(-1000, 0) // 500 cells left of 256

	if cam.X < 0 || cam.X >= 512 {
		t.Errorf("expected wrapped X in [0,512), got %f", cam.X)
	}
	if !near(cam.X, 268) {
		t.Errorf("expected X 268 after wrap, got %f", cam.X)
	}
}

func TestPan_BoundedStaysInside(t *testing.T) {
	cam := New(512, 512, 512, 512)
	cam.SetWrap(false)
	cam.SetZoom(4) // 128 visible cells
	cam.Pan(-100000, 100000)

	src, _ := cam.View()
	if src.X < 0 || src.Y+src.H > 512+0.01 {
		t.Errorf("bounded view escaped the grid: %+v", src)
	}
	if !near(src.X, 0) || !near(src.Y, 384) {
		t.Errorf("expected view pinned to bottom-left corner, got %+v", src)
	}
}

func TestZoomClamped(t *testing.T) {
	cam := New(512, 512, 256, 256)

	cam.SetZoom(0.1)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to min %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(1000)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to max %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestSetViewport_KeepsFitWhenFitted(t *testing.T) {
	cam := New(512, 512, 256, 256)
	cam.SetViewport(0, 0, 1024, 1024)
	if !near(cam.Zoom, 4) {
		t.Errorf("fitted camera should refit on resize, got zoom %f", cam.Zoom)
	}

	cam.SetZoom(8)
	cam.SetViewport(0, 0, 2048, 2048)
	if !near(cam.Zoom, 8) {
		t.Errorf("zoomed camera should keep zoom on resize, got %f", cam.Zoom)
	}
}

func TestCellAt(t *testing.T) {
	cam := New(1024, 768, 512, 512)

	if _, _, ok := cam.CellAt(10, 10); ok {
		t.Error("letterbox area should not map to a cell")
	}

	_, dst := cam.View()
	x, y, ok := cam.CellAt(dst.X+1, dst.Y+1)
	if !ok || x != 0 || y != 0 {
		t.Errorf("expected cell (0,0), got (%d,%d) ok=%v", x, y, ok)
	}
	x, y, ok = cam.CellAt(dst.X+dst.W-1, dst.Y+dst.H-1)
	if !ok || x != 511 || y != 511 {
		t.Errorf("expected cell (511,511), got (%d,%d) ok=%v", x, y, ok)
	}
}

func TestReset(t *testing.T) {
	cam := New(512, 512, 512, 512)
	cam.SetZoom(8)
	cam.Pan(123, 45)
	cam.Reset()
	if cam.X != 256 || cam.Y != 256 || cam.Zoom != cam.MinZoom {
		t.Errorf("reset failed: (%f,%f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}
