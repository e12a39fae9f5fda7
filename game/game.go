// Package game wires the simulation session to the window, the control
// surface and telemetry.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellular/camera"
	"github.com/pthm-cable/cellular/config"
	"github.com/pthm-cable/cellular/renderer"
	"github.com/pthm-cable/cellular/rng"
	"github.com/pthm-cable/cellular/sim"
	"github.com/pthm-cable/cellular/telemetry"
	"github.com/pthm-cable/cellular/ui"
)

// panelWidth is the control panel width in pixels.
const panelWidth = 260

// bookmarkHistory is the number of stats windows kept for bookmark detection.
const bookmarkHistory = 10

// ErrHeadlessStalled is returned when a headless run could never advance a
// generation.
var ErrHeadlessStalled = errors.New("headless run cannot advance")

// Options configures a game instance beyond the loaded config.
type Options struct {
	Seed             int64
	Headless         bool
	LogStats         bool
	OutputDir        string        // CSV logs and config copy; empty disables
	UpdatesPerSecond int           // overrides the config when > 0
	StatsWindow      time.Duration // overrides the config when > 0
}

// Game holds the complete application state.
type Game struct {
	cfg      *config.Config
	session  *sim.Session
	headless bool

	// Rendering, nil when headless
	cells     *renderer.CellTextures
	display   *renderer.Display
	camera    *camera.Camera
	panel     *ui.ControlPanel
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	overlays  *ui.OverlayRegistry

	// Telemetry
	collector *telemetry.Collector
	rate      *telemetry.RateMeter
	perf      *telemetry.PerfCollector
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager
	logStats  bool

	pendingSteps int
	screenWidth  float32
	screenHeight float32
	dragging     bool
}

// NewGame builds the session and, unless headless, the GPU resources. The
// window must already be open in graphical mode.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()
	statsWindow := cfg.Derived.StatsWindow
	if opts.StatsWindow > 0 {
		statsWindow = opts.StatsWindow
	}

	g := &Game{
		cfg:       cfg,
		headless:  opts.Headless,
		logStats:  opts.LogStats,
		collector: telemetry.NewCollector(statsWindow),
		rate:      telemetry.NewRateMeter(cfg.Derived.RateWindow),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindowTicks),
		bookmarks: telemetry.NewBookmarkDetector(bookmarkHistory),
	}

	simOpts, err := sim.OptionsFromConfig(cfg, rng.New(opts.Seed))
	if err != nil {
		return nil, err
	}
	if opts.UpdatesPerSecond > 0 {
		simOpts.UpdatesPerSecond = opts.UpdatesPerSecond
	}

	if !g.headless {
		if err := g.initGraphics(&simOpts); err != nil {
			g.Unload()
			return nil, err
		}
	} else {
		simOpts.StartPaused = false
		if err := checkHeadless(simOpts); err != nil {
			return nil, err
		}
	}

	g.session, err = sim.NewSession(simOpts)
	if err != nil {
		g.Unload()
		return nil, err
	}

	g.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.Unload()
		return nil, err
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	slog.Info("session started",
		"seed", opts.Seed,
		"grid", fmt.Sprintf("%dx%d", g.session.Grid.W, g.session.Grid.H),
		"workers", g.session.Workers(),
		"ups", g.session.Scheduler.Rate(),
		"headless", g.headless,
	)
	return g, nil
}

// checkHeadless rejects options under which the scheduler never releases a
// step. Nothing can unpause or speed up a headless run.
func checkHeadless(opts sim.Options) error {
	if opts.UpdatesPerSecond <= 0 {
		return fmt.Errorf("%w: updates_per_second is %d", ErrHeadlessStalled, opts.UpdatesPerSecond)
	}
	return nil
}

// initGraphics creates the cell textures, display shader and UI. The
// session pushes into them through simOpts.
func (g *Game) initGraphics(simOpts *sim.Options) error {
	var err error
	g.cells, err = renderer.NewCellTextures(simOpts.Width, simOpts.Height)
	if err != nil {
		return err
	}
	g.display, err = renderer.NewDisplay(simOpts.Width, simOpts.Height)
	if err != nil {
		return err
	}
	simOpts.Surface = g.cells
	simOpts.Sink = g.display

	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())

	g.panel = ui.NewControlPanel(panelWidth, g.cfg.Screen.PanelOpen)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel()
	g.overlays = ui.NewOverlayRegistry()

	viewX := float32(g.panel.Width())
	g.camera = camera.New(g.screenWidth-viewX, g.screenHeight, float32(simOpts.Width), float32(simOpts.Height))
	g.camera.SetViewport(viewX, 0, g.screenWidth-viewX, g.screenHeight)
	return nil
}

// Update handles input and advances the simulation by the frame time.
func (g *Game) Update() {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseInput)
	g.handleInput()

	g.perf.StartPhase(telemetry.PhaseSimulate)
	dt := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
	steps := g.session.Frame(dt)
	for ; g.pendingSteps > 0; g.pendingSteps-- {
		g.session.Step()
		steps++
	}
	g.perf.AddSteps(steps)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	if g.rate.Tick(dt, steps) {
		rl.SetWindowTitle(fmt.Sprintf("%s | %.0f FPS | %.0f UPS", g.cfg.Screen.Title, g.rate.FPS(), g.rate.UPS()))
	}
	g.observe(dt, steps)
}

// UpdateHeadless advances one simulated frame of HeadlessDT without any
// window.
func (g *Game) UpdateHeadless() {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseSimulate)
	dt := g.cfg.Derived.HeadlessDT
	steps := g.session.Frame(dt)
	g.perf.AddSteps(steps)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.rate.Tick(dt, steps)
	g.observe(dt, steps)

	g.perf.EndTick()
}

// Generation returns the number of completed steps since the last reset.
func (g *Game) Generation() uint64 {
	return g.session.Generation()
}

// Unload frees GPU resources, stops workers and closes output files.
func (g *Game) Unload() {
	if g.session != nil {
		g.session.Close()
	}
	if g.display != nil {
		g.display.Unload()
	}
	if g.cells != nil {
		g.cells.Unload()
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
