// Shader debug tool - runs a session offscreen and renders the current
// generation through the cell shader to a PNG file for inspection.
//
// Usage: go run ./cmd/shaderdebug -steps 200 -forecast -out debug.png
package main

import (
	"flag"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellular/camera"
	"github.com/pthm-cable/cellular/config"
	"github.com/pthm-cable/cellular/renderer"
	"github.com/pthm-cable/cellular/rng"
	"github.com/pthm-cable/cellular/sim"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "debug.png", "Output PNG path")
	seed := flag.Int64("seed", 1, "RNG seed")
	steps := flag.Int("steps", 0, "Generations to run before rendering")
	scale := flag.Int("scale", 2, "Output pixels per cell")
	forecast := flag.Bool("forecast", false, "Tint cells that change next step")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fail("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	width := int32(cfg.Grid.Width * *scale)
	height := int32(cfg.Grid.Height * *scale)

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(width, height, "Shader Debug")
	defer rl.CloseWindow()

	cells, err := renderer.NewCellTextures(cfg.Grid.Width, cfg.Grid.Height)
	if err != nil {
		fail("%v", err)
	}
	defer cells.Unload()

	display, err := renderer.NewDisplay(cfg.Grid.Width, cfg.Grid.Height)
	if err != nil {
		fail("%v", err)
	}
	defer display.Unload()
	display.SetForecast(*forecast)

	opts, err := sim.OptionsFromConfig(cfg, rng.New(*seed))
	if err != nil {
		fail("%v", err)
	}
	opts.Surface = cells
	opts.Sink = display
	session, err := sim.NewSession(opts)
	if err != nil {
		fail("%v", err)
	}
	defer session.Close()

	for i := 0; i < *steps; i++ {
		session.Step()
	}

	// Create render texture
	target := rl.LoadRenderTexture(width, height)
	defer rl.UnloadRenderTexture(target)

	gw, gh := float32(cfg.Grid.Width), float32(cfg.Grid.Height)
	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	display.Draw(
		cells.Texture(session.Grid.CurrentIndex()),
		camera.Rect{W: gw, H: gh},
		camera.Rect{W: float32(width), H: float32(height)},
	)
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if !success {
		fail("failed to export image")
	}
	fmt.Printf("Generation %d (population %d) rendered to: %s (%dx%d)\n",
		session.Generation(), session.Population(), *outPath, width, height)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
