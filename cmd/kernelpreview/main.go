// Kernel generator preview tool - interactive weight heatmap with sliders.
//
// Usage: go run ./cmd/kernelpreview
package main

import (
	"fmt"
	"image/color"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellular/rng"
	"github.com/pthm-cable/cellular/rules"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

// PreviewParams holds the generator inputs.
type PreviewParams struct {
	Topology        rules.Topology
	Radius          int
	MaxWeight       float32
	NeutralFraction float32
	NegativeShare   float32
	IncludeCenter   bool
	Seed            int64
}

func defaultParams() PreviewParams {
	g := rules.DefaultGeneratorParams()
	return PreviewParams{
		Topology:        rules.TopologyUniform,
		Radius:          3,
		MaxWeight:       g.MaxWeight,
		NeutralFraction: g.NeutralFraction,
		NegativeShare:   g.NegativeShare,
		Seed:            12345,
	}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Kernel Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	topologies := rules.Topologies()
	topoIndex := 0

	// Sized for the largest footprint; smaller kernels use the top-left corner.
	side := 2*rules.MaxRadius + 1
	img := rl.GenImageColor(side, side, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)
	rl.SetTextureFilter(texture, rl.FilterPoint)

	var kernel *rules.Kernel
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			k, err := generate(params)
			if err == nil {
				kernel = k
				updateTexture(texture, kernel, side)
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		ks := float32(kernel.Side())
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: ks, Height: ks},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
		drawCenterMarker(kernel)

		// Draw stats
		lo, hi := kernel.Bounds()
		var positive, negative int
		for _, w := range kernel.Weights() {
			if w > 0 {
				positive++
			} else if w < 0 {
				negative++
			}
		}
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Min: %.2f  Max: %.2f  Taps: +%d / -%d", lo, hi, positive, negative), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Max weighted sum: %.2f  Neighbor bound: %d",
			kernel.MaxWeightedSum(params.IncludeCenter), kernel.MaxNeighborCount(params.IncludeCenter)), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Kernel Generator", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Topology selector
		rl.DrawText("Topology", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 30, Height: 24}, "<") {
			topoIndex = (topoIndex + len(topologies) - 1) % len(topologies)
			params.Topology = topologies[topoIndex]
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 34, Y: panelY, Width: 30, Height: 24}, ">") {
			topoIndex = (topoIndex + 1) % len(topologies)
			params.Topology = topologies[topoIndex]
			needsRegen = true
		}
		rl.DrawText(params.Topology.String(), int32(panelX+74), int32(panelY+4), 16, rl.DarkGray)
		panelY += 40

		// Radius slider
		rl.DrawText("Radius (footprint half-width)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newRadius := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", fmt.Sprint(rules.MaxRadius),
			float32(params.Radius), 1, rules.MaxRadius,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Radius), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if r := int(math.Round(float64(newRadius))); r != params.Radius {
			params.Radius = r
			needsRegen = true
		}
		panelY += 35

		// Max weight slider
		rl.DrawText("Max weight (K)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newMax := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "10",
			params.MaxWeight, 1, 10,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.MaxWeight), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newMax != params.MaxWeight {
			params.MaxWeight = newMax
			needsRegen = true
		}
		panelY += 35

		// Neutral fraction slider
		rl.DrawText("Neutral fraction (share set to 1.0)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newNeutral := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "1",
			params.NeutralFraction, 0, 1,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.NeutralFraction), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newNeutral != params.NeutralFraction {
			params.NeutralFraction = newNeutral
			needsRegen = true
		}
		panelY += 35

		// Negative share slider
		rl.DrawText("Negative share (of the rest)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newNegative := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "1",
			params.NegativeShare, 0, 1,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.NegativeShare), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newNegative != params.NegativeShare {
			params.NegativeShare = newNegative
			needsRegen = true
		}
		panelY += 45

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(params.IncludeCenter, "Center: on", "Center: off")) {
			params.IncludeCenter = !params.IncludeCenter
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(1, 99999))
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			topoIndex = 0
			needsRegen = true
		}
		rl.DrawText(fmt.Sprintf("seed %d", params.Seed), int32(panelX+130), int32(panelY+8), 14, rl.Gray)
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := configYAML(params)
		for _, line := range yaml {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			text := ""
			for _, line := range yaml {
				text += line + "\n"
			}
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// generate builds a kernel the same way the session regenerates one.
func generate(p PreviewParams) (*rules.Kernel, error) {
	k, err := rules.NewKernel(p.Radius, p.MaxWeight)
	if err != nil {
		return nil, err
	}
	gp := rules.GeneratorParams{
		MaxWeight:       p.MaxWeight,
		NeutralFraction: p.NeutralFraction,
		NegativeShare:   p.NegativeShare,
	}
	if err := k.Regenerate(p.Topology, gp, rng.New(p.Seed)); err != nil {
		return nil, err
	}
	return k, nil
}

func configYAML(p PreviewParams) []string {
	return []string{
		"rules:",
		fmt.Sprintf("  radius: %d", p.Radius),
		fmt.Sprintf("  include_center: %t", p.IncludeCenter),
		"kernel:",
		fmt.Sprintf("  max_weight: %.1f", p.MaxWeight),
		fmt.Sprintf("  topology: %s", p.Topology.Key()),
		fmt.Sprintf("  neutral_fraction: %.2f", p.NeutralFraction),
		fmt.Sprintf("  negative_share: %.2f", p.NegativeShare),
	}
}

// drawCenterMarker outlines the center tap.
func drawCenterMarker(k *rules.Kernel) {
	cell := float32(previewSize) / float32(k.Side())
	off := 10 + float32(k.Radius())*cell
	rl.DrawRectangleLinesEx(rl.Rectangle{X: off, Y: off, Width: cell, Height: cell}, 2, rl.Yellow)
}

// updateTexture writes the kernel into the texture as a diverging map:
// red for negative weights, gray at zero, green for positive.
func updateTexture(texture rl.Texture2D, k *rules.Kernel, side int) {
	pixels := make([]color.RGBA, side*side)
	ks := k.Side()
	maxW := k.MaxWeight()
	for y := 0; y < ks; y++ {
		for x := 0; x < ks; x++ {
			w := k.At(x-k.Radius(), y-k.Radius())
			t := float32(math.Min(1, math.Abs(float64(w/maxW))))
			c := color.RGBA{R: 40, G: 40, B: 48, A: 255}
			switch {
			case w > 0:
				c.R = uint8(40 + t*20)
				c.G = uint8(40 + t*200)
				c.B = uint8(48 + t*40)
			case w < 0:
				c.R = uint8(40 + t*200)
				c.G = uint8(40 + t*10)
				c.B = uint8(48 - t*20)
			}
			pixels[y*side+x] = c
		}
	}
	rl.UpdateTexture(texture, pixels)
}
