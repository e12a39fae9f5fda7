package renderer

import (
	_ "embed"
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cellular/camera"
)

//go:embed shaders/cells.fs
var cellsFragment string

// ErrShaderLoad is returned when the cell shader fails to compile or link.
var ErrShaderLoad = errors.New("cell shader failed to load")

// Display draws the current generation through the cell shader. It is the
// window-side ParameterSink: the session pushes rules, kernel and colors into
// it by uniform name.
type Display struct {
	shader   rl.Shader
	locs     map[string]int32
	forecast bool
}

// NewDisplay compiles the cell shader for a grid of the given size.
func NewDisplay(gridW, gridH int) (*Display, error) {
	d := &Display{
		shader: rl.LoadShaderFromMemory("", cellsFragment),
		locs:   make(map[string]int32),
	}
	// A failed build falls back to raylib's default shader, which has none
	// of our uniforms.
	if d.loc("aliveColor") < 0 {
		rl.UnloadShader(d.shader)
		return nil, ErrShaderLoad
	}
	d.SetVec2("gridSize", float32(gridW), float32(gridH))
	d.SetForecast(false)
	return d, nil
}

func (d *Display) loc(name string) int32 {
	if l, ok := d.locs[name]; ok {
		return l
	}
	l := rl.GetShaderLocation(d.shader, name)
	d.locs[name] = l
	return l
}

// SetInt sets a scalar uniform. Integer parameters are declared as floats in
// the shader.
func (d *Display) SetInt(name string, v int) {
	rl.SetShaderValue(d.shader, d.loc(name), []float32{float32(v)}, rl.ShaderUniformFloat)
}

// SetVec2 sets a vec2 uniform.
func (d *Display) SetVec2(name string, x, y float32) {
	rl.SetShaderValue(d.shader, d.loc(name), []float32{x, y}, rl.ShaderUniformVec2)
}

// SetVec3 sets a vec3 uniform.
func (d *Display) SetVec3(name string, v [3]float32) {
	rl.SetShaderValue(d.shader, d.loc(name), v[:], rl.ShaderUniformVec3)
}

// SetFloats sets a float array uniform.
func (d *Display) SetFloats(name string, v []float32) {
	rl.SetShaderValueV(d.shader, d.loc(name), v, rl.ShaderUniformFloat, int32(len(v)))
}

// SetForecast enables or disables tinting of cells that change next step.
func (d *Display) SetForecast(on bool) {
	d.forecast = on
	v := 0
	if on {
		v = 1
	}
	d.SetInt("forecast", v)
}

// Draw renders the visible part of tex. src is in cells and may extend past
// the grid when wrapping; dst is in screen pixels.
func (d *Display) Draw(tex rl.Texture2D, src, dst camera.Rect) {
	srcRect := rl.Rectangle{X: src.X, Y: src.Y, Width: src.W, Height: src.H}
	dstRect := rl.Rectangle{X: dst.X, Y: dst.Y, Width: dst.W, Height: dst.H}

	rl.BeginShaderMode(d.shader)
	rl.DrawTexturePro(tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
	rl.EndShaderMode()
}

// Unload frees GPU resources.
func (d *Display) Unload() {
	rl.UnloadShader(d.shader)
}
