package renderer

import (
	"fmt"
	"image/color"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// CellTextures mirrors the grid's ping-pong pair on the GPU as single-channel
// grayscale textures, one byte per cell (0 dead, 1 alive), sampled with point
// filtering and repeat addressing.
type CellTextures struct {
	tex   [2]rl.Texture2D
	cells int
	pad   []uint8 // staging for grids whose cell count is not a multiple of 4
}

// NewCellTextures allocates both textures. The window must already be open.
func NewCellTextures(w, h int) (*CellTextures, error) {
	c := &CellTextures{cells: w * h}

	img := rl.GenImageColor(w, h, rl.Black)
	defer rl.UnloadImage(img)
	rl.ImageFormat(img, rl.UncompressedGrayscale)

	for i := range c.tex {
		c.tex[i] = rl.LoadTextureFromImage(img)
		if c.tex[i].ID == 0 {
			c.Unload()
			return nil, fmt.Errorf("creating %dx%d cell texture", w, h)
		}
		rl.SetTextureFilter(c.tex[i], rl.FilterPoint)
		rl.SetTextureWrap(c.tex[i], rl.WrapRepeat)
	}
	return c, nil
}

// Upload copies a generation into the texture at index.
func (c *CellTextures) Upload(index int, cells []uint8) {
	if len(cells) != c.cells || len(cells) == 0 {
		return
	}
	rl.UpdateTexture(c.tex[index&1], grayPixels(cells, &c.pad))
}

// grayPixels views one-byte-per-cell data as the []color.RGBA that
// UpdateTexture accepts. The texture format decides how many bytes the GPU
// reads, so four cells share one RGBA element. Data whose length is not a
// multiple of 4 is copied into pad first so the view never exceeds its
// backing array.
func grayPixels(cells []uint8, pad *[]uint8) []color.RGBA {
	buf := cells
	if rem := len(cells) % 4; rem != 0 {
		n := len(cells) + 4 - rem
		if cap(*pad) < n {
			*pad = make([]uint8, n)
		}
		buf = (*pad)[:n]
		copy(buf, cells)
	}
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Slice((*color.RGBA)(unsafe.Pointer(unsafe.SliceData(buf))), len(buf)/4)
}

// Texture returns the texture at index.
func (c *CellTextures) Texture(index int) rl.Texture2D {
	return c.tex[index&1]
}

// Unload frees GPU resources.
func (c *CellTextures) Unload() {
	for i := range c.tex {
		if c.tex[i].ID != 0 {
			rl.UnloadTexture(c.tex[i])
			c.tex[i] = rl.Texture2D{}
		}
	}
}
