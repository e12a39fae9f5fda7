package palette

import (
	"fmt"

	"github.com/pthm-cable/cellular/rng"
)

// HSV is a color with all three components in [0, 1].
type HSV struct {
	H, S, V float32
}

// RGB converts with the six-sector formula.
func (c HSV) RGB() [3]float32 {
	r, g, b := HSVToRGB(c.H, c.S, c.V)
	return [3]float32{r, g, b}
}

// HSVToRGB converts hue, saturation and value to normalized RGB. Hue wraps.
func HSVToRGB(h, s, v float32) (r, g, b float32) {
	if s == 0 {
		return v, v, v
	}

	h = fract(h) * 6
	i := int(h)
	f := h - float32(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch i {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// hsvBase draws the shared hue and the per-state saturation and value.
// Dead cells always get the darker value band.
func hsvBase(src rng.Source) (alive, dead HSV) {
	h := src.Float32(0, 1)
	alive = HSV{H: h, S: src.Float32(0.5, 1), V: src.Float32(0.75, 1)}
	dead = HSV{H: h, S: src.Float32(0.5, 1), V: src.Float32(0.25, 0.5)}
	return alive, dead
}

func hsvScheme(s Strategy, src rng.Source) (alive, dead HSV, err error) {
	alive, dead = hsvBase(src)
	switch resolve(s, src) {
	case Monochromatic:
	case Analogous:
		// 30 to 120 degrees apart
		dead.H = fract(alive.H + src.Float32(1.0/12.0, 1.0/3.0))
	case Complementary:
		dead.H = fract(alive.H + 0.5)
	default:
		return HSV{}, HSV{}, fmt.Errorf("hsv palette: unknown strategy %d", int(s))
	}
	return alive, dead, nil
}
