package palette

import (
	"fmt"
	"math"

	"github.com/pthm-cable/cellular/rng"
)

// OKLab is a color in the OKLab perceptual space.
type OKLab struct {
	L, A, B float32
}

// RGB converts to gamma-encoded sRGB clamped to [0, 1].
func (c OKLab) RGB() [3]float32 {
	r, g, b := OKLabToRGB(c.L, c.A, c.B)
	return [3]float32{r, g, b}
}

// OKLabToRGB converts OKLab to sRGB. Each output channel is clamped to [0, 1].
func OKLabToRGB(l, a, b float32) (r, g, bl float32) {
	lp := l + 0.3963377774*a + 0.2158037573*b
	mp := l - 0.1055613458*a - 0.0638541728*b
	sp := l - 0.0894841775*a - 1.2914855480*b

	lc := lp * lp * lp
	mc := mp * mp * mp
	sc := sp * sp * sp

	lr := +4.0767416621*lc - 3.3077115913*mc + 0.2309699292*sc
	lg := -1.2684380046*lc + 2.6097574011*mc - 0.3413193965*sc
	lb := -0.0041960863*lc - 0.7034186147*mc + 1.7076147010*sc

	return clamp01(linearToSRGB(lr)), clamp01(linearToSRGB(lg)), clamp01(linearToSRGB(lb))
}

func linearToSRGB(x float32) float32 {
	if x <= 0.0031308 {
		return 12.92 * x
	}
	return 1.055*float32(math.Pow(float64(x), 1.0/2.4)) - 0.055
}

const (
	oklabLightness     = 0.8
	oklabDeadLightness = 0.5
	oklabChroma        = 0.4
	analogousAngle     = 45 * math.Pi / 180
)

// oklabBase draws alive chroma and a dead chroma faded toward gray.
func oklabBase(src rng.Source) (alive, dead OKLab) {
	alive = OKLab{
		L: oklabLightness,
		A: src.Float32(-oklabChroma, oklabChroma),
		B: src.Float32(-oklabChroma, oklabChroma),
	}
	fade := src.Float32(0.2, 0.6)
	dead = OKLab{L: oklabLightness * oklabDeadLightness, A: alive.A * fade, B: alive.B * fade}
	return alive, dead
}

func oklabScheme(s Strategy, src rng.Source) (alive, dead OKLab, err error) {
	alive, dead = oklabBase(src)
	switch resolve(s, src) {
	case Monochromatic:
	case Analogous:
		cos := float32(math.Cos(analogousAngle))
		sin := float32(math.Sin(analogousAngle))
		dead.A, dead.B = dead.A*cos-dead.B*sin, dead.A*sin+dead.B*cos
	case Complementary:
		dead.A, dead.B = -dead.A, -dead.B
	default:
		return OKLab{}, OKLab{}, fmt.Errorf("oklab palette: unknown strategy %d", int(s))
	}
	return alive, dead, nil
}
