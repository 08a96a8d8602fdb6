package scene

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Sky palette stops. Each stop is a top and bottom gradient colour.
var (
	nightTop    = rgb(10, 20, 45)
	nightBottom = rgb(18, 35, 70)
	dawnTop     = rgb(255, 140, 90)
	dawnBottom  = rgb(255, 200, 130)
	dayTop      = rgb(120, 190, 255)
	dayBottom   = rgb(200, 230, 255)
	duskTop     = rgb(240, 120, 160)
	duskBottom  = rgb(110, 60, 120)
)

// Day values at which the sky moves to the next pair of stops.
const (
	dawnBreak = 0.33
	dayBreak  = 0.66
)

// Fixed colours for the sky body, overlays and fallbacks.
var (
	sunColor       = color.RGBA{R: 255, G: 230, B: 120, A: 255}
	moonColor      = color.RGBA{R: 220, G: 230, B: 255, A: 255}
	moonMaskColor  = color.RGBA{R: 10, G: 20, B: 45, A: 255}
	sunHaloColor   = color.RGBA{R: 255, G: 230, B: 150}
	moonHaloColor  = color.RGBA{R: 120, G: 160, B: 255}
	dayTint        = color.RGBA{R: 255, G: 240, B: 150, A: 20}
	nightTint      = color.RGBA{R: 90, G: 120, B: 255, A: 32}
	dayGlow        = color.RGBA{R: 255, G: 220, B: 120, A: 28}
	nightGlow      = color.RGBA{R: 140, G: 170, B: 255, A: 26}
	nectarOuter    = color.RGBA{R: 255, G: 200, B: 90}
	nectarInner    = color.RGBA{R: 255, G: 255, B: 180}
	shellColor     = color.RGBA{R: 150, G: 110, B: 70}
	sparkleColor   = color.RGBA{R: 255, G: 240, B: 180}
	clockColor     = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	cocoonDefault  = color.RGBA{R: 180, G: 200, B: 210, A: 255}
	cocoonCracked  = color.RGBA{R: 250, G: 205, B: 120, A: 255}
	cocoonOpen     = color.RGBA{R: 200, G: 255, B: 200, A: 255}
	branchColor    = color.RGBA{R: 120, G: 80, B: 50, A: 255}
	butterflyColor = color.RGBA{R: 100, G: 80, B: 220, A: 255}
)

// Pointer halo rings, outermost first: diameter and colour.
var pointerRings = [...]struct {
	diameter float64
	color    color.RGBA
}{
	{110, color.RGBA{R: 255, G: 240, B: 150, A: 58}},
	{68, color.RGBA{R: 255, G: 255, B: 200, A: 42}},
	{36, color.RGBA{R: 255, G: 255, B: 255, A: 30}},
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// SkyColors returns the top and bottom gradient colours for a day value,
// blending night into dawn, dawn into day and day into dusk.
func SkyColors(day float64) (top, bottom color.RGBA) {
	var topA, bottomA, topB, bottomB colorful.Color
	var t float64

	switch {
	case day < dawnBreak:
		t = day / dawnBreak
		topA, bottomA, topB, bottomB = nightTop, nightBottom, dawnTop, dawnBottom
	case day < dayBreak:
		t = (day - dawnBreak) / (dayBreak - dawnBreak)
		topA, bottomA, topB, bottomB = dawnTop, dawnBottom, dayTop, dayBottom
	default:
		t = (day - dayBreak) / (1 - dayBreak)
		topA, bottomA, topB, bottomB = dayTop, dayBottom, duskTop, duskBottom
	}
	t = clamp01(t)

	return toRGBA(topA.BlendRgb(topB, t)), toRGBA(bottomA.BlendRgb(bottomB, t))
}

func withAlpha(c color.RGBA, a float64) color.RGBA {
	c.A = uint8(clamp(a, 0, 255))
	return c
}
