package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/metamorphosis/scene"
)

// SkyRenderer paints the sky gradient and the sun or moon with its halo.
type SkyRenderer struct {
	width  int32
	height int32
}

// NewSkyRenderer creates a sky renderer for the given canvas size.
func NewSkyRenderer(width, height int32) *SkyRenderer {
	return &SkyRenderer{width: width, height: height}
}

// Resize updates the canvas size.
func (r *SkyRenderer) Resize(width, height int32) {
	r.width = width
	r.height = height
}

// DrawGradient fills the canvas with the vertical sky gradient.
func (r *SkyRenderer) DrawGradient(top, bottom color.RGBA) {
	rl.DrawRectangleGradientV(0, 0, r.width, r.height, toColor(top), toColor(bottom))
}

// DrawBody paints the disc and, for the moon, the crescent mask, then
// washes the halo over them additively.
func (r *SkyRenderer) DrawBody(b *scene.SkyBody) {
	drawCircle(b.Disc)
	if b.Mask.Radius > 0 {
		drawCircle(b.Mask)
	}

	rl.BeginBlendMode(rl.BlendAdditive)
	drawCircles(b.Halo)
	rl.EndBlendMode()
}

func toColor(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func drawCircle(c scene.Circle) {
	rl.DrawCircleV(rl.Vector2{X: float32(c.X), Y: float32(c.Y)}, float32(c.Radius), toColor(c.Color))
}

func drawCircles(cs []scene.Circle) {
	for _, c := range cs {
		drawCircle(c)
	}
}
