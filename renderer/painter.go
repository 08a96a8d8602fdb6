// Package renderer paints a computed scene frame with raylib. It reads
// scene.Frame and never touches simulation state.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/metamorphosis/scene"
)

// Fallback butterfly triangle, pointing up before rotation.
var butterflyTriangle = [3]rl.Vector2{{X: 0, Y: -10}, {X: -8, Y: 8}, {X: 8, Y: 8}}

// Painter draws frames layer by layer.
type Painter struct {
	assets    *Assets
	sky       *SkyRenderer
	particles *ParticleRenderer
}

// NewPainter creates a painter. assets may be nil, in which case every
// sprite uses its fallback shape.
func NewPainter(assets *Assets, width, height int32) *Painter {
	if assets == nil {
		assets = &Assets{}
	}
	return &Painter{
		assets:    assets,
		sky:       NewSkyRenderer(width, height),
		particles: NewParticleRenderer(),
	}
}

// Resize updates the canvas size.
func (p *Painter) Resize(width, height int32) {
	p.sky.Resize(width, height)
}

// Paint draws f. Must be called between BeginDrawing and EndDrawing.
func (p *Painter) Paint(f *scene.Frame) {
	p.sky.DrawGradient(f.SkyTop, f.SkyBottom)
	p.sky.DrawBody(&f.Body)

	rl.BeginBlendMode(rl.BlendAdditive)
	drawCircles(f.PointerHalo)
	rl.EndBlendMode()

	p.drawBranch(&f.Branch)

	for _, n := range f.Nectar {
		drawCircle(n.Outer)
		drawCircle(n.Inner)
	}

	for i := range f.Cocoons {
		p.drawCocoon(&f.Cocoons[i])
	}

	p.particles.Draw(f.Fragments, f.Sparkles)

	for i := range f.Butterflies {
		p.drawButterfly(&f.Butterflies[i])
	}

	rl.DrawRectangle(0, 0, int32(f.Width), int32(f.Height), toColor(f.Tint))

	w := rl.MeasureText(f.Clock.Text, f.Clock.FontSize)
	rl.DrawText(f.Clock.Text, int32(f.Clock.Right)-w, int32(f.Clock.Bottom)-f.Clock.FontSize, f.Clock.FontSize, toColor(f.Clock.Color))
}

func (p *Painter) drawBranch(b *scene.Branch) {
	s := p.assets.Branch
	if s.Loaded {
		rl.DrawTextureEx(s.Texture, rl.Vector2{X: float32(b.X), Y: float32(b.Y)}, 0, float32(b.Scale), rl.White)
		return
	}

	rect := rl.Rectangle{X: float32(b.X), Y: float32(b.Y), Width: float32(b.FallbackW), Height: float32(b.FallbackH)}
	roundness := float32(0)
	if short := math.Min(b.FallbackW, b.FallbackH); short > 0 {
		roundness = float32(2 * b.FallbackRound / short)
	}
	rl.DrawRectangleRounded(rect, roundness, 8, toColor(b.FallbackColor))
}

func (p *Painter) drawCocoon(c *scene.CocoonSprite) {
	s := p.assets.CocoonSprite(c.State)
	if s.Loaded {
		drawCentered(s, c.X, c.Y, c.Scale, 0)
		return
	}
	rl.DrawEllipse(int32(c.X), int32(c.Y), float32(c.FallbackRX), float32(c.FallbackRY), toColor(c.FallbackColor))
}

func (p *Painter) drawButterfly(b *scene.ButterflySprite) {
	s := p.assets.Butterfly
	if s.Loaded {
		drawCentered(s, b.X, b.Y, b.Scale, b.RotationDeg)
	} else {
		sin, cos := math.Sincos(b.RotationDeg * math.Pi / 180)
		var v [3]rl.Vector2
		for i, pt := range butterflyTriangle {
			v[i] = rl.Vector2{
				X: float32(b.X + float64(pt.X)*cos - float64(pt.Y)*sin),
				Y: float32(b.Y + float64(pt.X)*sin + float64(pt.Y)*cos),
			}
		}
		rl.DrawTriangle(v[0], v[1], v[2], toColor(b.FallbackColor))
	}

	rl.BeginBlendMode(rl.BlendAdditive)
	drawCircle(b.Glow[0])
	drawCircle(b.Glow[1])
	rl.EndBlendMode()
}

// drawCentered draws a sprite scaled and rotated about its centre.
func drawCentered(s Sprite, x, y, scale, rotationDeg float64) {
	w := s.Width() * float32(scale)
	h := s.Height() * float32(scale)
	src := rl.Rectangle{Width: s.Width(), Height: s.Height()}
	dst := rl.Rectangle{X: float32(x), Y: float32(y), Width: w, Height: h}
	rl.DrawTexturePro(s.Texture, src, dst, rl.Vector2{X: w / 2, Y: h / 2}, float32(rotationDeg), rl.White)
}

// Unload frees the painter's textures.
func (p *Painter) Unload() {
	p.assets.Unload()
}
