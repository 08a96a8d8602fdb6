// Package scene computes the per-frame visual state from simulation state.
// Nothing here talks to the graphics backend; the renderer paints a Frame.
package scene

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/pthm-cable/metamorphosis/config"
	"github.com/pthm-cable/metamorphosis/systems"
)

// Circle is a filled disc in canvas coordinates.
type Circle struct {
	X, Y   float64
	Radius float64
	Color  color.RGBA
}

// SkyBody is the sun or moon on its arc.
type SkyBody struct {
	X, Y  float64
	Sun   bool
	Disc  Circle
	Mask  Circle // crescent cut-out, zero for the sun
	Halo  []Circle
	Angle float64 // arc angle in radians
}

// Branch is the static branch placement and its fallback shape.
type Branch struct {
	X, Y          float64 // top-left corner
	Scale         float64
	FallbackW     float64
	FallbackH     float64
	FallbackRound float64
	FallbackColor color.RGBA
}

// CocoonSprite is a cocoon in its visual state.
type CocoonSprite struct {
	Slot          int
	X, Y          float64 // centre, jitter applied
	State         systems.CocoonState
	Scale         float64
	FallbackRX    float64
	FallbackRY    float64
	FallbackColor color.RGBA
}

// NectarSprite is a fading nectar drop drawn as two discs.
type NectarSprite struct {
	Outer, Inner Circle
}

// ButterflySprite is an adult with its sprite transform and glow.
type ButterflySprite struct {
	X, Y          float64
	RotationDeg   float64 // sprite rotation, offset included
	Scale         float64 // texture scale, adult size included
	Glow          [2]Circle
	FallbackColor color.RGBA
}

// Label is right/bottom aligned text.
type Label struct {
	Text     string
	Right    float64
	Bottom   float64
	FontSize int32
	Color    color.RGBA
}

// Frame is everything the painter needs for one frame.
type Frame struct {
	Width, Height float64

	SkyTop, SkyBottom color.RGBA
	Body              SkyBody
	PointerHalo       []Circle // additive
	Branch            Branch
	Nectar            []NectarSprite
	Cocoons           []CocoonSprite
	Fragments         []Circle // normal blend
	Sparkles          []Circle // additive
	Butterflies       []ButterflySprite
	Tint              color.RGBA
	Clock             Label
}

// Input is the simulation state a frame is derived from.
type Input struct {
	Day       float64
	IsDay     bool
	SceneTime float64 // real seconds since scene start
	Now       float64 // wall-clock seconds on the nectar clock

	PointerX, PointerY float64

	Cocoons   []systems.Cocoon
	Nectar    []systems.Nectar
	Agents    []systems.Agent
	Particles []systems.EffectParticle
}

const (
	haloMaxDiameter = 220
	haloMinDiameter = 24
	haloStep        = 22
	haloMaxAlpha    = 90
	haloMinAlpha    = 10

	sunDiameter      = 24
	moonDiameter     = 18
	moonMaskDiameter = 16
	moonMaskDX       = 5
	moonMaskDY       = -2

	pulseAmount = 0.06
	pulseRate   = 2.1

	branchX = 0
	branchY = -10

	cocoonFallbackW = 46
	cocoonFallbackH = 76

	glowInnerDiameter = 18
	glowOuterDiameter = 36
	glowOuterAlpha    = 12

	clockMarginRight  = 12
	clockMarginBottom = 10
	clockFontSize     = 16
)

// Compute fills f from in. Slices in f are reused between calls. rng drives
// the cracked-cocoon vibration only.
func Compute(f *Frame, in *Input, cfg *config.Config, rng *rand.Rand) {
	rc := cfg.Render
	f.Width = float64(cfg.Screen.Width)
	f.Height = float64(cfg.Screen.Height)

	f.SkyTop, f.SkyBottom = SkyColors(in.Day)
	computeBody(&f.Body, in.Day, rc)

	// Pointer light
	pulse := PointerPulse(in.SceneTime)
	f.PointerHalo = f.PointerHalo[:0]
	for _, ring := range pointerRings {
		f.PointerHalo = append(f.PointerHalo, Circle{
			X:      in.PointerX,
			Y:      in.PointerY,
			Radius: ring.diameter * pulse * rc.PointerHaloScale / 2,
			Color:  ring.color,
		})
	}

	f.Branch = Branch{
		X:             branchX,
		Y:             branchY,
		Scale:         rc.ScaleBranch,
		FallbackW:     f.Width,
		FallbackH:     50,
		FallbackRound: 9,
		FallbackColor: branchColor,
	}

	f.Nectar = f.Nectar[:0]
	for _, n := range in.Nectar {
		frac := n.LifeFraction(in.Now)
		f.Nectar = append(f.Nectar, NectarSprite{
			Outer: Circle{X: n.X, Y: n.Y, Radius: (12 + 10*frac) / 2, Color: withAlpha(nectarOuter, 180*frac)},
			Inner: Circle{X: n.X, Y: n.Y, Radius: (5 + 18*frac) / 2, Color: withAlpha(nectarInner, 130*frac)},
		})
	}

	f.Cocoons = f.Cocoons[:0]
	for i := range in.Cocoons {
		c := &in.Cocoons[i]
		x, y := c.X, c.Y()
		if c.State() == systems.CocoonCracked {
			x += (rng.Float64()*2 - 1) * cfg.Cocoons.CrackJitterX
			y += (rng.Float64()*2 - 1) * cfg.Cocoons.CrackJitterY
		}
		f.Cocoons = append(f.Cocoons, CocoonSprite{
			Slot:          c.Slot,
			X:             x,
			Y:             y,
			State:         c.State(),
			Scale:         rc.ScaleCocoon,
			FallbackRX:    cocoonFallbackW / 2,
			FallbackRY:    cocoonFallbackH / 2,
			FallbackColor: cocoonColor(c.State()),
		})
	}

	f.Fragments = f.Fragments[:0]
	f.Sparkles = f.Sparkles[:0]
	for _, p := range in.Particles {
		frac := p.LifeFraction()
		switch p.Type {
		case systems.ParticleShell:
			f.Fragments = append(f.Fragments, Circle{X: p.X, Y: p.Y, Radius: p.Size, Color: withAlpha(shellColor, 220*frac)})
		case systems.ParticleSparkle:
			f.Sparkles = append(f.Sparkles, Circle{X: p.X, Y: p.Y, Radius: p.Size * (0.5 + 0.5*frac), Color: withAlpha(sparkleColor, 200*frac)})
		}
	}

	glow := nightGlow
	if in.IsDay {
		glow = dayGlow
	}
	f.Butterflies = f.Butterflies[:0]
	for _, a := range in.Agents {
		f.Butterflies = append(f.Butterflies, ButterflySprite{
			X:           a.X,
			Y:           a.Y,
			RotationDeg: a.Heading*180/math.Pi + rc.SpriteRotationDeg,
			Scale:       rc.ScaleButterfly * a.Size,
			Glow: [2]Circle{
				{X: a.X, Y: a.Y, Radius: glowInnerDiameter / 2, Color: glow},
				{X: a.X, Y: a.Y, Radius: glowOuterDiameter / 2, Color: withAlpha(glow, glowOuterAlpha)},
			},
			FallbackColor: butterflyColor,
		})
	}

	f.Tint = nightTint
	if in.IsDay {
		f.Tint = dayTint
	}

	f.Clock = Label{
		Text:     FormatClock(in.SceneTime),
		Right:    f.Width - clockMarginRight,
		Bottom:   f.Height - clockMarginBottom,
		FontSize: clockFontSize,
		Color:    clockColor,
	}
}

// BodyPosition returns the sky body position on its arc for a day value.
// Day 0 sits at the left end of the arc and day 1 at the right end.
func BodyPosition(day float64, rc config.RenderConfig) (x, y, theta float64) {
	theta = math.Pi + day*math.Pi
	x = rc.SunArcCX + rc.SunArcRadius*math.Cos(theta)
	y = rc.SunArcCY + rc.SunArcRadius*math.Sin(theta)
	return x, y, theta
}

func computeBody(b *SkyBody, day float64, rc config.RenderConfig) {
	b.X, b.Y, b.Angle = BodyPosition(day, rc)
	b.Sun = day >= rc.SunThreshold

	haloColor := moonHaloColor
	if b.Sun {
		b.Disc = Circle{X: b.X, Y: b.Y, Radius: sunDiameter / 2, Color: sunColor}
		b.Mask = Circle{}
		haloColor = sunHaloColor
	} else {
		b.Disc = Circle{X: b.X, Y: b.Y, Radius: moonDiameter / 2, Color: moonColor}
		b.Mask = Circle{X: b.X + moonMaskDX, Y: b.Y + moonMaskDY, Radius: moonMaskDiameter / 2, Color: moonMaskColor}
	}

	// Rings from widest to tightest; alpha grows toward the centre
	b.Halo = b.Halo[:0]
	for d := float64(haloMaxDiameter); d >= haloMinDiameter; d -= haloStep {
		t := (d - haloMinDiameter) / (haloMaxDiameter - haloMinDiameter)
		alpha := haloMaxAlpha + t*(haloMinAlpha-haloMaxAlpha)
		b.Halo = append(b.Halo, Circle{X: b.X, Y: b.Y, Radius: d / 2, Color: withAlpha(haloColor, alpha)})
	}
}

// PointerPulse returns the pointer halo's breathing factor at scene time t.
func PointerPulse(t float64) float64 {
	return 1 + pulseAmount*math.Sin(t*pulseRate)
}

// FormatClock renders seconds as MM:SS. Minutes are not wrapped.
func FormatClock(t float64) string {
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	mm := int(t / 60)
	ss := int(math.Mod(t, 60))
	return fmt.Sprintf("%02d:%02d", mm, ss)
}

func cocoonColor(s systems.CocoonState) color.RGBA {
	switch s {
	case systems.CocoonCracked:
		return cocoonCracked
	case systems.CocoonOpen:
		return cocoonOpen
	}
	return cocoonDefault
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
