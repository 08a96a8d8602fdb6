package scene

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/metamorphosis/config"
	"github.com/pthm-cable/metamorphosis/systems"
)

func TestSkyColors_Stops(t *testing.T) {
	tests := []struct {
		name   string
		day    float64
		top    color.RGBA
		bottom color.RGBA
	}{
		{"night", 0, color.RGBA{10, 20, 45, 255}, color.RGBA{18, 35, 70, 255}},
		{"dawn", 0.33, color.RGBA{255, 140, 90, 255}, color.RGBA{255, 200, 130, 255}},
		{"day", 0.66, color.RGBA{120, 190, 255, 255}, color.RGBA{200, 230, 255, 255}},
		{"dusk", 1, color.RGBA{240, 120, 160, 255}, color.RGBA{110, 60, 120, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top, bottom := SkyColors(tt.day)
			if top != tt.top {
				t.Errorf("top = %v, want %v", top, tt.top)
			}
			if bottom != tt.bottom {
				t.Errorf("bottom = %v, want %v", bottom, tt.bottom)
			}
		})
	}
}

func TestSkyColors_MidBlend(t *testing.T) {
	// Halfway between night and dawn
	top, _ := SkyColors(0.165)
	want := color.RGBA{R: 133, G: 80, B: 68, A: 255}
	if absDiff(top.R, want.R) > 1 || absDiff(top.G, want.G) > 1 || absDiff(top.B, want.B) > 1 {
		t.Errorf("top = %v, want about %v", top, want)
	}
}

func TestBodyPosition(t *testing.T) {
	rc := config.Default().Render

	tests := []struct {
		day   float64
		wantX float64
		wantY float64
	}{
		{0, -20, 560},
		{0.5, 300, 240},
		{1, 620, 560},
	}

	for _, tt := range tests {
		x, y, _ := BodyPosition(tt.day, rc)
		if math.Abs(x-tt.wantX) > 1e-9 || math.Abs(y-tt.wantY) > 1e-9 {
			t.Errorf("BodyPosition(%v) = (%v,%v), want (%v,%v)", tt.day, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		t    float64
		want string
	}{
		{0, "00:00"},
		{9.99, "00:09"},
		{61, "01:01"},
		{3599.5, "59:59"},
		{6000, "100:00"},
		{-3, "00:00"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.t); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestPointerPulse_Bounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		p := PointerPulse(float64(i) * 0.037)
		if p < 0.94-1e-12 || p > 1.06+1e-12 {
			t.Fatalf("pulse %v outside [0.94,1.06]", p)
		}
	}
}

func newInput(cfg *config.Config) *Input {
	cocoons := systems.NewCocoonSystem(cfg)
	return &Input{
		Day:       0.5,
		IsDay:     true,
		SceneTime: 75,
		Now:       75,
		PointerX:  200,
		PointerY:  150,
		Cocoons:   cocoons.Cocoons(),
	}
}

func TestCompute_SunAndHalos(t *testing.T) {
	cfg := config.Default()
	in := newInput(cfg)
	var f Frame
	Compute(&f, in, cfg, rand.New(rand.NewSource(1)))

	if !f.Body.Sun {
		t.Error("day 0.5 should show the sun")
	}
	if f.Body.Mask.Radius != 0 {
		t.Error("sun should have no crescent mask")
	}
	if len(f.Body.Halo) != 9 {
		t.Fatalf("halo rings = %d, want 9", len(f.Body.Halo))
	}
	if f.Body.Halo[0].Radius != 110 || f.Body.Halo[0].Color.A != 10 {
		t.Errorf("outer ring = %+v, want radius 110 alpha 10", f.Body.Halo[0])
	}
	if f.Body.Halo[8].Radius != 22 {
		t.Errorf("inner ring radius = %v, want 22", f.Body.Halo[8].Radius)
	}
	if f.Clock.Text != "01:15" {
		t.Errorf("clock = %q, want 01:15", f.Clock.Text)
	}
	if f.Tint != dayTint {
		t.Errorf("tint = %v, want day tint", f.Tint)
	}

	in.Day = 0.2
	in.IsDay = false
	Compute(&f, in, cfg, rand.New(rand.NewSource(1)))
	if f.Body.Sun {
		t.Error("day 0.2 should show the moon")
	}
	if f.Body.Mask.Radius != 8 || f.Body.Mask.X != f.Body.X+5 {
		t.Errorf("moon mask = %+v", f.Body.Mask)
	}
	if f.Tint != nightTint {
		t.Errorf("tint = %v, want night tint", f.Tint)
	}
	if len(f.Body.Halo) != 9 {
		t.Errorf("halo slice not reused cleanly: %d rings", len(f.Body.Halo))
	}
}

func TestCompute_PointerHaloScale(t *testing.T) {
	cfg := config.Default()
	in := newInput(cfg)
	in.SceneTime = 0 // pulse of exactly 1
	var f Frame
	Compute(&f, in, cfg, rand.New(rand.NewSource(1)))

	want := []float64{110 * 0.55 / 2, 68 * 0.55 / 2, 36 * 0.55 / 2}
	if len(f.PointerHalo) != len(want) {
		t.Fatalf("pointer rings = %d, want %d", len(f.PointerHalo), len(want))
	}
	for i, r := range want {
		c := f.PointerHalo[i]
		if math.Abs(c.Radius-r) > 1e-9 || c.X != 200 || c.Y != 150 {
			t.Errorf("ring %d = %+v, want radius %v at pointer", i, c, r)
		}
	}
}

func TestCompute_CrackedCocoonJitter(t *testing.T) {
	cfg := config.Default()
	cs := systems.NewCocoonSystem(cfg)
	rng := rand.New(rand.NewSource(2))
	cs.Update(0, 12, 1, rng) // slot 0 starts and cracks

	in := newInput(cfg)
	in.Cocoons = cs.Cocoons()
	var f Frame
	for i := 0; i < 200; i++ {
		Compute(&f, in, cfg, rng)

		c0 := f.Cocoons[0]
		if c0.State != systems.CocoonCracked {
			t.Fatalf("slot 0 state = %v, want cracked", c0.State)
		}
		if math.Abs(c0.X-in.Cocoons[0].X) > 1.2 || math.Abs(c0.Y-in.Cocoons[0].Y()) > 0.8 {
			t.Fatalf("jitter out of range: (%v,%v)", c0.X, c0.Y)
		}
		if c0.FallbackColor != cocoonCracked {
			t.Errorf("cracked fallback colour = %v", c0.FallbackColor)
		}

		c1 := f.Cocoons[1]
		if c1.X != in.Cocoons[1].X || c1.Y != in.Cocoons[1].Y() {
			t.Fatalf("dormant cocoon moved to (%v,%v)", c1.X, c1.Y)
		}
	}
}

func TestCompute_NectarFade(t *testing.T) {
	cfg := config.Default()
	in := newInput(cfg)
	in.Now = 6
	in.Nectar = []systems.Nectar{
		{X: 10, Y: 10, Born: 6, Life: 12},
		{X: 20, Y: 20, Born: 0, Life: 12},
	}
	var f Frame
	Compute(&f, in, cfg, rand.New(rand.NewSource(1)))

	fresh, half := f.Nectar[0], f.Nectar[1]
	if fresh.Outer.Color.A != 180 || fresh.Outer.Radius != 11 {
		t.Errorf("fresh outer = %+v, want alpha 180 radius 11", fresh.Outer)
	}
	if fresh.Inner.Color.A != 130 || math.Abs(fresh.Inner.Radius-11.5) > 1e-9 {
		t.Errorf("fresh inner = %+v, want alpha 130 radius 11.5", fresh.Inner)
	}
	if half.Outer.Color.A != 90 || half.Outer.Radius != 8.5 {
		t.Errorf("half-life outer = %+v, want alpha 90 radius 8.5", half.Outer)
	}
}

func TestCompute_Butterflies(t *testing.T) {
	cfg := config.Default()
	in := newInput(cfg)
	in.Agents = []systems.Agent{{X: 100, Y: 120, Heading: math.Pi / 2, Size: 1.5}}
	var f Frame

	Compute(&f, in, cfg, rand.New(rand.NewSource(1)))
	b := f.Butterflies[0]
	if math.Abs(b.RotationDeg-240) > 1e-9 {
		t.Errorf("rotation = %v, want 240", b.RotationDeg)
	}
	if math.Abs(b.Scale-0.12) > 1e-9 {
		t.Errorf("scale = %v, want 0.12", b.Scale)
	}
	if b.Glow[0].Color != dayGlow || b.Glow[1].Color.A != 12 {
		t.Errorf("day glow = %+v", b.Glow)
	}

	in.IsDay = false
	Compute(&f, in, cfg, rand.New(rand.NewSource(1)))
	if f.Butterflies[0].Glow[0].Color != nightGlow {
		t.Errorf("night glow = %v", f.Butterflies[0].Glow[0].Color)
	}
	if len(f.Butterflies) != 1 {
		t.Errorf("butterflies = %d after reuse, want 1", len(f.Butterflies))
	}
}

func TestCompute_Particles(t *testing.T) {
	cfg := config.Default()
	in := newInput(cfg)
	in.Particles = []systems.EffectParticle{
		{X: 1, Y: 1, Life: 10, MaxLife: 10, Type: systems.ParticleShell, Size: 2},
		{X: 2, Y: 2, Life: 5, MaxLife: 10, Type: systems.ParticleSparkle, Size: 2},
	}
	var f Frame
	Compute(&f, in, cfg, rand.New(rand.NewSource(1)))

	if len(f.Fragments) != 1 || len(f.Sparkles) != 1 {
		t.Fatalf("fragments=%d sparkles=%d, want 1 and 1", len(f.Fragments), len(f.Sparkles))
	}
	if f.Fragments[0].Color.A != 220 {
		t.Errorf("fragment alpha = %d, want 220", f.Fragments[0].Color.A)
	}
	if f.Sparkles[0].Color.A != 100 || f.Sparkles[0].Radius != 1.5 {
		t.Errorf("sparkle = %+v, want alpha 100 radius 1.5", f.Sparkles[0])
	}
}

func absDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}
