package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/metamorphosis/config"
)

func TestDayValue(t *testing.T) {
	cfg := config.Default().Environment

	tests := []struct {
		brightness float64
		want       float64
	}{
		{0, 0},
		{20, 0},
		{120, 0.5},
		{220, 1},
		{255, 1},
	}

	for _, tt := range tests {
		got := DayValue(tt.brightness, cfg)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DayValue(%v) = %v, want %v", tt.brightness, got, tt.want)
		}
	}
}

func TestGrowthRate(t *testing.T) {
	cfg := config.Default().Environment

	tests := []struct {
		brightness float64
		want       float64
	}{
		{-10, 0.6},
		{20, 0.6},
		{120, 1.3},
		{220, 2.0},
		{400, 2.0},
	}

	for _, tt := range tests {
		got := GrowthRate(tt.brightness, cfg)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("GrowthRate(%v) = %v, want %v", tt.brightness, got, tt.want)
		}
	}
}

func TestEnvironment_SmoothingStepsTowardRaw(t *testing.T) {
	cfg := config.Default().Environment
	env := NewEnvironment(cfg)

	env.Update(228, 1.0/60)

	// 128 + 0.08 * (228 - 128)
	if math.Abs(env.Smoothed()-136) > 1e-9 {
		t.Errorf("smoothed = %v, want 136", env.Smoothed())
	}
	if env.Raw() != 228 {
		t.Errorf("raw = %v, want 228", env.Raw())
	}
}

func TestEnvironment_OrganismTimeMonotonic(t *testing.T) {
	cfg := config.Default().Environment
	env := NewEnvironment(cfg)
	rng := rand.New(rand.NewSource(7))

	prev := env.OrganismTime()
	for i := 0; i < 5000; i++ {
		raw := rng.Float64()*300 - 20
		dt := rng.Float64()*0.1 - 0.02 // includes zero and negative frame times
		env.Update(raw, dt)

		if env.OrganismTime() <= prev {
			t.Fatalf("step %d: organism time %v did not advance past %v", i, env.OrganismTime(), prev)
		}
		if env.Day() < 0 || env.Day() > 1 {
			t.Fatalf("step %d: day value %v outside [0,1]", i, env.Day())
		}
		if env.GrowthRate() < cfg.MinGrowth || env.GrowthRate() > cfg.MaxGrowth {
			t.Fatalf("step %d: growth rate %v outside [%v,%v]", i, env.GrowthRate(), cfg.MinGrowth, cfg.MaxGrowth)
		}
		prev = env.OrganismTime()
	}
}

func TestEnvironment_DTFloor(t *testing.T) {
	cfg := config.Default().Environment
	cfg.InitialBrightness = 220
	env := NewEnvironment(cfg)

	env.Update(220, 0)

	if env.LastDT() != cfg.MinDT {
		t.Errorf("LastDT = %v, want %v", env.LastDT(), cfg.MinDT)
	}
	if math.Abs(env.OrganismTime()-2.0*cfg.MinDT) > 1e-12 {
		t.Errorf("organism time = %v, want %v", env.OrganismTime(), 2.0*cfg.MinDT)
	}
}

func TestEnvironment_BrightRoomTenSeconds(t *testing.T) {
	cfg := config.Default().Environment
	cfg.InitialBrightness = 220
	env := NewEnvironment(cfg)

	// 10 real seconds at 60 fps in full daylight
	for i := 0; i < 600; i++ {
		env.Update(220, 1.0/60)
	}

	if math.Abs(env.OrganismTime()-20) > 1e-6 {
		t.Errorf("organism time = %v, want 20", env.OrganismTime())
	}
	if !env.IsDay() {
		t.Error("expected daylight at brightness 220")
	}
}

func TestEnvironment_DarkRoomSlowsGrowth(t *testing.T) {
	cfg := config.Default().Environment
	cfg.InitialBrightness = 20
	env := NewEnvironment(cfg)

	for i := 0; i < 600; i++ {
		env.Update(20, 1.0/60)
	}

	if math.Abs(env.OrganismTime()-6) > 1e-6 {
		t.Errorf("organism time = %v, want 6", env.OrganismTime())
	}
	if env.IsDay() {
		t.Error("expected night at brightness 20")
	}
}

func TestEnvironment_Reset(t *testing.T) {
	cfg := config.Default().Environment
	env := NewEnvironment(cfg)
	for i := 0; i < 10; i++ {
		env.Update(200, 0.1)
	}

	env.Reset()

	if env.OrganismTime() != 0 {
		t.Errorf("organism time after reset = %v, want 0", env.OrganismTime())
	}
	if env.Smoothed() != cfg.InitialBrightness {
		t.Errorf("smoothed after reset = %v, want %v", env.Smoothed(), cfg.InitialBrightness)
	}
}
