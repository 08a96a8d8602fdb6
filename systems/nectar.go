package systems

import (
	"github.com/pthm-cable/metamorphosis/config"
)

// Nectar is a transient attractor dropped by a pointer press.
type Nectar struct {
	X, Y float64
	Born float64 // wall-clock seconds
	Life float64 // seconds
}

// Age returns seconds since the nectar was placed.
func (n Nectar) Age(now float64) float64 {
	return now - n.Born
}

// LifeFraction returns the remaining share of the nectar's life in [0, 1].
func (n Nectar) LifeFraction(now float64) float64 {
	if n.Life <= 0 {
		return 0
	}
	return clamp01(1 - n.Age(now)/n.Life)
}

// Attractor is the resolved pull acting on a position.
type Attractor struct {
	X, Y   float64
	Pull   float64
	Nectar bool // false when the pointer light is the attractor
}

// AttractorField holds nectar points and the pointer light.
type AttractorField struct {
	cfg                config.NectarConfig
	nectar             []Nectar
	pointerX, pointerY float64
}

// NewAttractorField creates an empty field with the pointer at the origin.
func NewAttractorField(cfg config.NectarConfig) *AttractorField {
	return &AttractorField{
		cfg:    cfg,
		nectar: make([]Nectar, 0, 16),
	}
}

// SetConfig swaps pull strengths and lifetime for new nectar. Existing
// nectar keeps the lifetime it was created with.
func (f *AttractorField) SetConfig(cfg config.NectarConfig) {
	f.cfg = cfg
}

// SetPointer moves the pointer light.
func (f *AttractorField) SetPointer(x, y float64) {
	f.pointerX = x
	f.pointerY = y
}

// Pointer returns the pointer light position.
func (f *AttractorField) Pointer() (float64, float64) {
	return f.pointerX, f.pointerY
}

// Add places a nectar point.
func (f *AttractorField) Add(x, y, now float64) {
	f.nectar = append(f.nectar, Nectar{X: x, Y: y, Born: now, Life: f.cfg.Life})
}

// Expire drops nectar whose age has reached its lifetime and returns how
// many were removed.
func (f *AttractorField) Expire(now float64) int {
	kept := f.nectar[:0]
	for _, n := range f.nectar {
		if n.Age(now) < n.Life {
			kept = append(kept, n)
		}
	}
	removed := len(f.nectar) - len(kept)
	f.nectar = kept
	return removed
}

// Nectar returns the live nectar points. Callers must not mutate them.
func (f *AttractorField) Nectar() []Nectar {
	return f.nectar
}

// Len returns the number of live nectar points.
func (f *AttractorField) Len() int {
	return len(f.nectar)
}

// Clear removes all nectar.
func (f *AttractorField) Clear() {
	f.nectar = f.nectar[:0]
}

// AttractorFor resolves the strongest attractor for a position: the nearest
// nectar if any exists, otherwise the pointer light. Equal distances keep
// the earliest placed nectar.
func (f *AttractorField) AttractorFor(x, y float64) Attractor {
	if len(f.nectar) == 0 {
		return Attractor{X: f.pointerX, Y: f.pointerY, Pull: f.cfg.PointerPull}
	}

	best := 0
	bestD := distanceSq(x, y, f.nectar[0].X, f.nectar[0].Y)
	for i := 1; i < len(f.nectar); i++ {
		if d := distanceSq(x, y, f.nectar[i].X, f.nectar[i].Y); d < bestD {
			best, bestD = i, d
		}
	}
	n := f.nectar[best]
	return Attractor{X: n.X, Y: n.Y, Pull: f.cfg.Pull, Nectar: true}
}
