// Package systems contains the per-frame simulation stages.
package systems

import (
	"github.com/pthm-cable/metamorphosis/config"
)

// DayValue maps brightness to [0, 1] (0 = night, 1 = day) after clamping
// into the working band.
func DayValue(brightness float64, cfg config.EnvironmentConfig) float64 {
	b := clamp(brightness, cfg.BandLow, cfg.BandHigh)
	return normalize(b, cfg.BandLow, cfg.BandHigh)
}

// GrowthRate maps brightness to growth-seconds per real second.
func GrowthRate(brightness float64, cfg config.EnvironmentConfig) float64 {
	return lerp(cfg.MinGrowth, cfg.MaxGrowth, DayValue(brightness, cfg))
}

// Environment is the environment clock: it low-pass filters brightness and
// integrates organism time.
type Environment struct {
	cfg config.EnvironmentConfig

	raw          float64
	smoothed     float64
	day          float64
	growthRate   float64
	organismTime float64 // growth-seconds since scene start

	lastDT     float64 // floored real dt of the last update
	lastGrowth float64 // growth-seconds accrued by the last update
}

// NewEnvironment creates a clock whose smoothed brightness starts at the
// configured initial brightness.
func NewEnvironment(cfg config.EnvironmentConfig) *Environment {
	e := &Environment{cfg: cfg}
	e.Reset()
	return e
}

// Reset restarts the clock for a new scene.
func (e *Environment) Reset() {
	e.raw = e.cfg.InitialBrightness
	e.smoothed = e.cfg.InitialBrightness
	e.day = DayValue(e.smoothed, e.cfg)
	e.growthRate = GrowthRate(e.smoothed, e.cfg)
	e.organismTime = 0
	e.lastDT = 0
	e.lastGrowth = 0
}

// SetConfig swaps tuning parameters without resetting accumulated time.
func (e *Environment) SetConfig(cfg config.EnvironmentConfig) {
	e.cfg = cfg
}

// Update advances the clock by one frame of realDT seconds.
func (e *Environment) Update(raw, realDT float64) {
	dt := realDT
	if dt < e.cfg.MinDT {
		dt = e.cfg.MinDT
	}

	e.raw = raw
	e.smoothed += e.cfg.SmoothFactor * (raw - e.smoothed)
	e.day = DayValue(e.smoothed, e.cfg)
	e.growthRate = GrowthRate(e.smoothed, e.cfg)

	e.lastDT = dt
	e.lastGrowth = e.growthRate * dt
	e.organismTime += e.lastGrowth
}

// Raw returns the last raw brightness.
func (e *Environment) Raw() float64 { return e.raw }

// Smoothed returns the filtered brightness.
func (e *Environment) Smoothed() float64 { return e.smoothed }

// Day returns the current day value in [0, 1].
func (e *Environment) Day() float64 { return e.day }

// IsDay reports whether the smoothed brightness reads as daylight.
func (e *Environment) IsDay() bool { return e.smoothed > e.cfg.DayThreshold }

// GrowthRate returns growth-seconds per real second.
func (e *Environment) GrowthRate() float64 { return e.growthRate }

// OrganismTime returns accumulated growth-seconds.
func (e *Environment) OrganismTime() float64 { return e.organismTime }

// LastDT returns the floored real dt used by the last update.
func (e *Environment) LastDT() float64 { return e.lastDT }

// LastGrowth returns the growth-seconds accrued by the last update.
func (e *Environment) LastGrowth() float64 { return e.lastGrowth }
