package sensor

import (
	"math"
	"time"
)

// grayFrame fills f with a neutral gray whose luma equals v.
func grayFrame(f Frame, v float64) {
	c := uint8(math.Round(clamp(v, 0, 255)))
	f.Fill(c, c, c)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Steady is a source that always reports the same luma.
type Steady struct {
	frame Frame
}

// NewSteady creates a steady source of the given size and luma.
func NewSteady(w, h int, luma float64) *Steady {
	s := &Steady{frame: NewFrame(w, h)}
	grayFrame(s.frame, luma)
	return s
}

// Set changes the reported luma.
func (s *Steady) Set(luma float64) {
	grayFrame(s.frame, luma)
}

// Latest implements Source.
func (s *Steady) Latest() (Frame, bool) {
	return s.frame, true
}

// Synthetic simulates a daylight cycle with a soft horizon gradient.
type Synthetic struct {
	frame  Frame
	period float64
	low    float64
	high   float64
	start  time.Time
	now    func() time.Time
}

// NewSynthetic creates a cycling source. The cycle starts at midnight.
func NewSynthetic(w, h int, period, low, high float64) *Synthetic {
	if period <= 0 {
		period = 60
	}
	return &Synthetic{
		frame:  NewFrame(w, h),
		period: period,
		low:    low,
		high:   high,
		start:  time.Now(),
		now:    time.Now,
	}
}

// LumaAt returns the mean luma of the cycle t seconds in.
func (s *Synthetic) LumaAt(t float64) float64 {
	phase := 0.5 - 0.5*math.Cos(2*math.Pi*t/s.period)
	return s.low + (s.high-s.low)*phase
}

// Latest implements Source. The upper half of the frame is brighter than
// the lower half, averaging out to LumaAt.
func (s *Synthetic) Latest() (Frame, bool) {
	mean := s.LumaAt(s.now().Sub(s.start).Seconds())
	w, h := s.frame.Width, s.frame.Height
	for y := 0; y < h; y++ {
		// +-8% around the mean, linear top to bottom
		k := 1.08 - 0.16*float64(y)/math.Max(1, float64(h-1))
		c := uint8(math.Round(clamp(mean*k, 0, 255)))
		for x := 0; x < w; x++ {
			idx := 4 * (x + y*w)
			s.frame.Pix[idx] = c
			s.frame.Pix[idx+1] = c
			s.frame.Pix[idx+2] = c
			s.frame.Pix[idx+3] = 255
		}
	}
	return s.frame, true
}

// Manual is a source whose luma is nudged by the user.
type Manual struct {
	Steady
	luma float64
	step float64
}

// NewManual creates a manual source.
func NewManual(w, h int, initial, step float64) *Manual {
	m := &Manual{Steady: *NewSteady(w, h, initial), luma: initial, step: step}
	return m
}

// Nudge moves the luma by dir steps, clamped to [0, 255].
func (m *Manual) Nudge(dir float64) {
	m.luma = clamp(m.luma+dir*m.step, 0, 255)
	m.Set(m.luma)
}

// Luma returns the current luma.
func (m *Manual) Luma() float64 {
	return m.luma
}
