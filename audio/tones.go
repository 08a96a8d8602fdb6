package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Chime is a decaying sine with a soft octave overtone.
type Chime struct {
	freq     float64
	decay    float64 // envelope rate per second
	duration int
	pos      int
	rate     beep.SampleRate
}

// NewChime creates a chime at freq lasting d.
func NewChime(rate beep.SampleRate, freq float64, d time.Duration, decay float64) *Chime {
	return &Chime{freq: freq, decay: decay, duration: rate.N(d), rate: rate}
}

func (c *Chime) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if c.pos >= c.duration {
			return i, i > 0
		}
		t := float64(c.pos) / float64(c.rate)

		// 5 ms attack avoids a click
		env := math.Exp(-t*c.decay) * math.Min(1, t/0.005)
		v := env * (0.7*math.Sin(2*math.Pi*c.freq*t) + 0.3*math.Sin(4*math.Pi*c.freq*t))

		samples[i][0] = v
		samples[i][1] = v
		c.pos++
	}
	return len(samples), true
}

func (c *Chime) Err() error { return nil }

// Crackle is a short filtered noise burst with a low knock.
type Crackle struct {
	duration int
	pos      int
	rate     beep.SampleRate
	seed     uint32
	prev     float64
}

// NewCrackle creates a crackle lasting d. seed fixes the noise pattern.
func NewCrackle(rate beep.SampleRate, d time.Duration, seed uint32) *Crackle {
	if seed == 0 {
		seed = 1
	}
	return &Crackle{duration: rate.N(d), rate: rate, seed: seed}
}

func (c *Crackle) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if c.pos >= c.duration {
			return i, i > 0
		}
		t := float64(c.pos) / float64(c.rate)
		env := math.Exp(-t * 30)

		// xorshift noise, one-pole low-pass
		c.seed ^= c.seed << 13
		c.seed ^= c.seed >> 17
		c.seed ^= c.seed << 5
		noise := float64(c.seed)/float64(math.MaxUint32)*2 - 1
		c.prev += 0.35 * (noise - c.prev)

		v := env * (0.6*c.prev + 0.4*math.Sin(2*math.Pi*140*t))
		samples[i][0] = v
		samples[i][1] = v
		c.pos++
	}
	return len(samples), true
}

func (c *Crackle) Err() error { return nil }

// HatchPitch maps adult size to a chime frequency. Larger adults ring lower.
func HatchPitch(size, sizeMin, sizeMax float64) float64 {
	const hi, lo = 880.0, 440.0
	if sizeMax <= sizeMin {
		return (hi + lo) / 2
	}
	t := (size - sizeMin) / (sizeMax - sizeMin)
	t = math.Max(0, math.Min(1, t))
	return hi + t*(lo-hi)
}
