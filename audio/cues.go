// Package audio plays short synthesized cues for cocoon events.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/metamorphosis/config"
)

const (
	crackDuration = 120 * time.Millisecond
	hatchDuration = 900 * time.Millisecond
	hatchDecay    = 4.5
)

// Cues plays crack and hatch sounds through a shared mixer. Until Init
// succeeds every cue is a no-op.
type Cues struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	mixer       *beep.Mixer
	volume      float64
	sizeMin     float64
	sizeMax     float64
	cracks      uint32
	initialized bool
}

// NewCues creates silent cues from config.
func NewCues(cfg config.AudioConfig, adult config.AdultConfig) *Cues {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	return &Cues{
		rate:    beep.SampleRate(rate),
		mixer:   &beep.Mixer{},
		volume:  cfg.Volume,
		sizeMin: adult.SizeMin,
		sizeMax: adult.SizeMax,
	}
}

// Init opens the speaker. On error the cues stay silent.
func (c *Cues) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(c.rate, c.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Enabled reports whether cues reach the speaker.
func (c *Cues) Enabled() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// Crack plays a shell crackle.
func (c *Cues) Crack() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.cracks++
	seed := c.cracks * 2654435761
	c.mu.Unlock()

	c.play(NewCrackle(c.rate, crackDuration, seed))
}

// Hatch plays a chime pitched by adult size.
func (c *Cues) Hatch(size float64) {
	if c == nil {
		return
	}
	freq := HatchPitch(size, c.sizeMin, c.sizeMax)
	c.play(NewChime(c.rate, freq, hatchDuration, hatchDecay))
}

func (c *Cues) play(s beep.Streamer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized || c.volume <= 0 {
		return
	}
	speaker.Lock()
	c.mixer.Add(&effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(c.volume),
	})
	speaker.Unlock()
}

// Close silences any playing cues.
func (c *Cues) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}
