package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/metamorphosis/config"
)

// CocoonState is a cocoon's lifecycle stage.
type CocoonState uint8

const (
	CocoonDormant    CocoonState = iota // waiting for organism time to reach its start
	CocoonDeveloping                    // accumulating local growth
	CocoonCracked                       // past the crack threshold
	CocoonOpen                          // hatched; local growth frozen
)

func (s CocoonState) String() string {
	switch s {
	case CocoonDormant:
		return "dormant"
	case CocoonDeveloping:
		return "developing"
	case CocoonCracked:
		return "cracked"
	case CocoonOpen:
		return "open"
	}
	return "unknown"
}

// Cocoon is one slot on the branch.
type Cocoon struct {
	Slot    int
	X       float64
	BaseY   float64 // from the branch arc
	OffsetY float64 // per-slot hand-placed offset
	StartAt float64 // organism time at which development may begin

	state       CocoonState
	localGrowth float64 // growth-seconds since start
	startedReal float64 // wall-clock seconds at start
}

// State returns the lifecycle stage.
func (c *Cocoon) State() CocoonState { return c.state }

// LocalGrowth returns growth-seconds accumulated since the cocoon started.
func (c *Cocoon) LocalGrowth() float64 { return c.localGrowth }

// StartedReal returns the wall-clock second the cocoon started, valid once
// the cocoon has left the dormant state.
func (c *Cocoon) StartedReal() float64 { return c.startedReal }

// Y returns the resting position of the cocoon.
func (c *Cocoon) Y() float64 { return c.BaseY + c.OffsetY }

// Started reports whether development has begun.
func (c *Cocoon) Started() bool { return c.state >= CocoonDeveloping }

// Each transition only fires from its single legal predecessor.

func (c *Cocoon) start(nowReal float64) bool {
	if c.state != CocoonDormant {
		return false
	}
	c.state = CocoonDeveloping
	c.startedReal = nowReal
	return true
}

func (c *Cocoon) crack() bool {
	if c.state != CocoonDeveloping {
		return false
	}
	c.state = CocoonCracked
	return true
}

func (c *Cocoon) open() bool {
	if c.state != CocoonCracked {
		return false
	}
	c.state = CocoonOpen
	return true
}

// CocoonEventKind identifies a lifecycle transition.
type CocoonEventKind uint8

const (
	EventStarted CocoonEventKind = iota
	EventCracked
	EventHatched
)

func (k CocoonEventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventCracked:
		return "cracked"
	case EventHatched:
		return "hatched"
	}
	return "unknown"
}

// CocoonEvent reports a transition. Hatch fields are set only for EventHatched.
type CocoonEvent struct {
	Kind         CocoonEventKind
	Slot         int
	OrganismTime float64
	RealTime     float64

	X, Y       float64 // spawn position
	DevRealSec float64 // real seconds from start to hatch
	Size       float64 // adult size, jitter included
}

// ArcY returns the branch arc height at x for a canvas of the given width.
func ArcY(x, width float64, cfg config.CocoonConfig) float64 {
	u := clamp01(x / width)
	return cfg.ArcBaseY + cfg.ArcAmplitude*(1-math.Cos(2*math.Pi*u))*0.5
}

// AdultSize maps real development seconds to an adult size multiplier
// before jitter. Slow development gives larger adults.
func AdultSize(devRealSec float64, cfg config.AdultConfig) float64 {
	norm := clamp01(normalize(devRealSec, cfg.DevRealMin, cfg.DevRealMax))
	norm = math.Pow(norm, cfg.ShapeExponent)
	return lerp(cfg.SizeMin, cfg.SizeMax, norm)
}

// SizeJitter draws a uniform factor in [1-j, 1+j].
func SizeJitter(rng *rand.Rand, cfg config.AdultConfig) float64 {
	return 1 - cfg.SizeJitter + 2*cfg.SizeJitter*rng.Float64()
}

// CocoonSystem owns the fixed set of cocoons and advances their lifecycle.
type CocoonSystem struct {
	cfg     config.CocoonConfig
	adult   config.AdultConfig
	cocoons []Cocoon
	events  []CocoonEvent
}

// NewCocoonSystem places cocoons along the branch arc.
func NewCocoonSystem(cfg *config.Config) *CocoonSystem {
	s := &CocoonSystem{
		cfg:     cfg.Cocoons,
		adult:   cfg.Adult,
		cocoons: make([]Cocoon, len(cfg.Derived.CocoonXs)),
		events:  make([]CocoonEvent, 0, 8),
	}
	width := float64(cfg.Screen.Width)
	for i, x := range cfg.Derived.CocoonXs {
		offset := 0.0
		if i < len(cfg.Cocoons.YOffsets) {
			offset = cfg.Cocoons.YOffsets[i]
		}
		s.cocoons[i] = Cocoon{
			Slot:    i,
			X:       x,
			BaseY:   ArcY(x, width, cfg.Cocoons),
			OffsetY: offset,
			StartAt: float64(i) * cfg.Cocoons.Stagger,
		}
	}
	return s
}

// SetConfig swaps thresholds and size mapping. Placement and start offsets
// are fixed for the life of the scene.
func (s *CocoonSystem) SetConfig(cfg *config.Config) {
	s.cfg.CrackGrowth = cfg.Cocoons.CrackGrowth
	s.cfg.HatchGrowth = cfg.Cocoons.HatchGrowth
	s.cfg.CrackJitterX = cfg.Cocoons.CrackJitterX
	s.cfg.CrackJitterY = cfg.Cocoons.CrackJitterY
	s.adult = cfg.Adult
}

// Cocoons returns the cocoon slots. Callers must not mutate them.
func (s *CocoonSystem) Cocoons() []Cocoon {
	return s.cocoons
}

// Update advances every cocoon by one frame. growth is the growth-seconds
// accrued this frame, organismTime the global accumulator after this frame.
// The returned events slice is reused on the next call.
func (s *CocoonSystem) Update(organismTime, growth, nowReal float64, rng *rand.Rand) []CocoonEvent {
	s.events = s.events[:0]

	for i := range s.cocoons {
		c := &s.cocoons[i]

		if organismTime >= c.StartAt && c.start(nowReal) {
			s.events = append(s.events, CocoonEvent{
				Kind: EventStarted, Slot: c.Slot, OrganismTime: organismTime, RealTime: nowReal,
			})
		}

		if c.Started() && c.state != CocoonOpen {
			c.localGrowth += growth
		}

		if c.localGrowth >= s.cfg.CrackGrowth && c.crack() {
			s.events = append(s.events, CocoonEvent{
				Kind: EventCracked, Slot: c.Slot, OrganismTime: organismTime, RealTime: nowReal,
			})
		}

		if c.localGrowth >= s.cfg.HatchGrowth && c.open() {
			dev := math.Max(0.001, nowReal-c.startedReal)
			size := AdultSize(dev, s.adult) * SizeJitter(rng, s.adult)
			s.events = append(s.events, CocoonEvent{
				Kind:         EventHatched,
				Slot:         c.Slot,
				OrganismTime: organismTime,
				RealTime:     nowReal,
				X:            c.X,
				Y:            c.Y(),
				DevRealSec:   dev,
				Size:         size,
			})
		}
	}

	return s.events
}

// Hatched returns how many cocoons have opened.
func (s *CocoonSystem) Hatched() int {
	n := 0
	for i := range s.cocoons {
		if s.cocoons[i].state == CocoonOpen {
			n++
		}
	}
	return n
}
