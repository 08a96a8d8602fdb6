package game

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/metamorphosis/config"
	"github.com/pthm-cable/metamorphosis/scene"
	"github.com/pthm-cable/metamorphosis/sensor"
	"github.com/pthm-cable/metamorphosis/systems"
	"github.com/pthm-cable/metamorphosis/telemetry"
)

// press is a queued pointer press waiting to become nectar.
type press struct {
	X, Y float64
}

// CocoonCounts tallies cocoons by state.
type CocoonCounts struct {
	Dormant    int
	Developing int
	Cracked    int
	Open       int
}

// Simulation holds every piece of scene state and advances it one frame at
// a time. It never talks to raylib, so it runs the same in headless mode,
// in tests and behind the window.
type Simulation struct {
	cfg  *config.Config
	seed int64

	rng   *rand.Rand // lifecycle jitter and spawn velocities
	fxRng *rand.Rand // cosmetic only: particles and cocoon vibration

	world      *ecs.World
	adapter    *sensor.Adapter
	source     sensor.Source
	override   *sensor.Steady
	overrideOn bool
	env        *systems.Environment
	cocoons    *systems.CocoonSystem
	field      *systems.AttractorField
	flock      *systems.FlockSystem
	particles  *systems.ParticleSystem
	drift      *systems.DriftField

	now       float64 // real seconds since scene start
	frames    int64
	driftTime float64 // drift clock, in reference frames
	presses   []press
	agents    []systems.Agent
	input     scene.Input

	perf *telemetry.PerfCollector // optional
}

// NewSimulation builds a scene from cfg. src may be nil, in which case the
// brightness stays at its initial value until an override is set.
func NewSimulation(cfg *config.Config, src sensor.Source, seed int64) *Simulation {
	s := &Simulation{
		cfg:      cfg,
		seed:     seed,
		source:   src,
		override: sensor.NewSteady(cfg.Sensor.Width, cfg.Sensor.Height, cfg.Environment.InitialBrightness),
		presses:  make([]press, 0, 4),
		agents:   make([]systems.Agent, 0, cfg.Cocoons.Count),
	}
	s.build()
	return s
}

// build creates all scene state from the seed.
func (s *Simulation) build() {
	cfg := s.cfg
	s.rng = rand.New(rand.NewSource(s.seed))
	s.fxRng = rand.New(rand.NewSource(s.seed + 1))

	s.world = ecs.NewWorld()
	s.adapter = sensor.NewAdapter(cfg.Environment.InitialBrightness, cfg.Sensor.Stride)
	s.env = systems.NewEnvironment(cfg.Environment)
	s.cocoons = systems.NewCocoonSystem(cfg)
	s.field = systems.NewAttractorField(cfg.Nectar)
	s.drift = systems.NewDriftField(s.seed)
	s.flock = systems.NewFlockSystem(s.world, cfg.Flock, float64(cfg.Screen.Width), float64(cfg.Screen.Height), s.drift)
	s.particles = systems.NewParticleSystem(cfg.Render.MaxParticles)

	s.now = 0
	s.frames = 0
	s.driftTime = 0
	s.presses = s.presses[:0]
	s.agents = s.agents[:0]
}

// Reset restarts the scene from the same seed. The pointer position and
// any brightness override survive the restart.
func (s *Simulation) Reset() {
	px, py := s.field.Pointer()
	s.build()
	s.field.SetPointer(px, py)
}

// SetPerf attaches a phase timer. nil disables timing.
func (s *Simulation) SetPerf(p *telemetry.PerfCollector) {
	s.perf = p
}

// ApplyConfig swaps tunable parameters without restarting the scene.
// Cocoon placement and the canvas size keep their values until Reset.
func (s *Simulation) ApplyConfig(cfg *config.Config) {
	s.cfg = cfg
	s.env.SetConfig(cfg.Environment)
	s.cocoons.SetConfig(cfg)
	s.field.SetConfig(cfg.Nectar)
	s.flock.SetConfig(cfg.Flock)
}

// SetSource replaces the brightness source.
func (s *Simulation) SetSource(src sensor.Source) {
	s.source = src
}

// SetBrightnessOverride routes a fixed luma into the sensor instead of the
// configured source while on is true.
func (s *Simulation) SetBrightnessOverride(luma float64, on bool) {
	s.override.Set(luma)
	s.overrideOn = on
}

// SetPointer moves the pointer light.
func (s *Simulation) SetPointer(x, y float64) {
	s.field.SetPointer(x, y)
}

// QueuePress records a pointer press. It becomes nectar at the start of the
// next Step.
func (s *Simulation) QueuePress(x, y float64) {
	s.presses = append(s.presses, press{X: x, Y: y})
}

func (s *Simulation) phase(name string) {
	if s.perf != nil {
		s.perf.StartPhase(name)
	}
}

// Step advances the scene by dt real seconds: sense, clock, cocoons, nectar,
// flock, particles. The returned events are valid until the next Step.
func (s *Simulation) Step(dt float64) []systems.CocoonEvent {
	s.now += dt
	s.frames++

	for _, p := range s.presses {
		s.field.Add(p.X, p.Y, s.now)
	}
	s.presses = s.presses[:0]

	s.phase(telemetry.PhaseSense)
	src := s.source
	if s.overrideOn {
		src = s.override
	}
	raw := s.adapter.Sample(src)

	s.phase(telemetry.PhaseClock)
	s.env.Update(raw, dt)

	s.phase(telemetry.PhaseCocoons)
	events := s.cocoons.Update(s.env.OrganismTime(), s.env.LastGrowth(), s.now, s.rng)
	for _, ev := range events {
		switch ev.Kind {
		case systems.EventCracked:
			c := &s.cocoons.Cocoons()[ev.Slot]
			s.particles.EmitCrack(c.X, c.Y(), s.fxRng)
		case systems.EventHatched:
			s.flock.SpawnHatch(ev, s.cfg.Adult, s.rng)
			s.particles.EmitHatch(ev.X, ev.Y, ev.Size, s.fxRng)
		}
	}

	s.phase(telemetry.PhaseNectar)
	s.field.Expire(s.now)

	s.phase(telemetry.PhaseFlock)
	step := s.StepScale(dt)
	s.driftTime += step
	s.flock.Update(s.field, systems.FlockParams{
		Day:  s.env.Day(),
		Time: s.driftTime,
		Step: step,
	})

	s.phase(telemetry.PhaseParticles)
	s.particles.Update()

	s.agents = s.flock.AppendAgents(s.agents[:0])
	return events
}

// StepScale returns the position integration factor for a frame of dt
// seconds: 1 in frame mode, dt times the reference rate in scaled mode.
func (s *Simulation) StepScale(dt float64) float64 {
	if s.cfg.Flock.Integration == config.IntegrationScaled {
		return dt * s.cfg.Flock.ReferenceFPS
	}
	return 1
}

// Frame computes the visual state of the current scene into f.
func (s *Simulation) Frame(f *scene.Frame) {
	s.phase(telemetry.PhaseFrame)

	in := &s.input
	in.Day = s.env.Day()
	in.IsDay = s.env.IsDay()
	in.SceneTime = s.now
	in.Now = s.now
	in.PointerX, in.PointerY = s.field.Pointer()
	in.Cocoons = s.cocoons.Cocoons()
	in.Nectar = s.field.Nectar()
	in.Agents = s.agents
	in.Particles = s.particles.Particles
	scene.Compute(f, in, s.cfg, s.fxRng)
}

// Config returns the active configuration.
func (s *Simulation) Config() *config.Config { return s.cfg }

// Seed returns the seed the scene was built from.
func (s *Simulation) Seed() int64 { return s.seed }

// Now returns real seconds since the scene started.
func (s *Simulation) Now() float64 { return s.now }

// Frames returns how many steps have run since the scene started.
func (s *Simulation) Frames() int64 { return s.frames }

// Env returns the environment clock.
func (s *Simulation) Env() *systems.Environment { return s.env }

// Adapter returns the light sensor adapter.
func (s *Simulation) Adapter() *sensor.Adapter { return s.adapter }

// Cocoons returns the cocoon slots.
func (s *Simulation) Cocoons() []systems.Cocoon { return s.cocoons.Cocoons() }

// Field returns the attractor field.
func (s *Simulation) Field() *systems.AttractorField { return s.field }

// Agents returns the butterflies as of the last step.
func (s *Simulation) Agents() []systems.Agent { return s.agents }

// Population returns the number of butterflies.
func (s *Simulation) Population() int { return s.flock.Count() }

// Particles returns the live effect particle count.
func (s *Simulation) Particles() int { return s.particles.Count() }

// CocoonCounts tallies cocoons by state.
func (s *Simulation) CocoonCounts() CocoonCounts {
	var c CocoonCounts
	for i := range s.cocoons.Cocoons() {
		switch s.cocoons.Cocoons()[i].State() {
		case systems.CocoonDormant:
			c.Dormant++
		case systems.CocoonDeveloping:
			c.Developing++
		case systems.CocoonCracked:
			c.Cracked++
		case systems.CocoonOpen:
			c.Open++
		}
	}
	return c
}
