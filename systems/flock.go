package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/metamorphosis/components"
	"github.com/pthm-cable/metamorphosis/config"
)

// agentSnapshot captures an agent's state at the start of the frame so
// every agent steers against the same picture of its neighbours.
type agentSnapshot struct {
	Entity ecs.Entity
	Index  int
	Pos    r2.Vec
	Vel    r2.Vec
}

// FlockParams bundles the per-frame inputs of the flocking update.
type FlockParams struct {
	Day  float64 // current day value, scales the speed cap
	Time float64 // drift clock in frames
	Step float64 // position integration scale (1 in frame mode)
}

// FlockSystem steers butterfly agents with separation, alignment and
// cohesion plus an attractor pull and ambient drift.
type FlockSystem struct {
	cfg    config.FlockConfig
	bounds Bounds
	drift  *DriftField
	grid   *SpatialGrid

	mapper *ecs.Map4[components.Position, components.Velocity, components.Rotation, components.Wing]
	filter *ecs.Filter4[components.Position, components.Velocity, components.Rotation, components.Wing]

	snap      []agentSnapshot
	pts       []r2.Vec
	neighbors []Neighbor
	count     int
	spawned   int32
}

// NewFlockSystem creates a flocking system over the given world.
func NewFlockSystem(world *ecs.World, cfg config.FlockConfig, width, height float64, drift *DriftField) *FlockSystem {
	return &FlockSystem{
		cfg:       cfg,
		bounds:    Bounds{Width: width, Height: height, Margin: cfg.WrapMargin},
		drift:     drift,
		grid:      NewSpatialGrid(width, height, queryRadius(cfg)),
		mapper:    ecs.NewMap4[components.Position, components.Velocity, components.Rotation, components.Wing](world),
		filter:    ecs.NewFilter4[components.Position, components.Velocity, components.Rotation, components.Wing](world),
		snap:      make([]agentSnapshot, 0, 16),
		pts:       make([]r2.Vec, 0, 16),
		neighbors: make([]Neighbor, 0, 16),
	}
}

// queryRadius returns the widest rule radius.
func queryRadius(cfg config.FlockConfig) float64 {
	return math.Max(cfg.SepRadius, math.Max(cfg.AlignRadius, cfg.CohRadius))
}

// SetConfig swaps flocking parameters.
func (s *FlockSystem) SetConfig(cfg config.FlockConfig) {
	if queryRadius(cfg) != queryRadius(s.cfg) {
		s.grid = NewSpatialGrid(s.bounds.Width, s.bounds.Height, queryRadius(cfg))
	}
	s.cfg = cfg
	s.bounds.Margin = cfg.WrapMargin
}

// Spawn creates a butterfly at (x, y) with a random heading and a speed in
// [speedMin, speedMax]. size is frozen into the agent.
func (s *FlockSystem) Spawn(x, y, size float64, slot int, speedMin, speedMax float64, rng *rand.Rand) ecs.Entity {
	angle := rng.Float64() * 2 * math.Pi
	speed := speedMin + rng.Float64()*(speedMax-speedMin)

	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{X: speed * math.Cos(angle), Y: speed * math.Sin(angle)}
	rot := components.Rotation{Heading: angle}
	wing := components.Wing{Size: size, Index: s.spawned, Slot: int32(slot)}

	s.spawned++
	s.count++
	return s.mapper.NewEntity(&pos, &vel, &rot, &wing)
}

// SpawnHatch creates the butterfly announced by a hatch event.
func (s *FlockSystem) SpawnHatch(ev CocoonEvent, adult config.AdultConfig, rng *rand.Rand) ecs.Entity {
	e := s.Spawn(ev.X, ev.Y, ev.Size, ev.Slot, adult.SpawnSpeedMin, adult.SpawnSpeedMax, rng)
	_, _, _, wing := s.mapper.Get(e)
	wing.DevRealSec = ev.DevRealSec
	wing.BornAt = ev.RealTime
	return e
}

// Count returns the number of agents.
func (s *FlockSystem) Count() int {
	return s.count
}

// Update advances all agents by one frame.
func (s *FlockSystem) Update(field *AttractorField, p FlockParams) {
	s.snap = s.snap[:0]
	s.pts = s.pts[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, vel, _, wing := query.Get()
		pt := r2.Vec{X: pos.X, Y: pos.Y}
		s.snap = append(s.snap, agentSnapshot{
			Entity: query.Entity(),
			Index:  int(wing.Index),
			Pos:    pt,
			Vel:    r2.Vec{X: vel.X, Y: vel.Y},
		})
		s.pts = append(s.pts, pt)
	}

	s.grid.Clear()
	for i, pt := range s.pts {
		s.grid.Insert(i, pt)
	}

	maxSpeed := MaxSpeedFor(s.cfg.MaxSpeed, p.Day)

	for i := range s.snap {
		self := &s.snap[i]
		accel := s.steer(i)

		att := field.AttractorFor(self.Pos.X, self.Pos.Y)
		toAttr := setMag(r2.Sub(r2.Vec{X: att.X, Y: att.Y}, self.Pos), att.Pull)
		accel = r2.Add(accel, toAttr)

		if s.drift != nil {
			accel = r2.Add(accel, s.drift.Sample(p.Time, self.Index, s.cfg.DriftFreqX, s.cfg.DriftFreqY, s.cfg.DriftAmplitude))
		}

		pos, vel, rot, _ := s.mapper.Get(self.Entity)
		vel.X = self.Vel.X + accel.X
		vel.Y = self.Vel.Y + accel.Y
		integrate(pos, vel, rot, maxSpeed, p.Step, s.bounds)
	}
}

// steer returns the weighted separation, alignment and cohesion
// acceleration for snapshot i.
func (s *FlockSystem) steer(i int) r2.Vec {
	self := s.snap[i]
	var sep, ali, coh r2.Vec
	countAli, countCoh := 0, 0

	sepSq := s.cfg.SepRadius * s.cfg.SepRadius
	aliSq := s.cfg.AlignRadius * s.cfg.AlignRadius
	cohSq := s.cfg.CohRadius * s.cfg.CohRadius

	s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], self.Pos, queryRadius(s.cfg), i, s.pts)
	for _, n := range s.neighbors {
		o := s.snap[n.Index]

		// Unit vector away, weighted by inverse distance. Coincident
		// neighbours have no direction to flee.
		if n.DistSq > 0 && n.DistSq < sepSq {
			sep = r2.Sub(sep, r2.Scale(1/n.DistSq, n.Delta))
		}
		if n.DistSq < aliSq {
			ali = r2.Add(ali, o.Vel)
			countAli++
		}
		if n.DistSq < cohSq {
			coh = r2.Add(coh, o.Pos)
			countCoh++
		}
	}

	if countAli > 0 {
		ali = r2.Scale(1/float64(countAli), ali)
	}
	if countCoh > 0 {
		coh = r2.Sub(r2.Scale(1/float64(countCoh), coh), self.Pos)
	}

	sep = limit(sep, s.cfg.MaxForce)
	ali = limit(ali, s.cfg.MaxForce)
	coh = limit(coh, s.cfg.MaxForce)

	return r2.Add(r2.Add(r2.Scale(s.cfg.SepWeight, sep), r2.Scale(s.cfg.AlignWeight, ali)), r2.Scale(s.cfg.CohWeight, coh))
}

// Agent is a read-only view of a butterfly for rendering and telemetry.
type Agent struct {
	X, Y       float64
	VX, VY     float64
	Heading    float64
	Size       float64
	DevRealSec float64
	BornAt     float64
	Index      int
	Slot       int
}

// Speed returns the agent's speed in canvas units per step.
func (a Agent) Speed() float64 {
	return math.Hypot(a.VX, a.VY)
}

// AppendAgents appends every agent to dst in spawn order and returns it.
func (s *FlockSystem) AppendAgents(dst []Agent) []Agent {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, rot, wing := query.Get()
		dst = append(dst, Agent{
			X: pos.X, Y: pos.Y,
			VX: vel.X, VY: vel.Y,
			Heading:    rot.Heading,
			Size:       wing.Size,
			DevRealSec: wing.DevRealSec,
			BornAt:     wing.BornAt,
			Index:      int(wing.Index),
			Slot:       int(wing.Slot),
		})
	}
	return dst
}

// Nearest returns the index into agents of the agent closest to (x, y)
// within maxDist.
func Nearest(agents []Agent, x, y, maxDist float64) (int, bool) {
	best := -1
	bestD := maxDist * maxDist
	for i := range agents {
		if d := distanceSq(x, y, agents[i].X, agents[i].Y); d <= bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}
