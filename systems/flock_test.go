package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/metamorphosis/components"
	"github.com/pthm-cable/metamorphosis/config"
)

// newTestFlock returns a flock without drift and a field with no pull, so
// tests can isolate individual rules.
func newTestFlock(t *testing.T) (*FlockSystem, *AttractorField) {
	t.Helper()
	cfg := config.Default()
	world := ecs.NewWorld()
	flock := NewFlockSystem(world, cfg.Flock, 600, 600, nil)

	nectar := cfg.Nectar
	nectar.Pull = 0
	nectar.PointerPull = 0
	return flock, NewAttractorField(nectar)
}

func setVelocity(s *FlockSystem, e ecs.Entity, vx, vy float64) {
	_, vel, _, _ := s.mapper.Get(e)
	vel.X = vx
	vel.Y = vy
}

func TestFlockSystem_SpawnSpeedRange(t *testing.T) {
	flock, _ := newTestFlock(t)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 50; i++ {
		e := flock.Spawn(300, 300, 1, i%6, 0.6, 1.2, rng)
		_, vel, rot, wing := flock.mapper.Get(e)
		speed := math.Hypot(vel.X, vel.Y)
		if speed < 0.6-1e-9 || speed > 1.2+1e-9 {
			t.Errorf("spawn speed %v outside [0.6,1.2]", speed)
		}
		if math.Abs(math.Atan2(vel.Y, vel.X)-math.Atan2(math.Sin(rot.Heading), math.Cos(rot.Heading))) > 1e-9 {
			t.Errorf("heading %v does not match velocity", rot.Heading)
		}
		if int(wing.Index) != i {
			t.Errorf("wing index = %d, want %d", wing.Index, i)
		}
	}
	if flock.Count() != 50 {
		t.Errorf("Count = %d, want 50", flock.Count())
	}
}

func TestFlockSystem_SpeedCapByDay(t *testing.T) {
	tests := []struct {
		name string
		day  float64
		cap  float64
	}{
		{"night", 0, 2.2 * 0.8},
		{"dusk", 0.5, 2.2},
		{"day", 1, 2.2 * 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flock, field := newTestFlock(t)
			rng := rand.New(rand.NewSource(2))
			e := flock.Spawn(300, 300, 1, 0, 0.6, 1.2, rng)
			setVelocity(flock, e, 50, -30)

			flock.Update(field, FlockParams{Day: tt.day, Step: 1})

			_, vel, _, _ := flock.mapper.Get(e)
			speed := math.Hypot(vel.X, vel.Y)
			if math.Abs(speed-tt.cap) > 1e-9 {
				t.Errorf("speed = %v, want cap %v", speed, tt.cap)
			}
		})
	}
}

func TestFlockSystem_CoincidentAgentsStayFinite(t *testing.T) {
	flock, field := newTestFlock(t)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 4; i++ {
		e := flock.Spawn(200, 200, 1, i, 0.6, 1.2, rng)
		setVelocity(flock, e, 0, 0)
	}

	for step := 0; step < 100; step++ {
		flock.Update(field, FlockParams{Day: 0.5, Time: float64(step), Step: 1})
	}

	for _, a := range flock.AppendAgents(nil) {
		for _, v := range []float64{a.X, a.Y, a.VX, a.VY, a.Heading} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("agent %d has non-finite state %+v", a.Index, a)
			}
		}
	}
}

func TestFlockSystem_SeparationAndCohesion(t *testing.T) {
	flock, field := newTestFlock(t)
	rng := rand.New(rand.NewSource(4))
	a := flock.Spawn(100, 100, 1, 0, 0.6, 1.2, rng)
	b := flock.Spawn(110, 100, 1, 1, 0.6, 1.2, rng)
	setVelocity(flock, a, 0, 0)
	setVelocity(flock, b, 0, 0)

	flock.Update(field, FlockParams{Day: 0.5, Step: 1})

	// separation -0.06*2.0 plus cohesion +0.06*0.45; alignment is zero
	want := -0.12 + 0.027
	_, va, _, _ := flock.mapper.Get(a)
	_, vb, _, _ := flock.mapper.Get(b)
	if math.Abs(va.X-want) > 1e-9 || math.Abs(va.Y) > 1e-9 {
		t.Errorf("agent a velocity = (%v,%v), want (%v,0)", va.X, va.Y, want)
	}
	if math.Abs(vb.X+want) > 1e-9 || math.Abs(vb.Y) > 1e-9 {
		t.Errorf("agent b velocity = (%v,%v), want (%v,0)", vb.X, vb.Y, -want)
	}
}

func TestFlockSystem_SnapshotIsOrderIndependent(t *testing.T) {
	// Two mirrored agents must receive mirrored updates regardless of which
	// one the query visits first.
	flock, field := newTestFlock(t)
	rng := rand.New(rand.NewSource(5))
	a := flock.Spawn(280, 300, 1, 0, 0.6, 1.2, rng)
	b := flock.Spawn(320, 300, 1, 1, 0.6, 1.2, rng)
	setVelocity(flock, a, 0.5, 0)
	setVelocity(flock, b, -0.5, 0)

	flock.Update(field, FlockParams{Day: 0.5, Step: 1})

	pa, _, _, _ := flock.mapper.Get(a)
	pb, _, _, _ := flock.mapper.Get(b)
	if math.Abs((pa.X-300)+(pb.X-300)) > 1e-9 {
		t.Errorf("positions not mirrored: a=%v b=%v", pa.X, pb.X)
	}
}

func TestFlockSystem_AttractorPull(t *testing.T) {
	cfg := config.Default()
	flock := NewFlockSystem(ecs.NewWorld(), cfg.Flock, 600, 600, nil)
	field := NewAttractorField(cfg.Nectar)
	field.SetPointer(500, 300)
	rng := rand.New(rand.NewSource(6))
	e := flock.Spawn(300, 300, 1, 0, 0.6, 1.2, rng)
	setVelocity(flock, e, 0, 0)

	flock.Update(field, FlockParams{Day: 0.5, Step: 1})

	pos, vel, _, _ := flock.mapper.Get(e)
	if math.Abs(vel.X-0.09) > 1e-9 || math.Abs(vel.Y) > 1e-9 {
		t.Errorf("velocity = (%v,%v), want (0.09,0)", vel.X, vel.Y)
	}
	if math.Abs(pos.X-300.09) > 1e-9 {
		t.Errorf("x = %v, want 300.09", pos.X)
	}

	// Nectar overrides the pointer
	field.Add(300, 100, 0)
	setVelocity(flock, e, 0, 0)
	flock.Update(field, FlockParams{Day: 0.5, Step: 1})
	_, vel, _, _ = flock.mapper.Get(e)
	if vel.Y >= 0 {
		t.Errorf("expected pull toward nectar above, got vy=%v", vel.Y)
	}
}

func TestFlockSystem_DriftBounded(t *testing.T) {
	cfg := config.Default()
	drift := NewDriftField(42)
	for i := 0; i < 200; i++ {
		v := drift.Sample(float64(i*37), i, cfg.Flock.DriftFreqX, cfg.Flock.DriftFreqY, cfg.Flock.DriftAmplitude)
		if math.Abs(v.X) > 0.1+1e-9 || math.Abs(v.Y) > 0.1+1e-9 {
			t.Fatalf("drift %v exceeds amplitude 0.1", v)
		}
	}
}

func TestIntegrate_Wrap(t *testing.T) {
	b := Bounds{Width: 600, Height: 600, Margin: 20}

	tests := []struct {
		name   string
		x, y   float64
		vx, vy float64
		wantX  float64
		wantY  float64
	}{
		{"past right", 619, 300, 2, 0, -20, 300},
		{"past left", -19, 300, -2, 0, 620, 300},
		{"past bottom", 300, 619.5, 0, 1, 300, -20},
		{"past top", 300, -19.5, 0, -1, 300, 620},
		{"inside margin", 610, 300, 1, 0, 611, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := components.Position{X: tt.x, Y: tt.y}
			vel := components.Velocity{X: tt.vx, Y: tt.vy}
			var rot components.Rotation
			integrate(&pos, &vel, &rot, 10, 1, b)
			if math.Abs(pos.X-tt.wantX) > 1e-9 || math.Abs(pos.Y-tt.wantY) > 1e-9 {
				t.Errorf("position = (%v,%v), want (%v,%v)", pos.X, pos.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestIntegrate_StepScale(t *testing.T) {
	b := Bounds{Width: 600, Height: 600, Margin: 20}
	pos := components.Position{X: 100, Y: 100}
	vel := components.Velocity{X: 1, Y: 1}
	var rot components.Rotation

	integrate(&pos, &vel, &rot, 10, 0.5, b)

	if pos.X != 100.5 || pos.Y != 100.5 {
		t.Errorf("position = (%v,%v), want (100.5,100.5)", pos.X, pos.Y)
	}
	if math.Abs(rot.Heading-math.Pi/4) > 1e-9 {
		t.Errorf("heading = %v, want pi/4", rot.Heading)
	}
}

func TestFlockSystem_AppendAgents(t *testing.T) {
	flock, _ := newTestFlock(t)
	rng := rand.New(rand.NewSource(7))
	flock.Spawn(10, 20, 0.7, 2, 0.6, 1.2, rng)
	flock.Spawn(30, 40, 1.4, 4, 0.6, 1.2, rng)

	agents := flock.AppendAgents(nil)
	if len(agents) != 2 {
		t.Fatalf("got %d agents, want 2", len(agents))
	}
	if agents[0].Size != 0.7 || agents[0].Slot != 2 || agents[0].X != 10 {
		t.Errorf("first agent = %+v", agents[0])
	}
	if agents[1].Size != 1.4 || agents[1].Slot != 4 || agents[1].Index != 1 {
		t.Errorf("second agent = %+v", agents[1])
	}
}

func TestFlockSystem_SpawnHatchCarriesEvent(t *testing.T) {
	flock, _ := newTestFlock(t)
	adult := config.Default().Adult
	rng := rand.New(rand.NewSource(4))

	ev := CocoonEvent{
		Kind:       EventHatched,
		Slot:       3,
		RealTime:   42.5,
		X:          210,
		Y:          70,
		DevRealSec: 31,
		Size:       1.3,
	}
	flock.SpawnHatch(ev, adult, rng)

	agents := flock.AppendAgents(nil)
	if len(agents) != 1 {
		t.Fatalf("agents = %d, want 1", len(agents))
	}
	a := agents[0]
	if a.X != 210 || a.Y != 70 {
		t.Errorf("spawned at (%v,%v), want cocoon position", a.X, a.Y)
	}
	if a.Slot != 3 || a.Size != 1.3 || a.DevRealSec != 31 || a.BornAt != 42.5 {
		t.Errorf("agent = %+v, want slot 3 size 1.3 dev 31 born 42.5", a)
	}
	if s := a.Speed(); s < adult.SpawnSpeedMin-1e-9 || s > adult.SpawnSpeedMax+1e-9 {
		t.Errorf("speed %v outside spawn range", s)
	}
}

func TestNearest(t *testing.T) {
	agents := []Agent{
		{X: 10, Y: 10},
		{X: 100, Y: 100},
		{X: 104, Y: 100},
	}

	tests := []struct {
		name   string
		x, y   float64
		max    float64
		want   int
		wantOK bool
	}{
		{"closest of two", 103, 100, 20, 2, true},
		{"exactly at max", 10, 30, 20, 0, true},
		{"out of reach", 300, 300, 20, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Nearest(agents, tt.x, tt.y, tt.max)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("Nearest = (%d,%v), want (%d,%v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if _, ok := Nearest(nil, 0, 0, 100); ok {
		t.Error("empty slice should find nothing")
	}
}
