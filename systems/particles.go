package systems

import (
	"math"
	"math/rand"
)

// ParticleType identifies the type of effect particle.
type ParticleType uint8

const (
	ParticleShell   ParticleType = iota // shell fragment shed when a cocoon cracks
	ParticleSparkle                     // rising glint when a butterfly emerges
)

// EffectParticle represents a visual feedback particle.
type EffectParticle struct {
	X, Y       float64
	VelX, VelY float64
	Life       int32
	MaxLife    int32
	Type       ParticleType
	Size       float64
}

// LifeFraction returns the remaining share of the particle's life.
func (p EffectParticle) LifeFraction() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return float64(p.Life) / float64(p.MaxLife)
}

// ParticleSystem manages cosmetic crack and hatch particles.
type ParticleSystem struct {
	Particles    []EffectParticle
	maxParticles int
}

// NewParticleSystem creates a new particle system.
func NewParticleSystem(maxParticles int) *ParticleSystem {
	return &ParticleSystem{
		Particles:    make([]EffectParticle, 0, maxParticles),
		maxParticles: maxParticles,
	}
}

// Update processes all particles by one frame.
func (s *ParticleSystem) Update() {
	alive := 0
	for i := range s.Particles {
		p := &s.Particles[i]

		p.Life--
		if p.Life <= 0 {
			continue
		}

		switch p.Type {
		case ParticleShell:
			// Fall
			p.VelY += 0.03
		case ParticleSparkle:
			// Float upward
			p.VelY -= 0.01
		}

		// Drag
		p.VelX *= 0.96
		p.VelY *= 0.96

		p.X += p.VelX
		p.Y += p.VelY

		s.Particles[alive] = s.Particles[i]
		alive++
	}
	s.Particles = s.Particles[:alive]
}

// EmitCrack emits a handful of shell fragments (3-5).
func (s *ParticleSystem) EmitCrack(x, y float64, rng *rand.Rand) {
	count := 3 + rng.Intn(3)
	for i := 0; i < count; i++ {
		s.emit(x, y, ParticleShell, rng)
	}
}

// EmitHatch emits a radial burst of sparkles (10-16) scaled by adult size.
func (s *ParticleSystem) EmitHatch(x, y, size float64, rng *rand.Rand) {
	count := 10 + rng.Intn(7)
	for i := 0; i < count; i++ {
		if len(s.Particles) >= s.maxParticles {
			return
		}

		// Radial burst
		angle := rng.Float64() * 2 * math.Pi
		speed := (0.4 + rng.Float64()*0.8) * size
		life := int32(40 + rng.Intn(30))

		s.Particles = append(s.Particles, EffectParticle{
			X:       x + (rng.Float64()-0.5)*6,
			Y:       y + (rng.Float64()-0.5)*6,
			VelX:    math.Cos(angle) * speed,
			VelY:    math.Sin(angle) * speed,
			Life:    life,
			MaxLife: life,
			Type:    ParticleSparkle,
			Size:    1.5 + rng.Float64()*1.5,
		})
	}
}

func (s *ParticleSystem) emit(x, y float64, ptype ParticleType, rng *rand.Rand) {
	if len(s.Particles) >= s.maxParticles {
		return
	}

	velX := (rng.Float64() - 0.5) * 0.8
	velY := -rng.Float64() * 0.4 // short hop before falling
	life := int32(50 + rng.Intn(30))

	s.Particles = append(s.Particles, EffectParticle{
		X:       x + (rng.Float64()-0.5)*10,
		Y:       y + (rng.Float64()-0.5)*10,
		VelX:    velX,
		VelY:    velY,
		Life:    life,
		MaxLife: life,
		Type:    ptype,
		Size:    2 + rng.Float64()*1.5,
	})
}

// Clear removes every particle.
func (s *ParticleSystem) Clear() {
	s.Particles = s.Particles[:0]
}

// Count returns the current number of active particles.
func (s *ParticleSystem) Count() int {
	return len(s.Particles)
}
