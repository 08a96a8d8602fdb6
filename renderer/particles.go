package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/metamorphosis/scene"
)

// ParticleRenderer renders effect particles.
type ParticleRenderer struct{}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Draw renders shell fragments with normal blending and sparkles additively.
func (r *ParticleRenderer) Draw(fragments, sparkles []scene.Circle) {
	for _, p := range fragments {
		// Keep tiny fragments visible until they fade out
		if p.Radius < 0.5 {
			p.Radius = 0.5
		}
		drawCircle(p)
	}

	if len(sparkles) == 0 {
		return
	}
	rl.BeginBlendMode(rl.BlendAdditive)
	drawCircles(sparkles)
	rl.EndBlendMode()
}
