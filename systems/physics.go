package systems

import (
	"math"

	"github.com/pthm-cable/metamorphosis/components"
)

// Bounds represents the canvas bounds agents wrap around.
type Bounds struct {
	Width, Height float64
	Margin        float64 // distance past an edge before wrapping
}

// MaxSpeedFor returns the speed cap for a day value; agents fly faster in daylight.
func MaxSpeedFor(maxSpeed, day float64) float64 {
	return maxSpeed * (0.8 + 0.4*day)
}

// integrate caps speed, advances position by step velocities, wraps across
// the bounds and refreshes the heading.
func integrate(pos *components.Position, vel *components.Velocity, rot *components.Rotation, maxSpeed, step float64, b Bounds) {
	// Limit velocity
	speed := math.Hypot(vel.X, vel.Y)
	if speed > maxSpeed {
		scale := maxSpeed / speed
		vel.X *= scale
		vel.Y *= scale
	}

	// Update position
	pos.X += vel.X * step
	pos.Y += vel.Y * step

	// Wrap gently, reappearing just past the opposite edge
	pos.X = wrapMargin(pos.X, b.Width, b.Margin)
	pos.Y = wrapMargin(pos.Y, b.Height, b.Margin)

	rot.Heading = math.Atan2(vel.Y, vel.X)
}
