// Package components defines ECS components for butterfly agents.
package components

// Position represents an agent's position in canvas units.
type Position struct {
	X, Y float64
}

// Velocity represents an agent's velocity in canvas units per step.
type Velocity struct {
	X, Y float64
}

// Rotation holds the heading derived from velocity, used for sprite orientation.
type Rotation struct {
	Heading float64 // radians
}
