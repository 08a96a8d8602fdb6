package systems

import (
	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"
)

// driftAxisY offsets the y channel so the two axes do not move in lockstep.
const driftAxisY = 31.7

// DriftField generates smooth, low-frequency air currents per agent.
type DriftField struct {
	noise opensimplex.Noise
}

// NewDriftField creates a drift field seeded for reproducible runs.
func NewDriftField(seed int64) *DriftField {
	return &DriftField{noise: opensimplex.NewNormalized(seed)}
}

// Sample returns the drift for the agent with the given index at time t
// (in frames). Each component lies in [-amplitude, amplitude].
func (d *DriftField) Sample(t float64, index int, freqX, freqY, amplitude float64) r2.Vec {
	i := float64(index)
	nx := d.noise.Eval2(t*freqX+i, 0)
	ny := d.noise.Eval2(t*freqY-i, driftAxisY)
	return r2.Vec{
		X: nx*2*amplitude - amplitude,
		Y: ny*2*amplitude - amplitude,
	}
}
