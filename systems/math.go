package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Clamp functions for common value ranges

// clamp clamps v between minVal and maxVal.
func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// lerp interpolates from a to b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// normalize maps v from [lo, hi] onto [0, 1] without clamping.
func normalize(v, lo, hi float64) float64 {
	return (v - lo) / (hi - lo)
}

// Vector helpers

// limit caps the magnitude of v at maxMag.
func limit(v r2.Vec, maxMag float64) r2.Vec {
	n2 := r2.Norm2(v)
	if n2 > maxMag*maxMag && n2 > 0 {
		return r2.Scale(maxMag/math.Sqrt(n2), v)
	}
	return v
}

// setMag rescales v to magnitude mag. The zero vector stays zero.
func setMag(v r2.Vec, mag float64) r2.Vec {
	n := r2.Norm(v)
	if n == 0 {
		return r2.Vec{}
	}
	return r2.Scale(mag/n, v)
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// wrapMargin wraps a coordinate that left [-margin, size+margin] to just
// past the opposite edge.
func wrapMargin(v, size, margin float64) float64 {
	if v < -margin {
		return size + margin
	}
	if v > size+margin {
		return -margin
	}
	return v
}
