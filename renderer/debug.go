package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/metamorphosis/config"
	"github.com/pthm-cable/metamorphosis/systems"
)

var (
	nectarLineColor  = rl.Color{R: 255, G: 200, B: 90, A: 110}
	pointerLineColor = rl.Color{R: 255, G: 255, B: 255, A: 70}
	sepRadiusColor   = rl.Color{R: 255, G: 90, B: 90, A: 90}
	alignRadiusColor = rl.Color{R: 90, G: 200, B: 255, A: 70}
	cohRadiusColor   = rl.Color{R: 120, G: 255, B: 120, A: 60}
	gridColor        = rl.Color{R: 255, G: 255, B: 255, A: 28}
	selectionColor   = rl.Color{R: 255, G: 255, B: 255, A: 220}
)

// DrawAttractorLines draws a line from each agent to the attractor it is
// currently steering toward.
func DrawAttractorLines(agents []systems.Agent, field *systems.AttractorField) {
	for _, a := range agents {
		t := field.AttractorFor(a.X, a.Y)
		c := pointerLineColor
		if t.Nectar {
			c = nectarLineColor
		}
		rl.DrawLineV(rl.Vector2{X: float32(a.X), Y: float32(a.Y)}, rl.Vector2{X: float32(t.X), Y: float32(t.Y)}, c)
	}
}

// DrawFlockRadii draws the separation, alignment and cohesion radii around
// each agent.
func DrawFlockRadii(agents []systems.Agent, cfg config.FlockConfig) {
	for _, a := range agents {
		x, y := int32(a.X), int32(a.Y)
		rl.DrawCircleLines(x, y, float32(cfg.SepRadius), sepRadiusColor)
		rl.DrawCircleLines(x, y, float32(cfg.AlignRadius), alignRadiusColor)
		rl.DrawCircleLines(x, y, float32(cfg.CohRadius), cohRadiusColor)
	}
}

// DrawNeighborGrid draws the spatial grid cells used for neighbor queries.
func DrawNeighborGrid(cfg config.FlockConfig, width, height int32) {
	cell := math.Max(cfg.SepRadius, math.Max(cfg.AlignRadius, cfg.CohRadius))
	if cell <= 0 {
		return
	}
	for x := 0.0; x <= float64(width); x += cell {
		rl.DrawLine(int32(x), 0, int32(x), height, gridColor)
	}
	for y := 0.0; y <= float64(height); y += cell {
		rl.DrawLine(0, int32(y), width, int32(y), gridColor)
	}
}

// DrawSelection rings the inspected agent.
func DrawSelection(a systems.Agent) {
	r := float32(14 * a.Size)
	rl.DrawCircleLines(int32(a.X), int32(a.Y), r, selectionColor)
	rl.DrawCircleLines(int32(a.X), int32(a.Y), r+3, rl.Fade(selectionColor, 0.4))
}
