package game

import (
	"github.com/pthm-cable/metamorphosis/systems"
)

// selectRadius is how close a right click must land to pick a butterfly.
const selectRadius = 20.0

// selectAt picks the butterfly nearest (x, y), or clears the selection when
// none is within reach.
func (g *Game) selectAt(x, y float64) {
	i, ok := systems.Nearest(g.sim.Agents(), x, y, selectRadius)
	if !ok {
		g.hasSelection = false
		return
	}
	g.selected = g.sim.Agents()[i].Index
	g.hasSelection = true
}

// selectedAgent returns the selected butterfly as of the last step.
func (g *Game) selectedAgent() (systems.Agent, bool) {
	if !g.hasSelection {
		return systems.Agent{}, false
	}
	for _, a := range g.sim.Agents() {
		if a.Index == g.selected {
			return a, true
		}
	}
	return systems.Agent{}, false
}
