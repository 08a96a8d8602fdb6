package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/metamorphosis/renderer"
	"github.com/pthm-cable/metamorphosis/ui"
)

// handleOverlayKeys drains pressed keys and toggles matching overlays.
func (g *Game) handleOverlayKeys() {
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, on, ok := g.uiOverlays.HandleKeyPress(key); ok {
			slog.Debug("overlay toggled", "overlay", id, "enabled", on)
		}
	}
	// Exclusive overlays may switch the controls panel off too.
	g.controls.SetVisible(g.uiOverlays.IsEnabled(ui.OverlayControls))
}

// drawActiveOverlays renders the enabled debug overlays on top of the scene.
func (g *Game) drawActiveOverlays() {
	for _, id := range g.uiOverlays.EnabledOverlays() {
		switch id {
		case ui.OverlayAttractors:
			renderer.DrawAttractorLines(g.sim.Agents(), g.sim.Field())
		case ui.OverlayNeighbors:
			renderer.DrawFlockRadii(g.sim.Agents(), g.sim.Config().Flock)
		case ui.OverlayGrid:
			renderer.DrawNeighborGrid(g.sim.Config().Flock, g.screenWidth, g.screenHeight)
		// Panels are drawn by drawUI
		}
	}

	if a, ok := g.selectedAgent(); ok {
		renderer.DrawSelection(a)
	}
}
