package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/metamorphosis/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	if rl.IsKeyPressed(rl.KeyR) {
		g.Restart()
	}

	// Manual light source
	if g.manual != nil {
		if rl.IsKeyDown(rl.KeyUp) {
			g.manual.Nudge(1)
		}
		if rl.IsKeyDown(rl.KeyDown) {
			g.manual.Nudge(-1)
		}
	}

	g.handleOverlayKeys()

	mouse := rl.GetMousePosition()
	if g.overPanel(mouse) {
		return
	}

	g.sim.SetPointer(float64(mouse.X), float64(mouse.Y))

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		g.sim.QueuePress(float64(mouse.X), float64(mouse.Y))
		g.collector.RecordNectar()
	}
	if rl.IsMouseButtonPressed(rl.MouseRightButton) {
		g.selectAt(float64(mouse.X), float64(mouse.Y))
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	if g.painter != nil {
		g.painter.Resize(w, h)
	}
}

// overPanel reports whether the mouse is over the tuning panel, so that
// slider drags do not also drop nectar.
func (g *Game) overPanel(mouse rl.Vector2) bool {
	if !g.uiOverlays.IsEnabled(ui.OverlayTuning) {
		return false
	}
	x, y := g.tuningOrigin()
	rect := rl.Rectangle{X: x, Y: y, Width: tuningWidth, Height: float32(g.tuningPanel.Height())}
	return rl.CheckCollisionPointRec(mouse, rect)
}

// handleTuningAction applies a button press from the tuning panel.
func (g *Game) handleTuningAction(action ui.TuningAction) {
	switch action {
	case ui.TuningPause:
		g.paused = !g.paused
	case ui.TuningRestart:
		g.Restart()
	case ui.TuningCopy:
		if err := ui.CopyTuning(g.sim.Config()); err != nil {
			slog.Error("failed to copy tuning", "error", err)
			return
		}
		slog.Info("tuning copied to clipboard")
	}
}
