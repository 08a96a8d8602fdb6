package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/metamorphosis/config"
	"github.com/pthm-cable/metamorphosis/ui"
)

const (
	tuningWidth = 260
	panelMargin = 10
)

const controlsLegend = "[Click] Nectar  [RClick] Inspect  [Space] Pause  [R] Restart  [Tab] Tuning  [O] Overlays  [F11] Fullscreen"

// drawUI renders the panels on top of the painted scene.
func (g *Game) drawUI() {
	bottom := int32(panelMargin)
	if g.uiOverlays.IsEnabled(ui.OverlayHUD) {
		bottom = g.hud.Draw(g.hudData(), g.screenWidth, g.screenHeight)
	}

	if g.controls.IsVisible() {
		g.controls.Draw(ui.ControlRows(g.uiOverlays, g.controlsState()))
	}

	if g.uiOverlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.SetPosition(g.screenWidth-230, panelMargin)
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	if g.uiOverlays.IsEnabled(ui.OverlayTuning) {
		x, y := g.tuningOrigin()
		changed, action := g.tuningPanel.Draw(&g.tuning, g.paused, x, y)
		if changed {
			g.applyTuning()
		}
		g.handleTuningAction(action)
	}

	if a, ok := g.selectedAgent(); ok {
		data := ui.InspectorData{
			Agent:    a,
			Now:      g.sim.Now(),
			Target:   g.sim.Field().AttractorFor(a.X, a.Y),
			MaxSpeed: g.sim.Config().Flock.MaxSpeed,
		}
		g.inspector.SetPosition(panelMargin, bottom+panelMargin)
		g.inspector.Draw(data)
	}

	g.hud.DrawControls(g.screenHeight, controlsLegend)
}

// tuningOrigin returns the top-left corner of the tuning panel.
func (g *Game) tuningOrigin() (float32, float32) {
	return float32(g.screenWidth - tuningWidth - panelMargin), float32(g.screenHeight-g.tuningPanel.Height()) - 30
}

// controlsState gathers the live values shown beside the key bindings.
func (g *Game) controlsState() ui.ControlsState {
	st := ui.ControlsState{
		Paused: g.paused,
		Nectar: g.sim.Field().Len(),
	}
	if _, ok := g.selectedAgent(); ok {
		st.Inspect = true
		st.Selected = g.selected
	}
	if g.manual != nil {
		st.Manual = true
		st.Light = g.manual.Luma()
	}
	return st
}

// hudData gathers the readout shown by the HUD.
func (g *Game) hudData() ui.HUDData {
	s := g.sim
	env := s.Env()
	counts := s.CocoonCounts()

	_, override := g.tuning.BrightnessOverride()
	decodeErrors := 0
	if g.snapshot != nil {
		decodeErrors = g.snapshot.DecodeErrors()
	}
	sensor := sensorLabel(s.Config().Sensor.Source, override, s.Adapter().Fresh(), decodeErrors)

	return ui.HUDData{
		Sensor:             sensor,
		Integration:        integrationLabel(s.Config()),
		RawBrightness:      env.Raw(),
		SmoothedBrightness: env.Smoothed(),
		Day:                env.Day(),
		IsDay:              env.IsDay(),
		GrowthRate:         env.GrowthRate(),
		OrganismTime:       env.OrganismTime(),
		SceneTime:          s.Now(),
		Cocoons:            len(s.Cocoons()),
		Dormant:            counts.Dormant,
		Developing:         counts.Developing,
		Cracked:            counts.Cracked,
		Open:               counts.Open,
		Population:         s.Population(),
		Nectar:             s.Field().Len(),
		FPS:                rl.GetFPS(),
		Paused:             g.paused,
	}
}

// sensorLabel names the light source for the HUD.
func sensorLabel(source string, override, fresh bool, decodeErrors int) string {
	if override {
		return "override"
	}
	label := source
	if !fresh {
		label += " (stale)"
	}
	if decodeErrors > 0 {
		label += fmt.Sprintf(" %d bad", decodeErrors)
	}
	return label
}

func integrationLabel(cfg *config.Config) string {
	if cfg.Flock.Integration == config.IntegrationScaled {
		return fmt.Sprintf("scaled @%.0f", cfg.Flock.ReferenceFPS)
	}
	return "per frame"
}
