package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/metamorphosis/telemetry"
)

// HUDData holds everything the scene readout shows.
type HUDData struct {
	Sensor      string
	Integration string

	RawBrightness      float64
	SmoothedBrightness float64
	Day                float64
	IsDay              bool
	GrowthRate         float64
	OrganismTime       float64
	SceneTime          float64

	Cocoons    int
	Dormant    int
	Developing int
	Cracked    int
	Open       int
	Population int
	Nectar     int

	FPS    int32
	Paused bool
}

// HUD renders the scene readout panel.
type HUD struct {
	renderer *Renderer
	panel    PanelDescriptor
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		panel:    hudPanel(),
	}
}

// Panel returns the HUD layout.
func (h *HUD) Panel() PanelDescriptor {
	return h.panel
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData, screenW, screenH int32) int32 {
	return h.renderer.DrawPanelDescriptor(h.panel, &data, screenW, screenH)
}

// DrawControls renders the key legend along the bottom edge.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-20, 10, rl.Color{R: 40, G: 40, B: 50, A: 200})
}

func hud(d any) *HUDData { return d.(*HUDData) }

func hudPanel() PanelDescriptor {
	return PanelDescriptor{
		ID:     "hud",
		Title:  "Metamorphosis",
		Width:  210,
		Anchor: AnchorTopLeft,
		Sections: []SectionDescriptor{
			{
				ID:    "light",
				Title: "Light",
				Fields: []FieldDescriptor{
					{ID: "sensor", Label: "Sensor", Widget: WidgetText, TextGetter: func(d any) string {
						return hud(d).Sensor
					}},
					{ID: "raw", Label: "Raw", Widget: WidgetBar, Format: "%.0f", Range: FieldRange{Max: 255}, Getter: func(d any) float32 {
						return float32(hud(d).RawBrightness)
					}},
					{ID: "smoothed", Label: "Smoothed", Widget: WidgetBar, Format: "%.0f", Range: FieldRange{Max: 255}, Getter: func(d any) float32 {
						return float32(hud(d).SmoothedBrightness)
					}},
					{ID: "day", Label: "Day", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float32 {
						return float32(hud(d).Day)
					}},
					{ID: "phase", Label: "Phase", Widget: WidgetText, TextGetter: func(d any) string {
						if hud(d).IsDay {
							return "day"
						}
						return "night"
					}},
				},
			},
			{
				ID:    "clock",
				Title: "Clock",
				Fields: []FieldDescriptor{
					{ID: "growth", Label: "Growth", Widget: WidgetText, Format: "%.2fx", Getter: func(d any) float32 {
						return float32(hud(d).GrowthRate)
					}},
					{ID: "organism", Label: "Organism", Widget: WidgetText, Format: "%.1fs", Getter: func(d any) float32 {
						return float32(hud(d).OrganismTime)
					}},
					{ID: "scene", Label: "Scene", Widget: WidgetText, Format: "%.1fs", Getter: func(d any) float32 {
						return float32(hud(d).SceneTime)
					}},
					{ID: "integration", Label: "Steps", Widget: WidgetText, TextGetter: func(d any) string {
						return hud(d).Integration
					}},
				},
			},
			{
				ID:    "cocoons",
				Title: "Cocoons",
				Fields: []FieldDescriptor{
					{ID: "states", Label: "D/G/C/O", Widget: WidgetText, TextGetter: func(d any) string {
						h := hud(d)
						return fmt.Sprintf("%d/%d/%d/%d", h.Dormant, h.Developing, h.Cracked, h.Open)
					}},
					{ID: "progress", Label: "Progress", Widget: WidgetBar, Format: "%.0f%%", Range: FieldRange{Max: 100}, Getter: func(d any) float32 {
						h := hud(d)
						return float32(100 * float64(h.Open) / float64(h.Cocoons))
					}, Visible: func(d any) bool {
						return hud(d).Cocoons > 0
					}},
				},
			},
			{
				ID:    "scene",
				Title: "Scene",
				Fields: []FieldDescriptor{
					{ID: "population", Label: "Butterflies", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
						return float32(hud(d).Population)
					}},
					{ID: "nectar", Label: "Nectar", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
						return float32(hud(d).Nectar)
					}},
					{ID: "fps", Label: "FPS", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
						return float32(hud(d).FPS)
					}},
					{ID: "status", Label: "Status", Widget: WidgetText, TextGetter: func(d any) string {
						if hud(d).Paused {
							return "PAUSED"
						}
						return "running"
					}},
				},
			},
		},
	}
}

// PerfPanel renders per-phase tick timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	width := int32(220)
	height := r.Theme.Padding*2 + 36 + int32(len(telemetry.Phases))*14
	r.DrawPanel(p.x, p.y, width, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding

	rl.DrawText("Frame Timing", x, y, 14, rl.White)
	y += 18

	rl.DrawText(fmt.Sprintf("Tick: %s  FPS: %.0f", stats.AvgTickDuration.Round(time.Microsecond), stats.FPS), x, y, 11, rl.Yellow)
	y += 18

	for _, phase := range telemetry.Phases {
		avg := stats.PhaseAvg[phase]
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, avg.Round(time.Microsecond), pct),
			x, y, 11, color,
		)
		y += 14
	}
}
