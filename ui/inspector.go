package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/metamorphosis/systems"
)

// InspectorData holds the selected butterfly and what it is following.
type InspectorData struct {
	Agent    systems.Agent
	Now      float64 // wall-clock seconds, for age
	Target   systems.Attractor
	MaxSpeed float64 // speed cap for the heading arrow length
}

// Age returns seconds since the butterfly hatched.
func (d *InspectorData) Age() float64 {
	return math.Max(0, d.Now-d.Agent.BornAt)
}

// TargetDistance returns the distance to the followed attractor.
func (d *InspectorData) TargetDistance() float64 {
	return math.Hypot(d.Target.X-d.Agent.X, d.Target.Y-d.Agent.Y)
}

// Inspector renders the butterfly inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
	sections []SectionDescriptor
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		sections: inspectorSections(),
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Height returns the panel height for data.
func (ins *Inspector) Height(data InspectorData) int32 {
	pd := PanelDescriptor{Sections: ins.sections}
	return ins.renderer.PanelHeight(pd, &data) + previewHeight + 8 + ins.renderer.Theme.LineHeight + 6
}

const previewHeight = 70

// Draw renders the inspector panel and returns its bottom edge.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	height := ins.Height(data)

	r.DrawPanel(ins.x, ins.y, ins.width, height)

	contentWidth := ins.width - padding*2
	x := ins.x + padding
	y := ins.y + padding

	y = ins.drawPreview(x, y, contentWidth, data)
	y = r.DrawSpacer(y, 8)

	rl.DrawText(fmt.Sprintf("Butterfly #%d", data.Agent.Index), x, y, 16, rl.Color{R: 200, G: 180, B: 255, A: 255})
	y += r.Theme.LineHeight + 6

	for _, sd := range ins.sections {
		y = r.DrawSection(x, y, sd, &data, contentWidth)
	}
	return ins.y + height
}

// drawPreview shows the heading and velocity as an arrow in a small box.
func (ins *Inspector) drawPreview(x, y, width int32, data InspectorData) int32 {
	rl.DrawRectangle(x, y, width, previewHeight, rl.Color{R: 25, G: 30, B: 35, A: 255})
	rl.DrawRectangleLinesEx(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: previewHeight}, 1, rl.Color{R: 50, G: 60, B: 70, A: 255})

	cx := float32(x) + float32(width)/2
	cy := float32(y) + previewHeight/2
	a := data.Agent

	frac := float32(1)
	if data.MaxSpeed > 0 {
		frac = float32(math.Min(1, a.Speed()/data.MaxSpeed))
	}
	length := 8 + 20*frac
	sin, cos := math.Sincos(a.Heading)
	tip := rl.Vector2{X: cx + float32(cos)*length, Y: cy + float32(sin)*length}
	rl.DrawLineEx(rl.Vector2{X: cx, Y: cy}, tip, 2, rl.Color{R: 255, G: 220, B: 120, A: 255})
	rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, float32(3*a.Size), rl.Color{R: 100, G: 80, B: 220, A: 255})

	// Attractor direction as a faint line to the panel edge
	dx, dy := data.Target.X-a.X, data.Target.Y-a.Y
	if d := math.Hypot(dx, dy); d > 0 {
		edge := float32(previewHeight/2 - 4)
		end := rl.Vector2{X: cx + float32(dx/d)*edge, Y: cy + float32(dy/d)*edge}
		rl.DrawLineV(rl.Vector2{X: cx, Y: cy}, end, rl.Color{R: 255, G: 255, B: 255, A: 60})
	}

	return y + previewHeight
}

func inspected(d any) *InspectorData { return d.(*InspectorData) }

func inspectorSections() []SectionDescriptor {
	return []SectionDescriptor{
		{
			ID:    "motion",
			Title: "Motion",
			Fields: []FieldDescriptor{
				{ID: "pos", Label: "Position", Widget: WidgetText, TextGetter: func(d any) string {
					a := inspected(d).Agent
					return fmt.Sprintf("%.0f, %.0f", a.X, a.Y)
				}},
				{ID: "speed", Label: "Speed", Widget: WidgetText, Format: "%.2f", Getter: func(d any) float32 {
					return float32(inspected(d).Agent.Speed())
				}},
				{ID: "heading", Label: "Heading", Widget: WidgetText, Format: "%.0f deg", Getter: func(d any) float32 {
					return float32(inspected(d).Agent.Heading * 180 / math.Pi)
				}},
			},
		},
		{
			ID:    "life",
			Title: "Life",
			Fields: []FieldDescriptor{
				{ID: "size", Label: "Size", Widget: WidgetText, Format: "%.2f", Getter: func(d any) float32 {
					return float32(inspected(d).Agent.Size)
				}},
				{ID: "dev", Label: "Developed", Widget: WidgetText, Format: "%.1fs", Getter: func(d any) float32 {
					return float32(inspected(d).Agent.DevRealSec)
				}},
				{ID: "age", Label: "Age", Widget: WidgetText, Format: "%.1fs", Getter: func(d any) float32 {
					return float32(inspected(d).Age())
				}},
				{ID: "slot", Label: "Cocoon", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
					return float32(inspected(d).Agent.Slot)
				}},
			},
		},
		{
			ID:    "target",
			Title: "Following",
			Fields: []FieldDescriptor{
				{ID: "kind", Label: "Attractor", Widget: WidgetText, TextGetter: func(d any) string {
					if inspected(d).Target.Nectar {
						return "nectar"
					}
					return "light"
				}},
				{ID: "dist", Label: "Distance", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
					return float32(inspected(d).TargetDistance())
				}},
				{ID: "pull", Label: "Pull", Widget: WidgetText, Format: "%.4f", Getter: func(d any) float32 {
					return float32(inspected(d).Target.Pull)
				}},
			},
		},
	}
}
