package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState is the live scene state shown next to the key bindings.
type ControlsState struct {
	Paused   bool
	Nectar   int  // live nectar points
	Selected int  // spawn index of the inspected butterfly
	Inspect  bool // a butterfly is selected
	Manual   bool // the keyboard light source is active
	Light    float64
}

// ControlRow is one line of the controls panel. Rows with a Header are
// section titles; the rest are key bindings.
type ControlRow struct {
	Header string
	Key    string
	Label  string
	On     bool
	Note   string
}

// ControlRows lists the overlay toggles by category followed by the scene
// bindings, annotated with live state.
func ControlRows(overlays *OverlayRegistry, st ControlsState) []ControlRow {
	var rows []ControlRow
	for _, cat := range overlays.Categories() {
		rows = append(rows, ControlRow{Header: categoryLabel(cat)})
		for _, desc := range overlays.ByCategory(cat) {
			row := ControlRow{Key: desc.KeyLabel, Label: desc.Name, On: overlays.IsEnabled(desc.ID)}
			if desc.ID == OverlayAttractors && st.Inspect {
				row.Note = fmt.Sprintf("#%d", st.Selected)
			}
			rows = append(rows, row)
		}
	}

	rows = append(rows,
		ControlRow{Header: "Scene"},
		ControlRow{Key: "Space", Label: "Pause", On: st.Paused},
		ControlRow{Key: "R", Label: "Restart"},
		ControlRow{Key: "Click", Label: "Drop nectar", On: st.Nectar > 0, Note: fmt.Sprintf("%d live", st.Nectar)},
	)
	inspect := ControlRow{Key: "RClick", Label: "Inspect", On: st.Inspect}
	if st.Inspect {
		inspect.Note = fmt.Sprintf("#%d", st.Selected)
	}
	rows = append(rows, inspect)
	if st.Manual {
		rows = append(rows, ControlRow{Key: "Up/Dn", Label: "Light", On: true, Note: fmt.Sprintf("%.0f", st.Light)})
	}
	return rows
}

// ControlsPanel lists key bindings with their live state.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Height returns the panel height for rows.
func (c *ControlsPanel) Height(rows []ControlRow) int32 {
	t := c.renderer.Theme
	h := t.Padding*2 + t.LineHeight + 4
	for _, row := range rows {
		h += t.LineHeight
		if row.Header != "" {
			h += 4
		}
	}
	return h
}

// Draw renders rows and returns the bottom edge of the panel.
func (c *ControlsPanel) Draw(rows []ControlRow) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	height := c.Height(rows)
	r.DrawPanel(c.x, c.y, c.width, height)

	x := c.x + padding
	y := c.y + padding
	rl.DrawText("Controls", x, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	for _, row := range rows {
		if row.Header != "" {
			y += 4
			rl.DrawText(row.Header, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		} else {
			c.drawRow(x, y, row, c.width-padding*2)
		}
		y += r.Theme.LineHeight
	}

	return c.y + height
}

// drawRow draws a key column, the label and a right-aligned note.
func (c *ControlsPanel) drawRow(x, y int32, row ControlRow, width int32) {
	t := c.renderer.Theme

	keyColor := rl.Color{R: 150, G: 150, B: 150, A: 255}
	labelColor := t.LabelColor
	if row.On {
		keyColor = t.BarFill
		labelColor = t.ValueColor
	}
	rl.DrawText(row.Key, x, y, t.FontSize, keyColor)
	rl.DrawText(row.Label, x+56, y, t.FontSize, labelColor)

	if row.Note != "" {
		w := rl.MeasureText(row.Note, t.FontSize)
		rl.DrawText(row.Note, x+width-w, y, t.FontSize, t.SectionHeader)
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "panels":
		return "Panels"
	case "debug":
		return "Debug"
	}
	return cat
}
