package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/metamorphosis/config"
	"gopkg.in/yaml.v3"
)

// TuningState holds the live-tunable parameters shown by the tuning panel.
type TuningState struct {
	Override    bool    // brightness override active
	Brightness  float32 // override level, 0..255
	NectarLife  float32
	SepWeight   float32
	AlignWeight float32
	CohWeight   float32
	HaloScale   float32
}

// NewTuningState seeds the panel from cfg.
func NewTuningState(cfg *config.Config) TuningState {
	return TuningState{
		Brightness:  float32(cfg.Environment.InitialBrightness),
		NectarLife:  float32(cfg.Nectar.Life),
		SepWeight:   float32(cfg.Flock.SepWeight),
		AlignWeight: float32(cfg.Flock.AlignWeight),
		CohWeight:   float32(cfg.Flock.CohWeight),
		HaloScale:   float32(cfg.Render.PointerHaloScale),
	}
}

// Apply returns a copy of cfg with the tuned values written in.
func (t TuningState) Apply(cfg *config.Config) *config.Config {
	out := *cfg
	out.Nectar.Life = float64(t.NectarLife)
	out.Flock.SepWeight = float64(t.SepWeight)
	out.Flock.AlignWeight = float64(t.AlignWeight)
	out.Flock.CohWeight = float64(t.CohWeight)
	out.Render.PointerHaloScale = float64(t.HaloScale)
	return &out
}

// BrightnessOverride returns the override level and whether it is active.
func (t TuningState) BrightnessOverride() (float64, bool) {
	return float64(t.Brightness), t.Override
}

// tunedSections is the subset of config the panel edits, for clipboard export.
type tunedSections struct {
	Nectar config.NectarConfig `yaml:"nectar"`
	Flock  config.FlockConfig  `yaml:"flock"`
	Render struct {
		PointerHaloScale float64 `yaml:"pointer_halo_scale"`
	} `yaml:"render"`
}

// TuningYAML renders the tuned sections of cfg as a config fragment that
// can be pasted into a config file.
func TuningYAML(cfg *config.Config) (string, error) {
	var ts tunedSections
	ts.Nectar = cfg.Nectar
	ts.Flock = cfg.Flock
	ts.Render.PointerHaloScale = cfg.Render.PointerHaloScale

	data, err := yaml.Marshal(ts)
	if err != nil {
		return "", fmt.Errorf("marshaling tuning: %w", err)
	}
	return string(data), nil
}

// TuningAction is a button press reported by the tuning panel.
type TuningAction int

const (
	TuningNone TuningAction = iota
	TuningPause
	TuningRestart
	TuningCopy
)

// slider describes one slider row.
type slider struct {
	label    string
	value    *float32
	min, max float32
	format   string
}

// TuningPanel draws raygui sliders over a TuningState.
type TuningPanel struct {
	renderer *Renderer
	width    float32
}

// NewTuningPanel creates a tuning panel of the given width.
func NewTuningPanel(width float32) *TuningPanel {
	return &TuningPanel{
		renderer: NewRenderer(),
		width:    width,
	}
}

// Height returns the panel height in pixels.
func (p *TuningPanel) Height() int32 {
	// title, override button, six sliders, two button rows
	return 8 + 22 + 30 + 6*34 + 2*32 + 8
}

// Draw renders the panel at (x, y), writing slider changes into st. It
// reports whether any value changed and which button, if any, was pressed.
func (p *TuningPanel) Draw(st *TuningState, paused bool, x, y float32) (bool, TuningAction) {
	r := p.renderer
	r.DrawPanel(int32(x), int32(y), int32(p.width), p.Height())

	px := x + 8
	py := y + 8
	inner := p.width - 16
	changed := false
	action := TuningNone

	rl.DrawText("Tuning", int32(px), int32(py), 14, rl.White)
	py += 22

	if gui.Button(rl.Rectangle{X: px, Y: py, Width: inner, Height: 22}, toggleText(st.Override, "Light override: on", "Light override: off")) {
		st.Override = !st.Override
		changed = true
	}
	py += 30

	sliders := []slider{
		{"Brightness", &st.Brightness, 0, 255, "%.0f"},
		{"Nectar life", &st.NectarLife, 1, 30, "%.1fs"},
		{"Separation", &st.SepWeight, 0, 4, "%.2f"},
		{"Alignment", &st.AlignWeight, 0, 4, "%.2f"},
		{"Cohesion", &st.CohWeight, 0, 4, "%.2f"},
		{"Pointer halo", &st.HaloScale, 0.1, 2, "%.2f"},
	}
	for _, s := range sliders {
		rl.DrawText(s.label, int32(px), int32(py), 11, r.Theme.LabelColor)
		rl.DrawText(fmt.Sprintf(s.format, *s.value), int32(px+inner-40), int32(py), 11, r.Theme.ValueColor)
		py += 14
		v := gui.SliderBar(rl.Rectangle{X: px, Y: py, Width: inner, Height: 14}, "", "", *s.value, s.min, s.max)
		if v != *s.value {
			*s.value = v
			changed = true
		}
		py += 20
	}

	half := (inner - 8) / 2
	if gui.Button(rl.Rectangle{X: px, Y: py, Width: half, Height: 24}, toggleText(paused, "Resume", "Pause")) {
		action = TuningPause
	}
	if gui.Button(rl.Rectangle{X: px + half + 8, Y: py, Width: half, Height: 24}, "Restart") {
		action = TuningRestart
	}
	py += 32

	if gui.Button(rl.Rectangle{X: px, Y: py, Width: inner, Height: 24}, "Copy YAML") {
		action = TuningCopy
	}

	return changed, action
}

// CopyTuning puts the tuned config fragment on the clipboard.
func CopyTuning(cfg *config.Config) error {
	text, err := TuningYAML(cfg)
	if err != nil {
		return err
	}
	rl.SetClipboardText(text)
	return nil
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
