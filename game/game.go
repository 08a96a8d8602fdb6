package game

import (
	"context"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/metamorphosis/audio"
	"github.com/pthm-cable/metamorphosis/config"
	"github.com/pthm-cable/metamorphosis/renderer"
	"github.com/pthm-cable/metamorphosis/scene"
	"github.com/pthm-cable/metamorphosis/sensor"
	"github.com/pthm-cable/metamorphosis/telemetry"
	"github.com/pthm-cable/metamorphosis/ui"
)

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	Mute           bool
	ConfigPath     string // watched for live reloads when WatchConfig is set
	WatchConfig    bool

	Config        *config.Config // nil uses config.Cfg()
	Source        sensor.Source  // nil builds one from Config.Sensor
	StatsCallback func(telemetry.WindowStats)
}

// Game owns the simulation and everything around it: window, panels,
// telemetry, audio and live config.
type Game struct {
	baseCfg *config.Config // config before tuning overrides
	sim     *Simulation
	frame   scene.Frame

	source      sensor.Source
	sourceCfg   config.SensorConfig // sensor section the source was built from
	ownSource   bool                // source built from config rather than passed in
	manual      *sensor.Manual      // non-nil for the keyboard-driven source
	snapshot    *sensor.SnapshotFile
	closeSource func() error
	closers     []func() error
	ctx         context.Context
	cancel      context.CancelFunc
	watcher     *config.Watcher

	// Rendering
	painter *renderer.Painter

	// UI
	uiOverlays  *ui.OverlayRegistry
	hud         *ui.HUD
	perfPanel   *ui.PerfPanel
	controls    *ui.ControlsPanel
	tuningPanel *ui.TuningPanel
	inspector   *ui.Inspector
	tuning      ui.TuningState

	// Selection, by spawn index
	selected     int
	hasSelection bool

	// Telemetry
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool

	cues *audio.Cues

	paused       bool
	screenWidth  int32
	screenHeight int32
}

// NewGameWithOptions creates a game. In graphical mode it must be called
// after the raylib window exists.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	ctx, cancel := context.WithCancel(context.Background())

	g := &Game{
		baseCfg:       cfg,
		ctx:           ctx,
		cancel:        cancel,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		screenWidth:   int32(cfg.Screen.Width),
		screenHeight:  int32(cfg.Screen.Height),
		tuning:        ui.NewTuningState(cfg),
	}

	g.source = opts.Source
	if g.source == nil {
		g.source = g.buildSource(ctx, cfg)
		g.sourceCfg = cfg.Sensor
		g.ownSource = true
	}

	g.sim = NewSimulation(cfg, g.source, opts.Seed)

	// Telemetry
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(cfg.Cocoons.Count, 6)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Screen.TargetFPS)
	g.sim.SetPerf(g.perfCollector)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	} else if om != nil {
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	if opts.WatchConfig && opts.ConfigPath != "" {
		g.startWatcher(ctx, opts.ConfigPath)
	}

	if opts.Headless {
		return g
	}

	g.cues = audio.NewCues(cfg.Audio, cfg.Adult)
	if wantAudio(cfg, opts.Mute) {
		if err := g.cues.Init(); err != nil {
			slog.Warn("audio unavailable", "error", err)
		}
	}

	g.painter = renderer.NewPainter(renderer.LoadAssets(cfg.Render), g.screenWidth, g.screenHeight)

	g.uiOverlays = ui.NewOverlayRegistry()
	g.uiOverlays.SetEnabled(ui.OverlayHUD, true)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(0, 0)
	g.controls = ui.NewControlsPanel(230, panelMargin, 220)
	g.tuningPanel = ui.NewTuningPanel(tuningWidth)
	g.inspector = ui.NewInspector(0, 0, 220)

	return g
}

// wantAudio reports whether cues should open the speaker.
func wantAudio(cfg *config.Config, mute bool) bool {
	return cfg.Audio.Enabled && !mute
}

// buildSource creates the configured brightness source. A file source that
// cannot be opened falls back to the synthetic cycle.
func (g *Game) buildSource(ctx context.Context, cfg *config.Config) sensor.Source {
	sc := cfg.Sensor
	g.manual = nil
	g.snapshot = nil
	switch sc.Source {
	case config.SourceSteady:
		return sensor.NewSteady(sc.Width, sc.Height, sc.SteadyLuma)
	case config.SourceManual:
		g.manual = sensor.NewManual(sc.Width, sc.Height, cfg.Environment.InitialBrightness, sc.ManualStep)
		return g.manual
	case config.SourceFile:
		f, err := sensor.NewSnapshotFile(sc.File, sc.Width, sc.Height)
		if err == nil {
			err = f.Start(ctx)
		}
		if err != nil {
			slog.Error("sensor file unavailable, using synthetic light", "path", sc.File, "error", err)
			break
		}
		g.snapshot = f
		g.closeSource = f.Close
		return f
	}
	return sensor.NewSynthetic(sc.Width, sc.Height, sc.CyclePeriod, sc.CycleLow, sc.CycleHigh)
}

func (g *Game) startWatcher(ctx context.Context, path string) {
	w, err := config.NewWatcher(path)
	if err != nil {
		slog.Error("config watcher unavailable", "error", err)
		return
	}
	if err := w.Start(ctx); err != nil {
		slog.Error("config watcher failed to start", "error", err)
		w.Close()
		return
	}
	g.watcher = w
	g.closers = append(g.closers, w.Close)
}

// pollConfig applies a reloaded config file, if one is waiting. Sensor,
// screen and cocoon layout changes take effect on the next restart.
func (g *Game) pollConfig() {
	if g.watcher == nil {
		return
	}
	select {
	case cfg := <-g.watcher.Updates():
		override, on := g.tuning.BrightnessOverride()
		g.baseCfg = cfg
		g.tuning = ui.NewTuningState(cfg)
		g.tuning.Override = on
		g.tuning.Brightness = float32(override)
		g.sim.ApplyConfig(cfg)
		config.Set(cfg)
		slog.Info("config reloaded")
	default:
	}
}

// applyTuning pushes the tuning panel values into the simulation.
func (g *Game) applyTuning() {
	g.sim.ApplyConfig(g.tuning.Apply(g.baseCfg))
	luma, on := g.tuning.BrightnessOverride()
	g.sim.SetBrightnessOverride(luma, on)
}

// Update runs one frame in graphical mode.
func (g *Game) Update() {
	g.perfCollector.StartTick()
	g.pollConfig()
	g.handleInput()

	if !g.paused {
		g.step(float64(rl.GetFrameTime()))
	}
	g.sim.Frame(&g.frame)
}

// UpdateHeadless runs one frame at the target rate without raylib.
func (g *Game) UpdateHeadless() {
	g.perfCollector.StartTick()
	g.pollConfig()
	g.step(1 / float64(g.baseCfg.Screen.TargetFPS))
	g.perfCollector.EndTick()
}

// step advances the simulation and routes its events to audio and telemetry.
func (g *Game) step(dt float64) {
	events := g.sim.Step(dt)
	g.handleEvents(events)

	env := g.sim.Env()
	g.collector.RecordFrame(env.Smoothed(), env.Day(), env.GrowthRate(), env.IsDay())
	g.flushTelemetry()
}

// closeCurrentSource stops a file-backed source, if one is running.
func (g *Game) closeCurrentSource() {
	if g.closeSource == nil {
		return
	}
	if err := g.closeSource(); err != nil {
		slog.Warn("closing light source", "error", err)
	}
	g.closeSource = nil
}

// restartSource rebuilds the light source when a config reload changed the
// sensor section since it was built.
func (g *Game) restartSource() {
	if !g.ownSource || g.baseCfg.Sensor == g.sourceCfg {
		return
	}
	g.closeCurrentSource()
	g.source = g.buildSource(g.ctx, g.baseCfg)
	g.sourceCfg = g.baseCfg.Sensor
	g.sim.SetSource(g.source)
	slog.Info("light source rebuilt", "source", g.baseCfg.Sensor.Source)
}

// Restart rebuilds the scene from the same seed and restarts telemetry.
// A changed sensor section takes effect here.
func (g *Game) Restart() {
	g.restartSource()
	g.sim.Reset()
	g.collector.Reset(0)
	g.bookmarkDetector.Reset()
	g.hasSelection = false
	slog.Info("scene restarted", "seed", g.sim.Seed())
}

// Draw renders the frame computed by the last Update.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()
	g.perfCollector.StartPhase(telemetry.PhasePaint)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.painter.Paint(&g.frame)
	g.drawActiveOverlays()
	g.drawUI()

	rl.EndDrawing()
	g.perfCollector.EndTick()
}

// Unload releases all resources.
func (g *Game) Unload() {
	g.cancel()
	g.closeCurrentSource()
	for _, c := range g.closers {
		if err := c(); err != nil {
			slog.Warn("close failed", "error", err)
		}
	}
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
	if g.cues != nil {
		g.cues.Close()
	}
	if g.painter != nil {
		g.painter.Unload()
	}
}

// Tick returns how many frames have been simulated since the last restart.
func (g *Game) Tick() int64 {
	return g.sim.Frames()
}

// Sim returns the underlying simulation.
func (g *Game) Sim() *Simulation {
	return g.sim
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}
