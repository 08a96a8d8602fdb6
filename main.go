package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/metamorphosis/config"
	"github.com/pthm-cable/metamorphosis/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N frames (0 = unlimited)")
	sensorSource := flag.String("sensor", "", "Light source: synthetic, steady, manual or file (empty = use config)")
	sensorFile := flag.String("sensor-file", "", "Snapshot image for the file light source")
	brightness := flag.Float64("brightness", -1, "Luma for the steady light source, 0-255 (-1 = use config)")
	assetsDir := flag.String("assets", "", "Sprite directory (empty = use config)")
	mute := flag.Bool("mute", false, "Disable audio cues")
	watchConfig := flag.Bool("watch-config", false, "Reload -config when the file changes")
	integration := flag.String("integration", "", "Movement integration: frame or scaled (empty = use config)")
	debug := flag.Bool("debug", false, "Log lifecycle events at debug level")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// CLI overrides
	if *sensorSource != "" {
		cfg.Sensor.Source = *sensorSource
	}
	if *sensorFile != "" {
		cfg.Sensor.File = *sensorFile
		if *sensorSource == "" {
			cfg.Sensor.Source = config.SourceFile
		}
	}
	if *brightness >= 0 {
		cfg.Sensor.SteadyLuma = *brightness
		if *sensorSource == "" {
			cfg.Sensor.Source = config.SourceSteady
		}
	}
	if *assetsDir != "" {
		cfg.Render.AssetsDir = *assetsDir
	}
	if *integration != "" {
		cfg.Flock.Integration = *integration
	}
	if *mute {
		cfg.Audio.Enabled = false
	}
	if err := cfg.Revalidate(); err != nil {
		slog.Error("invalid flags", "error", err)
		os.Exit(1)
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Build game options
	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Headless:       *headless,
		Mute:           *mute,
		ConfigPath:     *configPath,
		WatchConfig:    *watchConfig,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g := game.NewGameWithOptions(opts)
		defer g.Unload()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"sensor", cfg.Sensor.Source,
			"integration", cfg.Flock.Integration,
			"max_ticks", *maxTicks,
		)

		for {
			g.UpdateHeadless()

			if *maxTicks > 0 && g.Tick() >= int64(*maxTicks) {
				slog.Info("max ticks reached", "tick", g.Tick(), "population", g.Sim().Population())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(0)

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"sensor", cfg.Sensor.Source,
		"integration", cfg.Flock.Integration,
	)

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && g.Tick() >= int64(*maxTicks) {
			break
		}
	}
}
