package game

import (
	"log/slog"

	"github.com/pthm-cable/metamorphosis/systems"
	"github.com/pthm-cable/metamorphosis/telemetry"
)

// handleEvents logs lifecycle transitions, plays their cues and records
// hatches.
func (g *Game) handleEvents(events []systems.CocoonEvent) {
	for _, ev := range events {
		switch ev.Kind {
		case systems.EventStarted:
			slog.Debug("cocoon started", "slot", ev.Slot, "organism_time", ev.OrganismTime)

		case systems.EventCracked:
			slog.Debug("cocoon cracked", "slot", ev.Slot, "organism_time", ev.OrganismTime)
			if g.cues != nil {
				g.cues.Crack()
			}

		case systems.EventHatched:
			env := g.sim.Env()
			rec := telemetry.HatchRecord{
				Slot:         ev.Slot,
				RealTime:     ev.RealTime,
				OrganismTime: ev.OrganismTime,
				DevRealSec:   ev.DevRealSec,
				Size:         ev.Size,
				Brightness:   env.Smoothed(),
				Day:          env.Day(),
			}
			if g.logStats {
				slog.Info("hatch", "hatch", rec)
			}
			if g.cues != nil {
				g.cues.Hatch(ev.Size)
			}
			g.collector.RecordHatch(ev.Size, ev.DevRealSec)
			if g.outputManager != nil {
				if err := g.outputManager.WriteHatch(rec); err != nil {
					slog.Error("failed to write hatch", "error", err)
				}
			}
		}
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	now := g.sim.Now()
	if !g.collector.ShouldFlush(now) {
		return
	}

	counts := g.sim.CocoonCounts()
	stats := g.collector.Flush(now, telemetry.SceneState{
		OrganismTime: g.sim.Env().OrganismTime(),
		Population:   g.sim.Population(),
		Developing:   counts.Developing,
		Cracked:      counts.Cracked,
		Open:         counts.Open,
	})
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEnd); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}
