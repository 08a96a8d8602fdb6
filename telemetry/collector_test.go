package telemetry

import (
	"math"
	"testing"
)

func TestCollector_FlushWindow(t *testing.T) {
	c := NewCollector(10)

	if c.ShouldFlush(9.99) {
		t.Error("window should not flush before its duration")
	}
	if !c.ShouldFlush(10) {
		t.Error("window should flush at its duration")
	}

	c.RecordFrame(100, 0.4, 1.16, false)
	c.RecordFrame(120, 0.5, 1.3, true)
	c.RecordFrame(140, 0.6, 1.44, true)
	c.RecordFrame(160, 0.7, 1.58, true)
	c.RecordHatch(1.0, 10)
	c.RecordHatch(1.4, 30)
	c.RecordNectar()

	stats := c.Flush(10, SceneState{OrganismTime: 14, Population: 2, Open: 2, Developing: 1})

	if stats.Frames != 4 {
		t.Errorf("Frames = %d, want 4", stats.Frames)
	}
	if math.Abs(stats.BrightnessMean-130) > 1e-9 || stats.BrightnessMin != 100 || stats.BrightnessMax != 160 {
		t.Errorf("brightness = mean %v min %v max %v", stats.BrightnessMean, stats.BrightnessMin, stats.BrightnessMax)
	}
	if math.Abs(stats.DayFraction-0.75) > 1e-9 {
		t.Errorf("DayFraction = %v, want 0.75", stats.DayFraction)
	}
	if stats.Hatches != 2 || math.Abs(stats.SizeMean-1.2) > 1e-9 || math.Abs(stats.DevMean-20) > 1e-9 {
		t.Errorf("hatches = %d size %v dev %v", stats.Hatches, stats.SizeMean, stats.DevMean)
	}
	if stats.NectarPlaced != 1 || stats.Population != 2 || stats.OrganismTime != 14 {
		t.Errorf("stats = %+v", stats)
	}

	// Next window starts where the last one ended
	if c.ShouldFlush(15) {
		t.Error("second window flushed early")
	}
	next := c.Flush(20, SceneState{})
	if next.WindowStart != 10 || next.Frames != 0 || next.Hatches != 0 || next.NectarPlaced != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestCollector_DefaultWindow(t *testing.T) {
	if got := NewCollector(0).WindowDurationSec(); got != 10 {
		t.Errorf("default window = %v, want 10", got)
	}
}
