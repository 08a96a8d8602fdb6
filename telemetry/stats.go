package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStart  float64 `csv:"-"`
	WindowEnd    float64 `csv:"window_end"`
	Frames       int     `csv:"frames"`
	OrganismTime float64 `csv:"organism_time"`

	// Environment over the window
	BrightnessMean float64 `csv:"brightness_mean"`
	BrightnessMin  float64 `csv:"brightness_min"`
	BrightnessMax  float64 `csv:"brightness_max"`
	DayMean        float64 `csv:"day_mean"`
	DayFraction    float64 `csv:"day_fraction"` // share of frames above the day threshold
	GrowthMean     float64 `csv:"growth_mean"`

	// Population at window end
	Population int `csv:"population"`
	Developing int `csv:"developing"`
	Cracked    int `csv:"cracked"`
	Open       int `csv:"open"`

	// Hatches during window
	Hatches  int     `csv:"hatches"`
	SizeMean float64 `csv:"size_mean"`
	SizeStd  float64 `csv:"size_std"`
	SizeMin  float64 `csv:"size_min"`
	SizeMax  float64 `csv:"size_max"`
	DevMean  float64 `csv:"dev_mean"`

	NectarPlaced int `csv:"nectar_placed"`
}

// Summary describes a sample of values.
type Summary struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
	P50  float64
}

// Summarize computes mean, standard deviation, range and median.
// An empty sample summarizes to zeros; a single value has zero spread.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Mean: stat.Mean(sorted, nil),
		Min:  floats.Min(sorted),
		Max:  floats.Max(sorted),
		P50:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	if n > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("window_start", s.WindowStart),
		slog.Float64("window_end", s.WindowEnd),
		slog.Int("frames", s.Frames),
		slog.Float64("organism_time", s.OrganismTime),
		slog.Float64("brightness_mean", s.BrightnessMean),
		slog.Float64("day_mean", s.DayMean),
		slog.Float64("day_fraction", s.DayFraction),
		slog.Float64("growth_mean", s.GrowthMean),
		slog.Int("population", s.Population),
		slog.Int("open", s.Open),
		slog.Int("hatches", s.Hatches),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("size_std", s.SizeStd),
		slog.Int("nectar_placed", s.NectarPlaced),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEnd,
		"frames", s.Frames,
		"organism_time", s.OrganismTime,
		"brightness_mean", s.BrightnessMean,
		"brightness_min", s.BrightnessMin,
		"brightness_max", s.BrightnessMax,
		"day_mean", s.DayMean,
		"day_fraction", s.DayFraction,
		"growth_mean", s.GrowthMean,
		"population", s.Population,
		"developing", s.Developing,
		"cracked", s.Cracked,
		"open", s.Open,
		"hatches", s.Hatches,
		"size_mean", s.SizeMean,
		"size_std", s.SizeStd,
		"size_min", s.SizeMin,
		"size_max", s.SizeMax,
		"dev_mean", s.DevMean,
		"nectar_placed", s.NectarPlaced,
	)
}
