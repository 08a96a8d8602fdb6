// Package telemetry provides scene health tracking, milestones and CSV output.
package telemetry

import "log/slog"

// HatchRecord is one row of hatches.csv.
type HatchRecord struct {
	Slot         int     `csv:"slot"`
	RealTime     float64 `csv:"real_time"`
	OrganismTime float64 `csv:"organism_time"`
	DevRealSec   float64 `csv:"dev_real_sec"`
	Size         float64 `csv:"size"`
	Brightness   float64 `csv:"brightness"`
	Day          float64 `csv:"day"`
}

// LogValue implements slog.LogValuer for structured logging.
func (h HatchRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("slot", h.Slot),
		slog.Float64("real_time", h.RealTime),
		slog.Float64("organism_time", h.OrganismTime),
		slog.Float64("dev_real_sec", h.DevRealSec),
		slog.Float64("size", h.Size),
		slog.Float64("brightness", h.Brightness),
	)
}
