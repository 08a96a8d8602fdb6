package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/metamorphosis/config"
)

func TestScore(t *testing.T) {
	cfg := config.Default()
	fe := NewFitnessEvaluator(NewParamVector(cfg), 100, []int64{1, 2}, cfg, Targets{Size: 1.0, Duration: 60})
	span := cfg.Adult.SizeMax - cfg.Adult.SizeMin

	tests := []struct {
		name    string
		results []*runResult
		want    float64
	}{
		{
			name: "on target",
			results: []*runResult{
				{sizes: []float64{0.9, 1.1}, duration: 60, complete: true},
				{sizes: []float64{1.0}, duration: 60, complete: true},
			},
			want: 0,
		},
		{
			name: "duration off by half",
			results: []*runResult{
				{sizes: []float64{1.0}, duration: 90, complete: true},
				{sizes: []float64{1.0}, duration: 90, complete: true},
			},
			want: 0.25,
		},
		{
			name: "size off and one seed incomplete",
			results: []*runResult{
				{sizes: []float64{1.0 + span/2}, duration: 60, complete: true},
				{sizes: []float64{1.0 + span/2}, duration: 60},
			},
			want: 0.25 + 1,
		},
		{
			name: "no hatches",
			results: []*runResult{
				{duration: 60},
				{duration: 60},
			},
			want: 1 + 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fe.score(tt.results).Fitness
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("fitness = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParamVector_ApplyClamps(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)

	pv.ApplyToConfig(cfg, []float64{300, 0})

	if cfg.Sensor.Source != config.SourceSteady {
		t.Errorf("source = %q, want steady", cfg.Sensor.Source)
	}
	if cfg.Sensor.SteadyLuma != 255 {
		t.Errorf("brightness = %v, want clamped to 255", cfg.Sensor.SteadyLuma)
	}
	if cfg.Cocoons.HatchGrowth != cfg.Cocoons.CrackGrowth {
		t.Errorf("hatch growth = %v, want clamped to crack growth %v", cfg.Cocoons.HatchGrowth, cfg.Cocoons.CrackGrowth)
	}
	if err := cfg.Revalidate(); err != nil {
		t.Errorf("clamped config should validate: %v", err)
	}
}

func TestRunSimulation_BrightCompletes(t *testing.T) {
	cfg := config.Default()
	cfg.Cocoons.Count = 2
	if err := cfg.Revalidate(); err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector(cfg)
	fe := NewFitnessEvaluator(pv, 60*60, []int64{1}, cfg, Targets{Size: 1, Duration: 30})

	r := fe.runSimulation([]float64{255, cfg.Cocoons.HatchGrowth}, 1)
	if !r.complete {
		t.Fatalf("expected both cocoons to open within a minute, got %d hatches", len(r.sizes))
	}
	if len(r.sizes) != 2 {
		t.Errorf("sizes = %d, want 2", len(r.sizes))
	}
	if r.duration <= 0 || r.duration > 60 {
		t.Errorf("duration = %v, want within (0, 60]", r.duration)
	}
}
