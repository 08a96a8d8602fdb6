package config

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Screen.Width != 600 || cfg.Screen.Height != 600 {
		t.Errorf("screen = %dx%d, want 600x600", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Cocoons.Count != 6 {
		t.Errorf("cocoon count = %d, want 6", cfg.Cocoons.Count)
	}
	if cfg.Environment.MinGrowth != 0.6 || cfg.Environment.MaxGrowth != 2.0 {
		t.Errorf("growth range = [%v, %v], want [0.6, 2.0]", cfg.Environment.MinGrowth, cfg.Environment.MaxGrowth)
	}
	if cfg.Flock.Integration != IntegrationFrame {
		t.Errorf("integration = %q, want %q", cfg.Flock.Integration, IntegrationFrame)
	}
}

func TestDerivedCocoonPositions(t *testing.T) {
	cfg := Default()

	xs := cfg.Derived.CocoonXs
	if len(xs) != cfg.Cocoons.Count {
		t.Fatalf("len(CocoonXs) = %d, want %d", len(xs), cfg.Cocoons.Count)
	}
	if xs[0] != 70 || xs[len(xs)-1] != 530 {
		t.Errorf("endpoints = (%v, %v), want (70, 530)", xs[0], xs[len(xs)-1])
	}
	for i := 1; i < len(xs); i++ {
		if math.Abs((xs[i]-xs[i-1])-92) > 1e-9 {
			t.Errorf("spacing %d = %v, want 92", i, xs[i]-xs[i-1])
		}
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("nectar:\n  life: 4\nflock:\n  integration: scaled\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Nectar.Life != 4 {
		t.Errorf("nectar life = %v, want 4", cfg.Nectar.Life)
	}
	if cfg.Nectar.Pull != 0.10 {
		t.Errorf("nectar pull = %v, want default 0.10", cfg.Nectar.Pull)
	}
	if !cfg.Derived.StepScaled {
		t.Error("StepScaled should be true for scaled integration")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"inverted band", "environment:\n  band_low: 200\n  band_high: 100\n"},
		{"hatch before crack", "cocoons:\n  crack_growth: 30\n  hatch_growth: 20\n"},
		{"unknown integration", "flock:\n  integration: verlet\n"},
		{"unknown source", "sensor:\n  source: webcam9000\n"},
		{"bad yaml", "screen: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("Load(%q) succeeded, want error", tt.name)
			}
		})
	}
}

func TestRevalidateAfterOverride(t *testing.T) {
	cfg := Default()
	cfg.Flock.Integration = IntegrationScaled
	cfg.Cocoons.Count = 3
	if err := cfg.Revalidate(); err != nil {
		t.Fatalf("Revalidate: %v", err)
	}
	if !cfg.Derived.StepScaled {
		t.Error("StepScaled not recomputed")
	}
	if len(cfg.Derived.CocoonXs) != 3 {
		t.Errorf("cocoon slots = %d, want 3", len(cfg.Derived.CocoonXs))
	}

	cfg.Sensor.Source = "webcam9000"
	if err := cfg.Revalidate(); err == nil {
		t.Error("Revalidate accepted an unknown source")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Nectar.Life = 7.5

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Nectar.Life != 7.5 {
		t.Errorf("nectar life = %v, want 7.5", loaded.Nectar.Life)
	}
}

func TestWatcherDeliversReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.yaml")
	if err := os.WriteFile(path, []byte("nectar:\n  life: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("nectar:\n  life: 9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-w.Updates():
		if cfg.Nectar.Life != 9 {
			t.Errorf("reloaded nectar life = %v, want 9", cfg.Nectar.Life)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestWatcherCloseAfterFailedStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "live.yaml")
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("Start should fail when the config directory does not exist")
	}

	done := make(chan struct{})
	go func() {
		w.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked after a failed Start")
	}
}
