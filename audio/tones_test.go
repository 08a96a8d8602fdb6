package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/metamorphosis/config"
)

func drain(t *testing.T, s beep.Streamer) int {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	for i := 0; i < 1000; i++ {
		n, ok := s.Stream(buf)
		for j := 0; j < n; j++ {
			if math.Abs(buf[j][0]) > 1 || buf[j][0] != buf[j][1] {
				t.Fatalf("sample %d = %v, want mono within [-1,1]", total+j, buf[j])
			}
		}
		total += n
		if !ok {
			return total
		}
	}
	t.Fatal("streamer never ended")
	return total
}

func TestChime_LengthAndRange(t *testing.T) {
	rate := beep.SampleRate(44100)
	c := NewChime(rate, 660, 200*time.Millisecond, 4)

	if got, want := drain(t, c), rate.N(200*time.Millisecond); got != want {
		t.Errorf("streamed %d samples, want %d", got, want)
	}
	if c.Err() != nil {
		t.Errorf("Err() = %v", c.Err())
	}
}

func TestCrackle_LengthAndRange(t *testing.T) {
	rate := beep.SampleRate(22050)
	c := NewCrackle(rate, 50*time.Millisecond, 0)

	if got, want := drain(t, c), rate.N(50*time.Millisecond); got != want {
		t.Errorf("streamed %d samples, want %d", got, want)
	}
}

func TestCrackle_SeedRepeats(t *testing.T) {
	rate := beep.SampleRate(8000)
	a := make([][2]float64, 64)
	b := make([][2]float64, 64)
	NewCrackle(rate, time.Second, 7).Stream(a)
	NewCrackle(rate, time.Second, 7).Stream(b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs for the same seed", i)
		}
	}
}

func TestHatchPitch(t *testing.T) {
	tests := []struct {
		name string
		size float64
		want float64
	}{
		{"smallest", 0.65, 880},
		{"largest", 1.55, 440},
		{"middle", 1.10, 660},
		{"below range", 0.2, 880},
		{"above range", 3, 440},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HatchPitch(tt.size, 0.65, 1.55); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("HatchPitch(%v) = %v, want %v", tt.size, got, tt.want)
			}
		})
	}

	if got := HatchPitch(1, 1, 1); got != 660 {
		t.Errorf("degenerate range = %v, want 660", got)
	}
}

func TestCues_SilentUntilInit(t *testing.T) {
	cfg := config.Default()
	c := NewCues(cfg.Audio, cfg.Adult)

	if c.Enabled() {
		t.Fatal("cues enabled before Init")
	}
	// Must not touch the speaker
	c.Crack()
	c.Hatch(1.2)
	c.Close()

	var nilCues *Cues
	nilCues.Crack()
	nilCues.Hatch(1)
	nilCues.Close()
	if nilCues.Enabled() {
		t.Error("nil cues report enabled")
	}
}
