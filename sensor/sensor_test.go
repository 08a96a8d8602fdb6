package sensor

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLuma(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    float64
	}{
		{"black", 0, 0, 0, 0},
		{"white", 255, 255, 255, 255},
		{"pure red", 255, 0, 0, 0.2126 * 255},
		{"pure green", 0, 255, 0, 0.7152 * 255},
		{"pure blue", 0, 0, 255, 0.0722 * 255},
		{"gray", 100, 100, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFrame(64, 48)
			f.Fill(tt.r, tt.g, tt.b)
			got, ok := Luma(f, 2)
			if !ok {
				t.Fatal("Luma reported empty frame")
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Luma = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLumaSubsamplesEveryOtherPixel(t *testing.T) {
	f := NewFrame(4, 4)
	// Odd rows and columns bright; they must be skipped with stride 2.
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := uint8(0)
			if x%2 == 1 || y%2 == 1 {
				v = 255
			}
			idx := 4 * (x + y*4)
			f.Pix[idx], f.Pix[idx+1], f.Pix[idx+2] = v, v, v
		}
	}

	got, _ := Luma(f, 2)
	if got != 0 {
		t.Errorf("stride 2 luma = %v, want 0", got)
	}
	full, _ := Luma(f, 1)
	if math.Abs(full-255*12.0/16.0) > 1e-9 {
		t.Errorf("stride 1 luma = %v, want %v", full, 255*12.0/16.0)
	}
}

func TestLumaEmptyFrame(t *testing.T) {
	if _, ok := Luma(Frame{}, 2); ok {
		t.Error("empty frame should report !ok")
	}
	if _, ok := Luma(Frame{Width: 4, Height: 4, Pix: make([]uint8, 8)}, 2); ok {
		t.Error("short pixel buffer should report !ok")
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

type flakySource struct {
	frames []Frame
	oks    []bool
	i      int
}

func (s *flakySource) Latest() (Frame, bool) {
	f, ok := s.frames[s.i], s.oks[s.i]
	s.i++
	return f, ok
}

func TestAdapterRetainsBrightnessWhenUnavailable(t *testing.T) {
	bright := NewFrame(8, 8)
	bright.Fill(200, 200, 200)

	src := &flakySource{
		frames: []Frame{bright, {}, {}, bright},
		oks:    []bool{true, false, true, true},
	}
	a := NewAdapter(128, 2)

	if got := a.Sample(src); !approx(got, 200) {
		t.Errorf("first sample = %v, want 200", got)
	}
	if got := a.Sample(src); !approx(got, 200) || a.Fresh() {
		t.Errorf("not-ready sample = %v fresh=%v, want 200 and stale", got, a.Fresh())
	}
	if got := a.Sample(src); !approx(got, 200) || a.Fresh() {
		t.Errorf("empty-frame sample = %v fresh=%v, want 200 and stale", got, a.Fresh())
	}
	if got := a.Sample(src); !approx(got, 200) || !a.Fresh() {
		t.Errorf("recovered sample = %v fresh=%v", got, a.Fresh())
	}
}

func TestAdapterNilSource(t *testing.T) {
	a := NewAdapter(128, 2)
	if got := a.Sample(nil); got != 128 {
		t.Errorf("nil source sample = %v, want 128", got)
	}
}

func TestSteadyAndManual(t *testing.T) {
	a := NewAdapter(0, 2)
	if got := a.Sample(NewSteady(64, 48, 220)); !approx(got, 220) {
		t.Errorf("steady luma = %v, want 220", got)
	}

	m := NewManual(16, 16, 250, 4)
	m.Nudge(+1)
	m.Nudge(+1)
	if m.Luma() != 255 {
		t.Errorf("manual luma = %v, want clamp to 255", m.Luma())
	}
	m.Nudge(-10)
	if got := a.Sample(m); !approx(got, 215) {
		t.Errorf("manual sample = %v, want 215", got)
	}
}

func TestSyntheticCycle(t *testing.T) {
	s := NewSynthetic(64, 48, 100, 10, 230)
	if got := s.LumaAt(0); math.Abs(got-10) > 1e-9 {
		t.Errorf("midnight luma = %v, want 10", got)
	}
	if got := s.LumaAt(50); math.Abs(got-230) > 1e-9 {
		t.Errorf("noon luma = %v, want 230", got)
	}

	base := time.Now()
	s.start = base
	s.now = func() time.Time { return base.Add(50 * time.Second) }
	f, ok := s.Latest()
	if !ok {
		t.Fatal("synthetic source not ready")
	}
	got, _ := Luma(f, 2)
	if math.Abs(got-230) > 5 {
		t.Errorf("noon frame luma = %v, want ~230", got)
	}
}

func TestDownscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			src.Set(x, y, color.RGBA{R: 90, G: 90, B: 90, A: 255})
		}
	}
	f := Downscale(src, 64, 48)
	if f.Width != 64 || f.Height != 48 {
		t.Fatalf("size = %dx%d, want 64x48", f.Width, f.Height)
	}
	got, _ := Luma(f, 2)
	if math.Abs(got-90) > 1 {
		t.Errorf("downscaled luma = %v, want ~90", got)
	}
}

func writePNG(t *testing.T, path string, v uint8) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshotFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.png")
	writePNG(t, path, 40)

	s, err := NewSnapshotFile(path, 64, 48)
	if err != nil {
		t.Fatalf("NewSnapshotFile: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Close()

	a := NewAdapter(128, 2)
	if got := a.Sample(s); math.Abs(got-40) > 1 {
		t.Errorf("initial snapshot luma = %v, want ~40", got)
	}

	writePNG(t, path, 180)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if got := a.Sample(s); math.Abs(got-180) <= 1 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("snapshot luma never reached 180, last %v", a.Raw())
}
