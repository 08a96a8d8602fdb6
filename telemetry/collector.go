package telemetry

// SceneState is the population snapshot taken when a window closes.
type SceneState struct {
	OrganismTime float64
	Population   int
	Developing   int
	Cracked      int
	Open         int
}

// Collector accumulates per-frame samples within wall-clock windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec float64
	windowStart       float64

	// Per-frame samples for the current window
	brightness []float64
	day        []float64
	growth     []float64
	dayFrames  int

	// Events for the current window
	sizes  []float64
	devs   []float64
	nectar int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in real seconds
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 10
	}
	return &Collector{
		windowDurationSec: windowDurationSec,
		brightness:        make([]float64, 0, 1024),
		day:               make([]float64, 0, 1024),
		growth:            make([]float64, 0, 1024),
	}
}

// RecordFrame records the environment after one tick.
func (c *Collector) RecordFrame(smoothed, day, growthRate float64, isDay bool) {
	c.brightness = append(c.brightness, smoothed)
	c.day = append(c.day, day)
	c.growth = append(c.growth, growthRate)
	if isDay {
		c.dayFrames++
	}
}

// RecordHatch records a hatch event.
func (c *Collector) RecordHatch(size, devRealSec float64) {
	c.sizes = append(c.sizes, size)
	c.devs = append(c.devs, devRealSec)
}

// RecordNectar records a nectar placement.
func (c *Collector) RecordNectar() {
	c.nectar++
}

// ShouldFlush returns true if the window has run its full length at now.
func (c *Collector) ShouldFlush(now float64) bool {
	return now-c.windowStart >= c.windowDurationSec
}

// Flush produces a WindowStats and resets samples for the next window.
func (c *Collector) Flush(now float64, state SceneState) WindowStats {
	bright := Summarize(c.brightness)
	size := Summarize(c.sizes)
	dev := Summarize(c.devs)

	var dayFraction float64
	if n := len(c.day); n > 0 {
		dayFraction = float64(c.dayFrames) / float64(n)
	}

	stats := WindowStats{
		WindowStart:  c.windowStart,
		WindowEnd:    now,
		Frames:       len(c.brightness),
		OrganismTime: state.OrganismTime,

		BrightnessMean: bright.Mean,
		BrightnessMin:  bright.Min,
		BrightnessMax:  bright.Max,
		DayMean:        Summarize(c.day).Mean,
		DayFraction:    dayFraction,
		GrowthMean:     Summarize(c.growth).Mean,

		Population: state.Population,
		Developing: state.Developing,
		Cracked:    state.Cracked,
		Open:       state.Open,

		Hatches:  len(c.sizes),
		SizeMean: size.Mean,
		SizeStd:  size.Std,
		SizeMin:  size.Min,
		SizeMax:  size.Max,
		DevMean:  dev.Mean,

		NectarPlaced: c.nectar,
	}

	c.windowStart = now
	c.brightness = c.brightness[:0]
	c.day = c.day[:0]
	c.growth = c.growth[:0]
	c.dayFrames = 0
	c.sizes = c.sizes[:0]
	c.devs = c.devs[:0]
	c.nectar = 0

	return stats
}

// Reset restarts windowing at now and drops pending samples.
func (c *Collector) Reset(now float64) {
	c.Flush(now, SceneState{})
}

// WindowDurationSec returns the window length in seconds.
func (c *Collector) WindowDurationSec() float64 {
	return c.windowDurationSec
}
