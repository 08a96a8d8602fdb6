// Package config provides configuration loading and access for the sketch.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Integration modes for agent movement.
const (
	IntegrationFrame  = "frame"  // velocity is pixels per frame
	IntegrationScaled = "scaled" // velocity is scaled by dt * reference_fps
)

// Sensor source names.
const (
	SourceSynthetic = "synthetic"
	SourceSteady    = "steady"
	SourceManual    = "manual"
	SourceFile      = "file"
)

// Config holds all sketch configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Environment EnvironmentConfig `yaml:"environment"`
	Sensor      SensorConfig      `yaml:"sensor"`
	Cocoons     CocoonConfig      `yaml:"cocoons"`
	Adult       AdultConfig       `yaml:"adult"`
	Nectar      NectarConfig      `yaml:"nectar"`
	Flock       FlockConfig       `yaml:"flock"`
	Render      RenderConfig      `yaml:"render"`
	Audio       AudioConfig       `yaml:"audio"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// EnvironmentConfig maps brightness to day value and growth rate.
type EnvironmentConfig struct {
	InitialBrightness float64 `yaml:"initial_brightness"`
	SmoothFactor      float64 `yaml:"smooth_factor"`
	BandLow           float64 `yaml:"band_low"`
	BandHigh          float64 `yaml:"band_high"`
	MinGrowth         float64 `yaml:"min_growth"`
	MaxGrowth         float64 `yaml:"max_growth"`
	DayThreshold      float64 `yaml:"day_threshold"`
	MinDT             float64 `yaml:"min_dt"`
}

// SensorConfig holds light sensor parameters.
type SensorConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Stride      int     `yaml:"stride"`
	Source      string  `yaml:"source"`
	File        string  `yaml:"file"`
	SteadyLuma  float64 `yaml:"steady_luma"`
	CyclePeriod float64 `yaml:"cycle_period"`
	CycleLow    float64 `yaml:"cycle_low"`
	CycleHigh   float64 `yaml:"cycle_high"`
	ManualStep  float64 `yaml:"manual_step"`
}

// CocoonConfig holds cocoon placement and lifecycle thresholds.
type CocoonConfig struct {
	Count        int       `yaml:"count"`
	Stagger      float64   `yaml:"stagger"`
	CrackGrowth  float64   `yaml:"crack_growth"`
	HatchGrowth  float64   `yaml:"hatch_growth"`
	Left         float64   `yaml:"left"`
	Right        float64   `yaml:"right"`
	ArcBaseY     float64   `yaml:"arc_base_y"`
	ArcAmplitude float64   `yaml:"arc_amplitude"`
	YOffsets     []float64 `yaml:"y_offsets"`
	CrackJitterX float64   `yaml:"crack_jitter_x"`
	CrackJitterY float64   `yaml:"crack_jitter_y"`
}

// AdultConfig maps real development time to adult size.
type AdultConfig struct {
	DevRealMin    float64 `yaml:"dev_real_min"`
	DevRealMax    float64 `yaml:"dev_real_max"`
	SizeMin       float64 `yaml:"size_min"`
	SizeMax       float64 `yaml:"size_max"`
	SizeJitter    float64 `yaml:"size_jitter"`
	ShapeExponent float64 `yaml:"shape_exponent"`
	SpawnSpeedMin float64 `yaml:"spawn_speed_min"`
	SpawnSpeedMax float64 `yaml:"spawn_speed_max"`
}

// NectarConfig holds attractor parameters.
type NectarConfig struct {
	Life        float64 `yaml:"life"`
	Pull        float64 `yaml:"pull"`
	PointerPull float64 `yaml:"pointer_pull"`
}

// FlockConfig holds flocking parameters.
type FlockConfig struct {
	MaxSpeed       float64 `yaml:"max_speed"`
	MaxForce       float64 `yaml:"max_force"`
	SepRadius      float64 `yaml:"sep_radius"`
	AlignRadius    float64 `yaml:"align_radius"`
	CohRadius      float64 `yaml:"coh_radius"`
	SepWeight      float64 `yaml:"sep_weight"`
	AlignWeight    float64 `yaml:"align_weight"`
	CohWeight      float64 `yaml:"coh_weight"`
	WrapMargin     float64 `yaml:"wrap_margin"`
	DriftAmplitude float64 `yaml:"drift_amplitude"`
	DriftFreqX     float64 `yaml:"drift_freq_x"`
	DriftFreqY     float64 `yaml:"drift_freq_y"`
	Integration    string  `yaml:"integration"`
	ReferenceFPS   float64 `yaml:"reference_fps"`
}

// RenderConfig holds asset paths and visual parameters.
type RenderConfig struct {
	AssetsDir         string  `yaml:"assets_dir"`
	BranchImage       string  `yaml:"branch_image"`
	CocoonImage       string  `yaml:"cocoon_image"`
	CrackedImage      string  `yaml:"cracked_image"`
	OpenImage         string  `yaml:"open_image"`
	ButterflyImage    string  `yaml:"butterfly_image"`
	ScaleBranch       float64 `yaml:"scale_branch"`
	ScaleCocoon       float64 `yaml:"scale_cocoon"`
	ScaleButterfly    float64 `yaml:"scale_butterfly"`
	SpriteRotationDeg float64 `yaml:"sprite_rotation_deg"`
	PointerHaloScale  float64 `yaml:"pointer_halo_scale"`
	SunArcRadius      float64 `yaml:"sun_arc_radius"`
	SunArcCX          float64 `yaml:"sun_arc_cx"`
	SunArcCY          float64 `yaml:"sun_arc_cy"`
	SunThreshold      float64 `yaml:"sun_threshold"`
	MaxParticles      int     `yaml:"max_particles"`
}

// AudioConfig holds audio cue settings.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CocoonXs   []float64 // evenly spaced cocoon x positions
	StepScaled bool      // Flock.Integration == scaled
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Set replaces the global configuration after a hot reload.
func Set(cfg *Config) {
	global = cfg
}

// Default returns the embedded defaults. Panics if the embedded file is broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Revalidate checks c again and recomputes derived values. Call it after
// editing fields of a loaded config in place, e.g. from CLI overrides.
func (c *Config) Revalidate() error {
	if err := c.validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// validate rejects values that would break the simulation maths.
func (c *Config) validate() error {
	if c.Environment.BandHigh <= c.Environment.BandLow {
		return fmt.Errorf("environment: band_high (%v) must exceed band_low (%v)", c.Environment.BandHigh, c.Environment.BandLow)
	}
	if c.Adult.DevRealMax <= c.Adult.DevRealMin {
		return fmt.Errorf("adult: dev_real_max (%v) must exceed dev_real_min (%v)", c.Adult.DevRealMax, c.Adult.DevRealMin)
	}
	if c.Cocoons.HatchGrowth < c.Cocoons.CrackGrowth {
		return fmt.Errorf("cocoons: hatch_growth (%v) below crack_growth (%v)", c.Cocoons.HatchGrowth, c.Cocoons.CrackGrowth)
	}
	if c.Cocoons.Count < 0 {
		return fmt.Errorf("cocoons: negative count %d", c.Cocoons.Count)
	}
	switch c.Flock.Integration {
	case IntegrationFrame, IntegrationScaled:
	default:
		return fmt.Errorf("flock: unknown integration mode %q", c.Flock.Integration)
	}
	switch c.Sensor.Source {
	case SourceSynthetic, SourceSteady, SourceManual, SourceFile:
	default:
		return fmt.Errorf("sensor: unknown source %q", c.Sensor.Source)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.StepScaled = c.Flock.Integration == IntegrationScaled

	if c.Environment.MinDT <= 0 {
		c.Environment.MinDT = 0.001
	}
	if c.Sensor.Stride < 1 {
		c.Sensor.Stride = 1
	}
	if c.Flock.ReferenceFPS <= 0 {
		c.Flock.ReferenceFPS = 60
	}

	// Evenly spaced slots; a single cocoon sits at the left anchor
	n := c.Cocoons.Count
	c.Derived.CocoonXs = make([]float64, n)
	for i := range c.Derived.CocoonXs {
		if n == 1 {
			c.Derived.CocoonXs[i] = c.Cocoons.Left
			continue
		}
		t := float64(i) / float64(n-1)
		c.Derived.CocoonXs[i] = c.Cocoons.Left + t*(c.Cocoons.Right-c.Cocoons.Left)
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
