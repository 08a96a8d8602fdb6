package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/metamorphosis/config"
	"github.com/pthm-cable/metamorphosis/game"
	"github.com/pthm-cable/metamorphosis/sensor"
	"github.com/pthm-cable/metamorphosis/systems"
)

// Targets is what a calibrated scene should produce.
type Targets struct {
	Size     float64 // mean adult size
	Duration float64 // real seconds until the last cocoon opens
}

// runResult holds the results from a single simulation run.
type runResult struct {
	sizes    []float64
	duration float64 // real seconds until the last hatch, or the cap
	complete bool    // every cocoon opened before the cap
}

// Evaluation summarizes one parameter vector across all seeds.
type Evaluation struct {
	Fitness  float64
	MeanSize float64
	Duration float64
	Complete int // seeds where every cocoon opened
}

// FitnessEvaluator runs headless simulations and scores them against targets.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	seeds      []int64
	baseConfig *config.Config
	targets    Targets

	mu   sync.Mutex
	last Evaluation
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
		targets:    targets,
	}
}

// Last returns the most recent evaluation.
func (fe *FitnessEvaluator) Last() Evaluation {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	ev := fe.score(results)

	fe.mu.Lock()
	fe.last = ev
	fe.mu.Unlock()

	return ev.Fitness
}

// runSimulation executes a single headless run until every cocoon has
// opened or maxTicks frames have passed.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.configFor(x)
	src := sensor.NewSteady(cfg.Sensor.Width, cfg.Sensor.Height, cfg.Sensor.SteadyLuma)
	sim := game.NewSimulation(cfg, src, seed)
	dt := 1 / float64(cfg.Screen.TargetFPS)

	result := &runResult{sizes: make([]float64, 0, cfg.Cocoons.Count)}
	for tick := 0; tick < fe.maxTicks; tick++ {
		for _, ev := range sim.Step(dt) {
			if ev.Kind == systems.EventHatched {
				result.sizes = append(result.sizes, ev.Size)
				result.duration = ev.RealTime
			}
		}
		if len(result.sizes) == cfg.Cocoons.Count {
			result.complete = true
			return result
		}
	}
	result.duration = sim.Now()
	return result
}

// configFor returns a copy of the base config with x applied.
func (fe *FitnessEvaluator) configFor(x []float64) *config.Config {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)
	if err := cfg.Revalidate(); err != nil {
		// Clamped values always validate against a valid base.
		panic(err)
	}
	return &cfg
}

// score folds per-seed results into one evaluation. Size error is measured
// against the configured size span, duration error relative to the target.
func (fe *FitnessEvaluator) score(results []*runResult) Evaluation {
	var sizes, durations []float64
	complete := 0
	for _, r := range results {
		sizes = append(sizes, r.sizes...)
		durations = append(durations, r.duration)
		if r.complete {
			complete++
		}
	}

	ev := Evaluation{
		Duration: stat.Mean(durations, nil),
		Complete: complete,
	}

	span := fe.baseConfig.Adult.SizeMax - fe.baseConfig.Adult.SizeMin
	sizeErr := 1.0
	if len(sizes) > 0 {
		ev.MeanSize = stat.Mean(sizes, nil)
		sizeErr = (ev.MeanSize - fe.targets.Size) / span
	}
	durErr := (ev.Duration - fe.targets.Duration) / fe.targets.Duration

	// Each incomplete seed costs as much as a full-span size miss.
	missing := float64(len(results) - complete)
	ev.Fitness = sizeErr*sizeErr + durErr*durErr + missing
	if math.IsNaN(ev.Fitness) {
		ev.Fitness = math.Inf(1)
	}
	return ev
}
