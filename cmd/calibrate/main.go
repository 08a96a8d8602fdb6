// Package main searches for the steady light level and hatch threshold that
// give a target adult size and scene length, using headless runs and CMA-ES.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/metamorphosis/config"
)

// evalRow is one line of calibrate_log.csv.
type evalRow struct {
	Eval        int     `csv:"eval"`
	Fitness     float64 `csv:"fitness"`
	Brightness  float64 `csv:"brightness"`
	HatchGrowth float64 `csv:"hatch_growth"`
	MeanSize    float64 `csv:"mean_size"`
	Duration    float64 `csv:"duration_sec"`
	Complete    int     `csv:"complete_seeds"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	targetSize := flag.Float64("target-size", 1.0, "Target mean adult size")
	targetDuration := flag.Float64("target-duration", 90, "Target real seconds until the last cocoon opens")
	maxTicks := flag.Int("max-ticks", 30000, "Frame cap per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 60, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if *targetDuration <= 0 {
		log.Fatal("--target-duration must be positive")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector(baseCfg)

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	targets := Targets{Size: *targetSize, Duration: *targetDuration}
	evaluator := NewFitnessEvaluator(params, *maxTicks, evalSeeds, baseCfg, targets)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation; seeds already run in parallel
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + 3*dim
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.25,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "calibrate_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	var bestEval Evaluation
	startTime := time.Now()

	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		clamped := params.Clamp(params.Denormalize(x))
		ev := evaluator.Last()
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
			bestEval = ev
		}

		row := []evalRow{{
			Eval:        evalCount,
			Fitness:     fitness,
			Brightness:  clamped[0],
			HatchGrowth: clamped[1],
			MeanSize:    ev.MeanSize,
			Duration:    ev.Duration,
			Complete:    ev.Complete,
		}}
		var werr error
		if evalCount == 1 {
			werr = gocsv.Marshal(row, logFile)
		} else {
			werr = gocsv.MarshalWithoutHeaders(row, logFile)
		}
		if werr != nil {
			log.Printf("failed to write log row: %v", werr)
		}

		elapsed := time.Since(startTime)
		remaining := time.Duration(*maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
		fmt.Printf("Eval %d/%d: luma=%.1f hatch=%.1f size=%.3f dur=%.0fs (best=%.4f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, clamped[0], clamped[1], ev.MeanSize, ev.Duration, bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Calibrating %d parameters toward size=%.2f duration=%.0fs, population=%d, max_evals=%d\n",
		dim, *targetSize, *targetDuration, popSize, *maxEvals)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("calibration ended: %v", err)
	}
	if bestParams == nil {
		if result == nil {
			log.Fatal("no evaluations completed")
		}
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	fmt.Printf("\nCalibration complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.4f (size %.3f, duration %.0fs, %d/%d seeds complete)\n",
		bestFitness, bestEval.MeanSize, bestEval.Duration, bestEval.Complete, len(evalSeeds))
	for i, spec := range params.Specs {
		fmt.Printf("  %s (%s): %.3f\n", spec.Name, spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
