// Package main provides CMA-ES search for rule parameters that keep the
// grid alive, moving and away from both extinction and saturation.
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

	"github.com/pthm-cable/cellular/config"
	"github.com/pthm-cable/cellular/rules"
	"github.com/pthm-cable/cellular/telemetry"
)

// evalRow is one line of optimize_log.csv, holding the rules actually run.
type evalRow struct {
	Eval            int     `csv:"eval"`
	Fitness         float64 `csv:"fitness"`
	Quality         float64 `csv:"quality"`
	Radius          int     `csv:"radius"`
	SurviveLow      int     `csv:"survive_low"`
	SurviveHigh     int     `csv:"survive_high"`
	BirthLow        int     `csv:"birth_low"`
	BirthHigh       int     `csv:"birth_high"`
	NeutralFraction float64 `csv:"neutral_fraction"`
	NegativeShare   float64 `csv:"negative_share"`
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
	maxSteps := flag.Int("max-steps", 3000, "Generations per run (cap)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	gridSize := flag.Int("grid", 128, "Grid side length for evaluation runs (0 = use config)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()
	if *gridSize > 0 {
		baseCfg.Grid.Width = *gridSize
		baseCfg.Grid.Height = *gridSize
		baseCfg.Derived.GridCells = *gridSize * *gridSize
	}
	boundary, err := rules.ParseBoundary(baseCfg.Rules.Boundary)
	if err != nil {
		log.Fatalf("invalid boundary: %v", err)
	}

	params := NewParamVector()

	// Generate seeds for evaluation
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, *maxSteps, evalSeeds, baseCfg)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	headerWritten := false

	// Track evaluations and timing
	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	// Wrap the function to log evaluations
	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		clamped := params.Clamp(params.Denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}

		quality := evaluator.LastQuality()
		r := params.Rules(clamped, baseCfg.Rules.IncludeCenter, boundary, baseCfg.Derived.MaxWeight32)
		row := []evalRow{{
			Eval:            evalCount,
			Fitness:         fitness,
			Quality:         quality,
			Radius:          r.Radius,
			SurviveLow:      r.Survive.Low,
			SurviveHigh:     r.Survive.High,
			BirthLow:        r.Birth.Low,
			BirthHigh:       r.Birth.High,
			NeutralFraction: clamped[5],
			NegativeShare:   clamped[6],
		}}
		if err := writeRows(logFile, row, &headerWritten); err != nil {
			log.Printf("failed to write log row: %v", err)
		}

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		// Fitness = -(survival × (1 + quality)), so survival ≈ -fitness/(1+quality)
		survival := -fitness / (1.0 + quality)
		fmt.Printf("Eval %d/%d: r%d S%d-%d B%d-%d survived=%.0f%% quality=%.2f (best=%.3f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, r.Radius, r.Survive.Low, r.Survive.High, r.Birth.Low, r.Birth.High,
			survival*100, quality, bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, steps per run: %d, grid %dx%d\n",
		*seeds, *maxSteps, baseCfg.Grid.Width, baseCfg.Grid.Height)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best fitness: %.3f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.4f\n", spec.Name, bestParams[i])
	}

	// Save best config against the unmodified grid size
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

	// Window stats of the best run, same columns as telemetry.csv
	if windows := evaluator.BestWindows(); len(windows) > 0 {
		runPath := filepath.Join(*outputDir, "best_run.csv")
		if err := writeWindows(runPath, windows); err != nil {
			log.Printf("failed to write best run: %v", err)
		} else {
			fmt.Printf("Best run telemetry saved to: %s\n", runPath)
		}
	}
}

func writeWindows(path string, windows []telemetry.WindowStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&windows, f)
}

// writeRows appends CSV rows, including the header on the first call only.
func writeRows(f *os.File, rows []evalRow, headerWritten *bool) error {
	if !*headerWritten {
		*headerWritten = true
		return gocsv.Marshal(rows, f)
	}
	return gocsv.MarshalWithoutHeaders(rows, f)
}
