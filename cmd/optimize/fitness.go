package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/cellular/config"
	"github.com/pthm-cable/cellular/rng"
	"github.com/pthm-cable/cellular/sim"
	"github.com/pthm-cable/cellular/telemetry"
)

// FitnessEvaluator runs headless sessions and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxSteps   int
	seeds      []int64
	baseConfig *config.Config

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestWindows []telemetry.WindowStats
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxSteps int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxSteps:    maxSteps,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestWindows returns the window stats of the best seed of the best evaluation.
func (fe *FitnessEvaluator) BestWindows() []telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestWindows
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Collapse detection. A run ends early when the grid dies out, fills up or
// stops changing for frozenGraceSteps consecutive steps.
const (
	saturatedDensity = 0.97
	frozenActivity   = 1e-5
	frozenGraceSteps = 30
	warmupSteps      = 20
)

// runResult holds the results from a single run.
type runResult struct {
	survivalSteps int                     // steps before collapse (or maxSteps if it survived)
	windowStats   []telemetry.WindowStats // one per stats window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	windows []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result, err := fe.runSimulation(x, s)
			if err != nil {
				results[idx] = seedResult{fitness: 0}
				return
			}
			quality := fe.computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness: fe.computeFitness(result, quality),
				quality: quality,
				windows: result.windowStats,
			}
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedWindows []telemetry.WindowStats

	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedWindows = r.windows
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestWindows = bestSeedWindows
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run until collapse or maxSteps.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (*runResult, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	opts, err := sim.OptionsFromConfig(cfg, rng.New(seed))
	if err != nil {
		return nil, err
	}
	// Seeds already run in parallel.
	opts.Workers = 1
	s, err := sim.NewSession(opts)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	// Windows are counted in simulated frames of one step each.
	dt := cfg.Derived.HeadlessDT
	collector := telemetry.NewCollector(cfg.Derived.StatsWindow)
	result := &runResult{survivalSteps: fe.maxSteps}
	frozen := 0

	for step := 1; step <= fe.maxSteps; step++ {
		s.Step()
		density, activity := s.Density(), s.Activity()

		collector.Advance(dt, 1)
		collector.Record(density, activity)
		if collector.ShouldFlush() {
			result.windowStats = append(result.windowStats,
				collector.Flush(s.Generation(), s.Population(), s.Snapshot()))
		}

		if step < warmupSteps {
			continue
		}
		if activity < frozenActivity {
			frozen++
		} else {
			frozen = 0
		}
		if s.Population() == 0 || density > saturatedDensity || frozen >= frozenGraceSteps {
			result.survivalSteps = step
			break
		}
	}

	return result, nil
}

// copyConfig creates a copy of the base config. The struct holds no
// reference fields, so a value copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalFraction × (1.0 + quality))
// Survival dominates; quality separates runs that all survive.
func (fe *FitnessEvaluator) computeFitness(r *runResult, quality float64) float64 {
	survival := float64(r.survivalSteps) / float64(fe.maxSteps)
	return -(survival * (1.0 + quality))
}

// Quality component weights.
const (
	qualityWeightDensity   = 0.35
	qualityWeightActivity  = 0.40
	qualityWeightStability = 0.25

	qualityWarmupWindows = 1 // skip first N windows (warmup)
	targetDensity        = 0.3
	targetActivity       = 0.05
)

// computeQuality scores window stats into [0, 1]. It rewards moderate
// density, sustained but non-chaotic activity and a steady population.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	densities := make([]float64, len(valid))
	var densitySum, activitySum float64
	for i, w := range valid {
		densities[i] = w.DensityMean
		densitySum += math.Exp(-math.Pow((w.DensityMean-targetDensity)/0.2, 2))

		// Log-scale distance so 10x too quiet and 10x too busy score alike
		if w.ActivityMean > 0 {
			logErr := math.Log(w.ActivityMean / targetActivity)
			activitySum += math.Exp(-logErr * logErr / 2.0)
		}
	}

	n := float64(len(valid))
	densityScore := densitySum / n
	activityScore := activitySum / n

	stabilityScore := 0.0
	if len(densities) >= 2 {
		stabilityScore = math.Exp(-cv(densities))
	}

	return qualityWeightDensity*densityScore +
		qualityWeightActivity*activityScore +
		qualityWeightStability*stabilityScore
}

// cv returns the coefficient of variation, or +Inf when the mean is zero.
func cv(values []float64) float64 {
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return math.Inf(1)
	}
	return std / mean
}
