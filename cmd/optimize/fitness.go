package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/vehicles/config"
	"github.com/pthm-cable/vehicles/game"
	"github.com/pthm-cable/vehicles/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A population that cannot pair up for extinctionGraceSec counts as
// functionally extinct.
const (
	minViablePop       = 2
	extinctionGraceSec = 30.0
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32
	windowStats   []telemetry.WindowStats
}

type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run concurrently; each run owns its world, RNG and config copy.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			quality := computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness: computeFitness(result.survivalTicks, quality),
				quality: quality,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes one headless run until functional extinction or maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}

	g := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	defer g.Unload()

	graceTicks := int32(extinctionGraceSec / cfg.Physics.DT)
	var belowTicks int32

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()

		pop := g.Population()
		if pop == 0 {
			result.survivalTicks = g.Tick()
			return result
		}

		if pop < minViablePop {
			belowTicks++
		} else {
			belowTicks = 0
		}
		if belowTicks >= graceTicks {
			result.survivalTicks = g.Tick()
			return result
		}
	}

	result.survivalTicks = fe.maxTicks
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Survival dominates; quality adds up to 20% to separate runs that survive
// equally long.
func computeFitness(survivalTicks int32, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightStability = 0.5
	qualityWeightMix       = 0.5

	qualityWarmupWindows = 3 // skip first N windows
)

// computeQuality scores population stability and strategy mix in [0, 1].
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var pops []float64
	var mixSum float64
	for _, w := range windows[qualityWarmupWindows:] {
		if w.Extinct() {
			continue
		}
		pops = append(pops, float64(w.Population))
		// Highest when hawks and doves are equally common.
		mixSum += 1 - 2*math.Abs(w.HawkFraction-0.5)
	}
	if len(pops) == 0 {
		return 0
	}

	stability := 0.0
	if len(pops) >= 2 {
		mean, std := stat.MeanStdDev(pops, nil)
		if mean > 0 {
			cv := std / mean
			stability = math.Exp(-cv * cv)
		}
	}
	mix := mixSum / float64(len(pops))

	return clamp01(qualityWeightStability*stability + qualityWeightMix*mix)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
