package telemetry

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/vehicles/genetics"
)

// AgentSample is the per-agent data sampled for population statistics.
type AgentSample struct {
	Genome     genetics.Genome
	Energy     float64
	Generation int
}

// PopulationStats summarizes the living population at one instant.
type PopulationStats struct {
	Population int
	Extinct    bool

	AvgAggression float64
	AvgSpeed      float64
	AvgVision     float64
	AvgMutation   float64
	StdAggression float64
	HawkFraction  float64

	EnergyMean float64
	EnergyP10  float64
	EnergyP50  float64
	EnergyP90  float64

	MaxGeneration int
}

// Aggregate computes population statistics in a single pass over the samples.
// An empty population returns Extinct with every average left at zero.
func Aggregate(samples []AgentSample, hawkThreshold float64) PopulationStats {
	n := len(samples)
	if n == 0 {
		return PopulationStats{Extinct: true}
	}

	aggression := make([]float64, n)
	speed := make([]float64, n)
	vision := make([]float64, n)
	mult := make([]float64, n)
	energy := make([]float64, n)

	var hawks, maxGen int
	for i, s := range samples {
		aggression[i] = s.Genome.Aggression
		speed[i] = s.Genome.Speed
		vision[i] = s.Genome.Vision
		mult[i] = s.Genome.MutationMultiplier
		energy[i] = s.Energy
		if s.Genome.Aggression > hawkThreshold {
			hawks++
		}
		maxGen = max(maxGen, s.Generation)
	}

	meanAgg, stdAgg := stat.PopMeanStdDev(aggression, nil)
	p10, p50, p90 := EnergyQuantiles(energy)

	return PopulationStats{
		Population:    n,
		AvgAggression: meanAgg,
		AvgSpeed:      stat.Mean(speed, nil),
		AvgVision:     stat.Mean(vision, nil),
		AvgMutation:   stat.Mean(mult, nil),
		StdAggression: stdAgg,
		HawkFraction:  float64(hawks) / float64(n),
		EnergyMean:    stat.Mean(energy, nil),
		EnergyP10:     p10,
		EnergyP50:     p50,
		EnergyP90:     p90,
		MaxGeneration: maxGen,
	}
}

// EnergyQuantiles returns the 10th, 50th and 90th percentiles of values.
// values is sorted in place. Returns zeros if empty.
func EnergyQuantiles(values []float64) (p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sort.Float64s(values)
	p10 = stat.Quantile(0.10, stat.Empirical, values, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, values, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, values, nil)
	return p10, p50, p90
}

// Summary renders the stats overlay text shown by a renderer.
func (p PopulationStats) Summary() string {
	if p.Extinct {
		return "POPULATION EXTINCT"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Population: %d\n", p.Population)
	fmt.Fprintf(&b, "Avg. Aggression: %.2f (Red=High, Blue=Low)\n", p.AvgAggression)
	fmt.Fprintf(&b, "Avg. Speed: %.2f\n", p.AvgSpeed)
	fmt.Fprintf(&b, "Avg. Vision: %.2f\n", p.AvgVision)
	fmt.Fprintf(&b, "Avg. Mut-Multiplier: %.2f", p.AvgMutation)
	return b.String()
}

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-" db:"window_start"`
	WindowEndTick   int32   `csv:"window_end" db:"window_end"`
	SimTimeSec      float64 `csv:"sim_time" db:"sim_time"`

	// Counts at window end
	Population int `csv:"population" db:"population"`
	Food       int `csv:"food" db:"food"`

	// Events during window
	Births     int `csv:"births" db:"births"`
	Deaths     int `csv:"deaths" db:"deaths"`
	Meals      int `csv:"meals" db:"meals"`
	ContestsHH int `csv:"contests_hh" db:"contests_hh"`
	ContestsHD int `csv:"contests_hd" db:"contests_hd"`
	ContestsDD int `csv:"contests_dd" db:"contests_dd"`
	Matings    int `csv:"matings" db:"matings"`

	// Trait distribution (sampled at window end)
	AvgAggression float64 `csv:"avg_aggression" db:"avg_aggression"`
	StdAggression float64 `csv:"std_aggression" db:"std_aggression"`
	AvgSpeed      float64 `csv:"avg_speed" db:"avg_speed"`
	AvgVision     float64 `csv:"avg_vision" db:"avg_vision"`
	AvgMutation   float64 `csv:"avg_mutation" db:"avg_mutation"`
	HawkFraction  float64 `csv:"hawk_fraction" db:"hawk_fraction"`

	// Energy distribution
	EnergyMean float64 `csv:"energy_mean" db:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10" db:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50" db:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90" db:"energy_p90"`

	MaxGeneration int `csv:"max_generation" db:"max_generation"`
}

// Extinct reports whether the window closed with no living agents.
func (s WindowStats) Extinct() bool {
	return s.Population == 0
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("food", s.Food),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("meals", s.Meals),
		slog.Int("contests_hh", s.ContestsHH),
		slog.Int("contests_hd", s.ContestsHD),
		slog.Int("contests_dd", s.ContestsDD),
		slog.Int("matings", s.Matings),
		slog.Float64("avg_aggression", s.AvgAggression),
		slog.Float64("std_aggression", s.StdAggression),
		slog.Float64("avg_speed", s.AvgSpeed),
		slog.Float64("avg_vision", s.AvgVision),
		slog.Float64("avg_mutation", s.AvgMutation),
		slog.Float64("hawk_fraction", s.HawkFraction),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Int("max_generation", s.MaxGeneration),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"population", s.Population,
		"food", s.Food,
		"births", s.Births,
		"deaths", s.Deaths,
		"meals", s.Meals,
		"contests_hh", s.ContestsHH,
		"contests_hd", s.ContestsHD,
		"contests_dd", s.ContestsDD,
		"matings", s.Matings,
		"avg_aggression", s.AvgAggression,
		"avg_speed", s.AvgSpeed,
		"avg_vision", s.AvgVision,
		"avg_mutation", s.AvgMutation,
		"hawk_fraction", s.HawkFraction,
		"energy_mean", s.EnergyMean,
		"max_generation", s.MaxGeneration,
	)
}
