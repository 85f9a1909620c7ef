package telemetry

import "math"

// ContestKind classifies a contest by the strategies involved.
type ContestKind uint8

const (
	ContestHawkHawk ContestKind = iota
	ContestHawkDove             // either order
	ContestDoveDove
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	births     int
	deaths     int
	meals      int
	contestsHH int
	contestsHD int
	contestsDD int
	matings    int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirth records an offspring entering the population.
func (c *Collector) RecordBirth() {
	c.births++
}

// RecordDeath records a starvation death.
func (c *Collector) RecordDeath() {
	c.deaths++
}

// RecordMeal records an uncontested meal.
func (c *Collector) RecordMeal() {
	c.meals++
}

// RecordContest records a resolved food contest.
func (c *Collector) RecordContest(kind ContestKind) {
	switch kind {
	case ContestHawkHawk:
		c.contestsHH++
	case ContestHawkDove:
		c.contestsHD++
	default:
		c.contestsDD++
	}
}

// RecordMating records a successful mating.
func (c *Collector) RecordMating() {
	c.matings++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// pop is the population sampled at currentTick; food is the live food count.
func (c *Collector) Flush(currentTick int32, pop PopulationStats, food int) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Population: pop.Population,
		Food:       food,

		Births:     c.births,
		Deaths:     c.deaths,
		Meals:      c.meals,
		ContestsHH: c.contestsHH,
		ContestsHD: c.contestsHD,
		ContestsDD: c.contestsDD,
		Matings:    c.matings,

		AvgAggression: pop.AvgAggression,
		StdAggression: pop.StdAggression,
		AvgSpeed:      pop.AvgSpeed,
		AvgVision:     pop.AvgVision,
		AvgMutation:   pop.AvgMutation,
		HawkFraction:  pop.HawkFraction,

		EnergyMean: pop.EnergyMean,
		EnergyP10:  pop.EnergyP10,
		EnergyP50:  pop.EnergyP50,
		EnergyP90:  pop.EnergyP90,

		MaxGeneration: pop.MaxGeneration,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	c.deaths = 0
	c.meals = 0
	c.contestsHH = 0
	c.contestsHD = 0
	c.contestsDD = 0
	c.matings = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
