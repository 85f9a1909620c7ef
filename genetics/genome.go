// Package genetics defines the heritable trait vector of a vehicle and the
// operators that create and recombine it.
package genetics

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/pthm-cable/vehicles/config"
)

// Initialization ranges for founder genomes.
const (
	initSpeedMin      = 2.0
	initSpeedMax      = 4.0
	initVisionMin     = 8.0
	initVisionMax     = 15.0
	initMultiplierMin = 0.5
	initMultiplierMax = 1.5
)

// Color is an RGB triple with channels in [0, 1].
// Mutation re-rolls all three channels together, so it behaves as one gene.
type Color struct {
	R, G, B float64
}

// Genome is the heritable trait vector of an agent.
// It is a plain value: assigning or returning it copies it.
type Genome struct {
	Aggression         float64 `inspect:"bar,max:1"` // [0, 1]; drives the Hawk/Dove strategy
	Speed              float64 `inspect:"label"`     // >= MinSpeed
	Vision             float64 `inspect:"label"`     // >= MinVision; target search radius
	MutationMultiplier float64 `inspect:"label"`     // >= MinMultiplier; scales ordinary trait mutations
	Color              Color   `inspect:"skip"`
}

// Params holds the rates, step sizes and floors used by Mutate.
type Params struct {
	Rate     float64 // per-trait mutation probability
	MetaRate float64 // mutation probability for the multiplier gene

	AggressionStep float64
	SpeedStep      float64
	VisionStep     float64
	MetaStep       float64

	MinSpeed      float64
	MinVision     float64
	MinMultiplier float64
}

// ParamsFromConfig builds mutation parameters from the loaded configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Rate:           cfg.Mutation.Rate,
		MetaRate:       cfg.Mutation.MetaRate,
		AggressionStep: cfg.Genetics.AggressionStep,
		SpeedStep:      cfg.Genetics.SpeedStep,
		VisionStep:     cfg.Genetics.VisionStep,
		MetaStep:       cfg.Genetics.MetaStep,
		MinSpeed:       cfg.Genetics.MinSpeed,
		MinVision:      cfg.Genetics.MinVision,
		MinMultiplier:  cfg.Genetics.MinMultiplier,
	}
}

// DefaultParams returns the canonical parameter set.
func DefaultParams() Params {
	return Params{
		Rate:           0.1,
		MetaRate:       0.05,
		AggressionStep: 0.1,
		SpeedStep:      0.2,
		VisionStep:     0.5,
		MetaStep:       0.1,
		MinSpeed:       1.0,
		MinVision:      3.0,
		MinMultiplier:  0.1,
	}
}

// uniform draws from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func randomColor(rng *rand.Rand) Color {
	return Color{R: rng.Float64(), G: rng.Float64(), B: rng.Float64()}
}

// Create draws a founder genome, each trait independently from its
// initialization range.
func Create(rng *rand.Rand) Genome {
	return Genome{
		Aggression:         rng.Float64(),
		Speed:              uniform(rng, initSpeedMin, initSpeedMax),
		Vision:             uniform(rng, initVisionMin, initVisionMax),
		MutationMultiplier: uniform(rng, initMultiplierMin, initMultiplierMax),
		Color:              randomColor(rng),
	}
}

// pick returns a or b with equal probability.
func pick[T any](rng *rand.Rand, a, b T) T {
	if rng.Intn(2) == 0 {
		return a
	}
	return b
}

// Crossover builds a child gene by gene, copying each from one parent.
// Values are never blended.
func Crossover(rng *rand.Rand, a, b Genome) Genome {
	return Genome{
		Aggression:         pick(rng, a.Aggression, b.Aggression),
		Speed:              pick(rng, a.Speed, b.Speed),
		Vision:             pick(rng, a.Vision, b.Vision),
		MutationMultiplier: pick(rng, a.MutationMultiplier, b.MutationMultiplier),
		Color:              pick(rng, a.Color, b.Color),
	}
}

// Mutate returns a mutated copy of g.
//
// Aggression, speed and vision are shifted by a symmetric uniform offset
// scaled by g's own MutationMultiplier and then clamped; color is re-rolled.
// The multiplier itself mutates at MetaRate with an unscaled offset.
// Draw order: aggression, speed, vision, color, multiplier.
func Mutate(rng *rand.Rand, g Genome, p Params) Genome {
	m := g.MutationMultiplier

	if rng.Float64() < p.Rate {
		shift := uniform(rng, -p.AggressionStep, p.AggressionStep) * m
		g.Aggression = clamp(g.Aggression+shift, 0, 1)
	}

	if rng.Float64() < p.Rate {
		shift := uniform(rng, -p.SpeedStep, p.SpeedStep) * m
		g.Speed = max(p.MinSpeed, g.Speed+shift)
	}

	if rng.Float64() < p.Rate {
		shift := uniform(rng, -p.VisionStep, p.VisionStep) * m
		g.Vision = max(p.MinVision, g.Vision+shift)
	}

	if rng.Float64() < p.Rate {
		g.Color = randomColor(rng)
	}

	if rng.Float64() < p.MetaRate {
		shift := uniform(rng, -p.MetaStep, p.MetaStep)
		g.MutationMultiplier = max(p.MinMultiplier, g.MutationMultiplier+shift)
	}

	return g
}

// Reproduce is the only way offspring genomes are produced.
func Reproduce(rng *rand.Rand, a, b Genome, p Params) Genome {
	return Mutate(rng, Crossover(rng, a, b), p)
}

// Validate reports every trait outside its declared bounds.
func (g Genome) Validate(p Params) error {
	var errs []error
	if g.Aggression < 0 || g.Aggression > 1 {
		errs = append(errs, fmt.Errorf("aggression %v outside [0, 1]", g.Aggression))
	}
	if g.Speed < p.MinSpeed {
		errs = append(errs, fmt.Errorf("speed %v below %v", g.Speed, p.MinSpeed))
	}
	if g.Vision < p.MinVision {
		errs = append(errs, fmt.Errorf("vision %v below %v", g.Vision, p.MinVision))
	}
	if g.MutationMultiplier < p.MinMultiplier {
		errs = append(errs, fmt.Errorf("mutation multiplier %v below %v", g.MutationMultiplier, p.MinMultiplier))
	}
	for _, ch := range [3]float64{g.Color.R, g.Color.G, g.Color.B} {
		if ch < 0 || ch > 1 {
			errs = append(errs, fmt.Errorf("color channel %v outside [0, 1]", ch))
		}
	}
	return errors.Join(errs...)
}

// DisplayColor maps aggression onto a red (hawkish) to blue (dovish) gradient.
func (g Genome) DisplayColor() Color {
	return Color{R: g.Aggression, G: 0, B: 1 - g.Aggression}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
