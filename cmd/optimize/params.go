package main

import (
	"github.com/pthm-cable/vehicles/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name string  // Human-readable name
	Path string  // Config path for logging
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// The order matches ApplyToConfig and ExtractFromConfig.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Contest payoffs
			{Name: "resource_value", Path: "contest.resource_value", Min: 5, Max: 80},
			{Name: "fight_cost", Path: "contest.fight_cost", Min: 0, Max: 120},
			{Name: "display_cost", Path: "contest.display_cost", Min: 0, Max: 30},
			// Energy economy
			{Name: "gain_food", Path: "energy.gain_food", Min: 5, Max: 80},
			{Name: "cost_reproduce", Path: "energy.cost_reproduce", Min: 10, Max: 100},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Contest.ResourceValue = clamped[0]
	cfg.Contest.FightCost = clamped[1]
	cfg.Contest.DisplayCost = clamped[2]
	cfg.Energy.GainFood = clamped[3]
	cfg.Energy.CostReproduce = clamped[4]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Contest.ResourceValue,
		cfg.Contest.FightCost,
		cfg.Contest.DisplayCost,
		cfg.Energy.GainFood,
		cfg.Energy.CostReproduce,
	}
}
