package telemetry

import (
	"math"
	"strings"
	"testing"

	"github.com/pthm-cable/vehicles/genetics"
)

func sample(aggression, speed, vision, mult, energy float64, gen int) AgentSample {
	return AgentSample{
		Genome: genetics.Genome{
			Aggression:         aggression,
			Speed:              speed,
			Vision:             vision,
			MutationMultiplier: mult,
		},
		Energy:     energy,
		Generation: gen,
	}
}

func TestAggregate(t *testing.T) {
	samples := []AgentSample{
		sample(0.2, 2, 10, 1.0, 100, 0),
		sample(0.8, 4, 12, 0.5, 50, 3),
		sample(0.6, 3, 8, 1.5, 150, 1),
	}

	s := Aggregate(samples, 0.5)

	if s.Extinct {
		t.Fatal("non-empty population reported extinct")
	}
	if s.Population != 3 {
		t.Errorf("population = %d, want 3", s.Population)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"avg aggression", s.AvgAggression, (0.2 + 0.8 + 0.6) / 3},
		{"avg speed", s.AvgSpeed, 3},
		{"avg vision", s.AvgVision, 10},
		{"avg mutation", s.AvgMutation, 1},
		{"hawk fraction", s.HawkFraction, 2.0 / 3},
		{"energy mean", s.EnergyMean, 100},
		{"energy p50", s.EnergyP50, 100},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if s.MaxGeneration != 3 {
		t.Errorf("max generation = %d, want 3", s.MaxGeneration)
	}
}

func TestAggregateExtinct(t *testing.T) {
	s := Aggregate(nil, 0.5)
	if !s.Extinct {
		t.Fatal("empty population should be extinct")
	}
	for _, v := range []float64{s.AvgAggression, s.AvgSpeed, s.AvgVision, s.AvgMutation, s.HawkFraction, s.EnergyMean} {
		if math.IsNaN(v) || v != 0 {
			t.Errorf("expected zero averages for extinct population, got %v", v)
		}
	}
	if got := s.Summary(); got != "POPULATION EXTINCT" {
		t.Errorf("summary = %q", got)
	}
}

func TestAggregateSingleAgent(t *testing.T) {
	s := Aggregate([]AgentSample{sample(0.7, 2, 9, 1, 80, 0)}, 0.5)
	if math.IsNaN(s.StdAggression) || s.StdAggression != 0 {
		t.Errorf("single agent std = %v, want 0", s.StdAggression)
	}
	if s.HawkFraction != 1 {
		t.Errorf("hawk fraction = %v, want 1", s.HawkFraction)
	}
}

func TestEnergyQuantiles(t *testing.T) {
	tests := []struct {
		name          string
		values        []float64
		p10, p50, p90 float64
	}{
		{"empty", nil, 0, 0, 0},
		{"single", []float64{5}, 5, 5, 5},
		{"unsorted five", []float64{5, 1, 4, 2, 3}, 1, 3, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p10, p50, p90 := EnergyQuantiles(tt.values)
			if p10 != tt.p10 || p50 != tt.p50 || p90 != tt.p90 {
				t.Errorf("got (%v, %v, %v), want (%v, %v, %v)", p10, p50, p90, tt.p10, tt.p50, tt.p90)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	s := Aggregate([]AgentSample{sample(0.5, 3, 10, 1, 100, 0)}, 0.5)
	text := s.Summary()
	for _, want := range []string{"Population: 1", "Avg. Aggression: 0.50", "Avg. Speed: 3.00", "Avg. Vision: 10.00", "Avg. Mut-Multiplier: 1.00"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}
