package game

import "log/slog"

// LogWorldState logs a population summary at the current tick.
func (g *Game) LogWorldState(msg string) {
	s := g.Stats()
	slog.Info(msg,
		"tick", g.tick,
		"population", s.Population,
		"extinct", s.Extinct,
		"food", g.foodCount,
		"avg_aggression", s.AvgAggression,
		"avg_speed", s.AvgSpeed,
		"avg_vision", s.AvgVision,
		"avg_mutation", s.AvgMutation,
		"hawk_fraction", s.HawkFraction,
		"max_generation", s.MaxGeneration,
	)
}
