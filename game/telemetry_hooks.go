package game

import (
	"log/slog"

	"github.com/pthm-cable/vehicles/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	pop := g.Stats()
	stats := g.collector.Flush(g.tick, pop, g.foodCount)
	perfStats := g.perfCollector.Stats()
	g.lastWindow = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if err := g.archive.WriteWindow(stats); err != nil {
		slog.Error("failed to archive window", "error", err)
	}
	g.writeLifetimes()

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if err := g.archive.WriteBookmark(bm); err != nil {
			slog.Error("failed to archive bookmark", "error", err)
		}
	}
}

// writeLifetimes flushes lives that ended since the last call.
func (g *Game) writeLifetimes() {
	if len(g.pendingLifetimes) == 0 {
		return
	}
	if err := g.outputManager.WriteLifetimes(g.pendingLifetimes); err != nil {
		slog.Error("failed to write lifetimes", "error", err)
	}
	if err := g.archive.WriteLifetimes(g.pendingLifetimes); err != nil {
		slog.Error("failed to archive lifetimes", "error", err)
	}
	g.pendingLifetimes = g.pendingLifetimes[:0]
}

// Stats aggregates the living population. Peak energies are refreshed as a side effect.
func (g *Game) Stats() telemetry.PopulationStats {
	samples := make([]telemetry.AgentSample, 0, g.agentCount)

	query := g.agentFilter.Query()
	for query.Next() {
		_, _, genome, v := query.Get()
		samples = append(samples, telemetry.AgentSample{
			Genome:     *genome,
			Energy:     v.Energy,
			Generation: v.Generation,
		})
		g.lifetimeTracker.UpdateEnergy(v.ID, v.Energy)
	}

	return telemetry.Aggregate(samples, g.cfg.Contest.AggressionThreshold)
}
