package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/vehicles/config"
	"github.com/pthm-cable/vehicles/game"
	"github.com/pthm-cable/vehicles/inspector"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	archivePath := flag.String("archive", "", "SQLite file to archive windows, bookmarks and lifetimes into")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stopOnExtinction := flag.Bool("stop-on-extinction", true, "Stop when the population reaches zero")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call")
	dumpAgents := flag.Int("dump-agents", 0, "Print the first N surviving agents to stderr on exit")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	g := game.NewGameWithOptions(game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		ArchivePath:    *archivePath,
		StepsPerUpdate: *stepsPerUpdate,
	})
	defer g.Unload()
	defer dump(g, *dumpAgents)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"population", g.Population(),
		"food", g.FoodCount(),
		"max_ticks", *maxTicks,
		"steps_per_update", *stepsPerUpdate,
	)

	for {
		g.UpdateHeadless()

		if *stopOnExtinction && g.Population() == 0 {
			g.LogWorldState("extinction")
			return
		}
		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			g.LogWorldState("max ticks reached")
			return
		}
		if ctx.Err() != nil {
			g.LogWorldState("interrupted")
			return
		}
	}
}

// dump writes an inspector view of up to n agents to stderr.
func dump(g *game.Game, n int) {
	agents := g.Agents()
	for i := 0; i < n && i < len(agents); i++ {
		fmt.Fprintf(os.Stderr, "agent %d\n%s\n", agents[i].ID, inspector.Describe(agents[i], agents[i].Genome))
	}
}
