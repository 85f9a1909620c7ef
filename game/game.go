// Package game owns the simulation state and advances it one tick at a time.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/config"
	"github.com/pthm-cable/vehicles/genetics"
	"github.com/pthm-cable/vehicles/systems"
	"github.com/pthm-cable/vehicles/telemetry"
)

// Options configures a simulation run.
type Options struct {
	Seed           int64
	Config         *config.Config // nil = config.Cfg()
	LogStats       bool
	StatsWindowSec float64 // 0 = telemetry.stats_window
	OutputDir      string  // CSV logs and config snapshot; empty disables
	ArchivePath    string  // SQLite run archive; empty disables
	StepsPerUpdate int     // ticks per UpdateHeadless call; < 1 means 1
	Hooks          Hooks
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg    *config.Config
	world  *ecs.World
	rng    *rand.Rand
	seed   int64
	params genetics.Params
	payoff systems.Payoff

	// Agents: position, heading, genome, vitals
	agentMapper *ecs.Map4[
		components.Position,
		components.Heading,
		genetics.Genome,
		components.Vitals,
	]
	agentFilter *ecs.Filter4[
		components.Position,
		components.Heading,
		genetics.Genome,
		components.Vitals,
	]

	// Food resources
	foodMapper *ecs.Map2[components.Position, components.Food]
	foodFilter *ecs.Filter2[components.Position, components.Food]

	// Individual component mappers for lookups
	posMap     *ecs.Map[components.Position]
	headingMap *ecs.Map[components.Heading]
	genomeMap  *ecs.Map[genetics.Genome]
	vitalsMap  *ecs.Map[components.Vitals]

	hooks Hooks

	// State
	tick           int32
	nextID         uint32
	nextFoodID     uint32
	agentCount     int
	foodCount      int
	stepsPerUpdate int

	// Scratch buffers reused across ticks
	snapshot   []ecs.Entity
	candidates []systems.Candidate
	handles    []ecs.Entity

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	lifetimeTracker  *telemetry.LifetimeTracker
	outputManager    *telemetry.OutputManager
	archive          *telemetry.Archive
	pendingLifetimes []telemetry.LifetimeRecord
	lastWindow       telemetry.WindowStats
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
}

// NewGameWithOptions creates a simulation and seeds the initial food and population.
// Output sinks that fail to open are logged and disabled; the run continues.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	world := ecs.NewWorld()

	g := &Game{
		cfg:    cfg,
		world:  world,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		seed:   opts.Seed,
		params: genetics.ParamsFromConfig(cfg),
		payoff: systems.Payoff{
			V: cfg.Contest.ResourceValue,
			C: cfg.Contest.FightCost,
			D: cfg.Contest.DisplayCost,
		},
		agentMapper: ecs.NewMap4[
			components.Position,
			components.Heading,
			genetics.Genome,
			components.Vitals,
		](world),
		agentFilter: ecs.NewFilter4[
			components.Position,
			components.Heading,
			genetics.Genome,
			components.Vitals,
		](world),
		foodMapper: ecs.NewMap2[components.Position, components.Food](world),
		foodFilter: ecs.NewFilter2[components.Position, components.Food](world),
		posMap:     ecs.NewMap[components.Position](world),
		headingMap: ecs.NewMap[components.Heading](world),
		genomeMap:  ecs.NewMap[genetics.Genome](world),
		vitalsMap:  ecs.NewMap[components.Vitals](world),
		hooks:      opts.Hooks,

		stepsPerUpdate: max(1, opts.StepsPerUpdate),
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Physics.DT)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize)
	g.lifetimeTracker = telemetry.NewLifetimeTracker()

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	}
	g.outputManager = om
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	archive, err := telemetry.OpenArchive(opts.ArchivePath, opts.Seed)
	if err != nil {
		slog.Error("failed to open archive", "error", err)
	}
	g.archive = archive

	g.seedWorld()

	return g
}

// UpdateHeadless advances the simulation by the configured number of fixed steps.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(g.cfg.Physics.DT)
	}
}

// Step advances the simulation by one tick of dt seconds.
//
// The set of live agents is captured before any agent acts. Births and deaths
// during the tick go straight to the live world: a child is not visited until
// the next tick and an agent that died earlier in the tick is skipped.
func (g *Game) Step(dt float64) {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseSnapshot)
	g.snapshot = g.snapshot[:0]
	query := g.agentFilter.Query()
	for query.Next() {
		g.snapshot = append(g.snapshot, query.Entity())
	}

	g.perfCollector.StartPhase(telemetry.PhaseAgents)
	for _, e := range g.snapshot {
		if !g.world.Alive(e) {
			continue
		}
		g.updateAgent(e, dt)
	}

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Unload flushes pending records and closes output sinks.
func (g *Game) Unload() {
	g.writeLifetimes()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	if err := g.archive.Close(); err != nil {
		slog.Error("failed to close archive", "error", err)
	}
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Seed returns the RNG seed of the run.
func (g *Game) Seed() int64 {
	return g.seed
}

// Population returns the number of living agents.
func (g *Game) Population() int {
	return g.agentCount
}

// FoodCount returns the number of food items. It never changes after seeding.
func (g *Game) FoodCount() int {
	return g.foodCount
}

// Config returns the configuration the run was built with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// LastWindow returns the most recently flushed stats window.
func (g *Game) LastWindow() telemetry.WindowStats {
	return g.lastWindow
}
