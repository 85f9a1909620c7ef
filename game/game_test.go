package game

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/config"
	"github.com/pthm-cable/vehicles/genetics"
	"github.com/pthm-cable/vehicles/systems"
	"github.com/pthm-cable/vehicles/telemetry"
)

// emptyConfig returns defaults with no seeded agents or food.
func emptyConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Population.Starting = 0
	cfg.Population.StartingFood = 0
	return cfg
}

// wideConfig enlarges the arena so respawned food lands far from the test site.
func wideConfig(t *testing.T) *config.Config {
	cfg := emptyConfig(t)
	cfg.World.Size = 2000
	cfg.Derived.HalfWorld = 1000
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config) *Game {
	t.Helper()
	g := NewGameWithOptions(Options{Seed: 1, Config: cfg})
	t.Cleanup(g.Unload)
	return g
}

func testGenome(aggression float64) genetics.Genome {
	return genetics.Genome{
		Aggression:         aggression,
		Speed:              2,
		Vision:             3,
		MutationMultiplier: 1,
		Color:              genetics.Color{R: 0.5, G: 0.5, B: 0.5},
	}
}

func placeAgent(g *Game, x, z float64, genome genetics.Genome, energy float64) ecs.Entity {
	pos := components.Position{X: x, Y: g.cfg.World.AgentHeight, Z: z}
	e := g.spawnAgent(pos, genome, 0)
	g.vitalsMap.Get(e).Energy = energy
	return e
}

func placeFood(g *Game, x, z float64) ecs.Entity {
	e := g.spawnFood()
	*g.posMap.Get(e) = components.Position{X: x, Y: g.cfg.World.FoodHeight, Z: z}
	return e
}

func moveCost(g *Game, speed float64) float64 {
	return systems.MovementCost(g.cfg.Energy.CostMove, speed, g.cfg.Physics.DT)
}

func TestSeedingPopulatesWorld(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	g := newTestGame(t, cfg)

	if g.Population() != cfg.Population.Starting {
		t.Errorf("population = %d, want %d", g.Population(), cfg.Population.Starting)
	}
	if len(g.FoodPositions()) != cfg.Population.StartingFood {
		t.Errorf("food = %d, want %d", len(g.FoodPositions()), cfg.Population.StartingFood)
	}
	for _, a := range g.Agents() {
		if a.Energy != cfg.Energy.Starting {
			t.Errorf("founder energy = %v, want %v", a.Energy, cfg.Energy.Starting)
		}
		if a.Generation != 0 {
			t.Errorf("founder generation = %d", a.Generation)
		}
		if a.Position.Y != cfg.World.AgentHeight {
			t.Errorf("founder height = %v", a.Position.Y)
		}
	}
}

// Scenario A: a hungry agent with nothing in sight wanders.
func TestHungryAgentWithoutFoodWanders(t *testing.T) {
	g := newTestGame(t, emptyConfig(t))
	start := g.cfg.Behavior.HungerThreshold - 1
	e := placeAgent(g, 0, 0, testGenome(0.5), start)

	g.Step(g.cfg.Physics.DT)

	a, ok := g.Agent(e)
	if !ok {
		t.Fatal("agent died")
	}
	if a.State != components.SeekingFood {
		t.Errorf("state = %v, want SEEKING_FOOD", a.State)
	}
	if a.Position.X == 0 && a.Position.Z == 0 {
		t.Error("agent did not move")
	}
	if want := start - moveCost(g, 2); a.Energy != want {
		t.Errorf("energy = %v, want %v", a.Energy, want)
	}
	if !a.Target.IsNone() {
		t.Errorf("unexpected target %+v", a.Target)
	}
}

// Scenario B: two adjacent agents seeking mates produce exactly one child.
func TestMatingProducesOneChild(t *testing.T) {
	g := newTestGame(t, emptyConfig(t))
	a := placeAgent(g, 0, 0, testGenome(0.2), 200)
	b := placeAgent(g, 0.5, 0, testGenome(0.8), 200)
	g.vitalsMap.Get(a).State = components.SeekingMate
	g.vitalsMap.Get(b).State = components.SeekingMate

	g.Step(g.cfg.Physics.DT)

	if g.Population() != 3 {
		t.Fatalf("population = %d, want 3", g.Population())
	}
	cost := g.cfg.Energy.CostReproduce
	for _, e := range []ecs.Entity{a, b} {
		p, _ := g.Agent(e)
		want := 200 - cost - moveCost(g, 2)
		if math.Abs(p.Energy-want) > 1e-9 {
			t.Errorf("parent energy = %v, want %v", p.Energy, want)
		}
	}

	var child AgentView
	for _, v := range g.Agents() {
		if v.Entity != a && v.Entity != b {
			child = v
		}
	}
	if child.Generation != 1 {
		t.Errorf("child generation = %d, want 1", child.Generation)
	}
	// Full starting energy means the child was not visited on its birth tick.
	if child.Energy != g.cfg.Energy.Starting {
		t.Errorf("child energy = %v, want %v", child.Energy, g.cfg.Energy.Starting)
	}
	if err := child.Genome.Validate(g.params); err != nil {
		t.Errorf("child genome invalid: %v", err)
	}
	if agg := child.Genome.Aggression; math.Abs(agg-0.2) > 0.11 && math.Abs(agg-0.8) > 0.11 {
		t.Errorf("child aggression %v not near either parent", agg)
	}
	if d := systems.Distance(child.Position, components.Position{X: 0.25, Y: child.Position.Y}); d > 2 {
		t.Errorf("child placed %v from the parents", d)
	}
}

// Scenario C: an uncontested meal.
func TestUncontestedMeal(t *testing.T) {
	g := newTestGame(t, wideConfig(t))
	start := 40.0
	e := placeAgent(g, 0, 0, testGenome(0.5), start)
	food := placeFood(g, 0.5, 0)
	beforePos := *g.posMap.Get(food)

	g.Step(g.cfg.Physics.DT)

	a, _ := g.Agent(e)
	if want := start - moveCost(g, 2) + g.cfg.Energy.GainFood; a.Energy != want {
		t.Errorf("energy = %v, want %v", a.Energy, want)
	}
	if *g.posMap.Get(food) == beforePos {
		t.Error("food did not respawn")
	}
	if !a.Target.IsNone() {
		t.Error("target not cleared after eating")
	}
	if g.FoodCount() != 1 {
		t.Errorf("food count = %d, want 1", g.FoodCount())
	}
}

// Scenario D: two hawks contest one resource.
func TestHawkHawkContest(t *testing.T) {
	g := newTestGame(t, wideConfig(t))
	start := 40.0
	a := placeAgent(g, 0, 0, testGenome(0.9), start)
	b := placeAgent(g, 0.3, 0, testGenome(0.9), start)
	g.vitalsMap.Get(b).State = components.SeekingFood
	food := placeFood(g, 0.1, 0)
	beforePos := *g.posMap.Get(food)

	g.Step(g.cfg.Physics.DT)

	halfC := g.cfg.Contest.FightCost / 2
	v := g.cfg.Contest.ResourceValue
	mc := moveCost(g, 2)

	av, _ := g.Agent(a)
	bv, _ := g.Agent(b)
	da := av.Energy + mc - start
	db := bv.Energy + mc - start

	lose := -halfC
	win := -halfC + v
	switch {
	case math.Abs(da-win) < 1e-9 && math.Abs(db-lose) < 1e-9:
	case math.Abs(da-lose) < 1e-9 && math.Abs(db-win) < 1e-9:
	default:
		t.Errorf("deltas (%v, %v), want one winner at %v and one loser at %v", da, db, win, lose)
	}
	if *g.posMap.Get(food) == beforePos {
		t.Error("food did not respawn after contest")
	}
	if !av.Target.IsNone() {
		t.Error("initiator target not cleared")
	}
}

func TestContestRequiresHungryRival(t *testing.T) {
	g := newTestGame(t, wideConfig(t))
	start := 40.0
	a := placeAgent(g, 0, 0, testGenome(0.9), start)
	b := placeAgent(g, 0.3, 0, testGenome(0.9), 100) // content, so wandering
	placeFood(g, 0.1, 0)

	g.Step(g.cfg.Physics.DT)

	av, _ := g.Agent(a)
	if want := start - moveCost(g, 2) + g.cfg.Energy.GainFood; av.Energy != want {
		t.Errorf("energy = %v, want uncontested meal %v", av.Energy, want)
	}
	bv, _ := g.Agent(b)
	if want := 100 - moveCost(g, 2); bv.Energy != want {
		t.Errorf("bystander energy = %v, want %v", bv.Energy, want)
	}
}

func TestStarvationRemovesAgent(t *testing.T) {
	g := newTestGame(t, emptyConfig(t))
	e := placeAgent(g, 0, 0, testGenome(0.5), 0.0001)
	survivor := placeAgent(g, 5, 5, testGenome(0.5), 100)

	g.Step(g.cfg.Physics.DT)

	if g.Alive(e) {
		t.Fatal("starving agent still alive")
	}
	if _, ok := g.AgentPosition(e); ok {
		t.Error("stale handle resolved to a position")
	}
	if !g.Alive(survivor) {
		t.Error("healthy agent removed")
	}
	if g.Population() != 1 {
		t.Errorf("population = %d, want 1", g.Population())
	}

	// Removing twice is a no-op.
	g.die(e)
	if g.Population() != 1 {
		t.Errorf("double death changed population to %d", g.Population())
	}
}

func TestStaleMateTargetDegradesToWander(t *testing.T) {
	g := newTestGame(t, emptyConfig(t))
	// The partner acts first and starves, leaving the seeker a stale handle.
	partner := placeAgent(g, 2, 0, testGenome(0.5), 0.0001)
	seeker := placeAgent(g, 0, 0, testGenome(0.5), 200)
	g.vitalsMap.Get(partner).State = components.SeekingMate
	g.vitalsMap.Get(seeker).Target = components.AgentTarget(partner)

	g.Step(g.cfg.Physics.DT)

	if g.Alive(partner) {
		t.Fatal("partner should have starved")
	}
	s, ok := g.Agent(seeker)
	if !ok {
		t.Fatal("seeker died")
	}
	if !s.Target.IsNone() {
		t.Errorf("seeker target = %+v, want none", s.Target)
	}
}

func TestMateTargetNotSeekingIsCleared(t *testing.T) {
	g := newTestGame(t, emptyConfig(t))
	seeker := placeAgent(g, 0, 0, testGenome(0.5), 200)
	other := placeAgent(g, 2, 0, testGenome(0.5), 100)
	g.vitalsMap.Get(seeker).Target = components.AgentTarget(other)

	g.Step(g.cfg.Physics.DT)

	s, _ := g.Agent(seeker)
	if !s.Target.IsNone() {
		t.Errorf("target %+v should be cleared when partner is not seeking a mate", s.Target)
	}
	if g.Population() != 2 {
		t.Errorf("population = %d, want 2", g.Population())
	}
}

func TestExtinctionIsReported(t *testing.T) {
	cfg := emptyConfig(t)
	var windows []telemetry.WindowStats
	g := NewGameWithOptions(Options{
		Seed:           3,
		Config:         cfg,
		StatsWindowSec: cfg.Physics.DT,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	defer g.Unload()

	for i := 0; i < 3; i++ {
		placeAgent(g, float64(i), 0, testGenome(0.5), 0.0001)
	}
	g.Step(cfg.Physics.DT)

	if g.Population() != 0 {
		t.Fatalf("population = %d, want 0", g.Population())
	}
	s := g.Stats()
	if !s.Extinct || s.Summary() != "POPULATION EXTINCT" {
		t.Errorf("expected extinct stats, got %+v", s)
	}
	if len(windows) != 1 || windows[0].Deaths != 3 || !windows[0].Extinct() {
		t.Errorf("unexpected windows %+v", windows)
	}

	// Stepping an empty world is harmless.
	g.Step(cfg.Physics.DT)
}

type recordingHooks struct {
	spawned, destroyed, foodMoved int
}

func (h *recordingHooks) AgentSpawned(ecs.Entity, components.Position, genetics.Genome) { h.spawned++ }
func (h *recordingHooks) AgentDestroyed(ecs.Entity)                                     { h.destroyed++ }
func (h *recordingHooks) FoodMoved(ecs.Entity, components.Position)                     { h.foodMoved++ }

func TestHooksMirrorLifecycle(t *testing.T) {
	cfg := emptyConfig(t)
	cfg.Population.Starting = 4
	cfg.Population.StartingFood = 6
	hooks := &recordingHooks{}
	g := NewGameWithOptions(Options{Seed: 5, Config: cfg, Hooks: hooks})
	defer g.Unload()

	if hooks.spawned != 4 || hooks.foodMoved != 6 {
		t.Fatalf("after seeding: spawned=%d food=%d", hooks.spawned, hooks.foodMoved)
	}

	e := placeAgent(g, 0, 0, testGenome(0.5), 0.0001)
	g.Step(cfg.Physics.DT)
	if g.Alive(e) || hooks.destroyed < 1 {
		t.Errorf("expected destroy hook, got %d", hooks.destroyed)
	}
}

func TestDeterministicForSeed(t *testing.T) {
	run := func() []AgentView {
		cfg, err := config.Load("")
		if err != nil {
			t.Fatal(err)
		}
		g := NewGameWithOptions(Options{Seed: 99, Config: cfg})
		defer g.Unload()
		for i := 0; i < 300; i++ {
			g.UpdateHeadless()
		}
		return g.Agents()
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("population diverged: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("agent %d diverged:\n%+v\n%+v", i, a[i], b[i])
		}
	}
}

func TestLongRunInvariants(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	g := newTestGame(t, cfg)
	half := cfg.Derived.HalfWorld

	for i := 0; i < 1200; i++ {
		g.UpdateHeadless()
	}

	if g.FoodCount() != cfg.Population.StartingFood || len(g.FoodPositions()) != cfg.Population.StartingFood {
		t.Errorf("food count changed to %d", g.FoodCount())
	}
	for _, f := range g.FoodPositions() {
		if math.Abs(f.X) > half || math.Abs(f.Z) > half {
			t.Errorf("food outside arena: %+v", f)
		}
	}
	agents := g.Agents()
	if len(agents) != g.Population() {
		t.Errorf("population counter %d disagrees with world %d", g.Population(), len(agents))
	}
	for _, a := range agents {
		if err := a.Genome.Validate(g.params); err != nil {
			t.Errorf("agent %d: %v", a.ID, err)
		}
		if math.Abs(a.Position.X) > half || math.Abs(a.Position.Z) > half {
			t.Errorf("agent %d outside arena: %+v", a.ID, a.Position)
		}
	}
}

func TestOutputSinks(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")
	db := filepath.Join(dir, "runs.db")
	g := NewGameWithOptions(Options{
		Seed:           7,
		Config:         cfg,
		StatsWindowSec: 1,
		OutputDir:      out,
		ArchivePath:    db,
	})
	for i := 0; i < 180; i++ {
		g.UpdateHeadless()
	}
	runID := g.archive.RunID()
	g.Unload()

	for _, name := range []string{"telemetry.csv", "perf.csv", "bookmarks.csv", "lifetimes.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	archive, err := telemetry.OpenArchive(db, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer archive.Close()
	windows, err := archive.Windows(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(windows) != 3 {
		t.Errorf("archived %d windows, want 3", len(windows))
	}
}
