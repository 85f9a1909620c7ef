package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/genetics"
	"github.com/pthm-cable/vehicles/systems"
)

// seedWorld places the starting food and founder population.
func (g *Game) seedWorld() {
	cfg := g.cfg

	for i := 0; i < cfg.Population.StartingFood; i++ {
		g.spawnFood()
	}

	half := cfg.Derived.HalfWorld
	for i := 0; i < cfg.Population.Starting; i++ {
		pos := components.Position{
			X: g.uniform(-half, half),
			Y: cfg.World.AgentHeight,
			Z: g.uniform(-half, half),
		}
		g.spawnAgent(pos, genetics.Create(g.rng), 0)
	}
}

// uniform draws from [lo, hi).
func (g *Game) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// spawnAgent adds an agent to the live world with starting energy.
// It is structural: component pointers held by the caller are invalid afterwards.
func (g *Game) spawnAgent(pos components.Position, genome genetics.Genome, generation int) ecs.Entity {
	id := g.nextID
	g.nextID++

	heading := components.Heading{Yaw: g.rng.Float64() * 2 * math.Pi}
	vitals := components.Vitals{
		ID:         id,
		Energy:     g.cfg.Energy.Starting,
		State:      components.Wandering,
		Target:     components.NoTarget,
		Generation: generation,
		BornTick:   g.tick,
	}

	e := g.agentMapper.NewEntity(&pos, &heading, &genome, &vitals)
	g.agentCount++

	g.lifetimeTracker.Register(id, g.tick, generation, genome, vitals.Energy)
	if g.hooks != nil {
		g.hooks.AgentSpawned(e, pos, genome)
	}
	return e
}

// spawnFood creates a food item at a random location.
func (g *Game) spawnFood() ecs.Entity {
	pos := components.Position{}
	food := components.Food{ID: g.nextFoodID}
	g.nextFoodID++

	e := g.foodMapper.NewEntity(&pos, &food)
	g.foodCount++
	g.respawnFood(e)
	return e
}

// respawnFood moves a food item to a new uniform random location.
// Food is never removed, so handles to it stay valid for the whole run.
func (g *Game) respawnFood(food ecs.Entity) {
	half := g.cfg.Derived.HalfWorld
	pos := g.posMap.Get(food)
	pos.X = g.uniform(-half, half)
	pos.Y = g.cfg.World.FoodHeight
	pos.Z = g.uniform(-half, half)

	if g.hooks != nil {
		g.hooks.FoodMoved(food, *pos)
	}
}

// updateAgent charges movement, applies the lifecycle check and then acts.
func (g *Game) updateAgent(e ecs.Entity, dt float64) {
	cfg := g.cfg
	v := g.vitalsMap.Get(e)
	genome := g.genomeMap.Get(e)

	if systems.DebitMovement(&v.Energy, cfg.Energy.CostMove, genome.Speed, dt) {
		g.die(e)
		return
	}

	v.State = systems.EvaluateState(v.Energy, cfg.Behavior.HungerThreshold, cfg.Behavior.ReproduceThreshold)
	g.act(e, v, dt)
}

// die removes an agent from the world. Removing a dead handle is a no-op.
func (g *Game) die(e ecs.Entity) {
	if !g.world.Alive(e) {
		return
	}

	v := g.vitalsMap.Get(e)
	if rec, ok := g.lifetimeTracker.Remove(v.ID, g.tick); ok {
		g.pendingLifetimes = append(g.pendingLifetimes, rec)
	}
	g.collector.RecordDeath()

	if g.hooks != nil {
		g.hooks.AgentDestroyed(e)
	}

	g.world.RemoveEntity(e)
	g.agentCount--
}
