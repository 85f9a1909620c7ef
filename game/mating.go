package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/genetics"
	"github.com/pthm-cable/vehicles/systems"
)

// mate produces one child from two adjacent agents. Both parents pay the
// reproduction cost and return to wandering. The child joins the live world
// but is not visited until the next tick.
func (g *Game) mate(self, partner ecs.Entity) {
	if !g.world.Alive(self) || !g.world.Alive(partner) {
		return
	}

	cfg := g.cfg
	sv, pv := g.vitalsMap.Get(self), g.vitalsMap.Get(partner)
	child := genetics.Reproduce(g.rng, *g.genomeMap.Get(self), *g.genomeMap.Get(partner), g.params)

	sv.Energy -= cfg.Energy.CostReproduce
	pv.Energy -= cfg.Energy.CostReproduce
	sv.State, pv.State = components.Wandering, components.Wandering
	sv.ClearTarget()
	pv.ClearTarget()

	g.lifetimeTracker.RecordChild(sv.ID)
	g.lifetimeTracker.RecordChild(pv.ID)
	g.collector.RecordMating()

	offset := cfg.Reproduction.SpawnOffset
	pos := *g.posMap.Get(self)
	pos.X += g.uniform(-offset, offset)
	pos.Z += g.uniform(-offset, offset)
	systems.ClampToArena(&pos, cfg.Derived.HalfWorld)

	generation := max(sv.Generation, pv.Generation) + 1

	// Structural change: sv and pv are not used past this point.
	g.spawnAgent(pos, child, generation)
	g.collector.RecordBirth()
}
