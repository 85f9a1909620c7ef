package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/systems"
)

// act dispatches on the agent's state for this tick.
func (g *Game) act(e ecs.Entity, v *components.Vitals, dt float64) {
	switch v.State {
	case components.SeekingFood:
		g.seekFood(e, v, dt)
	case components.SeekingMate:
		g.seekMate(e, v, dt)
	default:
		g.wander(e, dt)
	}
}

// wander applies a random turn, moves forward and keeps the agent in the arena.
func (g *Game) wander(e ecs.Entity, dt float64) {
	pos := g.posMap.Get(e)
	heading := g.headingMap.Get(e)
	speed := g.genomeMap.Get(e).Speed

	systems.WanderTurn(g.rng, heading, g.cfg.Behavior.TurnChance, g.cfg.Derived.MaxTurnRad)
	systems.Advance(pos, *heading, speed, dt)
	systems.ClampToArena(pos, g.cfg.Derived.HalfWorld)
}

// moveToward faces target and advances one step, returning the new position.
func (g *Game) moveToward(e ecs.Entity, target components.Position, dt float64) components.Position {
	pos := g.posMap.Get(e)
	heading := g.headingMap.Get(e)
	speed := g.genomeMap.Get(e).Speed

	*heading = components.Facing(*pos, target)
	systems.Advance(pos, *heading, speed, dt)
	systems.ClampToArena(pos, g.cfg.Derived.HalfWorld)
	return *pos
}

func (g *Game) seekFood(e ecs.Entity, v *components.Vitals, dt float64) {
	if v.Target.Kind != components.TargetFood || !g.world.Alive(v.Target.Entity) {
		v.Target = g.nearestFood(e)
	}
	if v.Target.IsNone() {
		g.wander(e, dt)
		return
	}

	food := v.Target.Entity
	foodPos := *g.posMap.Get(food)
	pos := g.moveToward(e, foodPos, dt)
	if systems.Distance(pos, foodPos) < g.cfg.Behavior.ContactDistance {
		g.eat(e, food)
	}
}

func (g *Game) seekMate(e ecs.Entity, v *components.Vitals, dt float64) {
	if v.Target.Kind != components.TargetAgent || !g.world.Alive(v.Target.Entity) || v.Target.Entity == e {
		v.Target = g.nearestMate(e)
	}
	if v.Target.IsNone() {
		g.wander(e, dt)
		return
	}

	partner := v.Target.Entity
	if g.vitalsMap.Get(partner).State != components.SeekingMate {
		v.ClearTarget()
		g.wander(e, dt)
		return
	}

	partnerPos := *g.posMap.Get(partner)
	pos := g.moveToward(e, partnerPos, dt)
	if systems.Distance(pos, partnerPos) < g.cfg.Behavior.ContactDistance {
		g.mate(e, partner)
	}
}

// nearestFood returns the closest food within the agent's vision.
func (g *Game) nearestFood(e ecs.Entity) components.Target {
	origin := *g.posMap.Get(e)
	vision := g.genomeMap.Get(e).Vision

	g.candidates = g.candidates[:0]
	g.handles = g.handles[:0]
	query := g.foodFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		g.candidates = append(g.candidates, systems.Candidate{Pos: *pos, Enabled: true})
		g.handles = append(g.handles, query.Entity())
	}

	idx, _, ok := systems.Nearest(origin, vision, g.candidates)
	if !ok {
		return components.NoTarget
	}
	return components.FoodTarget(g.handles[idx])
}

// nearestMate returns the closest other agent within vision that is itself
// looking for a mate.
func (g *Game) nearestMate(e ecs.Entity) components.Target {
	origin := *g.posMap.Get(e)
	vision := g.genomeMap.Get(e).Vision

	g.candidates = g.candidates[:0]
	g.handles = g.handles[:0]
	query := g.agentFilter.Query()
	for query.Next() {
		other := query.Entity()
		pos, _, _, v := query.Get()
		g.candidates = append(g.candidates, systems.Candidate{
			Pos:     *pos,
			Enabled: v.State == components.SeekingMate,
			Self:    other == e,
		})
		g.handles = append(g.handles, other)
	}

	idx, _, ok := systems.Nearest(origin, vision, g.candidates)
	if !ok {
		return components.NoTarget
	}
	return components.AgentTarget(g.handles[idx])
}
