package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/systems"
	"github.com/pthm-cable/vehicles/telemetry"
)

// eat resolves an agent reaching food. If another hungry agent is at the
// same food the two contest it, otherwise the agent takes an uncontested meal.
// The food respawns either way.
func (g *Game) eat(e, food ecs.Entity) {
	v := g.vitalsMap.Get(e)
	foodPos := *g.posMap.Get(food)

	if rival, ok := g.findCompetitor(e, foodPos); ok {
		g.compete(e, rival)
	} else {
		v.Energy += g.cfg.Energy.GainFood
		g.collector.RecordMeal()
		g.lifetimeTracker.RecordMeal(v.ID)
		g.lifetimeTracker.UpdateEnergy(v.ID, v.Energy)
	}

	g.respawnFood(food)
	v.ClearTarget()
}

// findCompetitor returns the first other agent, in world order, that is
// seeking food within contact distance of foodPos.
func (g *Game) findCompetitor(e ecs.Entity, foodPos components.Position) (ecs.Entity, bool) {
	contact := g.cfg.Behavior.ContactDistance

	var rival ecs.Entity
	found := false
	query := g.agentFilter.Query()
	for query.Next() {
		if found {
			continue // drain the query
		}
		other := query.Entity()
		if other == e {
			continue
		}
		pos, _, _, v := query.Get()
		if v.State == components.SeekingFood && systems.Distance(*pos, foodPos) < contact {
			rival = other
			found = true
		}
	}
	return rival, found
}

// compete plays one Hawk-Dove contest between self and other and commits the
// payoffs to both. Both targets are cleared.
func (g *Game) compete(self, other ecs.Entity) {
	threshold := g.cfg.Contest.AggressionThreshold
	sv, ov := g.vitalsMap.Get(self), g.vitalsMap.Get(other)
	ss := systems.StrategyFor(g.genomeMap.Get(self).Aggression, threshold)
	ots := systems.StrategyFor(g.genomeMap.Get(other).Aggression, threshold)

	out := systems.ResolveContest(ss, ots, g.payoff, g.coinFlip)
	sv.Energy += out.SelfDelta
	ov.Energy += out.OtherDelta
	ov.ClearTarget()

	selfWon := out.Winner == systems.WinnerSelf
	g.lifetimeTracker.RecordContest(sv.ID, selfWon)
	g.lifetimeTracker.RecordContest(ov.ID, !selfWon)
	g.lifetimeTracker.UpdateEnergy(sv.ID, sv.Energy)
	g.lifetimeTracker.UpdateEnergy(ov.ID, ov.Energy)
	g.collector.RecordContest(contestKind(ss, ots))
}

// coinFlip is the fair coin for symmetric contests.
func (g *Game) coinFlip() bool {
	return g.rng.Intn(2) == 0
}

func contestKind(a, b systems.Strategy) telemetry.ContestKind {
	switch {
	case a == systems.Hawk && b == systems.Hawk:
		return telemetry.ContestHawkHawk
	case a == systems.Dove && b == systems.Dove:
		return telemetry.ContestDoveDove
	default:
		return telemetry.ContestHawkDove
	}
}
