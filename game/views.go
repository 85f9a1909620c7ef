package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/genetics"
)

// AgentView is a read-only copy of one agent's state.
type AgentView struct {
	Entity     ecs.Entity          `inspect:"skip"`
	ID         uint32              `inspect:"label"`
	Position   components.Position `inspect:"label,fmt:%.1f"`
	Heading    components.Heading  `inspect:"skip"`
	Genome     genetics.Genome     `inspect:"skip"`
	Energy     float64             `inspect:"bar,max:200"`
	State      components.State    `inspect:"label"`
	Target     components.Target   `inspect:"skip"`
	Generation int                 `inspect:"label"`
}

// Agents returns a copy of every living agent in world order.
func (g *Game) Agents() []AgentView {
	out := make([]AgentView, 0, g.agentCount)
	query := g.agentFilter.Query()
	for query.Next() {
		pos, heading, genome, v := query.Get()
		out = append(out, AgentView{
			Entity:     query.Entity(),
			ID:         v.ID,
			Position:   *pos,
			Heading:    *heading,
			Genome:     *genome,
			Energy:     v.Energy,
			State:      v.State,
			Target:     v.Target,
			Generation: v.Generation,
		})
	}
	return out
}

// Agent returns the state of one agent, or false if the handle is stale.
func (g *Game) Agent(e ecs.Entity) (AgentView, bool) {
	if !g.world.Alive(e) || !g.vitalsMap.Has(e) {
		return AgentView{}, false
	}
	v := g.vitalsMap.Get(e)
	return AgentView{
		Entity:     e,
		ID:         v.ID,
		Position:   *g.posMap.Get(e),
		Heading:    *g.headingMap.Get(e),
		Genome:     *g.genomeMap.Get(e),
		Energy:     v.Energy,
		State:      v.State,
		Target:     v.Target,
		Generation: v.Generation,
	}, true
}

// AgentPosition returns an agent's position, or false if the handle is stale.
func (g *Game) AgentPosition(e ecs.Entity) (components.Position, bool) {
	if !g.world.Alive(e) || !g.vitalsMap.Has(e) {
		return components.Position{}, false
	}
	return *g.posMap.Get(e), true
}

// Alive reports whether a handle still refers to a live entity.
func (g *Game) Alive(e ecs.Entity) bool {
	return g.world.Alive(e)
}

// FoodPositions returns the position of every food item in world order.
func (g *Game) FoodPositions() []components.Position {
	out := make([]components.Position, 0, g.foodCount)
	query := g.foodFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		out = append(out, *pos)
	}
	return out
}
