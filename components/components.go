// Package components defines ECS components for the simulation.
package components

import "github.com/mlange-42/ark/ecs"

// State is the behavioral mode of an agent, derived from its energy each tick.
type State uint8

const (
	Wandering State = iota
	SeekingFood
	SeekingMate
)

// TargetKind tags what a Target refers to.
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetAgent
	TargetFood
)

// Target is a weak reference to another agent or a food item.
// It holds only a handle; callers resolve it through the world on every use,
// so a removed entity reads as "not found" rather than dangling.
type Target struct {
	Kind   TargetKind
	Entity ecs.Entity
}

// NoTarget is the empty target.
var NoTarget = Target{}

// AgentTarget returns a target referring to another agent.
func AgentTarget(e ecs.Entity) Target {
	return Target{Kind: TargetAgent, Entity: e}
}

// FoodTarget returns a target referring to a food item.
func FoodTarget(e ecs.Entity) Target {
	return Target{Kind: TargetFood, Entity: e}
}

// IsNone reports whether the target is empty.
func (t Target) IsNone() bool {
	return t.Kind == TargetNone
}

// Food tags a resource entity. Food is relocated, never destroyed.
type Food struct {
	ID uint32
}
