package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/genetics"
)

// Hooks lets a renderer mirror simulation records with visual objects.
// All methods are called synchronously from Step.
type Hooks interface {
	AgentSpawned(e ecs.Entity, pos components.Position, g genetics.Genome)
	AgentDestroyed(e ecs.Entity)
	FoodMoved(e ecs.Entity, pos components.Position)
}
