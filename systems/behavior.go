package systems

import (
	"math/rand"

	"github.com/pthm-cable/vehicles/components"
)

// EvaluateState derives the behavioral state from energy alone.
// It is re-evaluated every tick and never latched.
func EvaluateState(energy, hungerThreshold, reproduceThreshold float64) components.State {
	switch {
	case energy > reproduceThreshold:
		return components.SeekingMate
	case energy < hungerThreshold:
		return components.SeekingFood
	default:
		return components.Wandering
	}
}

// WanderTurn applies a random heading change with the given per-tick chance.
// maxTurn is in radians; the change is uniform in [-maxTurn, maxTurn].
// Consumes one draw, plus one more when the turn fires.
func WanderTurn(rng *rand.Rand, h *components.Heading, chance, maxTurn float64) {
	if rng.Float64() < chance {
		h.Yaw += (rng.Float64()*2 - 1) * maxTurn
	}
}

// Advance moves pos along the heading by speed*dt on the ground plane.
func Advance(pos *components.Position, h components.Heading, speed, dt float64) {
	dx, dz := h.Forward()
	pos.X += dx * speed * dt
	pos.Z += dz * speed * dt
}

// ClampToArena keeps pos inside [-half, half] on X and Z.
// Height is not constrained by the arena.
func ClampToArena(pos *components.Position, half float64) {
	pos.X = clampFloat(pos.X, -half, half)
	pos.Z = clampFloat(pos.Z, -half, half)
}
