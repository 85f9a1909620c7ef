package systems

// MovementCost is the energy an agent spends moving for one tick.
// It is never negative for non-negative inputs.
func MovementCost(costMove, speed, dt float64) float64 {
	return costMove * speed * dt
}

// DebitMovement charges the movement cost and reports whether the agent
// is now starving (energy below zero).
func DebitMovement(energy *float64, costMove, speed, dt float64) (starving bool) {
	*energy -= MovementCost(costMove, speed, dt)
	return *energy < 0
}
