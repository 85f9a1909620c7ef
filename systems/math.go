package systems

import (
	"math"

	"github.com/pthm-cable/vehicles/components"
)

// clampFloat clamps a value between min and max.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// Distance functions

// DistanceSq returns the squared Euclidean distance between two points.
func DistanceSq(a, b components.Position) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return dx*dx + dy*dy + dz*dz
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b components.Position) float64 {
	return math.Sqrt(DistanceSq(a, b))
}
