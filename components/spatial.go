package components

import "math"

// Position represents an entity's world position.
// Agents move on the X/Z plane; Y is height above the ground.
type Position struct {
	X, Y, Z float64
}

// Heading represents an agent's yaw about the vertical axis.
type Heading struct {
	Yaw float64 // radians; 0 faces +Z
}

// Forward returns the unit direction the heading faces on the ground plane.
func (h Heading) Forward() (dx, dz float64) {
	return math.Sin(h.Yaw), math.Cos(h.Yaw)
}

// Facing returns the heading that points from p toward q.
func Facing(p, q Position) Heading {
	return Heading{Yaw: math.Atan2(q.X-p.X, q.Z-p.Z)}
}
