package systems

import "github.com/pthm-cable/vehicles/components"

// Candidate is one entry considered by Nearest.
type Candidate struct {
	Pos     components.Position
	Enabled bool
	Self    bool // the seeker itself; never selected
}

// Nearest returns the index of the closest enabled, non-self candidate
// strictly closer than vision. Ties keep the first candidate encountered.
func Nearest(origin components.Position, vision float64, candidates []Candidate) (idx int, dist float64, ok bool) {
	idx = -1
	best := vision
	for i := range candidates {
		c := &candidates[i]
		if c.Self || !c.Enabled {
			continue
		}
		d := Distance(origin, c.Pos)
		if d < best {
			best = d
			idx = i
		}
	}
	if idx < 0 {
		return -1, 0, false
	}
	return idx, best, true
}
