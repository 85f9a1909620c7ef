package components

// Vitals bundles identity, energy and behavioral state of an agent.
type Vitals struct {
	ID         uint32
	Energy     float64
	State      State
	Target     Target
	Generation int // founders are generation 0
	BornTick   int32
}

// ClearTarget drops the current target reference.
func (v *Vitals) ClearTarget() {
	v.Target = NoTarget
}
