package components

// String returns the display name for a State.
func (s State) String() string {
	names := StateNames()
	if int(s) < len(names) {
		return names[s]
	}
	return "UNKNOWN"
}

// StateNames returns the display names for all states.
// The order matches the State constants.
func StateNames() []string {
	return []string{"WANDERING", "SEEKING_FOOD", "SEEKING_MATE"}
}

// StateCount returns the number of states.
func StateCount() int {
	return len(StateNames())
}

// String returns the display name for a TargetKind.
func (k TargetKind) String() string {
	switch k {
	case TargetAgent:
		return "agent"
	case TargetFood:
		return "food"
	default:
		return "none"
	}
}
