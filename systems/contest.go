package systems

// Strategy is the discrete Hawk-Dove strategy an agent plays in a contest.
type Strategy uint8

const (
	Dove Strategy = iota
	Hawk
)

// String returns the strategy name.
func (s Strategy) String() string {
	if s == Hawk {
		return "HAWK"
	}
	return "DOVE"
}

// StrategyFor maps the continuous aggression gene onto a strategy.
// The mapping is deterministic: Hawk iff aggression > threshold.
func StrategyFor(aggression, threshold float64) Strategy {
	if aggression > threshold {
		return Hawk
	}
	return Dove
}

// Payoff holds the contest parameters.
type Payoff struct {
	V float64 // resource value, gained by the winner
	C float64 // fight cost, split between two hawks
	D float64 // display cost
}

// Winner identifies which contestant took the resource.
type Winner uint8

const (
	WinnerSelf Winner = iota
	WinnerOther
)

// Outcome is the resolved contest. Deltas already include the winner's V.
type Outcome struct {
	Self, Other Strategy
	SelfDelta   float64
	OtherDelta  float64
	Winner      Winner
}

// ResolveContest applies the Hawk-Dove payoff table.
//
//	HAWK/HAWK  -C/2, -C/2  coin
//	HAWK/DOVE   0,   -D    self
//	DOVE/HAWK  -D,    0    other
//	DOVE/DOVE  -D,   -D    coin
//
// coin is only consulted for symmetric pairings; true means self wins.
func ResolveContest(self, other Strategy, p Payoff, coin func() bool) Outcome {
	o := Outcome{Self: self, Other: other}

	switch {
	case self == Hawk && other == Hawk:
		o.SelfDelta = -p.C / 2
		o.OtherDelta = -p.C / 2
		o.Winner = toss(coin)
	case self == Hawk && other == Dove:
		o.OtherDelta = -p.D
		o.Winner = WinnerSelf
	case self == Dove && other == Hawk:
		o.SelfDelta = -p.D
		o.Winner = WinnerOther
	default:
		o.SelfDelta = -p.D
		o.OtherDelta = -p.D
		o.Winner = toss(coin)
	}

	if o.Winner == WinnerSelf {
		o.SelfDelta += p.V
	} else {
		o.OtherDelta += p.V
	}
	return o
}

func toss(coin func() bool) Winner {
	if coin() {
		return WinnerSelf
	}
	return WinnerOther
}
