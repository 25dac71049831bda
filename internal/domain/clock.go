package domain

import "github.com/jonboulle/clockwork"

// clock is the package-level time source stamped onto analysis summaries.
// Tests freeze it via SetClock for deterministic GeneratedAt values.
var clock = clockwork.NewRealClock()

// SetClock swaps the analysis time source. Pass nil to restore real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
