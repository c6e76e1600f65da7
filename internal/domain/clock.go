package domain

import "github.com/jonboulle/clockwork"

// clock stamps lookup events. Tests replace it with a fake via SetClock.
var clock = clockwork.NewRealClock()

// SetClock replaces the time source used for event timestamps. Nil restores
// the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}
