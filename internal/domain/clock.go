package domain

import "github.com/jonboulle/clockwork"

// clock stamps Table.LoadedAt. Tests inject a fake clock via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for load timestamps. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
