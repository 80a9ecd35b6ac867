package vesting

import "time"

// Clock is the time capability consumed by the engine. All vested-amount
// computation is a pure function of stored state and Clock.Now, so injecting
// a fixed clock makes every schedule transition reproducible.
type Clock interface {
	Now() time.Time
}

// ClockFunc is an adapter to use a plain function as a Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// systemClock reads the wall clock in UTC.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
