package ratelimit

import "time"

// Clock reports the time buckets refill against.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// RealClock is the wall clock.
var RealClock Clock = ClockFunc(time.Now)
