package counter

import "time"

// Clock supplies the instants used to measure rate intervals. It is an
// explicit dependency so tests can control elapsed time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the runtime clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }
