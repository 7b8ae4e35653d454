package stats

import "time"

// Timer is an armed callback handle.
type Timer interface {
	// Cancel stops the timer. A callback that has already started may run
	// to completion, but no new invocation begins after Cancel returns.
	Cancel()
}

// Scheduler arms one-shot callbacks after a delay. It is injected into
// the quantile engine so tests can drive ticks manually and so the timer
// is an explicit dependency rather than process-wide shared state.
//
// The callback receives a non-nil error when the scheduling mechanism
// itself failed; the engine treats that as fatal and stops recomputing.
type Scheduler interface {
	Schedule(d time.Duration, fn func(err error)) Timer
}

// TimerScheduler schedules callbacks on the runtime timer heap.
type TimerScheduler struct{}

// Schedule arms fn to run once after d.
func (TimerScheduler) Schedule(d time.Duration, fn func(err error)) Timer {
	return stdTimer{t: time.AfterFunc(d, func() { fn(nil) })}
}

type stdTimer struct {
	t *time.Timer
}

func (s stdTimer) Cancel() {
	s.t.Stop()
}
