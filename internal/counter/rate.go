package counter

import (
	"sync/atomic"
	"time"

	"github.com/replisys/perfcounter/internal/stats"
)

// minRateInterval floors the elapsed divisor so two closely spaced reads
// cannot turn a handful of events into an unbounded spike. Accumulated
// counts are never discarded, only divided by at least this much.
const minRateInterval = time.Microsecond

// rateCounter accumulates events and reports events per second since the
// previous read. Reading the value resets both the accumulator and the
// interval reference.
type rateCounter struct {
	base
	clock  Clock
	val    atomic.Int64
	lastNs atomic.Int64
}

func newRate(section, name string, clock Clock) *rateCounter {
	c := &rateCounter{base: base{section: section, name: name}, clock: clock}
	c.lastNs.Store(clock.Now().UnixNano())
	return c
}

func (c *rateCounter) Kind() Kind { return Rate }

func (c *rateCounter) Increment() { c.val.Add(1) }

func (c *rateCounter) Decrement() { c.val.Add(-1) }

func (c *rateCounter) Add(delta uint64) { c.val.Add(int64(delta)) }

func (c *rateCounter) Set(uint64) { contractViolation(Rate, "Set") }

// Value returns the event rate since the previous read, in events per
// second, and resets the window.
func (c *rateCounter) Value() float64 {
	now := c.clock.Now().UnixNano()
	last := c.lastNs.Swap(now)
	n := c.val.Swap(0)

	elapsed := time.Duration(now - last)
	if elapsed < minRateInterval {
		elapsed = minRateInterval
	}
	return float64(n) / elapsed.Seconds()
}

func (c *rateCounter) Percentile(stats.Percentile) float64 { return c.Value() }

func (c *rateCounter) Close() error { return nil }
