package counter

import (
	"sync/atomic"

	"github.com/replisys/perfcounter/internal/stats"
)

// numberCounter is an unbounded cumulative total behind a single atomic.
type numberCounter struct {
	base
	val atomic.Int64
}

func newNumber(section, name string) *numberCounter {
	return &numberCounter{base: base{section: section, name: name}}
}

func (c *numberCounter) Kind() Kind { return Number }

func (c *numberCounter) Increment() { c.val.Add(1) }

func (c *numberCounter) Decrement() { c.val.Add(-1) }

func (c *numberCounter) Add(delta uint64) { c.val.Add(int64(delta)) }

func (c *numberCounter) Set(uint64) { contractViolation(Number, "Set") }

func (c *numberCounter) Value() float64 { return float64(c.val.Load()) }

func (c *numberCounter) Percentile(stats.Percentile) float64 { return c.Value() }

func (c *numberCounter) Close() error { return nil }
