// Package counter implements the perf-counter strategies recorded by hot
// paths and read by monitoring: cumulative numbers, per-second rates, and
// sampled latency percentiles.
//
// All strategies sit behind one capability interface chosen at
// construction. Calling an operation outside the constructed strategy's
// subset panics: a misused counter is a caller bug, and in an
// observability subsystem a loud crash beats a silently wrong metric.
package counter

import (
	"fmt"
	"time"

	"github.com/replisys/perfcounter/internal/config"
	"github.com/replisys/perfcounter/internal/stats"
)

// Kind selects a counter strategy at construction.
type Kind int

const (
	// Number is an unbounded cumulative total.
	Number Kind = iota
	// Rate reports events per second since the previous read.
	Rate
	// Percentile samples values and reports percentiles of the recent
	// window.
	Percentile
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Rate:
		return "rate"
	case Percentile:
		return "percentile"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Counter is the single capability surface shared by all strategies.
//
// Supported subsets per strategy:
//
//	Number:     Increment, Decrement, Add, Value
//	Rate:       Increment, Decrement, Add, Value (Value resets the window)
//	Percentile: Set, Percentile
//
// Operations outside the subset panic. Percentile on Number and Rate
// counters returns Value, matching the behavior monitoring code expects
// when it reads every counter uniformly.
type Counter interface {
	Section() string
	Name() string
	Kind() Kind

	Increment()
	Decrement()
	Add(delta uint64)
	Set(value uint64)
	Value() float64
	Percentile(p stats.Percentile) float64

	// Close releases background resources. Only the Percentile strategy
	// owns any; the others are no-ops.
	Close() error
}

// Recomputer is implemented by counters that can refresh their published
// percentiles synchronously, ahead of the next scheduled cycle.
type Recomputer interface {
	Recompute()
}

// Config carries the construction-time dependencies of a counter. The
// zero value uses the system clock, the runtime timer heap, and built-in
// defaults for everything else.
type Config struct {
	// Source resolves the percentile recomputation interval. Consulted
	// once at construction.
	Source config.Source

	// Clock supplies the instants used to measure rate intervals.
	Clock Clock

	// Scheduler drives percentile recomputation.
	Scheduler stats.Scheduler

	// SampleCapacity is the percentile sample window size. When zero,
	// the Source's sample_capacity (default 50000) applies.
	SampleCapacity int
}

func (c Config) withDefaults() Config {
	if c.Source == nil {
		c.Source = config.Static{}
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	return c
}

// Configuration keys consulted at percentile-counter construction.
const (
	configSection   = "perfcounter"
	intervalKey     = "computation_interval_seconds"
	capacityKey     = "sample_capacity"
	defaultInterval = 30
)

// New constructs a counter of the given kind. This is the strategy
// dispatcher: the kind is fixed for the counter's lifetime.
func New(section, name string, kind Kind, cfg Config) Counter {
	cfg = cfg.withDefaults()
	switch kind {
	case Number:
		return newNumber(section, name)
	case Rate:
		return newRate(section, name, cfg.Clock)
	case Percentile:
		return newPercentile(section, name, cfg)
	}
	panic(fmt.Sprintf("counter: unknown counter kind %d", int(kind)))
}

func contractViolation(k Kind, op string) {
	panic(fmt.Sprintf("counter: %s is not supported by a %s counter", op, k))
}

// base carries the identity shared by every strategy.
type base struct {
	section string
	name    string
}

func (b base) Section() string { return b.section }
func (b base) Name() string    { return b.name }

func intervalFromConfig(src config.Source) time.Duration {
	return time.Duration(src.GetInt(configSection, intervalKey, defaultInterval)) * time.Second
}
