package counter

import (
	"github.com/replisys/perfcounter/internal/stats"
)

// percentileCounter feeds a fixed-capacity sample buffer and publishes
// percentiles of the recent window through a quantile engine. Recording
// is a single atomic cursor bump plus a slot store; reading never
// computes, it consults the engine's last published table.
type percentileCounter struct {
	base
	buf    *stats.SampleBuffer
	engine *stats.Engine
}

func newPercentile(section, name string, cfg Config) *percentileCounter {
	capacity := cfg.SampleCapacity
	if capacity <= 0 {
		capacity = cfg.Source.GetInt(configSection, capacityKey, stats.DefaultCapacity)
	}
	buf := stats.NewSampleBuffer(capacity)
	return &percentileCounter{
		base:   base{section: section, name: name},
		buf:    buf,
		engine: stats.NewEngine(buf, intervalFromConfig(cfg.Source), cfg.Scheduler),
	}
}

func (c *percentileCounter) Kind() Kind { return Percentile }

func (c *percentileCounter) Increment() { contractViolation(Percentile, "Increment") }

func (c *percentileCounter) Decrement() { contractViolation(Percentile, "Decrement") }

func (c *percentileCounter) Add(uint64) { contractViolation(Percentile, "Add") }

// Set appends one sample to the window. This is the only recording
// operation a percentile counter supports: increments would be
// meaningless for a sample stream.
func (c *percentileCounter) Set(value uint64) { c.buf.Record(value) }

func (c *percentileCounter) Value() float64 {
	contractViolation(Percentile, "Value")
	return 0
}

// Percentile returns the last computed value for p, or stats.NoValue if
// no sample has ever been recorded.
func (c *percentileCounter) Percentile(p stats.Percentile) float64 {
	return c.engine.Percentile(p)
}

// Recompute refreshes the published table synchronously.
func (c *percentileCounter) Recompute() { c.engine.Recompute() }

func (c *percentileCounter) Close() error {
	c.engine.Close()
	return nil
}
