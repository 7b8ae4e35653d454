// Package stats provides the online statistics core of the perf-counter
// subsystem: a fixed-memory concurrent sample buffer, an exact multi-rank
// selection algorithm, and the periodic quantile engine that ties them
// together.
package stats

import (
	"sync/atomic"
)

// DefaultCapacity is the sample window used when no capacity is configured.
const DefaultCapacity = 50000

// SampleBuffer is a fixed-capacity circular store of raw measurements.
//
// Writers share a single monotonic cursor; each Record is one atomic
// increment plus a slot store, so unboundedly many goroutines may record
// concurrently without coordination. Once the buffer is full, new writes
// silently overwrite the oldest slot - that is the eviction policy, not
// data loss.
//
// # Consistency
//
// A Snapshot taken while writers are active may observe a write that is
// in flight, or miss one that has claimed a slot but not yet stored. Both
// are accepted sources of approximation: percentiles computed from a
// snapshot describe "roughly the last C samples", never an exact cut.
type SampleBuffer struct {
	slots  []uint64
	cursor atomic.Uint64
}

// NewSampleBuffer creates a buffer retaining the last capacity samples.
// A non-positive capacity falls back to DefaultCapacity.
func NewSampleBuffer(capacity int) *SampleBuffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &SampleBuffer{slots: make([]uint64, capacity)}
}

// Record stores one measurement. Non-blocking and safe for any number of
// concurrent callers.
func (b *SampleBuffer) Record(v uint64) {
	idx := b.cursor.Add(1) - 1
	b.slots[idx%uint64(len(b.slots))] = v
}

// Count returns the total number of writes ever recorded. The cursor is
// never reset; callers derive the retained size as min(Count, Capacity).
func (b *SampleBuffer) Count() uint64 {
	return b.cursor.Load()
}

// Capacity returns the fixed slot count.
func (b *SampleBuffer) Capacity() int {
	return len(b.slots)
}

// Snapshot copies the retained samples into dst and returns the filled
// prefix. dst is grown if needed. The copy may race with concurrent
// writers; see the type comment.
func (b *SampleBuffer) Snapshot(dst []uint64) []uint64 {
	n := int(min(b.cursor.Load(), uint64(len(b.slots))))
	if cap(dst) < n {
		dst = make([]uint64, n)
	}
	dst = dst[:n]
	copy(dst, b.slots[:n])
	return dst
}
