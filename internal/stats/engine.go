package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Percentile identifies one of the tracked quantiles.
type Percentile int

// Tracked quantiles. P999 is the 99.9th percentile.
const (
	P50 Percentile = iota
	P90
	P95
	P99
	P999
	numPercentiles
)

var percentileQuantiles = [numPercentiles]float64{0.50, 0.90, 0.95, 0.99, 0.999}

func (p Percentile) String() string {
	switch p {
	case P50:
		return "p50"
	case P90:
		return "p90"
	case P95:
		return "p95"
	case P99:
		return "p99"
	case P999:
		return "p999"
	}
	return fmt.Sprintf("Percentile(%d)", int(p))
}

// Percentiles lists every tracked quantile in ascending order.
func Percentiles() []Percentile {
	return []Percentile{P50, P90, P95, P99, P999}
}

// NoValue is reported for a percentile before any sample has been
// recorded.
const NoValue = -1.0

// ResultTable is the immutable snapshot of all tracked percentiles as of
// the most recent recomputation cycle. Instances are never mutated after
// publication; readers may hold one indefinitely without blocking the
// next publish.
type ResultTable struct {
	values [numPercentiles]float64
}

// Value returns the computed value for p.
func (t *ResultTable) Value(p Percentile) float64 {
	if p < 0 || p >= numPercentiles {
		panic(fmt.Sprintf("stats: invalid percentile kind %d", int(p)))
	}
	return t.values[p]
}

// DefaultInterval is the recomputation interval used when none is
// configured.
const DefaultInterval = 30 * time.Second

// Engine states. An engine is idle between ticks, computing while a
// recomputation runs, and stopped permanently after Close or a scheduler
// failure.
const (
	engineIdle int32 = iota
	engineComputing
	engineStopped
)

// Engine owns a SampleBuffer and periodically resolves the tracked
// percentiles over its contents, publishing an immutable ResultTable that
// readers consult without any computation on the read path.
//
// Recomputation is synchronous from the scheduler's perspective: the next
// tick is armed only after the current one publishes, so recomputation
// never overlaps itself.
type Engine struct {
	buf      *SampleBuffer
	interval time.Duration
	sched    Scheduler

	state atomic.Int32
	table atomic.Pointer[ResultTable]

	mu    sync.Mutex // guards timer and err
	timer Timer
	err   error

	// Recompute scratch, reused across cycles. Guarded by the
	// idle->computing transition.
	scratch []uint64
	ranks   []int
}

// NewEngine creates an engine over buf and arms the first tick. A zero
// interval falls back to DefaultInterval; a nil scheduler falls back to
// the runtime timer heap.
func NewEngine(buf *SampleBuffer, interval time.Duration, sched Scheduler) *Engine {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if sched == nil {
		sched = TimerScheduler{}
	}
	e := &Engine{
		buf:      buf,
		interval: interval,
		sched:    sched,
	}
	e.arm()
	return e
}

// Buffer returns the sample buffer the engine computes over.
func (e *Engine) Buffer() *SampleBuffer {
	return e.buf
}

func (e *Engine) arm() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Load() == engineStopped {
		return
	}
	e.timer = e.sched.Schedule(e.interval, e.tick)
}

func (e *Engine) tick(err error) {
	if err != nil {
		// A failing timer is fatal to the engine: record the error and
		// stop rather than retry indefinitely.
		e.mu.Lock()
		e.err = err
		e.mu.Unlock()
		e.state.Store(engineStopped)
		return
	}
	e.Recompute()
	e.arm()
}

// Recompute synchronously snapshots the buffer, resolves the tracked
// percentiles, and publishes a fresh ResultTable. It is a no-op while
// another recomputation is running or after the engine has stopped. An
// empty buffer keeps the previously published table.
func (e *Engine) Recompute() {
	if !e.state.CompareAndSwap(engineIdle, engineComputing) {
		return
	}
	defer e.state.CompareAndSwap(engineComputing, engineIdle)

	e.scratch = e.buf.Snapshot(e.scratch)
	n := len(e.scratch)
	if n == 0 {
		return
	}

	e.ranks = e.ranks[:0]
	for _, q := range percentileQuantiles {
		// rank = floor(n*q)+1, clamped so float rounding near q=1 can
		// never ask for rank n+1.
		r := int(float64(n)*q) + 1
		if r > n {
			r = n
		}
		e.ranks = append(e.ranks, r)
	}

	vals := MultiSelect(e.scratch, e.ranks)

	var table ResultTable
	for i, v := range vals {
		table.values[i] = float64(v)
	}
	e.table.Store(&table)
}

// Percentile returns the last published value for p, or NoValue if no
// sample has ever been recorded. It never computes on the read path. An
// out-of-range kind panics: callers pass compile-time constants, so a bad
// kind is always a programming error.
func (e *Engine) Percentile(p Percentile) float64 {
	if p < 0 || p >= numPercentiles {
		panic(fmt.Sprintf("stats: invalid percentile kind %d", int(p)))
	}
	t := e.table.Load()
	if t == nil {
		return NoValue
	}
	return t.values[p]
}

// Table returns the last published ResultTable, or nil if none exists
// yet.
func (e *Engine) Table() *ResultTable {
	return e.table.Load()
}

// Err reports the scheduler failure that stopped the engine, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Close stops the engine permanently: the armed timer is cancelled and no
// future tick is armed. A recomputation already in flight is allowed to
// finish and publish, but will not re-arm.
func (e *Engine) Close() {
	e.state.Store(engineStopped)
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Cancel()
		e.timer = nil
	}
	e.mu.Unlock()
}
