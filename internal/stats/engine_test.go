package stats

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

// manualScheduler arms callbacks without any real timer; tests fire them
// explicitly.
type manualScheduler struct {
	mu        sync.Mutex
	pending   []func(error)
	cancelled int
}

func (s *manualScheduler) Schedule(d time.Duration, fn func(err error)) Timer {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
	return &manualTimer{sched: s}
}

// fire pops the oldest armed callback and invokes it synchronously.
func (s *manualScheduler) fire(t *testing.T, err error) {
	t.Helper()
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		t.Fatal("no armed callback to fire")
	}
	fn := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()
	fn(err)
}

func (s *manualScheduler) armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

type manualTimer struct {
	sched *manualScheduler
}

func (t *manualTimer) Cancel() {
	t.sched.mu.Lock()
	t.sched.cancelled++
	t.sched.mu.Unlock()
}

// refTable computes the expected percentiles by full sort.
func refTable(samples []uint64) map[Percentile]float64 {
	sorted := append([]uint64(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	n := len(sorted)

	out := make(map[Percentile]float64)
	for i, p := range Percentiles() {
		r := int(float64(n)*percentileQuantiles[i]) + 1
		if r > n {
			r = n
		}
		out[p] = float64(sorted[r-1])
	}
	return out
}

func TestEngine_NoSamples(t *testing.T) {
	sched := &manualScheduler{}
	engine := NewEngine(NewSampleBuffer(100), time.Second, sched)
	defer engine.Close()

	engine.Recompute()
	for _, p := range Percentiles() {
		if got := engine.Percentile(p); got != NoValue {
			t.Errorf("Percentile(%s) with no samples = %v, want %v", p, got, NoValue)
		}
	}
}

func TestEngine_MatchesReferenceSort(t *testing.T) {
	sched := &manualScheduler{}
	buf := NewSampleBuffer(1000)
	engine := NewEngine(buf, time.Second, sched)
	defer engine.Close()

	samples := []uint64{13, 42, 7, 99, 1, 56, 23, 88, 4, 71, 35, 60, 19, 92, 47}
	for _, s := range samples {
		buf.Record(s)
	}

	engine.Recompute()

	want := refTable(samples)
	for _, p := range Percentiles() {
		if got := engine.Percentile(p); got != want[p] {
			t.Errorf("Percentile(%s) = %v, want %v", p, got, want[p])
		}
	}
}

func TestEngine_WindowEviction(t *testing.T) {
	const capacity = 200
	sched := &manualScheduler{}
	buf := NewSampleBuffer(capacity)
	engine := NewEngine(buf, time.Second, sched)
	defer engine.Close()

	// Record capacity+k values; the percentiles must reflect only the
	// most recent capacity of them.
	const total = capacity + 73
	all := make([]uint64, total)
	for i := range all {
		all[i] = uint64(i + 1)
	}
	for _, v := range all {
		buf.Record(v)
	}

	engine.Recompute()

	want := refTable(all[total-capacity:])
	for _, p := range Percentiles() {
		if got := engine.Percentile(p); got != want[p] {
			t.Errorf("Percentile(%s) = %v, want %v (window of last %d)", p, got, want[p], capacity)
		}
	}
}

func TestEngine_TickRecomputesAndRearms(t *testing.T) {
	sched := &manualScheduler{}
	buf := NewSampleBuffer(100)
	engine := NewEngine(buf, time.Second, sched)
	defer engine.Close()

	if sched.armed() != 1 {
		t.Fatalf("armed timers after construction = %d, want 1", sched.armed())
	}

	buf.Record(10)
	buf.Record(20)
	buf.Record(30)
	sched.fire(t, nil)

	if got := engine.Percentile(P50); got != 20 {
		t.Errorf("Percentile(P50) after tick = %v, want 20", got)
	}
	if sched.armed() != 1 {
		t.Errorf("armed timers after tick = %d, want 1 (re-armed)", sched.armed())
	}
}

func TestEngine_TickWithoutNewSamples(t *testing.T) {
	sched := &manualScheduler{}
	buf := NewSampleBuffer(100)
	engine := NewEngine(buf, time.Second, sched)
	defer engine.Close()

	buf.Record(5)
	engine.Recompute()
	before := engine.Percentile(P50)

	// No new samples: ring is unchanged, the next tick recomputes over
	// the same window and the published value must not regress.
	sched.fire(t, nil)
	if got := engine.Percentile(P50); got != before {
		t.Errorf("Percentile(P50) after empty tick = %v, want %v", got, before)
	}
}

func TestEngine_SchedulerFailureIsFatal(t *testing.T) {
	sched := &manualScheduler{}
	buf := NewSampleBuffer(100)
	engine := NewEngine(buf, time.Second, sched)

	buf.Record(10)
	engine.Recompute()

	failure := errors.New("timer subsystem broken")
	sched.fire(t, failure)

	if sched.armed() != 0 {
		t.Errorf("armed timers after scheduler failure = %d, want 0 (must not re-arm)", sched.armed())
	}
	if got := engine.Err(); !errors.Is(got, failure) {
		t.Errorf("Err() = %v, want %v", got, failure)
	}

	// The last published table stays readable; recomputation is dead.
	if got := engine.Percentile(P50); got != 10 {
		t.Errorf("Percentile(P50) after failure = %v, want 10", got)
	}
	buf.Record(1000)
	engine.Recompute()
	if got := engine.Percentile(P50); got != 10 {
		t.Errorf("Recompute after failure changed table: Percentile(P50) = %v, want 10", got)
	}
}

func TestEngine_CloseCancelsAndStops(t *testing.T) {
	sched := &manualScheduler{}
	buf := NewSampleBuffer(100)
	engine := NewEngine(buf, time.Second, sched)

	buf.Record(7)
	engine.Recompute()

	engine.Close()
	if sched.cancelled != 1 {
		t.Errorf("cancelled timers = %d, want 1", sched.cancelled)
	}

	// A stopped engine never recomputes again but keeps serving the last
	// published table.
	buf.Record(9999)
	engine.Recompute()
	if got := engine.Percentile(P50); got != 7 {
		t.Errorf("Percentile(P50) after Close = %v, want 7", got)
	}
}

func TestEngine_LateTickAfterCloseDoesNotRearm(t *testing.T) {
	sched := &manualScheduler{}
	engine := NewEngine(NewSampleBuffer(10), time.Second, sched)

	engine.Close()
	// A callback that was in flight when Close ran may still fire.
	sched.fire(t, nil)
	if sched.armed() != 0 {
		t.Errorf("armed timers after late tick = %d, want 0", sched.armed())
	}
}

func TestEngine_InvalidKindPanics(t *testing.T) {
	sched := &manualScheduler{}
	engine := NewEngine(NewSampleBuffer(10), time.Second, sched)
	defer engine.Close()

	for _, kind := range []Percentile{-1, numPercentiles, 99} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Percentile(%d) did not panic", int(kind))
				}
			}()
			engine.Percentile(kind)
		}()
	}
}

func TestEngine_RankFormulaSmallN(t *testing.T) {
	// n=5: rank(p50)=floor(2.5)+1=3, rank(p90)=floor(4.5)+1=5, and the
	// p99/p999 ranks clamp to n.
	sched := &manualScheduler{}
	buf := NewSampleBuffer(100)
	engine := NewEngine(buf, time.Second, sched)
	defer engine.Close()

	for _, v := range []uint64{10, 20, 30, 40, 50} {
		buf.Record(v)
	}
	engine.Recompute()

	if got := engine.Percentile(P50); got != 30 {
		t.Errorf("Percentile(P50) = %v, want 30", got)
	}
	for _, p := range []Percentile{P90, P95, P99, P999} {
		if got := engine.Percentile(p); got != 50 {
			t.Errorf("Percentile(%s) = %v, want 50", p, got)
		}
	}
}

func TestEngine_ResultTableIsImmutable(t *testing.T) {
	sched := &manualScheduler{}
	buf := NewSampleBuffer(100)
	engine := NewEngine(buf, time.Second, sched)
	defer engine.Close()

	buf.Record(1)
	engine.Recompute()
	held := engine.Table()

	for i := 0; i < 50; i++ {
		buf.Record(uint64(1000 + i))
	}
	engine.Recompute()

	// A reader holding the old table sees the old values indefinitely.
	if got := held.Value(P50); got != 1 {
		t.Errorf("held table Value(P50) = %v, want 1", got)
	}
	if engine.Table() == held {
		t.Error("publish did not replace the table wholesale")
	}
}

func TestEngine_ConcurrentWritersDuringRecompute(t *testing.T) {
	buf := NewSampleBuffer(500)
	engine := NewEngine(buf, time.Hour, TimerScheduler{})
	defer engine.Close()

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; ; i++ {
				select {
				case <-stop:
					return
				default:
					buf.Record(uint64(1 + (w*7+i)%100))
				}
			}
		}(w)
	}

	// Recompute repeatedly under write load; values must stay inside the
	// recorded domain even when snapshots race with writers.
	for i := 0; i < 20; i++ {
		engine.Recompute()
		for _, p := range Percentiles() {
			v := engine.Percentile(p)
			if v != NoValue && (v < 1 || v > 100) {
				t.Errorf("Percentile(%s) = %v, outside recorded domain [1,100]", p, v)
			}
		}
	}
	close(stop)
	wg.Wait()
}
