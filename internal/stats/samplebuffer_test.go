package stats

import (
	"sort"
	"sync"
	"testing"
)

func TestSampleBuffer_RecordAndSnapshot(t *testing.T) {
	buf := NewSampleBuffer(10)

	for i := uint64(1); i <= 5; i++ {
		buf.Record(i)
	}

	if buf.Count() != 5 {
		t.Errorf("Count() = %d, want 5", buf.Count())
	}

	snap := buf.Snapshot(nil)
	if len(snap) != 5 {
		t.Fatalf("Snapshot length = %d, want 5", len(snap))
	}
	sort.Slice(snap, func(i, j int) bool { return snap[i] < snap[j] })
	for i, v := range snap {
		if v != uint64(i+1) {
			t.Errorf("snapshot[%d] = %d, want %d", i, v, i+1)
		}
	}
}

func TestSampleBuffer_OverwritesOldest(t *testing.T) {
	const capacity = 100
	buf := NewSampleBuffer(capacity)

	// Write capacity+k values; only the last capacity must survive.
	const total = capacity + 37
	for i := uint64(1); i <= total; i++ {
		buf.Record(i)
	}

	if buf.Count() != total {
		t.Errorf("Count() = %d, want %d", buf.Count(), total)
	}

	snap := buf.Snapshot(nil)
	if len(snap) != capacity {
		t.Fatalf("Snapshot length = %d, want %d", len(snap), capacity)
	}

	sort.Slice(snap, func(i, j int) bool { return snap[i] < snap[j] })
	for i, v := range snap {
		want := uint64(total - capacity + 1 + i)
		if v != want {
			t.Errorf("snapshot[%d] = %d, want %d (oldest values must be evicted)", i, v, want)
		}
	}
}

func TestSampleBuffer_SnapshotReusesDst(t *testing.T) {
	buf := NewSampleBuffer(8)
	for i := uint64(0); i < 20; i++ {
		buf.Record(i)
	}

	dst := make([]uint64, 0, 8)
	snap := buf.Snapshot(dst)
	if len(snap) != 8 {
		t.Errorf("Snapshot length = %d, want 8", len(snap))
	}
	if cap(snap) != cap(dst) {
		t.Errorf("Snapshot reallocated despite sufficient capacity")
	}
}

func TestSampleBuffer_DefaultCapacity(t *testing.T) {
	buf := NewSampleBuffer(0)
	if buf.Capacity() != DefaultCapacity {
		t.Errorf("Capacity() = %d, want %d", buf.Capacity(), DefaultCapacity)
	}
}

// W writers hammering Record concurrently must never write out of bounds,
// and a snapshot afterwards must hold exactly min(total, capacity) values
// from the recorded domain.
func TestSampleBuffer_ConcurrentWriters(t *testing.T) {
	const (
		capacity = 1000
		writers  = 8
		perW     = 5000
	)
	buf := NewSampleBuffer(capacity)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perW; i++ {
				buf.Record(uint64(w*perW + i + 1))
			}
		}(w)
	}
	wg.Wait()

	if buf.Count() != writers*perW {
		t.Errorf("Count() = %d, want %d", buf.Count(), writers*perW)
	}

	snap := buf.Snapshot(nil)
	if len(snap) != capacity {
		t.Fatalf("Snapshot length = %d, want %d", len(snap), capacity)
	}
	for i, v := range snap {
		if v < 1 || v > writers*perW {
			t.Errorf("snapshot[%d] = %d, outside the recorded domain", i, v)
		}
	}
}
