package stats

import (
	"fmt"
	"sort"
)

// partitionTask is one unit of pending selection work: a sub-array bound
// [left,right] plus the contiguous range [qleft,qright] of outstanding
// rank indices assigned to resolve within that bound.
//
// The explicit task queue replaces recursion with an iterative frontier,
// so arbitrarily many simultaneous rank queries share partitioning cost.
type partitionTask struct {
	left, right   int
	qleft, qright int
}

// MultiSelect returns, for every requested rank, the value that would
// occupy that rank (1-indexed) if values were sorted ascending.
//
// All ranks are resolved in one amortized linear pass: partition work is
// shared across the full rank set instead of running one quickselect per
// rank, and median-of-medians pivoting keeps the worst case linear even
// on adversarial input.
//
// values is permuted in place. Ranks may be supplied in any order and may
// repeat; result[i] always answers ranks[i]. Every rank must lie in
// 1..len(values); a rank outside that range panics, as does any internal
// bookkeeping inconsistency - a wrong order statistic must never be
// returned silently.
func MultiSelect(values []uint64, ranks []int) []uint64 {
	if len(ranks) == 0 {
		return nil
	}
	n := len(values)
	for _, r := range ranks {
		if r < 1 || r > n {
			panic(fmt.Sprintf("stats: rank %d out of range 1..%d", r, n))
		}
	}

	// Resolve in ascending rank order, then scatter answers back to the
	// caller's positions.
	order := make([]int, len(ranks))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return ranks[order[a]] < ranks[order[b]] })

	// ask holds each outstanding rank relative to its current sub-array;
	// it is rewritten as tasks split.
	ask := make([]int, len(ranks))
	for i, o := range order {
		ask[i] = ranks[o]
	}
	ans := make([]uint64, len(ask))

	scratch := make([]uint64, 0, n)
	queue := make([]partitionTask, 0, 4*len(ask))
	queue = append(queue, partitionTask{left: 0, right: n - 1, qleft: 0, qright: len(ask) - 1})

	for head := 0; head < len(queue); head++ {
		t := queue[head]
		if t.qleft > t.qright {
			continue
		}

		if t.left == t.right {
			// Singleton partition: every rank assigned here must be the
			// relative rank 1, or the split bookkeeping is broken.
			for i := t.qleft; i <= t.qright; i++ {
				if ask[i] != 1 {
					panic(fmt.Sprintf("stats: multiselect invariant violated: relative rank %d at singleton partition %d", ask[i], t.left))
				}
				ans[i] = values[t.left]
			}
			continue
		}

		scratch = append(scratch[:0], values[t.left:t.right+1]...)
		pivot := medianOfMedians(scratch)
		idx := partitionAround(values, t.left, t.right, pivot)

		// now is the pivot's 1-indexed rank within the sub-array. Ranks
		// below it keep targeting the left partition unchanged; ranks
		// equal to it resolve at idx via a singleton task; ranks above it
		// are rebased against the right partition.
		now := idx - t.left + 1
		i := t.qleft
		for i <= t.qright && ask[i] < now {
			i++
		}
		for k := i; k <= t.qright; k++ {
			ask[k] -= now
		}
		j := i
		for j <= t.qright && ask[j] == 0 {
			ask[j] = 1
			j++
		}
		queue = append(queue,
			partitionTask{left: t.left, right: idx - 1, qleft: t.qleft, qright: i - 1},
			partitionTask{left: idx, right: idx, qleft: i, qright: j - 1},
			partitionTask{left: idx + 1, right: t.right, qleft: j, qright: t.qright},
		)
	}

	out := make([]uint64, len(ranks))
	for i, o := range order {
		out[o] = ans[i]
	}
	return out
}

// medianOfMedians returns a deterministic pivot guaranteed to be neither
// the smallest nor largest ~30% of s: groups of five are insertion-sorted,
// their medians are compacted to the front, and the reduction repeats
// until one value remains. s is destroyed.
func medianOfMedians(s []uint64) uint64 {
	for len(s) > 1 {
		out := 0
		for i := 0; i < len(s); i += 5 {
			end := i + 5
			if end > len(s) {
				end = len(s)
			}
			insertionSort(s[i:end])
			s[out] = s[i+(end-i)/2]
			out++
		}
		s = s[:out]
	}
	return s[0]
}

func insertionSort(s []uint64) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] > v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}

// partitionAround partitions a[left:right+1] around pivot, placing one
// pivot instance at the returned index with everything to its left <= it
// and everything to its right >= it. The pivot value must occur in the
// range.
//
// One pivot instance is lifted out and its slot becomes a hole; the two
// scans fill the hole from alternating ends so no extra swaps are needed.
func partitionAround(a []uint64, left, right int, pivot uint64) int {
	idx := left
	for a[idx] != pivot {
		idx++
	}
	a[idx] = a[left]
	idx = left

	i, j := left, right
	for i <= j {
		for i <= j && a[j] > pivot {
			j--
		}
		if i <= j {
			a[idx] = a[j]
			idx = j
			j--
		}
		for i <= j && a[i] < pivot {
			i++
		}
		if i <= j {
			a[idx] = a[i]
			idx = i
			i++
		}
	}
	a[idx] = pivot
	return idx
}
