// Package perfcounter provides the performance-counter subsystem used by
// the replication server: hot code paths record measurements cheaply, and
// monitoring reads aggregated views (cumulative totals, per-second rates,
// and latency percentiles) without slowing the measured code.
//
// Three strategies sit behind one capability interface, chosen at
// construction:
//
//   - Number: an unbounded cumulative total behind a single atomic.
//   - Rate: events per second since the previous read; the read resets
//     the window.
//   - Percentile: a fixed-memory sample window whose p50/p90/p95/p99/p99.9
//     are recomputed periodically in one linear pass and published
//     atomically.
//
// # Quick Start
//
//	ops := perfcounter.Construct("replica", "commit_total", perfcounter.Number)
//	ops.Increment()
//	total := ops.Value()
//
//	lat := perfcounter.Construct("replica", "commit_latency_us", perfcounter.Percentile)
//	defer lat.Close()
//
//	lat.Set(1250) // record one latency sample
//	p99 := lat.Percentile(perfcounter.P99)
//
// # Shared counters
//
// Instrumentation sites that must share instances use a Registry:
//
//	reg := perfcounter.NewRegistry(perfcounter.Config{})
//	defer reg.Close()
//
//	qps := reg.Get("replica", "write_rate", perfcounter.Rate)
//	qps.Add(1)
//
// # Misuse
//
// Calling an operation outside a strategy's supported subset (for
// example Increment on a Percentile counter) panics. A misused counter
// is a programming error, and a loud crash beats a silently wrong
// metric in an observability subsystem.
//
// # Configuration
//
// The percentile recomputation interval (default 30s) and sample window
// (default 50000) come from the Config's Source, a (section, key,
// default) lookup backed by YAML in production and by a map in tests:
//
//	perfcounter:
//	  computation_interval_seconds: 30
//	  sample_capacity: 50000
package perfcounter
