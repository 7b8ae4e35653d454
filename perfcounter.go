package perfcounter

import (
	"github.com/replisys/perfcounter/internal/counter"
	"github.com/replisys/perfcounter/internal/stats"
)

// Counter is the capability surface shared by all strategies. See the
// package documentation for the supported subset per strategy.
type Counter = counter.Counter

// Kind selects a counter strategy at construction.
type Kind = counter.Kind

// Counter strategies.
const (
	Number     = counter.Number
	Rate       = counter.Rate
	Percentile = counter.Percentile
)

// PercentileKind identifies one of the tracked quantiles.
type PercentileKind = stats.Percentile

// Tracked quantiles.
const (
	P50  = stats.P50
	P90  = stats.P90
	P95  = stats.P95
	P99  = stats.P99
	P999 = stats.P999
)

// NoValue is reported by Percentile before any sample has been recorded.
const NoValue = stats.NoValue

// Config carries construction-time dependencies. The zero value uses the
// system clock, the runtime timer heap, and built-in defaults.
type Config = counter.Config

// Registry tracks named counters so instrumentation sites and monitoring
// tooling share the same instances.
type Registry = counter.Registry

// Construct creates a standalone counter of the given kind with default
// dependencies.
func Construct(section, name string, kind Kind) Counter {
	return counter.New(section, name, kind, counter.Config{})
}

// ConstructWithConfig creates a standalone counter with explicit
// dependencies.
func ConstructWithConfig(section, name string, kind Kind, cfg Config) Counter {
	return counter.New(section, name, kind, cfg)
}

// NewRegistry creates an empty registry whose counters share cfg's
// dependencies.
func NewRegistry(cfg Config) *Registry {
	return counter.NewRegistry(cfg)
}
