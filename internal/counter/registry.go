package counter

import (
	"fmt"
	"sort"
	"sync"
)

// Registry tracks named counters so instrumentation sites and monitoring
// tooling share the same instances. Counters are keyed by section and
// name; the first Get for a key constructs the counter, later Gets return
// it.
type Registry struct {
	cfg Config

	mu       sync.Mutex
	counters map[string]Counter
}

// NewRegistry creates an empty registry. All counters it constructs share
// cfg's dependencies.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:      cfg.withDefaults(),
		counters: make(map[string]Counter),
	}
}

func registryKey(section, name string) string {
	return section + "." + name
}

// Get returns the counter registered under section/name, constructing it
// on first use. Requesting an existing counter with a different kind
// panics: two call sites disagreeing about a counter's strategy is a
// programming error.
func (r *Registry) Get(section, name string, kind Kind) Counter {
	key := registryKey(section, name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.counters[key]; ok {
		if c.Kind() != kind {
			panic(fmt.Sprintf("counter: %q already registered as %s, requested as %s", key, c.Kind(), kind))
		}
		return c
	}

	c := New(section, name, kind, r.cfg)
	r.counters[key] = c
	return c
}

// Lookup returns the counter registered under section/name, or nil.
func (r *Registry) Lookup(section, name string) Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[registryKey(section, name)]
}

// Remove closes and drops the counter registered under section/name.
func (r *Registry) Remove(section, name string) error {
	key := registryKey(section, name)

	r.mu.Lock()
	c, ok := r.counters[key]
	delete(r.counters, key)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return c.Close()
}

// Snapshot returns every registered counter, sorted by section then name.
func (r *Registry) Snapshot() []Counter {
	r.mu.Lock()
	out := make([]Counter, 0, len(r.counters))
	for _, c := range r.counters {
		out = append(out, c)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Section() != out[j].Section() {
			return out[i].Section() < out[j].Section()
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}

// Close closes every registered counter and empties the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	counters := make([]Counter, 0, len(r.counters))
	for _, c := range r.counters {
		counters = append(counters, c)
	}
	r.counters = make(map[string]Counter)
	r.mu.Unlock()

	var firstErr error
	for _, c := range counters {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
