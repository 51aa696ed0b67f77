package metrics

import "sync"

// Key is a strongly typed metric identifier.
type Key string

// Metric keys (centralized)
const (
	// Access gate
	SetsTotal          Key = "sets_total"
	GetsTotal          Key = "gets_total"
	MissesTotal        Key = "misses_total"
	DeletesTotal       Key = "deletes_total"
	KeysCurrent        Key = "keys_current"
	ExpiredAccessTotal Key = "expired_access_total"

	// Sweep
	SweepPassesTotal      Key = "sweep_passes_total"
	SweepRetriggersTotal  Key = "sweep_retriggers_total"
	SweepKeysSampledTotal Key = "sweep_keys_sampled_total"
	ExpiredSweepTotal     Key = "expired_sweep_total"

	// Callbacks
	CallbackErrorsTotal Key = "callback_errors_total"
)

// Registry stores all counters for one store instance.
type Registry struct {
	mu       sync.Mutex
	counters map[Key]int64
}

// NewRegistry creates an empty metrics registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[Key]int64),
	}
}

// Inc increments a counter by 1.
func (r *Registry) Inc(key Key) {
	r.Add(key, 1)
}

// Add increments a counter by delta. Unknown keys are created on first use.
func (r *Registry) Add(key Key, delta int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters[key] += delta
}

// Get returns the current value of a single counter.
func (r *Registry) Get(key Key) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.counters[key]
}
