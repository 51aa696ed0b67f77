package metrics

// Snapshot returns a deep copy of all counters.
// Safe for concurrent use and immune to external mutation.
func (r *Registry) Snapshot() map[string]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int64, len(r.counters))
	for key, val := range r.counters {
		out[string(key)] = val
	}
	return out
}
