// Package timedstore provides an in-process key-value map with
// per-entry TTL expiration and optional expiration callbacks.
//
// Expiration is semi-lazy and probabilistic, modeled on Redis: a
// background goroutine periodically inspects a random sample of keys
// and removes the expired ones, re-running immediately when a sample
// is saturated with expired keys; independently, every direct access
// checks the touched key so callers never see a stale value. An entry
// may therefore outlive its timeout by roughly one sweep interval
// unless it is accessed directly, which is the intended trade of
// precision for throughput.
//
//	tm, err := timedstore.New[string, string](
//		timedstore.Config{Timeout: 30 * time.Second},
//		timedstore.WithCallback[string, string](func(k, v string) {
//			log.Printf("expired: %s", k)
//		}),
//	)
//	if err != nil {
//		// invalid configuration
//	}
//	defer tm.Stop()
//
//	tm.Set("foo", "bar")
//	v, ok := tm.Get("foo")
package timedstore
