package timedstore

import (
	"log/slog"

	"timedstore/internal/metrics"
)

// newDispatcher wraps the user callback with panic isolation.
//
// A panicking callback never propagates to the caller of a Get or
// aborts a sweep pass: the panic is recovered, counted, and logged,
// and the expiration itself has already happened by the time the
// callback runs. With no callback configured the dispatcher is a
// no-op. Delivery is at-most-once per logical expiration.
func newDispatcher[K comparable, V any](
	cb Callback[K, V],
	reg *metrics.Registry,
	logger *slog.Logger,
) func(key K, value V) {
	if cb == nil {
		return func(K, V) {}
	}

	return func(key K, value V) {
		defer func() {
			if r := recover(); r != nil {
				reg.Inc(metrics.CallbackErrorsTotal)
				logger.Error("expiration callback panicked",
					slog.Any("panic", r))
			}
		}()

		cb(key, value)
	}
}
