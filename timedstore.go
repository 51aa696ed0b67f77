package timedstore

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/jonboulle/clockwork"

	"timedstore/internal/metrics"
	"timedstore/internal/store"
	"timedstore/internal/sweep"
)

// TimedMap is an in-process key-value map whose entries expire after a
// fixed timeout, using the semi-lazy probabilistic strategy Redis uses
// for volatile keys.
//
// Every TimedMap owns exactly one background sweeper goroutine that
// periodically samples the keys and reaps expired ones; in addition,
// every Get and Contains checks the touched key inline, so a caller
// never observes a logically expired value even if the sweeper has not
// reached it yet. An optional callback fires once per expired entry.
//
// All methods are safe for concurrent use. Stop must be called when
// the map is no longer needed; as a safety net the sweeper is also
// cancelled if the map is garbage collected without Stop.
type TimedMap[K comparable, V any] struct {
	cfg      Config
	store    *store.Store[K, V]
	sweeper  *sweep.Sweeper[K, V]
	metrics  *metrics.Registry
	logger   *slog.Logger
	dispatch func(key K, value V)

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// New validates cfg, creates the map, and starts its sweeper.
// Construction fails fast with one of the Err* sentinel errors if the
// config is out of range.
func New[K comparable, V any](cfg Config, opts ...Option[K, V]) (*TimedMap[K, V], error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	o := &options[K, V]{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:     clockwork.NewRealClock(),
		minSample: defaultMinSample,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	reg := metrics.NewRegistry()
	st := store.New[K, V](o.clock, reg)
	dispatch := newDispatcher(o.callback, reg, o.logger)

	t := &TimedMap[K, V]{
		cfg:      cfg,
		store:    st,
		metrics:  reg,
		logger:   o.logger,
		dispatch: dispatch,
		done:     make(chan struct{}),
	}

	t.sweeper = sweep.New(st, sweep.Config{
		Timeout:           cfg.Timeout,
		Interval:          cfg.SweepInterval,
		SampleProbability: cfg.SampleProbability,
		ExpiredKeysRatio:  cfg.ExpiredKeysRatio,
		MinSample:         o.minSample,
	}, dispatch, o.clock, o.logger, reg)

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	// The goroutine must not capture t, or the map could never
	// become unreachable while its sweeper runs.
	sweeper, done := t.sweeper, t.done
	go func() {
		defer close(done)
		sweeper.Run(ctx)
	}()

	// Last-resort teardown if the owner drops the map without Stop.
	// The cleanup only cancels; it must not reference t.
	runtime.SetFinalizer(t, func(tm *TimedMap[K, V]) { tm.cancel() })

	return t, nil
}

// Get returns the live value for key.
//
// The second return is false when no valid value is available: the key
// was never set, was deleted, or has expired. The three causes are not
// distinguished. If the key is found expired it is removed here and
// now, and the callback fires on the calling goroutine before Get
// returns.
func (t *TimedMap[K, V]) Get(key K) (V, bool) {
	return t.lookup(key)
}

// Contains reports whether key currently holds a live value. It runs
// the same inline expiry check as Get.
func (t *TimedMap[K, V]) Contains(key K) bool {
	_, ok := t.lookup(key)
	return ok
}

func (t *TimedMap[K, V]) lookup(key K) (V, bool) {
	t.metrics.Inc(metrics.GetsTotal)

	entry, result := t.store.Check(key, t.cfg.Timeout)
	switch result {
	case store.Live:
		return entry.Value, true
	case store.Expired:
		t.metrics.Inc(metrics.ExpiredAccessTotal)
		t.logger.Debug("expired key removed on access")
		// Check already removed the key under the lock; dispatch
		// runs unlocked so the callback may re-enter the map.
		t.dispatch(key, entry.Value)
	}

	t.metrics.Inc(metrics.MissesTotal)
	var zero V
	return zero, false
}

// Set inserts or overwrites key. Writing always resets the entry's
// TTL clock, including for a key that already holds a live value.
func (t *TimedMap[K, V]) Set(key K, value V) {
	t.store.Set(key, value)
}

// Delete removes key, if present. Deleting is not an expiration: the
// callback does not fire.
func (t *TimedMap[K, V]) Delete(key K) {
	t.store.Delete(key)
}

// Len returns the number of entries currently held. The count may
// include logically expired entries the sweeper has not reaped yet.
func (t *TimedMap[K, V]) Len() int {
	return t.store.Len()
}

// Metrics returns a snapshot of the map's operation counters.
func (t *TimedMap[K, V]) Metrics() map[string]int64 {
	return t.metrics.Snapshot()
}

// Stop terminates the background sweeper and blocks until its
// goroutine has fully exited. After Stop no further sweep passes
// occur; direct access keeps working, including the inline expiry
// check. Stop is idempotent.
func (t *TimedMap[K, V]) Stop() {
	t.stopOnce.Do(func() {
		t.cancel()
		<-t.done
	})
}
