package sweep

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"timedstore/internal/metrics"
	"timedstore/internal/store"
)

// State is the scheduler's current position in its lifecycle.
type State int32

const (
	// Sleeping means the sweeper is suspended between passes.
	Sleeping State = iota
	// Sampling means a pass is in progress.
	Sampling
	// Stopped is terminal; the run loop has exited and the sweeper
	// touches the store no further.
	Stopped
)

func (s State) String() string {
	switch s {
	case Sleeping:
		return "sleeping"
	case Sampling:
		return "sampling"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Target defines the minimal store contract required by the sweeper.
// This keeps the sweeper decoupled from the concrete store implementation.
type Target[K comparable, V any] interface {
	Keys() []K
	Check(key K, timeout time.Duration) (store.Entry[V], store.Result)
}

// Config holds the sweep parameters, fixed for the sweeper's lifetime.
type Config struct {
	Timeout           time.Duration
	Interval          time.Duration
	SampleProbability float64
	ExpiredKeysRatio  float64
	MinSample         int
}

// Sweeper periodically expires keys from its target using random
// sampling, the way Redis reaps volatile keys.
//
// Each pass draws a sample of the current keys without replacement and
// removes the expired ones. If the expired fraction of the sample
// reaches ExpiredKeysRatio, the next pass runs immediately with no
// sleep; a burst of freshly expired keys is therefore drained quickly,
// while a quiescent store costs one small sample per interval.
type Sweeper[K comparable, V any] struct {
	target   Target[K, V]
	cfg      Config
	dispatch func(key K, value V)
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *metrics.Registry
	state    atomic.Int32
}

// New creates a sweeper. dispatch is invoked once for every key the
// sweeper expires, after the store lock has been released.
func New[K comparable, V any](
	target Target[K, V],
	cfg Config,
	dispatch func(key K, value V),
	clock clockwork.Clock,
	logger *slog.Logger,
	reg *metrics.Registry,
) *Sweeper[K, V] {
	s := &Sweeper[K, V]{
		target:   target,
		cfg:      cfg,
		dispatch: dispatch,
		clock:    clock,
		logger:   logger,
		metrics:  reg,
	}
	s.state.Store(int32(Sampling))
	return s
}

// State reports the sweeper's current state.
func (s *Sweeper[K, V]) State() State {
	return State(s.state.Load())
}

// Run executes the sweep loop until the context is cancelled.
// It blocks and should be run in its own goroutine.
//
// The first pass runs immediately on start. Cancellation is honored at
// every suspension point and between sampled keys, so an in-flight
// pass finishes its current key and exits rather than sleeping out a
// full interval.
func (s *Sweeper[K, V]) Run(ctx context.Context) {
	defer s.state.Store(int32(Stopped))

	for {
		if ctx.Err() != nil {
			return
		}

		s.state.Store(int32(Sampling))
		expiredFraction := s.pass(ctx)

		if expiredFraction >= s.cfg.ExpiredKeysRatio {
			s.metrics.Inc(metrics.SweepRetriggersTotal)
			continue
		}

		s.state.Store(int32(Sleeping))
		select {
		case <-s.clock.After(s.cfg.Interval):
		case <-ctx.Done():
			s.logger.Debug("sweeper stopped")
			return
		}
	}
}

// pass performs one sampling-and-expiration cycle and returns the
// fraction of the sample that turned out to be expired. An empty
// sample counts as fraction 0.
func (s *Sweeper[K, V]) pass(ctx context.Context) float64 {
	keys := s.target.Keys()

	s.metrics.Inc(metrics.SweepPassesTotal)

	if len(keys) == 0 {
		return 0
	}

	sampled := s.sample(keys)
	expired := 0

	for _, key := range sampled {
		if ctx.Err() != nil {
			break
		}

		entry, result := s.target.Check(key, s.cfg.Timeout)
		if result != store.Expired {
			// Missing is normal: a concurrent access may have
			// removed the key since the snapshot was taken.
			continue
		}

		expired++
		s.metrics.Inc(metrics.ExpiredSweepTotal)
		s.dispatch(key, entry.Value)
	}

	s.metrics.Add(metrics.SweepKeysSampledTotal, int64(len(sampled)))

	if expired > 0 {
		s.logger.Info("sweep removed expired keys",
			slog.Int("sampled", len(sampled)),
			slog.Int("expired", expired))
	}

	return float64(expired) / float64(len(sampled))
}

// sample draws a random subset of keys without replacement.
//
// The sample size is SampleProbability of the snapshot, rounded up,
// with a floor of MinSample (or the whole set when the store is
// smaller than that). The slice is shuffled in place; callers own it.
func (s *Sweeper[K, V]) sample(keys []K) []K {
	n := int(math.Ceil(s.cfg.SampleProbability * float64(len(keys))))

	if floor := min(s.cfg.MinSample, len(keys)); n < floor {
		n = floor
	}

	rand.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})
	return keys[:n]
}
