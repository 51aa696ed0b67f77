package timedstore

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Defaults applied by New for zero-valued Config fields.
const (
	DefaultSweepInterval     = time.Second
	DefaultSampleProbability = 0.25
	DefaultExpiredKeysRatio  = 0.25

	// defaultMinSample is the floor on the sweep sample size, the
	// same order Redis uses. Stores smaller than this are sampled
	// whole.
	defaultMinSample = 20
)

// Callback is invoked with every key/value pair that expires, on
// whichever goroutine discovered the expiration. Extra arguments are
// bound by closing over them.
type Callback[K comparable, V any] func(key K, value V)

// Config holds the store parameters, validated once at construction
// and immutable afterwards.
//
// Timeout is required. The remaining fields fall back to the package
// defaults when left zero.
type Config struct {
	// Timeout is how long an entry may live after its last Set.
	Timeout time.Duration

	// SweepInterval is the sleep between background sweep passes.
	SweepInterval time.Duration

	// SampleProbability is the fraction of keys sampled per pass,
	// in (0, 1].
	SampleProbability float64

	// ExpiredKeysRatio is the expired fraction of a sample that
	// triggers an immediate follow-up pass, in (0, 1].
	ExpiredKeysRatio float64
}

// withDefaults returns the config with zero fields replaced by the
// package defaults.
func (c Config) withDefaults() Config {
	if c.SweepInterval == 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	if c.SampleProbability == 0 {
		c.SampleProbability = DefaultSampleProbability
	}
	if c.ExpiredKeysRatio == 0 {
		c.ExpiredKeysRatio = DefaultExpiredKeysRatio
	}
	return c
}

// validate checks the config after defaults have been applied.
func (c Config) validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.SweepInterval <= 0 {
		return ErrInvalidSweepInterval
	}
	if c.SampleProbability <= 0 || c.SampleProbability > 1 {
		return ErrInvalidSampleProbability
	}
	if c.ExpiredKeysRatio <= 0 || c.ExpiredKeysRatio > 1 {
		return ErrInvalidExpiredRatio
	}
	return nil
}

// Option configures optional TimedMap behavior.
type Option[K comparable, V any] func(*options[K, V])

type options[K comparable, V any] struct {
	callback  Callback[K, V]
	logger    *slog.Logger
	clock     clockwork.Clock
	minSample int
}

// WithCallback sets the function invoked whenever a key expires,
// whether discovered on access or by the background sweep. The
// callback runs synchronously on the discovering goroutine, outside
// the store lock, so it may safely call back into the map.
func WithCallback[K comparable, V any](cb Callback[K, V]) Option[K, V] {
	return func(o *options[K, V]) {
		o.callback = cb
	}
}

// WithLogger sets the logger for sweep and expiration events.
// By default logs are discarded.
func WithLogger[K comparable, V any](logger *slog.Logger) Option[K, V] {
	return func(o *options[K, V]) {
		o.logger = logger
	}
}

// WithClock injects the clock used for entry timestamps and sweep
// scheduling. Defaults to the real clock; tests substitute a fake.
func WithClock[K comparable, V any](clock clockwork.Clock) Option[K, V] {
	return func(o *options[K, V]) {
		o.clock = clock
	}
}

// WithMinSample overrides the floor on the sweep sample size.
func WithMinSample[K comparable, V any](n int) Option[K, V] {
	return func(o *options[K, V]) {
		o.minSample = n
	}
}
