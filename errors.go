package timedstore

import "errors"

var (
	// ErrInvalidTimeout indicates a non-positive entry timeout.
	ErrInvalidTimeout = errors.New("timedstore: timeout must be positive")

	// ErrInvalidSweepInterval indicates a non-positive sweep interval.
	ErrInvalidSweepInterval = errors.New("timedstore: sweep interval must be positive")

	// ErrInvalidSampleProbability indicates a sample probability outside (0, 1].
	ErrInvalidSampleProbability = errors.New("timedstore: sample probability must be in (0, 1]")

	// ErrInvalidExpiredRatio indicates an expired keys ratio outside (0, 1].
	ErrInvalidExpiredRatio = errors.New("timedstore: expired keys ratio must be in (0, 1]")
)
