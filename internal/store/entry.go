package store

import "time"

// Entry represents a single value held by the store.
//
// InsertedAt is stamped on every Set, including overwrites of a live
// key, so re-setting a key always resets its TTL clock. There is no
// separate refresh operation.
type Entry[V any] struct {
	Value      V
	InsertedAt time.Time
}

// Age returns how long the entry has existed as of now.
func (e Entry[V]) Age(now time.Time) time.Duration {
	return now.Sub(e.InsertedAt)
}
