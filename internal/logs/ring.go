package logs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Entry is one captured log record.
type Entry struct {
	Time    time.Time   `json:"timestamp"`
	Level   slog.Level  `json:"level"`
	Message string      `json:"message"`
	Attrs   []slog.Attr `json:"attrs,omitempty"`
}

// Ring is a slog.Handler that keeps the most recent records in memory.
//
// It applies level filtering and ring-buffer behavior: once maxSize
// records are held, the oldest is dropped for each new one. Intended
// for tests and diagnostics where the last N events matter; it never
// writes anywhere.
type Ring struct {
	mu      sync.Mutex
	entries []Entry
	maxSize int
	level   slog.Level
	attrs   []slog.Attr
}

// NewRing creates a ring handler.
//
// level: minimum record level to keep.
// maxSize: maximum number of records held in memory.
func NewRing(maxSize int, level slog.Level) *Ring {
	return &Ring{
		entries: make([]Entry, 0, maxSize),
		maxSize: maxSize,
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (r *Ring) Enabled(_ context.Context, level slog.Level) bool {
	return level >= r.level
}

// Handle implements slog.Handler.
func (r *Ring) Handle(_ context.Context, rec slog.Record) error {
	attrs := make([]slog.Attr, 0, rec.NumAttrs()+len(r.attrs))
	attrs = append(attrs, r.attrs...)
	rec.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) >= r.maxSize {
		// drop oldest (FIFO)
		r.entries = r.entries[1:]
	}

	r.entries = append(r.entries, Entry{
		Time:    rec.Time,
		Level:   rec.Level,
		Message: rec.Message,
		Attrs:   attrs,
	})
	return nil
}

// WithAttrs implements slog.Handler. The derived handler shares the
// ring, so records from all derived loggers land in one buffer.
func (r *Ring) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &derived{ring: r, attrs: attrs}
}

// WithGroup implements slog.Handler. Groups are not tracked; this is a
// capture handler, not a formatter.
func (r *Ring) WithGroup(string) slog.Handler {
	return r
}

// Last returns a copy of up to n of the most recent records, oldest
// first.
func (r *Ring) Last(n int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n > len(r.entries) {
		n = len(r.entries)
	}

	start := len(r.entries) - n
	out := make([]Entry, n)
	copy(out, r.entries[start:])
	return out
}

// derived is a Ring view carrying pre-bound attributes.
type derived struct {
	ring  *Ring
	attrs []slog.Attr
}

func (d *derived) Enabled(ctx context.Context, level slog.Level) bool {
	return d.ring.Enabled(ctx, level)
}

func (d *derived) Handle(ctx context.Context, rec slog.Record) error {
	rec.AddAttrs(d.attrs...)
	return d.ring.Handle(ctx, rec)
}

func (d *derived) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &derived{ring: d.ring, attrs: append(d.attrs[:len(d.attrs):len(d.attrs)], attrs...)}
}

func (d *derived) WithGroup(string) slog.Handler {
	return d
}
