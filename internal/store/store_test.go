package store

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timedstore/internal/metrics"
)

func TestStoreSet_Check(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New[string, string](clock, metrics.NewRegistry())

	t.Run("set and check existing key", func(t *testing.T) {
		s.Set("key1", "hello")

		entry, result := s.Check("key1", time.Minute)
		require.Equal(t, Live, result)
		assert.Equal(t, "hello", entry.Value)
	})

	t.Run("check non-existing key", func(t *testing.T) {
		_, result := s.Check("missing", time.Minute)
		assert.Equal(t, Missing, result)
	})
}

func TestStoreSet_RestampsOnOverwrite(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New[string, string](clock, metrics.NewRegistry())

	s.Set("key1", "old")
	clock.Advance(40 * time.Second)
	s.Set("key1", "new")
	clock.Advance(30 * time.Second)

	// 70s since first write, 30s since overwrite: still live
	// against a 60s timeout because Set restamped the entry.
	entry, result := s.Check("key1", time.Minute)
	require.Equal(t, Live, result)
	assert.Equal(t, "new", entry.Value)
}

func TestStoreCheck_ExpiredKeyIsDeletedOnce(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg := metrics.NewRegistry()
	s := New[string, string](clock, reg)

	s.Set("temp", "value")
	clock.Advance(2 * time.Minute)

	entry, result := s.Check("temp", time.Minute)
	require.Equal(t, Expired, result)
	assert.Equal(t, "value", entry.Value)

	// The loser of the race finds nothing.
	_, result = s.Check("temp", time.Minute)
	assert.Equal(t, Missing, result)

	assert.Equal(t, int64(0), reg.Get(metrics.KeysCurrent))
}

func TestStoreCheck_ExpiresAtExactTimeout(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New[string, string](clock, metrics.NewRegistry())

	s.Set("k", "v")
	clock.Advance(time.Minute)

	// age == timeout counts as expired
	_, result := s.Check("k", time.Minute)
	assert.Equal(t, Expired, result)
}

func TestStoreDelete(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New[string, string](clock, metrics.NewRegistry())

	s.Set("key1", "1")

	assert.True(t, s.Delete("key1"))
	assert.False(t, s.Delete("key1"))

	_, result := s.Check("key1", time.Minute)
	assert.Equal(t, Missing, result)
}

func TestStoreKeys_IsSnapshot(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New[string, int](clock, metrics.NewRegistry())

	s.Set("a", 1)
	s.Set("b", 2)

	keys := s.Keys()
	assert.ElementsMatch(t, []string{"a", "b"}, keys)

	// Mutating the store does not change the snapshot.
	s.Set("c", 3)
	assert.Len(t, keys, 2)
	assert.Equal(t, 3, s.Len())
}

func TestStoreConcurrentWrites(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New[string, int](clock, metrics.NewRegistry())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Set("key", i)
		}(i)
	}
	wg.Wait()

	_, result := s.Check("key", time.Minute)
	assert.Equal(t, Live, result)
	assert.Equal(t, 1, s.Len())
}
