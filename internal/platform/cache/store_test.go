package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	kit "launchdeck/internal/platform/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move time without sleeping
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func withClock(t *testing.T) *fakeClock {
	t.Helper()
	kit.Serial(t)
	fc := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	kit.Swap(t, &clock, fc.Now)
	return fc
}

// contract runs the behaviour every in-process backend must share
func contract(t *testing.T, open func() Store) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		withClock(t)
		s := open()
		defer s.Close()

		_, ok, err := s.Get(ctx, "launches::a")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.Put(ctx, "launches::a", Entry{Status: 200, ContentType: "application/json", Body: []byte(`[1]`)}, 20*time.Second))
		e, ok, err := s.Get(ctx, "launches::a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "launches::a", e.Key)
		assert.Equal(t, []byte(`[1]`), e.Body)
		assert.Equal(t, 200, e.Status)
	})

	t.Run("never served past expiry", func(t *testing.T) {
		fc := withClock(t)
		s := open()
		defer s.Close()

		require.NoError(t, s.Put(ctx, "k", Entry{Status: 200, Body: []byte("x")}, 20*time.Second))
		fc.Advance(19 * time.Second)
		_, ok, _ := s.Get(ctx, "k")
		assert.True(t, ok, "fresh at 19s")

		fc.Advance(time.Second)
		_, ok, _ = s.Get(ctx, "k")
		assert.False(t, ok, "expired at exactly 20s")
	})

	t.Run("overwrite after expiry", func(t *testing.T) {
		fc := withClock(t)
		s := open()
		defer s.Close()

		require.NoError(t, s.Put(ctx, "k", Entry{Body: []byte("old")}, time.Second))
		fc.Advance(2 * time.Second)
		require.NoError(t, s.Put(ctx, "k", Entry{Body: []byte("new")}, time.Second))
		e, ok, _ := s.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, "new", string(e.Body))
	})

	t.Run("delete prefix", func(t *testing.T) {
		withClock(t)
		s := open()
		defer s.Close()

		for _, k := range []string{"launches::1", "launches::2", "rockets::1"} {
			require.NoError(t, s.Put(ctx, k, Entry{Body: []byte(k)}, time.Minute))
		}
		n, err := s.DeletePrefix(ctx, Prefix("launches"))
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		_, ok, _ := s.Get(ctx, "rockets::1")
		assert.True(t, ok)
		_, ok, _ = s.Get(ctx, "launches::1")
		assert.False(t, ok)
	})

	t.Run("concurrent access", func(t *testing.T) {
		s := open()
		defer s.Close()

		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				k := fmt.Sprintf("launches::%d", i%4)
				_ = s.Put(ctx, k, Entry{Body: []byte(k)}, time.Minute)
				e, ok, err := s.Get(ctx, k)
				assert.NoError(t, err)
				if ok {
					assert.Equal(t, k, string(e.Body))
				}
			}(i)
		}
		wg.Wait()
	})
}

func TestMemoryStore(t *testing.T) {
	contract(t, func() Store { return NewMemory(0) })
}

func TestSturdyStore(t *testing.T) {
	contract(t, func() Store { return NewSturdy(1000, 4, time.Hour, 10) })
}

func TestMemorySweepDropsExpired(t *testing.T) {
	fc := withClock(t)
	s := NewMemory(0)
	defer s.Close()

	_ = s.Put(context.Background(), "a", Entry{}, time.Second)
	_ = s.Put(context.Background(), "b", Entry{}, time.Hour)
	fc.Advance(2 * time.Second)
	s.sweep()
	assert.Equal(t, 1, s.Len())
}

func TestCacheable(t *testing.T) {
	for status, want := range map[int]bool{200: true, 201: true, 204: true, 304: false, 400: false, 404: false, 500: false} {
		assert.Equal(t, want, Cacheable(status), "status %d", status)
	}
}
