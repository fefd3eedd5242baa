package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"launchdeck/internal/platform/logger"

	"github.com/puzpuzpuz/xsync/v3"
)

// Memory is an in-process store on a concurrent map; expiry is checked on read
type Memory struct {
	m    *xsync.MapOf[string, Entry]
	stop chan struct{}
	once sync.Once
}

// NewMemory builds a Memory store. sweep > 0 starts a background pass that drops expired entries
func NewMemory(sweep time.Duration) *Memory {
	s := &Memory{m: xsync.NewMapOf[string, Entry](), stop: make(chan struct{})}
	if sweep > 0 {
		go s.sweepEvery(sweep)
	}
	return s
}

// Get returns the entry for key if it has not expired
func (s *Memory) Get(_ context.Context, key string) (Entry, bool, error) {
	e, ok := s.m.Load(key)
	if !ok {
		return Entry{}, false, nil
	}
	if !e.Fresh(clock()) {
		s.m.Compute(key, func(cur Entry, loaded bool) (Entry, bool) {
			// drop only if nobody refreshed it in between
			return cur, !loaded || !cur.Fresh(clock())
		})
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Put stores e under key for ttl
func (s *Memory) Put(_ context.Context, key string, e Entry, ttl time.Duration) error {
	e.Key = key
	e.ExpiresAt = clock().Add(ttl)
	s.m.Store(key, e)
	return nil
}

// DeletePrefix removes every key starting with prefix
func (s *Memory) DeletePrefix(_ context.Context, prefix string) (int, error) {
	n := 0
	s.m.Range(func(k string, _ Entry) bool {
		if strings.HasPrefix(k, prefix) {
			s.m.Delete(k)
			n++
		}
		return true
	})
	return n, nil
}

// Len returns the number of stored entries, expired ones included
func (s *Memory) Len() int { return s.m.Size() }

// Close stops the sweeper
func (s *Memory) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *Memory) sweepEvery(d time.Duration) {
	t := time.NewTicker(d)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.sweep()
		}
	}
}

func (s *Memory) sweep() {
	now := clock()
	dropped := 0
	s.m.Range(func(k string, e Entry) bool {
		if !e.Fresh(now) {
			s.m.Delete(k)
			dropped++
		}
		return true
	})
	if dropped > 0 {
		logger.Named("cache").Debug().Int("dropped", dropped).Msg("memory sweep")
	}
}
