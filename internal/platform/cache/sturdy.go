package cache

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// Sturdy is an in-process sharded store backed by sturdyc.
// sturdyc applies one TTL to the whole client, so each Entry also carries its own ExpiresAt
type Sturdy struct {
	c *sturdyc.Client[Entry]
}

// NewSturdy builds a sturdyc client; maxTTL bounds how long any entry may live
func NewSturdy(capacity, shards int, maxTTL time.Duration, evictPct int) *Sturdy {
	return &Sturdy{c: sturdyc.New[Entry](capacity, shards, maxTTL, evictPct)}
}

// Get returns the entry for key if it has not expired
func (s *Sturdy) Get(_ context.Context, key string) (Entry, bool, error) {
	e, ok := s.c.Get(key)
	if !ok {
		return Entry{}, false, nil
	}
	if !e.Fresh(clock()) {
		s.c.Delete(key)
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Put stores e under key for ttl
func (s *Sturdy) Put(_ context.Context, key string, e Entry, ttl time.Duration) error {
	e.Key = key
	e.ExpiresAt = clock().Add(ttl)
	s.c.Set(key, e)
	return nil
}

// DeletePrefix removes every key starting with prefix
func (s *Sturdy) DeletePrefix(_ context.Context, prefix string) (int, error) {
	n := 0
	for _, k := range s.c.ScanKeys() {
		if strings.HasPrefix(k, prefix) {
			s.c.Delete(k)
			n++
		}
	}
	return n, nil
}

// Close is a no-op; sturdyc has nothing to release
func (s *Sturdy) Close() error { return nil }
