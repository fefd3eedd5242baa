package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	perr "launchdeck/internal/platform/errors"

	"github.com/redis/go-redis/v9"
)

// Redis stores entries as JSON with a native key TTL
type Redis struct {
	rdb  redis.UniversalClient
	scan int64
}

// NewRedis wraps an existing client
func NewRedis(rdb redis.UniversalClient) *Redis { return &Redis{rdb: rdb, scan: 200} }

// DialRedis builds a client from addr, password and db
func DialRedis(addr, password string, db int) *Redis {
	return NewRedis(redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}))
}

// Get returns the entry for key; redis expires keys itself, ExpiresAt is checked as well
func (s *Redis) Get(ctx context.Context, key string) (Entry, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, perr.Wrap(err, perr.ErrorCodeUnavailable, "cache get failed")
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return Entry{}, false, perr.Wrap(err, perr.ErrorCodeDB, "cache entry corrupt")
	}
	if !e.Fresh(clock()) {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Put stores e under key for ttl
func (s *Redis) Put(ctx context.Context, key string, e Entry, ttl time.Duration) error {
	e.Key = key
	e.ExpiresAt = clock().Add(ttl)
	b, err := json.Marshal(e)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "cache entry encode")
	}
	if err := s.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "cache put failed")
	}
	return nil
}

// DeletePrefix scans prefix* and deletes the matches in batches
func (s *Redis) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	it := s.rdb.Scan(ctx, 0, prefix+"*", s.scan).Iterator()
	batch := make([]string, 0, s.scan)
	n := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		del, err := s.rdb.Del(ctx, batch...).Result()
		n += int(del)
		batch = batch[:0]
		return err
	}
	for it.Next(ctx) {
		batch = append(batch, it.Val())
		if int64(len(batch)) >= s.scan {
			if err := flush(); err != nil {
				return n, perr.Wrap(err, perr.ErrorCodeUnavailable, "cache purge failed")
			}
		}
	}
	if err := it.Err(); err != nil {
		return n, perr.Wrap(err, perr.ErrorCodeUnavailable, "cache scan failed")
	}
	if err := flush(); err != nil {
		return n, perr.Wrap(err, perr.ErrorCodeUnavailable, "cache purge failed")
	}
	return n, nil
}

// Ping checks the connection
func (s *Redis) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "cache unreachable")
	}
	return nil
}

// Close closes the client
func (s *Redis) Close() error { return s.rdb.Close() }
