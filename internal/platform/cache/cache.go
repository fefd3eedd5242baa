// Package cache stores rendered read responses with a bounded freshness window.
// Backends: an xsync map, a sturdyc sharded cache and redis
package cache

import (
	"context"
	"net/http"
	"time"
)

// Entry is one cached response
type Entry struct {
	Key         string    `json:"key"`
	Status      int       `json:"status"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Fresh reports whether e may still be served at now
func (e Entry) Fresh(now time.Time) bool { return now.Before(e.ExpiresAt) }

// Cacheable reports whether a response with status may be stored
func Cacheable(status int) bool { return status >= http.StatusOK && status < http.StatusMultipleChoices }

// Store is the contract every backend implements.
// Get never returns an entry past its ExpiresAt
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, e Entry, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Close() error
}

// Pinger is implemented by backends that live outside the process
type Pinger interface {
	Ping(ctx context.Context) error
}

// clock is swapped in tests
var clock = time.Now
