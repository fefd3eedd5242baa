// Package modkit provides module wiring and core deps
package modkit

import (
	"context"
	"time"

	"launchdeck/internal/modkit/repokit"
	"launchdeck/internal/platform/cache"
	"launchdeck/internal/platform/config"
	"launchdeck/internal/platform/logger"
	"launchdeck/internal/platform/net/middleware"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	// DB is the sql seam and Dialect the driver it speaks (postgres or sqlite)
	DB      repokit.TxRunner
	Dialect string
	// StoreTimeout bounds each repo call; zero means none
	StoreTimeout time.Duration

	// Cache is nil when caching is off
	Cache    cache.Store
	CacheCfg cache.Config

	// Auth verifies API keys for mutating routes
	Auth middleware.AuthPort
}

// Pinger is any dependency that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Checks returns the readiness probes for the deps that support them, keyed by name
// a dependency that is not configured is reported as nil
func (d Deps) Checks() map[string]Pinger {
	out := map[string]Pinger{"store": nil, "cache": nil}
	if p, ok := d.DB.(Pinger); ok {
		out["store"] = p
	}
	if p, ok := d.Cache.(Pinger); ok {
		out["cache"] = p
	}
	return out
}
