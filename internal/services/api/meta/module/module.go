// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"launchdeck/internal/core/version"
	modkit "launchdeck/internal/modkit"
	"launchdeck/internal/modkit/httpkit"
	"launchdeck/internal/modkit/swaggerkit"
	lstrings "launchdeck/internal/platform/strings"

	metahttp "launchdeck/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	name     string
	prefix   string
	mws      []httpkit.Middleware
	register func(httpkit.Router)
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	checks := map[string]metahttp.Pinger{}
	for name, p := range deps.Checks() {
		checks[name] = p
	}

	// API_READY_TIMEOUT bounds all readiness probes together
	readyTimeout := deps.Cfg.Prefix("API_").MayDuration("READY_TIMEOUT", 2*time.Second)
	started := time.Now()
	m := &Module{name: b.Name, prefix: lstrings.MustPrefix(b.Prefix), mws: b.Mw}
	swaggerkit.Register(metahttp.Docs(m.prefix))

	external := b.Register
	m.register = func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName:  version.Service,
			StartedAt:    started,
			Checks:       checks,
			ReadyTimeout: readyTimeout,
		})
		external(r)
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, m.register)
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
