// Package module wires launches into the API using modkit
package module

import (
	"launchdeck/internal/core/query"
	modkit "launchdeck/internal/modkit"
	"launchdeck/internal/modkit/httpkit"
	"launchdeck/internal/modkit/repokit"
	"launchdeck/internal/modkit/swaggerkit"
	"launchdeck/internal/platform/config"
	"launchdeck/internal/platform/net/middleware"
	lstrings "launchdeck/internal/platform/strings"
	"launchdeck/internal/services/api/launches/domain"
	launchhttp "launchdeck/internal/services/api/launches/http"
	launchrepo "launchdeck/internal/services/api/launches/repo"
	launchsvc "launchdeck/internal/services/api/launches/service"
)

// Namespace keys every cached launch response so writes can purge them together
const Namespace = "launches"

// Needs are ports owned elsewhere that launches can use; pass them with modkit.WithPorts
type Needs struct {
	Populator domain.Populator
}

// Module implements the launches module
type Module struct {
	name   string
	prefix string
	mws    []httpkit.Middleware

	register func(httpkit.Router)
	ports    Ports
}

// New constructs the launches module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("launches"), modkit.WithPrefix("/launches")}, opts...)...)

	db, err := repokit.NewDB(deps.DB, deps.Dialect, deps.StoreTimeout)
	if err != nil {
		panic("launches: " + err.Error())
	}
	db = db.WithHooks(repokit.StatementTimeout(db.Dialect, deps.StoreTimeout))
	svc := launchsvc.New(db, launchrepo.New(db.Dialect))

	needs, _ := b.Ports.(Needs)
	o := HTTPOptions(deps)
	o.Populator = needs.Populator

	m := &Module{
		name:   b.Name,
		prefix: lstrings.MustPrefix(b.Prefix),
		mws:    b.Mw,
		ports:  Ports{Service: svc, Seeder: svc},
	}
	swaggerkit.Register(launchhttp.Docs(m.prefix))

	external := b.Register
	m.register = func(r httpkit.Router) {
		launchhttp.Register(r, svc, o)
		external(r)
	}
	return m
}

// HTTPOptions derives the handler options from deps and the QUERY_ config
func HTTPOptions(deps modkit.Deps) launchhttp.Options {
	lim, maxBody := LimitsFromEnv(deps.Cfg)
	return launchhttp.Options{
		Cache: deps.Cache,
		CacheOpts: middleware.CacheOptions{
			Namespace: Namespace,
			TTL:       deps.CacheCfg.TTL,
			Timeout:   deps.CacheCfg.Timeout,
			Coalesce:  deps.CacheCfg.Coalesce,
			MaxBody:   maxBody,
		},
		PurgeOnWrite: deps.CacheCfg.InvalidateOnWrite,
		Auth:         deps.Auth,
		Limits:       lim,
		MaxBody:      maxBody,
	}
}

// LimitsFromEnv reads QUERY_DEFAULT_LIMIT, QUERY_MAX_LIMIT, QUERY_MAX_DEPTH, QUERY_MAX_IN and QUERY_MAX_BODY
func LimitsFromEnv(c config.Conf) (query.Limits, int64) {
	qc := c.Prefix("QUERY_")
	def := query.DefaultLimits()
	lim := query.Limits{
		DefaultLimit: qc.MayInt("DEFAULT_LIMIT", def.DefaultLimit),
		MaxLimit:     qc.MayInt("MAX_LIMIT", def.MaxLimit),
		MaxDepth:     qc.MayInt("MAX_DEPTH", def.MaxDepth),
		MaxIn:        qc.MayInt("MAX_IN", def.MaxIn),
	}
	return lim, qc.MayInt64("MAX_BODY", launchhttp.DefaultMaxBody)
}

// MountRoutes mounts the module routes under its prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, m.register)
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }
