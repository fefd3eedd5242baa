// Package http provides http transport for launches
package http

import (
	"context"
	stdhttp "net/http"

	"launchdeck/internal/core/query"
	"launchdeck/internal/core/shape"
	"launchdeck/internal/modkit/httpkit"
	"launchdeck/internal/platform/cache"
	"launchdeck/internal/platform/net/middleware"
	"launchdeck/internal/services/api/launches/domain"
)

// DefaultMaxBody caps /query and mutation bodies
const DefaultMaxBody = 64 << 10

// Options wires the cross cutting pieces around the handlers
type Options struct {
	// Cache is nil when caching is off
	Cache     cache.Store
	CacheOpts middleware.CacheOptions
	// PurgeOnWrite drops the launches namespace after a successful mutation
	PurgeOnWrite bool

	Auth    middleware.AuthPort
	Limits  query.Limits
	MaxBody int64

	// Populator resolves rocket and launchpad; nil leaves ids in place
	Populator domain.Populator
}

// Register mounts launch endpoints on r
func Register(r httpkit.Router, s domain.ServicePort, o Options) {
	h := &handlers{svc: s, pop: o.Populator, limits: o.Limits}
	if o.MaxBody <= 0 {
		o.MaxBody = DefaultMaxBody
	}
	body := middleware.BodyLimit(o.MaxBody)

	reads := r.With(middleware.Cache(o.Cache, o.CacheOpts))
	httpkit.Get(reads, "/past", h.past)
	httpkit.Get(reads, "/upcoming", h.upcoming)
	httpkit.Get(reads, "/latest", h.latest)
	httpkit.Get(reads, "/next", h.next)
	httpkit.Get(reads, "/", h.all)
	httpkit.Get(reads, "/{id}", h.one)
	httpkit.PostRaw(r.With(body, middleware.Cache(o.Cache, o.CacheOpts)), "/query", h.query)

	var purge []httpkit.Middleware
	if o.PurgeOnWrite {
		purge = append(purge, middleware.Purge(o.Cache, o.CacheOpts))
	}
	writes := append([]httpkit.Middleware{body}, purge...)

	httpkit.Protected(r, o.Auth, domain.CapCreate, func(pr httpkit.Router) {
		httpkit.Create(pr.With(writes...), "/", h.create)
	})
	httpkit.Protected(r, o.Auth, domain.CapUpdate, func(pr httpkit.Router) {
		httpkit.Patch(pr.With(writes...), "/{id}", h.update)
	})
	httpkit.Protected(r, o.Auth, domain.CapDelete, func(pr httpkit.Router) {
		httpkit.Delete(pr.With(writes...), "/{id}", h.remove)
	})
}

type handlers struct {
	svc    domain.ServicePort
	pop    domain.Populator
	limits query.Limits
}

func (h *handlers) past(r *stdhttp.Request) (any, error) {
	return h.list(r, domain.Upcoming(false), domain.ByFlight(query.Asc))
}

func (h *handlers) upcoming(r *stdhttp.Request) (any, error) {
	return h.list(r, domain.Upcoming(true), domain.ByFlight(query.Asc))
}

func (h *handlers) all(r *stdhttp.Request) (any, error) {
	return h.list(r, nil, domain.ByFlight(query.Asc))
}

func (h *handlers) latest(r *stdhttp.Request) (any, error) {
	return h.first(r, domain.Upcoming(false), domain.ByFlight(query.Desc))
}

func (h *handlers) next(r *stdhttp.Request) (any, error) {
	return h.first(r, domain.Upcoming(true), domain.ByFlight(query.Asc))
}

func (h *handlers) list(r *stdhttp.Request, where query.Predicate, sort []query.Sort) (any, error) {
	recs, err := h.svc.List(r.Context(), where, sort)
	if err != nil {
		return nil, err
	}
	return shape.List(domain.ToExternal, recs), nil
}

func (h *handlers) first(r *stdhttp.Request, where query.Predicate, sort []query.Sort) (any, error) {
	rec, err := h.svc.First(r.Context(), where, sort)
	if err != nil {
		return nil, err
	}
	return shape.One(domain.ToExternal, rec), nil
}

func (h *handlers) one(r *stdhttp.Request) (any, error) {
	rec, err := h.svc.Get(r.Context(), httpkit.Param(r, "id"))
	if err != nil {
		return nil, err
	}
	return shape.One(domain.ToExternal, &rec), nil
}

func (h *handlers) query(r *stdhttp.Request, body []byte) (any, error) {
	d, err := query.Transform(domain.Schema, body, h.limits)
	if err != nil {
		return nil, err
	}
	page, err := h.svc.Query(r.Context(), d)
	if err != nil {
		return nil, err
	}
	out := shape.Paged(domain.ToExternal, page)
	if err := populate(r.Context(), h.pop, d.Populate(), out.Items); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	p, err := httpkit.Principal(r)
	if err != nil {
		return nil, err
	}
	rec, err := h.svc.Create(r.Context(), p.Subject, in)
	if err != nil {
		return nil, err
	}
	return shape.One(domain.ToExternal, &rec), nil
}

func (h *handlers) update(r *stdhttp.Request, in domain.PatchInput) (any, error) {
	rec, err := h.svc.Update(r.Context(), httpkit.Param(r, "id"), in)
	if err != nil {
		return nil, err
	}
	return shape.One(domain.ToExternal, &rec), nil
}

func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	ok, err := h.svc.Delete(r.Context(), httpkit.Param(r, "id"))
	if err != nil {
		return nil, err
	}
	return domain.Deleted{Deleted: ok}, nil
}

// populate swaps relation ids for documents the populator knows
func populate(ctx context.Context, p domain.Populator, rels []string, items []domain.Launch) error {
	if p == nil || len(rels) == 0 || len(items) == 0 {
		return nil
	}
	for _, rel := range rels {
		ids := make([]string, 0, len(items))
		for _, it := range items {
			if id, ok := relation(&it, rel).(string); ok {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			continue
		}
		docs, err := p.Populate(ctx, rel, ids)
		if err != nil {
			return err
		}
		for i := range items {
			id, ok := relation(&items[i], rel).(string)
			if !ok {
				continue
			}
			if doc, found := docs[id]; found {
				setRelation(&items[i], rel, doc)
			}
		}
	}
	return nil
}

func relation(l *domain.Launch, rel string) any {
	if rel == domain.RelLaunchpad {
		return l.Launchpad
	}
	return l.Rocket
}

func setRelation(l *domain.Launch, rel string, v any) {
	if rel == domain.RelLaunchpad {
		l.Launchpad = v
		return
	}
	l.Rocket = v
}
