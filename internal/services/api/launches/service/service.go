// Package service contains launch workflows
package service

import (
	"context"
	stderrs "errors"
	"time"

	"launchdeck/internal/core/query"
	"launchdeck/internal/core/shape"
	"launchdeck/internal/modkit/repokit"
	perr "launchdeck/internal/platform/errors"
	"launchdeck/internal/platform/logger"
	"launchdeck/internal/platform/net/http/bind"
	"launchdeck/internal/services/api/launches/domain"
	"launchdeck/internal/services/api/launches/repo"

	"github.com/google/uuid"
)

// storeMsg is the client facing prefix for store failures
const storeMsg = "launch store unavailable"

// Service defines the launch service contract
type Service interface {
	domain.ServicePort
	domain.Seeder
}

// Svc implements Service
type Svc struct {
	db     repokit.DB
	binder repokit.Binder[repo.Repo]

	now   func() time.Time
	newID func() string
}

// Option tunes a Svc
type Option func(*Svc)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = now } }

// WithIDs replaces the uuid v4 generator
func WithIDs(fn func() string) Option { return func(s *Svc) { s.newID = fn } }

// New constructs a launch service over db
func New(db repokit.DB, binder repokit.Binder[repo.Repo], opts ...Option) *Svc {
	if db.Runner == nil {
		panic("launches.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("launches.Service requires a non nil Repo binder")
	}
	s := &Svc{
		db:     db,
		binder: binder,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// read runs fn on the pool under the store timeout
func (s *Svc) read(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	ctx, cancel := s.db.Ctx(ctx)
	defer cancel()
	return fn(ctx, s.binder.Bind(s.db.Runner))
}

// write runs fn in a transaction under the store timeout
func (s *Svc) write(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		return fn(ctx, repokit.MustBind(s.binder, q))
	})
}

// Query counts then fetches the requested window; sort is applied before the window
func (s *Svc) Query(ctx context.Context, d *query.Descriptor) (shape.Page[domain.Record], error) {
	var (
		total int
		items []domain.Record
	)
	err := s.read(ctx, func(ctx context.Context, r repo.Repo) error {
		var err error
		where := d.Where()
		if total, err = r.Count(ctx, where); err != nil {
			return err
		}
		if d.Offset() >= total {
			items = []domain.Record{}
			return nil
		}
		items, err = r.Find(ctx, where, d.Sort(), d.Limit(), d.Offset())
		return err
	})
	if err != nil {
		return shape.Page[domain.Record]{}, storeErr(ctx, "query", err)
	}
	return shape.NewPage(items, total, d.Page(), d.Limit()), nil
}

// List returns every match in sort order
func (s *Svc) List(ctx context.Context, where query.Predicate, sort []query.Sort) ([]domain.Record, error) {
	var out []domain.Record
	err := s.read(ctx, func(ctx context.Context, r repo.Repo) error {
		var err error
		out, err = r.Find(ctx, where, sort, 0, 0)
		return err
	})
	if err != nil {
		return nil, storeErr(ctx, "list", err)
	}
	return out, nil
}

// First returns the first match in sort order, or nil
func (s *Svc) First(ctx context.Context, where query.Predicate, sort []query.Sort) (*domain.Record, error) {
	var out []domain.Record
	err := s.read(ctx, func(ctx context.Context, r repo.Repo) error {
		var err error
		out, err = r.Find(ctx, where, sort, 1, 0)
		return err
	})
	if err != nil {
		return nil, storeErr(ctx, "first", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// Get returns one launch by id
func (s *Svc) Get(ctx context.Context, id string) (domain.Record, error) {
	id, err := ParseID(id)
	if err != nil {
		return domain.Record{}, err
	}
	var out domain.Record
	err = s.read(ctx, func(ctx context.Context, r repo.Repo) error {
		var err error
		out, err = r.Get(ctx, id)
		return err
	})
	if err != nil {
		return domain.Record{}, notFoundOr(ctx, "get", id, err)
	}
	return out, nil
}

// Create stores a new launch owned by principal by
func (s *Svc) Create(ctx context.Context, by string, in domain.CreateInput) (domain.Record, error) {
	rec := s.stamp(in.Record(), by)
	err := s.write(ctx, func(ctx context.Context, r repo.Repo) error {
		return r.Insert(ctx, rec)
	})
	if err != nil {
		return domain.Record{}, storeErr(ctx, "create", err)
	}
	return rec, nil
}

// Update merges in over the stored launch and validates the result before writing
func (s *Svc) Update(ctx context.Context, id string, in domain.PatchInput) (domain.Record, error) {
	id, err := ParseID(id)
	if err != nil {
		return domain.Record{}, err
	}
	if in.Empty() {
		return domain.Record{}, perr.Validationf("patch body has no fields")
	}
	var out domain.Record
	err = s.write(ctx, func(ctx context.Context, r repo.Repo) error {
		cur, err := r.Get(ctx, id)
		if err != nil {
			return err
		}
		merged := in.Apply(cur)
		if err := bind.Validate(domain.InputOf(merged)); err != nil {
			return err
		}
		merged.UpdatedAt = domain.Stored(s.now())
		ok, err := r.Update(ctx, merged)
		if err != nil {
			return err
		}
		if !ok {
			return perr.ErrNotFound
		}
		out = merged
		return nil
	})
	if err != nil {
		return domain.Record{}, notFoundOr(ctx, "update", id, err)
	}
	return out, nil
}

// Delete removes id if present and reports whether it did
func (s *Svc) Delete(ctx context.Context, id string) (bool, error) {
	id, err := ParseID(id)
	if err != nil {
		return false, err
	}
	var deleted bool
	err = s.write(ctx, func(ctx context.Context, r repo.Repo) error {
		var err error
		deleted, err = r.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, storeErr(ctx, "delete", err)
	}
	return deleted, nil
}

// Seed inserts fixtures in one transaction, skipping flight numbers already stored
func (s *Svc) Seed(ctx context.Context, by string, in []domain.CreateInput) (int, error) {
	for i, li := range in {
		if err := bind.Validate(li); err != nil {
			return 0, perr.Wrapf(err, perr.CodeOf(err), "fixture %d: %s", i, err.Error())
		}
	}
	n := 0
	err := s.write(ctx, func(ctx context.Context, r repo.Repo) error {
		for _, li := range in {
			ok, err := r.InsertIgnore(ctx, s.stamp(li.Record(), by))
			if err != nil {
				return err
			}
			if ok {
				n++
			}
		}
		return nil
	})
	if err != nil {
		return 0, storeErr(ctx, "seed", err)
	}
	return n, nil
}

func (s *Svc) stamp(r domain.Record, by string) domain.Record {
	now := domain.Stored(s.now())
	r.ID = s.newID()
	r.CreatedBy = by
	r.CreatedAt = now
	r.UpdatedAt = now
	return r
}

// ParseID accepts any uuid spelling and returns the canonical form
func ParseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", perr.FieldErrorf("id", "id must be a UUID")
	}
	return u.String(), nil
}

func notFoundOr(ctx context.Context, op, id string, err error) error {
	if stderrs.Is(err, perr.ErrNotFound) {
		return perr.NotFoundf("launch %s not found", id)
	}
	return storeErr(ctx, op, err)
}

// storeErr classifies driver failures and logs the cause; project errors pass through
func storeErr(ctx context.Context, op string, err error) error {
	if _, ok := perr.As(err); ok {
		return err
	}
	logger.C(ctx).Warn().Err(err).Str("op", op).Msg("launch store call failed")
	return perr.WithOp(perr.FromStore(err, storeMsg), "launches."+op)
}
