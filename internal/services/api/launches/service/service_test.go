package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"launchdeck/internal/core/query"
	"launchdeck/internal/core/query/querysql"
	"launchdeck/internal/modkit/repokit"
	perr "launchdeck/internal/platform/errors"
	"launchdeck/internal/platform/store"
	"launchdeck/internal/services/api/launches/domain"
	"launchdeck/internal/services/api/launches/launchtest"
	"launchdeck/internal/services/api/launches/repo"
	"launchdeck/internal/services/api/launches/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newSvc(t *testing.T) *service.Svc {
	t.Helper()
	db := launchtest.Open(t)
	n := 0
	return service.New(db, repo.New(db.Dialect),
		service.WithClock(func() time.Time { return now }),
		service.WithIDs(func() string {
			n++
			return fmt.Sprintf("00000000-0000-4000-9000-%012d", n)
		}),
	)
}

func seed(t *testing.T, s *service.Svc, flights ...int) {
	t.Helper()
	in := make([]domain.CreateInput, 0, len(flights))
	for _, f := range flights {
		in = append(in, launchtest.Input(f, f > 100))
	}
	n, err := s.Seed(context.Background(), "seed", in)
	require.NoError(t, err)
	require.Equal(t, len(flights), n)
}

func TestQueryWindowNeverExceedsLimit(t *testing.T) {
	s := newSvc(t)
	seed(t, s, 1, 2, 3, 4, 5, 101, 102)

	for _, tc := range []struct{ page, limit, want int }{
		{1, 2, 2}, {3, 2, 2}, {4, 2, 1}, {5, 2, 0}, {1, 100, 7},
	} {
		d := query.New(nil, nil, tc.page, tc.limit)
		p, err := s.Query(context.Background(), d)
		require.NoError(t, err)
		assert.Len(t, p.Items, tc.want, "page %d limit %d", tc.page, tc.limit)
		assert.LessOrEqual(t, len(p.Items), p.Limit)
		assert.Equal(t, 7, p.TotalCount)
	}
}

func TestQuerySortsBeforeWindow(t *testing.T) {
	s := newSvc(t)
	seed(t, s, 3, 1, 5, 2, 4)

	d, err := query.Transform(domain.Schema, []byte(`{"options":{"sort":{"flight_number":"desc"},"page":2,"limit":2}}`), query.DefaultLimits())
	require.NoError(t, err)
	p, err := s.Query(context.Background(), d)
	require.NoError(t, err)

	require.Len(t, p.Items, 2)
	assert.Equal(t, 3, p.Items[0].FlightNumber)
	assert.Equal(t, 2, p.Items[1].FlightNumber)
	assert.True(t, p.HasPrevPage)
	assert.True(t, p.HasNextPage)
}

func TestListAndFirst(t *testing.T) {
	s := newSvc(t)
	seed(t, s, 2, 1, 3, 102, 101)
	ctx := context.Background()

	past, err := s.List(ctx, domain.Upcoming(false), domain.ByFlight(query.Asc))
	require.NoError(t, err)
	require.Len(t, past, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{past[0].FlightNumber, past[1].FlightNumber, past[2].FlightNumber})

	latest, err := s.First(ctx, domain.Upcoming(false), domain.ByFlight(query.Desc))
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 3, latest.FlightNumber)

	next, err := s.First(ctx, domain.Upcoming(true), domain.ByFlight(query.Asc))
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, 101, next.FlightNumber)

	none, err := s.First(ctx, domain.Schema.MustMatch("name", query.OpEq, "nope"), nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCreateGet(t *testing.T) {
	s := newSvc(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "ops", launchtest.Input(9, true))
	require.NoError(t, err)
	assert.Equal(t, "ops", created.CreatedBy)
	assert.Equal(t, now, created.CreatedAt)
	assert.True(t, created.AutoUpdate)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = s.Create(ctx, "ops", launchtest.Input(9, true))
	assert.Equal(t, perr.ErrorCodeConflict, perr.CodeOf(err))
}

func TestGetErrors(t *testing.T) {
	s := newSvc(t)
	_, err := s.Get(context.Background(), "not-a-uuid")
	assert.Equal(t, perr.ErrorCodeValidation, perr.CodeOf(err))

	_, err = s.Get(context.Background(), "00000000-0000-4000-8000-000000000042")
	assert.Equal(t, perr.ErrorCodeNotFound, perr.CodeOf(err))
}

func patch(t *testing.T, body string) domain.PatchInput {
	t.Helper()
	var p domain.PatchInput
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func TestUpdate(t *testing.T) {
	s := newSvc(t)
	ctx := context.Background()
	created, err := s.Create(ctx, "ops", launchtest.Input(9, true))
	require.NoError(t, err)

	got, err := s.Update(ctx, created.ID, patch(t, `{"name":"renamed","success":true,"rocket":null}`))
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	require.NotNil(t, got.Success)
	assert.True(t, *got.Success)
	assert.Nil(t, got.Rocket)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.Equal(t, now, got.UpdatedAt)

	stored, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestUpdateValidatesMergedRecord(t *testing.T) {
	s := newSvc(t)
	ctx := context.Background()
	created, err := s.Create(ctx, "ops", launchtest.Input(9, true))
	require.NoError(t, err)

	_, err = s.Update(ctx, created.ID, patch(t, `{"name":null}`))
	require.Error(t, err)
	assert.Equal(t, perr.ErrorCodeValidation, perr.CodeOf(err))

	_, err = s.Update(ctx, created.ID, patch(t, `{"date_precision":"week"}`))
	assert.Equal(t, perr.ErrorCodeValidation, perr.CodeOf(err))

	_, err = s.Update(ctx, created.ID, patch(t, `{}`))
	assert.Equal(t, perr.ErrorCodeValidation, perr.CodeOf(err))

	stored, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, stored)
}

func TestUpdateMissing(t *testing.T) {
	s := newSvc(t)
	_, err := s.Update(context.Background(), "00000000-0000-4000-8000-000000000042", patch(t, `{"name":"x"}`))
	assert.Equal(t, perr.ErrorCodeNotFound, perr.CodeOf(err))
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newSvc(t)
	ctx := context.Background()
	created, err := s.Create(ctx, "ops", launchtest.Input(1, false))
	require.NoError(t, err)

	ok, err := s.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSeedSkipsExisting(t *testing.T) {
	s := newSvc(t)
	seed(t, s, 1, 2)
	n, err := s.Seed(context.Background(), "seed", []domain.CreateInput{launchtest.Input(2, false), launchtest.Input(3, false)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	bad := launchtest.Input(4, false)
	bad.Name = ""
	_, err = s.Seed(context.Background(), "seed", []domain.CreateInput{bad})
	assert.Equal(t, perr.ErrorCodeValidation, perr.CodeOf(err))
}

// failing answers every call with err
type failing struct{ err error }

func (f failing) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, f.err }
func (f failing) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, f.err }
func (f failing) QueryRow(context.Context, string, ...any) store.Row             { return errRow{f.err} }
func (f failing) Tx(_ context.Context, _ func(store.RowQuerier) error) error      { return f.err }

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func TestStoreFailuresAreServerErrors(t *testing.T) {
	for _, tc := range []struct {
		err  error
		code perr.ErrorCode
	}{
		{context.DeadlineExceeded, perr.ErrorCodeTimeout},
		{fmt.Errorf("dial: %w", context.Canceled), perr.ErrorCodeUnavailable},
		{fmt.Errorf("disk I/O error"), perr.ErrorCodeDB},
	} {
		db := repokit.DB{Runner: failing{tc.err}, Dialect: querysql.SQLite}
		s := service.New(db, repo.New(db.Dialect))

		_, err := s.Query(context.Background(), query.New(nil, nil, 1, 10))
		assert.Equal(t, tc.code, perr.CodeOf(err), tc.err.Error())
		w, _ := perr.As(err)
		require.NotNil(t, w)
		assert.NotContains(t, w.Message(), tc.err.Error())

		_, err = s.Create(context.Background(), "x", launchtest.Input(1, false))
		assert.Equal(t, tc.code, perr.CodeOf(err))
	}
}
