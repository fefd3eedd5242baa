package repo_test

import (
	"context"
	"testing"
	"time"

	"launchdeck/internal/core/query"
	perr "launchdeck/internal/platform/errors"
	"launchdeck/internal/services/api/launches/domain"
	"launchdeck/internal/services/api/launches/launchtest"
	"launchdeck/internal/services/api/launches/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T, recs ...domain.Record) repo.Repo {
	t.Helper()
	db := launchtest.Open(t)
	r := repo.New(db.Dialect).Bind(db.Runner)
	for _, rec := range recs {
		require.NoError(t, r.Insert(context.Background(), rec))
	}
	return r
}

func TestInsertGetRoundTrip(t *testing.T) {
	in := launchtest.Record(7, true)
	win := 3600
	ok := true
	in.Window, in.Success = &win, &ok
	in.DateUTC = time.Date(2022, 10, 20, 14, 50, 0, 123456000, time.UTC)
	r := seeded(t, in)

	got, err := r.Get(context.Background(), in.ID)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestGetMissing(t *testing.T) {
	r := seeded(t)
	_, err := r.Get(context.Background(), "00000000-0000-4000-8000-000000000099")
	assert.ErrorIs(t, err, perr.ErrNotFound)
}

func TestFindFilterSortWindow(t *testing.T) {
	r := seeded(t,
		launchtest.Record(3, false),
		launchtest.Record(1, false),
		launchtest.Record(2, true),
		launchtest.Record(4, false),
	)
	ctx := context.Background()
	past := domain.Upcoming(false)

	n, err := r.Count(ctx, past)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := r.Find(ctx, past, domain.ByFlight(query.Desc), 2, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].FlightNumber)
	assert.Equal(t, 1, got[1].FlightNumber)

	all, err := r.Find(ctx, nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, 1, all[0].FlightNumber)
}

func TestFindTimeRange(t *testing.T) {
	r := seeded(t, launchtest.Record(1, false), launchtest.Record(5, false), launchtest.Record(9, false))
	cut := launchtest.Epoch.Add(4 * 24 * time.Hour)
	got, err := r.Find(context.Background(), domain.Schema.MustMatch("date_utc", query.OpGt, cut), nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[0].FlightNumber)
}

func TestUniqueFlightNumber(t *testing.T) {
	r := seeded(t, launchtest.Record(1, false))
	dup := launchtest.Record(1, false)
	dup.ID = "00000000-0000-4000-8000-000000000777"

	err := r.Insert(context.Background(), dup)
	require.Error(t, err)
	assert.True(t, perr.IsUniqueViolation(err))

	inserted, err := r.InsertIgnore(context.Background(), dup)
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestUpdateDelete(t *testing.T) {
	rec := launchtest.Record(1, true)
	r := seeded(t, rec)
	ctx := context.Background()

	rec.Name = "renamed"
	rec.Upcoming = false
	rec.Payloads = nil
	rec.UpdatedAt = launchtest.Epoch.Add(time.Hour)
	ok, err := r.Update(ctx, rec)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := r.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.False(t, got.Upcoming)
	assert.Equal(t, []string{}, got.Payloads)
	assert.Equal(t, rec.UpdatedAt, got.UpdatedAt)

	ok, err = r.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindSortsNullWindowLowest(t *testing.T) {
	short, long := 60, 3600
	a, b, c := launchtest.Record(1, false), launchtest.Record(2, false), launchtest.Record(3, false)
	a.Window, c.Window = &long, &short
	r := seeded(t, a, b, c)
	window := domain.Schema.MustField("window")

	flightsOf := func(recs []domain.Record) []int {
		out := make([]int, 0, len(recs))
		for _, rec := range recs {
			out = append(out, rec.FlightNumber)
		}
		return out
	}

	asc, err := r.Find(context.Background(), nil, []query.Sort{{Field: window, Dir: query.Asc}}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 1}, flightsOf(asc))

	desc, err := r.Find(context.Background(), nil, []query.Sort{{Field: window, Dir: query.Desc}}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 2}, flightsOf(desc))
}
