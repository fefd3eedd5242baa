// Package launchtest builds sqlite backed launch stores and fixtures for tests
package launchtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"launchdeck/internal/core/query/querysql"
	"launchdeck/internal/modkit/repokit"
	"launchdeck/internal/platform/store"
	"launchdeck/internal/platform/store/sqlite"
	"launchdeck/internal/services/api/launches/domain"
	"launchdeck/internal/services/api/launches/repo"

	"github.com/stretchr/testify/require"
)

// Epoch anchors fixture dates
var Epoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// Open returns a migrated in-memory store wrapped as a repokit.DB
func Open(t testing.TB) repokit.DB {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{
		Driver: store.DriverSQLite,
		SQLite: store.SQLiteConfig{Path: sqlite.Memory},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(ctx) })
	require.NoError(t, st.ApplySchema(ctx, repo.DDL(querysql.SQLite)))

	db, err := repokit.NewDB(st.DB, st.Dialect, 5*time.Second)
	require.NoError(t, err)
	return db
}

// Input is a valid create payload for flight n
func Input(n int, upcoming bool) domain.CreateInput {
	rocket := "5e9d0d95eda69973a809d1ec"
	return domain.CreateInput{
		FlightNumber:  n,
		Name:          fmt.Sprintf("Flight %d", n),
		DateUTC:       Epoch.Add(time.Duration(n) * 24 * time.Hour),
		DatePrecision: "hour",
		Upcoming:      &upcoming,
		Rocket:        &rocket,
		Payloads:      []string{fmt.Sprintf("payload-%d", n)},
	}
}

// Record is Input(n, upcoming) as a stored row with a deterministic id
func Record(n int, upcoming bool) domain.Record {
	r := Input(n, upcoming).Record()
	r.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
	r.CreatedBy = "test"
	r.CreatedAt = Epoch
	r.UpdatedAt = Epoch
	return r
}
