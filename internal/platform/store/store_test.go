package store

import (
	"bytes"
	"context"
	"testing"
	"time"

	"launchdeck/internal/platform/config"
	"launchdeck/internal/platform/store/sqlite"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(context.Background(), Config{
		Driver: DriverSQLite,
		SQLite: SQLiteConfig{Path: sqlite.Memory},
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestOpenSQLite(t *testing.T) {
	s := openMemory(t)
	assert.Equal(t, DriverSQLite, s.Dialect)
	assert.NoError(t, s.Guard(context.Background()))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mysql"})
	assert.ErrorContains(t, err, `unknown driver "mysql"`)
}

func TestZeroStore(t *testing.T) {
	var s *Store
	assert.Error(t, s.Guard(context.Background()))
	assert.NoError(t, s.Close(context.Background()))
	assert.Error(t, (&Store{}).ApplySchema(context.Background(), "SELECT 1"))
}

func TestLogSQLTracesStatements(t *testing.T) {
	var buf bytes.Buffer
	s, err := Open(context.Background(), Config{
		Driver:      DriverSQLite,
		SQLite:      SQLiteConfig{Path: sqlite.Memory},
		LogSQL:      true,
		SlowQueryMs: 10_000,
	}, WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	_, err = Scalar[int](context.Background(), s.DB, "SELECT  1")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"sql":"SELECT 1"`)
	assert.Contains(t, buf.String(), `"driver":"sqlite"`)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("STORE_PG_URL", "postgres://x")
	t.Setenv("STORE_TIMEOUT", "750ms")
	t.Setenv("STORE_MIGRATE", "true")

	cfg := ConfigFromEnv(config.New())
	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, "postgres://x", cfg.PG.URL)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout)
	assert.True(t, cfg.Migrate)
	assert.Equal(t, 200, cfg.SlowQueryMs)
}

func TestWithSchemaAppliesOnOpen(t *testing.T) {
	var seen string
	s := openMemory(t, WithSchema(func(driver string) (string, error) {
		seen = driver
		return "CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY); CREATE INDEX IF NOT EXISTS t_id ON t (id)", nil
	}))
	assert.Equal(t, DriverSQLite, seen)
	n, err := Scalar[int](context.Background(), s.DB, "SELECT COUNT(*) FROM t")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWithSchemaFailureFailsOpen(t *testing.T) {
	_, err := Open(context.Background(), Config{
		Driver: DriverSQLite,
		SQLite: SQLiteConfig{Path: sqlite.Memory},
	}, WithSchema(func(string) (string, error) { return "CREATE TABLE (", nil }))
	assert.ErrorContains(t, err, "apply schema")
}
