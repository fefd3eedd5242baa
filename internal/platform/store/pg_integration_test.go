//go:build integration_pg

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	perr "launchdeck/internal/platform/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "launchdeck",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err, "start postgres")
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/launchdeck?sslmode=disable", host, port.Port())
}

func TestPostgresStore(t *testing.T) {
	dsn := startPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	s, err := Open(ctx, Config{
		AppName: "launchdeck-it",
		Driver:  DriverPostgres,
		PG:      PGConfig{URL: dsn, MaxConns: 4},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	require.NoError(t, s.Guard(ctx))

	require.NoError(t, s.ApplySchema(ctx, `
		CREATE TABLE IF NOT EXISTS pairs (id INT PRIMARY KEY, name TEXT NOT NULL UNIQUE);
	`))
	require.NoError(t, ExecOne(ctx, s.DB, `INSERT INTO pairs (id, name) VALUES ($1, $2)`, 1, "alpha"))

	p, err := One(ctx, s.DB, scanPair, `SELECT id, name FROM pairs WHERE id = $1`, 1)
	require.NoError(t, err)
	assert.Equal(t, pair{1, "alpha"}, p)

	_, err = Scalar[int](ctx, s.DB, `SELECT id FROM pairs WHERE id = $1`, 2)
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = Exec(ctx, s.DB, `INSERT INTO pairs (id, name) VALUES ($1, $2)`, 2, "alpha")
	assert.Equal(t, perr.ErrorCodeConflict, perr.CodeOf(perr.FromStore(err, "insert pair")))

	app, err := Scalar[string](ctx, s.DB, `SELECT current_setting('application_name')`)
	require.NoError(t, err)
	assert.Equal(t, "launchdeck-it", app)

	short, cancelShort := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancelShort()
	_, err = Exec(short, s.DB, `SELECT pg_sleep(1)`)
	assert.Equal(t, perr.ErrorCodeTimeout, perr.CodeOf(perr.FromStore(err, "sleep")))
}
