//go:build integration_redis

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)
	return host + ":" + port.Port()
}

func TestRedisStore(t *testing.T) {
	s := DialRedis(startRedis(t), "", 0)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	_, ok, err := s.Get(ctx, "launches::x")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "launches::x", Entry{Status: 200, ContentType: "application/json", Body: []byte(`{"a":1}`)}, time.Second))
	require.NoError(t, s.Put(ctx, "launches::y", Entry{Status: 200}, time.Minute))
	require.NoError(t, s.Put(ctx, "rockets::z", Entry{Status: 200}, time.Minute))

	e, ok, err := s.Get(ctx, "launches::x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(e.Body))

	time.Sleep(1100 * time.Millisecond)
	_, ok, _ = s.Get(ctx, "launches::x")
	assert.False(t, ok, "redis ttl should expire the key")

	n, err := s.DeletePrefix(ctx, Prefix("launches"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, ok, _ = s.Get(ctx, "rockets::z")
	assert.True(t, ok)
}
