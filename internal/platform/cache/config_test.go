package cache

import (
	"testing"
	"time"

	"launchdeck/internal/platform/config"
	perr "launchdeck/internal/platform/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	cfg := ConfigFromEnv(config.New().Prefix("TCACHE_"))
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, 20*time.Second, cfg.TTL)
	assert.True(t, cfg.Coalesce)
	assert.True(t, cfg.InvalidateOnWrite)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	ok := ConfigFromEnv(config.New().Prefix("TCACHE_"))

	bad := ok
	bad.TTL = 0
	assert.True(t, perr.IsCode(bad.Validate(), perr.ErrorCodeValidation))

	bad = ok
	bad.Backend = BackendSturdy
	bad.Shards = 0
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Backend = BackendRedis
	bad.RedisAddr = ""
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Backend = "memcached"
	assert.Error(t, bad.Validate())
}

func TestOpen(t *testing.T) {
	cfg := ConfigFromEnv(config.New().Prefix("TCACHE_"))
	cfg.Sweep = 0

	s, err := Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)
	_ = s.Close()

	cfg.Backend = BackendSturdy
	s, err = Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Sturdy{}, s)

	cfg.Backend = BackendOff
	s, err = Open(cfg)
	require.NoError(t, err)
	assert.Nil(t, s)
}
