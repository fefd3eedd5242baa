package cache

import (
	"time"

	"launchdeck/internal/platform/config"
	perr "launchdeck/internal/platform/errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Backend names accepted by CACHE_BACKEND
const (
	BackendMemory  = "memory"
	BackendSturdy  = "sturdyc"
	BackendRedis   = "redis"
	BackendOff     = "off"
	DefaultTTL     = 20 * time.Second
	defaultTimeout = 250 * time.Millisecond
)

// Config selects and sizes a backend
type Config struct {
	Backend           string
	TTL               time.Duration
	Timeout           time.Duration
	Sweep             time.Duration
	Coalesce          bool
	InvalidateOnWrite bool

	Capacity int
	Shards   int
	EvictPct int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// ConfigFromEnv reads a CACHE_ prefixed view
func ConfigFromEnv(c config.Conf) Config {
	return Config{
		Backend:           c.MayEnum("BACKEND", BackendMemory, BackendMemory, BackendSturdy, BackendRedis, BackendOff),
		TTL:               c.MayDuration("TTL", DefaultTTL),
		Timeout:           c.MayDuration("TIMEOUT", defaultTimeout),
		Sweep:             c.MayDuration("SWEEP", time.Minute),
		Coalesce:          c.MayBool("COALESCE", true),
		InvalidateOnWrite: c.MayBool("INVALIDATE_ON_WRITE", true),
		Capacity:          c.MayInt("CAPACITY", 10000),
		Shards:            c.MayInt("SHARDS", 16),
		EvictPct:          c.MayInt("EVICT_PERCENT", 10),
		RedisAddr:         c.MayString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     c.MayString("REDIS_PASSWORD", ""),
		RedisDB:           c.MayInt("REDIS_DB", 0),
	}
}

// Validate checks the fields the selected backend needs
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendMemory, BackendSturdy, BackendRedis, BackendOff)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.Sweep, validation.Min(time.Duration(0))),
		validation.Field(&c.Capacity, validation.When(c.Backend == BackendSturdy, validation.Required, validation.Min(1))),
		validation.Field(&c.Shards, validation.When(c.Backend == BackendSturdy, validation.Required, validation.Min(1))),
		validation.Field(&c.EvictPct, validation.When(c.Backend == BackendSturdy, validation.Min(1), validation.Max(100))),
		validation.Field(&c.RedisAddr, validation.When(c.Backend == BackendRedis, validation.Required)),
		validation.Field(&c.RedisDB, validation.Min(0)),
	)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeValidation, "cache config: %v", err)
	}
	return nil
}

// Open validates cfg and builds the backend. Backend "off" returns a nil Store
func Open(cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendSturdy:
		return NewSturdy(cfg.Capacity, cfg.Shards, cfg.TTL, cfg.EvictPct), nil
	case BackendRedis:
		return DialRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), nil
	case BackendOff:
		return nil, nil
	default:
		return NewMemory(cfg.Sweep), nil
	}
}
