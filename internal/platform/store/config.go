package store

import (
	"time"

	"launchdeck/internal/platform/config"
)

// Config selects and configures the sql backend
type Config struct {
	AppName string
	Driver  string

	PG     PGConfig
	SQLite SQLiteConfig

	// Timeout bounds every repo call; zero means no deadline
	Timeout time.Duration

	// LogSQL traces every statement through sqltrace
	LogSQL      bool
	SlowQueryMs int

	// Migrate asks the boot sequence to apply module schemas
	Migrate bool
}

// PGConfig configures postgres connectivity
type PGConfig struct {
	URL      string
	MaxConns int32

	// boot knobs for the ping retry loop
	ConnectRetries int
	PingTimeout    time.Duration
}

// SQLiteConfig configures the embedded sqlite database
type SQLiteConfig struct {
	// Path is a file path or ":memory:"
	Path        string
	BusyTimeout time.Duration
}

// ConfigFromEnv reads the STORE_ prefix from c
func ConfigFromEnv(c config.Conf) Config {
	sc := c.Prefix("STORE_")
	return Config{
		AppName: sc.MayString("APP_NAME", "launchdeck"),
		Driver:  sc.MayEnum("DRIVER", DriverSQLite, DriverPostgres, DriverSQLite),
		PG: PGConfig{
			URL:            sc.MayString("PG_URL", ""),
			MaxConns:       int32(sc.MayInt("PG_MAX_CONNS", 10)),
			ConnectRetries: sc.MayInt("PG_CONNECT_RETRIES", 20),
			PingTimeout:    sc.MayDuration("PG_PING_TIMEOUT", 3*time.Second),
		},
		SQLite: SQLiteConfig{
			Path:        sc.MayString("SQLITE_PATH", "launchdeck.db"),
			BusyTimeout: sc.MayDuration("SQLITE_BUSY_TIMEOUT", 5*time.Second),
		},
		Timeout:     sc.MayDuration("TIMEOUT", 5*time.Second),
		LogSQL:      sc.MayBool("LOG_SQL", false),
		SlowQueryMs: sc.MayInt("SLOW_QUERY", 200),
		Migrate:     sc.MayBool("MIGRATE", false),
	}
}
