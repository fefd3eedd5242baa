// Package store provides a unified interface to the sql backends
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"launchdeck/internal/platform/logger"
)

// Driver names accepted by Config.Driver
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store is the facade repos depend on
// zero value is safe but does nothing
type Store struct {
	// Log is the logger used by subclients
	// zero means a no op zerolog logger
	Log logger.Logger

	// DB is the sql seam, nil until Open succeeds
	DB TxRunner

	// Dialect is the driver name DB speaks (postgres or sqlite)
	Dialect string

	schemas []SchemaFunc
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open connects the configured driver
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	// defaults for zero logger to avoid nil checks
	s.Log = s.Log.With().Str("component", "store").Logger()

	var (
		db  TxRunner
		err error
	)
	switch cfg.Driver {
	case DriverPostgres:
		db, err = openPG(ctx, cfg, s)
	case DriverSQLite:
		db, err = openSQLite(ctx, cfg, s)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	s.DB = db
	s.Dialect = cfg.Driver
	for _, fn := range s.schemas {
		ddl, err := fn(cfg.Driver)
		if err == nil {
			err = s.ApplySchema(ctx, ddl)
		}
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}
	s.Log.Info().Str("driver", cfg.Driver).Int("schemas", len(s.schemas)).Msg("store ready")
	return s, nil
}

// ApplySchema runs each ';' separated statement of ddl in one transaction
// statements must be idempotent (CREATE ... IF NOT EXISTS)
func (s *Store) ApplySchema(ctx context.Context, ddl string) error {
	if s == nil || s.DB == nil {
		return errors.New("store: not open")
	}
	return s.DB.Tx(ctx, func(q RowQuerier) error {
		for _, stmt := range strings.Split(ddl, ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		return nil
	})
}

// Guard pings the sql seam
func (s *Store) Guard(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("store: not open")
	}
	if p, ok := s.DB.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.Dialect, err)
		}
	}
	return nil
}

// Close releases the sql seam; a nil DB is ignored
func (s *Store) Close(context.Context) error {
	if s == nil {
		return nil
	}
	if c, ok := s.DB.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
