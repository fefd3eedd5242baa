// Package sqlite opens the embedded sqlite database used for development and tests
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite" // registers the "sqlite" driver
)

// Memory is the path for a private in-memory database
const Memory = ":memory:"

// Config configures the sqlite handle
type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// DSN renders cfg as a glebarez/go-sqlite connection string with pragmas
func DSN(cfg Config) string {
	path := cfg.Path
	if path == "" {
		path = Memory
	}
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busy.Milliseconds()))
	q.Add("_pragma", "foreign_keys(1)")
	if path != Memory {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

// Open returns a pinged *sql.DB
// an in-memory database is pinned to one connection so every query sees the same data
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(cfg))
	if err != nil {
		return nil, err
	}
	if cfg.Path == "" || cfg.Path == Memory {
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return db, nil
}
