// Package repokit carries the seams repositories are written against
package repokit

import (
	"context"
	"time"

	"launchdeck/internal/core/query/querysql"
	"launchdeck/internal/platform/store"
)

type (
	// Queryer is the read and write surface a repo runs statements on
	Queryer = store.RowQuerier

	// TxRunner can execute a function inside a transaction
	TxRunner = store.TxRunner

	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result from a query
	Row = store.Row

	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag
)

// DB pairs a runner with the dialect its statements are written for
type DB struct {
	Runner  TxRunner
	Dialect querysql.Dialect
	// Timeout bounds every call made through Ctx and Tx; zero disables it
	Timeout time.Duration
}

// NewDB resolves the dialect from a store driver name
func NewDB(r TxRunner, driver string, timeout time.Duration) (DB, error) {
	d, err := querysql.ParseDialect(driver)
	if err != nil {
		return DB{}, err
	}
	return DB{Runner: r, Dialect: d, Timeout: timeout}, nil
}

// SQL rebinds a '?' statement for the dialect
func (db DB) SQL(stmt string) string { return db.Dialect.Rebind(stmt) }

// Args encodes bind arguments for the dialect
func (db DB) Args(vs ...any) []any { return db.Dialect.Args(vs...) }

// Ctx applies the store timeout to ctx
func (db DB) Ctx(ctx context.Context) (context.Context, context.CancelFunc) {
	return store.WithTimeout(ctx, db.Timeout)
}

// Tx runs fn in a transaction bounded by the store timeout
func (db DB) Tx(ctx context.Context, fn func(q Queryer) error) error {
	ctx, cancel := db.Ctx(ctx)
	defer cancel()
	return db.Runner.Tx(ctx, fn)
}

// WithHooks returns a copy whose transactions run hooks first
func (db DB) WithHooks(hooks ...BeginHook) DB {
	if len(hooks) == 0 {
		return db
	}
	db.Runner = WithBeginHooks(db.Runner, hooks...)
	return db
}
