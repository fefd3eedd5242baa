package repokit

import (
	"context"
	"strconv"
	"time"

	"launchdeck/internal/core/query/querysql"
)

// BeginHook runs at the start of a transaction with the tx bound Queryer
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks wraps a TxRunner so hooks run before fn inside the same tx
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	return hookedTx{TxRunner: inner, hooks: hooks}
}

type hookedTx struct {
	TxRunner
	hooks []BeginHook
}

func (h hookedTx) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hk := range h.hooks {
			if err := hk(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}

// StatementTimeout caps each statement of a postgres tx server side
// sqlite has no equivalent and gets a no-op
func StatementTimeout(d querysql.Dialect, t time.Duration) BeginHook {
	if d != querysql.Postgres || t <= 0 {
		return func(context.Context, Queryer) error { return nil }
	}
	stmt := "SET LOCAL statement_timeout = " + strconv.FormatInt(t.Milliseconds(), 10)
	return func(ctx context.Context, q Queryer) error {
		_, err := q.Exec(ctx, stmt)
		return err
	}
}
