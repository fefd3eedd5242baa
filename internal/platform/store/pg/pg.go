// Package pg opens a pgxpool for the postgres store
package pg

import (
	"context"

	"launchdeck/internal/platform/store/sqltrace"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures pgxpool
type Config struct {
	URL      string
	MaxConns int32
	SlowMs   int
}

// PG is a pool plus the trace emitter its adapter uses
type PG struct {
	Pool *pgxpool.Pool
	Emit sqltrace.Emitter
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL and builds the pool; poolCfgMut may adjust the pool config before dialing
func Open(ctx context.Context, cfg Config, tracer sqltrace.QueryTracer, poolCfgMut func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if poolCfgMut != nil {
		poolCfgMut(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{
		Pool: pool,
		Emit: sqltrace.Emitter{Driver: "postgres", Tracer: tracer, SlowMs: cfg.SlowMs},
	}, nil
}

// Close closes the pool
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
