// Package sqltrace carries query timing events from the sql adapters to zerolog
package sqltrace

import (
	"context"
	"strings"
	"time"

	"launchdeck/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	Driver    string
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives every statement an adapter runs
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Emitter stamps elapsed time and slowness before handing events to a tracer.
// The zero value (no tracer) drops everything
type Emitter struct {
	Driver string
	Tracer QueryTracer
	SlowMs int
}

// Emit records a statement that started at start
func (e Emitter) Emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if e.Tracer == nil {
		return
	}
	us := time.Since(start).Microseconds()
	e.Tracer.OnQuery(ctx, QueryEvent{
		Driver:    e.Driver,
		SQL:       sql,
		Args:      args,
		ElapsedUS: us,
		Err:       err,
		Slow:      e.SlowMs >= 0 && us >= int64(e.SlowMs)*1000,
	})
}

// Tracer logs every query at debug and slow ones at warn.
// The logger level is pinned to debug so STORE_LOG_SQL works regardless of LOG_LEVEL
func Tracer(root logger.Logger) QueryTracer {
	return &zlTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "sql").Logger()}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Debug()
	if ev.Slow {
		evt = z.log.Warn()
	}
	evt.Str("driver", ev.Driver).
		Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", Compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("sql query")
}

// Compact collapses runs of whitespace to one space
func Compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
