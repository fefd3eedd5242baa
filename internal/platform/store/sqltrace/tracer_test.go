package sqltrace

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	kit "launchdeck/internal/platform/testkit"

	"github.com/rs/zerolog"
)

type recorder struct{ events []QueryEvent }

func (r *recorder) OnQuery(_ context.Context, ev QueryEvent) { r.events = append(r.events, ev) }

func TestEmitter(t *testing.T) {
	var none Emitter
	none.Emit(context.Background(), "SELECT 1", nil, time.Now(), nil)

	rec := &recorder{}
	e := Emitter{Driver: "sqlite", Tracer: rec, SlowMs: 0}
	e.Emit(context.Background(), "SELECT 1", []any{1}, time.Now().Add(-time.Millisecond), errors.New("x"))
	if len(rec.events) != 1 {
		t.Fatalf("events = %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.Driver != "sqlite" || !ev.Slow || ev.Err == nil || ev.ElapsedUS < 1000 {
		t.Fatalf("event = %+v", ev)
	}

	e.SlowMs = -1
	e.Emit(context.Background(), "SELECT 1", nil, time.Now(), nil)
	if rec.events[1].Slow {
		t.Fatal("negative SlowMs disables slow marking")
	}
}

func TestTracerLogs(t *testing.T) {
	var buf bytes.Buffer
	tr := Tracer(zerolog.New(&buf).Level(zerolog.ErrorLevel))
	tr.OnQuery(context.Background(), QueryEvent{Driver: "postgres", SQL: "SELECT\n\t1", ElapsedUS: 1500})
	tr.OnQuery(context.Background(), QueryEvent{Driver: "postgres", SQL: "SELECT 2", Slow: true})
	out := buf.String()
	kit.MustContain(t, out, `"sql":"SELECT 1"`)
	kit.MustContain(t, out, `"level":"warn"`)
	kit.MustContain(t, out, `"elapsed_ms":1.5`)
}

func TestCompact(t *testing.T) {
	if got := Compact("  SELECT *\n  FROM launches\tWHERE  id = $1 "); got != "SELECT * FROM launches WHERE id = $1" {
		t.Fatalf("Compact = %q", got)
	}
}
