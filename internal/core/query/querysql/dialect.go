// Package querysql compiles query Descriptors into parameterized SQL
package querysql

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect selects placeholder style and argument encoding
type Dialect uint8

const (
	Postgres Dialect = iota + 1
	SQLite
)

// TimeLayout is how timestamps are stored in sqlite TEXT columns
// fixed width UTC so lexical order is chronological order
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// ParseDialect maps a store driver name to a Dialect
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "pg", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return 0, fmt.Errorf("querysql: unknown dialect %q", name)
}

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	}
	return "dialect(" + strconv.Itoa(int(d)) + ")"
}

// Placeholder renders the n-th (1-based) bind parameter
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Arg encodes a Go value for the driver; sqlite gets timestamps as TimeLayout text
func (d Dialect) Arg(v any) any {
	if d != SQLite {
		return v
	}
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(TimeLayout)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Format(TimeLayout)
	}
	return v
}

// Args maps Arg over vs
func (d Dialect) Args(vs ...any) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = d.Arg(v)
	}
	return out
}

// Rebind rewrites '?' placeholders into the dialect's style
// it does not look inside string literals, so statements must not quote '?'
func (d Dialect) Rebind(sql string) string {
	if d != Postgres {
		return sql
	}
	var b strings.Builder
	b.Grow(len(sql) + 8)
	n := 0
	for _, r := range sql {
		if r == '?' {
			n++
			b.WriteString(d.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
