// Package repo persists launches in postgres or sqlite
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"launchdeck/internal/core/query"
	"launchdeck/internal/core/query/querysql"
	"launchdeck/internal/modkit/repokit"
	"launchdeck/internal/platform/store"
	"launchdeck/internal/services/api/launches/domain"
)

// Table is the launches table name
const Table = "launches"

// Columns in scan order
var Columns = []string{
	"id", "flight_number", "name", "date_utc", "date_precision", "upcoming", "success",
	"details", "rocket", "launchpad", "tbd", "net", "launch_window", "auto_update",
	"payloads", "created_by", "created_at", "updated_at",
}

// Repo is the persistence surface for launches
type Repo interface {
	Count(ctx context.Context, where query.Predicate) (int, error)
	Find(ctx context.Context, where query.Predicate, sort []query.Sort, limit, offset int) ([]domain.Record, error)
	// Get returns perr.ErrNotFound when id is absent
	Get(ctx context.Context, id string) (domain.Record, error)
	Insert(ctx context.Context, r domain.Record) error
	// InsertIgnore skips rows whose flight_number already exists
	InsertIgnore(ctx context.Context, r domain.Record) (bool, error)
	Update(ctx context.Context, r domain.Record) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type (
	// SQL binds the repo to a Queryer for one dialect
	SQL struct{ d querysql.Dialect }

	queries struct {
		q    repokit.Queryer
		d    querysql.Dialect
		comp querysql.Compiler
	}
)

// New returns a binder for d
func New(d querysql.Dialect) repokit.Binder[Repo] { return SQL{d: d} }

// Bind wires a Queryer to the repo
func (s SQL) Bind(q repokit.Queryer) Repo {
	return &queries{q: q, d: s.d, comp: querysql.New(s.d, Table, Columns, domain.Schema)}
}

var (
	selectByID = "SELECT " + strings.Join(Columns, ", ") + " FROM " + Table + " WHERE id = ?"
	insertRow  = "INSERT INTO " + Table + " (" + strings.Join(Columns, ", ") + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(Columns)), ", ") + ")"
	updateRow = "UPDATE " + Table + ` SET flight_number = ?, name = ?, date_utc = ?, date_precision = ?,
upcoming = ?, success = ?, details = ?, rocket = ?, launchpad = ?, tbd = ?, net = ?,
launch_window = ?, auto_update = ?, payloads = ?, updated_at = ? WHERE id = ?`
	deleteRow = "DELETE FROM " + Table + " WHERE id = ?"
)

func (r *queries) Count(ctx context.Context, where query.Predicate) (int, error) {
	st := r.comp.Count(where)
	return store.Scalar[int](ctx, r.q, st.SQL, st.Args...)
}

func (r *queries) Find(ctx context.Context, where query.Predicate, sort []query.Sort, limit, offset int) ([]domain.Record, error) {
	st := r.comp.Find(where, sort, limit, offset)
	return store.Many(ctx, r.q, scan, st.SQL, st.Args...)
}

func (r *queries) Get(ctx context.Context, id string) (domain.Record, error) {
	return store.One(ctx, r.q, scan, r.d.Rebind(selectByID), id)
}

func (r *queries) Insert(ctx context.Context, rec domain.Record) error {
	args, err := r.insertArgs(rec)
	if err != nil {
		return err
	}
	return store.ExecOne(ctx, r.q, r.d.Rebind(insertRow), args...)
}

func (r *queries) InsertIgnore(ctx context.Context, rec domain.Record) (bool, error) {
	args, err := r.insertArgs(rec)
	if err != nil {
		return false, err
	}
	tag, err := store.Exec(ctx, r.q, r.d.Rebind(insertRow+" ON CONFLICT (flight_number) DO NOTHING"), args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *queries) Update(ctx context.Context, rec domain.Record) (bool, error) {
	payloads, err := encodePayloads(rec.Payloads)
	if err != nil {
		return false, err
	}
	tag, err := store.Exec(ctx, r.q, r.d.Rebind(updateRow), r.d.Args(
		rec.FlightNumber, rec.Name, rec.DateUTC, rec.DatePrecision,
		rec.Upcoming, rec.Success, rec.Details, rec.Rocket, rec.Launchpad, rec.TBD, rec.Net,
		rec.Window, rec.AutoUpdate, payloads, rec.UpdatedAt, rec.ID,
	)...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *queries) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := store.Exec(ctx, r.q, r.d.Rebind(deleteRow), id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *queries) insertArgs(rec domain.Record) ([]any, error) {
	payloads, err := encodePayloads(rec.Payloads)
	if err != nil {
		return nil, err
	}
	return r.d.Args(
		rec.ID, rec.FlightNumber, rec.Name, rec.DateUTC, rec.DatePrecision, rec.Upcoming, rec.Success,
		rec.Details, rec.Rocket, rec.Launchpad, rec.TBD, rec.Net, rec.Window, rec.AutoUpdate,
		payloads, rec.CreatedBy, rec.CreatedAt, rec.UpdatedAt,
	), nil
}

func encodePayloads(p []string) (string, error) {
	if p == nil {
		p = []string{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode payloads: %w", err)
	}
	return string(b), nil
}

func scan(row store.Row) (domain.Record, error) {
	var r domain.Record
	err := row.Scan(
		&r.ID, &r.FlightNumber, &r.Name, (*timeCol)(&r.DateUTC), &r.DatePrecision, &r.Upcoming, &r.Success,
		&r.Details, &r.Rocket, &r.Launchpad, &r.TBD, &r.Net, &r.Window, &r.AutoUpdate,
		(*jsonCol)(&r.Payloads), &r.CreatedBy, (*timeCol)(&r.CreatedAt), (*timeCol)(&r.UpdatedAt),
	)
	return r, err
}

// timeCol reads timestamptz from postgres and TimeLayout text from sqlite
type timeCol time.Time

func (t *timeCol) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = timeCol(v.UTC())
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	}
	return fmt.Errorf("launches: cannot scan %T into time", src)
}

func (t *timeCol) parse(s string) error {
	v, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("launches: bad stored time %q: %w", s, err)
	}
	*t = timeCol(v.UTC())
	return nil
}

// jsonCol reads a JSON string array from jsonb or text
type jsonCol []string

func (j *jsonCol) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*j = []string{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, x := range v {
			s, ok := x.(string)
			if !ok {
				return fmt.Errorf("launches: payload %v is not a string", x)
			}
			out = append(out, s)
		}
		*j = out
		return nil
	default:
		return fmt.Errorf("launches: cannot scan %T into payloads", src)
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("launches: bad payloads: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*j = out
	return nil
}
