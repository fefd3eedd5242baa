package querysql

import (
	"fmt"
	"strconv"
	"strings"

	"launchdeck/internal/core/query"
)

// Statement is SQL plus its bind arguments
type Statement struct {
	SQL  string
	Args []any
}

// Compiler renders reads against one table
type Compiler struct {
	Dialect Dialect
	Table   string
	Columns []string
	// Tiebreak is appended ascending to every ORDER BY unless already sorted on
	Tiebreak []query.Field
}

// New builds a Compiler for schema's tiebreak fields
func New(d Dialect, table string, columns []string, schema query.Schema) Compiler {
	return Compiler{Dialect: d, Table: table, Columns: columns, Tiebreak: schema.Tiebreak()}
}

// Count counts rows matching where
func (c Compiler) Count(where query.Predicate) Statement {
	b := c.builder()
	sql := "SELECT COUNT(*) FROM " + c.Table + b.where(where)
	return Statement{SQL: sql, Args: b.args}
}

// Find selects rows matching where in sort order plus tiebreakers
// limit <= 0 selects everything; offset only applies with a limit
func (c Compiler) Find(where query.Predicate, sort []query.Sort, limit, offset int) Statement {
	b := c.builder()
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(c.Columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(c.Table)
	sb.WriteString(b.where(where))
	sb.WriteString(" ORDER BY ")
	sb.WriteString(c.OrderBy(sort))
	if limit > 0 {
		sb.WriteString(" LIMIT " + strconv.Itoa(limit))
		if offset > 0 {
			sb.WriteString(" OFFSET " + strconv.Itoa(offset))
		}
	}
	return Statement{SQL: sb.String(), Args: b.args}
}

// Page selects the Descriptor's window
func (c Compiler) Page(d *query.Descriptor) Statement {
	return c.Find(d.Where(), d.Sort(), d.Limit(), d.Offset())
}

// OrderBy renders sort followed by any tiebreak field not already present.
// Nullable fields order NULL lowest on every dialect: first ascending, last descending
func (c Compiler) OrderBy(sort []query.Sort) string {
	parts := make([]string, 0, len(sort)+len(c.Tiebreak))
	seen := map[string]bool{}
	for _, s := range sort {
		term := s.Field.Col() + " " + s.Dir.String()
		if s.Field.Nullable {
			if s.Dir == query.Desc {
				term += " NULLS LAST"
			} else {
				term += " NULLS FIRST"
			}
		}
		parts = append(parts, term)
		seen[s.Field.Name] = true
	}
	for _, f := range c.Tiebreak {
		if !seen[f.Name] {
			parts = append(parts, f.Col()+" ASC")
		}
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, ", ")
}

type builder struct {
	d    Dialect
	args []any
}

func (c Compiler) builder() *builder { return &builder{d: c.Dialect} }

func (b *builder) bind(v any) string {
	b.args = append(b.args, b.d.Arg(v))
	return b.d.Placeholder(len(b.args))
}

func (b *builder) where(p query.Predicate) string {
	if p == nil {
		return ""
	}
	expr := b.expr(p)
	if expr == "1=1" {
		return ""
	}
	return " WHERE " + expr
}

func (b *builder) expr(p query.Predicate) string {
	switch x := p.(type) {
	case query.Cond:
		return b.cond(x)
	case query.And:
		return b.join(x, " AND ", "1=1")
	case query.Or:
		return b.join(x, " OR ", "1=0")
	}
	panic(fmt.Sprintf("querysql: unexpected predicate %T", p))
}

func (b *builder) join(ps []query.Predicate, sep, empty string) string {
	switch len(ps) {
	case 0:
		return empty
	case 1:
		return b.expr(ps[0])
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = b.expr(p)
	}
	return "(" + strings.Join(parts, sep) + ")"
}

var comparison = map[query.Op]string{
	query.OpEq:  "=",
	query.OpNe:  "<>",
	query.OpGt:  ">",
	query.OpGte: ">=",
	query.OpLt:  "<",
	query.OpLte: "<=",
}

func (b *builder) cond(c query.Cond) string {
	col := c.Field.Col()
	switch c.Op {
	case query.OpExists:
		if exists, _ := c.Value.(bool); exists {
			return col + " IS NOT NULL"
		}
		return col + " IS NULL"

	case query.OpIn, query.OpNin:
		if len(c.Values) == 0 {
			if c.Op == query.OpIn {
				return "1=0"
			}
			return "1=1"
		}
		ph := make([]string, len(c.Values))
		for i, v := range c.Values {
			ph[i] = b.bind(v)
		}
		list := "(" + strings.Join(ph, ", ") + ")"
		if c.Op == query.OpIn {
			return col + " IN " + list
		}
		return b.orNull(c.Field, col+" NOT IN "+list)

	case query.OpNe:
		return b.orNull(c.Field, col+" <> "+b.bind(c.Value))
	}
	return col + " " + comparison[c.Op] + " " + b.bind(c.Value)
}

// orNull keeps NULL rows for negative tests on nullable columns, matching document store semantics
func (b *builder) orNull(f query.Field, expr string) string {
	if !f.Nullable {
		return expr
	}
	return "(" + expr + " OR " + f.Col() + " IS NULL)"
}
