package query

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	perr "launchdeck/internal/platform/errors"
)

// Limits bounds what a client query may ask for
type Limits struct {
	DefaultLimit int
	MaxLimit     int
	// MaxDepth caps $and/$or nesting
	MaxDepth int
	// MaxIn caps the operands of one $in/$nin
	MaxIn int
}

// DefaultLimits are used for zero fields
func DefaultLimits() Limits {
	return Limits{DefaultLimit: 10, MaxLimit: 100, MaxDepth: 8, MaxIn: 100}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxLimit <= 0 {
		l.MaxLimit = d.MaxLimit
	}
	if l.DefaultLimit <= 0 {
		l.DefaultLimit = d.DefaultLimit
	}
	l.DefaultLimit = min(l.DefaultLimit, l.MaxLimit)
	if l.MaxDepth <= 0 {
		l.MaxDepth = d.MaxDepth
	}
	if l.MaxIn <= 0 {
		l.MaxIn = d.MaxIn
	}
	return l
}

type parser struct {
	schema Schema
	lim    Limits
}

// Transform parses a {query, options} body into a Descriptor
// an empty body, or a null query or options, means {}
func Transform(schema Schema, raw []byte, lim Limits) (*Descriptor, error) {
	p := parser{schema: schema, lim: lim.withDefaults()}
	d := &Descriptor{page: 1, limit: p.lim.DefaultLimit}
	if isNull(raw) {
		return d, nil
	}
	top, err := members(raw)
	if err != nil {
		return nil, bodyError(err)
	}
	for _, m := range top {
		switch m.key {
		case "query":
			if d.where, err = p.filter("query", m.val, 0); err != nil {
				return nil, err
			}
		case "options":
			if err := p.options(d, m.val); err != nil {
				return nil, err
			}
		default:
			return nil, perr.FieldErrorf(m.key, "unknown key %q, expected query or options", m.key)
		}
	}
	return d, nil
}

func bodyError(err error) error {
	if err == errNotObject {
		return perr.Validationf("body must be a JSON object")
	}
	return perr.Wrap(err, perr.ErrorCodeJSON, "malformed JSON body")
}

func (p parser) filter(path string, raw json.RawMessage, depth int) (Predicate, error) {
	if isNull(raw) {
		return nil, nil
	}
	if depth > p.lim.MaxDepth {
		return nil, perr.FieldErrorf(path, "filter nests deeper than %d levels", p.lim.MaxDepth)
	}
	ms, err := members(raw)
	if err == errNotObject {
		return nil, perr.FieldErrorf(path, "filter must be an object")
	}
	if err != nil {
		return nil, bodyError(err)
	}

	var all And
	for _, m := range ms {
		sub := path + "." + m.key
		switch {
		case m.key == "$and" || m.key == "$or":
			kids, err := p.group(sub, m.val, depth)
			if err != nil {
				return nil, err
			}
			if m.key == "$and" {
				all = append(all, And(kids))
			} else {
				all = append(all, Or(kids))
			}
		case strings.HasPrefix(m.key, "$"):
			return nil, perr.FieldErrorf(sub, "unknown operator %s", m.key)
		default:
			f, ok := p.schema.Field(m.key)
			if !ok {
				return nil, unknownField(sub)
			}
			conds, err := p.field(f, sub, m.val)
			if err != nil {
				return nil, err
			}
			all = append(all, conds...)
		}
	}
	switch len(all) {
	case 0:
		return nil, nil
	case 1:
		return all[0], nil
	}
	return all, nil
}

func (p parser) group(path string, raw json.RawMessage, depth int) ([]Predicate, error) {
	var items []json.RawMessage
	if !isArray(raw) || json.Unmarshal(raw, &items) != nil || len(items) == 0 {
		return nil, perr.FieldErrorf(path, "%s takes a non-empty array of filters", lastSegment(path))
	}
	out := make([]Predicate, 0, len(items))
	for i, it := range items {
		sub := fmt.Sprintf("%s[%d]", path, i)
		if !isObject(it) {
			return nil, perr.FieldErrorf(sub, "filter must be an object")
		}
		pr, err := p.filter(sub, it, depth+1)
		if err != nil {
			return nil, err
		}
		if pr == nil {
			pr = And{}
		}
		out = append(out, pr)
	}
	return out, nil
}

// field parses the value bound to one schema field; several operators are ANDed
func (p parser) field(f Field, path string, raw json.RawMessage) ([]Predicate, error) {
	if isArray(raw) {
		return nil, perr.FieldErrorf(path, "use $in to match a list of values")
	}
	if !isObject(raw) {
		v, err := scalar(raw)
		if err != nil {
			return nil, bodyError(err)
		}
		c, err := condFor(f, path, OpEq, v)
		if err != nil {
			return nil, err
		}
		return []Predicate{c}, nil
	}

	ops, err := members(raw)
	if err != nil {
		return nil, bodyError(err)
	}
	if len(ops) == 0 {
		return nil, perr.FieldErrorf(path, "operator object is empty")
	}
	out := make([]Predicate, 0, len(ops))
	for _, m := range ops {
		op := Op(m.key)
		sub := path + "." + m.key
		switch op {
		case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn, OpNin, OpExists:
		default:
			return nil, perr.FieldErrorf(sub, "unknown operator %s", m.key)
		}
		v, err := scalar(m.val)
		if err != nil {
			return nil, bodyError(err)
		}
		if items, ok := v.([]any); ok && len(items) > p.lim.MaxIn {
			return nil, perr.FieldErrorf(sub, "%s takes at most %d values", op, p.lim.MaxIn)
		}
		c, err := condFor(f, sub, op, v)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (p parser) options(d *Descriptor, raw json.RawMessage) error {
	if isNull(raw) {
		return nil
	}
	ms, err := members(raw)
	if err == errNotObject {
		return perr.FieldErrorf("options", "options must be an object")
	}
	if err != nil {
		return bodyError(err)
	}
	for _, m := range ms {
		path := "options." + m.key
		switch m.key {
		case "sort":
			if d.sort, err = p.sort(path, m.val); err != nil {
				return err
			}
		case "page":
			if d.page, err = positive(path, m.val, 1); err != nil {
				return err
			}
		case "limit":
			n, err := positive(path, m.val, p.lim.DefaultLimit)
			if err != nil {
				return err
			}
			d.limit = min(n, p.lim.MaxLimit)
		case "populate":
			if d.populate, err = p.populate(path, m.val); err != nil {
				return err
			}
		default:
			return perr.FieldErrorf(path, "unsupported option %q", m.key)
		}
	}
	return nil
}

// positive reads a positive integer given as a JSON number or numeric string
func positive(path string, raw json.RawMessage, def int) (int, error) {
	if isNull(raw) {
		return def, nil
	}
	v, err := scalar(raw)
	if err != nil {
		return 0, bodyError(err)
	}
	var n int64
	switch x := v.(type) {
	case json.Number:
		n, err = x.Int64()
	case string:
		n, err = strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	default:
		err = strconv.ErrSyntax
	}
	if err != nil || n < 1 {
		return 0, perr.FieldErrorf(path, "%s must be a positive integer", lastSegment(path))
	}
	if n > math.MaxInt32 {
		return 0, perr.FieldErrorf(path, "%s is out of range", lastSegment(path))
	}
	return int(n), nil
}

func (p parser) sort(path string, raw json.RawMessage) ([]Sort, error) {
	if isNull(raw) {
		return nil, nil
	}
	type entry struct {
		name string
		dir  Dir
	}
	var entries []entry

	if isObject(raw) {
		ms, err := members(raw)
		if err != nil {
			return nil, bodyError(err)
		}
		for _, m := range ms {
			dir, err := direction(path+"."+m.key, m.val)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry{m.key, dir})
		}
	} else {
		v, err := scalar(raw)
		if err != nil {
			return nil, bodyError(err)
		}
		s, ok := v.(string)
		if !ok {
			return nil, perr.FieldErrorf(path, "sort must be an object or a string")
		}
		for _, tok := range strings.FieldsFunc(s, splitList) {
			dir := Asc
			switch tok[0] {
			case '-':
				dir, tok = Desc, tok[1:]
			case '+':
				tok = tok[1:]
			}
			entries = append(entries, entry{tok, dir})
		}
	}

	out := make([]Sort, 0, len(entries))
	seen := map[string]bool{}
	for _, e := range entries {
		sub := path + "." + e.name
		f, ok := p.schema.Field(e.name)
		if !ok {
			return nil, unknownField(sub)
		}
		if !f.Sortable {
			return nil, perr.FieldErrorf(sub, "%s is not sortable", e.name)
		}
		if seen[e.name] {
			return nil, perr.FieldErrorf(sub, "%s is sorted twice", e.name)
		}
		seen[e.name] = true
		out = append(out, Sort{Field: f, Dir: e.dir})
	}
	return out, nil
}

func direction(path string, raw json.RawMessage) (Dir, error) {
	v, err := scalar(raw)
	if err != nil {
		return 0, bodyError(err)
	}
	var s string
	switch x := v.(type) {
	case string:
		s = strings.ToLower(strings.TrimSpace(x))
	case json.Number:
		s = x.String()
	}
	switch s {
	case "asc", "ascending", "1":
		return Asc, nil
	case "desc", "descending", "-1":
		return Desc, nil
	}
	return 0, perr.FieldErrorf(path, "sort direction must be asc, ascending, 1, desc, descending or -1")
}

func (p parser) populate(path string, raw json.RawMessage) ([]string, error) {
	if isNull(raw) {
		return nil, nil
	}
	v, err := scalar(raw)
	if err != nil {
		return nil, bodyError(err)
	}
	var names []string
	add := func(x any) error {
		switch y := x.(type) {
		case string:
			names = append(names, strings.FieldsFunc(y, splitList)...)
			return nil
		case map[string]any:
			if s, ok := y["path"].(string); ok && s != "" {
				names = append(names, s)
				return nil
			}
		}
		return perr.FieldErrorf(path, "populate takes relation names or {path} objects")
	}
	if list, ok := v.([]any); ok {
		for _, it := range list {
			if err := add(it); err != nil {
				return nil, err
			}
		}
	} else if err := add(v); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(names))
	seen := map[string]bool{}
	for _, n := range names {
		if !p.schema.HasRelation(n) {
			return nil, perr.FieldErrorf(path, "unknown relation %q", n)
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out, nil
}

func splitList(r rune) bool { return r == ' ' || r == ',' }
