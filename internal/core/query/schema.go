// Package query turns client filter, sort and pagination payloads into a
// validated, immutable Descriptor checked against a per-resource Schema
package query

import (
	"fmt"
	"slices"
)

// Kind is the value type of a schema field
type Kind uint8

const (
	KindString Kind = iota + 1
	KindInt
	KindFloat
	KindBool
	KindTime
	KindUUID
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindBool:
		return "boolean"
	case KindTime:
		return "RFC 3339 timestamp"
	case KindUUID:
		return "uuid"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Field declares one filterable attribute
type Field struct {
	// Name is the wire name clients use
	Name string
	// Column is the storage column; empty means Name
	Column   string
	Kind     Kind
	Nullable bool
	Sortable bool
	// Enum restricts string values when set
	Enum []string
}

// Col returns the storage column
func (f Field) Col() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// Schema is the set of fields and relations a resource exposes to queries
type Schema struct {
	fields    map[string]Field
	order     []string
	relations []string
	tiebreak  []string
}

// NewSchema builds a Schema; it panics on duplicate or unnamed fields
func NewSchema(fields ...Field) Schema {
	s := Schema{fields: make(map[string]Field, len(fields))}
	for _, f := range fields {
		if f.Name == "" || f.Kind == 0 {
			panic("query: field needs a name and kind")
		}
		if _, dup := s.fields[f.Name]; dup {
			panic("query: duplicate field " + f.Name)
		}
		s.fields[f.Name] = f
		s.order = append(s.order, f.Name)
	}
	return s
}

// WithRelations returns a copy that accepts the given populate names
func (s Schema) WithRelations(names ...string) Schema {
	s.relations = append(slices.Clone(s.relations), names...)
	return s
}

// WithTiebreak returns a copy whose compiled sorts always end with these fields ascending
// every tiebreak field must be sortable
func (s Schema) WithTiebreak(names ...string) Schema {
	for _, n := range names {
		f, ok := s.fields[n]
		if !ok || !f.Sortable {
			panic("query: tiebreak field must be a sortable field: " + n)
		}
	}
	s.tiebreak = append(slices.Clone(s.tiebreak), names...)
	return s
}

// Field looks up a field by wire name
func (s Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// MustField is Field for names known at compile time
func (s Schema) MustField(name string) Field {
	f, ok := s.fields[name]
	if !ok {
		panic("query: unknown field " + name)
	}
	return f
}

// Fields returns the fields in declaration order
func (s Schema) Fields() []Field {
	out := make([]Field, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.fields[n])
	}
	return out
}

// Tiebreak returns the tiebreak fields
func (s Schema) Tiebreak() []Field {
	out := make([]Field, 0, len(s.tiebreak))
	for _, n := range s.tiebreak {
		out = append(out, s.fields[n])
	}
	return out
}

// HasRelation reports whether name may be populated
func (s Schema) HasRelation(name string) bool { return slices.Contains(s.relations, name) }
