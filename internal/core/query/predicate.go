package query

import (
	"slices"
)

// Op is a comparison operator in the filter grammar
type Op string

const (
	OpEq     Op = "$eq"
	OpNe     Op = "$ne"
	OpGt     Op = "$gt"
	OpGte    Op = "$gte"
	OpLt     Op = "$lt"
	OpLte    Op = "$lte"
	OpIn     Op = "$in"
	OpNin    Op = "$nin"
	OpExists Op = "$exists"
)

// allowed reports whether op applies to f
func allowed(f Field, op Op) bool {
	switch op {
	case OpEq, OpNe, OpIn, OpNin:
		return true
	case OpExists:
		return f.Nullable
	case OpGt, OpGte, OpLt, OpLte:
		return f.Kind != KindBool && f.Kind != KindUUID
	}
	return false
}

// Predicate is a node of the filter tree: Cond, And or Or
type Predicate interface {
	clone() Predicate
}

// Cond compares one field
// Value holds the operand for scalar ops and the bool for $exists; Values holds $in/$nin operands
type Cond struct {
	Field  Field
	Op     Op
	Value  any
	Values []any
}

// And matches when every child matches; empty matches everything
type And []Predicate

// Or matches when any child matches; empty matches nothing
type Or []Predicate

func (c Cond) clone() Predicate {
	c.Values = slices.Clone(c.Values)
	c.Field.Enum = slices.Clone(c.Field.Enum)
	return c
}

func (a And) clone() Predicate { return And(cloneAll(a)) }
func (o Or) clone() Predicate  { return Or(cloneAll(o)) }

func cloneAll(ps []Predicate) []Predicate {
	if ps == nil {
		return nil
	}
	out := make([]Predicate, len(ps))
	for i, p := range ps {
		out[i] = p.clone()
	}
	return out
}

// Clone deep copies p; nil stays nil
func Clone(p Predicate) Predicate {
	if p == nil {
		return nil
	}
	return p.clone()
}

// Match builds a validated Cond from Go values, coercing v the same way client input is
func (s Schema) Match(name string, op Op, v any) (Predicate, error) {
	f, ok := s.fields[name]
	if !ok {
		return nil, unknownField(name)
	}
	return condFor(f, name, op, v)
}

// MustMatch is Match for predicates fixed at compile time
func (s Schema) MustMatch(name string, op Op, v any) Predicate {
	p, err := s.Match(name, op, v)
	if err != nil {
		panic(err)
	}
	return p
}
