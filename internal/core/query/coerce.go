package query

import (
	"encoding/json"
	"math"
	"slices"
	"strings"
	"time"

	perr "launchdeck/internal/platform/errors"

	"github.com/google/uuid"
)

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// coerce converts a decoded JSON value (or a Go value) into the canonical Go type for f.Kind:
// string, int64, float64, bool, time.Time (UTC) or a canonical uuid string
func coerce(f Field, path string, v any) (any, error) {
	bad := func() error {
		return perr.FieldErrorf(path, "%s must be a %s", f.Name, f.Kind)
	}
	switch f.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, bad()
		}
		if len(f.Enum) > 0 && !slices.Contains(f.Enum, s) {
			return nil, perr.FieldErrorf(path, "%s must be one of %s", f.Name, strings.Join(f.Enum, ", "))
		}
		return s, nil

	case KindInt:
		switch x := v.(type) {
		case json.Number:
			n, err := x.Int64()
			if err != nil {
				return nil, bad()
			}
			return n, nil
		case int:
			return int64(x), nil
		case int64:
			return x, nil
		case float64:
			if x != math.Trunc(x) {
				return nil, bad()
			}
			return int64(x), nil
		}
		return nil, bad()

	case KindFloat:
		switch x := v.(type) {
		case json.Number:
			n, err := x.Float64()
			if err != nil {
				return nil, bad()
			}
			return n, nil
		case int:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case float64:
			return x, nil
		}
		return nil, bad()

	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, bad()
		}
		return b, nil

	case KindTime:
		switch x := v.(type) {
		case time.Time:
			return x.UTC(), nil
		case string:
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, x); err == nil {
					return t.UTC(), nil
				}
			}
		}
		return nil, bad()

	case KindUUID:
		switch x := v.(type) {
		case uuid.UUID:
			return x.String(), nil
		case string:
			id, err := uuid.Parse(x)
			if err != nil {
				return nil, bad()
			}
			return id.String(), nil
		}
		return nil, bad()
	}
	return nil, bad()
}

// condFor validates op against f and coerces its operand
func condFor(f Field, path string, op Op, v any) (Predicate, error) {
	if !allowed(f, op) {
		if op == OpExists {
			return nil, perr.FieldErrorf(path, "%s is not nullable", f.Name)
		}
		return nil, perr.FieldErrorf(path, "operator %s is not allowed on %s", op, f.Name)
	}
	switch op {
	case OpExists:
		b, ok := v.(bool)
		if !ok {
			return nil, perr.FieldErrorf(path, "$exists takes a boolean")
		}
		return Cond{Field: f, Op: OpExists, Value: b}, nil

	case OpIn, OpNin:
		items, ok := v.([]any)
		if !ok {
			return nil, perr.FieldErrorf(path, "%s takes an array", op)
		}
		vals := make([]any, 0, len(items))
		for _, it := range items {
			c, err := coerce(f, path, it)
			if err != nil {
				return nil, err
			}
			vals = append(vals, c)
		}
		return Cond{Field: f, Op: op, Values: vals}, nil

	case OpEq, OpNe:
		if v == nil {
			if !f.Nullable {
				return nil, perr.FieldErrorf(path, "%s cannot be null", f.Name)
			}
			return Cond{Field: f, Op: OpExists, Value: op == OpNe}, nil
		}
	}

	if v == nil {
		return nil, perr.FieldErrorf(path, "%s needs a value", op)
	}
	c, err := coerce(f, path, v)
	if err != nil {
		return nil, err
	}
	return Cond{Field: f, Op: op, Value: c}, nil
}

func unknownField(path string) error {
	return perr.FieldErrorf(path, "unknown field %q", lastSegment(path))
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}
