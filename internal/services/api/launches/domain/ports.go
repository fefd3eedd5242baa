package domain

import (
	"context"

	"launchdeck/internal/core/query"
	"launchdeck/internal/core/shape"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Query(ctx context.Context, d *query.Descriptor) (shape.Page[Record], error)
	List(ctx context.Context, where query.Predicate, sort []query.Sort) ([]Record, error)
	First(ctx context.Context, where query.Predicate, sort []query.Sort) (*Record, error)
	Get(ctx context.Context, id string) (Record, error)
	Create(ctx context.Context, by string, in CreateInput) (Record, error)
	Update(ctx context.Context, id string, in PatchInput) (Record, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Seeder loads fixtures; existing flight numbers are skipped
type Seeder interface {
	Seed(ctx context.Context, by string, in []CreateInput) (int, error)
}

// Populator resolves relation ids into documents, keyed by id
// ids it does not know are left out of the result
type Populator interface {
	Populate(ctx context.Context, relation string, ids []string) (map[string]any, error)
}
