package query

import "slices"

// Dir is a sort direction
type Dir int8

const (
	Asc  Dir = 1
	Desc Dir = -1
)

func (d Dir) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// Sort orders by one field
type Sort struct {
	Field Field
	Dir   Dir
}

// Descriptor is a validated query; it is never mutated after construction
type Descriptor struct {
	where    Predicate
	sort     []Sort
	page     int
	limit    int
	populate []string
}

// New builds a Descriptor from already validated parts; page and limit below 1 become 1
func New(where Predicate, sort []Sort, page, limit int, populate ...string) *Descriptor {
	return &Descriptor{
		where:    Clone(where),
		sort:     slices.Clone(sort),
		page:     max(page, 1),
		limit:    max(limit, 1),
		populate: slices.Clone(populate),
	}
}

// Where returns a copy of the filter tree; nil matches everything
func (d *Descriptor) Where() Predicate { return Clone(d.where) }

// Sort returns a copy of the requested ordering, without tiebreakers
func (d *Descriptor) Sort() []Sort { return slices.Clone(d.sort) }

// Page is 1-based
func (d *Descriptor) Page() int { return d.page }

func (d *Descriptor) Limit() int { return d.limit }

// Offset is the number of rows before the page window
func (d *Descriptor) Offset() int { return (d.page - 1) * d.limit }

// Populate returns the relations to resolve
func (d *Descriptor) Populate() []string { return slices.Clone(d.populate) }
