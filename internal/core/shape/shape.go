// Package shape projects stored records into their external form while
// keeping the container shape: one record, a list, or a page
package shape

// Projector maps one internal record to its external form; it must be pure
type Projector[In, Out any] func(In) Out

// Page is a window of a sorted result plus its paging metadata
type Page[T any] struct {
	Items       []T  `json:"items"`
	TotalCount  int  `json:"total_count"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"total_pages"`
	HasPrevPage bool `json:"has_prev_page"`
	HasNextPage bool `json:"has_next_page"`
	PrevPage    *int `json:"prev_page"`
	NextPage    *int `json:"next_page"`
}

// NewPage fills the derived metadata; page and limit below 1 become 1
func NewPage[T any](items []T, total, page, limit int) Page[T] {
	page, limit = max(page, 1), max(limit, 1)
	if items == nil {
		items = []T{}
	}
	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}
	p := Page[T]{
		Items:       items,
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  pages,
		HasPrevPage: page > 1,
		HasNextPage: page < pages,
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PrevPage = &prev
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	return p
}

// One projects a single record; nil stays nil
func One[In, Out any](p Projector[In, Out], in *In) *Out {
	if in == nil {
		return nil
	}
	out := p(*in)
	return &out
}

// List projects every record; the result is never nil
func List[In, Out any](p Projector[In, Out], in []In) []Out {
	out := make([]Out, len(in))
	for i := range in {
		out[i] = p(in[i])
	}
	return out
}

// Paged projects the items and copies the metadata unchanged
func Paged[In, Out any](p Projector[In, Out], in Page[In]) Page[Out] {
	return Page[Out]{
		Items:       List(p, in.Items),
		TotalCount:  in.TotalCount,
		Page:        in.Page,
		Limit:       in.Limit,
		TotalPages:  in.TotalPages,
		HasPrevPage: in.HasPrevPage,
		HasNextPage: in.HasNextPage,
		PrevPage:    in.PrevPage,
		NextPage:    in.NextPage,
	}
}
