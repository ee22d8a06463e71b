package query

type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	LastPage int   `json:"lastPage"`
}

// Page is the envelope returned by every filter endpoint.
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

func NewPage[T any](data []T, total int64, page, limit int) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data: data,
		Meta: Meta{Total: total, Page: page, LastPage: LastPage(total, limit)},
	}
}

// LastPage is ceil(total/limit); zero when there are no rows.
func LastPage(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	l := int64(limit)
	return int((total + l - 1) / l)
}

// Map converts the page items, stopping at the first error.
func Map[T, U any](p Page[T], fn func(T) (U, error)) (Page[U], error) {
	out := make([]U, 0, len(p.Data))
	for _, item := range p.Data {
		u, err := fn(item)
		if err != nil {
			return Page[U]{}, err
		}
		out = append(out, u)
	}
	return Page[U]{Data: out, Meta: p.Meta}, nil
}
