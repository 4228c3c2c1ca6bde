package paginator

// Page is one slice of a forward-only list. A nil Cursor means the list is
// exhausted.
type Page[T any] struct {
	Items  []T    `json:"items"`
	Cursor *int64 `json:"cursor"`
}

// Paginated is the backend wire form of a list response.
type Paginated[T any] struct {
	Data []T `json:"data"`
	Meta struct {
		NextCursor *int64 `json:"nextCursor"`
	} `json:"meta"`
}

func (p Paginated[T]) Page() Page[T] {
	items := p.Data
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Cursor: p.Meta.NextCursor}
}
