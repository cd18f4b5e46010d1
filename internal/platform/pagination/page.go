package pagination

// Page is one window of a collection.
type Page[T any] struct {
	Items []T
	Total int
	// Next and Prev are encoded cursors, empty at the ends.
	Next string
	Prev string
}

// Slice returns the page of at most limit items following cur. key must be
// unique per item. A cursor of another kind, or one whose key is no longer
// in items, is an error.
func Slice[T any](items []T, cur Cursor, kind string, limit int, key func(T) string) (Page[T], error) {
	if cur.Kind != "" && cur.Kind != kind {
		return Page[T]{}, ErrCursorKind
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	start := 0
	if cur.After != "" {
		idx := -1
		for i, item := range items {
			if key(item) == cur.After {
				idx = i
				break
			}
		}
		if idx < 0 {
			return Page[T]{}, ErrUnknownCursor
		}
		start = idx + 1
	}
	end := min(start+limit, len(items))

	p := Page[T]{Items: items[start:end], Total: len(items)}
	if end < len(items) {
		p.Next = Cursor{Kind: kind, After: key(items[end-1])}.Encode()
	}
	switch {
	case start == 0:
	case start <= limit:
		p.Prev = Cursor{Kind: kind}.Encode()
	default:
		p.Prev = Cursor{Kind: kind, After: key(items[start-limit-1])}.Encode()
	}
	return p, nil
}
