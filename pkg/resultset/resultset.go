// Package resultset provides bounded result sets for search queries.
package resultset

// Result holds at most a configured number of items. Incomplete is set when
// matching items were dropped to honor the bound.
type Result[T any] struct {
	Data       []T  `json:"data"`
	Incomplete bool `json:"incomplete"`
}

// Cap keeps the first max items. A non-positive max keeps nothing.
func Cap[T any](items []T, max int) Result[T] {
	if max < 0 {
		max = 0
	}
	if items == nil {
		items = []T{}
	}
	if len(items) <= max {
		return Result[T]{Data: items}
	}
	return Result[T]{Data: items[:max:max], Incomplete: true}
}

// Map converts a result's items while preserving Incomplete.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	out := make([]U, len(r.Data))
	for i, v := range r.Data {
		out[i] = fn(v)
	}
	return Result[U]{Data: out, Incomplete: r.Incomplete}
}
