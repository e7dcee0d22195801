package query

// Result carries a query value together with the reason it degraded. When
// Err is set, Value holds the safe default (zero or an empty list) so
// callers can render a degraded view without nil checks.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the query succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }
