// Package records holds the untyped row shape shared by the parser and the
// transformers.
package records

// Record is one source row keyed by header name. Values start as strings (or
// nil for a missing cell) and transformers may replace them with typed values.
type Record map[string]any

// String returns the value for key when it is a string, or "" otherwise.
func (r Record) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}
