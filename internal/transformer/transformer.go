// Package transformer defines the record-level normalization step that sits
// between the CSV parser and the schema mapper.
package transformer

import "salesdw/pkg/records"

// Transformer rewrites a batch of records. Implementations may mutate the
// records in place and must never fail: a value that cannot be normalized is
// replaced by its default (nil or zero) instead.
type Transformer interface{ Apply([]records.Record) []records.Record }

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs every transformer in order, feeding each the previous output.
func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
