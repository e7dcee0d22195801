package builtin

import (
	"slices"
	"strings"

	"salesdw/pkg/records"
)

const nbspace = "\u00a0"

// Normalize trims surrounding whitespace from every string value and turns
// no-break spaces (a common artefact of latin1 exports) into plain spaces.
// Non-string values and the fields listed in Skip are left alone.
type Normalize struct {
	Skip []string
}

func (n Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			if slices.Contains(n.Skip, k) {
				continue
			}
			if s, ok := v.(string); ok {
				r[k] = strings.TrimSpace(strings.ReplaceAll(s, nbspace, " "))
			}
		}
	}
	return in
}

// Upper trims and upper-cases the configured string fields. It is how product
// keys are normalized before they become join keys.
type Upper struct {
	Fields []string
}

func (u Upper) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, f := range u.Fields {
			if s, ok := r[f].(string); ok {
				r[f] = strings.ToUpper(strings.TrimSpace(s))
			}
		}
	}
	return in
}
