package query

import (
	"fmt"
	"strings"
)

// KeyMatcher decides whether a fact row's product key refers to a product
// dimension row.
type KeyMatcher interface {
	Matches(factKey, dimKey string) bool
}

// SuffixMatcher matches when the dimension key ends with the fact key, the
// way category-prefixed product keys ("CO-RF-FR-R92B-58") relate to sales
// keys ("FR-R92B-58"). An empty fact key never matches.
//
// A fact key can be a suffix of several dimension keys; such a fact is
// counted once per matching product.
type SuffixMatcher struct {
	// FoldCase compares ASCII letters case-insensitively, like SQLite LIKE.
	FoldCase bool
}

func (m SuffixMatcher) Matches(factKey, dimKey string) bool {
	if factKey == "" {
		return false
	}
	if m.FoldCase {
		return strings.HasSuffix(asciiLower(dimKey), asciiLower(factKey))
	}
	return strings.HasSuffix(dimKey, factKey)
}

// ExactMatcher requires equal keys. Use it to validate that fact and
// dimension keys line up one to one.
type ExactMatcher struct{}

func (ExactMatcher) Matches(factKey, dimKey string) bool {
	return factKey != "" && factKey == dimKey
}

// ParseMatcher maps a configuration name onto a KeyMatcher:
// "suffix" (default), "suffix-fold" and "exact".
func ParseMatcher(name string) (KeyMatcher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "suffix":
		return SuffixMatcher{}, nil
	case "suffix-fold", "suffix_fold":
		return SuffixMatcher{FoldCase: true}, nil
	case "exact":
		return ExactMatcher{}, nil
	default:
		return nil, fmt.Errorf("unknown key matcher %q", name)
	}
}

func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
