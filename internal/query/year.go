package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidYear is returned by ParseYear for anything that is neither a
// four-digit year nor an "all time" sentinel.
var ErrInvalidYear = errors.New("query: invalid year")

// YearFilter restricts aggregates to facts whose order date falls in one
// calendar year. The zero value means all time; facts with a null order
// date only ever match all time.
type YearFilter struct {
	year string
}

// AllTime is the unfiltered YearFilter.
var AllTime = YearFilter{}

// ParseYear accepts "", "All", "All Time" (case-insensitive) or a
// four-digit year.
func ParseYear(s string) (YearFilter, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "all", "all time":
		return AllTime, nil
	}
	if len(s) != 4 {
		return AllTime, fmt.Errorf("%w: %q", ErrInvalidYear, s)
	}
	if _, err := strconv.Atoi(s); err != nil || s[0] == '-' || s[0] == '+' {
		return AllTime, fmt.Errorf("%w: %q", ErrInvalidYear, s)
	}
	return YearFilter{year: s}, nil
}

// Year returns the filter for a single year.
func Year(y int) YearFilter { return YearFilter{year: fmt.Sprintf("%04d", y)} }

// All reports whether the filter is unrestricted.
func (y YearFilter) All() bool { return y.year == "" }

func (y YearFilter) String() string {
	if y.All() {
		return "All"
	}
	return y.year
}

// where renders the filter as a WHERE clause fragment. extra conditions are
// ANDed in front of the year condition.
func (y YearFilter) where(ph func(int) string, extra ...string) (string, []any) {
	conds := append([]string{}, extra...)
	var args []any
	if !y.All() {
		conds = append(conds, `substr("Order_Date", 1, 4) = `+ph(1))
		args = append(args, y.year)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
