package builtin

import (
	"time"

	"salesdw/pkg/records"
)

// DateLayout is the ISO calendar-date layout compact dates are rewritten to.
const DateLayout = "2006-01-02"

// NormalizeCompactDate rewrites an 8-digit YYYYMMDD string as YYYY-MM-DD.
// It reports false for anything that is not exactly eight ASCII digits; it
// does not check that the result is a real calendar date.
func NormalizeCompactDate(s string) (string, bool) {
	if len(s) != 8 {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", false
		}
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:], true
}

// ParseCompactDate runs both normalization passes: shape check and
// reassembly, then calendar validation. "20140230" fails the second pass.
func ParseCompactDate(s string) (time.Time, bool) {
	iso, ok := NormalizeCompactDate(s)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, iso)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CompactDate converts the configured fields from YYYYMMDD text to
// time.Time. Values that fail either pass become nil; the record itself is
// always kept.
type CompactDate struct {
	Fields []string
}

func (c CompactDate) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, f := range c.Fields {
			v, ok := r[f]
			if !ok {
				continue
			}
			s, _ := v.(string)
			if t, ok := ParseCompactDate(s); ok {
				r[f] = t
			} else {
				r[f] = nil
			}
		}
	}
	return in
}
