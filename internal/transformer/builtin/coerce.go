package builtin

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salesdw/pkg/records"
)

// Coerce converts descriptive (non-measure) fields to typed values. Unlike
// NumericDefault, a value that does not parse becomes nil so the column is
// stored as NULL.
//
// Supported types: "int" (int64), "decimal" (decimal.Decimal), "bool",
// "date" (time.Time using Layout) and "string" (empty string → nil).
type Coerce struct {
	Types  map[string]string // field -> type
	Layout string            // date layout; DateLayout when empty
}

func (c Coerce) Apply(in []records.Record) []records.Record {
	if len(c.Types) == 0 {
		return in
	}
	layout := c.Layout
	if layout == "" {
		layout = DateLayout
	}
	for _, r := range in {
		for field, typ := range c.Types {
			v, ok := r[field]
			if !ok || v == nil {
				continue
			}
			s, isStr := v.(string)
			if !isStr {
				continue
			}
			s = strings.TrimSpace(s)
			r[field] = coerceOne(s, typ, layout)
		}
	}
	return in
}

func coerceOne(s, typ, layout string) any {
	if s == "" {
		return nil
	}
	switch typ {
	case "int":
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		// Spreadsheet exports often write ids as "42.0".
		if d, err := decimal.NewFromString(s); err == nil && d.IsInteger() {
			return d.IntPart()
		}
		return nil
	case "decimal":
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
		return nil
	case "bool":
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
		return nil
	case "date":
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
		return nil
	default:
		return s
	}
}
