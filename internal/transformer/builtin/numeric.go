package builtin

import (
	"strings"

	"github.com/shopspring/decimal"

	"salesdw/pkg/records"
)

// CoerceAmount parses s as a non-negative decimal. Anything else, including
// "", "N/A" and negative values, becomes zero.
func CoerceAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// CoerceQuantity parses s as a non-negative whole number. Fractional,
// negative or non-numeric input becomes zero.
func CoerceQuantity(s string) int64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() || !d.IsInteger() {
		return 0
	}
	return d.IntPart()
}

// NumericDefault applies the zero-default policy to measure fields: decimal
// fields become decimal.Decimal and integer fields int64. A zero produced
// this way is indistinguishable from a real zero sale downstream.
type NumericDefault struct {
	Decimals []string
	Integers []string
}

func (n NumericDefault) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, f := range n.Decimals {
			s, _ := r[f].(string)
			r[f] = CoerceAmount(s)
		}
		for _, f := range n.Integers {
			s, _ := r[f].(string)
			r[f] = CoerceQuantity(s)
		}
	}
	return in
}
