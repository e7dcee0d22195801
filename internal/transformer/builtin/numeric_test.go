package builtin

import (
	"testing"

	"github.com/shopspring/decimal"

	"salesdw/pkg/records"
)

func TestCoerceAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "3578", want: "3578"},
		{in: " 12.50 ", want: "12.5"},
		{in: "1e3", want: "1000"},
		{in: "N/A", want: "0"},
		{in: "", want: "0"},
		{in: "$12", want: "0"},
		{in: "-40", want: "0"},
	}
	for _, tc := range tests {
		got := CoerceAmount(tc.in)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("CoerceAmount(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestCoerceQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int64
	}{
		{in: "1", want: 1},
		{in: "2.0", want: 2},
		{in: "2.5", want: 0},
		{in: "-1", want: 0},
		{in: "abc", want: 0},
		{in: "", want: 0},
	}
	for _, tc := range tests {
		if got := CoerceQuantity(tc.in); got != tc.want {
			t.Errorf("CoerceQuantity(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

// Non-numeric measures are exactly zero: never nil, never an error.
func TestNumericDefaultApply_NonNumericIsZero(t *testing.T) {
	t.Parallel()

	in := []records.Record{
		{"sls_sales": "N/A", "sls_quantity": "one"},
		{"sls_sales": nil},
		{"sls_sales": "40", "sls_quantity": "2"},
	}
	out := NumericDefault{Decimals: []string{"sls_sales"}, Integers: []string{"sls_quantity"}}.Apply(in)

	for i, r := range out[:2] {
		amt, ok := r["sls_sales"].(decimal.Decimal)
		if !ok || !amt.IsZero() {
			t.Fatalf("row %d sls_sales = %#v, want decimal zero", i, r["sls_sales"])
		}
		qty, ok := r["sls_quantity"].(int64)
		if !ok || qty != 0 {
			t.Fatalf("row %d sls_quantity = %#v, want int64 zero", i, r["sls_quantity"])
		}
	}
	if amt := out[2]["sls_sales"].(decimal.Decimal); !amt.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("sls_sales = %s, want 40", amt)
	}
	if qty := out[2]["sls_quantity"].(int64); qty != 2 {
		t.Fatalf("sls_quantity = %d, want 2", qty)
	}
}
