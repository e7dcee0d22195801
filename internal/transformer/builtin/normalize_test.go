package builtin

import (
	"reflect"
	"testing"

	"salesdw/pkg/records"
)

/*
TestNormalizeApply_TableDriven verifies the core normalization semantics of
Normalize.Apply:

  - Replaces U+00A0 NO-BREAK SPACE (NBSP) with ASCII space.
  - Trims leading/trailing whitespace.
  - Leaves non-string values unchanged.
  - Applies changes in place (record maps are mutated, slice is reused).
*/
func TestNormalizeApply_TableDriven(t *testing.T) {
	tests := []struct {
		name string
		in   []records.Record
		want []records.Record
	}{
		{
			name: "no_strings_no_change",
			in:   []records.Record{{"a": 1, "b": true, "c": nil}},
			want: []records.Record{{"a": 1, "b": true, "c": nil}},
		},
		{
			name: "simple_trim_spaces",
			in:   []records.Record{{"prd_nm": " Mountain-100 ", "prd_line": "\tM\n"}},
			want: []records.Record{{"prd_nm": "Mountain-100", "prd_line": "M"}},
		},
		{
			name: "nbsp_replaced_and_trimmed",
			in:   []records.Record{{"a": " " + nbspace + "foo" + nbspace + " "}},
			want: []records.Record{{"a": "foo"}},
		},
		{
			name: "nbsp_internal_only_not_trimmed",
			in:   []records.Record{{"a": "foo" + nbspace + "bar"}},
			want: []records.Record{{"a": "foo bar"}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			firstOrig := &tc.in[0]
			origPtr := reflect.ValueOf(tc.in[0]).Pointer()

			out := Normalize{}.Apply(tc.in)

			if !reflect.DeepEqual(out, tc.want) {
				t.Fatalf("Normalize.Apply() mismatch:\n got: %#v\nwant: %#v", out, tc.want)
			}
			if &out[0] != firstOrig {
				t.Fatalf("Normalize.Apply did not operate on the original slice")
			}
			if reflect.ValueOf(out[0]).Pointer() != origPtr {
				t.Fatalf("record map identity changed; want in-place mutation")
			}
		})
	}
}

func TestNormalizeApply_SkipsListedFields(t *testing.T) {
	in := []records.Record{{"sls_prd_key": " 123 ", "sls_ord_num": " SO1 "}}
	out := Normalize{Skip: []string{"sls_prd_key"}}.Apply(in)

	if got := out[0]["sls_prd_key"]; got != " 123 " {
		t.Fatalf("skipped field = %q, want it untouched", got)
	}
	if got := out[0]["sls_ord_num"]; got != "SO1" {
		t.Fatalf("other field = %q, want trimmed", got)
	}
}

/*
TestNormalizeApply_EmptyInputs verifies behavior for nil and empty slices.
*/
func TestNormalizeApply_EmptyInputs(t *testing.T) {
	var nilSlice []records.Record
	if got := (Normalize{}).Apply(nilSlice); got != nil {
		t.Fatalf("Normalize.Apply(nil) = %#v; want nil", got)
	}
	empty := []records.Record{}
	if got := (Normalize{}).Apply(empty); got == nil || len(got) != 0 {
		t.Fatalf("Normalize.Apply(empty) = %#v; want empty slice", got)
	}
}

func TestUpperApply(t *testing.T) {
	t.Parallel()

	in := []records.Record{
		{"prd_key": "  co-rf-fr-r92b-58 ", "prd_nm": "keep me"},
		{"prd_key": nil},
		{"other": "x"},
	}
	out := Upper{Fields: []string{"prd_key"}}.Apply(in)

	want := []records.Record{
		{"prd_key": "CO-RF-FR-R92B-58", "prd_nm": "keep me"},
		{"prd_key": nil},
		{"other": "x"},
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("Upper.Apply mismatch:\n got: %#v\nwant: %#v", out, want)
	}
}
