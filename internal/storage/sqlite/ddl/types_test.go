package ddl

import (
	"strings"
	"testing"

	gddl "salesdw/internal/ddl"
)

// TestMapType verifies that MapType maps a variety of logical type names into
// the expected SQLite column types and falls back to TEXT.
func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind string
		want string
	}{
		{name: "int lower", kind: "int", want: "INTEGER"},
		{name: "integer", kind: "integer", want: "INTEGER"},
		{name: "bigint", kind: "bigint", want: "INTEGER"},
		{name: "int mixed", kind: "  InTeGeR  ", want: "INTEGER"},

		{name: "float", kind: "float", want: "REAL"},
		{name: "double", kind: "double", want: "REAL"},
		{name: "real", kind: "REAL", want: "REAL"},

		{name: "numeric", kind: "numeric", want: "NUMERIC"},
		{name: "decimal", kind: "decimal", want: "NUMERIC"},

		{name: "date", kind: "date", want: "TEXT"},
		{name: "timestamp", kind: "timestamp", want: "TEXT"},
		{name: "datetime", kind: "datetime", want: "TEXT"},
		{name: "timestamptz", kind: "timestamptz", want: "TEXT"},

		{name: "text", kind: "text", want: "TEXT"},

		{name: "empty", kind: "", want: "TEXT"},
		{name: "spaces", kind: "   ", want: "TEXT"},
		{name: "string", kind: "string", want: "TEXT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MapType(tt.kind)
			if got != tt.want {
				t.Fatalf("MapType(%q) = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

// TestDialectCreateTable renders a small table through the SQLite dialect.
func TestDialectCreateTable(t *testing.T) {
	t.Parallel()

	def := gddl.TableDef{
		Name: "FactSales",
		Columns: []gddl.ColumnDef{
			{Name: "Order_Number", Type: "text"},
			{Name: "Quantity", Type: "int", Nullable: true},
			{Name: "Sales_Amount", Type: "decimal", Nullable: true},
		},
	}
	got, err := gddl.BuildCreateTableSQL(Dialect, def)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	want := "CREATE TABLE \"FactSales\" (\n  \"Order_Number\" TEXT NOT NULL,\n  \"Quantity\" INTEGER,\n  \"Sales_Amount\" NUMERIC\n);"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}

	ins, err := gddl.BuildInsertSQL(Dialect, def)
	if err != nil {
		t.Fatalf("BuildInsertSQL: %v", err)
	}
	if !strings.HasSuffix(ins, "VALUES (?, ?, ?)") {
		t.Fatalf("insert = %q", ins)
	}
}
