package ddl

// ColumnDef describes a single warehouse column.
//
// Fields:
//   - Name: column name as it appears in the warehouse (case preserved)
//   - Type: logical type ("text", "int", "decimal", "date"); dialects map it
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
type ColumnDef struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
}

// TableDef holds the table name and its ordered columns. Row slices handed to
// storage backends follow the same column order.
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

// ColumnNames returns the column names in declaration order.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}
