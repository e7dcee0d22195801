// Package ddl defines a small, backend-agnostic model for warehouse tables and
// renders the statements the loader needs: DROP, CREATE and INSERT.
//
// Dialect specifics (identifier quoting, type names, placeholders) are supplied
// by the storage backends through a Dialect value, so the same TableDef renders
// for SQLite and Postgres alike.
package ddl

import (
	"fmt"
	"strings"
)

// Dialect captures the few places where SQL backends differ for DDL.
type Dialect struct {
	// MapType turns a logical column type into a concrete SQL type.
	MapType func(kind string) string
	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder func(n int) string
}

// QuoteIdent double-quotes an identifier. Both SQLite and Postgres accept
// this form and it keeps mixed-case column names intact.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func validate(t TableDef) (string, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", name)
		}
	}
	return name, nil
}

// BuildCreateTableSQL renders:
//
//	CREATE TABLE "name" (
//	  "col1" TYPE [NOT NULL],
//	  ...,
//	  [PRIMARY KEY ("pk1", ...)]
//	);
func BuildCreateTableSQL(d Dialect, t TableDef) (string, error) {
	name, err := validate(t)
	if err != nil {
		return "", err
	}
	if d.MapType == nil {
		return "", fmt.Errorf("ddl: dialect has no type mapper")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		col := strings.TrimSpace(c.Name)

		var sb strings.Builder
		sb.WriteString(QuoteIdent(col))
		sb.WriteByte(' ')
		sb.WriteString(d.MapType(c.Type))
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, QuoteIdent(col))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n);",
		QuoteIdent(name),
		strings.Join(cols, ",\n  "),
	), nil
}

// BuildDropTableSQL renders DROP TABLE IF EXISTS for the table.
func BuildDropTableSQL(t TableDef) (string, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	return "DROP TABLE IF EXISTS " + QuoteIdent(name) + ";", nil
}

// BuildInsertSQL renders a single-row INSERT with one bind marker per column.
func BuildInsertSQL(d Dialect, t TableDef) (string, error) {
	name, err := validate(t)
	if err != nil {
		return "", err
	}
	if d.Placeholder == nil {
		return "", fmt.Errorf("ddl: dialect has no placeholder func")
	}

	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = QuoteIdent(strings.TrimSpace(c.Name))
		marks[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdent(name),
		strings.Join(cols, ", "),
		strings.Join(marks, ", "),
	), nil
}
