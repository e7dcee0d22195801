// Package ddl holds the SQLite dialect used to render warehouse DDL.
package ddl

import (
	"strings"

	gddl "salesdw/internal/ddl"
)

// Dialect renders warehouse tables for SQLite.
var Dialect = gddl.Dialect{
	MapType:     MapType,
	Placeholder: func(int) string { return "?" },
}

// MapType maps a logical column type onto a SQLite type affinity.
//
// Dates are stored as ISO-8601 TEXT so that substr() slicing of year and
// month behaves the same on every backend.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "INTEGER"
	case "numeric", "decimal":
		return "NUMERIC"
	case "float", "double", "real":
		return "REAL"
	default:
		return "TEXT"
	}
}
