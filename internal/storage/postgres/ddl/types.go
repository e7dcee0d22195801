// Package ddl holds the Postgres dialect used to render warehouse DDL.
package ddl

import (
	"strconv"
	"strings"

	gddl "salesdw/internal/ddl"
)

// Dialect renders warehouse tables for Postgres.
var Dialect = gddl.Dialect{
	MapType:     MapType,
	Placeholder: Placeholder,
}

// Placeholder returns "$n".
func Placeholder(n int) string { return "$" + strconv.Itoa(n) }

// MapType normalizes a logical type into a Postgres SQL type.
//
//	"int"/"integer"/"bigint" -> BIGINT
//	"decimal"/"numeric"      -> NUMERIC
//	"date"                   -> TEXT (ISO-8601, sliced with substr)
//	everything else          -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "decimal", "numeric":
		return "NUMERIC"
	default:
		return "TEXT"
	}
}
