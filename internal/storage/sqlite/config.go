// Package sqlite implements a SQLite-backed storage.Repository.
package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:warehouse.db?_pragma=busy_timeout(5000)"
	//   "warehouse.db"
	//   ":memory:"
	DSN string

	// BatchSize is the number of rows inserted per flush.
	BatchSize int
}
