// Package storage holds the backend-agnostic warehouse contract and the
// factory that maps a storage kind ("sqlite", "postgres") to a backend.
//
// Backends register themselves from init; import salesdw/internal/storage/all
// to enable every built-in backend.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"salesdw/internal/ddl"
)

// Table is a full replacement payload: a definition plus rows aligned to
// Def.Columns.
type Table struct {
	Def  ddl.TableDef
	Rows [][]any
}

// Repository is the warehouse backend contract.
type Repository interface {
	// ReplaceTables drops, recreates and fills every given table inside one
	// transaction. Either all tables are replaced or none are. It returns
	// the inserted row count per table, in argument order.
	ReplaceTables(ctx context.Context, tables ...Table) ([]int64, error)

	// QueryContext runs a read-only query. Bind markers must come from
	// Placeholder.
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// Placeholder returns the dialect bind marker for the n-th argument.
	Placeholder(n int) string

	// Close releases the underlying connections.
	Close()
}

// Config is the backend-independent connection configuration.
type Config struct {
	Kind      string // "sqlite" or "postgres"
	DSN       string
	BatchSize int
}

// Factory opens a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for a storage kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered kinds.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BatchSizeOrDefault returns cfg.BatchSize or DefaultBatchSize when unset.
func (c Config) BatchSizeOrDefault() int {
	if c.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}
