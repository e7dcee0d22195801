// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql and the pure-Go modernc driver. Tables are replaced with DROP,
// CREATE and batched prepared INSERTs inside a single transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	gddl "salesdw/internal/ddl"
	"salesdw/internal/storage"
	sqliteddl "salesdw/internal/storage/sqlite/ddl"
)

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db        *sql.DB
	batchSize int
}

// Open opens a SQLite database. The pool is pinned to one connection so that
// ":memory:" databases are shared by every statement and writers never race.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// New wraps an already-open database.
func New(db *sql.DB, batchSize int) *Repository {
	if batchSize <= 0 {
		batchSize = storage.DefaultBatchSize
	}
	return &Repository{db: db, batchSize: batchSize}
}

// NewRepository opens the database named by cfg.DSN, pings it and returns a
// Repository plus a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := Open(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return New(db, cfg.BatchSize), closeFn, nil
}

// ReplaceTables implements storage.Repository.
func (r *Repository) ReplaceTables(ctx context.Context, tables ...storage.Table) (counts []int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	counts = make([]int64, 0, len(tables))
	for _, t := range tables {
		n, err := r.replace(ctx, tx, t)
		if err != nil {
			return nil, fmt.Errorf("sqlite: replace %s: %w", t.Def.Name, err)
		}
		counts = append(counts, n)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit: %w", err)
	}
	return counts, nil
}

func (r *Repository) replace(ctx context.Context, tx *sql.Tx, t storage.Table) (int64, error) {
	drop, err := gddl.BuildDropTableSQL(t.Def)
	if err != nil {
		return 0, err
	}
	create, err := gddl.BuildCreateTableSQL(sqliteddl.Dialect, t.Def)
	if err != nil {
		return 0, err
	}
	insert, err := gddl.BuildInsertSQL(sqliteddl.Dialect, t.Def)
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, drop); err != nil {
		return 0, fmt.Errorf("drop: %w", err)
	}
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("create: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	width := len(t.Def.Columns)
	return storage.LoadBatches(ctx, t.Def.Name, t.Rows, r.batchSize,
		func(ctx context.Context, rows [][]any) (int64, error) {
			var inserted int64
			for _, row := range rows {
				if len(row) != width {
					return inserted, fmt.Errorf("row length %d != columns length %d", len(row), width)
				}
				if _, err := stmt.ExecContext(ctx, row...); err != nil {
					return inserted, fmt.Errorf("insert: %w", err)
				}
				inserted++
			}
			return inserted, nil
		})
}

// QueryContext implements storage.Repository.
func (r *Repository) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, query, args...)
}

// Placeholder implements storage.Repository.
func (r *Repository) Placeholder(int) string { return "?" }

// DB exposes the underlying handle for tests and ad-hoc inspection.
func (r *Repository) DB() *sql.DB { return r.db }
