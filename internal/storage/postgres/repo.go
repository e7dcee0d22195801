// Package postgres implements a Postgres warehouse repository using pgx v5.
// Tables are replaced with DROP, CREATE and COPY inside one transaction; reads
// go through a database/sql handle layered on the same pool.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	gddl "salesdw/internal/ddl"
	"salesdw/internal/storage"
	pgddl "salesdw/internal/storage/postgres/ddl"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN       string // connection string for pgxpool
	BatchSize int    // rows per COPY
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool      *pgxpool.Pool
	db        *sql.DB
	batchSize int
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = storage.DefaultBatchSize
	}
	closeFn := func() {
		_ = db.Close()
		pool.Close()
	}
	return &Repository{pool: pool, db: db, batchSize: batch}, closeFn, nil
}

// ReplaceTables implements storage.Repository.
func (r *Repository) ReplaceTables(ctx context.Context, tables ...storage.Table) ([]int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: begin: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	counts := make([]int64, 0, len(tables))
	for _, t := range tables {
		n, err := r.replace(ctx, tx, t)
		if err != nil {
			return nil, fmt.Errorf("postgres: replace %s: %w", t.Def.Name, pgDetail(err))
		}
		counts = append(counts, n)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("postgres: commit: %w", err)
	}
	return counts, nil
}

func (r *Repository) replace(ctx context.Context, tx pgx.Tx, t storage.Table) (int64, error) {
	drop, err := gddl.BuildDropTableSQL(t.Def)
	if err != nil {
		return 0, err
	}
	create, err := gddl.BuildCreateTableSQL(pgddl.Dialect, t.Def)
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, drop); err != nil {
		return 0, fmt.Errorf("drop: %w", err)
	}
	if _, err := tx.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("create: %w", err)
	}

	cols := t.Def.ColumnNames()
	return storage.LoadBatches(ctx, t.Def.Name, t.Rows, r.batchSize,
		func(ctx context.Context, rows [][]any) (int64, error) {
			conv, err := toCopyRows(rows, len(cols))
			if err != nil {
				return 0, err
			}
			return tx.CopyFrom(ctx, pgx.Identifier{t.Def.Name}, cols, pgx.CopyFromRows(conv))
		})
}

// toCopyRows converts values pgx cannot encode in binary COPY on its own.
func toCopyRows(rows [][]any, width int) ([][]any, error) {
	out := make([][]any, len(rows))
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row length %d != columns length %d", len(row), width)
		}
		conv := make([]any, width)
		for j, v := range row {
			cv, err := toCopyVal(v)
			if err != nil {
				return nil, err
			}
			conv[j] = cv
		}
		out[i] = conv
	}
	return out, nil
}

// toCopyVal maps decimals onto pgtype.Numeric; everything else passes as-is.
func toCopyVal(v any) (any, error) {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return v, nil
	}
	var n pgtype.Numeric
	if err := n.Scan(d.String()); err != nil {
		return nil, fmt.Errorf("numeric %s: %w", d, err)
	}
	return n, nil
}

// pgDetail surfaces the server-side detail of a PgError when present.
func pgDetail(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%w (%s: %s)", err, pgErr.SQLState(), pgErr.Detail)
	}
	return err
}

// QueryContext implements storage.Repository.
func (r *Repository) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, query, args...)
}

// Placeholder implements storage.Repository.
func (r *Repository) Placeholder(n int) string { return pgddl.Placeholder(n) }
