package warehouse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"salesdw/internal/storage"
)

// ErrPersistence marks every failure to write a warehouse table.
var ErrPersistence = errors.New("warehouse: persistence failure")

// PersistenceError records which table failed to load.
type PersistenceError struct {
	Table string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Table, e.Err)
}

// Unwrap exposes both ErrPersistence and the backend cause to errors.Is/As.
func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// LoadResult summarizes one load run.
type LoadResult struct {
	RunID       uuid.UUID
	RowCounts   map[string]int64
	Success     bool
	Failures    []*PersistenceError
	Fingerprint uint64
	StartedAt   time.Time
	Duration    time.Duration
}

// Err joins the recorded failures, or returns nil on success.
func (r LoadResult) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Loader replaces the three warehouse tables on every run.
type Loader struct {
	repo   storage.Repository
	atomic bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithAtomic wraps all three tables in a single transaction.
func WithAtomic(on bool) Option {
	return func(l *Loader) { l.atomic = on }
}

// NewLoader returns a Loader writing through repo.
func NewLoader(repo storage.Repository, opts ...Option) *Loader {
	l := &Loader{repo: repo}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load drops, recreates and fills FactSales, DimProduct and DimCustomer, in
// that order. Each table is its own transaction unless the loader is atomic.
// The first failing table stops the run; tables written before it stay
// written.
func (l *Loader) Load(
	ctx context.Context,
	facts []SalesFact,
	products []ProductDim,
	customers []CustomerDim,
) LoadResult {
	res := LoadResult{
		RunID:     uuid.New(),
		RowCounts: make(map[string]int64, 3),
		StartedAt: time.Now(),
	}

	tables := []storage.Table{
		{Def: FactSalesDef, Rows: rowsOf(facts)},
		{Def: DimProductDef, Rows: rowsOf(products)},
		{Def: DimCustomerDef, Rows: rowsOf(customers)},
	}
	res.Fingerprint = Fingerprint(tables...)

	log := slog.With("run_id", res.RunID.String())

	if l.atomic {
		counts, err := l.repo.ReplaceTables(ctx, tables...)
		if err != nil {
			res.Failures = append(res.Failures, &PersistenceError{Table: "*", Err: err})
		} else {
			for i, t := range tables {
				res.RowCounts[t.Def.Name] = counts[i]
			}
		}
	} else {
		for _, t := range tables {
			counts, err := l.repo.ReplaceTables(ctx, t)
			if err != nil {
				res.Failures = append(res.Failures, &PersistenceError{Table: t.Def.Name, Err: err})
				break
			}
			res.RowCounts[t.Def.Name] = counts[0]
			log.Info("warehouse: table replaced", "table", t.Def.Name, "rows", counts[0])
		}
	}

	res.Success = len(res.Failures) == 0
	res.Duration = time.Since(res.StartedAt)
	if res.Success {
		log.Info("warehouse: load complete",
			"facts", res.RowCounts[TableFactSales],
			"products", res.RowCounts[TableDimProduct],
			"customers", res.RowCounts[TableDimCustomer],
			"fingerprint", strconv.FormatUint(res.Fingerprint, 16),
			"elapsed", res.Duration.Truncate(time.Millisecond),
		)
	} else {
		log.Error("warehouse: load failed", "err", res.Err())
	}
	return res
}

type rower interface{ Row() []any }

func rowsOf[T rower](in []T) [][]any {
	out := make([][]any, len(in))
	for i, r := range in {
		out[i] = r.Row()
	}
	return out
}

// Fingerprint hashes table names and row values. Identical inputs give
// identical fingerprints across runs.
func Fingerprint(tables ...storage.Table) uint64 {
	h := xxh3.New()
	sep := []byte{0x1f}
	for _, t := range tables {
		_, _ = h.WriteString(t.Def.Name)
		_, _ = h.Write(sep)
		for _, row := range t.Rows {
			for _, v := range row {
				_, _ = h.WriteString(fmt.Sprint(v))
				_, _ = h.Write(sep)
			}
			_, _ = h.Write([]byte{'\n'})
		}
	}
	return h.Sum64()
}
