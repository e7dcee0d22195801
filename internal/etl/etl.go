// Package etl runs one warehouse load: locate the source_crm folder, parse the
// three CRM extracts concurrently, normalize and map them onto the star
// schema, then replace FactSales, DimProduct and DimCustomer.
//
// Source, encoding, schema and empty-result failures abort the run before the
// warehouse is opened, so a bad extract never clobbers the previous load.
package etl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"salesdw/internal/config"
	"salesdw/internal/datasource"
	"salesdw/internal/datasource/file"
	"salesdw/internal/mapper"
	"salesdw/internal/metrics"
	pcsv "salesdw/internal/parser/csv"
	"salesdw/internal/storage"
	"salesdw/internal/warehouse"
)

// maxLoggedRejects caps the per-file list of rejected rows in the log.
const maxLoggedRejects = 10

// openRepository is swapped in tests.
var openRepository = storage.New

// Summary reports what one run read and wrote.
type Summary struct {
	// Dir is the resolved source_crm directory.
	Dir string
	// Read counts parsed data rows per source file.
	Read map[string]int
	// Rejected counts malformed rows per source file.
	Rejected map[string]int
	// Load is the loader outcome; zero when the run stopped before loading.
	Load warehouse.LoadResult
}

// extract is the parse result of one source file.
type extract struct {
	name  string
	table string
	res   pcsv.Result
}

// Run executes one load with cfg. A non-nil error means the run failed; when
// the failure happened while writing, Summary.Load lists the table failures.
func Run(ctx context.Context, cfg config.Config) (Summary, error) {
	log := slog.Default().With("job", cfg.Job)
	sum := Summary{Read: map[string]int{}, Rejected: map[string]int{}}

	err := step(cfg.Job, "discover", func() error {
		parent, err := file.Discover(cfg.Source.Root, cfg.Source.Folder)
		if err != nil {
			return err
		}
		sum.Dir = filepath.Join(parent, cfg.Source.Folder)
		return nil
	})
	if err != nil {
		return sum, err
	}
	log.Info("etl: source located", "dir", sum.Dir)

	var sales, products, customers extract
	err = step(cfg.Job, "extract", func() error {
		opt := pcsv.Options{Encoding: cfg.Source.Encoding, Comma: firstRune(cfg.Source.Comma)}
		g, gctx := errgroup.WithContext(ctx)
		for _, t := range []struct {
			dst   *extract
			name  string
			table string
		}{
			{&sales, cfg.Source.SalesFile, warehouse.TableFactSales},
			{&products, cfg.Source.ProductsFile, warehouse.TableDimProduct},
			{&customers, cfg.Source.CustomersFile, warehouse.TableDimCustomer},
		} {
			g.Go(func() error {
				src := file.NewLocal(filepath.Join(sum.Dir, t.name))
				res, err := parseSource(gctx, src, opt)
				if err != nil {
					return fmt.Errorf("extract %s: %w", t.name, err)
				}
				*t.dst = extract{name: t.name, table: t.table, res: res}
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return sum, err
	}
	for _, e := range []extract{sales, products, customers} {
		sum.Read[e.name] = len(e.res.Records)
		sum.Rejected[e.name] = len(e.res.Rejects)
		metrics.RecordRows(cfg.Job, e.table, metrics.RowsRead, int64(len(e.res.Records)))
		logRejects(log, e)
	}

	var (
		facts []warehouse.SalesFact
		prods []warehouse.ProductDim
		custs []warehouse.CustomerDim
	)
	err = step(cfg.Job, "transform", func() error {
		var err error
		if facts, err = mapper.MapSales(sales.res.Header, mapper.SalesChain().Apply(sales.res.Records)); err != nil {
			return fmt.Errorf("%s: %w", sales.name, err)
		}
		if prods, err = mapper.MapProducts(products.res.Header, mapper.ProductChain().Apply(products.res.Records)); err != nil {
			return fmt.Errorf("%s: %w", products.name, err)
		}
		if custs, err = mapper.MapCustomers(customers.res.Header, mapper.CustomerChain().Apply(customers.res.Records)); err != nil {
			return fmt.Errorf("%s: %w", customers.name, err)
		}
		return nil
	})
	if err != nil {
		return sum, err
	}
	metrics.RecordRows(cfg.Job, warehouse.TableFactSales, metrics.RowsMapped, int64(len(facts)))
	metrics.RecordRows(cfg.Job, warehouse.TableDimProduct, metrics.RowsMapped, int64(len(prods)))
	metrics.RecordRows(cfg.Job, warehouse.TableDimCustomer, metrics.RowsMapped, int64(len(custs)))

	err = step(cfg.Job, "load", func() error {
		repo, err := openRepository(ctx, storage.Config{
			Kind:      cfg.Storage.Kind,
			DSN:       cfg.Storage.DSN,
			BatchSize: cfg.Storage.BatchSize,
		})
		if err != nil {
			return fmt.Errorf("open warehouse: %w", err)
		}
		defer repo.Close()

		sum.Load = warehouse.NewLoader(repo, warehouse.WithAtomic(cfg.Storage.Atomic)).
			Load(ctx, facts, prods, custs)
		return sum.Load.Err()
	})
	for table, n := range sum.Load.RowCounts {
		metrics.RecordRows(cfg.Job, table, metrics.RowsLoaded, n)
	}
	if err != nil {
		return sum, err
	}

	log.Info("etl: summary",
		"run_id", sum.Load.RunID,
		"read", total(sum.Read),
		"rejected", total(sum.Rejected),
		"mapped", len(facts)+len(prods)+len(custs),
	)
	return sum, nil
}

// step runs fn and records its outcome under the given step name.
func step(job, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	return err
}

// parseSource opens src and parses it fully.
func parseSource(ctx context.Context, src datasource.Source, opt pcsv.Options) (pcsv.Result, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return pcsv.Result{}, err
	}
	defer rc.Close()
	return pcsv.NewParser(opt).Parse(ctx, rc)
}

func logRejects(log *slog.Logger, e extract) {
	if len(e.res.Rejects) == 0 {
		return
	}
	shown := e.res.Rejects
	if len(shown) > maxLoggedRejects {
		shown = shown[:maxLoggedRejects]
	}
	log.Warn("etl: rejected rows", "file", e.name, "count", len(e.res.Rejects), "shown", len(shown))
	for _, r := range shown {
		log.Warn("etl: reject", "file", e.name, "line", r.Line, "err", r.Err)
	}
}

func total(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
