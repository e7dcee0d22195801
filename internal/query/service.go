// Package query is the read-only aggregation layer over the warehouse. Every
// operation opens its own repository, runs, closes it and returns a typed
// Result; failures yield safe defaults and are logged, never panicked.
//
// Product joins are evaluated in Go through a KeyMatcher so the matching rule
// can change without touching SQL.
package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salesdw/internal/metrics"
	"salesdw/internal/storage"
)

// Default list sizes.
const (
	DefaultTopProducts = 5
	DefaultListLimit   = 50
)

// Country is reported for every customer; the source has no country column.
const Country = "USA"

// Opener returns a fresh repository for one query.
type Opener func(ctx context.Context) (storage.Repository, error)

// StorageOpener opens repositories from a storage configuration.
func StorageOpener(cfg storage.Config) Opener {
	return func(ctx context.Context) (storage.Repository, error) {
		return storage.New(ctx, cfg)
	}
}

// ProductTotal is one row of TopProducts.
type ProductTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// ProductRow is one row of ProductListing.
type ProductRow struct {
	Name  string          `json:"Product_Name"`
	Line  string          `json:"Product_Line"`
	Total decimal.Decimal `json:"sales"`
}

// MonthTotal is one point of MonthlyTrend; YearMonth is "YYYY-MM".
type MonthTotal struct {
	YearMonth string          `json:"month"`
	Total     decimal.Decimal `json:"total"`
}

// Customer is one row of CustomerListing.
type Customer struct {
	ID      *int64 `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Dashboard bundles the figures shown for one year.
type Dashboard struct {
	Year        YearFilter
	TotalSales  decimal.Decimal
	TotalOrders int64
	TopProducts []ProductTotal
	Trend       []MonthTotal
}

// Service runs the aggregate queries.
type Service struct {
	open     Opener
	matcher  KeyMatcher
	topLimit int
	log      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMatcher replaces the default SuffixMatcher.
func WithMatcher(m KeyMatcher) Option {
	return func(s *Service) {
		if m != nil {
			s.matcher = m
		}
	}
}

// WithTopLimit sets how many products Dashboard reports. Non-positive
// values keep DefaultTopProducts.
func WithTopLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topLimit = n
		}
	}
}

// WithLogger sets the logger used to report degraded queries.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService returns a Service that opens a repository per operation.
func NewService(open Opener, opts ...Option) *Service {
	s := &Service{open: open, matcher: SuffixMatcher{}, topLimit: DefaultTopProducts, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// run opens a repository, runs fn and converts a failure into def plus a
// logged error.
func run[T any](ctx context.Context, s *Service, op string, def T, fn func(context.Context, storage.Repository) (T, error)) (res Result[T]) {
	start := time.Now()
	defer func() { metrics.RecordQuery(op, res.Err, time.Since(start)) }()

	repo, err := s.open(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "query: open repository", "op", op, "err", err)
		return Result[T]{Value: def, Err: fmt.Errorf("%s: open: %w", op, err)}
	}
	defer repo.Close()

	v, err := fn(ctx, repo)
	if err != nil {
		s.log.ErrorContext(ctx, "query: degraded", "op", op, "err", err)
		return Result[T]{Value: def, Err: fmt.Errorf("%s: %w", op, err)}
	}
	return Result[T]{Value: v}
}

// Years lists the distinct order years, newest first.
func (s *Service) Years(ctx context.Context) Result[[]string] {
	return run(ctx, s, "years", []string{}, func(ctx context.Context, repo storage.Repository) ([]string, error) {
		rows, err := repo.QueryContext(ctx,
			`SELECT DISTINCT substr("Order_Date", 1, 4) FROM "FactSales" WHERE "Order_Date" IS NOT NULL ORDER BY 1 DESC`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		out := []string{}
		for rows.Next() {
			var y string
			if err := rows.Scan(&y); err != nil {
				return nil, err
			}
			out = append(out, y)
		}
		return out, rows.Err()
	})
}

// TotalSales sums Sales_Amount over the matching facts. The sum is computed
// by the backend: Postgres NUMERIC is exact, while SQLite sums in floating
// point and the text result carries at most 15 significant digits.
func (s *Service) TotalSales(ctx context.Context, year YearFilter) Result[decimal.Decimal] {
	return run(ctx, s, "total_sales", decimal.Zero, func(ctx context.Context, repo storage.Repository) (decimal.Decimal, error) {
		where, args := year.where(repo.Placeholder)
		q := `SELECT CAST(COALESCE(SUM("Sales_Amount"), 0) AS TEXT) FROM "FactSales"` + where
		var txt string
		if err := queryOne(ctx, repo, q, args, &txt); err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(txt)
	})
}

// TotalOrders counts the matching fact rows.
func (s *Service) TotalOrders(ctx context.Context, year YearFilter) Result[int64] {
	return run(ctx, s, "total_orders", int64(0), func(ctx context.Context, repo storage.Repository) (int64, error) {
		where, args := year.where(repo.Placeholder)
		var n int64
		err := queryOne(ctx, repo, `SELECT COUNT(*) FROM "FactSales"`+where, args, &n)
		return n, err
	})
}

// MonthlyTrend sums sales per YYYY-MM, ascending. Facts without an order
// date are left out.
func (s *Service) MonthlyTrend(ctx context.Context, year YearFilter) Result[[]MonthTotal] {
	return run(ctx, s, "monthly_trend", []MonthTotal{}, func(ctx context.Context, repo storage.Repository) ([]MonthTotal, error) {
		where, args := year.where(repo.Placeholder, `"Order_Date" IS NOT NULL`)
		q := `SELECT substr("Order_Date", 1, 7), CAST(COALESCE(SUM("Sales_Amount"), 0) AS TEXT) FROM "FactSales"` +
			where + ` GROUP BY substr("Order_Date", 1, 7) ORDER BY substr("Order_Date", 1, 7)`
		rows, err := repo.QueryContext(ctx, q, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		out := []MonthTotal{}
		for rows.Next() {
			var m, txt string
			if err := rows.Scan(&m, &txt); err != nil {
				return nil, err
			}
			d, err := decimal.NewFromString(txt)
			if err != nil {
				return nil, err
			}
			out = append(out, MonthTotal{YearMonth: m, Total: d})
		}
		return out, rows.Err()
	})
}

// TopProducts returns at most limit product names ranked by matched sales,
// descending, ties broken by name. Products with no matching facts are
// omitted. limit <= 0 means DefaultTopProducts.
func (s *Service) TopProducts(ctx context.Context, year YearFilter, limit int) Result[[]ProductTotal] {
	if limit <= 0 {
		limit = DefaultTopProducts
	}
	return run(ctx, s, "top_products", []ProductTotal{}, func(ctx context.Context, repo storage.Repository) ([]ProductTotal, error) {
		facts, err := factTotals(ctx, repo, year)
		if err != nil {
			return nil, err
		}
		prods, err := distinctProducts(ctx, repo)
		if err != nil {
			return nil, err
		}

		// Ranking joins on distinct (key, name); the line does not split a product.
		seen := map[[2]string]struct{}{}
		totals := map[string]decimal.Decimal{}
		for _, p := range prods {
			id := [2]string{p.key, p.name}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			for _, f := range facts {
				if s.matcher.Matches(f.key, p.key) {
					totals[p.name] = totals[p.name].Add(f.total)
				}
			}
		}

		out := make([]ProductTotal, 0, len(totals))
		for name, t := range totals {
			out = append(out, ProductTotal{Name: name, Total: t})
		}
		sort.Slice(out, func(i, j int) bool {
			if c := out[i].Total.Cmp(out[j].Total); c != 0 {
				return c > 0
			}
			return out[i].Name < out[j].Name
		})
		return out[:min(limit, len(out))], nil
	})
}

// ProductListing ranks every product by all-time matched sales, including
// products without sales. limit <= 0 means DefaultListLimit.
func (s *Service) ProductListing(ctx context.Context, limit int) Result[[]ProductRow] {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return run(ctx, s, "product_listing", []ProductRow{}, func(ctx context.Context, repo storage.Repository) ([]ProductRow, error) {
		facts, err := factTotals(ctx, repo, AllTime)
		if err != nil {
			return nil, err
		}
		prods, err := distinctProducts(ctx, repo)
		if err != nil {
			return nil, err
		}

		byName := map[string]*ProductRow{}
		order := []string{}
		for _, p := range prods {
			row, ok := byName[p.name]
			if !ok {
				row = &ProductRow{Name: p.name, Line: p.line, Total: decimal.Zero}
				byName[p.name] = row
				order = append(order, p.name)
			}
			for _, f := range facts {
				if s.matcher.Matches(f.key, p.key) {
					row.Total = row.Total.Add(f.total)
				}
			}
		}

		out := make([]ProductRow, 0, len(order))
		for _, name := range order {
			out = append(out, *byName[name])
		}
		sort.SliceStable(out, func(i, j int) bool {
			if c := out[i].Total.Cmp(out[j].Total); c != 0 {
				return c > 0
			}
			return out[i].Name < out[j].Name
		})
		return out[:min(limit, len(out))], nil
	})
}

// CustomerListing returns up to limit customers. limit <= 0 means
// DefaultListLimit.
func (s *Service) CustomerListing(ctx context.Context, limit int) Result[[]Customer] {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return run(ctx, s, "customer_listing", []Customer{}, func(ctx context.Context, repo storage.Repository) ([]Customer, error) {
		q := `SELECT "Customer_ID", "First_Name", "Last_Name" FROM "DimCustomer" LIMIT ` + repo.Placeholder(1)
		rows, err := repo.QueryContext(ctx, q, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		out := []Customer{}
		for rows.Next() {
			var (
				id          sql.NullInt64
				first, last sql.NullString
			)
			if err := rows.Scan(&id, &first, &last); err != nil {
				return nil, err
			}
			c := Customer{
				Name:    strings.TrimSpace(first.String + " " + last.String),
				Country: Country,
			}
			if id.Valid {
				c.ID = &id.Int64
			}
			out = append(out, c)
		}
		return out, rows.Err()
	})
}

// Dashboard collects the per-year figures. Each part degrades on its own;
// Err joins whatever failed.
func (s *Service) Dashboard(ctx context.Context, year YearFilter) Result[Dashboard] {
	sales := s.TotalSales(ctx, year)
	orders := s.TotalOrders(ctx, year)
	top := s.TopProducts(ctx, year, s.topLimit)
	trend := s.MonthlyTrend(ctx, year)

	return Result[Dashboard]{
		Value: Dashboard{
			Year:        year,
			TotalSales:  sales.Value,
			TotalOrders: orders.Value,
			TopProducts: top.Value,
			Trend:       trend.Value,
		},
		Err: errors.Join(sales.Err, orders.Err, top.Err, trend.Err),
	}
}

type factTotal struct {
	key   string
	total decimal.Decimal
}

// factTotals sums sales per fact product key. Null keys are skipped since
// they can never match.
func factTotals(ctx context.Context, repo storage.Repository, year YearFilter) ([]factTotal, error) {
	where, args := year.where(repo.Placeholder)
	q := `SELECT "Product_Key", CAST(COALESCE(SUM("Sales_Amount"), 0) AS TEXT) FROM "FactSales"` +
		where + ` GROUP BY "Product_Key"`
	rows, err := repo.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []factTotal
	for rows.Next() {
		var (
			key sql.NullString
			txt string
		)
		if err := rows.Scan(&key, &txt); err != nil {
			return nil, err
		}
		if !key.Valid || key.String == "" {
			continue
		}
		d, err := decimal.NewFromString(txt)
		if err != nil {
			return nil, fmt.Errorf("sum for %s: %w", key.String, err)
		}
		out = append(out, factTotal{key: key.String, total: d})
	}
	return out, rows.Err()
}

type product struct {
	key, name, line string
}

// distinctProducts de-duplicates DimProduct on (key, name, line).
func distinctProducts(ctx context.Context, repo storage.Repository) ([]product, error) {
	rows, err := repo.QueryContext(ctx,
		`SELECT DISTINCT "Product_Key", "Product_Name", "Product_Line" FROM "DimProduct" ORDER BY 1, 2, 3`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []product
	for rows.Next() {
		var key, name, line sql.NullString
		if err := rows.Scan(&key, &name, &line); err != nil {
			return nil, err
		}
		out = append(out, product{key: key.String, name: name.String, line: line.String})
	}
	return out, rows.Err()
}

func queryOne(ctx context.Context, repo storage.Repository, q string, args []any, dest ...any) error {
	rows, err := repo.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	if err := rows.Scan(dest...); err != nil {
		return err
	}
	return rows.Err()
}
