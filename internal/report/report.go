// Package report exports the dashboard figures to an XLSX workbook with one
// sheet per view.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"salesdw/internal/query"
)

// Sheet names in workbook order.
const (
	SheetSummary     = "Summary"
	SheetTopProducts = "Top Products"
	SheetTrend       = "Trend"
	SheetProducts    = "Products"
	SheetCustomers   = "Customers"
)

// Data is the content of one report.
type Data struct {
	GeneratedAt time.Time
	Dashboard   query.Dashboard
	Products    []query.ProductRow
	Customers   []query.Customer
	// Warnings lists degraded queries; they are printed on the summary sheet.
	Warnings []string
}

// Collect runs every query the report needs; listLimit bounds the product
// and customer sheets. Degraded queries are recorded in Data.Warnings and
// joined into the returned error; Data is always usable.
func Collect(ctx context.Context, svc *query.Service, year query.YearFilter, listLimit int) (Data, error) {
	dash := svc.Dashboard(ctx, year)
	products := svc.ProductListing(ctx, listLimit)
	customers := svc.CustomerListing(ctx, listLimit)

	d := Data{
		GeneratedAt: time.Now().UTC(),
		Dashboard:   dash.Value,
		Products:    products.Value,
		Customers:   customers.Value,
	}
	for _, e := range []error{dash.Err, products.Err, customers.Err} {
		if e != nil {
			d.Warnings = append(d.Warnings, e.Error())
		}
	}
	return d, errors.Join(dash.Err, products.Err, customers.Err)
}

// Build lays Data out as a workbook. The caller closes the returned file.
func Build(d Data) (*excelize.File, error) {
	f := excelize.NewFile()
	b := builder{f: f}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("report: rename sheet: %w", err)
	}
	for _, name := range []string{SheetTopProducts, SheetTrend, SheetProducts, SheetCustomers} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("report: new sheet %s: %w", name, err)
		}
	}
	b.styles()

	year := "All Time"
	if !d.Dashboard.Year.All() {
		year = d.Dashboard.Year.String()
	}
	summary := [][]any{
		{"Year", year},
		{"Total Sales", money(d.Dashboard.TotalSales)},
		{"Total Orders", d.Dashboard.TotalOrders},
		{"Generated At", d.GeneratedAt.Format(time.RFC3339)},
	}
	for _, w := range d.Warnings {
		summary = append(summary, []any{"Warning", w})
	}
	b.table(SheetSummary, []string{"Metric", "Value"}, summary, map[int]bool{})
	b.money(SheetSummary, 2, 3, 3)

	rows := make([][]any, 0, len(d.Dashboard.TopProducts))
	for _, p := range d.Dashboard.TopProducts {
		rows = append(rows, []any{p.Name, money(p.Total)})
	}
	b.table(SheetTopProducts, []string{"Product", "Total Sales"}, rows, map[int]bool{2: true})

	rows = make([][]any, 0, len(d.Dashboard.Trend))
	for _, m := range d.Dashboard.Trend {
		rows = append(rows, []any{m.YearMonth, money(m.Total)})
	}
	b.table(SheetTrend, []string{"Month", "Total Sales"}, rows, map[int]bool{2: true})

	rows = make([][]any, 0, len(d.Products))
	for _, p := range d.Products {
		rows = append(rows, []any{p.Name, p.Line, money(p.Total)})
	}
	b.table(SheetProducts, []string{"Product Name", "Category", "Total Sales"}, rows, map[int]bool{3: true})

	rows = make([][]any, 0, len(d.Customers))
	for _, c := range d.Customers {
		var id any
		if c.ID != nil {
			id = *c.ID
		}
		rows = append(rows, []any{id, c.Name, c.Country})
	}
	b.table(SheetCustomers, []string{"ID", "Name", "Country"}, rows, map[int]bool{})

	if b.err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("report: %w", b.err)
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write builds the workbook for d and writes it to w.
func Write(w io.Writer, d Data) error {
	f, err := Build(d)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	return nil
}

// builder keeps the first error so sheet layout reads top to bottom.
type builder struct {
	f      *excelize.File
	err    error
	header int
	amount int
}

func (b *builder) styles() {
	if b.err != nil {
		return
	}
	b.header, b.err = b.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})
	if b.err != nil {
		return
	}
	// Built-in format 4 is "#,##0.00".
	b.amount, b.err = b.f.NewStyle(&excelize.Style{NumFmt: 4})
}

// table writes a header row and data rows starting at A1. Columns listed in
// amountCols (1-based) get the amount number format.
func (b *builder) table(sheet string, header []string, rows [][]any, amountCols map[int]bool) {
	if b.err != nil {
		return
	}
	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	b.row(sheet, 1, hdr)
	last, _ := excelize.ColumnNumberToName(len(header))
	if b.err == nil {
		b.err = b.f.SetCellStyle(sheet, "A1", last+"1", b.header)
	}
	for i, r := range rows {
		b.row(sheet, i+2, r)
	}
	for col := range amountCols {
		b.money(sheet, col, 2, len(rows)+1)
	}
	if b.err == nil {
		b.err = b.f.SetColWidth(sheet, "A", last, 24)
	}
}

func (b *builder) row(sheet string, n int, vals []any) {
	if b.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		b.err = err
		return
	}
	b.err = b.f.SetSheetRow(sheet, cell, &vals)
}

// money applies the amount format to column col, rows from..to.
func (b *builder) money(sheet string, col, from, to int) {
	if b.err != nil || to < from {
		return
	}
	start, err := excelize.CoordinatesToCellName(col, from)
	if err != nil {
		b.err = err
		return
	}
	end, err := excelize.CoordinatesToCellName(col, to)
	if err != nil {
		b.err = err
		return
	}
	b.err = b.f.SetCellStyle(sheet, start, end, b.amount)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
