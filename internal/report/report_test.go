package report

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"salesdw/internal/query"
	"salesdw/internal/storage"
	_ "salesdw/internal/storage/sqlite"
	"salesdw/internal/warehouse"
)

func sampleData() Data {
	id := int64(11000)
	return Data{
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Dashboard: query.Dashboard{
			Year:        query.Year(2013),
			TotalSales:  decimal.RequireFromString("2069.50"),
			TotalOrders: 2,
			TopProducts: []query.ProductTotal{{Name: "HL Road Frame", Total: decimal.RequireFromString("2034.50")}},
			Trend: []query.MonthTotal{
				{YearMonth: "2013-01", Total: decimal.RequireFromString("2034.50")},
				{YearMonth: "2013-02", Total: decimal.NewFromInt(35)},
			},
		},
		Products:  []query.ProductRow{{Name: "HL Road Frame", Line: "R", Total: decimal.RequireFromString("3234.5")}},
		Customers: []query.Customer{{ID: &id, Name: "Jon Yang", Country: query.Country}, {Name: "Eugene", Country: query.Country}},
	}
}

func open(t *testing.T, d Data) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func rows(t *testing.T, f *excelize.File, sheet string) [][]string {
	t.Helper()
	rs, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetRows(%s): %v", sheet, err)
	}
	return rs
}

func TestWrite_Sheets(t *testing.T) {
	t.Parallel()

	f := open(t, sampleData())
	want := []string{SheetSummary, SheetTopProducts, SheetTrend, SheetProducts, SheetCustomers}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}

	summary := rows(t, f, SheetSummary)
	if summary[1][1] != "2013" || summary[2][1] != "2069.5" || summary[3][1] != "2" {
		t.Fatalf("summary = %v", summary)
	}

	trend := rows(t, f, SheetTrend)
	if len(trend) != 3 || trend[0][0] != "Month" || trend[2][0] != "2013-02" || trend[2][1] != "35" {
		t.Fatalf("trend = %v", trend)
	}

	products := rows(t, f, SheetProducts)
	if !reflect.DeepEqual(products[0], []string{"Product Name", "Category", "Total Sales"}) ||
		!reflect.DeepEqual(products[1], []string{"HL Road Frame", "R", "3234.5"}) {
		t.Fatalf("products = %v", products)
	}

	customers := rows(t, f, SheetCustomers)
	if len(customers) != 3 || customers[1][0] != "11000" || customers[2][0] != "" || customers[2][1] != "Eugene" {
		t.Fatalf("customers = %v", customers)
	}
}

func TestWrite_AmountFormat(t *testing.T) {
	t.Parallel()

	f := open(t, sampleData())
	v, err := f.GetCellValue(SheetTopProducts, "B2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if v != "2,034.50" {
		t.Fatalf("formatted amount = %q, want 2,034.50", v)
	}
}

func TestWrite_WarningsAndAllTime(t *testing.T) {
	t.Parallel()

	d := Data{Dashboard: query.Dashboard{Year: query.AllTime}, Warnings: []string{"top_products: no such table"}}
	f := open(t, d)
	summary := rows(t, f, SheetSummary)
	if summary[1][1] != "All Time" {
		t.Fatalf("year = %q", summary[1][1])
	}
	last := summary[len(summary)-1]
	if last[0] != "Warning" || !strings.Contains(last[1], "no such table") {
		t.Fatalf("warning row = %v", last)
	}
	if got := rows(t, f, SheetProducts); len(got) != 1 {
		t.Fatalf("empty products sheet should hold only the header, got %v", got)
	}
}

func TestCollect(t *testing.T) {
	t.Parallel()

	cfg := storage.Config{Kind: "sqlite", DSN: filepath.Join(t.TempDir(), "dw.db")}
	repo, err := storage.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	d0 := time.Date(2013, 1, 5, 0, 0, 0, 0, time.UTC)
	res := warehouse.NewLoader(repo).Load(context.Background(),
		[]warehouse.SalesFact{{OrderNumber: "SO1", ProductKey: "FR-R92B-58", OrderDate: &d0, SalesAmount: decimal.NewFromInt(10), Quantity: 1}},
		[]warehouse.ProductDim{{ProductKey: "CO-RF-FR-R92B-58", ProductName: "HL Road Frame", ProductLine: "R"}},
		[]warehouse.CustomerDim{{CustomerKey: "AW1", FirstName: "Jon", LastName: "Yang"}},
	)
	repo.Close()
	if !res.Success {
		t.Fatalf("seed: %v", res.Err())
	}

	d, err := Collect(context.Background(), query.NewService(query.StorageOpener(cfg)), query.AllTime, 10)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !d.Dashboard.TotalSales.Equal(decimal.NewFromInt(10)) || len(d.Products) != 1 || len(d.Customers) != 1 || len(d.Warnings) != 0 {
		t.Fatalf("Collect = %+v", d)
	}

	offline := query.NewService(func(context.Context) (storage.Repository, error) { return nil, errors.New("down") })
	d, err = Collect(context.Background(), offline, query.AllTime, 10)
	if err == nil || len(d.Warnings) != 3 {
		t.Fatalf("offline Collect = %+v, %v", d, err)
	}
}
