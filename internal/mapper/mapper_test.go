package mapper

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"salesdw/pkg/records"
)

func salesRecord(num, key, date, sales, qty, price string) records.Record {
	return records.Record{
		SalesOrderNumber: num,
		SalesProductKey:  key,
		SalesCustomerID:  "11000",
		SalesOrderDate:   date,
		SalesShipDate:    date,
		SalesDueDate:     "",
		SalesAmount:      sales,
		SalesQuantity:    qty,
		SalesPrice:       price,
	}
}

func TestMapSales_AppliesChainAndMaps(t *testing.T) {
	t.Parallel()

	recs := []records.Record{
		salesRecord("SO1", " BK-R93R-62 ", "20101229", "3578", "1", "3578"),
		salesRecord("SO2", "bk-r50b-58", "20140230", "N/A", "abc", "N/A"),
		salesRecord("SO3", "HL-U509", "0", "-5", "-2", "12.5"),
	}
	recs = SalesChain().Apply(recs)

	facts, err := MapSales(SalesColumns, recs)
	if err != nil {
		t.Fatalf("MapSales: %v", err)
	}
	if len(facts) != 3 {
		t.Fatalf("len = %d, want 3 (no row dropped)", len(facts))
	}

	f := facts[0]
	if f.ProductKey != " BK-R93R-62 " {
		t.Fatalf("fact key = %q, want it kept as read", f.ProductKey)
	}
	if f.OrderDate == nil || f.OrderDate.Format("2006-01-02") != "2010-12-29" {
		t.Fatalf("order date = %v", f.OrderDate)
	}
	if f.DueDate != nil {
		t.Fatalf("empty due date = %v, want nil", f.DueDate)
	}
	if !f.SalesAmount.Equal(decimal.NewFromInt(3578)) || f.Quantity != 1 {
		t.Fatalf("measures = %s/%d", f.SalesAmount, f.Quantity)
	}

	f = facts[1]
	if f.ProductKey != "bk-r50b-58" {
		t.Fatalf("fact key must not be upper-cased, got %q", f.ProductKey)
	}
	if f.OrderDate != nil {
		t.Fatalf("20140230 should be null, got %v", f.OrderDate)
	}
	if !f.SalesAmount.IsZero() || f.Quantity != 0 {
		t.Fatalf("N/A measures = %s/%d, want 0/0", f.SalesAmount, f.Quantity)
	}
	if f.UnitPrice.Valid {
		t.Fatalf("N/A unit price should be null")
	}

	f = facts[2]
	if !f.SalesAmount.IsZero() || f.Quantity != 0 {
		t.Fatalf("negative measures = %s/%d, want 0/0", f.SalesAmount, f.Quantity)
	}
	if !f.UnitPrice.Valid || !f.UnitPrice.Decimal.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unit price = %+v", f.UnitPrice)
	}
}

func TestMapSales_EmptyResult(t *testing.T) {
	t.Parallel()

	// Empty wins over a missing header: an empty file has no header either.
	for _, header := range [][]string{nil, SalesColumns} {
		_, err := MapSales(header, nil)
		if !errors.Is(err, ErrEmptyResult) {
			t.Fatalf("header=%v: err = %v, want ErrEmptyResult", header, err)
		}
	}
}

func TestRequireColumns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  []string
		wantErr bool
	}{
		{name: "exact", header: ProductColumns},
		{name: "extra columns ok", header: append([]string{"prd_start_dt"}, ProductColumns...)},
		{name: "case mismatch", header: []string{"PRD_ID", "prd_key", "prd_nm", "prd_cost", "prd_line"}, wantErr: true},
		{name: "missing", header: []string{"prd_id", "prd_key"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := RequireColumns("prd_info", tt.header, ProductColumns)
			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMissingColumn) {
				t.Fatalf("err = %v, want ErrMissingColumn", err)
			}
		})
	}
}

func TestMapProducts_UpperCasesKeys(t *testing.T) {
	t.Parallel()

	header := append(append([]string{}, ProductColumns...), ProductStartDate, ProductEndDate)
	recs := ProductChain().Apply([]records.Record{
		{ProductID: "210", ProductKey: " co-rf-fr-r92b-58 ", ProductName: "HL Road Frame - Black- 58",
			ProductCost: "", ProductLine: "R ", ProductStartDate: "2003-07-01", ProductEndDate: ""},
		{ProductID: "x", ProductKey: "AC-HE-HL-U509-R", ProductName: "Sport-100 Helmet- Red",
			ProductCost: "12", ProductLine: "S"},
	})

	dims, err := MapProducts(header, recs)
	if err != nil {
		t.Fatalf("MapProducts: %v", err)
	}
	if dims[0].ProductKey != "CO-RF-FR-R92B-58" {
		t.Fatalf("key = %q", dims[0].ProductKey)
	}
	if !dims[0].ProductID.Valid || dims[0].ProductID.Int64 != 210 {
		t.Fatalf("id = %+v", dims[0].ProductID)
	}
	if dims[0].ProductCost.Valid {
		t.Fatalf("empty cost should be null")
	}
	if dims[0].ProductLine != "R" || dims[0].StartDate != "2003-07-01" {
		t.Fatalf("line/start = %q/%q", dims[0].ProductLine, dims[0].StartDate)
	}
	if dims[1].ProductID.Valid {
		t.Fatalf("non-numeric id should be null")
	}
	if !dims[1].ProductCost.Valid || !dims[1].ProductCost.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("cost = %+v", dims[1].ProductCost)
	}
}

func TestMapCustomers_ProjectsSubset(t *testing.T) {
	t.Parallel()

	header := append(append([]string{}, CustomerColumns...), "cst_marital_status", "cst_create_date")
	recs := CustomerChain().Apply([]records.Record{
		{CustomerID: "11000", CustomerKey: "AW00011000", CustomerFirstName: " Jon", CustomerLastName: "Yang ",
			"cst_marital_status": "M", CustomerGender: "M", "cst_create_date": "2025-10-06"},
	})

	dims, err := MapCustomers(header, recs)
	if err != nil {
		t.Fatalf("MapCustomers: %v", err)
	}
	c := dims[0]
	if c.CustomerID.Int64 != 11000 || c.FirstName != "Jon" || c.LastName != "Yang" || c.Gender != "M" {
		t.Fatalf("customer = %+v", c)
	}

	if _, err := MapCustomers([]string{"cst_id"}, recs); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
}

// TestMapSales_UntransformedStrings checks the mapper still applies the
// coercion rules when handed raw text.
func TestMapSales_UntransformedStrings(t *testing.T) {
	t.Parallel()

	facts, err := MapSales(SalesColumns, []records.Record{
		salesRecord("SO9", "K", "20130105", "10.5", "3", "3.5"),
	})
	if err != nil {
		t.Fatalf("MapSales: %v", err)
	}
	f := facts[0]
	if f.OrderDate == nil || f.Quantity != 3 || !f.SalesAmount.Equal(decimal.RequireFromString("10.5")) {
		t.Fatalf("fact = %+v", f)
	}
}
