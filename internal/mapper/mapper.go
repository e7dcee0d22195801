// Package mapper renames parsed source rows into typed warehouse rows.
//
// Each source table has a fixed set of required headers, a normalization
// chain applied after parsing and a projection onto the warehouse model.
// Mapping never drops rows; coercion failures were already turned into
// nulls or zeros by the chain.
package mapper

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salesdw/internal/transformer"
	"salesdw/internal/transformer/builtin"
	"salesdw/internal/warehouse"
	"salesdw/pkg/records"
)

var (
	// ErrMissingColumn is returned when a required source header is absent.
	// Header matching is exact and case-sensitive.
	ErrMissingColumn = errors.New("mapper: missing required column")

	// ErrEmptyResult is returned when no sales facts survive parsing and
	// transformation. The warehouse must not be touched in that case.
	ErrEmptyResult = errors.New("mapper: no sales facts after transform")
)

// sales_details.csv headers.
const (
	SalesOrderNumber = "sls_ord_num"
	SalesProductKey  = "sls_prd_key"
	SalesCustomerID  = "sls_cust_id"
	SalesOrderDate   = "sls_order_dt"
	SalesShipDate    = "sls_ship_dt"
	SalesDueDate     = "sls_due_dt"
	SalesAmount      = "sls_sales"
	SalesQuantity    = "sls_quantity"
	SalesPrice       = "sls_price"
)

// prd_info.csv headers.
const (
	ProductID        = "prd_id"
	ProductKey       = "prd_key"
	ProductName      = "prd_nm"
	ProductCost      = "prd_cost"
	ProductLine      = "prd_line"
	ProductStartDate = "prd_start_dt"
	ProductEndDate   = "prd_end_dt"
)

// cust_info.csv headers. Only the first five are projected.
const (
	CustomerID        = "cst_id"
	CustomerKey       = "cst_key"
	CustomerFirstName = "cst_firstname"
	CustomerLastName  = "cst_lastname"
	CustomerGender    = "cst_gndr"
)

// Required headers per source file.
var (
	SalesColumns = []string{
		SalesOrderNumber, SalesProductKey, SalesCustomerID,
		SalesOrderDate, SalesShipDate, SalesDueDate,
		SalesAmount, SalesQuantity, SalesPrice,
	}
	ProductColumns = []string{
		ProductID, ProductKey, ProductName, ProductCost, ProductLine,
	}
	CustomerColumns = []string{
		CustomerID, CustomerKey, CustomerFirstName, CustomerLastName, CustomerGender,
	}
)

// SalesChain normalizes sales rows: compact dates become time.Time or nil,
// measures default to zero and the unit price becomes a nullable decimal.
// Fact product keys are kept exactly as read; only dimension keys are
// normalized.
func SalesChain() transformer.Chain {
	return transformer.Chain{
		builtin.Normalize{Skip: []string{SalesProductKey}},
		builtin.CompactDate{Fields: []string{SalesOrderDate, SalesShipDate, SalesDueDate}},
		builtin.NumericDefault{Decimals: []string{SalesAmount}, Integers: []string{SalesQuantity}},
		builtin.Coerce{Types: map[string]string{SalesPrice: "decimal"}},
	}
}

// ProductChain trims and upper-cases product keys and types id and cost.
func ProductChain() transformer.Chain {
	return transformer.Chain{
		builtin.Normalize{},
		builtin.Upper{Fields: []string{ProductKey}},
		builtin.Coerce{Types: map[string]string{ProductID: "int", ProductCost: "decimal"}},
	}
}

// CustomerChain trims customer fields and types the id.
func CustomerChain() transformer.Chain {
	return transformer.Chain{
		builtin.Normalize{},
		builtin.Coerce{Types: map[string]string{CustomerID: "int"}},
	}
}

// RequireColumns reports every required header missing from header.
func RequireColumns(table string, header, required []string) error {
	have := make(map[string]struct{}, len(header))
	for _, h := range header {
		have[h] = struct{}{}
	}
	var missing []string
	for _, c := range required {
		if _, ok := have[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: %w: %s", table, ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// MapSales projects transformed sales rows onto SalesFact. An empty input
// fails with ErrEmptyResult before the header is checked.
func MapSales(header []string, recs []records.Record) ([]warehouse.SalesFact, error) {
	if len(recs) == 0 {
		return nil, ErrEmptyResult
	}
	if err := RequireColumns("sales_details", header, SalesColumns); err != nil {
		return nil, err
	}

	out := make([]warehouse.SalesFact, len(recs))
	for i, r := range recs {
		out[i] = warehouse.SalesFact{
			OrderNumber: r.String(SalesOrderNumber),
			ProductKey:  r.String(SalesProductKey),
			CustomerID:  r.String(SalesCustomerID),
			OrderDate:   dateOf(r[SalesOrderDate]),
			ShipDate:    dateOf(r[SalesShipDate]),
			DueDate:     dateOf(r[SalesDueDate]),
			SalesAmount: amountOf(r[SalesAmount]),
			Quantity:    quantityOf(r[SalesQuantity]),
			UnitPrice:   nullDecimalOf(r[SalesPrice]),
		}
	}
	return out, nil
}

// MapProducts projects transformed product rows onto ProductDim.
func MapProducts(header []string, recs []records.Record) ([]warehouse.ProductDim, error) {
	if err := RequireColumns("prd_info", header, ProductColumns); err != nil {
		return nil, err
	}
	out := make([]warehouse.ProductDim, len(recs))
	for i, r := range recs {
		out[i] = warehouse.ProductDim{
			ProductID:   nullIntOf(r[ProductID]),
			ProductKey:  r.String(ProductKey),
			ProductName: r.String(ProductName),
			ProductCost: nullDecimalOf(r[ProductCost]),
			ProductLine: r.String(ProductLine),
			StartDate:   r.String(ProductStartDate),
			EndDate:     r.String(ProductEndDate),
		}
	}
	return out, nil
}

// MapCustomers projects the fixed five-column customer subset.
func MapCustomers(header []string, recs []records.Record) ([]warehouse.CustomerDim, error) {
	if err := RequireColumns("cust_info", header, CustomerColumns); err != nil {
		return nil, err
	}
	out := make([]warehouse.CustomerDim, len(recs))
	for i, r := range recs {
		out[i] = warehouse.CustomerDim{
			CustomerID:  nullIntOf(r[CustomerID]),
			CustomerKey: r.String(CustomerKey),
			FirstName:   r.String(CustomerFirstName),
			LastName:    r.String(CustomerLastName),
			Gender:      r.String(CustomerGender),
		}
	}
	return out, nil
}

func dateOf(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		return &t
	case string:
		if d, ok := builtin.ParseCompactDate(t); ok {
			return &d
		}
	}
	return nil
}

func amountOf(v any) decimal.Decimal {
	switch t := v.(type) {
	case decimal.Decimal:
		if t.IsNegative() {
			return decimal.Zero
		}
		return t
	case string:
		return builtin.CoerceAmount(t)
	}
	return decimal.Zero
}

func quantityOf(v any) int64 {
	switch t := v.(type) {
	case int64:
		return max(t, 0)
	case string:
		return builtin.CoerceQuantity(t)
	}
	return 0
}

func nullDecimalOf(v any) decimal.NullDecimal {
	switch t := v.(type) {
	case decimal.Decimal:
		return decimal.NewNullDecimal(t)
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(t)); err == nil {
			return decimal.NewNullDecimal(d)
		}
	}
	return decimal.NullDecimal{}
}

func nullIntOf(v any) sql.NullInt64 {
	if i, ok := v.(int64); ok {
		return sql.NullInt64{Int64: i, Valid: true}
	}
	return sql.NullInt64{}
}
