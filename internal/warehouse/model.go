// Package warehouse owns the star-schema tables (FactSales, DimProduct,
// DimCustomer) and the loader that replaces them on every run.
package warehouse

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"salesdw/internal/transformer/builtin"
)

// SalesFact is one row of FactSales.
type SalesFact struct {
	OrderNumber string
	ProductKey  string
	CustomerID  string
	OrderDate   *time.Time
	ShipDate    *time.Time
	DueDate     *time.Time
	SalesAmount decimal.Decimal // never negative
	Quantity    int64           // never negative
	UnitPrice   decimal.NullDecimal
}

// ProductDim is one row of DimProduct. ProductKey is trimmed and upper-cased.
type ProductDim struct {
	ProductID   sql.NullInt64
	ProductKey  string
	ProductName string
	ProductCost decimal.NullDecimal
	ProductLine string
	StartDate   string
	EndDate     string
}

// CustomerDim is one row of DimCustomer.
type CustomerDim struct {
	CustomerID  sql.NullInt64
	CustomerKey string
	FirstName   string
	LastName    string
	Gender      string
}

// Row returns the values in FactSales column order.
func (f SalesFact) Row() []any {
	return []any{
		f.OrderNumber,
		f.ProductKey,
		f.CustomerID,
		dateVal(f.OrderDate),
		dateVal(f.ShipDate),
		dateVal(f.DueDate),
		f.SalesAmount,
		f.Quantity,
		nullDecimal(f.UnitPrice),
	}
}

// Row returns the values in DimProduct column order.
func (p ProductDim) Row() []any {
	return []any{
		nullInt(p.ProductID),
		p.ProductKey,
		nullText(p.ProductName),
		nullDecimal(p.ProductCost),
		nullText(p.ProductLine),
		nullText(p.StartDate),
		nullText(p.EndDate),
	}
}

// Row returns the values in DimCustomer column order.
func (c CustomerDim) Row() []any {
	return []any{
		nullInt(c.CustomerID),
		nullText(c.CustomerKey),
		nullText(c.FirstName),
		nullText(c.LastName),
		nullText(c.Gender),
	}
}

func dateVal(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(builtin.DateLayout)
}

func nullDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal
}

func nullInt(n sql.NullInt64) any {
	if !n.Valid {
		return nil
	}
	return n.Int64
}

func nullText(s string) any {
	if s == "" {
		return nil
	}
	return s
}
