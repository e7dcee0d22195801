package dashboard

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"salesdw/internal/query"
)

//go:embed dashboard.html
var pageHTML string

var pageTmpl = template.Must(template.New("dashboard").Parse(pageHTML))

// Page selects the dashboard section.
type Page string

const (
	PageOverview  Page = "dashboard"
	PageProducts  Page = "products"
	PageCustomers Page = "customers"
	PageSettings  Page = "settings"
)

// ParsePage maps a query parameter to a Page, defaulting to the overview.
func ParsePage(s string) Page {
	switch p := Page(strings.ToLower(strings.TrimSpace(s))); p {
	case PageProducts, PageCustomers, PageSettings:
		return p
	}
	return PageOverview
}

// View is everything one page render needs. Only the fields for Page are
// read.
type View struct {
	Page      Page
	Years     []string
	Year      query.YearFilter
	Summary   query.Dashboard
	Products  []query.ProductRow
	Customers []query.Customer
	// Errors are shown as a banner above the content.
	Errors []string
}

type bar struct {
	Label string
	Value string
	Pct   string
	Color string
}

type navItem struct {
	Label  string
	Href   string
	Active bool
}

type yearOption struct {
	Value    string
	Label    string
	Selected bool
}

type tableRow []string

type pageData struct {
	T           Theme
	Page        Page
	Title       string
	YearLabel   string
	Nav         []navItem
	YearOptions []yearOption
	ToggleHref  string
	ToggleLabel string
	Errors      []string

	TotalSales  string
	TotalOrders string
	Trend       []bar
	TopProducts []bar

	Headers []string
	Rows    []tableRow
}

// Render writes the HTML page for v using theme t.
func Render(w io.Writer, t Theme, v View) error {
	d := pageData{
		T:           t,
		Page:        v.Page,
		YearLabel:   yearLabel(v.Year),
		Errors:      v.Errors,
		ToggleHref:  href(v.Page, v.Year, t.Toggle()),
		ToggleLabel: "Switch to " + t.Toggle().Name + " mode",
	}
	for _, p := range []struct {
		page  Page
		label string
	}{
		{PageOverview, "Dashboard"},
		{PageProducts, "Products"},
		{PageCustomers, "Customers"},
		{PageSettings, "Settings"},
	} {
		d.Nav = append(d.Nav, navItem{Label: p.label, Href: href(p.page, v.Year, t), Active: p.page == v.Page})
	}

	switch v.Page {
	case PageProducts:
		d.Title = "Product List"
		d.Headers = []string{"Product Name", "Category", "Total Sales"}
		for _, p := range v.Products {
			d.Rows = append(d.Rows, tableRow{dash(p.Name), dash(p.Line), FormatMoney(p.Total)})
		}
	case PageCustomers:
		d.Title = "Customer List"
		d.Headers = []string{"ID", "Name", "Country"}
		for _, c := range v.Customers {
			id := ""
			if c.ID != nil {
				id = strconv.FormatInt(*c.ID, 10)
			}
			d.Rows = append(d.Rows, tableRow{dash(id), dash(c.Name), dash(c.Country)})
		}
	case PageSettings:
		d.Title = "Settings"
	default:
		d.Page = PageOverview
		d.Title = "Overview"
		d.YearOptions = yearOptions(v.Years, v.Year)
		d.TotalSales = FormatMoney(v.Summary.TotalSales)
		d.TotalOrders = FormatCount(v.Summary.TotalOrders)
		d.Trend = trendBars(v.Summary.Trend)
		d.TopProducts = productBars(v.Summary.TopProducts)
	}

	if err := pageTmpl.Execute(w, d); err != nil {
		return fmt.Errorf("dashboard: render: %w", err)
	}
	return nil
}

func yearLabel(y query.YearFilter) string {
	if y.All() {
		return "All Time"
	}
	return y.String()
}

func yearOptions(years []string, sel query.YearFilter) []yearOption {
	out := []yearOption{{Value: "all", Label: "All Time", Selected: sel.All()}}
	for _, y := range years {
		out = append(out, yearOption{Value: y, Label: y, Selected: !sel.All() && sel.String() == y})
	}
	return out
}

func href(p Page, y query.YearFilter, t Theme) string {
	q := url.Values{}
	q.Set("page", string(p))
	q.Set("theme", t.Name)
	if !y.All() {
		q.Set("year", y.String())
	}
	return "/?" + q.Encode()
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// pct returns v/max as a CSS percentage; bars of a zero or negative maximum
// are empty.
func pct(v, max decimal.Decimal) string {
	if !max.IsPositive() || !v.IsPositive() {
		return "0%"
	}
	return v.Mul(decimal.NewFromInt(100)).Div(max).StringFixed(1) + "%"
}

func trendBars(points []query.MonthTotal) []bar {
	max := decimal.Zero
	for _, p := range points {
		max = decimal.Max(max, p.Total)
	}
	out := make([]bar, 0, len(points))
	for _, p := range points {
		out = append(out, bar{Label: p.YearMonth, Value: FormatMoney(p.Total), Pct: pct(p.Total, max), Color: barColors[0]})
	}
	return out
}

func productBars(products []query.ProductTotal) []bar {
	max := decimal.Zero
	for _, p := range products {
		max = decimal.Max(max, p.Total)
	}
	out := make([]bar, 0, len(products))
	for i, p := range products {
		out = append(out, bar{
			Label: p.Name,
			Value: FormatMoney(p.Total),
			Pct:   pct(p.Total, max),
			Color: barColors[i%len(barColors)],
		})
	}
	return out
}
