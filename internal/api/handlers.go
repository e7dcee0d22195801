package api

import (
	"bytes"
	"net/http"

	"github.com/shopspring/decimal"

	"salesdw/internal/dashboard"
	"salesdw/internal/logging"
	"salesdw/internal/query"
)

// series is a chart-ready list of labels and values.
type series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type dataResponse struct {
	Year        string `json:"year"`
	TotalSales  string `json:"total_sales"`
	TotalOrders string `json:"total_orders"`
	Products    series `json:"products"`
	Trend       series `json:"trend"`
	Error       string `json:"error,omitempty"`
}

type productJSON struct {
	Name  string  `json:"Product_Name"`
	Line  string  `json:"Product_Line"`
	Sales float64 `json:"sales"`
}

type customerJSON struct {
	ID      *int64 `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	res := s.svc.Years(r.Context())
	writeJSON(w, http.StatusOK, res.Value)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	year, err := query.ParseYear(r.URL.Query().Get("year"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res := s.svc.Dashboard(r.Context(), year)
	d := res.Value
	out := dataResponse{
		Year:        year.String(),
		TotalSales:  dashboard.FormatMoney(d.TotalSales),
		TotalOrders: dashboard.FormatCount(d.TotalOrders),
		Products:    series{Labels: []string{}, Values: []float64{}},
		Trend:       series{Labels: []string{}, Values: []float64{}},
	}
	for _, p := range d.TopProducts {
		out.Products.Labels = append(out.Products.Labels, p.Name)
		out.Products.Values = append(out.Products.Values, number(p.Total))
	}
	for _, m := range d.Trend {
		out.Trend.Labels = append(out.Trend.Labels, m.YearMonth)
		out.Trend.Values = append(out.Trend.Values, number(m.Total))
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleProductsList(w http.ResponseWriter, r *http.Request) {
	res := s.svc.ProductListing(r.Context(), s.opts.ListLimit)
	out := make([]productJSON, 0, len(res.Value))
	for _, p := range res.Value {
		out = append(out, productJSON{Name: p.Name, Line: p.Line, Sales: number(p.Total)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCustomersList(w http.ResponseWriter, r *http.Request) {
	res := s.svc.CustomerListing(r.Context(), s.opts.ListLimit)
	out := make([]customerJSON, 0, len(res.Value))
	for _, c := range res.Value {
		out = append(out, customerJSON(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	theme, err := dashboard.ParseTheme(q.Get("theme"))
	if err != nil {
		theme = s.opts.Theme
	}

	v := dashboard.View{Page: dashboard.ParsePage(q.Get("page")), Year: query.AllTime}
	year, err := query.ParseYear(q.Get("year"))
	if err != nil {
		v.Errors = append(v.Errors, err.Error()+"; showing all time")
	} else {
		v.Year = year
	}

	switch v.Page {
	case dashboard.PageProducts:
		res := s.svc.ProductListing(ctx, s.opts.ListLimit)
		v.Products = res.Value
		v.Errors = appendErr(v.Errors, res.Err)
	case dashboard.PageCustomers:
		res := s.svc.CustomerListing(ctx, s.opts.ListLimit)
		v.Customers = res.Value
		v.Errors = appendErr(v.Errors, res.Err)
	case dashboard.PageOverview:
		years := s.svc.Years(ctx)
		sum := s.svc.Dashboard(ctx, v.Year)
		v.Years, v.Summary = years.Value, sum.Value
		v.Errors = appendErr(appendErr(v.Errors, years.Err), sum.Err)
	}

	var buf bytes.Buffer
	if err := dashboard.Render(&buf, theme, v); err != nil {
		logging.FromContext(ctx).Error("api: render dashboard", "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func appendErr(errs []string, err error) []string {
	if err == nil {
		return errs
	}
	return append(errs, "Database error: "+err.Error())
}

// number converts an aggregate to a JSON number rounded to cents.
func number(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
