package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"salesdw/internal/dashboard"
	"salesdw/internal/query"
	"salesdw/internal/report"
)

// dashboardJSON is the machine-readable form of a query.Dashboard.
type dashboardJSON struct {
	Year        string               `json:"year"`
	TotalSales  float64              `json:"total_sales"`
	TotalOrders int64                `json:"total_orders"`
	TopProducts []query.ProductTotal `json:"top_products"`
	Trend       []query.MonthTotal   `json:"trend"`
	Errors      []string             `json:"errors,omitempty"`
}

func newReportCmd(a *app) *cobra.Command {
	var (
		year   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard figures for a year",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.prepare(); err != nil {
				return err
			}
			yf, err := query.ParseYear(year)
			if err != nil {
				return err
			}
			svc, err := a.newService()
			if err != nil {
				return err
			}
			res := svc.Dashboard(cmd.Context(), yf)
			if asJSON {
				return writeDashboardJSON(cmd.OutOrStdout(), res)
			}
			if err := writeDashboardText(cmd.OutOrStdout(), res.Value); err != nil {
				return err
			}
			return res.Err
		},
	}
	cmd.Flags().StringVar(&year, "year", "", `calendar year, or "All Time" (default)`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func writeDashboardText(w io.Writer, d query.Dashboard) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Year\t%s\n", d.Year)
	fmt.Fprintf(tw, "Total Sales\t%s\n", dashboard.FormatMoney(d.TotalSales))
	fmt.Fprintf(tw, "Total Orders\t%s\n", dashboard.FormatCount(d.TotalOrders))
	fmt.Fprintln(tw, "\t")
	fmt.Fprintln(tw, "Top Products\tSales")
	for _, p := range d.TopProducts {
		fmt.Fprintf(tw, "%s\t%s\n", p.Name, dashboard.FormatMoney(p.Total))
	}
	fmt.Fprintln(tw, "\t")
	fmt.Fprintln(tw, "Month\tSales")
	for _, m := range d.Trend {
		fmt.Fprintf(tw, "%s\t%s\n", m.YearMonth, dashboard.FormatMoney(m.Total))
	}
	return tw.Flush()
}

func writeDashboardJSON(w io.Writer, res query.Result[query.Dashboard]) error {
	d := res.Value
	out := dashboardJSON{
		Year:        d.Year.String(),
		TotalSales:  d.TotalSales.Round(2).InexactFloat64(),
		TotalOrders: d.TotalOrders,
		TopProducts: d.TopProducts,
		Trend:       d.Trend,
	}
	if out.TopProducts == nil {
		out.TopProducts = []query.ProductTotal{}
	}
	if out.Trend == nil {
		out.Trend = []query.MonthTotal{}
	}
	if res.Err != nil {
		out.Errors = []string{res.Err.Error()}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func newExportCmd(a *app) *cobra.Command {
	var (
		year string
		out  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dashboard figures to an XLSX workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.prepare(); err != nil {
				return err
			}
			yf, err := query.ParseYear(year)
			if err != nil {
				return err
			}
			svc, err := a.newService()
			if err != nil {
				return err
			}

			data, err := report.Collect(cmd.Context(), svc, yf, a.cfg.Query.ListLimit)
			if err != nil {
				slog.Warn("export: degraded queries", "err", err)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := report.Write(f, data); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&year, "year", "", `calendar year, or "All Time" (default)`)
	cmd.Flags().StringVarP(&out, "out", "o", "salesdw.xlsx", "output workbook path")
	return cmd
}
