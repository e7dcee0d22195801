// This file adds a lightweight linter for Config values. It performs static
// checks over a loaded Config and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	pcsv "salesdw/internal/parser/csv"
	"salesdw/internal/query"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates an issue worth surfacing that does not block
	// execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "storage.kind"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate performs static validation of a Config. It does not mutate the
// config; callers decide whether warnings are fatal.
func Validate(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(c.Source)...)
	issues = append(issues, validateStorage(c.Storage)...)
	issues = append(issues, validateQuery(c.Query)...)
	issues = append(issues, validateServer(c.Server)...)
	issues = append(issues, validateSchedule(c.Schedule)...)
	issues = append(issues, validateMetrics(c.Metrics)...)
	issues = append(issues, validateLog(c.Log)...)
	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	required := []struct{ path, val string }{
		{"source.root", s.Root},
		{"source.folder", s.Folder},
		{"source.sales_file", s.SalesFile},
		{"source.products_file", s.ProductsFile},
		{"source.customers_file", s.CustomersFile},
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     r.path,
				Message:  r.path + " must not be empty",
			})
		}
	}

	if _, err := pcsv.LookupEncoding(s.Encoding); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.encoding",
			Message:  fmt.Sprintf("encoding %q cannot be resolved: %v", s.Encoding, err),
		})
	}
	if utf8.RuneCountInString(s.Comma) != 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.comma",
			Message:  fmt.Sprintf("comma must be a single character, got %q", s.Comma),
		})
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
	}

	known := map[string]struct{}{
		"postgres": {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}
	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.dsn",
			Message:  "storage.dsn must not be empty",
		})
	}
	if s.BatchSize <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.batch_size",
			Message:  fmt.Sprintf("batch_size=%d; the backend default will be used", s.BatchSize),
		})
	}
	return issues
}

func validateQuery(q Query) []Issue {
	var issues []Issue

	if _, err := query.ParseMatcher(q.Matcher); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "query.matcher",
			Message:  err.Error(),
		})
	}
	if q.Matcher == "exact" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "query.matcher",
			Message:  "exact matching drops sales whose keys lack the product category prefix",
		})
	}
	if q.TopLimit < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "query.top_limit",
			Message:  "top_limit must not be negative",
		})
	}
	if q.ListLimit < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "query.list_limit",
			Message:  "list_limit must not be negative",
		})
	}
	return issues
}

func validateServer(s Server) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Addr) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "server.addr",
			Message:  "server.addr is empty; serve will listen on :http",
		})
	}
	switch s.Theme {
	case "light", "dark":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "server.theme",
			Message:  fmt.Sprintf("theme must be light or dark, got %q", s.Theme),
		})
	}
	return issues
}

func validateSchedule(s Schedule) []Issue {
	if s.Every == "" {
		return nil
	}
	d, err := time.ParseDuration(s.Every)
	switch {
	case err != nil:
		return []Issue{{
			Severity: SeverityError,
			Path:     "schedule.every",
			Message:  fmt.Sprintf("invalid duration %q: %v", s.Every, err),
		}}
	case d < time.Minute:
		return []Issue{{
			Severity: SeverityWarning,
			Path:     "schedule.every",
			Message:  fmt.Sprintf("reload every %s rebuilds the warehouse very often", d),
		}}
	}
	return nil
}

func validateMetrics(m Metrics) []Issue {
	switch m.Backend {
	case "", "none":
		return nil
	case "prometheus":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			return []Issue{{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "prometheus backend requires a pushgateway_url",
			}}
		}
		return nil
	case "datadog":
		if strings.TrimSpace(m.DatadogAddr) == "" {
			return []Issue{{
				Severity: SeverityWarning,
				Path:     "metrics.datadog_addr",
				Message:  "datadog_addr is empty; the client default agent address will be used",
			}}
		}
		return nil
	default:
		return []Issue{{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q", m.Backend),
		}}
	}
}

func validateLog(l Log) []Issue {
	var issues []Issue
	switch strings.ToLower(l.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "log.level",
			Message:  fmt.Sprintf("unknown level %q; info will be used", l.Level),
		})
	}
	switch strings.ToLower(l.Format) {
	case "", "text", "json":
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "log.format",
			Message:  fmt.Sprintf("unknown format %q; text will be used", l.Format),
		})
	}
	return issues
}
