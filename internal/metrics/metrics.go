// Package metrics records operational metrics for warehouse loads and the
// aggregation queries behind the dashboard.
//
// Callers depend only on the package-level helpers (RecordStep, RecordRows,
// RecordQuery). A concrete Backend (Prometheus Pushgateway or DogStatsD) is
// installed once at startup with SetBackend; until then every call is a no-op.
package metrics

import (
	"sync"
	"time"
)

// Metric names shared by all backends.
const (
	StepTotal     = "salesdw_etl_step_total"
	StepDuration  = "salesdw_etl_step_duration_seconds"
	RowsTotal     = "salesdw_rows_total"
	QueryTotal    = "salesdw_query_total"
	QueryDuration = "salesdw_query_duration_seconds"
)

// Row kinds reported through RecordRows.
const (
	RowsRead   = "read"
	RowsMapped = "mapped"
	RowsLoaded = "loaded"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordStep measures latency and success/failure of one load step
// ("discover", "extract", "transform", "load").
func RecordStep(job, step string, err error, d time.Duration) {
	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status(err),
	}
	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRows adds delta rows of the given kind for one warehouse table.
// Non-positive deltas are ignored.
func RecordRows(job, table, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(delta), Labels{
		"job":   job,
		"table": table,
		"kind":  kind,
	})
}

// RecordQuery counts one aggregation query and its latency.
func RecordQuery(op string, err error, d time.Duration) {
	lbls := Labels{
		"query":  op,
		"status": status(err),
	}
	b := current()
	b.IncCounter(QueryTotal, 1, lbls)
	b.ObserveHistogram(QueryDuration, d.Seconds(), lbls)
}
