package datadog

import (
	"reflect"
	"testing"

	"salesdw/internal/metrics"
)

type recordedCall struct {
	kind  string
	name  string
	value float64
	tags  []string
}

type fakeClient struct {
	calls  []recordedCall
	closed int
}

func (f *fakeClient) Count(name string, value int64, tags []string, _ float64) error {
	f.calls = append(f.calls, recordedCall{"count", name, float64(value), tags})
	return nil
}

func (f *fakeClient) Histogram(name string, value float64, tags []string, _ float64) error {
	f.calls = append(f.calls, recordedCall{"histogram", name, value, tags})
	return nil
}

func (f *fakeClient) Close() error {
	f.closed++
	return nil
}

func TestLabelsToTags(t *testing.T) {
	t.Parallel()

	if got := labelsToTags(nil); got != nil {
		t.Fatalf("labelsToTags(nil) = %v, want nil", got)
	}
	got := labelsToTags(metrics.Labels{"table": "FactSales", "kind": "loaded", "job": "salesdw"})
	want := []string{"job:salesdw", "kind:loaded", "table:FactSales"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("labelsToTags = %v, want %v", got, want)
	}
}

func TestBackendForwardsToClient(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	b := &Backend{client: fc}

	b.IncCounter(metrics.RowsTotal, 12, metrics.Labels{"table": "DimProduct", "kind": "read"})
	b.ObserveHistogram(metrics.StepDuration, 0.25, metrics.Labels{"step": "load"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := []recordedCall{
		{"count", metrics.RowsTotal, 12, []string{"kind:read", "table:DimProduct"}},
		{"histogram", metrics.StepDuration, 0.25, []string{"step:load"}},
	}
	if !reflect.DeepEqual(fc.calls, want) {
		t.Fatalf("calls = %+v, want %+v", fc.calls, want)
	}
	if fc.closed != 1 {
		t.Fatalf("closed = %d, want 1", fc.closed)
	}
}

func TestZeroBackendIsNoop(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter(metrics.StepTotal, 1, nil)
	b.ObserveHistogram(metrics.StepDuration, 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestNewBackendUDP(t *testing.T) {
	t.Parallel()

	// UDP client creation does not require a listening agent.
	b, err := NewBackend(Config{Addr: "127.0.0.1:8125", Namespace: "salesdw.", GlobalTags: []string{"env:test"}})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "extract"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}
