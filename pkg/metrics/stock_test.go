package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStockMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStockMetrics(reg)

	m.ObserveMutation("SET", "ok")
	m.ObserveMutation("SET", "ok")
	m.ObserveMutation("SUBTRACT", "insufficient_stock")
	m.ObserveTransfer("ok")
	m.ObserveResolution("ONLINE", 25*time.Millisecond)

	if got := testutil.ToFloat64(m.mutations.WithLabelValues("SET", "ok")); got != 2 {
		t.Fatalf("expected 2 SET mutations, got %v", got)
	}
	if got := testutil.ToFloat64(m.transfers.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 transfer, got %v", got)
	}
}

func TestStockMetricsNilSafe(t *testing.T) {
	var m *StockMetrics
	m.ObserveMutation("ADD", "ok")
	m.ObserveTransfer("ok")
	m.ObserveResolution("IN_STORE", time.Second)

	empty := NewStockMetrics(nil)
	empty.ObserveMutation("", "")
}
