package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StockMetrics records ledger mutation and checkout resolution metadata.
type StockMetrics struct {
	mutations          *prometheus.CounterVec
	transfers          *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
}

// NewStockMetrics registers the stock metrics on the provided registerer.
func NewStockMetrics(reg prometheus.Registerer) *StockMetrics {
	if reg == nil {
		return &StockMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_mutations_total",
		Help: "Ledger mutations by action and outcome.",
	}, []string{"action", "outcome"})
	transfers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_transfers_total",
		Help: "Location-to-location transfers by outcome.",
	}, []string{"outcome"})
	resolutionDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_resolution_duration_seconds",
		Help:    "Duration of checkout placement resolution in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	reg.MustRegister(mutations, transfers, resolutionDuration)
	return &StockMetrics{
		mutations:          mutations,
		transfers:          transfers,
		resolutionDuration: resolutionDuration,
	}
}

// ObserveMutation counts a ledger mutation attempt.
func (s *StockMetrics) ObserveMutation(action, outcome string) {
	if s == nil || s.mutations == nil {
		return
	}
	s.mutations.WithLabelValues(normalizeLabel(action), normalizeLabel(outcome)).Inc()
}

// ObserveTransfer counts a transfer attempt.
func (s *StockMetrics) ObserveTransfer(outcome string) {
	if s == nil || s.transfers == nil {
		return
	}
	s.transfers.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveResolution records a checkout resolution duration.
func (s *StockMetrics) ObserveResolution(mode string, duration time.Duration) {
	if s == nil || s.resolutionDuration == nil {
		return
	}
	s.resolutionDuration.WithLabelValues(normalizeLabel(mode)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
