// Package metrics exposes Prometheus collectors for the mint service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks issuance outcomes, list evictions and settlement delivery.
// All methods are safe on a nil receiver so callers can run without metrics.
type Metrics struct {
	Minted             *prometheus.CounterVec
	Denied             *prometheus.CounterVec
	Evicted            *prometheus.CounterVec
	Supply             prometheus.Gauge
	MintDuration       prometheus.Histogram
	SettlementsTotal   *prometheus.CounterVec
	SettlementsDropped prometheus.Counter
	SettlementQueue    prometheus.Gauge
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Minted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mint_tokens_minted_total",
			Help: "Tokens issued, by admitting tier",
		}, []string{"tier"}),
		Denied: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mint_denied_total",
			Help: "Mint calls rejected, by error code",
		}, []string{"code"}),
		Evicted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mint_list_evictions_total",
			Help: "Eligibility entries dropped because the holder was at the tier cap",
		}, []string{"tier"}),
		Supply: f.NewGauge(prometheus.GaugeOpts{
			Name: "mint_total_supply",
			Help: "Tokens issued so far",
		}),
		MintDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mint_call_duration_seconds",
			Help:    "Duration of mint calls including the store transaction",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		SettlementsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mint_settlements_total",
			Help: "Settlement transfers, by result",
		}, []string{"result"}),
		SettlementsDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "mint_settlements_dropped_total",
			Help: "Settlement transfers dropped because the queue was full",
		}),
		SettlementQueue: f.NewGauge(prometheus.GaugeOpts{
			Name: "mint_settlement_queue_depth",
			Help: "Settlement transfers waiting for a worker",
		}),
	}
}

// IncrementMinted records a successful mint under tier.
func (m *Metrics) IncrementMinted(tier string) {
	if m == nil {
		return
	}
	m.Minted.WithLabelValues(tier).Inc()
}

// IncrementDenied records a rejected mint call.
func (m *Metrics) IncrementDenied(code string) {
	if m == nil {
		return
	}
	m.Denied.WithLabelValues(code).Inc()
}

// IncrementEvicted records an eviction from tier's list.
func (m *Metrics) IncrementEvicted(tier string) {
	if m == nil {
		return
	}
	m.Evicted.WithLabelValues(tier).Inc()
}

// SetSupply records the current total supply.
func (m *Metrics) SetSupply(n uint64) {
	if m == nil {
		return
	}
	m.Supply.Set(float64(n))
}

// ObserveMint records the duration of a mint call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveMint(start time.Time) {
	if m == nil {
		return
	}
	m.MintDuration.Observe(time.Since(start).Seconds())
}

// IncrementSettlement records a settlement outcome ("ok" or "failed").
func (m *Metrics) IncrementSettlement(result string) {
	if m == nil {
		return
	}
	m.SettlementsTotal.WithLabelValues(result).Inc()
}

// IncrementSettlementDropped records a transfer dropped on a full queue.
func (m *Metrics) IncrementSettlementDropped() {
	if m == nil {
		return
	}
	m.SettlementsDropped.Inc()
}

// SetSettlementQueue records the queue depth.
func (m *Metrics) SetSettlementQueue(n int) {
	if m == nil {
		return
	}
	m.SettlementQueue.Set(float64(n))
}
