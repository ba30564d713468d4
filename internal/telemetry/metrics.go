package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	SelectionsTotal   *prometheus.CounterVec
	SelectionDuration *prometheus.HistogramVec
	ApplierErrors     *prometheus.CounterVec
	LookupDuration    *prometheus.HistogramVec
	LookupErrors      *prometheus.CounterVec
	LookupCacheHits   *prometheus.CounterVec
}

// NewMetrics creates and registers Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		SelectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glsbridge_selections_total",
				Help: "Total number of method selections by delivery variant and status",
			},
			[]string{"variant", "status"},
		),
		SelectionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "glsbridge_selection_duration_seconds",
				Help:    "Method selection duration in seconds by carrier",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"carrier"},
		),
		ApplierErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glsbridge_applier_errors_total",
				Help: "Total applier evaluation errors by carrier",
			},
			[]string{"carrier"},
		),
		LookupDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "glsbridge_relay_lookup_duration_seconds",
				Help:    "Remote relay point lookup duration in seconds by carrier",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"carrier"},
		),
		LookupErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glsbridge_relay_lookup_errors_total",
				Help: "Total failed remote relay point lookups by carrier",
			},
			[]string{"carrier"},
		),
		LookupCacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glsbridge_relay_lookup_cache_hits_total",
				Help: "Total relay point lookups served from the evaluation cache by carrier",
			},
			[]string{"carrier"},
		),
	}
}

// RecordSelection records one method selection outcome.
func (m *Metrics) RecordSelection(variant, status, carrier string, duration float64) {
	m.SelectionsTotal.WithLabelValues(variant, status).Inc()
	m.SelectionDuration.WithLabelValues(carrier).Observe(duration)
}

// RecordApplierError records an applier evaluation error.
func (m *Metrics) RecordApplierError(carrier string) {
	m.ApplierErrors.WithLabelValues(carrier).Inc()
}

// RecordLookup records one remote relay point lookup.
func (m *Metrics) RecordLookup(carrier string, duration float64, failed bool) {
	m.LookupDuration.WithLabelValues(carrier).Observe(duration)
	if failed {
		m.LookupErrors.WithLabelValues(carrier).Inc()
	}
}

// RecordCacheHit records one relay point lookup served from the evaluation
// cache instead of the network.
func (m *Metrics) RecordCacheHit(carrier string) {
	m.LookupCacheHits.WithLabelValues(carrier).Inc()
}

// LookupRecorder binds the lookup metrics to one carrier label, so carrier
// packages can record lookups without knowing the label scheme.
type LookupRecorder struct {
	metrics *Metrics
	carrier string
}

// LookupRecorder returns a recorder bound to the given carrier.
func (m *Metrics) LookupRecorder(carrier string) *LookupRecorder {
	return &LookupRecorder{metrics: m, carrier: carrier}
}

// LookupCompleted records one remote lookup and whether it failed.
func (r *LookupRecorder) LookupCompleted(duration float64, failed bool) {
	r.metrics.RecordLookup(r.carrier, duration, failed)
}

// CacheHit records one lookup served from cache.
func (r *LookupRecorder) CacheHit() {
	r.metrics.RecordCacheHit(r.carrier)
}
