package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the harvester's Prometheus collectors on a private registry.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	PagesTotal      *prometheus.CounterVec
	RecordsTotal    prometheus.Counter
	CacheHitsTotal  prometheus.Counter
	AssetsTotal     *prometheus.CounterVec
	ErrorsTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_requests_total",
			Help: "Page requests issued, by phase (listing or detail).",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "harvester_request_duration_seconds",
			Help:    "Latency of page requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_listing_pages_total",
			Help: "Listing pages walked, by outcome (items or exhausted).",
		},
		[]string{"outcome"},
	)
	records := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "harvester_records_extracted_total",
			Help: "Detail records extracted.",
		},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "harvester_detail_cache_hits_total",
			Help: "Detail records served from the in-process cache.",
		},
	)
	assets := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_assets_total",
			Help: "Asset downloads by kind (archive or screenshot) and outcome.",
		},
		[]string{"kind", "outcome"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvester_errors_total",
			Help: "Harvester errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, pages, records, cacheHits, assets, errorsTotal)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		PagesTotal:      pages,
		RecordsTotal:    records,
		CacheHitsTotal:  cacheHits,
		AssetsTotal:     assets,
		ErrorsTotal:     errorsTotal,
	}
}

// IncRequest increments the request counter for phase.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records a request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncPage counts a walked listing page.
func (m *Metrics) IncPage(outcome string) {
	if m == nil {
		return
	}
	m.PagesTotal.WithLabelValues(outcome).Inc()
}

// IncRecords increments the extracted records counter.
func (m *Metrics) IncRecords() {
	if m == nil {
		return
	}
	m.RecordsTotal.Inc()
}

// IncCacheHit increments the detail cache hit counter.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// IncAsset counts one asset download attempt.
func (m *Metrics) IncAsset(kind, outcome string) {
	if m == nil {
		return
	}
	m.AssetsTotal.WithLabelValues(kind, outcome).Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
