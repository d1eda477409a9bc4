// Package metrics provides Prometheus metrics for the scan pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager holds the Prometheus collectors for the scan pipeline.
type Manager struct {
	registry *prometheus.Registry

	scansTotal    *prometheus.CounterVec
	fetchFailures prometheus.Counter
	upsertsTotal  prometheus.Counter
	scanDuration  prometheus.Histogram
}

// NewManager creates a metrics manager with its own registry, keeping the
// default Go collectors out of the scrape output.
func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Manager{
		registry: registry,
		scansTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "divscout",
			Subsystem: "scan",
			Name:      "tickers_total",
			Help:      "Number of tickers scanned, by outcome.",
		}, []string{"outcome"}),
		fetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "divscout",
			Subsystem: "scan",
			Name:      "fetch_failures_total",
			Help:      "Number of upstream market data fetch failures.",
		}),
		upsertsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "divscout",
			Subsystem: "scan",
			Name:      "upserts_total",
			Help:      "Number of analysis records written to storage.",
		}),
		scanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "divscout",
			Subsystem: "scan",
			Name:      "ticker_duration_seconds",
			Help:      "Time spent scanning a single ticker end to end.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// RecordScan records the outcome of a single ticker scan.
func (m *Manager) RecordScan(outcome string, duration time.Duration) {
	m.scansTotal.WithLabelValues(outcome).Inc()
	m.scanDuration.Observe(duration.Seconds())
}

// RecordFetchFailure counts a failed upstream fetch.
func (m *Manager) RecordFetchFailure() {
	m.fetchFailures.Inc()
}

// RecordUpsert counts a committed analysis record.
func (m *Manager) RecordUpsert() {
	m.upsertsTotal.Inc()
}

// Handler returns an http.Handler exposing the registry in Prometheus
// text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
