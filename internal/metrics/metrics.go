// Package metrics exposes Prometheus instrumentation for the extractor,
// the query engine and the HTTP API.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/thesavant42/countyroots/internal/models"
)

// Metrics holds every collector; register it once per registry
type Metrics struct {
	registry *prometheus.Registry

	JurisdictionFetches *prometheus.CounterVec
	RecordsExtracted    prometheus.Counter
	RowsSkipped         prometheus.Counter
	RecordsClassified   *prometheus.CounterVec
	CacheLookups        *prometheus.CounterVec
	QueryDuration       prometheus.Histogram
	StylesBuilt         prometheus.Counter
}

// New creates collectors and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		JurisdictionFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "countyroots_jurisdiction_fetches_total",
			Help: "Jurisdiction table fetches by outcome",
		}, []string{"outcome"}),
		RecordsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "countyroots_records_extracted_total",
			Help: "County records parsed from reference tables",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "countyroots_rows_skipped_total",
			Help: "Table rows that could not be parsed into a record",
		}),
		RecordsClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "countyroots_records_classified_total",
			Help: "Records by assigned origin category",
		}, []string{"category"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "countyroots_query_cache_lookups_total",
			Help: "Cumulative query cache lookups by result",
		}, []string{"result"}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "countyroots_query_duration_seconds",
			Help:    "Cumulative query latency",
			Buckets: prometheus.ExponentialBuckets(0.000005, 4, 10),
		}),
		StylesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "countyroots_styles_built_total",
			Help: "Map styles synthesized",
		}),
	}
	m.registry.MustRegister(
		m.JurisdictionFetches,
		m.RecordsExtracted,
		m.RowsSkipped,
		m.RecordsClassified,
		m.CacheLookups,
		m.QueryDuration,
		m.StylesBuilt,
	)
	return m
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CacheHit records a memoized query answer
func (m *Metrics) CacheHit() {
	m.CacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss records a query that scanned the dataset
func (m *Metrics) CacheMiss() {
	m.CacheLookups.WithLabelValues("miss").Inc()
}

// ObserveQuery records query latency
func (m *Metrics) ObserveQuery(d time.Duration) {
	m.QueryDuration.Observe(d.Seconds())
}

// ObserveJurisdiction records a settled jurisdiction fetch
func (m *Metrics) ObserveJurisdiction(err error, records, skipped int) {
	if err != nil {
		m.JurisdictionFetches.WithLabelValues("failed").Inc()
		return
	}
	m.JurisdictionFetches.WithLabelValues("ok").Inc()
	m.RecordsExtracted.Add(float64(records))
	m.RowsSkipped.Add(float64(skipped))
}

// ObserveClassified records a category summary
func (m *Metrics) ObserveClassified(summary map[models.Category]int) {
	for category, n := range summary {
		m.RecordsClassified.WithLabelValues(string(category)).Add(float64(n))
	}
}

// WriteTextfile dumps the registry in text exposition format, for the node
// exporter textfile collector after offline runs
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
