package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for a collection run.
type Metrics struct {
	Registry          *prometheus.Registry
	PagesTotal        *prometheus.CounterVec
	RequestsTotal     prometheus.Counter
	RequestDuration   prometheus.Histogram
	ItemsScrapedTotal prometheus.Counter
	ItemsSkippedTotal prometheus.Counter
	RetriesTotal      prometheus.Counter
	ErrorsTotal       *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_pages_total",
			Help: "Catalog pages processed, by outcome.",
		},
		[]string{"status"},
	)
	requests := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_requests_total",
			Help: "Total page request attempts issued.",
		},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_request_duration_seconds",
			Help:    "Wall time per page request attempt.",
			Buckets: prometheus.DefBuckets,
		},
	)
	itemsScraped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_items_scraped_total",
			Help: "Listings extracted successfully.",
		},
	)
	itemsSkipped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_items_skipped_total",
			Help: "Listings dropped due to extraction failures.",
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_retries_total",
			Help: "Page request attempts beyond the first.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Failed page request attempts by category.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(pages, requests, requestDuration, itemsScraped, itemsSkipped, retries, errorsTotal)

	return &Metrics{
		Registry:          registry,
		PagesTotal:        pages,
		RequestsTotal:     requests,
		RequestDuration:   requestDuration,
		ItemsScrapedTotal: itemsScraped,
		ItemsSkippedTotal: itemsSkipped,
		RetriesTotal:      retries,
		ErrorsTotal:       errorsTotal,
	}
}

// IncPage increments the pages counter for an outcome ("fetched" or "skipped").
func (m *Metrics) IncPage(status string) {
	if m == nil {
		return
	}
	m.PagesTotal.WithLabelValues(status).Inc()
}

// IncRequest increments the request attempts counter.
func (m *Metrics) IncRequest() {
	if m == nil {
		return
	}
	m.RequestsTotal.Inc()
}

// ObserveDuration records the wall time of one request attempt.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncItems increments the extracted listings counter.
func (m *Metrics) IncItems() {
	if m == nil {
		return
	}
	m.ItemsScrapedTotal.Inc()
}

// IncSkips increments the dropped listings counter.
func (m *Metrics) IncSkips() {
	if m == nil {
		return
	}
	m.ItemsSkippedTotal.Inc()
}

// IncRetries increments the retries counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// IncError increments the errors counter for a category label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
