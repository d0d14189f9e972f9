package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	categorizationMatched  *prometheus.CounterVec
	categorizationDuration prometheus.Histogram
	batchesProcessed       *prometheus.CounterVec
	batchSize              prometheus.Histogram
	transactionsSaved      *prometheus.CounterVec
	categoriesChanged      *prometheus.CounterVec
	reportDuration         prometheus.Histogram
	uncategorizedTotal     prometheus.Gauge
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		categorizationMatched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "categorization_matched_total",
				Help: "Total number of categorization decisions by strategy",
			},
			[]string{"strategy"},
		),
		categorizationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "categorization_duration_milliseconds",
				Help:    "Single-transaction categorization duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		batchesProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "categorization_batches_total",
				Help: "Total number of transaction batches processed",
			},
			[]string{"status"},
		),
		batchSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "categorization_batch_size",
				Help:    "Number of transactions per processed batch",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		transactionsSaved: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_saved_total",
				Help: "Total number of transactions saved",
			},
			[]string{"mode"},
		),
		categoriesChanged: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "categories_changed_total",
				Help: "Total number of category create/update/deactivate operations",
			},
			[]string{"operation"},
		),
		reportDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "report_generation_duration_milliseconds",
				Help:    "Analytics report generation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		uncategorizedTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "uncategorized_transactions_total",
				Help: "Current number of transactions without a category",
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "categorization.matched":
		if strategy := tags["strategy"]; strategy != "" {
			m.categorizationMatched.WithLabelValues(strategy).Inc()
		}
	case "categorization.batch.processed":
		m.batchesProcessed.WithLabelValues("success").Inc()
	case "categorization.batch.failed":
		m.batchesProcessed.WithLabelValues("failed").Inc()
	case "transaction.saved":
		m.transactionsSaved.WithLabelValues("single").Inc()
	case "transaction.batch.saved":
		m.transactionsSaved.WithLabelValues("batch").Inc()
	case "category.saved":
		m.categoriesChanged.WithLabelValues("saved").Inc()
	case "category.deactivated":
		m.categoriesChanged.WithLabelValues("deactivated").Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "categorization":
		m.categorizationDuration.Observe(float64(duration.Milliseconds()))
	case "report.monthly":
		m.reportDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "categorization.batch.size":
		m.batchSize.Observe(value)
	case "transactions.uncategorized":
		m.uncategorizedTotal.Set(value)
	}
}
