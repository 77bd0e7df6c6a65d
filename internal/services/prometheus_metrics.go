package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	cacheLookups      *prometheus.CounterVec
	detectionRuns     *prometheus.CounterVec
	detectionDuration prometheus.Histogram
	clustersRejected  *prometheus.CounterVec
	patternsDetected  prometheus.Gauge
	httpErrorsTotal   *prometheus.CounterVec
	seededTotal       prometheus.Counter
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pattern_cache_lookups_total",
				Help: "Total number of pattern cache lookups by result",
			},
			[]string{"result"},
		),
		detectionRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recurring_detection_runs_total",
				Help: "Total number of recurring detection runs by result",
			},
			[]string{"result"},
		),
		detectionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "recurring_detection_duration_milliseconds",
				Help:    "Recurring detection run duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		clustersRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recurring_detection_clusters_rejected_total",
				Help: "Candidate clusters rejected during detection by reason",
			},
			[]string{"reason"},
		),
		patternsDetected: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "recurring_patterns_detected",
				Help: "Number of patterns returned by the most recent detection run",
			},
		),
		httpErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_errors_total",
				Help: "Total number of HTTP error responses by code",
			},
			[]string{"code"},
		),
		seededTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "seed_transactions_total",
				Help: "Total number of transactions created via the dev seeding endpoint",
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "pattern_cache.lookup":
		if result := tags["result"]; result != "" {
			m.cacheLookups.WithLabelValues(result).Inc()
		}
	case "recurring_detection.runs":
		if result := tags["result"]; result != "" {
			m.detectionRuns.WithLabelValues(result).Inc()
		}
	case "recurring_detection.clusters_rejected":
		if reason := tags["reason"]; reason != "" {
			m.clustersRejected.WithLabelValues(reason).Inc()
		}
	case "http.error":
		if code := tags["code"]; code != "" {
			m.httpErrorsTotal.WithLabelValues(code).Inc()
		}
	case "seed.transactions":
		m.seededTotal.Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "recurring_detection.duration":
		m.detectionDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "recurring_detection.patterns":
		m.patternsDetected.Set(value)
	}
}
