package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// prediction and notification pipelines.
type Metrics struct {
	ScansTotal       prometheus.Counter
	ScanAreaErrors   prometheus.Counter
	ScansSkipped     prometheus.Counter
	ScanDuration     prometheus.Histogram
	DisastersCreated prometheus.Counter

	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter

	Subscribers prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ScansTotal, m.ScanAreaErrors, m.ScansSkipped, m.ScanDuration,
		m.DisastersCreated, m.NotificationsSent, m.NotificationsFailed,
		m.Subscribers,
	)
	return m
}

// NewUnregisteredMetrics creates metrics without touching the default
// registry, for tests that build several pipelines in one process.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "scans_total",
			Help:      "Total prediction scans started.",
		}),
		ScanAreaErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "scan_area_errors_total",
			Help:      "Monitored areas skipped due to provider or storage failures.",
		}),
		ScansSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "scans_skipped_total",
			Help:      "Timer firings skipped because a scan was still running.",
		}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "prism",
			Name:      "scan_duration_seconds",
			Help:      "Duration of a complete scan over all monitored areas.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		DisastersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "disasters_created_total",
			Help:      "Disasters created by the prediction scheduler.",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "notifications_sent_total",
			Help:      "Per-recipient notification sends that succeeded.",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "prism",
			Name:      "notifications_failed_total",
			Help:      "Per-recipient notification sends that failed.",
		}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "prism",
			Name:      "live_subscribers",
			Help:      "Currently connected live-subscription clients.",
		}),
	}
}
