package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// sampling pipeline.
type Metrics struct {
	MessagesEnqueued prometheus.Counter
	MessagesAnalyzed prometheus.Counter
	ParseErrors      prometheus.Counter
	ReportsEmitted   prometheus.Counter
	QueueDepth       prometheus.Gauge
	AnalyzerRunning  prometheus.Gauge
	AnalyzeDuration  prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.MessagesEnqueued,
		m.MessagesAnalyzed,
		m.ParseErrors,
		m.ReportsEmitted,
		m.QueueDepth,
		m.AnalyzerRunning,
		m.AnalyzeDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics left unregistered to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		MessagesEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sampler",
			Name:      "messages_enqueued_total",
			Help:      "Total raw messages accepted into the queue.",
		}),
		MessagesAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sampler",
			Name:      "messages_analyzed_total",
			Help:      "Total messages parsed and stored as enriched records.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sampler",
			Name:      "parse_errors_total",
			Help:      "Total messages dropped due to parse or enrichment failure.",
		}),
		ReportsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sampler",
			Name:      "reports_emitted_total",
			Help:      "Total aggregate reports written to the sink.",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sampler",
			Name:      "queue_depth",
			Help:      "Raw messages currently waiting for analysis.",
		}),
		AnalyzerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sampler",
			Name:      "analyzer_running",
			Help:      "1 while the analyzer loop is active, 0 after shutdown.",
		}),
		AnalyzeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sampler",
			Name:      "analyze_duration_seconds",
			Help:      "Duration of a single dequeue-parse-store cycle.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}
}
