package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the swell service.
type Metrics struct {
	ReportsGenerated  *prometheus.CounterVec // labels: resolution={spectral,discrete}
	ReportErrors      *prometheus.CounterVec // labels: stage={lookup,fetch,transform}
	TransformDuration prometheus.Histogram
	PeaksPerReport    prometheus.Histogram
	LastObservation   *prometheus.GaugeVec // labels: station; unix seconds of the newest observation

	// NDBC feed metrics.
	FeedRequests    *prometheus.CounterVec   // labels: kind={density,direction}, outcome={success,error}
	FeedDuration    *prometheus.HistogramVec // labels: kind
	FeedCache       *prometheus.CounterVec   // labels: kind, result={hit,miss}
	PublishFailures prometheus.Counter
	PublishEnabled  prometheus.Gauge

	// Dashboard metrics.
	WebsocketClients prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)

	prometheus.MustRegister(
		m.ReportsGenerated,
		m.ReportErrors,
		m.TransformDuration,
		m.PeaksPerReport,
		m.LastObservation,
		m.FeedRequests,
		m.FeedDuration,
		m.FeedCache,
		m.PublishFailures,
		m.PublishEnabled,
		m.WebsocketClients,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}

	return &Metrics{
		ReportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buoy_swell",
			Name:      "reports_generated_total",
			Help:      help("Swell reports produced, by peak resolution."),
		}, []string{"resolution"}),
		ReportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buoy_swell",
			Name:      "report_errors_total",
			Help:      help("Failed report attempts by pipeline stage."),
		}, []string{"stage"}),
		TransformDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "buoy_swell",
			Name:      "report_duration_seconds",
			Help:      help("Duration of a complete fetch-parse-summarize cycle."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		PeaksPerReport: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "buoy_swell",
			Name:      "peaks_per_report",
			Help:      help("Number of swell peaks kept per report."),
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 8},
		}),
		LastObservation: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "buoy_swell",
			Name:      "last_observation_timestamp_seconds",
			Help:      help("Unix time of the newest observation seen per station."),
		}, []string{"station"}),
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buoy_swell",
			Name:      "ndbc_requests_total",
			Help:      help("NDBC realtime feed requests by table kind and outcome."),
		}, []string{"kind", "outcome"}),
		FeedDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "buoy_swell",
			Name:      "ndbc_request_duration_seconds",
			Help:      help("NDBC realtime feed request duration in seconds."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"kind"}),
		FeedCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buoy_swell",
			Name:      "ndbc_cache_total",
			Help:      help("NDBC table cache lookups by kind and result."),
		}, []string{"kind", "result"}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "buoy_swell",
			Name:      "publish_failures_total",
			Help:      help("Reports that could not be published to Kafka."),
		}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "buoy_swell",
			Name:      "publish_enabled",
			Help:      help("1 when Kafka report publishing is enabled, 0 otherwise."),
		}),
		WebsocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "buoy_swell",
			Name:      "websocket_clients",
			Help:      help("Dashboard websocket connections currently open."),
		}),
	}
}
