package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_mcp"

// Metrics holds the Prometheus counters, histograms, and gauges for the server.
type Metrics struct {
	// Tool call metrics.
	ToolCalls    *prometheus.CounterVec   // labels: tool, outcome={success,error}
	ToolDuration *prometheus.HistogramVec // labels: tool

	// Location resolution metrics.
	LocationResolutions *prometheus.CounterVec // labels: outcome={resolved,coordinates,searched,ambiguous,not_found,invalid,failed}
	GeocodeCandidates   prometheus.Histogram

	// Upstream HTTP metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint, status={2xx code,timeout,network}
	UpstreamRetries  *prometheus.CounterVec   // labels: endpoint
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint

	// Lookup event publishing metrics.
	LookupEventsPublished prometheus.Counter
	LookupEventsDropped   prometheus.Counter
	LookupBatchSize       prometheus.Histogram
	PublisherRunning      prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "MCP tool invocations by tool and outcome.",
		}, []string{"tool", "outcome"}),
		ToolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "MCP tool handler duration in seconds, including upstream retries.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"tool"}),
		LocationResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_resolutions_total",
			Help:      "Location lookups by outcome.",
		}, []string{"outcome"}),
		GeocodeCandidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_candidates",
			Help:      "Number of candidates returned by the geocoding search.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10},
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream HTTP attempts by endpoint and status.",
		}, []string{"endpoint", "status"}),
		UpstreamRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_retries_total",
			Help:      "Upstream HTTP retries by endpoint.",
		}, []string{"endpoint"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of a single upstream HTTP attempt in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		LookupEventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_events_published_total",
			Help:      "Lookup events written to the event stream.",
		}),
		LookupEventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_events_dropped_total",
			Help:      "Lookup events dropped because the publish queue was full.",
		}),
		LookupBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_batch_size",
			Help:      "Number of lookup events per published batch.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		PublisherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "publisher_running",
			Help:      "1 when the lookup event publisher is active, 0 otherwise.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ToolCalls,
		m.ToolDuration,
		m.LocationResolutions,
		m.GeocodeCandidates,
		m.UpstreamRequests,
		m.UpstreamRetries,
		m.UpstreamDuration,
		m.LookupEventsPublished,
		m.LookupEventsDropped,
		m.LookupBatchSize,
		m.PublisherRunning,
	}
}
