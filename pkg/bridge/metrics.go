package bridge

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/loom/pkg/tree"
)

// MetricsConfig configures the Prometheus metrics of a Handler.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "loom").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer

	// Gatherer serves the metrics endpoint.
	// Default: prometheus.DefaultGatherer
	Gatherer prometheus.Gatherer
}

// MetricsOption configures MetricsConfig.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the registry metrics are registered with. A
// *prometheus.Registry is also used to serve the endpoint.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
		if g, ok := registry.(prometheus.Gatherer); ok {
			c.Gatherer = g
		}
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "loom",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
		Gatherer:  prometheus.DefaultGatherer,
	}
}

// Metrics holds the bridge's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	recordsTotal   *prometheus.CounterVec
	framesSent     prometheus.Counter
	frameBytes     prometheus.Counter
	eventsTotal    *prometheus.CounterVec
	activeSessions prometheus.Gauge
	renderDuration prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewMetrics registers the bridge collectors. Registering twice with the
// same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		recordsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "records_total",
			Help:        "Total number of change records sent to clients",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frames_sent_total",
			Help:        "Total number of websocket messages sent",
			ConstLabels: config.ConstLabels,
		}),

		frameBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frame_bytes_total",
			Help:        "Total number of bytes sent over websockets",
			ConstLabels: config.ConstLabels,
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of client events received",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of active websocket sessions",
			ConstLabels: config.ConstLabels,
		}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Page render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		gatherer: config.Gatherer,
	}
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Event status labels.
const (
	statusOK        = "ok"
	statusUnhandled = "unhandled"
	statusUnknown   = "unknown_node"
	statusInvalid   = "invalid"
	statusDropped   = "dropped"
	statusPanic     = "panic"
)

func (m *Metrics) recordBatch(changes []tree.Change) {
	if m == nil {
		return
	}
	for _, c := range changes {
		m.recordsTotal.WithLabelValues(c.Type.String()).Inc()
	}
}

func (m *Metrics) recordFrame(size int) {
	if m == nil {
		return
	}
	m.framesSent.Inc()
	m.frameBytes.Add(float64(size))
}

func (m *Metrics) recordEvent(status string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) recordRender(d time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(d.Seconds())
}

func (m *Metrics) sessionOpened() {
	if m != nil {
		m.activeSessions.Inc()
	}
}

func (m *Metrics) sessionClosed() {
	if m != nil {
		m.activeSessions.Dec()
	}
}
