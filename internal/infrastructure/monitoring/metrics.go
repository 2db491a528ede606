package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Span outcomes.
const (
	OutcomeReported   = "reported"
	OutcomeUnsampled  = "unsampled"
	OutcomeEncodeFail = "encode_error"
)

// Collector send statuses.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusDropped = "dropped"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Recorder metrics
	SpansStarted    prometheus.Counter
	SpansFinished   *prometheus.CounterVec
	MissingContext  *prometheus.CounterVec
	MalformedHeader *prometheus.CounterVec

	// Codec metrics
	EncodingErrors prometheus.Counter
	SpanBytes      prometheus.Histogram

	// Collector metrics
	QueueDepth   prometheus.Gauge
	Sends        *prometheus.CounterVec
	SendDuration prometheus.Histogram

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new metrics collector registered with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SpansStarted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ziptrace_spans_started_total",
				Help: "Total number of spans started",
			},
		),
		SpansFinished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ziptrace_spans_finished_total",
				Help: "Total number of spans finished, by outcome",
			},
			[]string{"outcome"},
		),
		MissingContext: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ziptrace_missing_context_total",
				Help: "Recorder calls made without an established trace context",
			},
			[]string{"operation"},
		),
		MalformedHeader: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ziptrace_malformed_headers_total",
				Help: "Inbound propagation headers that could not be parsed",
			},
			[]string{"header"},
		),

		EncodingErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ziptrace_encoding_errors_total",
				Help: "Spans that could not be encoded",
			},
		),
		SpanBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ziptrace_span_bytes",
				Help:    "Encoded span size in bytes",
				Buckets: []float64{64, 128, 256, 512, 1024, 4096, 16384},
			},
		),

		QueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ziptrace_collector_queue_depth",
				Help: "Encoded spans waiting for delivery",
			},
		),
		Sends: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ziptrace_collector_sends_total",
				Help: "Span deliveries to the sink, by status",
			},
			[]string{"status"},
		),
		SendDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ziptrace_collector_send_duration_seconds",
				Help:    "Sink delivery duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ziptrace_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ziptrace_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
	}
}

// IncSpansStarted counts a recorder start.
func (m *Metrics) IncSpansStarted() {
	if m == nil {
		return
	}
	m.SpansStarted.Inc()
}

// RecordSpanFinished counts a finished span by outcome.
func (m *Metrics) RecordSpanFinished(outcome string) {
	if m == nil {
		return
	}
	m.SpansFinished.WithLabelValues(outcome).Inc()
}

// IncMissingContext counts a recorder call that found no context.
func (m *Metrics) IncMissingContext(operation string) {
	if m == nil {
		return
	}
	m.MissingContext.WithLabelValues(operation).Inc()
}

// IncMalformedHeader counts an unparsable propagation header.
func (m *Metrics) IncMalformedHeader(header string) {
	if m == nil {
		return
	}
	m.MalformedHeader.WithLabelValues(header).Inc()
}

// IncEncodingErrors counts a span the codec rejected.
func (m *Metrics) IncEncodingErrors() {
	if m == nil {
		return
	}
	m.EncodingErrors.Inc()
}

// ObserveSpanBytes records an encoded span size.
func (m *Metrics) ObserveSpanBytes(n int) {
	if m == nil {
		return
	}
	m.SpanBytes.Observe(float64(n))
}

// SetQueueDepth sets the number of spans waiting for delivery.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}

// RecordSend records one sink delivery attempt.
func (m *Metrics) RecordSend(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.Sends.WithLabelValues(status).Inc()
	if status != StatusDropped {
		m.SendDuration.Observe(duration.Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
