// Package metrics exposes Prometheus collectors for the hub.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lorrc/hackathon-hub/internal/core/domain"
	"github.com/lorrc/hackathon-hub/internal/core/eventbus"
)

const namespace = "hackathon_hub"

// Metrics holds every collector registered by the service.
type Metrics struct {
	registry *prometheus.Registry

	eventsPublished *prometheus.CounterVec
	eventsDelivered *prometheus.CounterVec
	handlerFailures *prometheus.CounterVec
	transportErrors *prometheus.CounterVec
	documentWrites  prometheus.Histogram
	wsConnections   prometheus.Gauge
	wsDropped       *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

var _ eventbus.Recorder = (*Metrics)(nil)

// New registers the collectors on a fresh registry together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,
		eventsPublished: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bus",
			Name:      "events_published_total",
			Help:      "Events published in this process, by type.",
		}, []string{"type"}),
		eventsDelivered: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bus",
			Name:      "events_delivered_total",
			Help:      "Events delivered to local listeners, by type and source.",
		}, []string{"type", "source"}),
		handlerFailures: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bus",
			Name:      "handler_failures_total",
			Help:      "Listener errors and panics, by event type.",
		}, []string{"type"}),
		transportErrors: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bus",
			Name:      "transport_errors_total",
			Help:      "Transport failures, by operation.",
		}, []string{"op"}),
		documentWrites: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "document_write_seconds",
			Help:      "Time spent writing the domain document.",
			Buckets:   prometheus.DefBuckets,
		}),
		wsConnections: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "connections",
			Help:      "Open WebSocket connections.",
		}),
		wsDropped: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "dropped_messages_total",
			Help:      "Frames the hub dropped because its queue stayed full, by channel.",
		}, []string{"channel"}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		httpDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) EventPublished(eventType domain.EventType) {
	m.eventsPublished.WithLabelValues(string(eventType)).Inc()
}

func (m *Metrics) EventDelivered(eventType domain.EventType, source string) {
	m.eventsDelivered.WithLabelValues(string(eventType), source).Inc()
}

func (m *Metrics) HandlerFailed(eventType domain.EventType) {
	m.handlerFailures.WithLabelValues(string(eventType)).Inc()
}

func (m *Metrics) TransportFailed(op string) {
	m.transportErrors.WithLabelValues(op).Inc()
}

// ObserveDocumentWrite records one document replacement.
func (m *Metrics) ObserveDocumentWrite(d time.Duration) {
	m.documentWrites.Observe(d.Seconds())
}

// ConnectionOpened and ConnectionClosed track the WebSocket gauge.
func (m *Metrics) ConnectionOpened() { m.wsConnections.Inc() }
func (m *Metrics) ConnectionClosed() { m.wsConnections.Dec() }

func (m *Metrics) MessageDropped(channel string) { m.wsDropped.WithLabelValues(channel).Inc() }

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
