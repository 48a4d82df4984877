package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// serverMetrics holds the Prometheus instruments for one server. A nil
// *serverMetrics is valid and records nothing, so call sites need no
// enabled checks.
type serverMetrics struct {
	activeSessions   prometheus.Gauge
	sessionsTotal    prometheus.Counter
	resumesTotal     prometheus.Counter
	restoresTotal    prometheus.Counter
	disconnectsTotal prometheus.Counter
	eventsTotal      *prometheus.CounterVec
	eventErrors      *prometheus.CounterVec
	renderDuration   prometheus.Histogram
	patchesSent      prometheus.Counter
	bytesSent        prometheus.Counter
	bytesReceived    prometheus.Counter
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	factory := promauto.With(reg)
	return &serverMetrics{
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "graft",
			Subsystem: "server",
			Name:      "active_sessions",
			Help:      "Number of sessions currently held in memory.",
		}),
		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "graft",
			Subsystem: "server",
			Name:      "sessions_total",
			Help:      "Total number of sessions created.",
		}),
		resumesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "graft",
			Subsystem: "server",
			Name:      "resumes_total",
			Help:      "Total number of WebSocket reconnects onto a live session.",
		}),
		restoresTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "graft",
			Subsystem: "server",
			Name:      "restores_total",
			Help:      "Total number of sessions revived from the persistence store.",
		}),
		disconnectsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "graft",
			Subsystem: "server",
			Name:      "disconnects_total",
			Help:      "Total number of WebSocket disconnects.",
		}),
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graft",
			Subsystem: "server",
			Name:      "events_total",
			Help:      "Total number of client events dispatched.",
		}, []string{"type"}),
		eventErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graft",
			Subsystem: "server",
			Name:      "event_errors_total",
			Help:      "Total number of client events that failed to dispatch.",
		}, []string{"type", "reason"}),
		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "graft",
			Subsystem: "server",
			Name:      "render_duration_seconds",
			Help:      "Duration of render passes.",
			// 100µs up to ~400ms; renders past that are pathological.
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "graft",
			Subsystem: "server",
			Name:      "patches_sent_total",
			Help:      "Total number of patches sent to clients.",
		}),
		bytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "graft",
			Subsystem: "server",
			Name:      "sent_bytes_total",
			Help:      "Total bytes written to WebSocket connections.",
		}),
		bytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "graft",
			Subsystem: "server",
			Name:      "received_bytes_total",
			Help:      "Total bytes read from WebSocket connections.",
		}),
	}
}

func (m *serverMetrics) sessionStarted() {
	if m == nil {
		return
	}
	m.sessionsTotal.Inc()
	m.activeSessions.Inc()
}

func (m *serverMetrics) sessionEnded() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

func (m *serverMetrics) sessionResumed() {
	if m == nil {
		return
	}
	m.resumesTotal.Inc()
}

func (m *serverMetrics) sessionRestored() {
	if m == nil {
		return
	}
	m.restoresTotal.Inc()
}

func (m *serverMetrics) disconnected() {
	if m == nil {
		return
	}
	m.disconnectsTotal.Inc()
}

func (m *serverMetrics) eventReceived(eventType string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(eventType).Inc()
}

func (m *serverMetrics) eventFailed(eventType, reason string) {
	if m == nil {
		return
	}
	m.eventErrors.WithLabelValues(eventType, reason).Inc()
}

func (m *serverMetrics) observeRender(d time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(d.Seconds())
}

func (m *serverMetrics) patchesFlushed(count int) {
	if m == nil {
		return
	}
	m.patchesSent.Add(float64(count))
}

func (m *serverMetrics) wroteBytes(n int) {
	if m == nil {
		return
	}
	m.bytesSent.Add(float64(n))
}

func (m *serverMetrics) readBytes(n int) {
	if m == nil {
		return
	}
	m.bytesReceived.Add(float64(n))
}
