package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the live-session Prometheus collectors.
type Metrics struct {
	activeSessions   prometheus.Gauge
	sessionsTotal    prometheus.Counter
	rejectedSessions prometheus.Counter
	activeViews      prometheus.Gauge
	eventsTotal      *prometheus.CounterVec
	eventsDropped    *prometheus.CounterVec
	eventDuration    prometheus.Histogram
	patchesSent      prometheus.Counter
	directionChanges *prometheus.CounterVec
	handlerPanics    prometheus.Counter
}

// NewMetrics registers the session collectors with reg. A nil reg uses a
// private registry, which keeps tests independent of each other.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	const ns, sub = "frontpage", "session"

	return &Metrics{
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "active",
			Help:      "Number of open live sessions",
		}),
		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "created_total",
			Help:      "Total number of live sessions created",
		}),
		rejectedSessions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "rejected_total",
			Help:      "Connections refused because the session limit was reached",
		}),
		activeViews: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "views_active",
			Help:      "Number of mounted scroll views across sessions",
		}),
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "events_total",
			Help:      "Client events processed, by type",
		}, []string{"type"}),
		eventsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "events_dropped_total",
			Help:      "Client events dropped, by reason",
		}, []string{"reason"}),
		eventDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "event_duration_seconds",
			Help:      "Time spent processing one client event",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "patches_sent_total",
			Help:      "DOM patches sent to clients",
		}),
		directionChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "scroll_direction_changes_total",
			Help:      "Scroll direction flips, by new direction",
		}, []string{"direction"}),
		handlerPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "handler_panics_total",
			Help:      "Event handlers that panicked",
		}),
	}
}

// Drop reasons.
const (
	dropQueueFull  = "queue_full"
	dropNotMounted = "not_mounted"
	dropNoHandler  = "no_handler"
	dropDecode     = "decode_error"
)
