package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/frontpage/pkg/content"
)

// Metrics holds the HTTP collectors.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	renderErrors *prometheus.CounterVec
}

// NewMetrics registers the HTTP and content collectors with reg.
func NewMetrics(reg prometheus.Registerer, store *content.Store) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontpage",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "frontpage",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontpage",
			Subsystem: "http",
			Name:      "render_errors_total",
			Help:      "Pages that failed to build or render.",
		}, []string{"route"}),
	}

	if store != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "frontpage",
			Subsystem: "content",
			Name:      "entries",
			Help:      "Published entries in the current content snapshot.",
		}, func() float64 { return float64(store.Count()) })
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "frontpage",
			Subsystem: "content",
			Name:      "loaded_timestamp_seconds",
			Help:      "Unix time of the last successful content reload.",
		}, func() float64 {
			t := store.LoadedAt()
			if t.IsZero() {
				return 0
			}
			return float64(t.Unix())
		})
	}
	return m
}

// Middleware records one observation per request, labelled with the chi
// route pattern so URL parameters do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
