package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics. Each Server gets its
// own registry so tests can build as many servers as they like.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "user_cache_lookups_total",
			Help: "Cached user listing lookups by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.cacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeCache(hit bool) {
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// MetricsMiddleware records request counts and latencies labelled with the
// matched chi route pattern rather than the raw path.
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
