package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/odyssey-erp/admin-console/internal/routes"
	"github.com/odyssey-erp/admin-console/internal/session"
)

// Metrics collects the console's Prometheus metrics.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	transitions     *prometheus.CounterVec
	guardOutcomes   *prometheus.CounterVec
	logoutNotices   *prometheus.CounterVec
}

// NewMetrics initialises the registry and the console metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "console_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_session_transitions_total",
		Help: "Session store state changes.",
	}, []string{"from", "to"})
	guard := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_route_guard_outcomes_total",
		Help: "Route guard decisions by outcome.",
	}, []string{"outcome"})
	notices := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_logout_notifications_total",
		Help: "Backend logout notifications by delivery path and result.",
	}, []string{"path", "result"})
	registry.MustRegister(requests, duration, transitions, guard, notices)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		transitions:     transitions,
		guardOutcomes:   guard,
		logoutNotices:   notices,
	}
}

// Handler returns the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveTransition is a session.Listener counting state changes.
func (m *Metrics) ObserveTransition(prev, next session.Snapshot) {
	if m == nil || prev.State == next.State {
		return
	}
	m.transitions.WithLabelValues(prev.State.String(), next.State.String()).Inc()
}

// ObserveGuard counts one guard decision.
func (m *Metrics) ObserveGuard(outcome routes.Outcome) {
	if m == nil {
		return
	}
	m.guardOutcomes.WithLabelValues(outcome.String()).Inc()
}

// ObserveLogoutNotice counts one logout notification attempt. path is
// "inline" or "queued".
func (m *Metrics) ObserveLogoutNotice(path string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.logoutNotices.WithLabelValues(path, result).Inc()
}

// TrackBrowsers exports the number of live browser sessions.
func (m *Metrics) TrackBrowsers(count func() int) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "console_live_browser_sessions",
		Help: "Browser sessions held in memory.",
	}, func() float64 { return float64(count()) }))
}

// Registerer exposes the registry for custom metrics.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
