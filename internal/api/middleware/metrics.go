package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcoot/charvault/internal/middleware"
	"github.com/mcoot/charvault/internal/services/auth"
)

// Auth rejection reasons, used as metric label values
const (
	rejectMissing          = "missing"
	rejectMalformed        = "malformed"
	rejectExpired          = "expired"
	rejectInvalidSignature = "invalid_signature"
)

// Metrics holds the HTTP collectors. A nil *Metrics records nothing.
type Metrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	authRejects *prometheus.CounterVec
}

// NewMetrics creates and registers the HTTP collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "charvault",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "charvault",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		authRejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "charvault",
			Subsystem: "auth",
			Name:      "rejections_total",
			Help:      "Requests rejected by the auth gate, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.requests, m.duration, m.authRejects)
	return m
}

// Middleware records request count and latency per route template
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := middleware.NewResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		route := routeTemplate(r)
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(wrapped.Status())).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) authRejected(reason string) {
	if m == nil {
		return
	}
	m.authRejects.WithLabelValues(reason).Inc()
}

// routeTemplate keeps label cardinality bounded by using the matched path
// template instead of the raw URL
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return rejectExpired
	case errors.Is(err, auth.ErrTokenInvalidSignature):
		return rejectInvalidSignature
	default:
		return rejectMalformed
	}
}
