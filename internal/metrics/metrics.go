// Package metrics exposes Prometheus instrumentation for FAZAN.CLOUD.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LoginsTotal counts login attempts by outcome (success, failed, banned).
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fazan",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// RegistrationsTotal counts successful registrations.
	RegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fazan",
			Subsystem: "auth",
			Name:      "registrations_total",
			Help:      "Successful user registrations.",
		},
	)

	// HTTPRequestsTotal counts HTTP requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fazan",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fazan",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AIRequestsTotal counts Gemini gateway calls by operation and outcome.
	AIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fazan",
			Subsystem: "ai",
			Name:      "requests_total",
			Help:      "AI gateway calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	// CommentsTotal counts posted comments by result (posted, rejected).
	CommentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fazan",
			Subsystem: "comments",
			Name:      "posted_total",
			Help:      "Comment submissions by result.",
		},
		[]string{"result"},
	)
)

// Handler returns the HTTP handler for the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
