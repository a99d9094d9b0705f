package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts handled requests.
	// Labels: route (mux pattern), code
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qrsona",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by route and status code",
	}, []string{"route", "code"})

	// requestDuration measures handler latency.
	// Labels: route
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "qrsona",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

// Metrics records request counts and latency per route. It must wrap the
// ServeMux directly so the matched pattern is visible after serving.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(route, strconv.Itoa(rec.code())).Inc()
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
