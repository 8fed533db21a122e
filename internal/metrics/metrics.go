// Package metrics defines the dashboard's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "arena"

// Backend fetch results
const (
	ResultOK       = "ok"
	ResultCacheHit = "cache_hit"
	ResultStatus   = "bad_status"
	ResultError    = "error"
)

// Registry holds every arena collector plus the Go runtime collectors
var Registry = prometheus.NewRegistry()

// Backend counter vectors
var (
	BackendRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of backend fetches by endpoint and result",
	}, []string{"endpoint", "result"})
)

// Backend histogram vectors
var (
	BackendRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Backend fetch latency by endpoint",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// HTTP server vectors
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of dashboard requests by route and status code",
	}, []string{"route", "code"})

	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_rate_limited_total",
		Help:      "Requests rejected by the per-client rate limit",
	})
)

// Leaderboard gauge vectors
var (
	LeaderboardModels = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "leaderboard_models",
		Help:      "Number of ranked models in the last computed leaderboard by window",
	}, []string{"window"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		BackendRequestsTotal,
		BackendRequestDuration,
		HTTPRequestsTotal,
		RateLimitedTotal,
		LeaderboardModels,
	)
}

// RecordBackendRequest records one backend fetch.
// result should be one of the Result* constants.
func RecordBackendRequest(endpoint, result string, elapsed time.Duration) {
	BackendRequestsTotal.WithLabelValues(endpoint, result).Inc()
	if result != ResultCacheHit {
		BackendRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	}
}

// RecordHTTPRequest records a served dashboard request
func RecordHTTPRequest(route string, code int) {
	HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// RecordRateLimited records a rejected request
func RecordRateLimited() {
	RateLimitedTotal.Inc()
}

// SetLeaderboardModels updates the ranked model count for a window
func SetLeaderboardModels(window string, n int) {
	LeaderboardModels.WithLabelValues(window).Set(float64(n))
}

// Handler exposes Registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
