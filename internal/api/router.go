package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/arena/internal/api/handlers"
	"github.com/wonny/arena/internal/metrics"
	"github.com/wonny/arena/pkg/logger"
	"github.com/wonny/arena/pkg/redis"
)

// RouterOptions configures optional router features
type RouterOptions struct {
	// RateLimiter enables the per-client limit when its Redis client is enabled
	RateLimiter        *redis.RateLimiter
	RateLimitPerMinute int
	MetricsEnabled     bool
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(dashboard *handlers.DashboardHandler, log *logger.Logger, opts RouterOptions) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	if opts.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler()).Methods("GET")
	}

	// Pages and JSON API share the per-client rate limit; /health and /metrics stay outside it
	app := r.NewRoute().Subrouter()

	// Pages
	app.HandleFunc("/", dashboard.Home).Methods("GET")
	app.HandleFunc("/performance", dashboard.PerformancePage).Methods("GET")
	app.HandleFunc("/leaderboard", dashboard.LeaderboardPage).Methods("GET")
	app.HandleFunc("/chart.svg", dashboard.ChartSVG).Methods("GET")

	// JSON API
	api := app.PathPrefix("/api").Subrouter()
	api.HandleFunc("/performance", dashboard.GetPerformance).Methods("GET")
	api.HandleFunc("/leaderboard", dashboard.GetLeaderboard).Methods("GET")
	api.HandleFunc("/chart", dashboard.GetChart).Methods("GET")
	api.HandleFunc("/invocations", dashboard.GetInvocations).Methods("GET")

	// Apply middleware (outermost first)
	r.Use(requestIDMiddleware(log))
	r.Use(recoveryMiddleware(log))
	r.Use(loggingMiddleware(log))
	if opts.RateLimiter != nil && opts.RateLimitPerMinute > 0 {
		app.Use(rateLimitMiddleware(opts.RateLimiter, opts.RateLimitPerMinute, log))
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "arena-dashboard",
	})
}
