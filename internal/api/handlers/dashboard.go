package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wonny/arena/internal/chart"
	"github.com/wonny/arena/internal/contracts"
	"github.com/wonny/arena/internal/invocations"
	"github.com/wonny/arena/internal/leaderboard"
	"github.com/wonny/arena/internal/metrics"
	"github.com/wonny/arena/internal/web"
	"github.com/wonny/arena/pkg/config"
	"github.com/wonny/arena/pkg/logger"
)

// Source provides the backend feeds
type Source interface {
	Performance(ctx context.Context) (*contracts.PerformanceFeed, error)
	Invocations(ctx context.Context, limit int) (*contracts.InvocationFeed, error)
}

// DashboardHandler serves the dashboard pages and their JSON equivalents
// ⭐ SSOT: 대시보드 핸들러는 이 구조체에서만
type DashboardHandler struct {
	source           Source
	renderer         *web.Renderer
	logger           *logger.Logger
	defaultWindow    contracts.Window
	defaultSort      contracts.SortKey
	invocationsLimit int
	now              func() time.Time
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(source Source, renderer *web.Renderer, cfg config.DashboardConfig, log *logger.Logger) (*DashboardHandler, error) {
	window, err := contracts.ParseWindow(cfg.DefaultWindow)
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_WINDOW: %w", err)
	}
	sortKey, err := contracts.ParseSortKey(cfg.DefaultSort)
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_SORT: %w", err)
	}

	return &DashboardHandler{
		source:           source,
		renderer:         renderer,
		logger:           log,
		defaultWindow:    window,
		defaultSort:      sortKey,
		invocationsLimit: invocations.ClampLimit(cfg.InvocationsLimit),
		now:              time.Now,
	}, nil
}

// LeaderboardResponse is the /api/leaderboard payload
type LeaderboardResponse struct {
	Window      contracts.Window          `json:"window"`
	Sort        contracts.SortKey         `json:"sort"`
	Count       int                       `json:"count"`
	Rows        []contracts.AggregatedRow `json:"rows"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// PerformanceResponse is the /api/performance payload
type PerformanceResponse struct {
	LastUpdated string                          `json:"last_updated"`
	Count       int                             `json:"count"`
	Snapshots   []contracts.PerformanceSnapshot `json:"snapshots"`
}

// InvocationsResponse is the /api/invocations payload
type InvocationsResponse struct {
	Count   int                 `json:"count"`
	Entries []invocations.Entry `json:"entries"`
}

// Home renders the landing page
// GET /
func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, web.PageHome, web.HomeView{Title: "AI Trading Agent"})
}

// PerformancePage renders the chart and the recent invocations
// GET /performance
func (h *DashboardHandler) PerformancePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.logger)

	perf, err := h.source.Performance(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to fetch performance feed")
		h.renderPage(w, r, http.StatusBadGateway, web.PagePerformance, web.PerformanceView{Error: web.MsgLoadFailed})
		return
	}

	inv, err := h.source.Invocations(ctx, h.invocationsLimit)
	if err != nil {
		log.WithError(err).Error("Failed to fetch invocations feed")
		h.renderPage(w, r, http.StatusBadGateway, web.PagePerformance, web.PerformanceView{Error: web.MsgLoadFailed})
		return
	}

	h.renderPage(w, r, http.StatusOK, web.PagePerformance, web.PerformanceView{
		LastUpdated: perf.LastUpdated,
		HasChart:    chart.Bucket(perf.Data).Drawable(),
		Entries:     invocations.Normalize(inv),
	})
}

// LeaderboardPage renders the ranked table
// GET /leaderboard?window=7d&sort=pnlPercent
func (h *DashboardHandler) LeaderboardPage(w http.ResponseWriter, r *http.Request) {
	window, sortKey, err := h.leaderboardParams(r)
	if err != nil {
		// selectors and the retry link fall back to the defaults
		h.renderPage(w, r, http.StatusBadRequest, web.PageLeaderboard, web.LeaderboardView{
			Error:    err.Error() + ".",
			Window:   h.defaultWindow,
			Sort:     h.defaultSort,
			Windows:  contracts.Windows,
			SortKeys: contracts.SortKeys,
		})
		return
	}

	view := web.LeaderboardView{
		Window:   window,
		Sort:     sortKey,
		Windows:  contracts.Windows,
		SortKeys: contracts.SortKeys,
	}

	rows, err := h.leaderboard(r.Context(), window, sortKey)
	if err != nil {
		view.Error = web.MsgLoadFailed
		h.renderPage(w, r, http.StatusBadGateway, web.PageLeaderboard, view)
		return
	}

	view.Rows = rows
	h.renderPage(w, r, http.StatusOK, web.PageLeaderboard, view)
}

// ChartSVG renders the bucketed chart as SVG
// GET /chart.svg
func (h *DashboardHandler) ChartSVG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	perf, err := h.source.Performance(ctx)
	if err != nil {
		logger.FromContext(ctx, h.logger).WithError(err).Error("Failed to fetch performance feed")
		respondError(w, http.StatusBadGateway, web.MsgLoadFailed)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderSVG(&buf, chart.Bucket(perf.Data)); err != nil {
		if errors.Is(err, chart.ErrNotEnoughPoints) {
			respondError(w, http.StatusUnprocessableEntity, "Not enough data to render chart")
			return
		}
		logger.FromContext(ctx, h.logger).WithError(err).Error("Failed to render chart")
		respondError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// GetPerformance returns the validated snapshots
// GET /api/performance
func (h *DashboardHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	perf, err := h.source.Performance(ctx)
	if err != nil {
		logger.FromContext(ctx, h.logger).WithError(err).Error("Failed to fetch performance feed")
		respondError(w, http.StatusBadGateway, web.MsgLoadFailed)
		return
	}

	snapshots := make([]contracts.PerformanceSnapshot, 0, len(perf.Data))
	for _, rec := range perf.Data {
		if s, ok := rec.Snapshot(); ok {
			snapshots = append(snapshots, s)
		}
	}

	respondJSON(w, http.StatusOK, PerformanceResponse{
		LastUpdated: perf.LastUpdated,
		Count:       len(snapshots),
		Snapshots:   snapshots,
	})
}

// GetLeaderboard returns the ranked rows
// GET /api/leaderboard?window=7d&sort=pnlPercent
func (h *DashboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	window, sortKey, err := h.leaderboardParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.leaderboard(r.Context(), window, sortKey)
	if err != nil {
		respondError(w, http.StatusBadGateway, web.MsgLoadFailed)
		return
	}

	respondJSON(w, http.StatusOK, LeaderboardResponse{
		Window:      window,
		Sort:        sortKey,
		Count:       len(rows),
		Rows:        rows,
		GeneratedAt: h.now().UTC(),
	})
}

// GetChart returns the bucketed chart rows
// GET /api/chart
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	perf, err := h.source.Performance(ctx)
	if err != nil {
		logger.FromContext(ctx, h.logger).WithError(err).Error("Failed to fetch performance feed")
		respondError(w, http.StatusBadGateway, web.MsgLoadFailed)
		return
	}

	respondJSON(w, http.StatusOK, chart.Bucket(perf.Data))
}

// GetInvocations returns recent invocations
// GET /api/invocations?limit=30
func (h *DashboardHandler) GetInvocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := invocations.ParseLimit(r.URL.Query().Get("limit"), h.invocationsLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	feed, err := h.source.Invocations(ctx, limit)
	if err != nil {
		logger.FromContext(ctx, h.logger).WithError(err).Error("Failed to fetch invocations feed")
		respondError(w, http.StatusBadGateway, web.MsgLoadFailed)
		return
	}

	entries := invocations.Normalize(feed)
	respondJSON(w, http.StatusOK, InvocationsResponse{
		Count:   len(entries),
		Entries: entries,
	})
}

func (h *DashboardHandler) leaderboardParams(r *http.Request) (contracts.Window, contracts.SortKey, error) {
	q := r.URL.Query()

	window := h.defaultWindow
	if s := q.Get("window"); s != "" {
		w, err := contracts.ParseWindow(s)
		if err != nil {
			return "", 0, err
		}
		window = w
	}

	sortKey := h.defaultSort
	if s := q.Get("sort"); s != "" {
		k, err := contracts.ParseSortKey(s)
		if err != nil {
			return "", 0, err
		}
		sortKey = k
	}

	return window, sortKey, nil
}

// leaderboard fetches the feed and aggregates it; aggregation itself never fails
func (h *DashboardHandler) leaderboard(ctx context.Context, window contracts.Window, sortKey contracts.SortKey) ([]contracts.AggregatedRow, error) {
	perf, err := h.source.Performance(ctx)
	if err != nil {
		logger.FromContext(ctx, h.logger).WithError(err).Error("Failed to fetch performance feed")
		return nil, err
	}

	rows := leaderboard.AggregateAt(h.now(), perf.Data, window, sortKey)
	metrics.SetLeaderboardModels(string(window), len(rows))
	return rows, nil
}

func (h *DashboardHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data interface{}) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page, data); err != nil {
		logger.FromContext(r.Context(), h.logger).WithError(err).Error("Failed to render page")
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
