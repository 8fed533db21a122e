package web

import (
	"github.com/wonny/arena/internal/contracts"
	"github.com/wonny/arena/internal/invocations"
)

// Page names
const (
	PageHome        = "home.html"
	PagePerformance = "performance.html"
	PageLeaderboard = "leaderboard.html"
)

// Generic messages shown when the backend cannot be reached
const (
	MsgLoadFailed = "Failed to load performance data."
	MsgNoData     = "No data in selected window."
)

// HomeView is the landing page
type HomeView struct {
	Title string
}

// PerformanceView is the chart + recent invocations page
type PerformanceView struct {
	Error       string
	LastUpdated string
	HasChart    bool
	Entries     []invocations.Entry
}

// LeaderboardView is the ranked table page
type LeaderboardView struct {
	Error    string
	Window   contracts.Window
	Sort     contracts.SortKey
	Windows  []contracts.Window
	SortKeys []contracts.SortKey
	Rows     []contracts.AggregatedRow
}
