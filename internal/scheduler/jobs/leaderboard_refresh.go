package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/arena/internal/contracts"
	"github.com/wonny/arena/internal/leaderboard"
	"github.com/wonny/arena/internal/metrics"
	"github.com/wonny/arena/pkg/logger"
)

// PerformanceSource provides the performance feed
type PerformanceSource interface {
	Performance(ctx context.Context) (*contracts.PerformanceFeed, error)
}

// Snapshot is one computed leaderboard
type Snapshot struct {
	Window      contracts.Window
	Sort        contracts.SortKey
	LastUpdated string
	Rows        []contracts.AggregatedRow
	ComputedAt  time.Time
}

// LeaderboardRefreshJob re-fetches the feed and recomputes the leaderboard on a schedule
type LeaderboardRefreshJob struct {
	source   PerformanceSource
	window   contracts.Window
	sortKey  contracts.SortKey
	schedule string
	sink     func(Snapshot)
	logger   *logger.Logger
}

// NewLeaderboardRefreshJob creates a new leaderboard refresh job; sink receives every successful snapshot
func NewLeaderboardRefreshJob(source PerformanceSource, window contracts.Window, sortKey contracts.SortKey, schedule string, sink func(Snapshot), log *logger.Logger) *LeaderboardRefreshJob {
	return &LeaderboardRefreshJob{
		source:   source,
		window:   window,
		sortKey:  sortKey,
		schedule: schedule,
		sink:     sink,
		logger:   log,
	}
}

// Name returns the job name
func (j *LeaderboardRefreshJob) Name() string {
	return "leaderboard_refresh"
}

// Schedule returns the cron schedule
func (j *LeaderboardRefreshJob) Schedule() string {
	return j.schedule
}

// Run fetches the feed once and hands the result to the sink
func (j *LeaderboardRefreshJob) Run(ctx context.Context) error {
	feed, err := j.source.Performance(ctx)
	if err != nil {
		return fmt.Errorf("fetch performance: %w", err)
	}

	now := time.Now()
	rows := leaderboard.AggregateAt(now, feed.Data, j.window, j.sortKey)
	metrics.SetLeaderboardModels(string(j.window), len(rows))

	j.logger.WithFields(map[string]interface{}{
		"window": j.window,
		"models": len(rows),
	}).Debug("Leaderboard refreshed")

	if j.sink != nil {
		j.sink(Snapshot{
			Window:      j.window,
			Sort:        j.sortKey,
			LastUpdated: feed.LastUpdated,
			Rows:        rows,
			ComputedAt:  now,
		})
	}
	return nil
}
