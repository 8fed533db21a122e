package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/arena/internal/scheduler"
	"github.com/wonny/arena/internal/scheduler/jobs"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-fetch and reprint the leaderboard on a schedule",
	Long: `Print the leaderboard now and again on every tick of the schedule.

A failed fetch is reported and left for the next tick; nothing is retried.
Stop with Ctrl+C.

Example:
  go run ./cmd/arena watch
  go run ./cmd/arena watch --schedule "@every 30s" --window 24h
  go run ./cmd/arena watch --schedule "0 */5 * * * *"`,
	RunE: runWatch,
}

var (
	watchSchedule string
	watchWindow   string
	watchSort     string
)

func init() {
	rootCmd.AddCommand(watchCmd)

	// Flags
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "@every 1m", "cron schedule (seconds field optional)")
	watchCmd.Flags().StringVar(&watchWindow, "window", "", "window: 24h, 7d, 30d (default DEFAULT_WINDOW)")
	watchCmd.Flags().StringVar(&watchSort, "sort", "", "sort key: pnlPercent, pnlAbsolute, drawdown (default DEFAULT_SORT)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	d, err := setup()
	if err != nil {
		return err
	}
	defer d.Close()

	window, sortKey, err := parseLeaderboardFlags(watchWindow, watchSort, d.cfg.Dashboard.DefaultWindow, d.cfg.Dashboard.DefaultSort)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var mu sync.Mutex
	sink := func(s jobs.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		printLeaderboard(out, s)
	}

	job := jobs.NewLeaderboardRefreshJob(d.backend, window, sortKey, watchSchedule, sink, d.log)

	sched := scheduler.New(d.log)
	if t := d.cfg.Backend.Timeout; t > 0 {
		sched.WithJobTimeout(t + t/2)
	}
	if err := sched.AddJob(job); err != nil {
		return err
	}

	// First render right away, then on schedule
	if result, err := sched.RunJob(job.Name()); err == nil && !result.Success {
		PrintError(cmd.ErrOrStderr(), "Refresh failed: "+result.Error)
	}

	sched.Start()

	PrintInfo(cmd.ErrOrStderr(), fmt.Sprintf("Watching (%s). Press Ctrl+C to stop", watchSchedule))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-cmd.Context().Done():
	}

	sched.Stop()
	if stats, err := sched.Stats(job.Name()); err == nil {
		printWatchSummary(cmd.ErrOrStderr(), stats)
	}
	return nil
}

// printWatchSummary reports the refresh runs made before the watch stopped
func printWatchSummary(w io.Writer, s scheduler.RunStats) {
	PrintSeparator(w)
	PrintKeyValue(w, "Runs", strconv.Itoa(s.Runs), 12)
	PrintKeyValue(w, "Failures", strconv.Itoa(s.Failures), 12)
	if !s.LastRun.IsZero() {
		PrintKeyValue(w, "Last run", s.LastRun.UTC().Format(time.RFC3339), 12)
	}
	if s.LastError != "" {
		PrintKeyValue(w, "Last error", s.LastError, 12)
	}
}
