package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/arena/internal/contracts"
	"github.com/wonny/arena/internal/leaderboard"
	"github.com/wonny/arena/internal/scheduler/jobs"
	"github.com/wonny/arena/internal/web"
)

// leaderboardCmd represents the leaderboard command
var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the ranked leaderboard",
	Long: `Fetch the performance feed once and print the models ranked by PnL or drawdown.

Models need at least two snapshots inside the window to be ranked.

Example:
  go run ./cmd/arena leaderboard
  go run ./cmd/arena leaderboard --window 24h --sort drawdown
  go run ./cmd/arena leaderboard --json`,
	RunE: runLeaderboard,
}

var (
	lbWindow string
	lbSort   string
	lbJSON   bool
)

func init() {
	rootCmd.AddCommand(leaderboardCmd)

	// Flags
	leaderboardCmd.Flags().StringVar(&lbWindow, "window", "", "window: 24h, 7d, 30d (default DEFAULT_WINDOW)")
	leaderboardCmd.Flags().StringVar(&lbSort, "sort", "", "sort key: pnlPercent, pnlAbsolute, drawdown (default DEFAULT_SORT)")
	leaderboardCmd.Flags().BoolVar(&lbJSON, "json", false, "print JSON instead of a table")
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	d, err := setup()
	if err != nil {
		return err
	}
	defer d.Close()

	window, sortKey, err := parseLeaderboardFlags(lbWindow, lbSort, d.cfg.Dashboard.DefaultWindow, d.cfg.Dashboard.DefaultSort)
	if err != nil {
		return err
	}

	feed, err := d.backend.Performance(cmd.Context())
	if err != nil {
		PrintError(cmd.ErrOrStderr(), web.MsgLoadFailed)
		return fmt.Errorf("fetch performance: %w", err)
	}

	rows := leaderboard.Aggregate(feed.Data, window, sortKey)
	if lbJSON {
		return PrintJSON(cmd.OutOrStdout(), map[string]interface{}{
			"window": window,
			"sort":   sortKey,
			"rows":   rows,
		})
	}

	printLeaderboard(cmd.OutOrStdout(), jobs.Snapshot{
		Window:      window,
		Sort:        sortKey,
		LastUpdated: feed.LastUpdated,
		Rows:        rows,
	})
	return nil
}

// parseLeaderboardFlags resolves flag values, falling back to the configured defaults
func parseLeaderboardFlags(window, sortKey, defWindow, defSort string) (contracts.Window, contracts.SortKey, error) {
	if window == "" {
		window = defWindow
	}
	if sortKey == "" {
		sortKey = defSort
	}

	w, err := contracts.ParseWindow(window)
	if err != nil {
		return "", 0, err
	}
	k, err := contracts.ParseSortKey(sortKey)
	if err != nil {
		return "", 0, err
	}
	return w, k, nil
}

func printLeaderboard(w io.Writer, s jobs.Snapshot) {
	PrintDoubleSeparator(w)
	fmt.Fprintf(w, "  Leaderboard  (window %s, sorted by %s)\n", s.Window, s.Sort.Label())
	PrintSeparator(w)
	PrintKeyValue(w, "Last updated", web.FormatTimestamp(s.LastUpdated, contracts.ParseTime), 12)
	PrintSeparator(w)

	if len(s.Rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render(web.MsgNoData))
		return
	}

	widths := []int{3, 28, 12, 10, 10, 13}
	PrintTableHeader(w, []string{"#", "MODEL", "PNL $", "PNL %", "DRAWDOWN", "LAST"}, widths)
	for i, row := range s.Rows {
		PrintTableRow(w, []string{
			strconv.Itoa(i + 1),
			truncate(row.ModelIdentifier, 28),
			colorize(web.FormatUSD(row.PnLAbsolute), row.PnLAbsolute),
			colorize(web.FormatPercent(row.PnLPercent), row.PnLPercent),
			web.FormatPercent(row.MaxDrawdown),
			web.FormatUSD(row.LastValue),
		}, widths)
	}
}
