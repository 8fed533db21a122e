package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wonny/arena/internal/chart"
	"github.com/wonny/arena/internal/web"
)

// chartCmd represents the chart command
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Print the bucketed chart rows",
	Long: `Fetch the performance feed and print the time-bucketed rows the chart is drawn from.

Snapshots of different models taken close together share a row; the
merge tolerance follows the feed's median sampling interval.

Example:
  go run ./cmd/arena chart
  go run ./cmd/arena chart --json
  go run ./cmd/arena chart --svg chart.svg`,
	RunE: runChart,
}

var (
	chartJSON bool
	chartSVG  string
)

func init() {
	rootCmd.AddCommand(chartCmd)

	// Flags
	chartCmd.Flags().BoolVar(&chartJSON, "json", false, "print JSON instead of a table")
	chartCmd.Flags().StringVar(&chartSVG, "svg", "", "also write the rendered chart to this file")
}

func runChart(cmd *cobra.Command, args []string) error {
	d, err := setup()
	if err != nil {
		return err
	}
	defer d.Close()

	feed, err := d.backend.Performance(cmd.Context())
	if err != nil {
		PrintError(cmd.ErrOrStderr(), web.MsgLoadFailed)
		return fmt.Errorf("fetch performance: %w", err)
	}

	c := chart.Bucket(feed.Data)

	if chartSVG != "" {
		if err := writeSVG(chartSVG, c); err != nil {
			return err
		}
		PrintSuccess(cmd.ErrOrStderr(), "Chart written to "+chartSVG)
	}

	if chartJSON {
		return PrintJSON(cmd.OutOrStdout(), c)
	}

	printChart(cmd.OutOrStdout(), c)
	return nil
}

func printChart(w io.Writer, c chart.Chart) {
	if len(c.Rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No performance data."))
		return
	}

	columns := append([]string{"TIME"}, c.Series...)
	widths := make([]int, len(columns))
	widths[0] = 23
	for i, name := range c.Series {
		widths[i+1] = max(12, len(name))
	}

	PrintTableHeader(w, columns, widths)
	for _, row := range c.Rows {
		values := []string{web.FormatTime(row.Time)}
		for _, name := range c.Series {
			if v, ok := row.Values[name]; ok {
				values = append(values, web.FormatUSD(&v))
			} else {
				values = append(values, web.Missing)
			}
		}
		PrintTableRow(w, values, widths)
	}
}
