package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wonny/arena/internal/invocations"
	"github.com/wonny/arena/internal/web"
)

// invocationsCmd represents the invocations command
var invocationsCmd = &cobra.Command{
	Use:   "invocations",
	Short: "Print recent model invocations",
	Long: `Fetch the most recent model invocations with their tool calls.

Example:
  go run ./cmd/arena invocations
  go run ./cmd/arena invocations --limit 5 --json`,
	RunE: runInvocations,
}

var (
	invLimit int
	invJSON  bool
)

func init() {
	rootCmd.AddCommand(invocationsCmd)

	// Flags
	invocationsCmd.Flags().IntVar(&invLimit, "limit", 0, "number of invocations, 1-200 (default INVOCATIONS_LIMIT)")
	invocationsCmd.Flags().BoolVar(&invJSON, "json", false, "print JSON instead of text")
}

func runInvocations(cmd *cobra.Command, args []string) error {
	d, err := setup()
	if err != nil {
		return err
	}
	defer d.Close()

	limit := d.cfg.Dashboard.InvocationsLimit
	if cmd.Flags().Changed("limit") {
		limit = invLimit
	}
	limit = invocations.ClampLimit(limit)

	feed, err := d.backend.Invocations(cmd.Context(), limit)
	if err != nil {
		PrintError(cmd.ErrOrStderr(), web.MsgLoadFailed)
		return fmt.Errorf("fetch invocations: %w", err)
	}

	entries := invocations.Normalize(feed)
	if invJSON {
		return PrintJSON(cmd.OutOrStdout(), entries)
	}

	printInvocations(cmd.OutOrStdout(), entries)
	return nil
}

func printInvocations(w io.Writer, entries []invocations.Entry) {
	PrintDoubleSeparator(w)
	fmt.Fprintf(w, "  Recent invocations  (Entries: %d)\n", len(entries))
	PrintDoubleSeparator(w)

	for _, e := range entries {
		fmt.Fprintf(w, "%s  %s\n", headerStyle.Render(e.ModelName), mutedStyle.Render(web.FormatTime(e.CreatedAt)))
		for _, tc := range e.ToolCalls {
			line := "   • " + tc.Type
			if tc.Metadata != "" {
				line += " " + truncate(tc.Metadata, 80)
			}
			fmt.Fprintln(w, line)
		}
		if e.Response != "" {
			fmt.Fprintf(w, "   %s\n", truncate(e.Response, 160))
		}
		PrintSeparator(w)
	}
}
