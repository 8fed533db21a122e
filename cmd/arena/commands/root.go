package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	backendURL string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Arena - AI trading agent performance dashboard",
	Long: `Arena Unified CLI

Reads the trading backend's performance and invocation feeds, ranks the
agents over a trailing window and charts their portfolio values.

Usage:
  go run ./cmd/arena [command]

Examples:
  go run ./cmd/arena serve
  go run ./cmd/arena leaderboard --window 24h --sort drawdown
  go run ./cmd/arena chart --json
  go run ./cmd/arena invocations --limit 10
  go run ./cmd/arena watch --schedule "@every 30s"`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (overrides BACKEND_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
