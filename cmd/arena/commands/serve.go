package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/arena/internal/api"
	"github.com/wonny/arena/internal/api/handlers"
	"github.com/wonny/arena/internal/web"
	"github.com/wonny/arena/pkg/redis"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long: `Start the dashboard HTTP server.

Pages:
  GET  /                   - Home
  GET  /performance        - Chart and recent invocations
  GET  /leaderboard        - Ranked table (?window=24h|7d|30d&sort=pnlPercent|pnlAbsolute|drawdown)
  GET  /chart.svg          - Rendered chart

JSON:
  GET  /health
  GET  /api/performance
  GET  /api/leaderboard
  GET  /api/chart
  GET  /api/invocations    - ?limit=N (1-200)
  GET  /metrics            - Prometheus (METRICS_ENABLED)

Example:
  go run ./cmd/arena serve
  go run ./cmd/arena serve --port 9090`,
	RunE: runServe,
}

var (
	servePort string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flags
	serveCmd.Flags().StringVar(&servePort, "port", "", "server port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Arena Dashboard ===")

	// 1. Config, logger, Redis, backend client
	d, err := setup()
	if err != nil {
		return err
	}
	defer d.Close()

	// Override port if flag is set
	if servePort != "" {
		d.cfg.Port = servePort
	}

	d.log.WithFields(map[string]interface{}{
		"port":          d.cfg.Port,
		"env":           d.cfg.Env,
		"redis_enabled": d.redis.Enabled(),
	}).Info("Initializing dashboard server")

	// 2. Load templates
	renderer, err := web.NewRenderer()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	// 3. Create handler
	dashboard, err := handlers.NewDashboardHandler(d.backend, renderer, d.cfg.Dashboard, d.log)
	if err != nil {
		return fmt.Errorf("create dashboard handler: %w", err)
	}

	// 4. Create router
	router := api.NewRouter(dashboard, d.log, api.RouterOptions{
		RateLimiter:        redis.NewRateLimiter(d.redis, "arena"),
		RateLimitPerMinute: d.cfg.Dashboard.RateLimitPerMinute,
		MetricsEnabled:     d.cfg.MetricsEnabled,
	})

	// 5. Create server
	server := api.New(d.cfg, d.log, router)

	// 6. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Fprintf(out, "\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	// Wait for interrupt signal or a failed listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-quit:
	}

	d.log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), api.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	d.log.Info("Server stopped")
	return nil
}
