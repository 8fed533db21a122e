package commands

import (
	"fmt"
	"os"

	"github.com/wonny/arena/internal/backend"
	"github.com/wonny/arena/pkg/config"
	"github.com/wonny/arena/pkg/logger"
	"github.com/wonny/arena/pkg/redis"
)

// deps is the wiring shared by every command
type deps struct {
	cfg     *config.Config
	log     *logger.Logger
	redis   *redis.Client
	backend *backend.Client
}

// setup loads config and builds the backend client.
// An unreachable Redis downgrades to running without cache and rate limit.
func setup() (*deps, error) {
	// 1. Load config
	if backendURL != "" {
		os.Setenv("BACKEND_URL", backendURL)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to Redis (optional)
	rc, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, continuing without cache")
		rc, _ = redis.New(&config.Config{})
	}

	// 4. Create backend client
	cache := redis.NewCache(rc, "arena")
	client := backend.New(cfg, cache, log)

	return &deps{cfg: cfg, log: log, redis: rc, backend: client}, nil
}

func (d *deps) Close() {
	if err := d.redis.Close(); err != nil {
		d.log.WithError(err).Warn("Failed to close Redis")
	}
}
