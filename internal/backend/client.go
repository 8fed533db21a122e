package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/wonny/arena/internal/contracts"
	"github.com/wonny/arena/internal/metrics"
	"github.com/wonny/arena/pkg/config"
	"github.com/wonny/arena/pkg/httputil"
	"github.com/wonny/arena/pkg/logger"
	"github.com/wonny/arena/pkg/redis"
)

// Endpoint names used in logs and metrics
const (
	EndpointPerformance = "performance"
	EndpointInvocations = "invocations"
)

// StatusError is returned when the backend answers with a non-2xx status
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend %s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("backend %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Client fetches the performance and invocation feeds
// ⭐ SSOT: 백엔드 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	cache      *redis.Cache
	cacheTTL   time.Duration
}

// New builds a client with the backend transport settings from cfg.
// cache may be nil.
func New(cfg *config.Config, cache *redis.Cache, log *logger.Logger) *Client {
	httpClient := httputil.New(cfg, log).WithRateLimit(cfg.Backend.RPS, 1)

	return NewClient(cfg.Backend, httpClient, cache, log)
}

// NewClient creates a backend client on an existing transport
func NewClient(cfg config.BackendConfig, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cache:      cache,
		cacheTTL:   cfg.CacheTTL,
	}
}

// Performance fetches GET /performance
func (c *Client) Performance(ctx context.Context) (*contracts.PerformanceFeed, error) {
	var feed contracts.PerformanceFeed
	err := c.fetch(ctx, EndpointPerformance, c.baseURL+"/performance", redis.PerformanceFeedKey(), &feed)
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

// Invocations fetches GET /invocations?limit=N
func (c *Client) Invocations(ctx context.Context, limit int) (*contracts.InvocationFeed, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var feed contracts.InvocationFeed
	err := c.fetch(ctx, EndpointInvocations, c.baseURL+"/invocations?"+q.Encode(), redis.InvocationsFeedKey(limit), &feed)
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

// fetch reads through the feed cache when one is configured
func (c *Client) fetch(ctx context.Context, endpoint, rawURL, cacheKey string, dest interface{}) error {
	start := time.Now()
	log := logger.FromContext(ctx, c.logger).WithField("endpoint", endpoint)

	var err error
	if c.cache == nil || c.cacheTTL <= 0 {
		err = c.get(ctx, endpoint, rawURL, dest)
	} else {
		var hit bool
		hit, err = c.cache.GetOrSet(ctx, cacheKey, dest, c.cacheTTL, func() error {
			return c.get(ctx, endpoint, rawURL, dest)
		})
		if hit {
			log.Debug("Backend feed served from cache")
			metrics.RecordBackendRequest(endpoint, metrics.ResultCacheHit, time.Since(start))
			return nil
		}
	}

	metrics.RecordBackendRequest(endpoint, resultOf(err), time.Since(start))
	if err != nil {
		log.WithError(err).Warn("Backend fetch failed")
	}
	return err
}

func (c *Client) get(ctx context.Context, endpoint, rawURL string, dest interface{}) error {
	resp, err := c.httpClient.Get(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func resultOf(err error) string {
	if err == nil {
		return metrics.ResultOK
	}
	var se *StatusError
	if errors.As(err, &se) {
		return metrics.ResultStatus
	}
	return metrics.ResultError
}

// IsStatus reports whether err is a StatusError with the given code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
