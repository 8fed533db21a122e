package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/arena/pkg/config"
	"github.com/wonny/arena/pkg/logger"
	"github.com/wonny/arena/pkg/redis"
)

const performanceJSON = `{
  "data": [
    {"createdAt": "2026-10-14T09:00:00.000Z", "netPortfolio": "10000.50", "model": {"name": "claude"}},
    {"createdAt": "2026-10-14T09:05:00.000Z", "netPortfolio": 10100, "modelId": "m-2"}
  ],
  "lastUpdated": "2026-10-14T09:05:00.000Z"
}`

const invocationsJSON = `{"data": [{"id": "inv-1", "response": "ok", "createdAt": "2026-10-14T09:00:00Z", "model": {"name": "qwen"}, "toolCalls": []}]}`

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Backend: config.BackendConfig{
			BaseURL: baseURL,
			Timeout: 2 * time.Second,
			RPS:     1000,
		},
	}
}

func newTestServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/performance", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(performanceJSON))
	})
	mux.HandleFunc("/invocations", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "30", r.URL.Query().Get("limit"))
		w.Write([]byte(invocationsJSON))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Performance(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)

	client := New(testConfig(srv.URL+"/"), nil, logger.NewNop())
	feed, err := client.Performance(context.Background())
	require.NoError(t, err)

	require.Len(t, feed.Data, 2)
	assert.Equal(t, "2026-10-14T09:05:00.000Z", feed.LastUpdated)
	assert.Equal(t, "claude", feed.Data[0].ModelKey())
	assert.Equal(t, "m-2", feed.Data[1].ModelKey())

	v, ok := feed.Data[1].ValueFloat()
	require.True(t, ok)
	assert.Equal(t, 10100.0, v)
}

func TestClient_Invocations(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)

	client := New(testConfig(srv.URL), nil, logger.NewNop())
	feed, err := client.Invocations(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, feed.Data, 1)
	assert.Equal(t, "inv-1", feed.Data[0].ID)
}

func TestClient_StatusErrorIsNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), nil, logger.NewNop())
	_, err := client.Performance(context.Background())
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, "upstream down", se.Body)
	assert.True(t, IsStatus(err, http.StatusServiceUnavailable))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), nil, logger.NewNop())
	_, err := client.Performance(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode performance response")
	assert.False(t, IsStatus(err, http.StatusOK))
}

func TestClient_CanceledContext(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(testConfig(srv.URL), nil, logger.NewNop())
	_, err := client.Performance(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_FeedCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rc, err := redis.New(&config.Config{Redis: config.RedisConfig{Host: mr.Host(), Port: mr.Port(), Enabled: true}})
	require.NoError(t, err)
	defer rc.Close()

	var hits int32
	srv := newTestServer(t, &hits)

	cfg := testConfig(srv.URL)
	cfg.Backend.CacheTTL = time.Minute
	client := New(cfg, redis.NewCache(rc, "arena"), logger.NewNop())

	for i := 0; i < 3; i++ {
		feed, err := client.Performance(context.Background())
		require.NoError(t, err)
		require.Len(t, feed.Data, 2)
		assert.Equal(t, "claude", feed.Data[0].ModelKey())
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	mr.FastForward(2 * time.Minute)
	_, err = client.Performance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}
