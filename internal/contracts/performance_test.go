package contracts

import (
	"math"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformanceRecord_ModelKey(t *testing.T) {
	tests := []struct {
		name   string
		record PerformanceRecord
		want   string
	}{
		{"model name wins", PerformanceRecord{Model: &ModelRef{Name: "claude-sonnet"}, ModelID: "m1"}, "claude-sonnet"},
		{"empty name falls back to id", PerformanceRecord{Model: &ModelRef{}, ModelID: "m1"}, "m1"},
		{"no model object", PerformanceRecord{ModelID: "m2"}, "m2"},
		{"nothing set", PerformanceRecord{}, UnknownModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.ModelKey())
		})
	}
}

func TestPerformanceRecord_ValueFloat(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  float64
		ok    bool
	}{
		{"decimal string", "10234.56", 10234.56, true},
		{"padded string", " 42 ", 42, true},
		{"json number", float64(99.5), 99.5, true},
		{"zero", "0", 0, true},
		{"nil", nil, 0, false},
		{"empty string", "", 0, false},
		{"garbage", "abc", 0, false},
		{"NaN string", "NaN", 0, false},
		{"Inf string", "Infinity", 0, false},
		{"inf float", math.Inf(1), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PerformanceRecord{NetPortfolio: tt.value}.ValueFloat()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

	for _, s := range []string{
		"2026-10-14T09:30:00Z",
		"2026-10-14T09:30:00.000Z",
		"2026-10-14T18:30:00+09:00",
		"2026-10-14T09:30:00",
		"2026-10-14 09:30:00",
	} {
		got, ok := ParseTime(s)
		require.True(t, ok, s)
		assert.True(t, want.Equal(got), "%s parsed as %s", s, got)
	}

	_, ok := ParseTime("yesterday")
	assert.False(t, ok)
	_, ok = ParseTime("")
	assert.False(t, ok)
}

func TestPerformanceRecord_Snapshot(t *testing.T) {
	snap, ok := PerformanceRecord{
		CreatedAt:    "2026-10-14T09:30:00Z",
		NetPortfolio: "1000",
		Model:        &ModelRef{Name: "qwen"},
	}.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "qwen", snap.ModelIdentifier)
	assert.Equal(t, 1000.0, snap.NetPortfolioValue)

	_, ok = PerformanceRecord{CreatedAt: "bad", NetPortfolio: "1"}.Snapshot()
	assert.False(t, ok)
	_, ok = PerformanceRecord{CreatedAt: "2026-10-14T09:30:00Z", NetPortfolio: "x"}.Snapshot()
	assert.False(t, ok)
}

func TestPerformanceFeed_Decode(t *testing.T) {
	body := `{
		"data": [
			{"createdAt": "2026-10-14T09:30:00Z", "netPortfolio": "1000.50", "model": {"name": "deepseek"}},
			{"createdAt": "2026-10-14T09:31:00Z", "netPortfolio": 1001, "modelId": "m-2"}
		],
		"lastUpdated": "2026-10-14T09:31:05Z"
	}`

	var feed PerformanceFeed
	require.NoError(t, json.Unmarshal([]byte(body), &feed))
	require.Len(t, feed.Data, 2)
	assert.Equal(t, "deepseek", feed.Data[0].ModelKey())
	assert.Equal(t, "m-2", feed.Data[1].ModelKey())

	v, ok := feed.Data[1].ValueFloat()
	require.True(t, ok)
	assert.Equal(t, 1001.0, v)
	assert.Equal(t, "2026-10-14T09:31:05Z", feed.LastUpdated)
}
