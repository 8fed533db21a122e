package leaderboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/arena/internal/contracts"
)

var now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func rec(model string, ago time.Duration, value interface{}) contracts.PerformanceRecord {
	return contracts.PerformanceRecord{
		CreatedAt:    now.Add(-ago).Format(time.RFC3339Nano),
		NetPortfolio: value,
		Model:        &contracts.ModelRef{Name: model},
	}
}

func find(t *testing.T, rows []contracts.AggregatedRow, model string) contracts.AggregatedRow {
	t.Helper()
	for _, r := range rows {
		if r.ModelIdentifier == model {
			return r
		}
	}
	t.Fatalf("model %s not in output", model)
	return contracts.AggregatedRow{}
}

func TestAggregate_EmptyInput(t *testing.T) {
	rows := AggregateAt(now, nil, contracts.Window7d, contracts.SortPnLPercent)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}

func TestAggregate_ReferenceSeries(t *testing.T) {
	// unsorted on purpose
	records := []contracts.PerformanceRecord{
		rec("claude", 1*time.Hour, "120"),
		rec("claude", 3*time.Hour, "100"),
		rec("claude", 2*time.Hour, "80"),
	}

	rows := AggregateAt(now, records, contracts.Window24h, contracts.SortPnLPercent)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "claude", row.ModelIdentifier)
	assert.InDelta(t, 20, *row.PnLAbsolute, 1e-9)
	assert.InDelta(t, 0.20, *row.PnLPercent, 1e-9)
	assert.InDelta(t, 0.20, *row.MaxDrawdown, 1e-9)
	assert.Equal(t, 100.0, *row.FirstValue)
	assert.Equal(t, 120.0, *row.LastValue)
}

func TestAggregate_ZeroFirstValue(t *testing.T) {
	records := []contracts.PerformanceRecord{
		rec("qwen", 2*time.Hour, "0"),
		rec("qwen", 1*time.Hour, "50"),
		rec("deepseek", 2*time.Hour, "100"),
		rec("deepseek", 1*time.Hour, "90"),
	}

	rows := AggregateAt(now, records, contracts.Window24h, contracts.SortPnLPercent)
	require.Len(t, rows, 2)

	qwen := find(t, rows, "qwen")
	assert.Equal(t, 50.0, *qwen.PnLAbsolute)
	assert.Nil(t, qwen.PnLPercent)

	// undefined percent sorts after a negative one
	assert.Equal(t, "deepseek", rows[0].ModelIdentifier)
	assert.Equal(t, "qwen", rows[1].ModelIdentifier)

	// but leads by absolute PnL
	rows = AggregateAt(now, records, contracts.Window24h, contracts.SortPnLAbsolute)
	assert.Equal(t, "qwen", rows[0].ModelIdentifier)
}

func TestAggregate_Exclusions(t *testing.T) {
	records := []contracts.PerformanceRecord{
		rec("single", 1*time.Hour, "100"),
		rec("broken", 2*time.Hour, "NaN"),
		rec("broken", 1*time.Hour, "abc"),
		rec("half", 2*time.Hour, "100"),
		rec("half", 1*time.Hour, nil),
		rec("ok", 2*time.Hour, "100"),
		rec("ok", 1*time.Hour, "101"),
	}

	rows := AggregateAt(now, records, contracts.Window24h, contracts.SortPnLPercent)
	require.Len(t, rows, 1)
	assert.Equal(t, "ok", rows[0].ModelIdentifier)
}

func TestAggregate_WindowCutoff(t *testing.T) {
	records := []contracts.PerformanceRecord{
		rec("claude", 48*time.Hour, "50"),
		rec("claude", 2*time.Hour, "100"),
		rec("claude", 1*time.Hour, "110"),
	}

	day := AggregateAt(now, records, contracts.Window24h, contracts.SortPnLPercent)
	require.Len(t, day, 1)
	assert.Equal(t, 100.0, *day[0].FirstValue)

	week := AggregateAt(now, records, contracts.Window7d, contracts.SortPnLPercent)
	require.Len(t, week, 1)
	assert.Equal(t, 50.0, *week[0].FirstValue)

	// a point exactly on the cutoff is kept
	edge := []contracts.PerformanceRecord{
		rec("edge", 24*time.Hour, "10"),
		rec("edge", 0, "11"),
	}
	assert.Len(t, AggregateAt(now, edge, contracts.Window24h, contracts.SortPnLPercent), 1)
}

func TestAggregate_GroupingFallback(t *testing.T) {
	withID := func(id string, ago time.Duration, v string) contracts.PerformanceRecord {
		return contracts.PerformanceRecord{CreatedAt: now.Add(-ago).Format(time.RFC3339), NetPortfolio: v, ModelID: id}
	}
	bare := func(ago time.Duration, v string) contracts.PerformanceRecord {
		return contracts.PerformanceRecord{CreatedAt: now.Add(-ago).Format(time.RFC3339), NetPortfolio: v}
	}

	records := []contracts.PerformanceRecord{
		withID("model-7", 2*time.Hour, "10"),
		withID("model-7", 1*time.Hour, "12"),
		bare(2*time.Hour, "5"),
		bare(1*time.Hour, "6"),
	}

	rows := AggregateAt(now, records, contracts.Window24h, contracts.SortPnLAbsolute)
	require.Len(t, rows, 2)
	assert.Equal(t, "model-7", rows[0].ModelIdentifier)
	assert.Equal(t, contracts.UnknownModel, rows[1].ModelIdentifier)
}

func TestAggregate_SortByDrawdown(t *testing.T) {
	records := []contracts.PerformanceRecord{
		rec("calm", 3*time.Hour, "100"),
		rec("calm", 2*time.Hour, "95"),
		rec("calm", 1*time.Hour, "100"),
		rec("wild", 3*time.Hour, "100"),
		rec("wild", 2*time.Hour, "50"),
		rec("wild", 1*time.Hour, "150"),
		rec("flat", 2*time.Hour, "100"),
		rec("flat", 1*time.Hour, "100"),
	}

	rows := AggregateAt(now, records, contracts.Window24h, contracts.SortDrawdown)
	require.Len(t, rows, 3)
	assert.Equal(t, "wild", rows[0].ModelIdentifier)
	assert.Equal(t, "calm", rows[1].ModelIdentifier)
	assert.Equal(t, "flat", rows[2].ModelIdentifier)
	assert.Equal(t, 0.0, *rows[2].MaxDrawdown)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	records := []contracts.PerformanceRecord{
		rec("a", 1*time.Hour, "2"),
		rec("a", 2*time.Hour, "1"),
	}
	before := fmt.Sprintf("%+v", records)

	_ = AggregateAt(now, records, contracts.Window24h, contracts.SortPnLPercent)
	assert.Equal(t, before, fmt.Sprintf("%+v", records))
}

func TestAggregate_TiesKeepFirstSeenOrder(t *testing.T) {
	var records []contracts.PerformanceRecord
	for _, m := range []string{"zeta", "alpha", "mid"} {
		records = append(records, rec(m, 2*time.Hour, "100"), rec(m, 1*time.Hour, "110"))
	}

	for i := 0; i < 10; i++ {
		rows := AggregateAt(now, records, contracts.Window24h, contracts.SortPnLPercent)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"zeta", "alpha", "mid"},
			[]string{rows[0].ModelIdentifier, rows[1].ModelIdentifier, rows[2].ModelIdentifier})
	}
}

func TestSort_UndefinedLast(t *testing.T) {
	rows := []contracts.AggregatedRow{
		{ModelIdentifier: "none"},
		{ModelIdentifier: "neg", MaxDrawdown: contracts.Float(-1)},
		{ModelIdentifier: "big", MaxDrawdown: contracts.Float(0.5)},
	}

	Sort(rows, contracts.SortDrawdown)
	assert.Equal(t, "big", rows[0].ModelIdentifier)
	assert.Equal(t, "neg", rows[1].ModelIdentifier)
	assert.Equal(t, "none", rows[2].ModelIdentifier)
}

func TestAggregate_OverflowLeavesMetricsUndefined(t *testing.T) {
	records := []contracts.PerformanceRecord{
		rec("big", 2*time.Hour, "1e308"),
		rec("big", 1*time.Hour, "-1e308"),
		rec("tiny", 2*time.Hour, "1e-308"),
		rec("tiny", 1*time.Hour, "1e308"),
		rec("ok", 2*time.Hour, "100"),
		rec("ok", 1*time.Hour, "110"),
	}

	for _, key := range contracts.SortKeys {
		rows := AggregateAt(now, records, contracts.Window24h, key)
		require.Len(t, rows, 3, key.String())
	}

	rows := AggregateAt(now, records, contracts.Window24h, contracts.SortPnLPercent)
	assert.Equal(t, "ok", rows[0].ModelIdentifier)

	big := find(t, rows, "big")
	assert.Nil(t, big.PnLAbsolute)
	assert.Nil(t, big.PnLPercent)
	assert.Nil(t, big.MaxDrawdown)
	require.NotNil(t, big.FirstValue)
	assert.Equal(t, 1e308, *big.FirstValue)

	tiny := find(t, rows, "tiny")
	require.NotNil(t, tiny.PnLAbsolute)
	assert.Nil(t, tiny.PnLPercent, "ratio overflows")
	require.NotNil(t, tiny.MaxDrawdown)
	assert.Zero(t, *tiny.MaxDrawdown)
}
