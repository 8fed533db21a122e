package leaderboard

import (
	"math"
	"sort"
	"time"

	"github.com/wonny/arena/internal/contracts"
)

// point is a validated (time, value) pair of one model
type point struct {
	t time.Time
	v float64
}

// Aggregate ranks models over the trailing window ending now
func Aggregate(records []contracts.PerformanceRecord, window contracts.Window, key contracts.SortKey) []contracts.AggregatedRow {
	return AggregateAt(time.Now(), records, window, key)
}

// AggregateAt groups records by model, restricts them to [now-window, ∞),
// computes PnL and max drawdown and sorts descending by key.
// Models with fewer than two valid points are left out. records is not modified.
// ⭐ SSOT: 리더보드 집계 로직은 여기서만
func AggregateAt(now time.Time, records []contracts.PerformanceRecord, window contracts.Window, key contracts.SortKey) []contracts.AggregatedRow {
	cutoff := window.Cutoff(now)

	// first-seen order keeps the output stable across calls
	var order []string
	groups := make(map[string][]point)

	for _, r := range records {
		t, ok := r.Timestamp()
		if !ok || t.Before(cutoff) {
			continue
		}
		name := r.ModelKey()
		if _, seen := groups[name]; !seen {
			order = append(order, name)
			groups[name] = nil
		}
		v, ok := r.ValueFloat()
		if !ok {
			continue
		}
		groups[name] = append(groups[name], point{t: t, v: v})
	}

	rows := make([]contracts.AggregatedRow, 0, len(order))
	for _, name := range order {
		pts := groups[name]
		if len(pts) < 2 {
			continue
		}
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].t.Before(pts[j].t) })
		rows = append(rows, summarize(name, pts))
	}

	Sort(rows, key)
	return rows
}

func summarize(name string, pts []point) contracts.AggregatedRow {
	first := pts[0].v
	last := pts[len(pts)-1].v
	pnlAbs := last - first

	row := contracts.AggregatedRow{
		ModelIdentifier: name,
		PnLAbsolute:     finite(pnlAbs),
		FirstValue:      contracts.Float(first),
		LastValue:       contracts.Float(last),
	}
	if first != 0 && row.PnLAbsolute != nil {
		row.PnLPercent = finite(pnlAbs / first)
	}

	values := make([]float64, len(pts))
	for i, p := range pts {
		values[i] = p.v
	}
	if dd, ok := MaxDrawdown(values); ok {
		row.MaxDrawdown = finite(dd)
	}

	return row
}

// finite returns nil when v overflowed, leaving the metric undefined
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return contracts.Float(v)
}

// Sort orders rows descending by key; undefined metrics go last.
// Ties keep their current order.
func Sort(rows []contracts.AggregatedRow, key contracts.SortKey) {
	metric := func(r contracts.AggregatedRow) float64 {
		if m := key.Metric(r); m != nil {
			return *m
		}
		return math.Inf(-1)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return metric(rows[i]) > metric(rows[j])
	})
}
