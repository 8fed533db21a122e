package chart

import (
	"sort"
	"time"

	"github.com/wonny/arena/internal/contracts"
)

const (
	// DefaultGap is the assumed sampling interval when fewer than two distinct timestamps exist
	DefaultGap = 60 * time.Second

	MinTolerance = 5 * time.Second
	MaxTolerance = 5 * time.Minute
)

// Row is one bucket: the bucket midpoint and the value of each model seen in it
type Row struct {
	Time   time.Time          `json:"time"`
	Values map[string]float64 `json:"values"`
}

// Chart is the bucketed multi-series table
type Chart struct {
	Rows   []Row    `json:"rows"`
	Series []string `json:"series"`
}

// SeriesPoints returns the (time, value) pairs of one series, skipping rows where it is absent
func (c Chart) SeriesPoints(name string) ([]time.Time, []float64) {
	var xs []time.Time
	var ys []float64
	for _, r := range c.Rows {
		if v, ok := r.Values[name]; ok {
			xs = append(xs, r.Time)
			ys = append(ys, v)
		}
	}
	return xs, ys
}

// Drawable reports whether at least one series has two points
func (c Chart) Drawable() bool {
	for _, name := range c.Series {
		if xs, _ := c.SeriesPoints(name); len(xs) >= 2 {
			return true
		}
	}
	return false
}

type sample struct {
	ms    int64
	model string
	v     float64
}

// Bucket merges near-simultaneous snapshots of different models into shared rows.
// The merge tolerance is derived from the median sampling gap of the data itself.
// ⭐ SSOT: 차트 버킷팅 로직은 여기서만
func Bucket(records []contracts.PerformanceRecord) Chart {
	samples := make([]sample, 0, len(records))
	for _, r := range records {
		s, ok := r.Snapshot()
		if !ok {
			continue
		}
		samples = append(samples, sample{
			ms:    s.Timestamp.UnixMilli(),
			model: s.ModelIdentifier,
			v:     s.NetPortfolioValue,
		})
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].ms < samples[j].ms })

	out := Chart{Rows: []Row{}, Series: []string{}}
	if len(samples) == 0 {
		return out
	}

	seen := make(map[string]bool)
	for _, s := range samples {
		if !seen[s.model] {
			seen[s.model] = true
			out.Series = append(out.Series, s.model)
		}
	}

	tol := Tolerance(medianGap(samples)).Milliseconds()

	start, end := samples[0].ms, samples[0].ms
	values := make(map[string]float64)
	flush := func() {
		out.Rows = append(out.Rows, Row{
			Time:   time.UnixMilli(midpoint(start, end)).UTC(),
			Values: values,
		})
	}

	for _, s := range samples {
		if s.ms-end > tol {
			flush()
			start, end = s.ms, s.ms
			values = make(map[string]float64)
		} else if s.ms > end {
			end = s.ms
		}
		values[s.model] = s.v
	}
	flush()

	return out
}

// medianGap returns the upper median gap between consecutive distinct timestamps of
// time-sorted samples, or DefaultGap when there is no gap.
func medianGap(samples []sample) time.Duration {
	var gaps []int64
	for i := 1; i < len(samples); i++ {
		if d := samples[i].ms - samples[i-1].ms; d > 0 {
			gaps = append(gaps, d)
		}
	}
	if len(gaps) == 0 {
		return DefaultGap
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })
	return time.Duration(gaps[len(gaps)/2]) * time.Millisecond
}

// Tolerance is 1.5x the median gap clamped to [MinTolerance, MaxTolerance], whole milliseconds
func Tolerance(median time.Duration) time.Duration {
	tol := time.Duration(median.Milliseconds()*3/2) * time.Millisecond
	if tol < MinTolerance {
		tol = MinTolerance
	}
	if tol > MaxTolerance {
		tol = MaxTolerance
	}
	return tol
}

// midpoint rounds (a+b)/2 half up
func midpoint(a, b int64) int64 {
	sum := a + b
	mid := sum / 2
	if sum%2 != 0 && sum > 0 {
		mid++
	}
	return mid
}
