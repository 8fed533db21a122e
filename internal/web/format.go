package web

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Missing is shown in place of an undefined metric
const Missing = "—"

// FormatPercent renders a fraction as a percentage with two decimals, e.g. 0.2 -> "20.00%"
func FormatPercent(v *float64) string {
	if !defined(v) {
		return Missing
	}
	return decimal.NewFromFloat(*v).Shift(2).StringFixed(2) + "%"
}

// FormatUSD renders an amount with two decimals, e.g. 20 -> "$20.00"
func FormatUSD(v *float64) string {
	if !defined(v) {
		return Missing
	}
	return "$" + decimal.NewFromFloat(*v).StringFixed(2)
}

// defined reports whether v holds a finite number
func defined(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// FormatTime renders a timestamp in UTC; the zero time is Missing
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return Missing
	}
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

// FormatTimestamp renders a raw backend timestamp, falling back to the raw text
func FormatTimestamp(raw string, parse func(string) (time.Time, bool)) string {
	if raw == "" {
		return Missing
	}
	if t, ok := parse(raw); ok {
		return FormatTime(t)
	}
	return raw
}

// Sign classifies a metric for coloring: "pos", "neg" or "" for zero and missing
func Sign(v *float64) string {
	switch {
	case !defined(v):
		return ""
	case *v > 0:
		return "pos"
	case *v < 0:
		return "neg"
	default:
		return ""
	}
}
