package leaderboard

import "math"

// MaxDrawdown returns the largest peak-to-trough decline of values as a
// non-negative fraction (0 = never below the running peak).
// ok is false for an empty series. Points whose running peak is not
// positive carry no defined ratio and are skipped.
func MaxDrawdown(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	peak := values[0]
	maxDD := 0.0

	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		dd := (v - peak) / peak
		if dd < maxDD {
			maxDD = dd
		}
	}

	return math.Abs(maxDD), true
}
