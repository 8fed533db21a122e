package contracts

import (
	"fmt"
	"strings"
	"time"
)

// Window is a trailing time range used to filter snapshots
type Window string

const (
	Window24h Window = "24h"
	Window7d  Window = "7d"
	Window30d Window = "30d"

	DefaultWindow = Window7d
)

// Windows lists the selectable windows in display order
var Windows = []Window{Window24h, Window7d, Window30d}

// Duration returns the window length
func (w Window) Duration() time.Duration {
	switch w {
	case Window24h:
		return 24 * time.Hour
	case Window30d:
		return 30 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// Cutoff returns now - window
func (w Window) Cutoff(now time.Time) time.Time {
	return now.Add(-w.Duration())
}

// ParseWindow parses a window name; empty input yields DefaultWindow
func ParseWindow(s string) (Window, error) {
	switch Window(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultWindow, nil
	case Window24h:
		return Window24h, nil
	case Window7d:
		return Window7d, nil
	case Window30d:
		return Window30d, nil
	}
	return "", fmt.Errorf("invalid window %q (valid: 24h, 7d, 30d)", s)
}

// SortKey selects the leaderboard ranking metric
type SortKey int

const (
	SortPnLPercent SortKey = iota
	SortPnLAbsolute
	SortDrawdown

	DefaultSortKey = SortPnLPercent
)

// SortKeys lists the keys in display order
var SortKeys = []SortKey{SortPnLPercent, SortPnLAbsolute, SortDrawdown}

// String returns the canonical wire name
func (k SortKey) String() string {
	switch k {
	case SortPnLAbsolute:
		return "pnlAbsolute"
	case SortDrawdown:
		return "drawdown"
	default:
		return "pnlPercent"
	}
}

// Label is the column caption
func (k SortKey) Label() string {
	switch k {
	case SortPnLAbsolute:
		return "PnL $"
	case SortDrawdown:
		return "Drawdown"
	default:
		return "PnL %"
	}
}

// Metric picks the ranked value out of a row
func (k SortKey) Metric(row AggregatedRow) *float64 {
	switch k {
	case SortPnLAbsolute:
		return row.PnLAbsolute
	case SortDrawdown:
		return row.MaxDrawdown
	default:
		return row.PnLPercent
	}
}

// ParseSortKey accepts canonical names and the short pnlPct/pnlAbs aliases
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultSortKey, nil
	case "pnlpercent", "pnlpct":
		return SortPnLPercent, nil
	case "pnlabsolute", "pnlabs":
		return SortPnLAbsolute, nil
	case "drawdown":
		return SortDrawdown, nil
	}
	return 0, fmt.Errorf("invalid sort key %q (valid: pnlPercent, pnlAbsolute, drawdown)", s)
}

// MarshalText encodes the canonical name
func (k SortKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// AggregatedRow is a per-model leaderboard row. nil means undefined.
type AggregatedRow struct {
	ModelIdentifier string   `json:"model"`
	PnLAbsolute     *float64 `json:"pnl_absolute"`
	PnLPercent      *float64 `json:"pnl_percent"`
	MaxDrawdown     *float64 `json:"max_drawdown"`
	FirstValue      *float64 `json:"first_value"`
	LastValue       *float64 `json:"last_value"`
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}
