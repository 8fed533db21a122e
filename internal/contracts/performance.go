package contracts

import (
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// UnknownModel is the group key for records without model name or id
const UnknownModel = "unknown"

// ModelRef is the nested model object attached to backend rows
type ModelRef struct {
	Name string `json:"name,omitempty"`
}

// PerformanceRecord is a raw row of GET /performance
// ⭐ SSOT: 백엔드 성과 스냅샷 와이어 포맷은 여기서만 정의
type PerformanceRecord struct {
	ID           string      `json:"id,omitempty"`
	CreatedAt    string      `json:"createdAt"`
	NetPortfolio interface{} `json:"netPortfolio"` // string on the wire, numbers tolerated
	ModelID      string      `json:"modelId,omitempty"`
	Model        *ModelRef   `json:"model,omitempty"`
}

// PerformanceFeed is the GET /performance envelope
type PerformanceFeed struct {
	Data        []PerformanceRecord `json:"data"`
	LastUpdated string              `json:"lastUpdated"`
}

// PerformanceSnapshot is a validated record
type PerformanceSnapshot struct {
	ModelIdentifier   string    `json:"model"`
	Timestamp         time.Time `json:"timestamp"`
	NetPortfolioValue float64   `json:"net_portfolio_value"`
}

// ModelKey resolves the grouping key: model name, then model id, then UnknownModel
func (r PerformanceRecord) ModelKey() string {
	switch {
	case r.Model != nil && r.Model.Name != "":
		return r.Model.Name
	case r.ModelID != "":
		return r.ModelID
	default:
		return UnknownModel
	}
}

// ValueFloat coerces netPortfolio to a finite number
func (r PerformanceRecord) ValueFloat() (float64, bool) {
	if r.NetPortfolio == nil {
		return 0, false
	}
	if s, ok := r.NetPortfolio.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		r.NetPortfolio = s
	}

	v, err := cast.ToFloat64E(r.NetPortfolio)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Timestamp parses createdAt
func (r PerformanceRecord) Timestamp() (time.Time, bool) {
	return ParseTime(r.CreatedAt)
}

// Snapshot validates the record into a PerformanceSnapshot
func (r PerformanceRecord) Snapshot() (PerformanceSnapshot, bool) {
	t, ok := r.Timestamp()
	if !ok {
		return PerformanceSnapshot{}, false
	}
	v, ok := r.ValueFloat()
	if !ok {
		return PerformanceSnapshot{}, false
	}
	return PerformanceSnapshot{
		ModelIdentifier:   r.ModelKey(),
		Timestamp:         t,
		NetPortfolioValue: v,
	}, true
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999", // no zone, read as UTC
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTime parses the backend's ISO-8601 timestamps
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
