package invocations

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/arena/internal/contracts"
)

const (
	DefaultLimit = 30
	MaxLimit     = 200

	// UnknownModelName is shown for invocations without a model
	UnknownModelName = "Unknown"
)

// Entry is a display-ready invocation
type Entry struct {
	ID        string     `json:"id"`
	ModelName string     `json:"model"`
	CreatedAt time.Time  `json:"created_at"`
	Response  string     `json:"response"`
	ToolCalls []ToolCall `json:"tool_calls"`
}

// ToolCall is a display-ready tool call
type ToolCall struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Metadata  string    `json:"metadata"`
}

// Normalize maps the wire feed to entries, preserving backend order
func Normalize(feed *contracts.InvocationFeed) []Entry {
	if feed == nil {
		return []Entry{}
	}

	entries := make([]Entry, 0, len(feed.Data))
	for _, inv := range feed.Data {
		e := Entry{
			ID:        inv.ID,
			ModelName: UnknownModelName,
			Response:  string(inv.Response),
			ToolCalls: make([]ToolCall, 0, len(inv.ToolCalls)),
		}
		if inv.Model != nil && inv.Model.Name != "" {
			e.ModelName = inv.Model.Name
		}
		// unparseable timestamps stay zero and render as missing
		e.CreatedAt, _ = contracts.ParseTime(inv.CreatedAt)

		for _, tc := range inv.ToolCalls {
			call := ToolCall{Type: tc.ToolCallType, Metadata: string(tc.Metadata)}
			call.CreatedAt, _ = contracts.ParseTime(tc.CreatedAt)
			e.ToolCalls = append(e.ToolCalls, call)
		}
		entries = append(entries, e)
	}
	return entries
}

// ClampLimit bounds n to [1, MaxLimit]
func ClampLimit(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// ParseLimit parses a limit query value; empty input yields def
func ParseLimit(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ClampLimit(def), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid limit %q: must be an integer", s)
	}
	return ClampLimit(n), nil
}
