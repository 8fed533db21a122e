package leaderboard

import (
	"strings"
	"unicode/utf8"
)

// Badge is the avatar next to a model name
type Badge struct {
	Provider string `json:"provider,omitempty"` // icon slug, empty when unknown
	Initials string `json:"initials"`
}

var providers = []struct {
	needle string
	slug   string
}{
	{"claude", "anthropic"},
	{"deepseek", "deepseek"},
	{"qwen", "alibabacloud"},
}

// ProviderBadge maps a model name to its provider icon, falling back to initials
func ProviderBadge(name string) Badge {
	lower := strings.ToLower(name)
	b := Badge{Initials: initials(name)}
	for _, p := range providers {
		if strings.Contains(lower, p.needle) {
			b.Provider = p.slug
			break
		}
	}
	return b
}

func initials(name string) string {
	if utf8.RuneCountInString(name) <= 2 {
		return strings.ToUpper(name)
	}
	runes := []rune(name)
	return strings.ToUpper(string(runes[:2]))
}
