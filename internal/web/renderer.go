package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/wonny/arena/internal/contracts"
	"github.com/wonny/arena/internal/leaderboard"
)

//go:embed templates/*
var templateFS embed.FS

// Renderer executes the embedded page templates
// ⭐ SSOT: HTML 템플릿은 여기서만 로드
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"pct":     FormatPercent,
		"usd":     FormatUSD,
		"time":    FormatTime,
		"sign":    Sign,
		"badge":   leaderboard.ProviderBadge,
		"toupper": strings.ToUpper,
		"stamp": func(raw string) string {
			return FormatTimestamp(raw, contracts.ParseTime)
		},
		"inc": func(i int) int { return i + 1 },
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{templates: tmpl}, nil
}

// Render executes the named page into w.
// Output is buffered so a template error never leaves a half-written page.
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
