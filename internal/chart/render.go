package chart

import (
	"errors"
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNotEnoughPoints is returned when no series has two points to draw a line through
var ErrNotEnoughPoints = errors.New("chart: not enough points to render")

// Palette is the line color cycle, in series order
var Palette = []drawing.Color{
	drawing.ColorFromHex("FF9900"), // orange
	drawing.ColorFromHex("3366CC"), // blue
	drawing.ColorFromHex("DC3912"), // red
	drawing.ColorFromHex("000000"), // black
	drawing.ColorFromHex("109618"), // green
}

// RenderOptions controls the SVG output size
type RenderOptions struct {
	Width  int
	Height int
	Title  string
}

// DefaultRenderOptions is used by RenderSVG
var DefaultRenderOptions = RenderOptions{Width: 1024, Height: 420, Title: "Net portfolio value"}

// RenderSVG writes the chart as SVG
func RenderSVG(w io.Writer, c Chart) error {
	return Render(w, c, DefaultRenderOptions)
}

// Render draws one line per series; rows where a series is absent are bridged
func Render(w io.Writer, c Chart, opts RenderOptions) error {
	if !c.Drawable() {
		return ErrNotEnoughPoints
	}

	var series []gochart.Series
	lo, hi := math.Inf(1), math.Inf(-1)

	for i, name := range c.Series {
		xs, ys := c.SeriesPoints(name)
		if len(xs) == 0 {
			continue
		}
		for _, y := range ys {
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}

		color := Palette[i%len(Palette)]
		series = append(series, gochart.TimeSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    2,
			},
		})
	}

	yAxis := gochart.YAxis{
		ValueFormatter: func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("$%.0f", f)
			}
			return ""
		},
	}
	// flat lines have a zero y-range, which go-chart rejects
	if hi-lo == 0 {
		pad := math.Max(1, math.Abs(hi)*0.01)
		yAxis.Range = &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	}

	ch := gochart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      gochart.XAxis{ValueFormatter: gochart.TimeValueFormatterWithFormat("01-02 15:04")},
		YAxis:      yAxis,
		Series:     series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	if err := ch.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
