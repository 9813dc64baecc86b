// Package chart renders a suite's pass/fail split as a donut chart image.
package chart

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mindsgn-studio/passrate/metrics"
	"github.com/mindsgn-studio/passrate/report"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

const (
	DefaultWidth  = 512
	DefaultHeight = 512

	centerFontSize = 16
	legendFontSize = 12
	legendSwatch   = 12
)

// Options controls the rendered image size.
type Options struct {
	Width  int
	Height int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// Donut builds the go-chart donut for one suite. Slices with a zero value are
// dropped by go-chart, so a suite with no failures renders as a single ring.
func Donut(data report.ChartData, opts Options) gochart.DonutChart {
	opts = opts.withDefaults()

	values := make([]gochart.Value, 0, len(data.Slices))
	for _, s := range data.Slices {
		color := hexColor(s.Color)
		values = append(values, gochart.Value{
			Label: metrics.FormatPercent(s.Pct),
			Value: float64(s.Value),
			Style: gochart.Style{
				FillColor:   color,
				StrokeColor: gochart.ColorWhite,
				StrokeWidth: 2,
				FontSize:    legendFontSize,
				FontColor:   gochart.ColorWhite,
			},
		})
	}

	return gochart.DonutChart{
		Title:  data.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Values: values,
		Elements: []gochart.Renderable{
			centerLabel(data.CenterLabel),
			legend(data.Slices),
		},
	}
}

// Render writes the donut for data to w in the given format.
func Render(w io.Writer, data report.ChartData, format string, opts Options) error {
	var rp gochart.RendererProvider
	switch format {
	case FormatSVG:
		rp = gochart.SVG
	case FormatPNG:
		rp = gochart.PNG
	default:
		return fmt.Errorf("chart.Render: unknown format %q", format)
	}
	d := Donut(data, opts)
	if err := d.Render(rp, w); err != nil {
		return fmt.Errorf("chart.Render: %s: %w", data.Title, err)
	}
	return nil
}

// SVG renders the donut for data as an SVG document.
func SVG(data report.ChartData, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, data, FormatSVG, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatFromPath picks the output format from a file suffix.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return FormatSVG, nil
	case ".png":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unhandled chart file type: %s", path)
}

func hexColor(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

// centerLabel draws text in the middle of the donut hole.
func centerLabel(text string) gochart.Renderable {
	return func(r gochart.Renderer, canvasBox gochart.Box, defaults gochart.Style) {
		if text == "" {
			return
		}
		style := gochart.Style{
			FontSize:  centerFontSize,
			FontColor: gochart.ColorBlack,
		}.InheritFrom(defaults)
		style.WriteTextOptionsToRenderer(r)

		cx, cy := canvasBox.Center()
		tb := r.MeasureText(text)
		r.Text(text, cx-tb.Width()>>1, cy+tb.Height()>>1)
	}
}

// legend draws a horizontal swatch legend in the top right corner.
func legend(slices []report.Slice) gochart.Renderable {
	return func(r gochart.Renderer, canvasBox gochart.Box, defaults gochart.Style) {
		style := gochart.Style{
			FontSize:  legendFontSize,
			FontColor: gochart.ColorBlack,
		}.InheritFrom(defaults)

		x := canvasBox.Right
		y := canvasBox.Top - legendSwatch
		for i := len(slices) - 1; i >= 0; i-- {
			s := slices[i]
			style.WriteTextOptionsToRenderer(r)
			tb := r.MeasureText(s.Label)
			x -= tb.Width()
			r.Text(s.Label, x, y+legendSwatch)

			x -= legendSwatch + 4
			r.SetFillColor(hexColor(s.Color))
			r.SetStrokeColor(hexColor(s.Color))
			r.SetStrokeWidth(1)
			r.MoveTo(x, y)
			r.LineTo(x+legendSwatch, y)
			r.LineTo(x+legendSwatch, y+legendSwatch)
			r.LineTo(x, y+legendSwatch)
			r.Close()
			r.FillStroke()
			x -= 12
		}
	}
}
