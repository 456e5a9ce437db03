// Package charts renders population line charts with go-chart.
package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/couchcryptid/population-dashboard/internal/domain"
)

// Format is an image encoding supported by the renderer.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat maps a file extension ("svg", "png") to a Format.
func ParseFormat(ext string) (Format, error) {
	switch Format(ext) {
	case SVG, PNG:
		return Format(ext), nil
	default:
		return "", fmt.Errorf("unsupported chart format %q", ext)
	}
}

// ContentType returns the MIME type of the encoded image.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}
	return chart.SVG
}

// Options controls the chart canvas.
type Options struct {
	Title  string
	Width  int
	Height int
}

// Line draws one line per region over the rows of t, with quarters on the
// x axis. Only the first and last quarters are labelled.
func Line(w io.Writer, t *domain.Table, regions []string, format Format, opts Options) error {
	if t.Len() == 0 {
		return fmt.Errorf("no rows to plot")
	}
	if len(regions) == 0 {
		return fmt.Errorf("no regions to plot")
	}

	labels := t.Labels()
	xs := make([]float64, len(labels))
	for i, l := range labels {
		xs[i] = domain.QuarterOrdinal(l)
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	series := make([]chart.Series, 0, len(regions))
	for i, region := range regions {
		col, err := t.Column(region)
		if err != nil {
			return err
		}
		ys := make([]float64, len(col))
		for k, v := range col {
			ys[k] = float64(v)
			minY = math.Min(minY, ys[k])
			maxY = math.Max(maxY, ys[k])
		}
		style := chart.Style{
			StrokeColor: chart.GetDefaultColor(i),
			StrokeWidth: 2,
		}
		if len(xs) == 1 {
			style.DotColor = style.StrokeColor
			style.DotWidth = 4
		}
		series = append(series, chart.ContinuousSeries{
			Name:    region,
			Style:   style,
			XValues: xs,
			YValues: ys,
		})
	}

	c := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  "Time",
			Ticks: xTicks(labels, xs),
		},
		YAxis: chart.YAxis{
			Name:           "Population",
			ValueFormatter: populationFormatter,
			Range:          flatRange(minY, maxY),
		},
		Series: series,
	}
	if len(regions) > 1 {
		c.Elements = []chart.Renderable{chart.Legend(&c)}
	}

	return c.Render(format.provider(), w)
}

// xTicks labels the first and last quarter. A single quarter is padded on
// both sides because go-chart rejects a zero-width x range.
func xTicks(labels []string, xs []float64) []chart.Tick {
	first, last := 0, len(labels)-1
	if first == last {
		return []chart.Tick{
			{Value: xs[0] - 0.25},
			{Value: xs[0], Label: labels[0]},
			{Value: xs[0] + 0.25},
		}
	}
	return []chart.Tick{
		{Value: xs[first], Label: labels[first]},
		{Value: xs[last], Label: labels[last]},
	}
}

// flatRange returns an explicit y range when every value is identical, which
// go-chart would otherwise reject. Nil lets go-chart fit the data.
func flatRange(minY, maxY float64) chart.Range {
	if minY != maxY {
		return nil
	}
	pad := math.Max(1, math.Abs(minY)*0.01)
	return &chart.ContinuousRange{Min: minY - pad, Max: maxY + pad}
}

func populationFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return humanize.Comma(int64(math.Round(f)))
	}
	return fmt.Sprint(v)
}
