package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// exportPNG draws the visible series of a line or bubble chart as a static
// PNG. Bands, annotations and view selectors are interactive-only and are
// not drawn. Heatmaps have no static rendering.
func exportPNG(spec ChartSpec, w io.Writer) error {
	if spec.Kind == ChartHeatmap {
		return fmt.Errorf("%w: %s", ErrExportUnsupported, spec.ID)
	}

	graph := chart.Chart{
		Title:  spec.Title,
		Width:  spec.Width,
		Height: spec.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name:  spec.XAxis.Title,
			Range: exportRange(spec.XAxis),
		},
		YAxis: chart.YAxis{
			Name:           spec.YAxis.Title,
			Range:          exportRange(spec.YAxis),
			ValueFormatter: exportValueFormatter(spec.YAxis),
		},
	}
	if spec.XAxis.Type == AxisTime {
		graph.XAxis.TickPosition = chart.TickPositionBetweenTicks
		graph.XAxis.ValueFormatter = exportQuarterLabel
	}
	if spec.Y2Axis != nil {
		graph.YAxisSecondary = chart.YAxis{
			Range:          exportRange(*spec.Y2Axis),
			ValueFormatter: exportValueFormatter(*spec.Y2Axis),
		}
	}

	for _, s := range spec.Series {
		if !s.Visible {
			continue
		}
		graph.Series = append(graph.Series, exportSeries(s, spec.XAxis.Type)...)
	}
	if len(graph.Series) == 0 {
		return fmt.Errorf("chart %s has no visible series to export", spec.ID)
	}

	if spec.Kind == ChartLine {
		graph.Elements = []chart.Renderable{
			chart.LegendLeft(&graph),
		}
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

func exportValueFormatter(a Axis) chart.ValueFormatter {
	format := FormatAmount
	if a.Ratio {
		format = FormatRatio
	}
	return func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return format(f)
		}
		return ""
	}
}

// exportQuarterLabel names a time tick by its calendar quarter. Points sit on
// quarter starts, so the filing grace window must not apply here.
func exportQuarterLabel(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	return QuarterContaining(chart.TimeFromFloat64(f).UTC()).DisplayLabel()
}

func exportRange(a Axis) chart.Range {
	if !a.Min.Valid || !a.Max.Valid {
		return nil
	}
	return &chart.ContinuousRange{Min: a.Min.Float64, Max: a.Max.Float64}
}

// exportSeries converts one series. Lines are split at gaps since go-chart
// has no notion of a missing value; only the first segment carries the name.
func exportSeries(s Series, axis AxisType) []chart.Series {
	style := chart.Style{
		StrokeColor: exportColor(s.Color),
		StrokeWidth: s.Width,
	}
	if s.Dash {
		style.StrokeDashArray = []float64{5.0, 3.0}
	}
	yAxis := chart.YAxisPrimary
	if s.Axis == 1 {
		yAxis = chart.YAxisSecondary
	}

	if s.Kind == SeriesMarkers {
		xs := make([]float64, 0, len(s.Points))
		ys := make([]float64, 0, len(s.Points))
		for _, p := range s.Points {
			if !p.Y.Valid {
				continue
			}
			xs = append(xs, p.X)
			ys = append(ys, p.Y.Float64)
		}
		if len(xs) == 0 {
			return nil
		}
		size := s.Points[0].Size / 2
		return []chart.Series{chart.ContinuousSeries{
			Name: s.Name,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotColor:    exportColor(s.Color),
				DotWidth:    size,
			},
			XValues: xs,
			YValues: ys,
		}}
	}

	out := make([]chart.Series, 0, 1)
	var times []time.Time
	var xs, ys []float64
	flush := func() {
		if len(ys) == 0 {
			return
		}
		name := ""
		if len(out) == 0 {
			name = s.LegendName()
		}
		if axis == AxisTime {
			out = append(out, chart.TimeSeries{Name: name, Style: style, YAxis: yAxis, XValues: times, YValues: ys})
		} else {
			out = append(out, chart.ContinuousSeries{Name: name, Style: style, YAxis: yAxis, XValues: xs, YValues: ys})
		}
		times, xs, ys = nil, nil, nil
	}
	for _, p := range s.Points {
		if !p.Y.Valid {
			flush()
			continue
		}
		times = append(times, p.Time)
		xs = append(xs, p.X)
		ys = append(ys, p.Y.Float64)
	}
	flush()
	return out
}

func exportColor(c string) drawing.Color {
	if strings.HasPrefix(c, "#") {
		return drawing.ColorFromHex(c)
	}
	return drawing.ColorFromKnown(c)
}
