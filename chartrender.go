package main

import (
	"fmt"
	"html/template"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	chartrender "github.com/go-echarts/go-echarts/v2/render"
)

const (
	echartsDateFormat = "2006-01-02"
	heatmapColorSteps = 21
)

type echartsChart interface {
	RenderSnippet() chartrender.ChartSnippet
	GetAssets() opts.Assets
}

// RenderedChart is a chart ready to drop into a page, plus the scripts the
// page must load for it.
type RenderedChart struct {
	HTML    template.HTML
	Scripts []string
}

// chartView is what the page script needs to switch a chart's view: which
// series ids to show and the title to put up.
type chartView struct {
	Label string          `json:"label"`
	Title string          `json:"title"`
	Show  map[string]bool `json:"show"`
}

type chartSnippet struct {
	ID          string
	LegendTitle string
	Element     template.HTML
	Script      template.HTML
	Views       []chartView
	Active      int
	Top         []template.HTML
	Bottom      []template.HTML
}

// renderToHtml turns a ChartSpec into an echarts snippet wrapped in the
// _chart template: view selector, annotations and the chart element itself.
func renderToHtml(deps *Dependencies, spec ChartSpec) (RenderedChart, error) {
	sublog := deps.logger

	c, err := echartsFor(spec, deps.config.Dashboard.AssetsHost)
	if err != nil {
		sublog.Error().Err(err).Str("chart", spec.ID).Msg("failed to build chart")
		return RenderedChart{}, err
	}
	snippet := c.RenderSnippet()

	data := chartSnippet{
		ID:          spec.ID,
		LegendTitle: spec.LegendTitle,
		Element:     template.HTML(snippet.Element),
		Script:      template.HTML(snippet.Script),
	}
	if spec.Views != nil {
		data.Views = chartViews(spec)
		data.Active = spec.Views.Active
	}
	for _, a := range spec.Annotations {
		if a.Position == AnnotationTop {
			data.Top = append(data.Top, renderMarkdown(a.Text))
		} else {
			data.Bottom = append(data.Bottom, renderMarkdown(a.Text))
		}
	}

	buf := deps.bufpool.Get()
	defer deps.bufpool.Put(buf)

	if err := deps.templates.ExecuteTemplate(buf, "_chart", data); err != nil {
		sublog.Error().Err(err).Str("chart", spec.ID).Msg("failed to execute chart template")
		return RenderedChart{}, err
	}

	return RenderedChart{
		HTML:    template.HTML(buf.String()),
		Scripts: c.GetAssets().JSAssets.Values,
	}, nil
}

func chartViews(spec ChartSpec) []chartView {
	views := make([]chartView, 0, len(spec.Views.Options))
	for _, opt := range spec.Views.Options {
		show := make(map[string]bool, len(spec.Series))
		for i, s := range spec.Series {
			show[s.ID] = i < len(opt.Visible) && opt.Visible[i]
		}
		views = append(views, chartView{Label: opt.Label, Title: opt.Title, Show: show})
	}
	return views
}

func echartsFor(spec ChartSpec, assetsHost string) (echartsChart, error) {
	switch spec.Kind {
	case ChartLine:
		return lineChart(spec, assetsHost), nil
	case ChartBubble:
		return bubbleChart(spec, assetsHost), nil
	case ChartHeatmap:
		if spec.Heatmap == nil {
			return nil, fmt.Errorf("%w: heatmap %q has no grid", ErrUnknownChart, spec.ID)
		}
		return heatmapChart(spec, assetsHost), nil
	}
	return nil, fmt.Errorf("%w: kind %q", ErrUnknownChart, spec.Kind)
}

func globalOpts(spec ChartSpec, assetsHost string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:      fmt.Sprintf("%dpx", spec.Width),
			Height:     fmt.Sprintf("%dpx", spec.Height),
			ChartID:    spec.ID,
			PageTitle:  spec.Title,
			AssetsHost: assetsHost,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: spec.Title,
			Left:  "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: "{b}",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(len(spec.Legend) > 0),
			Type:   "scroll",
			Orient: "vertical",
			Right:  "0",
			Top:    "middle",
			Data:   spec.Legend,
		}),
		charts.WithGridOpts(opts.Grid{
			Left:         "60",
			Right:        "200",
			Top:          "80",
			Bottom:       "80",
			ContainLabel: opts.Bool(true),
		}),
	}
}

func xAxisOpts(a Axis) opts.XAxis {
	x := opts.XAxis{
		Name:         a.Title,
		NameLocation: "middle",
		NameGap:      45,
		Type:         string(a.Type),
		AxisLabel:    &opts.AxisLabel{Show: opts.Bool(true), Rotate: float64(-a.LabelAngle)},
	}
	if a.Min.Valid {
		x.Min = a.Min.Float64
	}
	if a.Max.Valid {
		x.Max = a.Max.Float64
	}
	return x
}

func yAxisOpts(a Axis) opts.YAxis {
	y := opts.YAxis{
		Name:         a.Title,
		NameLocation: "middle",
		NameGap:      60,
		Type:         string(a.Type),
		AxisLabel:    &opts.AxisLabel{Show: opts.Bool(true)},
	}
	if a.Min.Valid {
		y.Min = a.Min.Float64
	}
	if a.Max.Valid {
		y.Max = a.Max.Float64
	}
	return y
}

func dashType(dash bool) string {
	if dash {
		return "dashed"
	}
	return "solid"
}

// xValue places a point on a time or value axis.
func xValue(p Point, axis AxisType) interface{} {
	if axis == AxisTime {
		return p.Time.Format(echartsDateFormat)
	}
	return p.X
}

// yValue is the point's y, or echarts' empty marker for a gap.
func yValue(p Point) interface{} {
	if !p.Y.Valid {
		return "-"
	}
	return p.Y.Float64
}

func lineData(s Series, axis AxisType) []opts.LineData {
	data := make([]opts.LineData, 0, len(s.Points))
	for _, p := range s.Points {
		data = append(data, opts.LineData{Name: p.Hover, Value: []interface{}{xValue(p, axis), yValue(p)}})
	}
	return data
}

func lineSeriesOpts(s Series) []charts.SeriesOpts {
	return []charts.SeriesOpts{
		charts.WithSeriesId(s.ID),
		charts.WithLineChartOpts(opts.LineChart{
			YAxisIndex: s.Axis,
			ShowSymbol: opts.Bool(s.Kind == SeriesLine),
		}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color, Width: float32(s.Width), Type: dashType(s.Dash)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
	}
}

// bandEdge is one corner of a horizontal mark area.
type bandEdge struct {
	YAxis     float64         `json:"yAxis"`
	ItemStyle *opts.ItemStyle `json:"itemStyle,omitempty"`
}

func bandSeriesOpts(spec ChartSpec) []charts.SeriesOpts {
	areas := make([]interface{}, 0, len(spec.Bands))
	for _, b := range spec.Bands {
		areas = append(areas, []bandEdge{
			{YAxis: b.From, ItemStyle: &opts.ItemStyle{Color: b.Color, Opacity: opts.Float(float32(b.Opacity))}},
			{YAxis: b.To},
		})
	}
	return []charts.SeriesOpts{
		charts.WithSeriesId(spec.ID + "-bands"),
		charts.WithSeriesOpts(func(s *charts.SingleSeries) {
			s.MarkAreas = &opts.MarkAreas{
				Data:          areas,
				MarkAreaStyle: opts.MarkAreaStyle{Label: &opts.Label{Show: opts.Bool(false)}},
			}
		}),
	}
}

func lineChart(spec ChartSpec, assetsHost string) *charts.Line {
	line := charts.NewLine()

	yAxis := spec.YAxis
	if n := len(spec.Bands); n > 0 && !yAxis.Max.Valid {
		yAxis.Max.SetValid(spec.Bands[n-1].To)
	}

	line.SetGlobalOptions(globalOpts(spec, assetsHost)...)
	line.SetGlobalOptions(
		charts.WithXAxisOpts(xAxisOpts(spec.XAxis)),
		charts.WithYAxisOpts(yAxisOpts(yAxis)),
	)
	if spec.Y2Axis != nil {
		y2 := yAxisOpts(*spec.Y2Axis)
		y2.Position = "right"
		line.ExtendYAxis(y2)
	}

	if len(spec.Bands) > 0 {
		line.AddSeries("bands", []opts.LineData{}, bandSeriesOpts(spec)...)
	}
	for _, s := range spec.Series {
		line.AddSeries(s.LegendName(), lineData(s, spec.XAxis.Type), lineSeriesOpts(s)...)
	}
	return line
}

// bubbleChart puts marker series on a scatter chart and overlays the
// reference rules as line series on the same axes.
func bubbleChart(spec ChartSpec, assetsHost string) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(globalOpts(spec, assetsHost)...)
	scatter.SetGlobalOptions(
		charts.WithXAxisOpts(xAxisOpts(spec.XAxis)),
		charts.WithYAxisOpts(yAxisOpts(spec.YAxis)),
	)

	rules := charts.NewLine()
	for _, s := range spec.Series {
		if s.Kind == SeriesRule {
			rules.AddSeries(s.LegendName(), lineData(s, spec.XAxis.Type), lineSeriesOpts(s)...)
			continue
		}
		data := make([]opts.ScatterData, 0, len(s.Points))
		for _, p := range s.Points {
			data = append(data, opts.ScatterData{
				Name:       p.Hover,
				Value:      []interface{}{p.X, yValue(p), p.Text},
				SymbolSize: int(math.Round(p.Size)),
			})
		}
		scatter.AddSeries(s.LegendName(), data,
			charts.WithSeriesId(s.ID),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color, BorderColor: "#000000", BorderWidth: 1}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top", Color: s.Color, Formatter: "{@[2]}"}),
		)
	}
	scatter.Overlap(rules)
	return scatter
}

func heatmapChart(spec ChartSpec, assetsHost string) *charts.HeatMap {
	grid := spec.Heatmap
	hm := charts.NewHeatMap()

	zmax := grid.Max
	if zmax <= grid.Min {
		zmax = grid.Min + 1
	}

	x := xAxisOpts(spec.XAxis)
	x.Data = grid.Columns
	x.SplitArea = &opts.SplitArea{Show: opts.Bool(false)}
	y := yAxisOpts(spec.YAxis)
	y.Data = grid.Rows
	y.Inverse = opts.Bool(true)

	hm.SetGlobalOptions(globalOpts(spec, assetsHost)...)
	hm.SetGlobalOptions(
		charts.WithXAxisOpts(x),
		charts.WithYAxisOpts(y),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(grid.Min),
			Max:        float32(zmax),
			Text:       []string{grid.Label},
			Orient:     "vertical",
			Right:      "0",
			Top:        "middle",
			InRange:    &opts.VisualMapInRange{Color: gradientSamples(grid.Stops, heatmapColorSteps)},
		}),
	)

	data := make([]opts.HeatMapData, 0, len(grid.Rows)*len(grid.Columns))
	for i, company := range grid.Rows {
		for j, quarter := range grid.Columns {
			cell := grid.Cells[i][j]
			if !cell.Valid {
				data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, "-"}})
				continue
			}
			data = append(data, opts.HeatMapData{
				Name:  fmt.Sprintf("Company: %s<br>Quarter: %s<br>CCP/LTD: %s", company, quarter, FormatRatio(cell.Float64)),
				Value: [3]interface{}{j, i, cell.Float64},
			})
		}
	}
	hm.AddSeries(grid.Label, data,
		charts.WithSeriesId(spec.ID),
		charts.WithItemStyleOpts(opts.ItemStyle{BorderColor: "#ffffff", BorderWidth: 2}),
	)
	return hm
}
