package main

import (
	"math"
	"sort"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCashDebtChart(t *testing.T) {
	rs, colors := samplePrepared()
	spec := buildCashDebtChart(rs, colors)

	assert.Equal(t, "CCP and LTD by Company", spec.Title)
	assert.Equal(t, ChartLine, spec.Kind)
	assert.Equal(t, "Quarter", spec.XAxis.Title)
	assert.Equal(t, "USD (Millions)", spec.YAxis.Title)
	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, spec.Legend)
	require.Len(t, spec.Series, 6)

	// CCP first on the left axis, then LTD dashed on the right
	for i, s := range spec.Series {
		if i < 3 {
			assert.Equal(t, 0, s.Axis, s.ID)
			assert.False(t, s.Dash, s.ID)
			assert.Equal(t, "CCP", s.View)
		} else {
			assert.Equal(t, 1, s.Axis, s.ID)
			assert.True(t, s.Dash, s.ID)
			assert.Equal(t, "LTD", s.View)
		}
		assert.Equal(t, s.Name, s.LegendName())
		assert.Equal(t, colors.Lookup(s.Name), s.Color)
	}
	assert.Equal(t, "AAA CCP", spec.Series[0].ID)
	assert.Equal(t, "AAA LTD", spec.Series[3].ID)

	// shared, padded range over both metrics: [0, 400] padded by 40
	require.NotNil(t, spec.Y2Axis)
	assert.Equal(t, null.FloatFrom(-40), spec.YAxis.Min)
	assert.Equal(t, null.FloatFrom(440), spec.YAxis.Max)
	assert.Equal(t, spec.YAxis.Min, spec.Y2Axis.Min)
	assert.Equal(t, spec.YAxis.Max, spec.Y2Axis.Max)

	p := spec.Series[0].Points[0]
	assert.Equal(t, "Company: AAA<br>Quarter: 2024Q1<br>CCP: $ 200 M", p.Hover)
	assert.Equal(t, 2024, p.Time.Year())

	// undated records never reach a time axis
	assert.Len(t, spec.Series[2].Points, 1)

	require.NotNil(t, spec.Views)
	assert.Equal(t, 2, spec.Views.Active)
	labels := make([]string, 0)
	for _, o := range spec.Views.Options {
		labels = append(labels, o.Label)
	}
	assert.Equal(t, []string{"CCP", "LTD", "CCP & LTD"}, labels)
	assert.Equal(t, []bool{true, true, true, false, false, false}, spec.Views.Options[0].Visible)
	assert.Equal(t, []bool{false, false, false, true, true, true}, spec.Views.Options[1].Visible)
	for _, s := range spec.Series {
		assert.True(t, s.Visible)
	}
}

func TestBuildCoverageChart(t *testing.T) {
	rs, colors := samplePrepared()
	spec := buildCoverageChart(rs, colors)

	assert.Equal(t, []string{"Alpha Inc", "Beta Corp", "Gamma LLC"}, spec.Legend)
	require.Len(t, spec.Series, 3)

	alpha := spec.Series[0]
	require.Len(t, alpha.Points, 2)
	assert.Equal(t, null.FloatFrom(2.0), alpha.Points[0].Y)
	assert.Equal(t, null.FloatFrom(3.0), alpha.Points[1].Y)
	assert.Equal(t, "Company: Alpha Inc<br>Quarter: 2024Q1<br>Debt Coverage: 2.00", alpha.Points[0].Hover)

	// no debt in Q2: the point is a gap
	beta := spec.Series[1]
	require.Len(t, beta.Points, 2)
	assert.False(t, beta.Points[1].Y.Valid)

	require.Len(t, spec.Bands, 4)
	assert.Equal(t, Band{From: 0, To: 0.2, Color: "#F28E8C", Opacity: 0.25}, spec.Bands[0])
	assert.Equal(t, Band{From: 0.2, To: 0.5, Color: "#F7C600", Opacity: 0.25}, spec.Bands[1])
	assert.Equal(t, Band{From: 0.5, To: 1.0, Color: "#B9DCD2", Opacity: 0.25}, spec.Bands[2])
	assert.Equal(t, Band{From: 1.0, To: 3.0, Color: "#7FA6A3", Opacity: 0.25}, spec.Bands[3])
}

func TestCoverageBands_TopReachesAtLeast(t *testing.T) {
	bands := coverageBands(0.4)
	assert.Equal(t, 1.2, bands[3].To)
	bands = coverageBands(2.5)
	assert.Equal(t, 2.5, bands[3].To)
}

func TestBuildHeatmapChart(t *testing.T) {
	rs, _ := samplePrepared()
	spec := buildHeatmapChart(rs)

	require.NotNil(t, spec.Heatmap)
	grid := spec.Heatmap
	assert.Equal(t, []string{"Alpha Inc", "Beta Corp", "Gamma LLC"}, grid.Rows)
	assert.Equal(t, []string{" ", "2023-Q4", "2024-Q1", "2024-Q2"}, grid.Columns)
	require.Len(t, grid.Cells, 3)

	for _, row := range grid.Cells {
		require.Len(t, row, 4)
		assert.False(t, row[0].Valid, "leading column stays blank")
	}
	assert.Equal(t, null.FloatFrom(2.0), grid.Cells[0][2])
	assert.Equal(t, null.FloatFrom(3.0), grid.Cells[0][3])
	assert.Equal(t, null.FloatFrom(0.1), grid.Cells[1][2])
	assert.False(t, grid.Cells[1][3].Valid)
	assert.Equal(t, null.FloatFrom(1.5), grid.Cells[2][1])
	assert.False(t, grid.Cells[2][2].Valid)

	assert.Equal(t, 0.0, grid.Min)
	assert.Equal(t, 3.0, grid.Max)
	assert.Equal(t, coverageStops, grid.Stops)
}

func TestBuildHeatmapChart_FirstRecordWins(t *testing.T) {
	rs := prepareRecords([]FinancialRecord{
		{Symbol: "AAA", CompanyName: "Alpha Inc", ReportQuarter: "Q1 2024", CCP: 100, LTD: 100},
		{Symbol: "AAA", CompanyName: "Alpha Inc", ReportQuarter: "2024Q1", CCP: 500, LTD: 100},
	})
	spec := buildHeatmapChart(rs)
	assert.Equal(t, null.FloatFrom(1.0), spec.Heatmap.Cells[0][1])
}

func TestGradientSamples(t *testing.T) {
	samples := gradientSamples(coverageStops, 11)
	require.Len(t, samples, 11)
	assert.Equal(t, "#f28e8c", samples[0])
	assert.Equal(t, "#f7c600", samples[2])
	assert.Equal(t, "#b9dcd2", samples[5])
	assert.Equal(t, "#7fa6a3", samples[10])

	assert.Nil(t, gradientSamples(nil, 5))
	assert.Equal(t, []string{"#F28E8C"}, gradientSamples(coverageStops, 1))
}

func TestBuildBubbleChart(t *testing.T) {
	rs, colors := samplePrepared()
	spec := buildBubbleChart(rs, colors)

	assert.Equal(t, ChartBubble, spec.Kind)
	assert.Equal(t, bubbleTitleMedian, spec.Title)
	assert.Equal(t, []string{"Alpha Inc", "Beta Corp", "Gamma LLC"}, spec.Legend)

	// 5 company-quarter bubbles, 3 quarter crosshairs, 3 company medians, global crosshair
	require.Len(t, spec.Series, 5+3*2+3+2)

	require.NotNil(t, spec.Views)
	require.Len(t, spec.Views.Options, 4)
	assert.Equal(t, "All Quarters (Median)", spec.Views.Options[0].Label)
	assert.Equal(t, "2023-Q4", spec.Views.Options[1].Label)
	assert.Equal(t, "Debt vs Liquid Assets: 2024-Q2", spec.Views.Options[3].Title)
	assert.Equal(t, 0, spec.Views.Active)

	visible := 0
	for _, s := range spec.Series {
		if s.Visible {
			visible++
			assert.Equal(t, medianView, s.View, s.ID)
		}
	}
	assert.Equal(t, 5, visible)

	require.Len(t, spec.Annotations, 1)
	assert.Equal(t, AnnotationTop, spec.Annotations[0].Position)
}

func TestBuildBubbleChart_GlobalMedianRules(t *testing.T) {
	rs, colors := samplePrepared()
	spec := buildBubbleChart(rs, colors)

	var ccpRule, ltdRule Series
	for _, s := range spec.Series {
		switch s.ID {
		case "Global Median CCP":
			ccpRule = s
		case "Global Median LTD":
			ltdRule = s
		}
	}
	require.Len(t, ccpRule.Points, 2)
	require.Len(t, ltdRule.Points, 2)

	assert.Equal(t, SeriesRule, ccpRule.Kind)
	assert.Equal(t, 90.0, ccpRule.Points[0].X)
	assert.Equal(t, 0.0, ccpRule.Points[0].Y.Float64)
	assert.InDelta(t, 440.0, ccpRule.Points[1].Y.Float64, 1e-9)

	assert.Equal(t, 100.0, ltdRule.Points[0].Y.Float64)
	assert.InDelta(t, 330.0, ltdRule.Points[1].X, 1e-9)
}

func TestBuildBubbleChart_SizesFollowCoverage(t *testing.T) {
	rs, colors := samplePrepared()
	spec := buildBubbleChart(rs, colors)

	type bubble struct {
		coverage float64
		size     float64
	}
	bubbles := make([]bubble, 0)
	for _, s := range spec.Series {
		if s.Kind != SeriesMarkers || s.View == medianView {
			continue
		}
		p := s.Points[0]
		assert.GreaterOrEqual(t, p.Size, float64(bubbleMinSize))
		assert.LessOrEqual(t, p.Size, float64(bubbleMaxSize))
		if p.Y.Float64 == 0 {
			assert.Equal(t, float64(bubbleMinSize), p.Size, "no coverage ratio gets the smallest bubble")
			continue
		}
		bubbles = append(bubbles, bubble{p.X / p.Y.Float64, p.Size})
	}
	require.Len(t, bubbles, 4)

	sort.Slice(bubbles, func(i, j int) bool { return bubbles[i].coverage < bubbles[j].coverage })
	for i := 1; i < len(bubbles); i++ {
		assert.LessOrEqual(t, bubbles[i-1].size, bubbles[i].size)
	}
	assert.Equal(t, float64(bubbleMinSize), bubbles[0].size)
	assert.Equal(t, float64(bubbleMaxSize), bubbles[len(bubbles)-1].size)
}

func TestScaleSizes(t *testing.T) {
	sizes := scaleSizes([]null.Float{null.FloatFrom(1), null.FloatFrom(1)}, 10, 50)
	assert.InDelta(t, math.Sqrt(1300), sizes[0], 1e-9)
	assert.Equal(t, sizes[0], sizes[1])

	sizes = scaleSizes([]null.Float{null.FloatFrom(0), {}, null.FloatFrom(2), null.FloatFrom(1)}, 10, 50)
	assert.Equal(t, 10.0, sizes[0])
	assert.Equal(t, 10.0, sizes[1])
	assert.Equal(t, 50.0, sizes[2])

	// area, not diameter, sits halfway between the extremes
	area := func(d float64) float64 { return d * d }
	assert.InDelta(t, (area(10)+area(50))/2, area(sizes[3]), 1e-9)
}

func TestMedian(t *testing.T) {
	assert.False(t, median(nil).Valid)
	assert.Equal(t, 2.0, median(floats([]float64{3, 1, 2})).Float64)
	assert.Equal(t, 2.5, median(floats([]float64{4, 1, 2, 3})).Float64)
	assert.Equal(t, 1.0, median([]null.Float{{}, null.FloatFrom(1)}).Float64)
}

func TestAddAnnotation(t *testing.T) {
	spec := ChartSpec{}
	addAnnotation(&spec, "above", "top")
	addAnnotation(&spec, "below", "bottom")
	addAnnotation(&spec, "anywhere", "sideways")

	require.Len(t, spec.Annotations, 3)
	assert.Equal(t, Annotation{Text: "above", Position: AnnotationTop, Y: 1.12, Anchor: "bottom"}, spec.Annotations[0])
	assert.Equal(t, Annotation{Text: "below", Position: AnnotationBottom, Y: -0.20, Anchor: "top"}, spec.Annotations[1])
	assert.Equal(t, AnnotationBottom, spec.Annotations[2].Position)
}

func TestApplyView(t *testing.T) {
	rs, colors := samplePrepared()
	spec := buildBubbleChart(rs, colors)

	spec.applyView(1)
	assert.Equal(t, 1, spec.Views.Active)
	assert.Equal(t, "Debt vs Liquid Assets: 2023-Q4", spec.Title)
	for _, s := range spec.Series {
		assert.Equal(t, s.View == "2023-Q4", s.Visible, s.ID)
	}

	// out of range is ignored
	spec.applyView(99)
	assert.Equal(t, 1, spec.Views.Active)

	// annotations are not part of any view
	assert.Len(t, spec.Annotations, 1)
}
