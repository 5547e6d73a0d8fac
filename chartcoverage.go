package main

import (
	"fmt"
	"math"

	"github.com/guregu/null/v6"
)

// coverage tiers shared by the ratio bands and the heatmap gradient
var (
	coverageWeakColor     = "#F28E8C"
	coverageStrainedColor = "#F7C600"
	coverageFairColor     = "#B9DCD2"
	coverageStrongColor   = "#7FA6A3"
)

const coverageBandOpacity = 0.25

// coverageBands partitions the ratio axis into the four resilience tiers. The
// top band always reaches at least 1.2.
func coverageBands(maxObserved float64) []Band {
	top := math.Max(maxObserved, 1.2)
	return []Band{
		{From: 0, To: 0.2, Color: coverageWeakColor, Opacity: coverageBandOpacity},
		{From: 0.2, To: 0.5, Color: coverageStrainedColor, Opacity: coverageBandOpacity},
		{From: 0.5, To: 1.0, Color: coverageFairColor, Opacity: coverageBandOpacity},
		{From: 1.0, To: top, Color: coverageStrongColor, Opacity: coverageBandOpacity},
	}
}

// buildCoverageChart plots CCP/LTD per company over the coverage bands. A
// quarter without debt has no ratio and leaves a gap in the line.
func buildCoverageChart(rs Records, colors CompanyColors) ChartSpec {
	dated := rs.Dated()

	spec := ChartSpec{
		ID:          "coverage",
		Title:       "CCP/LTD Ratio by Companies",
		Kind:        ChartLine,
		Width:       chartWidth,
		Height:      chartHeight,
		XAxis:       Axis{Title: "Quarter", Type: AxisTime},
		YAxis:       Axis{Title: "CCP/LTD Ratio", Type: AxisValue, Min: null.FloatFrom(0), Ratio: true},
		LegendTitle: "Companies (click to show/hide)",
	}

	ratios := make([]null.Float, 0, len(dated))
	for _, company := range companiesInOrder(dated) {
		rows := dated.ForCompany(company)
		points := make([]Point, 0, len(rows))
		for _, r := range rows {
			start, _ := r.QuarterStart()
			p := Point{Time: start, Y: r.DebtCoverage}
			if r.DebtCoverage.Valid {
				p.Hover = fmt.Sprintf("Company: %s<br>Quarter: %s<br>Debt Coverage: %s", company, r.ReportQuarter, FormatRatio(r.DebtCoverage.Float64))
			}
			points = append(points, p)
			ratios = append(ratios, r.DebtCoverage)
		}
		spec.Legend = append(spec.Legend, company)
		spec.Series = append(spec.Series, Series{
			ID:      company,
			Name:    company,
			Kind:    SeriesLine,
			Color:   colors.Lookup(company),
			Width:   2,
			Points:  points,
			Visible: true,
		})
	}

	_, maxRatio, ok := minMax(ratios)
	if !ok {
		maxRatio = 0
	}
	spec.Bands = coverageBands(maxRatio)

	return spec
}

// companiesInOrder lists company names in the order they appear, which after
// prepareRecords is symbol order.
func companiesInOrder(rs Records) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, r := range rs {
		if seen[r.CompanyName] {
			continue
		}
		seen[r.CompanyName] = true
		names = append(names, r.CompanyName)
	}
	return names
}
