package main

import (
	"fmt"

	"github.com/guregu/null/v6"
)

const (
	chartWidth  = 1100
	chartHeight = 600
)

// buildCashDebtChart plots CCP (left axis, solid) and LTD (right axis, dashed)
// per company over time. Both axes share one padded range so the lines are
// comparable, and a selector shows CCP, LTD or both.
func buildCashDebtChart(rs Records, colors CompanyColors) ChartSpec {
	dated := rs.Dated()
	symbols := dated.Symbols()

	all := make([]null.Float, 0, 2*len(dated))
	for _, r := range dated {
		all = append(all, null.FloatFrom(r.CCP), null.FloatFrom(r.LTD))
	}
	var yRange Axis
	if lo, hi, ok := minMax(all); ok {
		pad := (hi - lo) * 0.1
		yRange.Min = null.FloatFrom(lo - pad)
		yRange.Max = null.FloatFrom(hi + pad)
	}

	spec := ChartSpec{
		ID:          "cash_debt",
		Title:       "CCP and LTD by Company",
		Kind:        ChartLine,
		Width:       chartWidth,
		Height:      chartHeight,
		XAxis:       Axis{Title: "Quarter", Type: AxisTime, LabelAngle: -45},
		YAxis:       Axis{Title: "USD (Millions)", Type: AxisValue, Min: yRange.Min, Max: yRange.Max},
		Y2Axis:      &Axis{Type: AxisValue, Min: yRange.Min, Max: yRange.Max},
		LegendTitle: "Companies (click to show/hide)",
		Legend:      symbols,
	}

	metrics := []struct {
		name  string
		axis  int
		dash  bool
		value func(FinancialRecord) float64
	}{
		{"CCP", 0, false, func(r FinancialRecord) float64 { return r.CCP }},
		{"LTD", 1, true, func(r FinancialRecord) float64 { return r.LTD }},
	}
	for _, m := range metrics {
		for _, symbol := range symbols {
			company := dated.ForSymbol(symbol)
			points := make([]Point, 0, len(company))
			for _, r := range company {
				start, _ := r.QuarterStart()
				v := m.value(r)
				points = append(points, Point{
					Time:  start,
					Y:     null.FloatFrom(v),
					Hover: fmt.Sprintf("Company: %s<br>Quarter: %s<br>%s: %s", symbol, r.ReportQuarter, m.name, FormatMillions(v)),
				})
			}
			spec.Series = append(spec.Series, Series{
				ID:      symbol + " " + m.name,
				Name:    symbol,
				Group:   symbol,
				Kind:    SeriesLine,
				Color:   colors.Lookup(symbol),
				Dash:    m.dash,
				Width:   2,
				Axis:    m.axis,
				Points:  points,
				Visible: true,
				View:    m.name,
			})
		}
	}

	spec.Views = &ViewControl{
		Options: []ViewOption{
			{Label: "CCP", Visible: visibility(spec.Series, func(s Series) bool { return s.View == "CCP" })},
			{Label: "LTD", Visible: visibility(spec.Series, func(s Series) bool { return s.View == "LTD" })},
			{Label: "CCP & LTD", Visible: visibility(spec.Series, func(Series) bool { return true })},
		},
	}
	spec.applyView(2)

	return spec
}
