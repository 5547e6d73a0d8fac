package main

import (
	"fmt"

	"github.com/guregu/null/v6"
)

const (
	bubbleMinSize = 10
	bubbleMaxSize = 50

	medianView = "median"

	bubbleTitleMedian = "Debt vs Liquid Assets: Median Across Quarters"
)

const bubbleDescription = `This visualization compares companies **Current Cash Position (CCP)** to their **Long-Term Debt (LTD)** with the option to view either median values across all periods or any selected reporting period.
Bubble size shows the **CCP/LTD ratio**.
**Bottom-right quadrant** → stronger liquidity relative to debt, **Top-left quadrant** → higher leverage pressure.
By switching between quarters or aggregated time ranges, you can observe how company positions shift over time:
**Rightward movement** → growing liquid assets, **Upward movement** → increasing long-term debt.
This allows analysis of both the current financial state and longer-term strategic trends.`

// latestPerCompanyQuarter keeps the most recent record for every
// (company, quarter) pair. Input must already be in prepareRecords order.
func latestPerCompanyQuarter(rs Records) Records {
	type key struct {
		company string
		quarter ParsedQuarter
	}
	latest := make(map[key]int)
	order := make([]key, 0)
	for i, r := range rs {
		pq, ok := r.Period.(ParsedQuarter)
		if !ok {
			continue
		}
		k := key{r.CompanyName, pq}
		if _, seen := latest[k]; !seen {
			order = append(order, k)
		}
		latest[k] = i
	}
	out := make(Records, 0, len(order))
	for _, k := range order {
		out = append(out, rs[latest[k]])
	}
	return out
}

// buildBubbleChart places each company at (CCP, LTD) with bubble size following
// DebtCoverage. Every quarter gets its own bubbles and median crosshair, and an
// aggregate view shows each company's median position with the global median
// crosshair. All series are built up front; the selector only flips visibility.
func buildBubbleChart(rs Records, colors CompanyColors) ChartSpec {
	latest := latestPerCompanyQuarter(rs)
	quarters := latest.Quarters()
	companies := latest.Companies()

	spec := ChartSpec{
		ID:          "bubble",
		Title:       bubbleTitleMedian,
		Kind:        ChartBubble,
		Width:       chartWidth,
		Height:      850,
		XAxis:       Axis{Title: "Current Cash Position (CCP)", Type: AxisValue},
		YAxis:       Axis{Title: "Long-Term Debt (LTD)", Type: AxisValue},
		LegendTitle: "Companies (click to show/hide)",
		Legend:      companies,
	}

	coverage := make([]null.Float, len(latest))
	for i, r := range latest {
		coverage[i] = r.DebtCoverage
	}
	sizes := scaleSizes(coverage, bubbleMinSize, bubbleMaxSize)
	sizeOf := make(map[string]float64, len(latest))
	for i, r := range latest {
		sizeOf[r.CompanyName+"|"+r.ReportQuarter] = sizes[i]
	}

	// per company, per quarter
	for _, company := range companies {
		for _, q := range quarters {
			r, ok := findLatest(latest, company, q)
			if !ok {
				continue
			}
			spec.Series = append(spec.Series, bubbleSeries(
				fmt.Sprintf("%s - %s", company, q.DisplayLabel()), company, q.DisplayLabel(),
				colors.Lookup(company),
				Point{X: r.CCP, Y: null.FloatFrom(r.LTD), Size: sizeOf[company+"|"+r.ReportQuarter], Text: r.Symbol, Hover: bubbleHover(company, r.ReportQuarter, r.CCP, r.LTD, r.DebtCoverage)},
			))
		}
	}

	// per quarter median crosshair
	for _, q := range quarters {
		var ccps, ltds []float64
		for _, r := range latest {
			if r.Period.(ParsedQuarter) == q {
				ccps = append(ccps, r.CCP)
				ltds = append(ltds, r.LTD)
			}
		}
		if len(ccps) == 0 {
			continue
		}
		spec.Series = append(spec.Series, medianRules(
			"Quarter Median CCP - "+q.DisplayLabel(), "Quarter Median LTD - "+q.DisplayLabel(),
			q.DisplayLabel(), ccps, ltds)...)
	}

	// per company median across quarters
	type companyMedian struct {
		company, symbol string
		ccp, ltd, cov   null.Float
	}
	medians := make([]companyMedian, 0, len(companies))
	for _, company := range companies {
		rows := latest.ForCompany(company)
		var ccps, ltds, covs []null.Float
		for _, r := range rows {
			ccps = append(ccps, null.FloatFrom(r.CCP))
			ltds = append(ltds, null.FloatFrom(r.LTD))
			covs = append(covs, r.DebtCoverage)
		}
		medians = append(medians, companyMedian{company, rows[0].Symbol, median(ccps), median(ltds), median(covs)})
	}
	medianCov := make([]null.Float, len(medians))
	for i, m := range medians {
		medianCov[i] = m.cov
	}
	medianSizes := scaleSizes(medianCov, bubbleMinSize, bubbleMaxSize)
	for i, m := range medians {
		spec.Series = append(spec.Series, bubbleSeries(
			m.company+" - Median", m.company, medianView, colors.Lookup(m.company),
			Point{X: m.ccp.Float64, Y: m.ltd, Size: medianSizes[i], Text: m.symbol, Hover: bubbleHover(m.company, "Median", m.ccp.Float64, m.ltd.Float64, m.cov)},
		))
	}

	// global median crosshair
	if len(latest) > 0 {
		ccps := make([]float64, len(latest))
		ltds := make([]float64, len(latest))
		for i, r := range latest {
			ccps[i], ltds[i] = r.CCP, r.LTD
		}
		spec.Series = append(spec.Series, medianRules("Global Median CCP", "Global Median LTD", medianView, ccps, ltds)...)
	}

	options := []ViewOption{{
		Label:   "All Quarters (Median)",
		Title:   bubbleTitleMedian,
		Visible: visibility(spec.Series, func(s Series) bool { return s.View == medianView }),
	}}
	for _, q := range quarters {
		label := q.DisplayLabel()
		options = append(options, ViewOption{
			Label:   label,
			Title:   "Debt vs Liquid Assets: " + label,
			Visible: visibility(spec.Series, func(s Series) bool { return s.View == label }),
		})
	}
	spec.Views = &ViewControl{Options: options}
	spec.applyView(0)

	addAnnotation(&spec, bubbleDescription, "top")
	return spec
}

func findLatest(latest Records, company string, q ParsedQuarter) (FinancialRecord, bool) {
	for _, r := range latest {
		if pq, ok := r.Period.(ParsedQuarter); ok && pq == q && r.CompanyName == company {
			return r, true
		}
	}
	return FinancialRecord{}, false
}

func bubbleSeries(name, company, view, color string, p Point) Series {
	return Series{
		ID:     name,
		Name:   name,
		Group:  company,
		Kind:   SeriesMarkers,
		Color:  color,
		Points: []Point{p},
		View:   view,
	}
}

func bubbleHover(company, quarter string, ccp, ltd float64, cov null.Float) string {
	ratio := "n/a"
	if cov.Valid {
		ratio = FormatRatio(cov.Float64)
	}
	return fmt.Sprintf("Company: %s<br>Quarter: %s<br>CCP: %s<br>LTD: %s<br>CCP/LTD: %s",
		company, quarter, FormatAmount(ccp), FormatAmount(ltd), ratio)
}

// medianRules draws a vertical line at the median CCP and a horizontal line at
// the median LTD, each running from zero to 110% of the other metric's maximum.
func medianRules(ccpName, ltdName, view string, ccps, ltds []float64) []Series {
	medCCP := median(floats(ccps)).Float64
	medLTD := median(floats(ltds)).Float64
	maxCCP := maxOf(ccps)
	maxLTD := maxOf(ltds)

	return []Series{
		{
			ID: ccpName, Name: ccpName, Kind: SeriesRule, Color: "red", Dash: true, Width: 1, View: view,
			Points: []Point{{X: medCCP, Y: null.FloatFrom(0)}, {X: medCCP, Y: null.FloatFrom(maxLTD * 1.1)}},
		},
		{
			ID: ltdName, Name: ltdName, Kind: SeriesRule, Color: "blue", Dash: true, Width: 1, View: view,
			Points: []Point{{X: 0, Y: null.FloatFrom(medLTD)}, {X: maxCCP * 1.1, Y: null.FloatFrom(medLTD)}},
		},
	}
}

func maxOf(values []float64) float64 {
	_, hi, _ := minMax(floats(values))
	return hi
}
