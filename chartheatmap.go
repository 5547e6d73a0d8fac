package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"
)

var coverageStops = []ColorStop{
	{Offset: 0.0, Color: coverageWeakColor},
	{Offset: 0.2, Color: coverageStrainedColor},
	{Offset: 0.5, Color: coverageFairColor},
	{Offset: 1.0, Color: coverageStrongColor},
}

// buildHeatmapChart pivots DebtCoverage into company rows and quarter
// columns. A blank column leads the grid to keep the first quarter clear of
// the row labels. Cells without a record stay empty.
func buildHeatmapChart(rs Records) ChartSpec {
	dated := rs.Dated()
	companies := dated.Companies()
	quarters := dated.Quarters()

	rowIdx := make(map[string]int, len(companies))
	for i, c := range companies {
		rowIdx[c] = i
	}
	colIdx := make(map[ParsedQuarter]int, len(quarters))
	columns := []string{" "}
	for i, q := range quarters {
		colIdx[q] = i + 1
		columns = append(columns, q.DisplayLabel())
	}

	cells := make([][]null.Float, len(companies))
	for i := range cells {
		cells[i] = make([]null.Float, len(columns))
	}
	var observed []null.Float
	for _, r := range dated {
		row, ok := rowIdx[r.CompanyName]
		if !ok {
			continue
		}
		col := colIdx[r.Period.(ParsedQuarter)]
		// first valid ratio wins
		if cells[row][col].Valid {
			continue
		}
		cells[row][col] = r.DebtCoverage
		observed = append(observed, r.DebtCoverage)
	}

	_, zmax, ok := minMax(observed)
	if !ok {
		zmax = 0
	}

	return ChartSpec{
		ID:     "heatmap",
		Title:  "Financial Resilience: CCP/LTD Ratio Heatmap",
		Kind:   ChartHeatmap,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  Axis{Title: "Quarter", Type: AxisCategory, LabelAngle: -45},
		YAxis:  Axis{Type: AxisCategory},
		Heatmap: &HeatmapGrid{
			Rows:    companies,
			Columns: columns,
			Cells:   cells,
			Min:     0,
			Max:     zmax,
			Stops:   coverageStops,
			Label:   "CCP/LTD Ratio",
		},
	}
}

// gradientSamples evaluates the colour stops at n evenly spaced offsets, for
// renderers whose colour scales only take evenly spaced colours.
func gradientSamples(stops []ColorStop, n int) []string {
	if len(stops) == 0 || n <= 0 {
		return nil
	}
	if n == 1 || len(stops) == 1 {
		return []string{stops[0].Color}
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = gradientAt(stops, float64(i)/float64(n-1))
	}
	return out
}

func gradientAt(stops []ColorStop, offset float64) string {
	if offset <= stops[0].Offset {
		return strings.ToLower(stops[0].Color)
	}
	for i := 1; i < len(stops); i++ {
		if offset > stops[i].Offset {
			continue
		}
		lo, hi := stops[i-1], stops[i]
		t := (offset - lo.Offset) / (hi.Offset - lo.Offset)
		r1, g1, b1 := hexToRGB(lo.Color)
		r2, g2, b2 := hexToRGB(hi.Color)
		return fmt.Sprintf("#%02x%02x%02x",
			uint8(math.Round(r1+(r2-r1)*t)), uint8(math.Round(g1+(g2-g1)*t)), uint8(math.Round(b1+(b2-b1)*t)))
	}
	return strings.ToLower(stops[len(stops)-1].Color)
}

func hexToRGB(hex string) (r, g, b float64) {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return float64(v >> 16 & 0xff), float64(v >> 8 & 0xff), float64(v & 0xff)
}
