package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanyColors_SymbolAndNameAgree(t *testing.T) {
	rs, colors := samplePrepared()

	seen := make(map[string]string)
	for _, r := range rs {
		assert.Equal(t, colors.Lookup(r.Symbol), colors.Lookup(r.CompanyName))
		seen[r.Symbol] = colors.Lookup(r.Symbol)
	}
	assert.Len(t, colors, 6)

	// three companies spread over tab20
	assert.Equal(t, "#1f77b4", seen["AAA"])
	assert.Equal(t, "#8c564b", seen["BBB"])
	assert.Equal(t, "#9edae5", seen["CCC"])
}

func TestCompanyColors_Deterministic(t *testing.T) {
	rs, colors := samplePrepared()
	reversed := make(Records, len(rs))
	for i, r := range rs {
		reversed[len(rs)-1-i] = r
	}
	assert.Equal(t, colors, companyColors(reversed))
}

func TestCompanyColors_Lookup(t *testing.T) {
	_, colors := samplePrepared()
	assert.Equal(t, defaultCompanyColor, colors.Lookup("ZZZ"))
}

func TestCompanyPalette(t *testing.T) {
	assert.Empty(t, companyPalette(0))
	assert.Equal(t, []string{"#1f77b4"}, companyPalette(1))
	assert.Equal(t, []string{"#1f77b4", "#9edae5"}, companyPalette(2))
	assert.Equal(t, tab20, companyPalette(len(tab20)))

	big := companyPalette(30)
	assert.Len(t, big, 30)
	assert.Equal(t, tab20, big[:20])
	distinct := make(map[string]bool)
	for _, c := range big {
		distinct[c] = true
	}
	assert.Len(t, distinct, 30)
}

func TestCompanyColors_ManyCompanies(t *testing.T) {
	rs := make([]FinancialRecord, 0, 25)
	for i := 0; i < 25; i++ {
		rs = append(rs, FinancialRecord{Symbol: fmt.Sprintf("S%02d", i), CompanyName: fmt.Sprintf("Company %02d", i), ReportQuarter: "Q1 2024"})
	}
	colors := companyColors(prepareRecords(rs))
	assert.Equal(t, tab20[0], colors.Lookup("S00"))
	assert.Equal(t, tab20[19], colors.Lookup("Company 19"))
	assert.NotEqual(t, colors.Lookup("S20"), colors.Lookup("S21"))
}

func TestHslToHex(t *testing.T) {
	assert.Equal(t, "#ff0000", hslToHex(0, 1, 0.5))
	assert.Equal(t, "#00ff00", hslToHex(120, 1, 0.5))
	assert.Equal(t, "#0000ff", hslToHex(240, 1, 0.5))
	assert.Equal(t, "#808080", hslToHex(0, 0, 0.5))
}
