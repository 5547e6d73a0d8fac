package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type Tab struct {
	ID    string
	Label string
}

var dashboardTabs = []Tab{
	{ID: "tab1", Label: "CCP & LTD by Company"},
	{ID: "tab2", Label: "Debt Coverage Ratio"},
	{ID: "tab3", Label: "Financial Resilience (Heatmap)"},
	{ID: "tab4", Label: "Debt vs Liquid Assets"},
}

const defaultTab = "tab1"

// Dashboard is everything the handlers serve, built once at startup and never
// modified afterwards.
type Dashboard struct {
	Source   string
	Records  Records
	Colors   CompanyColors
	LoadedAt time.Time

	specs   map[string]ChartSpec
	figures map[string]RenderedChart
}

// loadDashboard reads the source, validates and normalizes the records, then
// builds and renders every chart.
func loadDashboard(ctx context.Context, deps *Dependencies, src RecordSource) (*Dashboard, error) {
	sublog := zerolog.Ctx(ctx).With().Str("source", src.Name()).Logger()

	raw, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRecords(raw); err != nil {
		return nil, err
	}

	records := prepareRecords(raw)
	colors := companyColors(records)
	if undated := records.Count() - records.Dated().Count(); undated > 0 {
		sublog.Warn().Int("records", undated).Msg("records with unparseable quarters are left off the time charts")
	}

	d := &Dashboard{
		Source:   src.Name(),
		Records:  records,
		Colors:   colors,
		LoadedAt: time.Now(),
		specs:    buildCharts(records, colors),
		figures:  make(map[string]RenderedChart, len(dashboardTabs)),
	}

	for _, tab := range dashboardTabs {
		figure, err := renderToHtml(deps, d.specs[tab.ID])
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", tab.ID, err)
		}
		d.figures[tab.ID] = figure
	}

	sublog.Info().
		Int("records", records.Count()).
		Int("companies", len(records.Companies())).
		Int("quarters", len(records.Quarters())).
		Msg("dashboard loaded")

	return d, nil
}

func buildCharts(rs Records, colors CompanyColors) map[string]ChartSpec {
	return map[string]ChartSpec{
		"tab1": buildCashDebtChart(rs, colors),
		"tab2": buildCoverageChart(rs, colors),
		"tab3": buildHeatmapChart(rs),
		"tab4": buildBubbleChart(rs, colors),
	}
}

func (d *Dashboard) Figure(tab string) (RenderedChart, bool) {
	figure, ok := d.figures[tab]
	return figure, ok
}

func (d *Dashboard) Spec(tab string) (ChartSpec, bool) {
	spec, ok := d.specs[tab]
	return spec, ok
}

// Scripts lists every script the rendered charts need, once each.
func (d *Dashboard) Scripts() []string {
	seen := make(map[string]bool)
	scripts := make([]string, 0)
	for _, tab := range dashboardTabs {
		for _, s := range d.figures[tab.ID].Scripts {
			if seen[s] {
				continue
			}
			seen[s] = true
			scripts = append(scripts, s)
		}
	}
	return scripts
}
