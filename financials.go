package main

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/guregu/null/v6"
)

// FinancialRecord is one company's filing for one reporting quarter. CCP and
// LTD are in millions of USD.
type FinancialRecord struct {
	Symbol        string     `json:"Symbol" bson:"Symbol" db:"symbol"`
	CompanyName   string     `json:"CompanyName" bson:"CompanyName" db:"company_name"`
	ReportQuarter string     `json:"ReportQuarter" bson:"ReportQuarter" db:"report_quarter"`
	CCP           float64    `json:"CCP" bson:"CCP" db:"ccp"`
	LTD           float64    `json:"LTD" bson:"LTD" db:"ltd"`
	DebtCoverage  null.Float `json:"DebtCoverage" bson:"-" db:"-"`
	Period        Quarter    `json:"-" bson:"-" db:"-"`
}

// QuarterStart is the first calendar day of the record's quarter, false when
// the quarter label could not be parsed.
func (fr FinancialRecord) QuarterStart() (time.Time, bool) {
	if pq, ok := fr.Period.(ParsedQuarter); ok {
		return pq.Start(), true
	}
	return time.Time{}, false
}

func (fr FinancialRecord) MarshalJSON() ([]byte, error) {
	type plain FinancialRecord
	var start null.Time
	if t, ok := fr.QuarterStart(); ok {
		start = null.TimeFrom(t)
	}
	return json.Marshal(struct {
		plain
		QuarterStart null.Time `json:"QuarterStart"`
	}{plain(fr), start})
}

// debtCoverage is CCP/LTD, invalid when there is no debt to cover.
func debtCoverage(ccp, ltd float64) null.Float {
	if ltd == 0 {
		return null.Float{}
	}
	return null.FloatFrom(ccp / ltd)
}

type Records []FinancialRecord

func (rs Records) Count() int {
	return len(rs)
}

// Companies returns the distinct company names, sorted.
func (rs Records) Companies() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, r := range rs {
		if r.CompanyName == "" || seen[r.CompanyName] {
			continue
		}
		seen[r.CompanyName] = true
		names = append(names, r.CompanyName)
	}
	sort.Strings(names)
	return names
}

// Symbols returns the distinct symbols in the order they first appear.
func (rs Records) Symbols() []string {
	seen := make(map[string]bool)
	symbols := make([]string, 0)
	for _, r := range rs {
		if seen[r.Symbol] {
			continue
		}
		seen[r.Symbol] = true
		symbols = append(symbols, r.Symbol)
	}
	return symbols
}

// Quarters returns the distinct parseable quarters in chronological order.
func (rs Records) Quarters() []ParsedQuarter {
	seen := make(map[ParsedQuarter]bool)
	quarters := make([]ParsedQuarter, 0)
	for _, r := range rs {
		pq, ok := r.Period.(ParsedQuarter)
		if !ok || seen[pq] {
			continue
		}
		seen[pq] = true
		quarters = append(quarters, pq)
	}
	sort.Slice(quarters, func(i, j int) bool { return quarters[i].Before(quarters[j]) })
	return quarters
}

// QuarterLabels returns the distinct ReportQuarter values, sorted as strings.
func (rs Records) QuarterLabels() []string {
	seen := make(map[string]bool)
	labels := make([]string, 0)
	for _, r := range rs {
		if r.ReportQuarter == "" || seen[r.ReportQuarter] {
			continue
		}
		seen[r.ReportQuarter] = true
		labels = append(labels, r.ReportQuarter)
	}
	sort.Strings(labels)
	return labels
}

func (rs Records) ForCompany(name string) Records {
	subset := make(Records, 0)
	for _, r := range rs {
		if r.CompanyName == name {
			subset = append(subset, r)
		}
	}
	return subset
}

func (rs Records) ForSymbol(symbol string) Records {
	subset := make(Records, 0)
	for _, r := range rs {
		if r.Symbol == symbol {
			subset = append(subset, r)
		}
	}
	return subset
}

// Dated drops records whose quarter could not be parsed; they have no place on
// a time axis.
func (rs Records) Dated() Records {
	subset := make(Records, 0, len(rs))
	for _, r := range rs {
		if _, ok := r.Period.(ParsedQuarter); ok {
			subset = append(subset, r)
		}
	}
	return subset
}

// validateRecords enforces that a symbol never maps to two company names.
func validateRecords(rs []FinancialRecord) error {
	names := make(map[string]string)
	for _, r := range rs {
		if r.Symbol == "" {
			return &RecordError{Symbol: r.Symbol, Quarter: r.ReportQuarter, Err: errMissingSymbol}
		}
		if prior, ok := names[r.Symbol]; ok && prior != r.CompanyName {
			return &RecordError{Symbol: r.Symbol, Quarter: r.ReportQuarter, Err: ErrSymbolNameConflict}
		}
		names[r.Symbol] = r.CompanyName
	}
	return nil
}
