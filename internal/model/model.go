// Package model defines the core domain types shared across the pipeline.
package model

import (
	"fmt"
	"time"
)

// Flow identifies the direction of trade a dataset describes. Its string
// value names the artifact subtree on disk, so it must stay lowercase.
type Flow string

const (
	// FlowImport covers commodity-wise import statistics.
	FlowImport Flow = "import"
	// FlowExport covers commodity-wise export statistics.
	FlowExport Flow = "export"
)

// ParseFlow validates a user-supplied flow name.
func ParseFlow(s string) (Flow, error) {
	switch Flow(s) {
	case FlowImport, FlowExport:
		return Flow(s), nil
	default:
		return "", fmt.Errorf("invalid flow %q (want %q or %q)", s, FlowImport, FlowExport)
	}
}

// Label returns the value used in record rows ("Import" / "Export").
func (f Flow) Label() string {
	switch f {
	case FlowImport:
		return "Import"
	case FlowExport:
		return "Export"
	default:
		return string(f)
	}
}

// Period is one reporting month. Periods order by (Year, Month).
type Period struct {
	Year  int
	Month time.Month
}

// MonthName returns the full English month name ("January"). Artifact
// filenames are built from this, so locale-dependent formatting is off
// the table.
func (p Period) MonthName() string {
	return p.Month.String()
}

// Before reports whether p orders strictly before q.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Month < q.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.MonthName(), p.Year)
}

// PeriodsThrough builds the ascending period grid from January of startYear
// through the month containing now. Months strictly after now are never
// included; the remote tool has nothing to report for them.
func PeriodsThrough(startYear int, now time.Time) []Period {
	var periods []Period
	for year := startYear; year <= now.Year(); year++ {
		for month := time.January; month <= time.December; month++ {
			if year == now.Year() && month > now.Month() {
				break
			}
			periods = append(periods, Period{Year: year, Month: month})
		}
	}
	return periods
}

// TradeRecord is one long-format observation: the value traded for one
// commodity with one country in one month.
type TradeRecord struct {
	HSCode    string
	Commodity string
	Country   string
	Date      string // "<MonthToken>-<Year>", e.g. "Apr-2020"
	Value     float64
	Flow      Flow
}

// RecordKey is the uniqueness key for deduplication. Two records with the
// same key describe the same observation; the first one parsed wins.
type RecordKey struct {
	HSCode  string
	Country string
	Date    string
}

// Key returns the record's deduplication key.
func (r TradeRecord) Key() RecordKey {
	return RecordKey{HSCode: r.HSCode, Country: r.Country, Date: r.Date}
}

// TaskOutcome classifies how one (code, period) download attempt ended.
type TaskOutcome int

const (
	// OutcomeSaved means a new artifact landed in the canonical tree.
	OutcomeSaved TaskOutcome = iota
	// OutcomeSkipped means the artifact already existed; no request was made.
	OutcomeSkipped
	// OutcomeNoData means the remote query legitimately returned no rows.
	OutcomeNoData
	// OutcomeFailed means the attempt errored; a later run retries it.
	OutcomeFailed
)

func (o TaskOutcome) String() string {
	switch o {
	case OutcomeSaved:
		return "saved"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNoData:
		return "no-data"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}
