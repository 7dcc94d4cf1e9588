// Package transform reshapes raw wide-format monthly artifacts into
// canonical long-format trade records.
package transform

import (
	"regexp"
	"strings"
)

// ValueColumn describes one header cell recognized as carrying monthly
// values: the raw label plus the month token and 4-digit year parsed out
// of it.
type ValueColumn struct {
	Index int
	Label string
	Month string
	Year  string
}

// ColumnClassifier decides, per header cell, whether a column carries
// values and how its period is labeled. The report layout is heuristic
// territory; keeping classification behind this interface lets layout
// variants plug in without touching row extraction.
type ColumnClassifier interface {
	Classify(index int, label string) (ValueColumn, bool)
}

// Labels the report template uses for non-value columns. Cells matching
// these are never value columns regardless of what the pattern would say.
var skipLabels = map[string]struct{}{
	"S.No.":   {},
	"Country": {},
	"(R)":     {},
	"%Growth": {},
	"nan":     {},
	"":        {},
}

// valuePattern tolerates the template's period label variants: "Apr-2017",
// "Apr-Apr2017" and the like. The leading alphabetic token is the month,
// the trailing four digits the year; any middle token is ignored.
var valuePattern = regexp.MustCompile(`([A-Za-z]+)-?([A-Za-z]*)?(\d{4})`)

// RegexClassifier is the default classifier for the remote tool's report
// template.
type RegexClassifier struct{}

// Classify implements ColumnClassifier. Labels that neither belong to the
// known metadata set nor match the period pattern are silently excluded,
// so a new annotation column cannot break parsing.
func (RegexClassifier) Classify(index int, label string) (ValueColumn, bool) {
	trimmed := strings.TrimSpace(label)
	if _, skip := skipLabels[trimmed]; skip {
		return ValueColumn{}, false
	}

	m := valuePattern.FindStringSubmatch(trimmed)
	if m == nil {
		return ValueColumn{}, false
	}

	return ValueColumn{
		Index: index,
		Label: trimmed,
		Month: m[1],
		Year:  m[3],
	}, true
}
