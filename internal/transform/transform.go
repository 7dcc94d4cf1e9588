package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/elaraway/tradeflow/internal/common"
	"github.com/elaraway/tradeflow/internal/model"
)

// The report template carries a two-row preamble (title and query echo)
// before the real header. These offsets encode that fixed template, not
// anything discovered per file.
const (
	headerRowIndex    = 2
	firstDataRowIndex = 3
)

// Null-marker tokens the upstream tool leaves in country cells.
var nullTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"None": {},
}

// Transformer converts one wide-format artifact at a time into long
// records. Stateless per artifact; safe to reuse across files.
type Transformer struct {
	classifier ColumnClassifier
}

// New creates a transformer with the default template classifier.
func New() *Transformer {
	return NewWithClassifier(RegexClassifier{})
}

// NewWithClassifier creates a transformer with a custom column classifier.
func NewWithClassifier(classifier ColumnClassifier) *Transformer {
	return &Transformer{classifier: classifier}
}

// TransformFile reads an artifact workbook and converts it. Malformed
// artifacts (truncated, missing country column, no value columns) return a
// sentinel error the caller logs and skips; see common.IsMalformedArtifact.
func (t *Transformer) TransformFile(path, hscode, commodity string, flow model.Flow) ([]model.TradeRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	return t.TransformGrid(rows, hscode, commodity, flow)
}

// TransformGrid converts a raw cell grid. Split out from file IO so the
// parsing rules are testable on synthetic grids.
func (t *Transformer) TransformGrid(grid [][]string, hscode, commodity string, flow model.Flow) ([]model.TradeRecord, error) {
	if len(grid) <= firstDataRowIndex-1 {
		return nil, fmt.Errorf("%w: %d rows", common.ErrTruncated, len(grid))
	}

	header := grid[headerRowIndex]

	countryCol := -1
	for idx, label := range header {
		if strings.EqualFold(strings.TrimSpace(label), "country") {
			countryCol = idx
			break
		}
	}
	if countryCol < 0 {
		// Without a country column rows cannot be attributed; the whole
		// artifact is rejected.
		return nil, common.ErrNoCountryColumn
	}

	var valueCols []ValueColumn
	for idx, label := range header {
		if col, ok := t.classifier.Classify(idx, label); ok {
			valueCols = append(valueCols, col)
		}
	}
	if len(valueCols) == 0 {
		return nil, common.ErrNoValueColumns
	}

	var records []model.TradeRecord
	for _, row := range grid[firstDataRowIndex:] {
		country := cellAt(row, countryCol)
		if _, null := nullTokens[country]; null {
			continue
		}

		for _, col := range valueCols {
			raw := cellAt(row, col.Index)
			if _, null := nullTokens[raw]; null {
				continue
			}
			// Footnote markers and dashes are dropped, never zeroed.
			value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
			if err != nil {
				continue
			}

			records = append(records, model.TradeRecord{
				HSCode:    hscode,
				Commodity: commodity,
				Country:   country,
				Date:      fmt.Sprintf("%s-%s", col.Month, col.Year),
				Value:     value,
				Flow:      flow,
			})
		}
	}

	return records, nil
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
