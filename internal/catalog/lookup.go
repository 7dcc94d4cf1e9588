package catalog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Lookup column headers in the cleaned HS code workbook.
const (
	lookupCodeHeader        = "Cleaned ITC Code"
	lookupDescriptionHeader = "Description"
)

// Lookup maps an HS code to its commodity description.
type Lookup struct {
	descriptions map[string]string
}

// NewLookup builds a Lookup from an explicit mapping. Used by tests and by
// callers that already have descriptions in hand.
func NewLookup(descriptions map[string]string) *Lookup {
	if descriptions == nil {
		descriptions = make(map[string]string)
	}
	return &Lookup{descriptions: descriptions}
}

// LoadLookup reads the code-to-description workbook. The first row is the
// header; the code and description columns are located by header label so
// extra columns in the workbook are harmless.
func LoadLookup(path string) (*Lookup, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("lookup workbook %s has no data rows", path)
	}

	codeCol, descCol := -1, -1
	for idx, label := range rows[0] {
		switch strings.TrimSpace(label) {
		case lookupCodeHeader:
			codeCol = idx
		case lookupDescriptionHeader:
			descCol = idx
		}
	}
	if codeCol < 0 || descCol < 0 {
		return nil, fmt.Errorf("lookup workbook %s missing %q or %q column", path, lookupCodeHeader, lookupDescriptionHeader)
	}

	descriptions := make(map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		if codeCol >= len(row) {
			continue
		}
		code := strings.TrimSpace(row[codeCol])
		if code == "" {
			continue
		}
		desc := ""
		if descCol < len(row) {
			desc = strings.TrimSpace(row[descCol])
		}
		descriptions[code] = desc
	}

	slog.Info("Loaded HS code lookup", "path", path, "count", len(descriptions))
	return &Lookup{descriptions: descriptions}, nil
}

// Describe returns the commodity description for a code. A miss is
// non-fatal: transformation proceeds with a placeholder so one absent
// lookup row cannot drop a whole code's data.
func (l *Lookup) Describe(code string) string {
	if desc, ok := l.descriptions[strings.TrimSpace(code)]; ok && desc != "" {
		return desc
	}
	return fmt.Sprintf("Unknown Commodity (%s)", code)
}

// Len returns the number of known codes.
func (l *Lookup) Len() int {
	return len(l.descriptions)
}
