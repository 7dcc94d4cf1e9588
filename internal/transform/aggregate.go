package transform

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/elaraway/tradeflow/internal/common"
	"github.com/elaraway/tradeflow/internal/model"
)

// CodeResult summarizes aggregation for one HS code.
type CodeResult struct {
	HSCode    string
	Files     int
	Malformed int
	Records   []model.TradeRecord
}

// AggregateCode transforms every monthly artifact in one code's directory
// and deduplicates the concatenation. Files process in sorted name order
// and the first record seen for a (code, country, date) key wins; that
// tie-break is deliberate, so a re-run over the same tree is byte-stable.
func (t *Transformer) AggregateCode(dir, hscode, commodity string, flow model.Flow) (CodeResult, error) {
	result := CodeResult{HSCode: hscode}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return result, fmt.Errorf("failed to read artifact directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xlsx") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	result.Files = len(files)

	var all []model.TradeRecord
	for _, name := range files {
		records, err := t.TransformFile(filepath.Join(dir, name), hscode, commodity, flow)
		if err != nil {
			if common.IsMalformedArtifact(err) {
				slog.Warn("Excluding malformed artifact",
					"code", hscode,
					"file", name,
					"error", err)
				result.Malformed++
				continue
			}
			return result, fmt.Errorf("failed to transform %s: %w", name, err)
		}
		all = append(all, records...)
	}

	result.Records = Dedupe(all)

	slog.Info("Aggregated HS code",
		"code", hscode,
		"files", result.Files,
		"malformed", result.Malformed,
		"records", len(result.Records))

	return result, nil
}

// Dedupe drops later records whose (HSCode, Country, Date) key was already
// seen, preserving input order. First occurrence wins.
func Dedupe(records []model.TradeRecord) []model.TradeRecord {
	seen := make(map[model.RecordKey]struct{}, len(records))
	out := records[:0:0]
	for _, r := range records {
		key := r.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
