// Package crawler implements the resumable acquisition loop: the idempotent
// artifact sink, the staging-directory reconciler, and the per-(code, period)
// driver.
package crawler

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/elaraway/tradeflow/internal/model"
)

// ArtifactPath returns the canonical location of one monthly artifact.
// The "<FullMonthName>_<Year>.xlsx" naming is load-bearing: presence at
// this exact path is the completion ledger, so it must never drift.
func ArtifactPath(root, code string, p model.Period) string {
	return filepath.Join(root, code, fmt.Sprintf("%s_%d.xlsx", p.MonthName(), p.Year))
}

// FileSink is the idempotent artifact sink. A (code, period) key either
// already has its artifact on disk or accepts exactly one write; there is
// no separate manifest, the tree itself is the completion state.
type FileSink struct {
	root string
}

// NewFileSink creates a sink over one flow's artifact root.
func NewFileSink(root string) *FileSink {
	return &FileSink{root: root}
}

// Path returns the canonical artifact path for a key.
func (s *FileSink) Path(code string, p model.Period) string {
	return ArtifactPath(s.root, code, p)
}

// Exists reports whether the artifact for a key is already on disk.
func (s *FileSink) Exists(code string, p model.Period) bool {
	_, err := os.Stat(s.Path(code, p))
	return err == nil
}

// Prepare creates the per-code directory.
func (s *FileSink) Prepare(code string) error {
	return os.MkdirAll(filepath.Join(s.root, code), 0o750)
}

// Complete reports whether every expected monthly artifact for a code
// already exists, for years in [startYear, endYear] excluding months after
// the one containing now. A missing code directory short-circuits to false.
// Pure read of the filesystem; used as the fast skip-gate before a code's
// period loop.
func (s *FileSink) Complete(code string, startYear, endYear int, now time.Time) bool {
	if _, err := os.Stat(filepath.Join(s.root, code)); err != nil {
		return false
	}

	for year := startYear; year <= endYear; year++ {
		for month := time.January; month <= time.December; month++ {
			if year == now.Year() && month > now.Month() {
				break
			}
			if !s.Exists(code, model.Period{Year: year, Month: month}) {
				return false
			}
		}
	}
	return true
}
