// Package catalog loads the HS code list and the code-to-commodity lookup
// table that drive a run.
package catalog

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/elaraway/tradeflow/internal/common"
)

// LoadCodes reads the HS code catalog: one code per line, blank lines and
// lines starting with '#' ignored, order preserved. An absent file or an
// empty catalog is fatal for the run since there is nothing to process.
func LoadCodes(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open HS code catalog: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var codes []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		code := strings.TrimSpace(scanner.Text())
		if code == "" || strings.HasPrefix(code, "#") {
			continue
		}
		codes = append(codes, code)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read HS code catalog: %w", err)
	}

	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrCatalogEmpty, path)
	}

	slog.Info("Loaded HS code catalog", "path", path, "count", len(codes))
	return codes, nil
}
