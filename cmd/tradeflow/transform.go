package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/elaraway/tradeflow/internal/catalog"
	"github.com/elaraway/tradeflow/internal/cli"
	"github.com/elaraway/tradeflow/internal/transform"
)

func transformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Reshape downloaded artifacts into long-format records",
		Long: `Transform walks one flow's artifact tree, parses every monthly wide-format
spreadsheet into long-format (code, country, month) records, deduplicates
per HS code, and persists the result into the record store.

The store ignores records it already holds, so transform can be re-run
after each crawl to pick up newly downloaded months.`,
		RunE: runTransform,
	}

	cmd.Flags().String("flow", "import", "trade flow to transform (import, export)")

	return cmd
}

func runTransform(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	lookup, err := catalog.LoadLookup(cfg.LookupFile)
	if err != nil {
		slog.Warn("Lookup table unavailable, using placeholder descriptions", "error", err)
		lookup = catalog.NewLookup(nil)
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	codeDirs, err := listCodeDirs(cfg.ArtifactRoot())
	if err != nil {
		return err
	}
	if len(codeDirs) == 0 {
		return fmt.Errorf("no artifact directories under %s; run crawl first", cfg.ArtifactRoot())
	}

	tr := transform.New()
	bar := cli.NewProgressBar(os.Stdout, len(codeDirs), fmt.Sprintf("Transforming %s data...", cfg.Flow))

	processed, skipped, total := 0, 0, 0
	for _, code := range codeDirs {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := tr.AggregateCode(cfg.ArtifactDir(code), code, lookup.Describe(code), cfg.Flow)
		if err != nil {
			slog.Error("Failed to aggregate HS code", "code", code, "error", err)
			skipped++
			cli.Advance(bar)
			continue
		}
		if len(result.Records) == 0 {
			skipped++
			cli.Advance(bar)
			continue
		}

		inserted, err := store.SaveRecords(ctx, result.Records)
		if err != nil {
			return fmt.Errorf("failed to save records for %s: %w", code, err)
		}
		processed++
		total += inserted
		cli.Advance(bar)
	}

	fmt.Println(cli.RenderBox("Transformation Complete", cli.Summary(
		fmt.Sprintf("HS codes processed: %d", processed),
		fmt.Sprintf("HS codes skipped: %d", skipped),
		fmt.Sprintf("New records stored: %d", total),
	)))

	return nil
}

// listCodeDirs returns the per-code artifact directories under root, in
// sorted order. The staging directory is not a code.
func listCodeDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("artifact tree %s does not exist; run crawl first", root)
		}
		return nil, fmt.Errorf("failed to read artifact tree: %w", err)
	}

	var codes []string
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == "temp_downloads" {
			continue
		}
		codes = append(codes, entry.Name())
	}
	sort.Strings(codes)
	return codes, nil
}
