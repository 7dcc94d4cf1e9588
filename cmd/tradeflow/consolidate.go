package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/elaraway/tradeflow/internal/cli"
	"github.com/elaraway/tradeflow/internal/model"
	"github.com/elaraway/tradeflow/internal/service"
)

func consolidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Export the record store to one consolidated workbook",
		Long: `Consolidate writes every stored long-format record to a single xlsx
workbook with columns HSCod, Commodity, Value, Country, Date, Type, sorted
by HS code, date and country. The output feeds downstream analysis tools
that expect one flat sheet.`,
		RunE: runConsolidate,
	}

	cmd.Flags().String("flow", "", "restrict to one flow (import, export); default both")
	cmd.Flags().String("out", "", "output path (default: <data-dir>/transformed/consolidated_all_hscodes.xlsx)")

	return cmd
}

func runConsolidate(cmd *cobra.Command, _ []string) error {
	var flow model.Flow
	if raw, _ := cmd.Flags().GetString("flow"); raw != "" {
		parsed, err := model.ParseFlow(raw)
		if err != nil {
			return err
		}
		flow = parsed
	}

	// The config flow only positions the data tree here; default import is
	// fine even when exporting both flows from the store.
	cfg, err := loadConfigForFlow(model.FlowImport)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		outPath = filepath.Join(cfg.DataDir, "transformed", "consolidated_all_hscodes.xlsx")
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	records, err := store.GetRecords(ctx, service.RecordFilter{Flow: flow})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("record store is empty; run transform first")
	}

	if err := writeConsolidated(outPath, records); err != nil {
		return err
	}

	codes := map[string]struct{}{}
	countries := map[string]struct{}{}
	for _, r := range records {
		codes[r.HSCode] = struct{}{}
		countries[r.Country] = struct{}{}
	}

	fmt.Println(cli.RenderBox("Consolidation Complete", cli.Summary(
		fmt.Sprintf("Records: %d", len(records)),
		fmt.Sprintf("Unique HS codes: %d", len(codes)),
		fmt.Sprintf("Unique countries: %d", len(countries)),
		fmt.Sprintf("Output: %s", outPath),
	)))

	return nil
}

var consolidatedHeader = []any{"HSCod", "Commodity", "Value", "Country", "Date", "Type"}

func writeConsolidated(path string, records []model.TradeRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &consolidatedHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		row := []any{r.HSCode, r.Commodity, r.Value, r.Country, r.Date, r.Flow.Label()}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
