package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/elaraway/tradeflow/internal/catalog"
	"github.com/elaraway/tradeflow/internal/cli"
	"github.com/elaraway/tradeflow/internal/model"
)

func codesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "List the HS code catalog with commodity descriptions",
		RunE:  runCodes,
	}
}

func runCodes(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfigForFlow(model.FlowImport)
	if err != nil {
		return err
	}

	codes, err := catalog.LoadCodes(cfg.CodesFile)
	if err != nil {
		return err
	}

	lookup, err := catalog.LoadLookup(cfg.LookupFile)
	if err != nil {
		slog.Warn("Lookup table unavailable, using placeholder descriptions", "error", err)
		lookup = catalog.NewLookup(nil)
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("HS Code Catalog (%d codes)", len(codes))))
	for _, code := range codes {
		fmt.Printf("  %s  %s\n", cli.SuccessStyle.Render(code), lookup.Describe(code))
	}

	return nil
}
