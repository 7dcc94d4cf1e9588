package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/elaraway/tradeflow/internal/catalog"
	"github.com/elaraway/tradeflow/internal/cli"
	"github.com/elaraway/tradeflow/internal/crawler"
	"github.com/elaraway/tradeflow/internal/session"
)

func crawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Download monthly trade artifacts for every catalog HS code",
		Long: `Crawl iterates the HS code catalog and downloads one spreadsheet per
(code, month) from the reporting portal into the canonical artifact tree.

Already-downloaded months are skipped, so interrupting and re-running the
command is always safe. Periods the portal has no data for are recorded as
such and never retried within a run; failed periods are retried simply by
running crawl again later.

Examples:
  # Crawl the import tree with the default catalog
  tradeflow crawl --flow import

  # Crawl exports, watching the browser
  tradeflow crawl --flow export --headful`,
		RunE: runCrawl,
	}

	cmd.Flags().String("flow", "import", "trade flow to crawl (import, export)")
	cmd.Flags().Bool("headful", false, "run the browser with a visible window")

	return cmd
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if headful, _ := cmd.Flags().GetBool("headful"); headful {
		cfg.Headless = false
	}

	codes, err := catalog.LoadCodes(cfg.CodesFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	sess, err := session.NewChromeSession(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to start report session: %w", err)
	}

	c := crawler.New(cfg, sess, time.Now)

	bar := cli.NewProgressBar(os.Stdout, len(codes), fmt.Sprintf("Crawling %s data...", cfg.Flow))
	c.Progress = func(string) { cli.Advance(bar) }

	stats, err := c.Run(ctx, codes)
	if err != nil {
		return err
	}

	fmt.Println(cli.RenderBox("Crawl Complete", cli.Summary(
		fmt.Sprintf("HS codes: %d (%d already complete)", stats.Codes, stats.CodesComplete),
		fmt.Sprintf("Artifacts saved: %d", stats.Saved),
		fmt.Sprintf("Already on disk: %d", stats.Skipped),
		fmt.Sprintf("No data: %d", stats.NoData),
		fmt.Sprintf("Failed (retried next run): %d", stats.Failed),
	)))

	return nil
}
