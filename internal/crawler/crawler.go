package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/elaraway/tradeflow/internal/config"
	"github.com/elaraway/tradeflow/internal/model"
	"github.com/elaraway/tradeflow/internal/session"
)

// Stats summarizes one crawl run.
type Stats struct {
	Codes         int
	CodesComplete int
	Saved         int
	Skipped       int
	NoData        int
	Failed        int
}

// Crawler iterates codes x periods, skipping work whose artifact already
// exists and isolating every per-period failure. Re-running it after any
// interruption reproduces the same final artifact set without redundant
// requests; the on-disk tree is the only completion state.
type Crawler struct {
	cfg        *config.Config
	session    session.Session
	sink       *FileSink
	reconciler *Reconciler
	now        func() time.Time

	// Progress, when set, is invoked after each code finishes.
	Progress func(code string)
}

// New creates a crawler. The clock is injectable so tests control the
// future-month cutoff and request timestamps.
func New(cfg *config.Config, sess session.Session, now func() time.Time) *Crawler {
	if now == nil {
		now = time.Now
	}
	return &Crawler{
		cfg:        cfg,
		session:    sess,
		sink:       NewFileSink(cfg.ArtifactRoot()),
		reconciler: NewReconciler(cfg.StagingDir, cfg.PollInterval, cfg.SettleDelay),
		now:        now,
	}
}

// Run processes every catalog code in order. It returns early only on
// context cancellation; individual period failures are logged and counted,
// never propagated.
func (c *Crawler) Run(ctx context.Context, codes []string) (Stats, error) {
	stats := Stats{Codes: len(codes)}

	defer func() {
		if err := c.session.Close(); err != nil {
			slog.Warn("Failed to close report session", "error", err)
		}
		c.reconciler.Cleanup()
	}()

	now := c.now()
	endYear := now.Year()

	slog.Info("Starting crawl",
		"flow", c.cfg.Flow,
		"codes", len(codes),
		"start_year", c.cfg.StartYear,
		"through", model.Period{Year: now.Year(), Month: now.Month()}.String())

	for i, code := range codes {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		slog.Info("Processing HS code", "code", code, "position", fmt.Sprintf("%d/%d", i+1, len(codes)))

		if err := c.sink.Prepare(code); err != nil {
			slog.Error("Failed to create artifact directory", "code", code, "error", err)
			stats.Failed++
			continue
		}

		if c.sink.Complete(code, c.cfg.StartYear, endYear, now) {
			slog.Info("All artifacts already downloaded, skipping", "code", code)
			stats.CodesComplete++
			c.codeDone(code)
			continue
		}

		for _, period := range model.PeriodsThrough(c.cfg.StartYear, now) {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			c.processPeriod(ctx, code, period, &stats)
		}
		c.codeDone(code)
	}

	slog.Info("Crawl finished",
		"saved", stats.Saved,
		"skipped", stats.Skipped,
		"no_data", stats.NoData,
		"failed", stats.Failed)

	return stats, nil
}

// processPeriod handles one (code, period) task end to end. Every failure
// path logs and returns: one bad period must never abort the rest of the
// run.
func (c *Crawler) processPeriod(ctx context.Context, code string, period model.Period, stats *Stats) {
	// Existence short-circuit: the artifact on disk is the completion
	// ledger, so a present file means no network interaction at all.
	if c.sink.Exists(code, period) {
		stats.Skipped++
		return
	}
	target := c.sink.Path(code, period)

	slog.Info("Downloading", "code", code, "period", period.String())

	requestedAt := c.now()
	outcome, err := c.session.Submit(ctx, code, period)
	if err != nil {
		slog.Error("Report submission failed",
			"code", code,
			"period", period.String(),
			"error", err)
		stats.Failed++
		return
	}

	if outcome == session.OutcomeNoData {
		// Expected absence: the remote query had no rows for this month.
		slog.Info("No data for period", "code", code, "period", period.String())
		stats.NoData++
		return
	}

	if err := c.reconciler.Collect(ctx, requestedAt, target, c.cfg.DownloadTimeout); err != nil {
		slog.Error("Download reconciliation failed",
			"code", code,
			"period", period.String(),
			"error", err)
		stats.Failed++
		return
	}

	slog.Info("Saved artifact", "code", code, "period", period.String())
	stats.Saved++
}

func (c *Crawler) codeDone(code string) {
	if c.Progress != nil {
		c.Progress(code)
	}
}
