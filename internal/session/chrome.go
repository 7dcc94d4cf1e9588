package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"

	"github.com/elaraway/tradeflow/internal/common"
	"github.com/elaraway/tradeflow/internal/config"
	"github.com/elaraway/tradeflow/internal/model"
)

// exportSettleDelay covers the gap between the export button rendering and
// it becoming clickable; the page wires its handler slightly after paint.
const exportSettleDelay = 2 * time.Second

// ChromeSession drives the report tool through a headless Chrome instance.
// One browser serves the whole run; each Submit is a fresh navigation so a
// broken page state from one period cannot leak into the next.
type ChromeSession struct {
	cfg           *config.Config
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
}

// NewChromeSession launches the browser and points its downloads at the
// staging directory.
func NewChromeSession(ctx context.Context, cfg *config.Config) (*ChromeSession, error) {
	stagingDir, err := filepath.Abs(cfg.StagingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve staging directory: %w", err)
	}
	if err := os.MkdirAll(stagingDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Downloads stay silent and land in staging even in headless mode.
	err = chromedp.Run(browserCtx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(stagingDir).
			WithEventsEnabled(true),
	)
	if err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	slog.Info("Browser session started",
		"staging_dir", stagingDir,
		"headless", cfg.Headless)

	return &ChromeSession{
		cfg:           cfg,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
	}, nil
}

// Submit navigates to the report form, fills (code, month, year), submits,
// and waits for the export control. Absence of the control within the
// export timeout is OutcomeNoData; only navigation or interaction failures
// return an error.
func (s *ChromeSession) Submit(ctx context.Context, code string, period model.Period) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return OutcomeNoData, err
	}

	form := s.cfg.Form

	formCtx, cancelForm := context.WithTimeout(s.browserCtx, s.cfg.FormTimeout)
	defer cancelForm()

	err := chromedp.Run(formCtx,
		chromedp.Navigate(form.URL),
		chromedp.WaitVisible(form.CodeInput, chromedp.ByQuery),
		chromedp.SetValue(form.CodeInput, code, chromedp.ByQuery),
		chromedp.SetValue(form.MonthSelect, strconv.Itoa(int(period.Month)), chromedp.ByQuery),
		chromedp.SetValue(form.YearSelect, strconv.Itoa(period.Year), chromedp.ByQuery),
		// Scripted click: the submit button sits under a sticky header that
		// intercepts synthesized mouse events.
		chromedp.Evaluate(fmt.Sprintf("document.querySelector(%q).click()", form.SubmitButton), nil),
	)
	if err != nil {
		return OutcomeNoData, fmt.Errorf("%w: form interaction for %s %s: %v",
			common.ErrSessionFailed, code, period, err)
	}

	// Distinct bounded wait for the export affordance. The tool renders it
	// only when the query produced rows, so expiry here means no data.
	exportCtx, cancelExport := context.WithTimeout(s.browserCtx, s.cfg.ExportTimeout)
	defer cancelExport()

	err = chromedp.Run(exportCtx, chromedp.WaitVisible(form.ExportButton, chromedp.ByQuery))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return OutcomeNoData, nil
		}
		return OutcomeNoData, fmt.Errorf("%w: waiting for export control for %s %s: %v",
			common.ErrSessionFailed, code, period, err)
	}

	err = chromedp.Run(s.browserCtx,
		chromedp.Sleep(exportSettleDelay),
		chromedp.Evaluate(fmt.Sprintf("document.querySelector(%q).click()", form.ExportButton), nil),
	)
	if err != nil {
		return OutcomeNoData, fmt.Errorf("%w: triggering export for %s %s: %v",
			common.ErrSessionFailed, code, period, err)
	}

	return OutcomeExported, nil
}

// Close shuts the browser down.
func (s *ChromeSession) Close() error {
	err := chromedp.Cancel(s.browserCtx)
	s.browserCancel()
	s.allocCancel()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}
