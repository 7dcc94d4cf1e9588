// Package session drives one request/response cycle against the remote
// report tool. The acquisition loop depends only on the Session interface;
// the chromedp implementation is the production backend and tests use the
// scripted fake.
package session

import (
	"context"

	"github.com/elaraway/tradeflow/internal/model"
)

// Outcome is the result of one report submission.
type Outcome int

const (
	// OutcomeExported means the export was triggered and a download is on
	// its way to the staging directory.
	OutcomeExported Outcome = iota
	// OutcomeNoData means the query returned no rows. The report page shows
	// no export control in that case, so this is an expected outcome, not a
	// failure: the period simply has no trade to record.
	OutcomeNoData
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExported:
		return "exported"
	case OutcomeNoData:
		return "no-data"
	default:
		return "unknown"
	}
}

// Session submits (code, period) report requests. Implementations are not
// safe for concurrent use: the staging directory can only attribute one
// in-flight download at a time, so the driver serializes calls.
type Session interface {
	// Submit runs one full form cycle for the given code and period.
	// A nil error with OutcomeNoData is the expected-absence case; a
	// non-nil error means this single request failed and should be
	// retried by a later run.
	Submit(ctx context.Context, code string, period model.Period) (Outcome, error)

	// Close releases the underlying browser resources.
	Close() error
}
