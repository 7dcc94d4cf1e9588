package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/elaraway/tradeflow/internal/model"
)

// ScriptedSession is a Session fake that returns canned outcomes per
// (code, period) and records every submission. Used by crawler tests to
// exercise the driver without a browser.
type ScriptedSession struct {
	mu       sync.Mutex
	outcomes map[string]Outcome
	errs     map[string]error
	submits  []string
	closed   bool

	// OnExport is invoked after a scripted Exported outcome, letting a
	// test drop a fake download into the staging directory.
	OnExport func(code string, period model.Period)
}

// NewScriptedSession creates an empty fake; unscripted submissions yield
// OutcomeNoData.
func NewScriptedSession() *ScriptedSession {
	return &ScriptedSession{
		outcomes: make(map[string]Outcome),
		errs:     make(map[string]error),
	}
}

func taskKey(code string, period model.Period) string {
	return fmt.Sprintf("%s/%d-%02d", code, period.Year, int(period.Month))
}

// Script sets the outcome for one (code, period).
func (s *ScriptedSession) Script(code string, period model.Period, outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[taskKey(code, period)] = outcome
}

// ScriptError makes one (code, period) submission fail.
func (s *ScriptedSession) ScriptError(code string, period model.Period, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[taskKey(code, period)] = err
}

// Submit implements Session.
func (s *ScriptedSession) Submit(_ context.Context, code string, period model.Period) (Outcome, error) {
	s.mu.Lock()
	key := taskKey(code, period)
	s.submits = append(s.submits, key)
	err := s.errs[key]
	outcome, ok := s.outcomes[key]
	onExport := s.OnExport
	s.mu.Unlock()

	if err != nil {
		return OutcomeNoData, err
	}
	if !ok {
		return OutcomeNoData, nil
	}
	if outcome == OutcomeExported && onExport != nil {
		onExport(code, period)
	}
	return outcome, nil
}

// Close implements Session.
func (s *ScriptedSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Submissions returns the ordered keys of every Submit call.
func (s *ScriptedSession) Submissions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.submits...)
}

// Closed reports whether Close was called.
func (s *ScriptedSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
