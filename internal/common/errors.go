// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Catalog errors.
	ErrCatalogEmpty = errors.New("catalog contains no HS codes")

	// Acquisition errors.
	ErrDownloadTimeout = errors.New("download did not appear in staging directory")
	ErrSessionFailed   = errors.New("report session failed")

	// Transformation errors.
	ErrTruncated       = errors.New("artifact has fewer rows than the report preamble")
	ErrNoCountryColumn = errors.New("no country column in artifact header")
	ErrNoValueColumns  = errors.New("no value columns recognized in artifact header")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsMalformedArtifact reports whether err means an artifact should be
// excluded from transformation output rather than abort the run.
func IsMalformedArtifact(err error) bool {
	return errors.Is(err, ErrTruncated) ||
		errors.Is(err, ErrNoCountryColumn) ||
		errors.Is(err, ErrNoValueColumns)
}
