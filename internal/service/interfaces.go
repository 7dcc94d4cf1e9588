// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/elaraway/tradeflow/internal/model"
)

// RecordFilter defines filtering options for record queries.
type RecordFilter struct {
	Flow   model.Flow
	HSCode string
	Limit  int
}

// RecordStore defines the contract for the long-record persistence layer.
// The sqlite implementation lives in internal/storage; anything that reads
// or writes records should depend on this interface.
type RecordStore interface {
	// SaveRecords persists records, ignoring ones whose uniqueness key is
	// already stored. Returns the number of newly inserted rows.
	SaveRecords(ctx context.Context, records []model.TradeRecord) (int, error)

	GetRecords(ctx context.Context, filter RecordFilter) ([]model.TradeRecord, error)
	CountRecords(ctx context.Context, flow model.Flow) (int, error)
	DistinctCodes(ctx context.Context, flow model.Flow) ([]string, error)

	// Migrate brings the schema up to the current version.
	Migrate(ctx context.Context) error
	Close() error
}
