package storage

import (
	"context"
	"fmt"

	"github.com/elaraway/tradeflow/internal/model"
	"github.com/elaraway/tradeflow/internal/service"
)

// SaveRecords inserts records transactionally. Rows whose
// (hs_code, country, date, flow) key already exists are ignored, matching
// the aggregator's first-wins rule; re-running a transform over the same
// tree is a no-op. Returns the number of newly inserted rows.
func (s *SQLiteStorage) SaveRecords(ctx context.Context, records []model.TradeRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO trade_records
		(hs_code, commodity, country, date, value, flow)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	inserted := 0
	for _, r := range records {
		res, err := stmt.ExecContext(ctx, r.HSCode, r.Commodity, r.Country, r.Date, r.Value, string(r.Flow))
		if err != nil {
			return 0, fmt.Errorf("failed to insert record %s/%s/%s: %w", r.HSCode, r.Country, r.Date, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit records: %w", err)
	}
	return inserted, nil
}

// GetRecords returns records matching the filter, ordered by
// (hs_code, date, country).
func (s *SQLiteStorage) GetRecords(ctx context.Context, filter service.RecordFilter) ([]model.TradeRecord, error) {
	query := `SELECT hs_code, commodity, country, date, value, flow FROM trade_records WHERE 1=1`
	var args []any

	if filter.Flow != "" {
		query += ` AND flow = ?`
		args = append(args, string(filter.Flow))
	}
	if filter.HSCode != "" {
		query += ` AND hs_code = ?`
		args = append(args, filter.HSCode)
	}
	query += ` ORDER BY hs_code, date, country`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []model.TradeRecord
	for rows.Next() {
		var r model.TradeRecord
		var flow string
		if err := rows.Scan(&r.HSCode, &r.Commodity, &r.Country, &r.Date, &r.Value, &flow); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.Flow = model.Flow(flow)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

// CountRecords returns the number of stored records for a flow, or all
// records when flow is empty.
func (s *SQLiteStorage) CountRecords(ctx context.Context, flow model.Flow) (int, error) {
	query := `SELECT COUNT(*) FROM trade_records`
	var args []any
	if flow != "" {
		query += ` WHERE flow = ?`
		args = append(args, string(flow))
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// DistinctCodes returns the HS codes present in the store for a flow.
func (s *SQLiteStorage) DistinctCodes(ctx context.Context, flow model.Flow) ([]string, error) {
	query := `SELECT DISTINCT hs_code FROM trade_records`
	var args []any
	if flow != "" {
		query += ` WHERE flow = ?`
		args = append(args, string(flow))
	}
	query += ` ORDER BY hs_code`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query codes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate codes: %w", err)
	}
	return codes, nil
}
