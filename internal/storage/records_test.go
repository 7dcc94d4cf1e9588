package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elaraway/tradeflow/internal/model"
	"github.com/elaraway/tradeflow/internal/service"
)

func testStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "tradeflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func sampleRecords() []model.TradeRecord {
	return []model.TradeRecord{
		{HSCode: "09041110", Commodity: "Pepper", Country: "Germany", Date: "Apr-2020", Value: 12.5, Flow: model.FlowImport},
		{HSCode: "09041110", Commodity: "Pepper", Country: "Vietnam", Date: "Apr-2020", Value: 30.1, Flow: model.FlowImport},
		{HSCode: "09042110", Commodity: "Chillies", Country: "Germany", Date: "May-2020", Value: 4.2, Flow: model.FlowImport},
	}
}

func TestSaveAndGetRecords(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	inserted, err := store.SaveRecords(ctx, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	records, err := store.GetRecords(ctx, service.RecordFilter{Flow: model.FlowImport})
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Ordered by (hs_code, date, country).
	assert.Equal(t, "Germany", records[0].Country)
	assert.Equal(t, "Vietnam", records[1].Country)
	assert.Equal(t, "09042110", records[2].HSCode)
}

func TestSaveRecordsIgnoresDuplicateKeys(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.SaveRecords(ctx, sampleRecords())
	require.NoError(t, err)

	// Same keys, different values: the stored first write must survive.
	dupes := sampleRecords()
	for i := range dupes {
		dupes[i].Value = 999
	}
	inserted, err := store.SaveRecords(ctx, dupes)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	records, err := store.GetRecords(ctx, service.RecordFilter{HSCode: "09041110"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.InDelta(t, 12.5, records[0].Value, 1e-9)
}

func TestSaveRecordsSameKeyDifferentFlow(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	imp := model.TradeRecord{HSCode: "09041110", Commodity: "Pepper", Country: "Germany", Date: "Apr-2020", Value: 1, Flow: model.FlowImport}
	exp := imp
	exp.Flow = model.FlowExport

	inserted, err := store.SaveRecords(ctx, []model.TradeRecord{imp, exp})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted, "flow participates in the uniqueness key")
}

func TestCountAndDistinctCodes(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.SaveRecords(ctx, sampleRecords())
	require.NoError(t, err)

	count, err := store.CountRecords(ctx, model.FlowImport)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = store.CountRecords(ctx, model.FlowExport)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	codes, err := store.DistinctCodes(ctx, model.FlowImport)
	require.NoError(t, err)
	assert.Equal(t, []string{"09041110", "09042110"}, codes)
}

func TestGetRecordsLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.SaveRecords(ctx, sampleRecords())
	require.NoError(t, err)

	records, err := store.GetRecords(ctx, service.RecordFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.Migrate(context.Background()))
}
