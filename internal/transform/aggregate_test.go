package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elaraway/tradeflow/internal/model"
)

func record(country, date string, value float64) model.TradeRecord {
	return model.TradeRecord{
		HSCode:    "09041110",
		Commodity: "Pepper",
		Country:   country,
		Date:      date,
		Value:     value,
		Flow:      model.FlowImport,
	}
}

func TestDedupeFirstWins(t *testing.T) {
	first := record("Germany", "Apr-2020", 12.5)
	duplicate := record("Germany", "Apr-2020", 99.9)
	other := record("Germany", "May-2020", 7.0)

	out := Dedupe([]model.TradeRecord{first, duplicate, other})

	require.Len(t, out, 2)
	assert.Equal(t, first, out[0], "tie-break keeps the first-encountered record")
	assert.Equal(t, other, out[1])
}

func TestDedupePreservesOrder(t *testing.T) {
	in := []model.TradeRecord{
		record("Brazil", "Apr-2020", 1),
		record("Angola", "Apr-2020", 2),
		record("Brazil", "Apr-2020", 3),
		record("Chile", "Apr-2020", 4),
	}

	out := Dedupe(in)

	require.Len(t, out, 3)
	assert.Equal(t, "Brazil", out[0].Country)
	assert.Equal(t, "Angola", out[1].Country)
	assert.Equal(t, "Chile", out[2].Country)
}

func TestDedupeEmpty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
}

func TestAggregateCode(t *testing.T) {
	dir := t.TempDir()

	// Two months plus a malformed artifact. April and May overlap on the
	// Apr-2020 column; April sorts first, so its value must win.
	writeArtifact(t, dir, "April_2020.xlsx", [][]any{
		{"preamble"}, {"preamble"},
		{"S.No.", "Country", "Apr-2020"},
		{1, "Germany", 12.5},
	})
	writeArtifact(t, dir, "May_2020.xlsx", [][]any{
		{"preamble"}, {"preamble"},
		{"S.No.", "Country", "Apr-2020", "May-2020"},
		{1, "Germany", 99.9, 20.0},
	})
	writeArtifact(t, dir, "June_2020.xlsx", [][]any{
		{"preamble"}, {"preamble"},
		{"S.No.", "Region", "Jun-2020"},
		{1, "Europe", 5.0},
	})

	result, err := New().AggregateCode(dir, "09041110", "Pepper", model.FlowImport)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Files)
	assert.Equal(t, 1, result.Malformed)
	require.Len(t, result.Records, 2)

	byDate := map[string]model.TradeRecord{}
	for _, r := range result.Records {
		byDate[r.Date] = r
	}
	assert.InDelta(t, 12.5, byDate["Apr-2020"].Value, 1e-9, "first-seen April value wins over May's overlap")
	assert.InDelta(t, 20.0, byDate["May-2020"].Value, 1e-9)
}

func TestAggregateCodeMissingDir(t *testing.T) {
	_, err := New().AggregateCode("/nonexistent/path", "09041110", "Pepper", model.FlowImport)
	require.Error(t, err)
}
