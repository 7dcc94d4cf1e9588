package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlow(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Flow
		wantErr bool
	}{
		{name: "import", input: "import", want: FlowImport},
		{name: "export", input: "export", want: FlowExport},
		{name: "capitalized is rejected", input: "Import", wantErr: true},
		{name: "empty is rejected", input: "", wantErr: true},
		{name: "unknown is rejected", input: "transit", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlow(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlowLabel(t *testing.T) {
	assert.Equal(t, "Import", FlowImport.Label())
	assert.Equal(t, "Export", FlowExport.Label())
}

func TestPeriodOrdering(t *testing.T) {
	assert.True(t, Period{2019, time.December}.Before(Period{2020, time.January}))
	assert.True(t, Period{2020, time.March}.Before(Period{2020, time.April}))
	assert.False(t, Period{2020, time.April}.Before(Period{2020, time.April}))
	assert.False(t, Period{2021, time.January}.Before(Period{2020, time.December}))
}

func TestPeriodMonthName(t *testing.T) {
	assert.Equal(t, "January", Period{2024, time.January}.MonthName())
	assert.Equal(t, "September", Period{2024, time.September}.MonthName())
}

func TestPeriodsThrough(t *testing.T) {
	t.Run("excludes future months in current year", func(t *testing.T) {
		now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
		periods := PeriodsThrough(2025, now)

		require.Len(t, periods, 3)
		assert.Equal(t, Period{2025, time.January}, periods[0])
		assert.Equal(t, Period{2025, time.February}, periods[1])
		assert.Equal(t, Period{2025, time.March}, periods[2])
	})

	t.Run("full years plus partial current year", func(t *testing.T) {
		now := time.Date(2019, time.February, 1, 0, 0, 0, 0, time.UTC)
		periods := PeriodsThrough(2018, now)

		require.Len(t, periods, 14)
		assert.Equal(t, Period{2018, time.January}, periods[0])
		assert.Equal(t, Period{2018, time.December}, periods[11])
		assert.Equal(t, Period{2019, time.February}, periods[13])
	})

	t.Run("ascending order", func(t *testing.T) {
		now := time.Date(2020, time.June, 30, 0, 0, 0, 0, time.UTC)
		periods := PeriodsThrough(2018, now)
		for i := 1; i < len(periods); i++ {
			assert.True(t, periods[i-1].Before(periods[i]))
		}
	})
}

func TestTradeRecordKey(t *testing.T) {
	a := TradeRecord{HSCode: "09041110", Country: "Germany", Date: "Apr-2020", Value: 12.5, Flow: FlowImport}
	b := TradeRecord{HSCode: "09041110", Country: "Germany", Date: "Apr-2020", Value: 99.9, Flow: FlowImport}
	c := TradeRecord{HSCode: "09041110", Country: "Germany", Date: "May-2020", Value: 12.5, Flow: FlowImport}

	assert.Equal(t, a.Key(), b.Key(), "value must not participate in the key")
	assert.NotEqual(t, a.Key(), c.Key())
}
