package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC)

func TestPriceRecord_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		record PriceRecord
		want   bool
	}{
		{"valid", PriceRecord{Symbol: "AAA", Date: day, High: 2, Low: 1}, true},
		{"flat day", PriceRecord{Symbol: "AAA", Date: day, High: 1, Low: 1}, true},
		{"high below low", PriceRecord{Symbol: "AAA", Date: day, High: 1, Low: 2}, false},
		{"no symbol", PriceRecord{Date: day, High: 2, Low: 1}, false},
		{"no date", PriceRecord{Symbol: "AAA", High: 2, Low: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.IsValid())
		})
	}
}

func TestPriceTable(t *testing.T) {
	records := []PriceRecord{{Symbol: "BBB"}, {Symbol: "AAA"}, {Symbol: "BBB"}}
	table := NewPriceTable(records)
	records[0].Symbol = "ZZZ"

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"BBB", "AAA"}, table.Symbols())

	var nilTable *PriceTable
	assert.Zero(t, nilTable.Len())
	assert.Nil(t, nilTable.Symbols())
}

func TestEnrichedTable(t *testing.T) {
	rows := []EnrichedRecord{
		{PriceRecord: PriceRecord{Symbol: "BBB", Close: 1}},
		{PriceRecord: PriceRecord{Symbol: "AAA", Close: 2}},
		{PriceRecord: PriceRecord{Symbol: "BBB", Close: 3}},
	}
	table := NewEnrichedTable(rows)
	rows[0].Close = 99

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 1.0, table.Row(0).Close)
	assert.Equal(t, []string{"BBB", "AAA"}, table.Symbols())
	assert.True(t, table.HasSymbol("AAA"))
	assert.False(t, table.HasSymbol("CCC"))

	bbb := table.SymbolRows("BBB")
	assert.Len(t, bbb, 2)
	assert.Equal(t, 3.0, bbb[1].Close)
	assert.Empty(t, table.SymbolRows("CCC"))

	copied := table.Rows()
	copied[1].Close = 42
	assert.Equal(t, 2.0, table.Row(1).Close)

	symbols := table.Symbols()
	symbols[0] = "XXX"
	assert.Equal(t, "BBB", table.Symbols()[0])

	var nilTable *EnrichedTable
	assert.Zero(t, nilTable.Len())
	assert.Nil(t, nilTable.Rows())
	assert.False(t, nilTable.HasSymbol("AAA"))
}

func TestLoadStats_RowsDropped(t *testing.T) {
	s := LoadStats{RowsRead: 10, RowsKept: 6, RowsIncomplete: 3, RowsInvalid: 1}
	assert.Equal(t, 4, s.RowsDropped())
}

func TestNewEnrichedRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  PriceRecord
		wantPct float64
		wantVol float64
	}{
		{"gain", PriceRecord{Symbol: "AAA", Date: day, Open: 100, High: 105, Low: 95, Close: 102}, 2, 10},
		{"loss", PriceRecord{Symbol: "AAA", Date: day, Open: 50, High: 52, Low: 48, Close: 49}, -2, 4},
		{"zero open", PriceRecord{Symbol: "AAA", Date: day, High: 1, Low: 0, Close: 1}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewEnrichedRecord(tt.record)
			assert.Equal(t, tt.record, got.PriceRecord)
			assert.InDelta(t, tt.wantPct, got.PercentChange, 1e-12)
			assert.InDelta(t, tt.wantVol, got.Volatility, 1e-12)
			assert.Equal(t, time.Monday, got.Weekday)
		})
	}
}

func TestEnrichedRecord_MarshalJSON(t *testing.T) {
	rec := NewEnrichedRecord(PriceRecord{Symbol: "AAA", Date: day, Open: 100, High: 105, Low: 95, Close: 102, Volume: 7})

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Monday", decoded["weekday"])
	assert.Equal(t, "AAA", decoded["symbol"])
	assert.Equal(t, float64(7), decoded["volume"])
	assert.InDelta(t, 10.0, decoded["volatility"], 1e-12)
}
