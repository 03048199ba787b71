package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sp500cli/internal/shared/testutil"
	"sp500cli/pkg/contracts/domain"
)

func TestEnrich(t *testing.T) {
	mon := time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC)
	input := domain.NewPriceTable([]domain.PriceRecord{
		{Symbol: "AAA", Date: mon, Open: 100, High: 112, Low: 98, Close: 110, Volume: 1000},
		{Symbol: "BBB", Date: mon.AddDate(0, 0, 1), Open: 50, High: 55, Low: 40, Close: 45, Volume: 500},
		{Symbol: "ZERO", Date: mon.AddDate(0, 0, 2), Open: 0, High: 1, Low: 0, Close: 1, Volume: 1},
	})
	before := append([]domain.PriceRecord(nil), input.Records...)

	out := quietLoader().Enrich(context.Background(), input)

	require.Equal(t, 3, out.Len())
	assert.Equal(t, before, input.Records, "input must not change")

	tests := []struct {
		pct     float64
		weekday time.Weekday
		vol     float64
	}{
		{10, time.Monday, 14},
		{-10, time.Tuesday, 15},
		{0, time.Wednesday, 1},
	}
	for i, tt := range tests {
		row := out.Row(i)
		assert.Equal(t, input.Records[i], row.PriceRecord)
		assert.InDelta(t, tt.pct, row.PercentChange, 1e-9)
		assert.Equal(t, tt.weekday, row.Weekday)
		assert.InDelta(t, tt.vol, row.Volatility, 1e-9)
	}
	assert.Equal(t, []string{"AAA", "BBB", "ZERO"}, out.Symbols())
}

func TestEnrich_Empty(t *testing.T) {
	assert.Equal(t, 0, Enrich(nil).Len())
	assert.Equal(t, 0, Enrich(domain.NewPriceTable(nil)).Len())
}

func TestEnrich_MatchesFixtures(t *testing.T) {
	records := testutil.SampleRecords()

	got := Enrich(domain.NewPriceTable(records))

	assert.Equal(t, testutil.SampleTable().Rows(), got.Rows())
}
