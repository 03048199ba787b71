package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sp500cli/pkg/contracts/domain"
)

// Monday is the first trading day used by the fixtures, 2017-01-02
var Monday = time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC)

// Day returns Monday shifted by offset days
func Day(offset int) time.Time {
	return Monday.AddDate(0, 0, offset)
}

// Price builds a price record
func Price(symbol string, date time.Time, open, high, low, close float64, volume int64) domain.PriceRecord {
	return domain.PriceRecord{
		Symbol: symbol,
		Date:   date,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
	}
}

// SampleRecords is a two-symbol dataset over Monday to Thursday
func SampleRecords() []domain.PriceRecord {
	return []domain.PriceRecord{
		Price("AAA", Day(0), 100, 105, 95, 102, 1000),
		Price("BBB", Day(0), 50, 52, 48, 49, 2000),
		Price("AAA", Day(1), 102, 110, 101, 108, 1500),
		Price("BBB", Day(1), 49, 51, 47, 50, 2100),
		Price("AAA", Day(2), 108, 109, 100, 101, 1200),
		Price("BBB", Day(2), 50, 58, 49, 57, 2500),
		Price("AAA", Day(3), 101, 104, 99, 103, 1100),
		Price("BBB", Day(3), 57, 58, 54, 55, 1800),
	}
}

// Enriched builds an enriched table from records, deriving the extra columns
func Enriched(records ...domain.PriceRecord) *domain.EnrichedTable {
	rows := make([]domain.EnrichedRecord, len(records))
	for i, r := range records {
		rows[i] = domain.NewEnrichedRecord(r)
	}
	return domain.NewEnrichedTable(rows)
}

// SampleTable is SampleRecords enriched
func SampleTable() *domain.EnrichedTable {
	return Enriched(SampleRecords()...)
}

// WriteDatasetWorkbook writes records to an xlsx file in dir with the
// standard dataset header and returns its path
func WriteDatasetWorkbook(t *testing.T, dir, name string, records []domain.PriceRecord) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []interface{}{"symbol", "date", "open", "high", "low", "close", "volume"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		row := []interface{}{r.Symbol, r.Date.Format("2006-01-02"), r.Open, r.High, r.Low, r.Close, r.Volume}
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}
