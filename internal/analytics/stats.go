package analytics

import (
	"fmt"
	"math"
	"slices"
	"time"

	"sp500cli/pkg/contracts/domain"
)

// Quantile returns the q-quantile (0 <= q <= 1) of values using linear
// interpolation between order statistics. values is not modified.
func Quantile(values []float64, q float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrInsufficientData
	}
	if q < 0 || q > 1 || math.IsNaN(q) {
		return 0, fmt.Errorf("quantile %v out of range [0, 1]", q)
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	h := float64(len(sorted)-1) * q
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1], nil
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo]), nil
}

// Percentile is Quantile with p given in percent (0 to 100)
func Percentile(values []float64, p float64) (float64, error) {
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, fmt.Errorf("percentile %v out of range [0, 100]", p)
	}
	return Quantile(values, p/100)
}

// DailyReturns computes simple returns (c[t]-c[t-1])/c[t-1] over consecutive
// closes. Pairs whose previous close is zero have no defined return and are skipped.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			continue
		}
		returns = append(returns, (closes[i]-prev)/prev)
	}
	return returns
}

// SymbolRowsByDate returns the rows of symbol ordered by date.
// Rows sharing a date keep their input order.
func SymbolRowsByDate(table *domain.EnrichedTable, symbol string) []domain.EnrichedRecord {
	rows := table.SymbolRows(symbol)
	slices.SortStableFunc(rows, func(a, b domain.EnrichedRecord) int {
		return a.Date.Compare(b.Date)
	})
	return rows
}

// SymbolCloses returns the closing prices of symbol ordered by date
func SymbolCloses(table *domain.EnrichedTable, symbol string) []float64 {
	rows := SymbolRowsByDate(table, symbol)
	closes := make([]float64, len(rows))
	for i, r := range rows {
		closes[i] = r.Close
	}
	return closes
}

// SymbolReturns returns the daily returns of symbol
func SymbolReturns(table *domain.EnrichedTable, symbol string) []float64 {
	return DailyReturns(SymbolCloses(table, symbol))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// argMaxBySymbol returns, per symbol in first-seen order, the index of the row
// with the largest key. Ties keep the earliest row.
func argMaxBySymbol(table *domain.EnrichedTable, key func(domain.EnrichedRecord) float64) []int {
	best := make(map[string]int)
	var order []string
	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		j, ok := best[row.Symbol]
		if !ok {
			best[row.Symbol] = i
			order = append(order, row.Symbol)
			continue
		}
		if key(row) > key(table.Row(j)) {
			best[row.Symbol] = i
		}
	}

	idx := make([]int, len(order))
	for i, s := range order {
		idx[i] = best[s]
	}
	return idx
}
