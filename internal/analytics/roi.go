package analytics

import (
	"cmp"
	"slices"
	"time"

	"sp500cli/pkg/contracts/domain"
)

// ROI computes the holding-period return of every symbol that has a row on
// both start and end: (close on end - open on start) / open on start * 100.
// When a symbol has several rows on a boundary date the first one is used.
// Symbols with a zero opening price are listed in Excluded.
// No common symbol yields an empty ranking, never an error.
func ROI(table *domain.EnrichedTable, start, end time.Time) domain.ROIRanking {
	ranking := domain.ROIRanking{
		Start:   start,
		End:     end,
		Entries: []domain.ROIEntry{},
	}

	startOpen := make(map[string]float64)
	endClose := make(map[string]float64)
	for i := 0; i < table.Len(); i++ {
		r := table.Row(i)
		if sameDay(r.Date, start) {
			if _, ok := startOpen[r.Symbol]; !ok {
				startOpen[r.Symbol] = r.Open
			}
		}
		if sameDay(r.Date, end) {
			if _, ok := endClose[r.Symbol]; !ok {
				endClose[r.Symbol] = r.Close
			}
		}
	}
	ranking.StartSymbols = len(startOpen)
	ranking.EndSymbols = len(endClose)

	for _, symbol := range table.Symbols() {
		open, okStart := startOpen[symbol]
		closePrice, okEnd := endClose[symbol]
		if !okStart || !okEnd {
			continue
		}
		if open == 0 {
			ranking.Excluded = append(ranking.Excluded, symbol)
			continue
		}
		ranking.Entries = append(ranking.Entries, domain.ROIEntry{
			Symbol:    symbol,
			StartOpen: open,
			EndClose:  closePrice,
			ROI:       (closePrice - open) / open * 100,
		})
	}

	slices.SortFunc(ranking.Entries, func(a, b domain.ROIEntry) int {
		if c := cmp.Compare(b.ROI, a.ROI); c != 0 {
			return c
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})
	return ranking
}
