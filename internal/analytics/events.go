package analytics

import (
	"cmp"
	"math"
	"slices"

	"sp500cli/pkg/contracts/domain"
)

// TopTradingEvents returns, for every symbol, the day with the largest absolute
// percent change between open and close. Results are sorted by that magnitude,
// largest first, with symbol order breaking ties.
func TopTradingEvents(table *domain.EnrichedTable) []domain.TradingEvent {
	if table.Len() == 0 {
		return []domain.TradingEvent{}
	}

	idx := argMaxBySymbol(table, func(r domain.EnrichedRecord) float64 {
		return math.Abs(r.PercentChange)
	})

	events := make([]domain.TradingEvent, 0, len(idx))
	for _, i := range idx {
		r := table.Row(i)
		events = append(events, domain.TradingEvent{
			Symbol:        r.Symbol,
			Date:          r.Date,
			Open:          r.Open,
			Close:         r.Close,
			PercentChange: r.PercentChange,
		})
	}

	slices.SortFunc(events, func(a, b domain.TradingEvent) int {
		if c := cmp.Compare(math.Abs(b.PercentChange), math.Abs(a.PercentChange)); c != 0 {
			return c
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})
	return events
}
