package analytics

import (
	"cmp"
	"slices"

	"sp500cli/pkg/contracts/domain"
)

// VolatilityLeaders ranks symbols by their widest daily high-low spread.
// The ranking covers every symbol; TopSymbols and Distribution describe the
// first topN entries, Distribution holding every row of those symbols.
func VolatilityLeaders(table *domain.EnrichedTable, topN int) domain.VolatilityRanking {
	ranking := domain.VolatilityRanking{
		Ranked: []domain.VolatilityEvent{},
		TopN:   topN,
	}
	if table.Len() == 0 {
		return ranking
	}

	idx := argMaxBySymbol(table, func(r domain.EnrichedRecord) float64 {
		return r.Volatility
	})
	for _, i := range idx {
		r := table.Row(i)
		ranking.Ranked = append(ranking.Ranked, domain.VolatilityEvent{
			Symbol:     r.Symbol,
			Date:       r.Date,
			High:       r.High,
			Low:        r.Low,
			Volatility: r.Volatility,
		})
	}

	slices.SortFunc(ranking.Ranked, func(a, b domain.VolatilityEvent) int {
		if c := cmp.Compare(b.Volatility, a.Volatility); c != 0 {
			return c
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})

	top := make(map[string]bool)
	for _, e := range ranking.Top() {
		ranking.TopSymbols = append(ranking.TopSymbols, e.Symbol)
		top[e.Symbol] = true
	}

	for i := 0; i < table.Len(); i++ {
		r := table.Row(i)
		if !top[r.Symbol] {
			continue
		}
		ranking.Distribution = append(ranking.Distribution, domain.VolatilityPoint{
			Symbol:     r.Symbol,
			Date:       r.Date,
			Volatility: r.Volatility,
		})
	}

	return ranking
}
