package analytics

import (
	"fmt"

	"sp500cli/pkg/contracts/domain"
)

// ValueAtRisk computes the historical one-day VaR of each symbol as the
// (1-confidence) quantile of its daily returns. Symbols are reported in the
// requested order; unknown symbols and those without at least one return are listed
// in Skipped.
func ValueAtRisk(table *domain.EnrichedTable, symbols []string, confidence float64) domain.VaRResult {
	result := domain.VaRResult{
		Confidence: confidence,
		Entries:    []domain.VaREntry{},
	}

	for _, symbol := range symbols {
		if !table.HasSymbol(symbol) {
			result.Skipped = append(result.Skipped, domain.VaRSkip{
				Symbol: symbol,
				Reason: ErrUnknownSymbol.Error(),
			})
			continue
		}

		closes := SymbolCloses(table, symbol)
		if len(closes) < 2 {
			result.Skipped = append(result.Skipped, domain.VaRSkip{
				Symbol: symbol,
				Reason: fmt.Sprintf("%d price records, need at least 2", len(closes)),
			})
			continue
		}

		returns := DailyReturns(closes)
		v, err := Quantile(returns, 1-confidence)
		if err != nil {
			result.Skipped = append(result.Skipped, domain.VaRSkip{
				Symbol: symbol,
				Reason: fmt.Sprintf("no defined daily return: %v", err),
			})
			continue
		}

		result.Entries = append(result.Entries, domain.VaREntry{
			Symbol:       symbol,
			VaR:          v,
			Observations: len(returns),
		})
	}

	return result
}
