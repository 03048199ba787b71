package dataprocessing

import (
	"context"
	"log/slog"

	"sp500cli/pkg/contracts/domain"
)

// Enrich derives the percent change, weekday and volatility columns.
// It returns a new table in the same row order; table itself is not modified.
func Enrich(table *domain.PriceTable) *domain.EnrichedTable {
	rows := make([]domain.EnrichedRecord, 0, table.Len())
	if table != nil {
		for _, r := range table.Records {
			rows = append(rows, domain.NewEnrichedRecord(r))
		}
	}
	return domain.NewEnrichedTable(rows)
}

// Enrich enriches table and warns about rows whose percent change is undefined
func (l *Loader) Enrich(ctx context.Context, table *domain.PriceTable) *domain.EnrichedTable {
	enriched := Enrich(table)

	zeroOpen := 0
	if table != nil {
		for _, r := range table.Records {
			if r.Open == 0 {
				zeroOpen++
			}
		}
	}
	if zeroOpen > 0 {
		l.logger.WarnContext(ctx, "Rows with zero open price have percent change set to 0",
			slog.Int("rows", zeroOpen))
	}

	l.logger.DebugContext(ctx, "Dataset enriched",
		slog.Int("rows", enriched.Len()),
		slog.Int("symbols", len(enriched.Symbols())))
	return enriched
}
