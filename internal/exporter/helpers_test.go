package exporter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"sp500cli/internal/analytics"
	"sp500cli/internal/shared/testutil"
	"sp500cli/pkg/contracts/domain"
)

func sampleReport(t *testing.T) *domain.AnalysisReport {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	runner := analytics.NewRunner(analytics.Options{
		Start:         testutil.Day(0),
		End:           testutil.Day(3),
		VaRSymbols:    []string{"AAA", "BBB"},
		VaRConfidence: 0.95,
		TTestSymbolA:  "AAA",
		TTestSymbolB:  "BBB",
		TopN:          10,
		Concurrency:   1,
	}, logger, nil, nil)

	report := runner.Run(context.Background(), testutil.SampleTable())
	require.Empty(t, report.Failures)
	return report
}

func sampleProfile() *domain.DatasetProfile {
	return &domain.DatasetProfile{
		Columns:    []string{"date", "open", "symbol"},
		Rows:       2,
		Head:       [][]string{{"2017-01-02", "10", "AAA"}, {"2017-01-03", "11", "AAA"}},
		Tail:       [][]string{{"2017-01-02", "10", "AAA"}, {"2017-01-03", "11", "AAA"}},
		NullCounts: map[string]int{"date": 0, "open": 1, "symbol": 0},
		Describe: []domain.ColumnStats{
			{Column: "open", Count: 2, Mean: 10.5, Std: 0.7071067811865476, Min: 10, P25: 10.25, P50: 10.5, P75: 10.75, Max: 11},
		},
	}
}
