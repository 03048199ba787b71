package analytics

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"sp500cli/internal/config"
	"sp500cli/internal/infrastructure"
	"sp500cli/internal/shared/testutil"
	"sp500cli/pkg/contracts/domain"
)

func sampleOptions() Options {
	return Options{
		Start:         testutil.Day(0),
		End:           testutil.Day(3),
		VaRSymbols:    []string{"AAA", "BBB"},
		VaRConfidence: 0.95,
		TTestSymbolA:  "AAA",
		TTestSymbolB:  "BBB",
		TopN:          10,
		Concurrency:   1,
	}
}

func TestRunner_Run(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	runner := NewRunner(sampleOptions(), logger, nil, nil)

	report := runner.Run(context.Background(), testutil.SampleTable())

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 8, report.Rows)
	assert.Equal(t, 2, report.Symbols)
	assert.Empty(t, report.Failures)

	require.Len(t, report.TopEvents, 2)
	assert.Equal(t, "BBB", report.TopEvents[0].Symbol)
	require.NotNil(t, report.WeekdayVolume)
	assert.Equal(t, "Wednesday", report.WeekdayVolume.Highest.String)
	require.NotNil(t, report.Volatility)
	assert.Equal(t, "AAA", report.Volatility.Ranked[0].Symbol)
	require.NotNil(t, report.ROI)
	assert.Equal(t, "BBB", report.ROI.Entries[0].Symbol)
	require.NotNil(t, report.VaR)
	assert.Len(t, report.VaR.Entries, 2)
	require.NotNil(t, report.TTest)
	assert.InDelta(t, -0.5876800943289772, report.TTest.TStatistic, 1e-9)

	testutil.AssertNoErrors(t, handler)
	testutil.AssertLogAttr(t, handler, "component", "analytics")
}

func TestRunner_FailureIsIsolated(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	opts := sampleOptions()
	opts.TTestSymbolB = "MISSING"
	opts.VaRSymbols = []string{"AAA", "MISSING"}

	report := NewRunner(opts, logger, nil, nil).Run(context.Background(), testutil.SampleTable())

	require.Len(t, report.Failures, 1)
	assert.Equal(t, domain.AnalysisTTest, report.Failures[0].Analysis)
	assert.Contains(t, report.Failures[0].Error, "symbol not in dataset")
	assert.True(t, report.Failed(domain.AnalysisTTest))
	assert.Nil(t, report.TTest)

	assert.NotNil(t, report.TopEvents)
	assert.NotNil(t, report.WeekdayVolume)
	assert.NotNil(t, report.Volatility)
	assert.NotNil(t, report.ROI)
	require.NotNil(t, report.VaR)
	assert.Len(t, report.VaR.Skipped, 1)

	testutil.AssertLogContains(t, handler, slog.LevelError, "Analysis failed")
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Skipping VaR for symbol")
}

func TestRunner_ConcurrentMatchesSequential(t *testing.T) {
	table := testutil.SampleTable()

	seq := NewRunner(sampleOptions(), nil, nil, nil).Run(context.Background(), table)

	opts := sampleOptions()
	opts.Concurrency = config.MaxConcurrency
	par := NewRunner(opts, nil, nil, nil).Run(context.Background(), table)

	par.RunID, par.GeneratedAt = seq.RunID, seq.GeneratedAt
	assert.Equal(t, seq, par)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := NewRunner(sampleOptions(), nil, nil, nil).Run(ctx, testutil.SampleTable())
	require.Len(t, report.Failures, len(domain.AllAnalyses))
	for i, f := range report.Failures {
		assert.Equal(t, domain.AllAnalyses[i], f.Analysis)
		assert.Contains(t, f.Error, "context canceled")
	}
}

func TestRunner_RecoversPanic(t *testing.T) {
	runner := NewRunner(sampleOptions(), nil, nil, nil)
	err := runner.execute(context.Background(), task{
		name: domain.AnalysisROI,
		run:  func(context.Context) error { panic("boom") },
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: boom")
}

func TestRunner_UsesRunIDFromContext(t *testing.T) {
	ctx := infrastructure.WithRunID(context.Background(), "run-123")
	report := NewRunner(sampleOptions(), nil, nil, nil).Run(ctx, testutil.SampleTable())
	assert.Equal(t, "run-123", report.RunID)
}

func TestRunner_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := infrastructure.CreateAnalysisMetrics(mp.Meter("test"))
	require.NoError(t, err)

	opts := sampleOptions()
	opts.TTestSymbolB = "MISSING"
	NewRunner(opts, nil, nil, metrics).Run(context.Background(), testutil.SampleTable())

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(6), totals["analysis_runs_total"])
	assert.Equal(t, int64(1), totals["analysis_failures_total"])
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := OptionsFromConfig(config.Default().Analysis)
	require.NoError(t, err)
	assert.Equal(t, 2014, opts.Start.Year())
	assert.Equal(t, 2017, opts.End.Year())
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOG", "AMZN"}, opts.VaRSymbols)
	assert.Equal(t, 1, opts.Concurrency)

	bad := config.Default().Analysis
	bad.StartDate = "not-a-date"
	_, err = OptionsFromConfig(bad)
	assert.Error(t, err)
}
