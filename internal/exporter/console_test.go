package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"sp500cli/pkg/contracts/domain"
)

func TestConsoleReporter_PrintReport(t *testing.T) {
	var buf bytes.Buffer
	report := sampleReport(t)

	NewConsoleReporter(&buf, 10).PrintReport(report)
	out := buf.String()

	for _, want := range []string{
		"Analysis Report (run " + report.RunID + ")",
		"Top Trading Events",
		"Volume by Weekday",
		"highest volume: Wednesday",
		"lowest volume: Thursday",
		"Most Volatile Days",
		"Return on Investment",
		"period: 2017-01-02 to 2017-01-05",
		"AAA: -5.6353% potential loss in a single day at 95% confidence",
		"BBB: -2.9538% potential loss in a single day at 95% confidence",
		"No significant difference between the daily returns of AAA and BBB",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Failed Analyses")
}

func TestConsoleReporter_PrintReportWithFailures(t *testing.T) {
	var buf bytes.Buffer
	report := &domain.AnalysisReport{
		RunID: "run-1",
		TTest: &domain.TTestResult{SymbolA: "AAA", SymbolB: "BBB", PValue: 0.01, Significant: true},
		Failures: []domain.AnalysisFailure{
			{Analysis: domain.AnalysisROI, Error: "no rows on start date"},
		},
	}

	NewConsoleReporter(&buf, 10).PrintReport(report)
	out := buf.String()

	assert.Contains(t, out, "differ significantly (p < 0.05)")
	assert.Contains(t, out, "Failed Analyses")
	assert.Contains(t, out, "no rows on start date")
	assert.NotContains(t, out, "Return on Investment")
}

func TestConsoleReporter_PrintProfile(t *testing.T) {
	var buf bytes.Buffer

	NewConsoleReporter(&buf, 10).PrintProfile(sampleProfile(), &domain.LoadStats{
		RowsRead: 10, RowsKept: 7, RowsIncomplete: 2, RowsInvalid: 1,
	})
	out := buf.String()

	assert.Contains(t, out, "rows: 2  columns: date, open, symbol")
	assert.Contains(t, out, "First rows")
	assert.Contains(t, out, "2017-01-03")
	assert.Contains(t, out, "Dataset Profile")
	assert.Contains(t, out, "rows kept: 7 of 10 (incomplete 2, invalid 1)")
}
