package exporter

import (
	"sp500cli/pkg/contracts/domain"
)

// Table is one analysis result laid out as rows of cells.
// Cells are strings, ints, Num, null.Int, bool or time.Time.
type Table struct {
	Name    string
	Title   string
	Headers []string
	Rows    [][]any
}

// StringRows converts the cells to CSV text
func (t Table) StringRows() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(row))
		for j, c := range row {
			rec[j] = cellString(c)
		}
		out[i] = rec
	}
	return out
}

// ReportTables lays out every successful analysis of report, in presentation order
func ReportTables(report *domain.AnalysisReport, topN int) []Table {
	var tables []Table
	if report.TopEvents != nil {
		tables = append(tables, TopEventsTable(report.TopEvents, topN))
	}
	if report.WeekdayVolume != nil {
		tables = append(tables, WeekdayTable(*report.WeekdayVolume))
	}
	if report.Volatility != nil {
		tables = append(tables, VolatilityTable(*report.Volatility))
	}
	if report.ROI != nil {
		tables = append(tables, ROITable(*report.ROI, topN))
	}
	if report.VaR != nil {
		tables = append(tables, VaRTable(*report.VaR))
	}
	if report.TTest != nil {
		tables = append(tables, TTestTable(*report.TTest))
	}
	if len(report.Failures) > 0 {
		tables = append(tables, FailuresTable(report.Failures))
	}
	return tables
}

// TopEventsTable lists the first n trading events
func TopEventsTable(events []domain.TradingEvent, n int) Table {
	t := Table{
		Name:    string(domain.AnalysisTopEvents),
		Title:   "Top Trading Events",
		Headers: []string{"rank", "symbol", "date", "open", "close", "percent_change"},
	}
	for i, e := range head(events, n) {
		t.Rows = append(t.Rows, []any{i + 1, e.Symbol, e.Date, Price(e.Open), Price(e.Close), Pct(e.PercentChange)})
	}
	return t
}

// WeekdayTable lists the volume of each trading weekday; absent days are empty
func WeekdayTable(w domain.WeekdayVolume) Table {
	t := Table{
		Name:    string(domain.AnalysisWeekday),
		Title:   "Volume by Weekday",
		Headers: []string{"weekday", "volume"},
	}
	for _, d := range w.Days {
		t.Rows = append(t.Rows, []any{d.Weekday.String(), d.Volume})
	}
	return t
}

// VolatilityTable lists the top volatility events
func VolatilityTable(v domain.VolatilityRanking) Table {
	t := Table{
		Name:    string(domain.AnalysisVolatility),
		Title:   "Most Volatile Days",
		Headers: []string{"rank", "symbol", "date", "high", "low", "volatility"},
	}
	for i, e := range v.Top() {
		t.Rows = append(t.Rows, []any{i + 1, e.Symbol, e.Date, Price(e.High), Price(e.Low), Price(e.Volatility)})
	}
	return t
}

// ROITable lists the n best holding-period returns
func ROITable(r domain.ROIRanking, n int) Table {
	t := Table{
		Name:    string(domain.AnalysisROI),
		Title:   "Return on Investment",
		Headers: []string{"rank", "symbol", "start_open", "end_close", "roi_percent"},
	}
	for i, e := range head(r.Entries, n) {
		t.Rows = append(t.Rows, []any{i + 1, e.Symbol, Price(e.StartOpen), Price(e.EndClose), Pct(e.ROI)})
	}
	return t
}

// VaRTable lists the VaR of each symbol
func VaRTable(v domain.VaRResult) Table {
	t := Table{
		Name:    string(domain.AnalysisVaR),
		Title:   "Value at Risk",
		Headers: []string{"symbol", "var", "var_percent", "observations"},
	}
	for _, e := range v.Entries {
		t.Rows = append(t.Rows, []any{e.Symbol, Ratio(e.VaR), Pct(e.VaR * 100), e.Observations})
	}
	return t
}

// TTestTable lays out the t-test result as key/value rows
func TTestTable(r domain.TTestResult) Table {
	return Table{
		Name:    string(domain.AnalysisTTest),
		Title:   "Daily Returns t-Test",
		Headers: []string{"metric", "value"},
		Rows: [][]any{
			{"symbol_a", r.SymbolA},
			{"symbol_b", r.SymbolB},
			{"mean_a", Ratio(r.MeanA)},
			{"mean_b", Ratio(r.MeanB)},
			{"n_a", r.NA},
			{"n_b", r.NB},
			{"t_statistic", Ratio(r.TStatistic)},
			{"degrees_of_freedom", Ratio(r.DegreesOfFreedom)},
			{"p_value", Ratio(r.PValue)},
			{"significant", r.Significant},
		},
	}
}

// FailuresTable lists the analyses that did not produce a result
func FailuresTable(failures []domain.AnalysisFailure) Table {
	t := Table{
		Name:    "failures",
		Title:   "Failed Analyses",
		Headers: []string{"analysis", "error"},
	}
	for _, f := range failures {
		t.Rows = append(t.Rows, []any{string(f.Analysis), f.Error})
	}
	return t
}

// ProfileTable lays out the describe statistics of the raw dataset
func ProfileTable(p domain.DatasetProfile) Table {
	t := Table{
		Name:    "dataset_profile",
		Title:   "Dataset Profile",
		Headers: []string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max", "nulls"},
	}
	for _, c := range p.Describe {
		t.Rows = append(t.Rows, []any{
			c.Column, c.Count,
			Ratio(c.Mean), Ratio(c.Std), Ratio(c.Min), Ratio(c.P25), Ratio(c.P50), Ratio(c.P75), Ratio(c.Max),
			p.NullCounts[c.Column],
		})
	}
	return t
}

func head[T any](s []T, n int) []T {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[:n]
}
