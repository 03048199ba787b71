package exporter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"sp500cli/internal/analytics"
	"sp500cli/pkg/contracts/domain"
)

// ConsoleReporter prints the run results as aligned text tables
type ConsoleReporter struct {
	w    io.Writer
	topN int
}

// NewConsoleReporter creates a reporter writing to w
func NewConsoleReporter(w io.Writer, topN int) *ConsoleReporter {
	return &ConsoleReporter{w: w, topN: topN}
}

// PrintProfile prints the inspection of the raw dataset
func (c *ConsoleReporter) PrintProfile(p *domain.DatasetProfile, stats *domain.LoadStats) {
	if p != nil {
		c.section("Dataset Overview")
		fmt.Fprintf(c.w, "rows: %d  columns: %s\n", p.Rows, strings.Join(p.Columns, ", "))
		fmt.Fprintf(c.w, "duplicate rows: %d\n", p.Duplicates)
		c.printRows("First rows", p.Columns, p.Head)
		c.printRows("Last rows", p.Columns, p.Tail)
		c.printTable(ProfileTable(*p))
	}
	if stats != nil {
		fmt.Fprintf(c.w, "\nrows kept: %d of %d (incomplete %d, invalid %d)\n",
			stats.RowsKept, stats.RowsRead, stats.RowsIncomplete, stats.RowsInvalid)
	}
}

// PrintReport prints every analysis of report in presentation order
func (c *ConsoleReporter) PrintReport(report *domain.AnalysisReport) {
	c.section(fmt.Sprintf("Analysis Report (run %s)", report.RunID))
	fmt.Fprintf(c.w, "rows analysed: %d  symbols: %d\n", report.Rows, report.Symbols)

	for _, t := range ReportTables(report, c.topN) {
		c.printTable(t)
		switch t.Name {
		case string(domain.AnalysisWeekday):
			c.printWeekdaySummary(report.WeekdayVolume)
		case string(domain.AnalysisROI):
			c.printROISummary(report.ROI)
		case string(domain.AnalysisVaR):
			c.printVaRSummary(report.VaR)
		case string(domain.AnalysisTTest):
			c.printTTestVerdict(report.TTest)
		}
	}
}

func (c *ConsoleReporter) printWeekdaySummary(w *domain.WeekdayVolume) {
	if w.Highest.Valid {
		fmt.Fprintf(c.w, "highest volume: %s\n", w.Highest.String)
	}
	if w.Lowest.Valid {
		fmt.Fprintf(c.w, "lowest volume: %s\n", w.Lowest.String)
	}
	if w.WeekendRowsDropped > 0 {
		fmt.Fprintf(c.w, "weekend rows ignored: %d\n", w.WeekendRowsDropped)
	}
}

func (c *ConsoleReporter) printROISummary(r *domain.ROIRanking) {
	fmt.Fprintf(c.w, "period: %s to %s  ranked: %d\n", formatDate(r.Start), formatDate(r.End), len(r.Entries))
	if len(r.Excluded) > 0 {
		fmt.Fprintf(c.w, "excluded (zero open): %s\n", strings.Join(r.Excluded, ", "))
	}
}

func (c *ConsoleReporter) printVaRSummary(v *domain.VaRResult) {
	for _, e := range v.Entries {
		fmt.Fprintf(c.w, "%s: %s%% potential loss in a single day at %.0f%% confidence\n",
			e.Symbol, formatFloat(e.VaR*100, PercentPlaces), v.Confidence*100)
	}
	for _, s := range analytics.VaRShares(*v) {
		fmt.Fprintf(c.w, "  %s share of potential loss: %s%%\n", s.Symbol, formatFloat(s.Percent, PricePlaces))
	}
	for _, s := range v.Skipped {
		fmt.Fprintf(c.w, "%s skipped: %s\n", s.Symbol, s.Reason)
	}
}

func (c *ConsoleReporter) printTTestVerdict(r *domain.TTestResult) {
	if r.Significant {
		fmt.Fprintf(c.w, "The daily returns of %s and %s differ significantly (p < %.2f)\n",
			r.SymbolA, r.SymbolB, analytics.SignificanceLevel)
		return
	}
	fmt.Fprintf(c.w, "No significant difference between the daily returns of %s and %s (p >= %.2f)\n",
		r.SymbolA, r.SymbolB, analytics.SignificanceLevel)
}

func (c *ConsoleReporter) section(title string) {
	fmt.Fprintf(c.w, "\n== %s ==\n", title)
}

func (c *ConsoleReporter) printTable(t Table) {
	fmt.Fprintf(c.w, "\n%s\n", t.Title)
	c.write(t.Headers, t.StringRows())
}

func (c *ConsoleReporter) printRows(title string, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(c.w, "\n%s\n", title)
	c.write(headers, rows)
}

func (c *ConsoleReporter) write(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(c.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	tw.Flush()
}
