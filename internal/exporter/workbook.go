package exporter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/guregu/null/v6"
	"github.com/xuri/excelize/v2"

	"sp500cli/internal/analytics"
	"sp500cli/pkg/contracts/domain"
)

// SummarySheet is the first sheet of the workbook
const SummarySheet = "summary"

// chartCell is where charts are anchored on analysis sheets
const chartCell = "M2"

// WorkbookExporter writes the analysis report as an xlsx workbook with one
// sheet and one chart per analysis.
type WorkbookExporter struct {
	logger *slog.Logger
	seed   uint64
}

// NewWorkbookExporter creates a workbook exporter. seed fixes the jitter of
// the volatility strip chart.
func NewWorkbookExporter(logger *slog.Logger, seed uint64) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{logger: logger.With("component", "workbook_exporter"), seed: seed}
}

// Export writes the workbook to path
func (w *WorkbookExporter) Export(path string, report *domain.AnalysisReport, profile *domain.DatasetProfile, topN int) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	if err := w.writeSummary(f, report); err != nil {
		return err
	}

	if profile != nil {
		if err := writeTable(f, ProfileTable(*profile)); err != nil {
			return err
		}
	}

	for _, t := range ReportTables(report, topN) {
		if err := writeTable(f, t); err != nil {
			return err
		}
	}

	charts := []struct {
		name string
		add  func(*excelize.File, *domain.AnalysisReport) error
	}{
		{"top_events", func(f *excelize.File, r *domain.AnalysisReport) error {
			return w.addTopEventsChart(f, r, topN)
		}},
		{"weekday", w.addWeekdayChart},
		{"volatility", w.addVolatilityChart},
		{"roi", func(f *excelize.File, r *domain.AnalysisReport) error {
			return w.addROIChart(f, r, topN)
		}},
		{"var", w.addVaRChart},
		{"ttest", w.addTTestChart},
	}
	for _, c := range charts {
		if err := c.add(f, report); err != nil {
			return fmt.Errorf("add %s chart: %w", c.name, err)
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	w.logger.Info("Workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(f.GetSheetList())))
	return nil
}

func (w *WorkbookExporter) writeSummary(f *excelize.File, report *domain.AnalysisReport) error {
	rows := [][]any{
		{"run_id", report.RunID},
		{"generated_at", report.GeneratedAt.UTC().Format(time.RFC3339)},
		{"rows", report.Rows},
		{"symbols", report.Symbols},
		{"failed_analyses", len(report.Failures)},
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &[]any{"key", "value"}); err != nil {
		return err
	}
	for i, r := range rows {
		if err := f.SetSheetRow(SummarySheet, cell(1, i+2), &r); err != nil {
			return err
		}
	}
	return nil
}

// writeTable adds a sheet named after t holding its headers and rows
func writeTable(f *excelize.File, t Table) error {
	if _, err := f.NewSheet(t.Name); err != nil {
		return fmt.Errorf("create sheet %s: %w", t.Name, err)
	}
	headers := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(t.Name, "A1", &headers); err != nil {
		return err
	}
	for i, row := range t.Rows {
		values := make([]any, len(row))
		for j, c := range row {
			values[j] = cellValue(c)
		}
		if err := f.SetSheetRow(t.Name, cell(1, i+2), &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", t.Name, i+1, err)
		}
	}
	return nil
}

// cellValue converts a table cell to a value excelize stores natively
func cellValue(v any) any {
	switch c := v.(type) {
	case Num:
		return c.Rounded()
	case null.Int:
		if !c.Valid {
			return nil
		}
		return c.Int64
	case time.Time:
		return formatDate(c)
	default:
		return v
	}
}

// addTopEventsChart plots the topN rows written to the top events sheet
func (w *WorkbookExporter) addTopEventsChart(f *excelize.File, report *domain.AnalysisReport, topN int) error {
	n := len(head(report.TopEvents, topN))
	if report.TopEvents == nil || n == 0 {
		return nil
	}
	sheet := string(domain.AnalysisTopEvents)
	return f.AddChart(sheet, chartCell, &excelize.Chart{
		Type: excelize.Bar,
		Series: []excelize.ChartSeries{{
			Name:       ref(sheet, "F", 1, 1),
			Categories: ref(sheet, "B", 2, n+1),
			Values:     ref(sheet, "F", 2, n+1),
		}},
		Title:  title("Largest Intraday Moves (%)"),
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis:  excelize.ChartAxis{ReverseOrder: true},
	})
}

func (w *WorkbookExporter) addWeekdayChart(f *excelize.File, report *domain.AnalysisReport) error {
	if report.WeekdayVolume == nil || len(report.WeekdayVolume.Days) == 0 {
		return nil
	}
	sheet := string(domain.AnalysisWeekday)
	n := len(report.WeekdayVolume.Days)
	return f.AddChart(sheet, chartCell, &excelize.Chart{
		Type: excelize.Bar,
		Series: []excelize.ChartSeries{{
			Name:       ref(sheet, "B", 1, 1),
			Categories: ref(sheet, "A", 2, n+1),
			Values:     ref(sheet, "B", 2, n+1),
		}},
		Title:  title("Total Volume by Weekday"),
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis:  excelize.ChartAxis{ReverseOrder: true},
	})
}

// addVolatilityChart writes the jittered strip points next to the ranking and
// plots them as a scatter chart.
func (w *WorkbookExporter) addVolatilityChart(f *excelize.File, report *domain.AnalysisReport) error {
	if report.Volatility == nil {
		return nil
	}
	points := analytics.StripPoints(report.Volatility.Distribution, report.Volatility.TopSymbols, w.seed)
	if len(points) == 0 {
		return nil
	}

	sheet := string(domain.AnalysisVolatility)
	if err := f.SetSheetRow(sheet, "H1", &[]any{"strip_symbol", "strip_x", "strip_volatility"}); err != nil {
		return err
	}
	for i, p := range points {
		if err := f.SetSheetRow(sheet, cell(8, i+2), &[]any{p.Symbol, round(p.X, RatioPlaces), round(p.Y, RatioPlaces)}); err != nil {
			return err
		}
	}

	n := len(points)
	return f.AddChart(sheet, chartCell, &excelize.Chart{
		Type: excelize.Scatter,
		Series: []excelize.ChartSeries{{
			Name:       ref(sheet, "J", 1, 1),
			Categories: ref(sheet, "I", 2, n+1),
			Values:     ref(sheet, "J", 2, n+1),
			Line:       excelize.ChartLine{Type: excelize.ChartLineNone},
			Marker:     excelize.ChartMarker{Symbol: "circle", Size: 5},
		}},
		Title:  title("Daily Volatility of the Most Volatile Symbols"),
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis:  excelize.ChartAxis{Title: title("symbol rank")},
		YAxis:  excelize.ChartAxis{Title: title("high - low")},
	})
}

func (w *WorkbookExporter) addROIChart(f *excelize.File, report *domain.AnalysisReport, topN int) error {
	if report.ROI == nil {
		return nil
	}
	n := len(report.ROI.Top(topN))
	if n == 0 {
		return nil
	}
	sheet := string(domain.AnalysisROI)
	return f.AddChart(sheet, chartCell, &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       ref(sheet, "E", 1, 1),
			Categories: ref(sheet, "B", 2, n+1),
			Values:     ref(sheet, "E", 2, n+1),
			Marker:     excelize.ChartMarker{Symbol: "circle", Size: 7},
		}},
		Title:  title("Top ROI Symbols (%)"),
		Legend: excelize.ChartLegend{Position: "none"},
	})
}

// addVaRChart writes the potential-loss shares next to the VaR table and
// plots them as a pie chart.
func (w *WorkbookExporter) addVaRChart(f *excelize.File, report *domain.AnalysisReport) error {
	if report.VaR == nil {
		return nil
	}
	shares := analytics.VaRShares(*report.VaR)
	if len(shares) == 0 {
		return nil
	}

	sheet := string(domain.AnalysisVaR)
	if err := f.SetSheetRow(sheet, "G1", &[]any{"symbol", "loss_share_percent"}); err != nil {
		return err
	}
	for i, s := range shares {
		if err := f.SetSheetRow(sheet, cell(7, i+2), &[]any{s.Symbol, round(s.Percent, PercentPlaces)}); err != nil {
			return err
		}
	}

	n := len(shares)
	return f.AddChart(sheet, chartCell, &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       ref(sheet, "H", 1, 1),
			Categories: ref(sheet, "G", 2, n+1),
			Values:     ref(sheet, "H", 2, n+1),
		}},
		Title:    title(fmt.Sprintf("Share of Potential Loss at %.0f%% Confidence", report.VaR.Confidence*100)),
		Legend:   excelize.ChartLegend{Position: "right"},
		PlotArea: excelize.ChartPlotArea{ShowPercent: true},
	})
}

// addTTestChart writes both density curves next to the t-test table and plots
// them as smooth lines.
func (w *WorkbookExporter) addTTestChart(f *excelize.File, report *domain.AnalysisReport) error {
	if report.TTest == nil {
		return nil
	}
	r := report.TTest
	curveA, errA := analytics.KDE(r.ReturnsA, analytics.KDEPoints)
	curveB, errB := analytics.KDE(r.ReturnsB, analytics.KDEPoints)
	if errA != nil || errB != nil {
		w.logger.Warn("Skipping density chart", slog.Any("error_a", errA), slog.Any("error_b", errB))
		return nil
	}

	sheet := string(domain.AnalysisTTest)
	if err := f.SetSheetRow(sheet, "D1", &[]any{"x_" + r.SymbolA, r.SymbolA, "x_" + r.SymbolB, r.SymbolB}); err != nil {
		return err
	}
	for i := range curveA {
		row := []any{
			round(curveA[i].X, RatioPlaces), round(curveA[i].Density, RatioPlaces),
			round(curveB[i].X, RatioPlaces), round(curveB[i].Density, RatioPlaces),
		}
		if err := f.SetSheetRow(sheet, cell(4, i+2), &row); err != nil {
			return err
		}
	}

	n := len(curveA)
	line := excelize.ChartLine{Type: excelize.ChartLineSolid, Smooth: true}
	noMarker := excelize.ChartMarker{Symbol: "none"}
	return f.AddChart(sheet, chartCell, &excelize.Chart{
		Type: excelize.Scatter,
		Series: []excelize.ChartSeries{
			{Name: ref(sheet, "E", 1, 1), Categories: ref(sheet, "D", 2, n+1), Values: ref(sheet, "E", 2, n+1), Line: line, Marker: noMarker},
			{Name: ref(sheet, "G", 1, 1), Categories: ref(sheet, "F", 2, n+1), Values: ref(sheet, "G", 2, n+1), Line: line, Marker: noMarker},
		},
		Title:  title(fmt.Sprintf("Daily Returns Density: %s vs %s", r.SymbolA, r.SymbolB)),
		Legend: excelize.ChartLegend{Position: "bottom"},
		XAxis:  excelize.ChartAxis{Title: title("daily return")},
		YAxis:  excelize.ChartAxis{Title: title("density")},
	})
}

func title(text string) []excelize.RichTextRun {
	return []excelize.RichTextRun{{Text: text}}
}

// cell returns the A1 reference of a 1-based column and row
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// ref returns an absolute range reference such as 'sheet'!$B$2:$B$7
func ref(sheet, col string, from, to int) string {
	if from == to {
		return fmt.Sprintf("'%s'!$%s$%d", sheet, col, from)
	}
	return fmt.Sprintf("'%s'!$%s$%d:$%s$%d", sheet, col, from, col, to)
}
