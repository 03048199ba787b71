// Package exporter renders an analysis report for people and spreadsheets.
//
// Tables lays out each analysis result as rows of typed cells. Those tables are
// then printed by ConsoleReporter, written as CSV files by CSVWriter (with a
// UTF-8 BOM for Excel) and written as sheets of an xlsx workbook by
// WorkbookExporter, which also adds one chart per analysis.
//
// ReportExporter writes every enabled artifact under the output directory:
//
//	paths := config.NewPaths(wd, cfg.Report.OutputDir)
//	exp := exporter.NewReportExporter(paths, cfg.Report, cfg.Analysis.TopN, 1, logger)
//	files, err := exp.Export(ctx, exporter.Artifacts{Report: report, Profile: profile})
package exporter
