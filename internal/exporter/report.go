package exporter

import (
	"context"
	"log/slog"

	"sp500cli/internal/config"
	apperrors "sp500cli/internal/errors"
	"sp500cli/pkg/contracts"
	"sp500cli/pkg/contracts/domain"
)

// Artifacts bundles everything one run can export
type Artifacts struct {
	Report   *domain.AnalysisReport
	Profile  *domain.DatasetProfile
	Stats    *domain.LoadStats
	Enriched *domain.EnrichedTable
}

// ReportExporter writes the enabled report artifacts under the output directory
type ReportExporter struct {
	paths    *config.Paths
	cfg      config.ReportConfig
	topN     int
	csv      *CSVWriter
	workbook *WorkbookExporter
	logger   *slog.Logger
}

// NewReportExporter creates an exporter for the given paths and report settings
func NewReportExporter(paths *config.Paths, cfg config.ReportConfig, topN int, seed uint64, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		paths:    paths,
		cfg:      cfg,
		topN:     topN,
		csv:      NewCSVWriter(paths, logger),
		workbook: NewWorkbookExporter(logger, seed),
		logger:   logger.With("component", "report_exporter"),
	}
}

// Export writes the artifacts and returns the paths of the files written.
// Failures are STORAGE errors.
func (e *ReportExporter) Export(ctx context.Context, a Artifacts) ([]string, error) {
	if a.Report == nil {
		return nil, apperrors.NewValidationError("no report to export", nil)
	}
	if !e.cfg.Enabled {
		e.logger.Info("Report export disabled")
		return nil, nil
	}
	if err := e.paths.EnsureDirectories(); err != nil {
		return nil, storageError("create output directories", e.paths.OutputDir, err)
	}

	var written []string

	if e.cfg.CSV {
		for _, t := range ReportTables(a.Report, e.topN) {
			if err := ctx.Err(); err != nil {
				return written, err
			}
			path, err := e.csv.WriteTable(t)
			if err != nil {
				return written, storageError("write csv", e.paths.CSVPath(t.Name), err)
			}
			written = append(written, path)
		}
		if a.Profile != nil {
			t := ProfileTable(*a.Profile)
			if err := e.csv.WriteSimpleCSV(e.paths.ProfileFile, t.Headers, t.StringRows()); err != nil {
				return written, storageError("write profile csv", e.paths.ProfileFile, err)
			}
			written = append(written, e.paths.ProfileFile)
		}
		if a.Enriched != nil {
			path, err := e.csv.WriteEnriched(a.Enriched)
			if err != nil {
				return written, storageError("write enriched csv", e.paths.CSVPath(EnrichedFileName), err)
			}
			written = append(written, path)
		}
	}

	if err := ctx.Err(); err != nil {
		return written, err
	}

	if e.cfg.Workbook {
		if err := e.workbook.Export(e.paths.WorkbookFile, a.Report, a.Profile, e.topN); err != nil {
			return written, storageError("write workbook", e.paths.WorkbookFile, err)
		}
		written = append(written, e.paths.WorkbookFile)
	}

	if e.cfg.JSON {
		summary := Summary{Version: contracts.GetVersionInfo(), Load: a.Stats, Profile: a.Profile, Report: a.Report}
		if err := SaveJSON(e.paths.SummaryFile, summary); err != nil {
			return written, storageError("write summary", e.paths.SummaryFile, err)
		}
		written = append(written, e.paths.SummaryFile)
	}

	e.logger.Info("Report exported",
		slog.String("output_dir", e.paths.OutputDir),
		slog.Int("files", len(written)))
	return written, nil
}

func storageError(msg, path string, err error) error {
	return apperrors.NewStorageError(msg, err).WithContext("path", path)
}
