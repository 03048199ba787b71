package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"sp500cli/internal/analytics"
	"sp500cli/internal/config"
	"sp500cli/internal/dataprocessing"
	apperrors "sp500cli/internal/errors"
	"sp500cli/internal/exporter"
	"sp500cli/internal/files"
	"sp500cli/internal/infrastructure"
	"sp500cli/internal/validation"
	"sp500cli/pkg/contracts"
)

// stripSeed fixes the jitter of the volatility strip chart so reruns produce identical workbooks
const stripSeed = 42

// cliFlags holds the command line overrides. Empty values keep the configured ones.
type cliFlags struct {
	configPath  string
	input       string
	sheet       string
	out         string
	start       string
	end         string
	varSymbols  string
	concurrency int
	noExport    bool
	version     bool
}

func parseFlags(args []string, output io.Writer) (*cliFlags, error) {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(output)

	f := &cliFlags{}
	fs.StringVar(&f.configPath, "config", "", "path to the YAML configuration file")
	fs.StringVar(&f.input, "input", "", "dataset file (.xlsx, .xlsm, .csv) or a directory holding one")
	fs.StringVar(&f.sheet, "sheet", "", "worksheet to read (defaults to the first sheet)")
	fs.StringVar(&f.out, "out", "", "output directory for the report files")
	fs.StringVar(&f.start, "start", "", "ROI start date (YYYY-MM-DD)")
	fs.StringVar(&f.end, "end", "", "ROI end date (YYYY-MM-DD)")
	fs.StringVar(&f.varSymbols, "var-symbols", "", "comma-separated symbols to compute VaR for")
	fs.IntVar(&f.concurrency, "concurrency", 0, fmt.Sprintf("analyses run at once (1-%d)", config.MaxConcurrency))
	fs.BoolVar(&f.noExport, "no-export", false, "print the results without writing report files")
	fs.BoolVar(&f.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return f, nil
}

// apply overlays the flags onto cfg and revalidates it
func (f *cliFlags) apply(cfg *config.Config) error {
	if f.input != "" {
		cfg.Analysis.InputFile = f.input
	}
	if f.sheet != "" {
		cfg.Analysis.Sheet = f.sheet
	}
	if f.out != "" {
		cfg.Report.OutputDir = f.out
	}
	if f.start != "" {
		cfg.Analysis.StartDate = f.start
	}
	if f.end != "" {
		cfg.Analysis.EndDate = f.end
	}
	if f.varSymbols != "" {
		cfg.Analysis.VaRSymbols = strings.Split(f.varSymbols, ",")
	}
	if f.concurrency != 0 {
		cfg.Analysis.Concurrency = f.concurrency
	}
	if f.noExport {
		cfg.Report.Enabled = false
	}

	cfg.Analysis.NormalizeSymbols()
	return cfg.Validate()
}

func main() {
	flags, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		slog.Error("Invalid arguments", "error", err)
		os.Exit(1)
	}
	if flags.version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		slog.Error("Failed to load configuration", logAttrs(err)...)
		os.Exit(1)
	}
	if err := flags.apply(cfg); err != nil {
		slog.Error("Invalid configuration", logAttrs(err)...)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, cfg, logger, os.Stdout)
	stop()
	infrastructure.CloseLogFile()

	if err != nil {
		slog.Error("Analysis aborted", logAttrs(err)...)
		os.Exit(1)
	}
}

// run executes one analysis: load, profile, enrich, analyse, print and export.
// Analysis failures are reported, not returned; only input, configuration and
// export failures abort the run.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) (err error) {
	started := time.Now()

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := providers.Shutdown(shutdownCtx); serr != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", serr.Error()))
		}
	}()

	metrics, err := infrastructure.CreateAnalysisMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}
	runtimeMetrics, err := infrastructure.NewRuntimeMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("failed to create runtime metrics: %w", err)
	}

	ctx, _ = infrastructure.StartRun(ctx)
	ctx, span := providers.Tracer.Start(ctx, "analyze")
	defer func() {
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
		span.End()
	}()
	log := infrastructure.LoggerWithContext(ctx, logger)

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	input, err := files.NewDiscovery(wd, logger).ResolveDataset(cfg.Analysis.InputFile)
	if err != nil {
		return err
	}
	log.Info("Starting analysis",
		slog.String("input", input),
		slog.String("start_date", cfg.Analysis.StartDate),
		slog.String("end_date", cfg.Analysis.EndDate),
		slog.Int("concurrency", cfg.Analysis.Concurrency))

	raw, err := dataprocessing.ReadRawTable(input, cfg.Analysis.Sheet)
	if err != nil {
		return err
	}
	profile := dataprocessing.Profile(raw)

	loader := dataprocessing.NewLoader(logger)
	table, stats, err := loader.Clean(ctx, raw)
	if err != nil {
		return err
	}
	metrics.RecordLoad(ctx, input, stats.RowsKept, stats.RowsIncomplete, stats.RowsInvalid)
	enriched := loader.Enrich(ctx, table)

	opts, err := analytics.OptionsFromConfig(cfg.Analysis)
	if err != nil {
		return err
	}
	report := analytics.NewRunner(opts, logger, providers.Tracer, metrics).Run(ctx, enriched)

	console := exporter.NewConsoleReporter(stdout, cfg.Analysis.TopN)
	console.PrintProfile(&profile, stats)
	console.PrintReport(report)

	if cfg.Report.Enabled {
		paths := config.NewPaths(wd, cfg.Report.OutputDir)
		paths.LogPathResolution(logger)
		if err := validation.NewFileValidator(logger).ValidateOutputDirectory(paths.OutputDir); err != nil {
			return err
		}
		written, err := exporter.NewReportExporter(paths, cfg.Report, cfg.Analysis.TopN, stripSeed, logger).
			Export(ctx, exporter.Artifacts{Report: report, Profile: &profile, Stats: stats, Enriched: enriched})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\nReport files written to %s (%d files)\n", paths.OutputDir, len(written))
	}

	log.Info("Analysis complete",
		slog.Int("rows", report.Rows),
		slog.Int("failed_analyses", len(report.Failures)),
		slog.Duration("duration", time.Since(started)))
	log.Debug("Runtime statistics", runtimeMetrics.Collect(ctx, started).LogAttrs()...)
	return nil
}

// logAttrs returns slog key/value pairs describing err
func logAttrs(err error) []any {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.LogAttrs()
	}
	return []any{"error", err.Error()}
}
