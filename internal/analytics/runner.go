package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"sp500cli/internal/config"
	apperrors "sp500cli/internal/errors"
	"sp500cli/internal/infrastructure"
	"sp500cli/pkg/contracts/domain"
)

// Options holds the parameters of one analysis run
type Options struct {
	Start         time.Time
	End           time.Time
	VaRSymbols    []string
	VaRConfidence float64
	TTestSymbolA  string
	TTestSymbolB  string
	TopN          int
	// Concurrency bounds how many analyses run at once. 1 runs them in order.
	Concurrency int
}

// OptionsFromConfig converts the analysis configuration into runner options
func OptionsFromConfig(cfg config.AnalysisConfig) (Options, error) {
	start, end, err := cfg.Period()
	if err != nil {
		return Options{}, apperrors.NewConfigError("invalid analysis period", err)
	}
	return Options{
		Start:         start,
		End:           end,
		VaRSymbols:    slices.Clone(cfg.VaRSymbols),
		VaRConfidence: cfg.VaRConfidence,
		TTestSymbolA:  cfg.TTestSymbolA,
		TTestSymbolB:  cfg.TTestSymbolB,
		TopN:          cfg.TopN,
		Concurrency:   cfg.Concurrency,
	}, nil
}

// Runner executes every analysis over one enriched table
type Runner struct {
	opts    Options
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.AnalysisMetrics
}

// NewRunner creates a runner. A nil tracer uses the global provider and nil
// metrics records nothing.
func NewRunner(opts Options, logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.AnalysisMetrics) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.MeterName)
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.TopN < 1 {
		opts.TopN = config.DefaultTopN
	}
	return &Runner{
		opts:    opts,
		logger:  logger.With("component", "analytics"),
		tracer:  tracer,
		metrics: metrics,
	}
}

type task struct {
	name domain.AnalysisName
	run  func(ctx context.Context) error
}

// Run computes all analyses and collects them into one report.
// A failing or panicking analysis is recorded in the report's Failures and
// leaves its result nil; the other analyses are unaffected.
func (r *Runner) Run(ctx context.Context, table *domain.EnrichedTable) *domain.AnalysisReport {
	runID := infrastructure.GetRunID(ctx)
	if runID == "" {
		ctx, runID = infrastructure.StartRun(ctx)
	}

	report := &domain.AnalysisReport{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Rows:        table.Len(),
		Symbols:     len(table.Symbols()),
	}

	r.logger.InfoContext(ctx, "Starting analyses",
		slog.Int("rows", report.Rows),
		slog.Int("symbols", report.Symbols),
		slog.Int("concurrency", r.opts.Concurrency))

	tasks := []task{
		{domain.AnalysisTopEvents, func(ctx context.Context) error {
			report.TopEvents = TopTradingEvents(table)
			return nil
		}},
		{domain.AnalysisWeekday, func(ctx context.Context) error {
			w := WeekdayVolume(table)
			if w.WeekendRowsDropped > 0 {
				r.logger.WarnContext(ctx, "Weekend rows ignored in weekday volume",
					slog.Int("rows", w.WeekendRowsDropped))
			}
			report.WeekdayVolume = &w
			return nil
		}},
		{domain.AnalysisVolatility, func(ctx context.Context) error {
			v := VolatilityLeaders(table, r.opts.TopN)
			report.Volatility = &v
			return nil
		}},
		{domain.AnalysisROI, func(ctx context.Context) error {
			roi := ROI(table, r.opts.Start, r.opts.End)
			if len(roi.Entries) == 0 {
				r.logger.WarnContext(ctx, "No symbol has data on both ROI boundary dates",
					slog.Time("start", r.opts.Start),
					slog.Time("end", r.opts.End),
					slog.Int("start_symbols", roi.StartSymbols),
					slog.Int("end_symbols", roi.EndSymbols))
			}
			for _, s := range roi.Excluded {
				r.logger.WarnContext(ctx, "Symbol excluded from ROI, zero opening price",
					slog.String("symbol", s))
			}
			report.ROI = &roi
			return nil
		}},
		{domain.AnalysisVaR, func(ctx context.Context) error {
			v := ValueAtRisk(table, r.opts.VaRSymbols, r.opts.VaRConfidence)
			for _, s := range v.Skipped {
				r.logger.WarnContext(ctx, "Skipping VaR for symbol",
					slog.String("symbol", s.Symbol),
					slog.String("reason", s.Reason))
			}
			report.VaR = &v
			return nil
		}},
		{domain.AnalysisTTest, func(ctx context.Context) error {
			res, err := CompareReturns(table, r.opts.TTestSymbolA, r.opts.TTestSymbolB)
			if err != nil {
				return err
			}
			report.TTest = &res
			return nil
		}},
	}

	var (
		mu       sync.Mutex
		failures = make(map[domain.AnalysisName]error)
	)

	var g errgroup.Group
	g.SetLimit(r.opts.Concurrency)
	for _, t := range tasks {
		g.Go(func() error {
			if err := r.execute(ctx, t); err != nil {
				mu.Lock()
				failures[t.name] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, name := range domain.AllAnalyses {
		if err, ok := failures[name]; ok {
			report.Failures = append(report.Failures, domain.AnalysisFailure{
				Analysis: name,
				Error:    err.Error(),
			})
		}
	}

	r.logger.InfoContext(ctx, "Analyses completed",
		slog.Int("succeeded", len(tasks)-len(report.Failures)),
		slog.Int("failed", len(report.Failures)))

	return report
}

// execute runs one task inside its own span, turning panics into errors
func (r *Runner) execute(ctx context.Context, t task) (err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = apperrors.NewAnalysisError(string(t.name), ctxErr)
		r.logger.WarnContext(ctx, "Analysis not started", slog.String("analysis", string(t.name)),
			slog.String("error", ctxErr.Error()))
		return err
	}

	ctx, span := r.tracer.Start(ctx, "analysis."+string(t.name),
		trace.WithAttributes(attribute.String("analysis", string(t.name))))
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			err = apperrors.NewAnalysisError(string(t.name), fmt.Errorf("panic: %v", rec))
		}
		duration := time.Since(start)
		r.metrics.RecordAnalysis(ctx, string(t.name), duration, err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			r.logger.ErrorContext(ctx, "Analysis failed",
				slog.String("analysis", string(t.name)),
				slog.String("error", err.Error()),
				slog.Duration("duration", duration))
		} else {
			r.logger.DebugContext(ctx, "Analysis completed",
				slog.String("analysis", string(t.name)),
				slog.Duration("duration", duration))
		}
		span.End()
	}()

	if runErr := t.run(ctx); runErr != nil {
		return apperrors.NewAnalysisError(string(t.name), runErr)
	}
	return nil
}
