package infrastructure

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetrics records the resource footprint of a run
type RuntimeMetrics struct {
	goroutines  metric.Int64Gauge
	heapAlloc   metric.Int64Gauge
	totalAlloc  metric.Int64Gauge
	gcCount     metric.Int64Gauge
	runDuration metric.Float64Gauge
}

// RuntimeStats is one snapshot of the Go runtime
type RuntimeStats struct {
	Goroutines int64
	HeapAlloc  int64
	TotalAlloc int64
	GCCount    uint32
	Uptime     time.Duration
}

// NewRuntimeMetrics creates the runtime gauges on meter
func NewRuntimeMetrics(meter metric.Meter) (*RuntimeMetrics, error) {
	goroutines, err := meter.Int64Gauge(
		"runtime_goroutines",
		metric.WithDescription("Number of goroutines at the end of the run"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64Gauge(
		"runtime_heap_alloc_bytes",
		metric.WithDescription("Bytes of allocated heap objects"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	totalAlloc, err := meter.Int64Gauge(
		"runtime_total_alloc_bytes",
		metric.WithDescription("Cumulative bytes allocated for heap objects"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64Gauge(
		"runtime_gc_count",
		metric.WithDescription("Completed garbage collection cycles"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Gauge(
		"run_duration_seconds",
		metric.WithDescription("Wall time of the analysis run"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &RuntimeMetrics{
		goroutines:  goroutines,
		heapAlloc:   heapAlloc,
		totalAlloc:  totalAlloc,
		gcCount:     gcCount,
		runDuration: runDuration,
	}, nil
}

// Collect reads the runtime statistics and records them. A nil receiver only
// reads them.
func (m *RuntimeMetrics) Collect(ctx context.Context, startTime time.Time) RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := RuntimeStats{
		Goroutines: int64(runtime.NumGoroutine()),
		HeapAlloc:  int64(memStats.HeapAlloc),
		TotalAlloc: int64(memStats.TotalAlloc),
		GCCount:    memStats.NumGC,
		Uptime:     time.Since(startTime),
	}
	if m == nil {
		return stats
	}

	m.goroutines.Record(ctx, stats.Goroutines)
	m.heapAlloc.Record(ctx, stats.HeapAlloc)
	m.totalAlloc.Record(ctx, stats.TotalAlloc)
	m.gcCount.Record(ctx, int64(stats.GCCount))
	m.runDuration.Record(ctx, stats.Uptime.Seconds())
	return stats
}

// LogAttrs returns the snapshot as slog attributes
func (s RuntimeStats) LogAttrs() []any {
	return []any{
		slog.Int64("goroutines", s.Goroutines),
		slog.Int64("heap_alloc_mb", s.HeapAlloc/1024/1024),
		slog.Int64("total_alloc_mb", s.TotalAlloc/1024/1024),
		slog.Int("gc_count", int(s.GCCount)),
		slog.Duration("uptime", s.Uptime),
	}
}
