package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Registry holds the OpenTelemetry instruments for extraction, parsing,
// ingestion and the reference table cross-check.
type Registry struct {
	meter metric.Meter

	// Extraction
	TextsScanned       metric.Int64Counter
	NumbersExtracted   metric.Int64Counter
	WindowsRejected    metric.Int64Counter
	ShortCodeFallbacks metric.Int64Counter
	ExtractionDuration metric.Float64Histogram

	// Parsing
	ParseCounter  metric.Int64Counter
	ParseDuration metric.Float64Histogram

	// Ingestion
	NumbersPersisted metric.Int64Counter

	// Cross-check
	CrossCheckRuns          metric.Int64Counter
	CrossCheckDuration      metric.Float64Histogram
	CrossCheckDiscrepancies metric.Int64Counter
	CrossCheckSourceErrors  metric.Int64Counter
	ReportCacheLookups      metric.Int64Counter
	LastRunDiscrepancies    metric.Int64ObservableGauge
	LastRunAge              metric.Float64ObservableGauge

	// State for observable metrics
	mu                   sync.RWMutex
	lastRunDiscrepancies int64
	lastRunAt            time.Time
}

// NewRegistry creates the registry on the global meter provider.
func NewRegistry(meterName string) (*Registry, error) {
	return NewRegistryWithMeter(otel.Meter(meterName))
}

// NewRegistryWithMeter creates the registry on an explicit meter.
func NewRegistryWithMeter(meter metric.Meter) (*Registry, error) {
	r := &Registry{meter: meter}

	if err := r.initExtractionMetrics(); err != nil {
		return nil, err
	}
	if err := r.initParseMetrics(); err != nil {
		return nil, err
	}
	if err := r.initCrossCheckMetrics(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) initExtractionMetrics() error {
	var err error

	r.TextsScanned, err = r.meter.Int64Counter(
		"nanp.extract.texts_total",
		metric.WithDescription("Texts submitted for extraction"),
	)
	if err != nil {
		return err
	}

	r.NumbersExtracted, err = r.meter.Int64Counter(
		"nanp.extract.numbers_total",
		metric.WithDescription("Numbers extracted, by number type"),
	)
	if err != nil {
		return err
	}

	r.WindowsRejected, err = r.meter.Int64Counter(
		"nanp.extract.windows_rejected_total",
		metric.WithDescription("Ten digit windows that failed validation"),
	)
	if err != nil {
		return err
	}

	r.ShortCodeFallbacks, err = r.meter.Int64Counter(
		"nanp.extract.short_code_fallbacks_total",
		metric.WithDescription("Extractions that fell back to the short code path"),
	)
	if err != nil {
		return err
	}

	r.ExtractionDuration, err = r.meter.Float64Histogram(
		"nanp.extract.duration",
		metric.WithDescription("Time spent scanning one text"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100),
	)
	if err != nil {
		return err
	}

	r.NumbersPersisted, err = r.meter.Int64Counter(
		"nanp.ingest.persisted_total",
		metric.WithDescription("Extracted numbers written to storage"),
	)
	return err
}

func (r *Registry) initParseMetrics() error {
	var err error

	r.ParseCounter, err = r.meter.Int64Counter(
		"nanp.parse.total",
		metric.WithDescription("Single number parse attempts"),
	)
	if err != nil {
		return err
	}

	r.ParseDuration, err = r.meter.Float64Histogram(
		"nanp.parse.duration",
		metric.WithDescription("Time spent parsing one number"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	return err
}

func (r *Registry) initCrossCheckMetrics() error {
	var err error

	r.CrossCheckRuns, err = r.meter.Int64Counter(
		"nanp.crosscheck.runs_total",
		metric.WithDescription("Cross-check runs, by outcome"),
	)
	if err != nil {
		return err
	}

	r.CrossCheckDuration, err = r.meter.Float64Histogram(
		"nanp.crosscheck.duration",
		metric.WithDescription("Wall time of a cross-check run"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return err
	}

	r.CrossCheckDiscrepancies, err = r.meter.Int64Counter(
		"nanp.crosscheck.discrepancies_total",
		metric.WithDescription("Report entries that disagree with the static tables"),
	)
	if err != nil {
		return err
	}

	r.CrossCheckSourceErrors, err = r.meter.Int64Counter(
		"nanp.crosscheck.source_errors_total",
		metric.WithDescription("Report sources that could not be fetched or parsed"),
	)
	if err != nil {
		return err
	}

	r.ReportCacheLookups, err = r.meter.Int64Counter(
		"nanp.crosscheck.report_cache_lookups_total",
		metric.WithDescription("Report cache lookups, by hit"),
	)
	if err != nil {
		return err
	}

	r.LastRunDiscrepancies, err = r.meter.Int64ObservableGauge(
		"nanp.crosscheck.last_run_discrepancies",
		metric.WithDescription("Discrepancies found by the most recent run"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			r.mu.RLock()
			defer r.mu.RUnlock()
			o.Observe(r.lastRunDiscrepancies)
			return nil
		}),
	)
	if err != nil {
		return err
	}

	r.LastRunAge, err = r.meter.Float64ObservableGauge(
		"nanp.crosscheck.last_run_age",
		metric.WithDescription("Seconds since the most recent run finished"),
		metric.WithUnit("s"),
		metric.WithFloat64Callback(func(ctx context.Context, o metric.Float64Observer) error {
			r.mu.RLock()
			defer r.mu.RUnlock()
			if !r.lastRunAt.IsZero() {
				o.Observe(time.Since(r.lastRunAt).Seconds())
			}
			return nil
		}),
	)
	return err
}

// RecordExtraction records one scanned text. byType counts extracted numbers per type name.
func (r *Registry) RecordExtraction(ctx context.Context, duration time.Duration, source string, byType map[string]int, rejected int, shortCodeFallback bool) {
	src := metric.WithAttributes(attribute.String("source", source))

	r.TextsScanned.Add(ctx, 1, src)
	r.ExtractionDuration.Record(ctx, float64(duration)/float64(time.Millisecond), src)
	for numberType, n := range byType {
		r.NumbersExtracted.Add(ctx, int64(n), metric.WithAttributes(
			attribute.String("source", source),
			attribute.String("type", numberType),
		))
	}
	if rejected > 0 {
		r.WindowsRejected.Add(ctx, int64(rejected), src)
	}
	if shortCodeFallback {
		r.ShortCodeFallbacks.Add(ctx, 1, src)
	}
}

// RecordParse records one single number parse.
func (r *Registry) RecordParse(ctx context.Context, duration time.Duration, numberType string, success bool) {
	attrs := metric.WithAttributes(
		attribute.String("type", numberType),
		attribute.Bool("success", success),
	)
	r.ParseCounter.Add(ctx, 1, attrs)
	r.ParseDuration.Record(ctx, float64(duration)/float64(time.Millisecond), attrs)
}

// RecordPersisted counts rows written for source.
func (r *Registry) RecordPersisted(ctx context.Context, source string, n int) {
	r.NumbersPersisted.Add(ctx, int64(n), metric.WithAttributes(attribute.String("source", source)))
}

// RecordCrossCheckRun records a finished run and updates the observable gauges.
func (r *Registry) RecordCrossCheckRun(ctx context.Context, duration time.Duration, discrepancies int, sourceErrors int) {
	outcome := "clean"
	switch {
	case sourceErrors > 0:
		outcome = "source_error"
	case discrepancies > 0:
		outcome = "discrepancies"
	}
	r.CrossCheckRuns.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	r.CrossCheckDuration.Record(ctx, duration.Seconds())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastRunDiscrepancies = int64(discrepancies)
	r.lastRunAt = time.Now()
}

// RecordDiscrepancy counts one disagreement between a report and a table.
func (r *Registry) RecordDiscrepancy(ctx context.Context, source, set, kind string) {
	r.CrossCheckDiscrepancies.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("set", set),
		attribute.String("kind", kind),
	))
}

// RecordSourceError counts a source that failed during a run.
func (r *Registry) RecordSourceError(ctx context.Context, source string) {
	r.CrossCheckSourceErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// RecordReportCacheLookup counts a report cache lookup.
func (r *Registry) RecordReportCacheLookup(ctx context.Context, source string, hit bool) {
	r.ReportCacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.Bool("hit", hit),
	))
}
