package crosscheck

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/davidleathers/phonenumbers-na/internal/domain/crosscheck"
	"github.com/davidleathers/phonenumbers-na/internal/domain/errors"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/cache"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/telemetry"
)

// LastResultKey is where the latest run is cached.
const LastResultKey = cache.CrossCheckPrefix + "last"

// maxConcurrentFetches bounds parallel source fetches within one run.
const maxConcurrentFetches = 4

// service implements the Service interface
type service struct {
	sources []Source
	store   ResultStore
	cache   ResultCache
	metrics MetricsCollector
	logger  *zap.Logger

	runMu sync.Mutex
	mu    sync.RWMutex
	last  *crosscheck.Result
	nowFn func() time.Time
}

// NewService creates a cross-check service. store, resultCache and metrics may be nil.
func NewService(
	sources []Source,
	store ResultStore,
	resultCache ResultCache,
	metrics MetricsCollector,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		sources: sources,
		store:   store,
		cache:   resultCache,
		metrics: metrics,
		logger:  logger.Named("crosscheck"),
		nowFn:   time.Now,
	}
}

func (s *service) Sources() []string {
	names := make([]string, len(s.sources))
	for i, src := range s.sources {
		names[i] = src.Name()
	}
	return names
}

// Run fetches all sources in parallel. A failing source is recorded in the
// result and does not stop the others. Only one run executes at a time.
func (s *service) Run(ctx context.Context) (*crosscheck.Result, error) {
	if len(s.sources) == 0 {
		return nil, errors.NewValidationError(errors.CodeCrossCheckFailed, "no cross-check sources configured")
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	ctx, span := telemetry.StartSpan(ctx, "crosscheck.Run",
		attribute.Int("crosscheck.sources", len(s.sources)))

	result := crosscheck.NewResult(s.nowFn())
	summaries := make([]crosscheck.SourceSummary, len(s.sources))
	found := make([][]crosscheck.Discrepancy, len(s.sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, src := range s.sources {
		g.Go(func() error {
			summaries[i], found[i] = s.checkSource(gctx, src)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		telemetry.EndSpan(span, err)
		return nil, err
	}

	result.Sources = summaries
	for _, d := range found {
		result.Discrepancies = append(result.Discrepancies, d...)
	}
	result.FinishedAt = s.nowFn().UTC()

	span.SetAttributes(
		attribute.String("crosscheck.run_id", result.RunID.String()),
		attribute.Int("crosscheck.discrepancies", len(result.Discrepancies)),
		attribute.Int("crosscheck.source_errors", result.SourceErrors()),
	)
	telemetry.EndSpan(span, nil)

	if s.metrics != nil {
		s.metrics.RecordCrossCheckRun(ctx, result.Duration(), len(result.Discrepancies), result.SourceErrors())
	}

	s.logger.Info("cross-check finished",
		zap.String("run_id", result.RunID.String()),
		zap.Duration("duration", result.Duration()),
		zap.Int("discrepancies", len(result.Discrepancies)),
		zap.Int("source_errors", result.SourceErrors()))

	s.remember(ctx, result)
	return result, nil
}

func (s *service) checkSource(ctx context.Context, src Source) (crosscheck.SourceSummary, []crosscheck.Discrepancy) {
	summary := crosscheck.SourceSummary{Source: src.Name()}

	ctx, span := telemetry.StartSpan(ctx, "crosscheck.Fetch", attribute.String("crosscheck.source", src.Name()))
	reports, err := src.Fetch(ctx)
	telemetry.EndSpan(span, err)
	if err != nil {
		summary.Error = err.Error()
		s.logger.Warn("cross-check source failed",
			zap.String("source", src.Name()),
			zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordSourceError(ctx, src.Name())
		}
		return summary, nil
	}

	var found []crosscheck.Discrepancy
	for _, report := range reports {
		summary.Reports++
		summary.Entries += len(report.Entries)
		for _, d := range crosscheck.Compare(report) {
			found = append(found, d)
			if s.metrics != nil {
				s.metrics.RecordDiscrepancy(ctx, d.Source, d.Set.String(), string(d.Kind))
			}
			s.logger.Warn("area code table disagrees with report",
				zap.String("source", d.Source),
				zap.Stringer("set", d.Set),
				zap.Int("code", d.Code),
				zap.String("kind", string(d.Kind)))
		}
	}
	summary.Discrepancies = len(found)
	return summary, found
}

func (s *service) remember(ctx context.Context, result *crosscheck.Result) {
	s.mu.Lock()
	s.last = result
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SaveResult(ctx, result); err != nil {
			s.logger.Error("failed to persist cross-check result",
				zap.String("run_id", result.RunID.String()),
				zap.Error(err))
		}
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, LastResultKey, result, cache.LastResultTTL); err != nil {
			s.logger.Warn("failed to cache cross-check result", zap.Error(err))
		}
	}
}

func (s *service) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.logger.Warn("cross-check interval is not positive, periodic runs disabled",
			zap.Duration("interval", interval))
		return
	}

	s.logger.Info("starting periodic cross-check", zap.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Run(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("cross-check run failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			s.logger.Info("periodic cross-check stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *service) Last(ctx context.Context) (*crosscheck.Result, error) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()
	if last != nil {
		return last, nil
	}

	if s.cache != nil {
		var cached crosscheck.Result
		if err := s.cache.GetJSON(ctx, LastResultKey, &cached); err == nil {
			return &cached, nil
		}
	}

	if s.store != nil {
		return s.store.LatestResult(ctx)
	}
	return nil, errors.NewNotFoundError("cross-check run")
}
