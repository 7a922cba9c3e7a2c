package crosscheck

import (
	"context"
	"time"

	"github.com/davidleathers/phonenumbers-na/internal/domain/crosscheck"
)

// Service compares the built-in area code tables with published reports.
type Service interface {
	// Run fetches every source once and compares its reports.
	Run(ctx context.Context) (*crosscheck.Result, error)
	// Start runs immediately and then on every interval until ctx is done.
	Start(ctx context.Context, interval time.Duration)
	// Last returns the most recent result from memory, cache or storage.
	Last(ctx context.Context) (*crosscheck.Result, error)
	// Sources lists the configured source names.
	Sources() []string
}

// Source publishes area code reports.
type Source interface {
	// Name identifies the source in results, logs and metrics
	Name() string
	// Fetch retrieves the current reports
	Fetch(ctx context.Context) ([]crosscheck.Report, error)
}

// ResultStore persists run history.
type ResultStore interface {
	SaveResult(ctx context.Context, result *crosscheck.Result) error
	LatestResult(ctx context.Context) (*crosscheck.Result, error)
}

// ResultCache holds the last result for other API replicas.
type ResultCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// MetricsCollector records cross-check outcomes.
type MetricsCollector interface {
	RecordCrossCheckRun(ctx context.Context, duration time.Duration, discrepancies int, sourceErrors int)
	RecordDiscrepancy(ctx context.Context, source, set, kind string)
	RecordSourceError(ctx context.Context, source string)
}
