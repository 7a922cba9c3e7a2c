package rest

import (
	"context"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// HealthChecker checks the health of a dependency
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) HealthCheckResult
}

// HealthStatus represents the health status
type HealthStatus string

const (
	HealthStatusPass HealthStatus = "pass"
	HealthStatusFail HealthStatus = "fail"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       HealthStatus `json:"status"`
	Error        string       `json:"error,omitempty"`
	ResponseTime string       `json:"response_time"`
}

// HealthResponse represents the overall health response
type HealthResponse struct {
	Status        HealthStatus                 `json:"status"`
	Version       string                       `json:"version"`
	ServiceName   string                       `json:"service_name"`
	UptimeSeconds float64                      `json:"uptime_seconds"`
	Checks        map[string]HealthCheckResult `json:"checks,omitempty"`
}

// HealthService runs the registered dependency checks
type HealthService struct {
	checkers  []HealthChecker
	version   string
	timeout   time.Duration
	tracer    trace.Tracer
	startTime time.Time
}

// NewHealthService creates a new health service
func NewHealthService(version string, checkers ...HealthChecker) *HealthService {
	return &HealthService{
		checkers:  checkers,
		version:   version,
		timeout:   3 * time.Second,
		tracer:    otel.Tracer("api.rest.health"),
		startTime: time.Now(),
	}
}

// LivenessHandler reports that the process is serving.
func (h *HealthService) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.write(w, http.StatusOK, HealthResponse{
			Status:        HealthStatusPass,
			Version:       h.version,
			ServiceName:   "phonenumbers-na",
			UptimeSeconds: time.Since(h.startTime).Seconds(),
		})
	}
}

// ReadinessHandler runs every check and answers 503 when any fails.
func (h *HealthService) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := h.tracer.Start(r.Context(), "health.readiness")
		defer span.End()

		checks := h.runChecks(ctx)
		status, code := HealthStatusPass, http.StatusOK
		for _, c := range checks {
			if c.Status == HealthStatusFail {
				status, code = HealthStatusFail, http.StatusServiceUnavailable
				break
			}
		}

		span.SetAttributes(
			attribute.String("health.status", string(status)),
			attribute.Int("health.checks_count", len(checks)),
		)
		h.write(w, code, HealthResponse{
			Status:        status,
			Version:       h.version,
			ServiceName:   "phonenumbers-na",
			UptimeSeconds: time.Since(h.startTime).Seconds(),
			Checks:        checks,
		})
	}
}

func (h *HealthService) runChecks(ctx context.Context) map[string]HealthCheckResult {
	results := make(map[string]HealthCheckResult, len(h.checkers))
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, c := range h.checkers {
		wg.Add(1)
		go func(c HealthChecker) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
			defer cancel()

			result := c.Check(checkCtx)
			mu.Lock()
			results[c.Name()] = result
			mu.Unlock()
		}(c)
	}
	wg.Wait()
	return results
}

func (h *HealthService) write(w http.ResponseWriter, status int, resp HealthResponse) {
	w.Header().Set("Content-Type", "application/health+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// PingChecker adapts a Ping method, such as a database pool or Redis client
// wrapper, to a HealthChecker.
type PingChecker struct {
	name string
	ping func(ctx context.Context) error
}

// NewPingChecker creates a checker named name that calls ping.
func NewPingChecker(name string, ping func(ctx context.Context) error) *PingChecker {
	return &PingChecker{name: name, ping: ping}
}

func (p *PingChecker) Name() string { return p.name }

func (p *PingChecker) Check(ctx context.Context) HealthCheckResult {
	start := time.Now()
	err := p.ping(ctx)
	result := HealthCheckResult{
		Status:       HealthStatusPass,
		ResponseTime: time.Since(start).String(),
	}
	if err != nil {
		result.Status = HealthStatusFail
		result.Error = err.Error()
	}
	return result
}
