package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/cache"
	"github.com/davidleathers/phonenumbers-na/internal/service/crosscheck"
	"github.com/davidleathers/phonenumbers-na/internal/service/extraction"
)

// Config holds API configuration
type Config struct {
	Version          string
	ServiceVersion   string
	MaxBodyBytes     int64
	RateLimit        RateLimitConfig
	Auth             AuthConfig
	ValidateContract bool
	// CORSOrigins enables CORS for the listed origins.
	CORSOrigins []string
	Logger      *slog.Logger

	Extraction extraction.Service
	// CrossCheck is optional; the admin endpoints answer 503 without it.
	CrossCheck crosscheck.Service
	// SharedLimiter moves rate limiting into Redis when set.
	SharedLimiter  cache.RateLimiter
	HealthCheckers []HealthChecker
	// WebSocket serves GET /api/v1/ws/extract when set.
	WebSocket http.Handler
	// Stats feeds GET /api/v1/admin/stats, keyed by backend name.
	Stats map[string]StatsFunc
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version:          "v1",
		ServiceVersion:   "dev",
		MaxBodyBytes:     1 << 20,
		RateLimit:        RateLimitConfig{RequestsPerSecond: 50, Burst: 100},
		ValidateContract: true,
		Logger:           slog.Default(),
	}
}

// Router is the fully assembled API handler.
type Router struct {
	handler  http.Handler
	limiter  *RateLimiter
	registry *prometheus.Registry
}

// NewRouter mounts every endpoint and wraps the mux in the middleware chain.
func NewRouter(config *Config) (*Router, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Extraction == nil {
		return nil, fmt.Errorf("router: extraction service is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base := NewBaseHandler(config.Version, config.MaxBodyBytes, logger)
	auth := NewAuthMiddleware(&config.Auth, base)
	handlers := NewHandlers(base, config.Extraction, config.CrossCheck).WithStats(config.Stats)
	health := NewHealthService(config.ServiceVersion, config.HealthCheckers...)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := NewHTTPMetrics(registry)

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, auth.Require(RoleAdmin))

	mux.Handle("GET /health", health.ReadinessHandler())
	mux.Handle("GET /healthz", health.LivenessHandler())
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("GET /api/openapi.yaml", handleOpenAPIDocument)
	mux.HandleFunc("GET /api/docs", handleDocs)
	if config.WebSocket != nil {
		mux.Handle("GET /api/v1/ws/extract", config.WebSocket)
	}

	limiter := NewRateLimiter(config.RateLimit, config.SharedLimiter, base, logger)

	middlewares := []Middleware{
		RecoveryMiddleware(base, logger),
		RequestIDMiddleware(),
	}
	if len(config.CORSOrigins) > 0 {
		cors := DefaultCORSConfig()
		cors.AllowedOrigins = config.CORSOrigins
		middlewares = append(middlewares, NewCORSMiddleware(cors).Middleware())
	}
	middlewares = append(middlewares,
		TracingMiddleware(otel.Tracer("api.rest"), otel.GetTextMapPropagator()),
		RequestLoggingMiddleware(logger),
		limiter.Middleware(),
		SecurityHeadersMiddleware(),
	)
	if config.ValidateContract {
		validator, err := NewContractValidator()
		if err != nil {
			return nil, err
		}
		middlewares = append(middlewares, validator.Middleware(base, base.maxBodySize, logger))
	}
	// Metrics must stay innermost to read the matched route pattern.
	middlewares = append(middlewares, httpMetrics.Middleware())

	return &Router{
		handler:  NewMiddlewareChain(middlewares...).Then(mux),
		limiter:  limiter,
		registry: registry,
	}, nil
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.handler.ServeHTTP(w, r)
}

// Registry exposes the Prometheus registry so other components can add
// collectors to /metrics.
func (rt *Router) Registry() *prometheus.Registry {
	return rt.registry
}

// RunMaintenance evicts idle rate limit buckets until ctx is done.
func (rt *Router) RunMaintenance(ctx context.Context) {
	rt.limiter.Cleanup(ctx, time.Minute)
}
