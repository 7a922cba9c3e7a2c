package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/davidleathers/phonenumbers-na/internal/api/rest"
	"github.com/davidleathers/phonenumbers-na/internal/api/websocket"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/cache"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/config"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/database"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/telemetry"
	"github.com/davidleathers/phonenumbers-na/internal/metrics"
	"github.com/davidleathers/phonenumbers-na/internal/service/crosscheck"
	"github.com/davidleathers/phonenumbers-na/internal/service/crosscheck/providers"
	"github.com/davidleathers/phonenumbers-na/internal/service/extraction"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to configuration file")
		migrate    = flag.Bool("migrate", false, "Apply database migrations before serving")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := telemetry.SetupLogger(cfg.LogLevel)
	if err != nil {
		slog.Error("failed to setup logger", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	zapLogger, err := telemetry.NewZapLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		logger.Error("failed to setup zap logger", "error", err)
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *migrate, logger, zapLogger); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, migrate bool, logger *slog.Logger, zapLogger *zap.Logger) error {
	logger.Info("starting phonenumbers-na api",
		"version", cfg.Version,
		"environment", cfg.Environment,
		"port", cfg.Server.Port)

	provider, err := telemetry.InitializeOpenTelemetry(ctx, &telemetry.Config{
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
		SamplingRate:   cfg.Telemetry.SamplingRate,
		ExportTimeout:  cfg.Telemetry.ExportTimeout,
		BatchTimeout:   cfg.Telemetry.BatchTimeout,
	})
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to shutdown telemetry", "error", err)
		}
	}()

	registry, err := metrics.NewRegistry("phonenumbers-na")
	if err != nil {
		return fmt.Errorf("create metrics registry: %w", err)
	}

	var (
		ingestRepo    extraction.IngestRepository
		resultStore   crosscheck.ResultStore
		resultCache   crosscheck.ResultCache
		reportCache   cache.ReportCache
		sharedLimiter cache.RateLimiter
		checkers      []rest.HealthChecker
		stats         = map[string]rest.StatsFunc{}
	)

	if cfg.Database.Enabled() {
		if migrate {
			if err := database.MigrateUp(cfg.Database.URL, zapLogger); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
		}
		pool, err := database.NewConnectionPool(&cfg.Database, zapLogger)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		ingestRepo = database.NewIngestRepository(pool.Pool())
		resultStore = database.NewCrossCheckRepository(pool.Pool())
		checkers = append(checkers, rest.NewPingChecker("database", pool.Ping))
		stats["database"] = database.NewMonitor(pool.Pool(), zapLogger, nil).Stats
	} else {
		logger.Info("database not configured, ingestion storage disabled")
	}

	if cfg.Redis.Enabled() {
		cm, err := cache.NewCacheManager(&cfg.Redis, zapLogger)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer cm.Close()

		resultCache = cm.Cache
		reportCache = cm.Cache
		sharedLimiter = cm.RateLimiter
		checkers = append(checkers, rest.NewPingChecker("redis", cm.HealthCheck))
		stats["redis"] = cm.GetStats
	}

	extractionSvc := extraction.NewService(cfg.Ingest, ingestRepo, registry, logger)

	var crossCheckSvc crosscheck.Service
	sources := providers.NewSources(cfg.CrossCheck, reportCache, registry, zapLogger)
	if len(sources) > 0 {
		crossCheckSvc = crosscheck.NewService(sources, resultStore, resultCache, registry, zapLogger)
	}

	wsHandler := websocket.NewHandler(extractionSvc, zapLogger, cfg.Server.CORSOrigins)
	defer wsHandler.Close()

	router, err := rest.NewRouter(&rest.Config{
		Version:        "v1",
		ServiceVersion: cfg.Version,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		RateLimit: rest.RateLimitConfig{
			RequestsPerSecond: cfg.Security.RateLimit.RequestsPerSecond,
			Burst:             cfg.Security.RateLimit.BurstSize,
		},
		Auth: rest.AuthConfig{
			JWTSecret:   []byte(cfg.Security.JWTSecret),
			Issuer:      cfg.Security.TokenIssuer,
			TokenExpiry: cfg.Security.TokenExpiry,
		},
		ValidateContract: true,
		CORSOrigins:      cfg.Server.CORSOrigins,
		Logger:           logger,
		Extraction:       extractionSvc,
		CrossCheck:       crossCheckSvc,
		SharedLimiter:    sharedLimiter,
		HealthCheckers:   checkers,
		WebSocket:        wsHandler,
		Stats:            stats,
	})
	if err != nil {
		return fmt.Errorf("create router: %w", err)
	}

	monitor, err := newDependencyMonitor(router.Registry(), cfg.Version, cfg.Environment, checkers, logger)
	if err != nil {
		return fmt.Errorf("register service metrics: %w", err)
	}

	server := rest.NewServer(cfg.Server, router, logger)
	if err := server.Listen(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Start(gctx) })
	g.Go(func() error {
		monitor.Run(gctx, 30*time.Second)
		return nil
	})
	if crossCheckSvc != nil && cfg.CrossCheck.Enabled {
		g.Go(func() error {
			crossCheckSvc.Start(gctx, cfg.CrossCheck.Interval)
			return nil
		})
	}

	err = g.Wait()
	logger.Info("shutting down gracefully")
	return err
}
