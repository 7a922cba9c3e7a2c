package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/config"
)

// CacheManager owns the Redis connection and the services built on it.
type CacheManager struct {
	Cache       *RedisCache
	RateLimiter RateLimiter
	logger      *zap.Logger
}

// NewCacheManager connects to Redis and builds the report cache and the shared rate limiter.
func NewCacheManager(cfg *config.RedisConfig, logger *zap.Logger) (*CacheManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config is required")
	}

	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	rc, err := NewRedisCache(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis cache: %w", err)
	}

	logger.Info("cache manager initialized",
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize))

	return &CacheManager{
		Cache:       rc,
		RateLimiter: NewRedisRateLimiter(rc.Client(), logger),
		logger:      logger,
	}, nil
}

// Close closes the Redis connection.
func (cm *CacheManager) Close() error {
	if err := cm.Cache.Close(); err != nil {
		return fmt.Errorf("cache close failed: %w", err)
	}
	cm.logger.Info("cache manager closed successfully")
	return nil
}

// Ping checks the connection only. It backs the readiness probe.
func (cm *CacheManager) Ping(ctx context.Context) error {
	if err := cm.Cache.Client().Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// HealthCheck verifies that all cache services are operational
func (cm *CacheManager) HealthCheck(ctx context.Context) error {
	if err := cm.Ping(ctx); err != nil {
		return err
	}

	testKey := "nanp:health_check:test"
	testValue := time.Now().Unix()

	if err := cm.Cache.Set(ctx, testKey, testValue, 10*time.Second); err != nil {
		return fmt.Errorf("cache set health check failed: %w", err)
	}
	if _, err := cm.Cache.Get(ctx, testKey); err != nil {
		return fmt.Errorf("cache get health check failed: %w", err)
	}
	if err := cm.Cache.Delete(ctx, testKey); err != nil {
		return fmt.Errorf("cache delete health check failed: %w", err)
	}

	allowed, err := cm.RateLimiter.Allow(ctx, "health_check", 1, time.Minute)
	if err != nil {
		return fmt.Errorf("rate limiter health check failed: %w", err)
	}
	if !allowed {
		return fmt.Errorf("rate limiter health check unexpected result")
	}
	if err := cm.RateLimiter.Reset(ctx, "health_check"); err != nil {
		cm.logger.Warn("failed to clean up rate limiter health check", zap.Error(err))
	}

	return nil
}

// GetStats returns cache statistics for monitoring
func (cm *CacheManager) GetStats(ctx context.Context) (map[string]interface{}, error) {
	client := cm.Cache.Client()
	stats := make(map[string]interface{})

	poolStats := client.PoolStats()
	stats["pool_stats"] = map[string]interface{}{
		"hits":        poolStats.Hits,
		"misses":      poolStats.Misses,
		"timeouts":    poolStats.Timeouts,
		"total_conns": poolStats.TotalConns,
		"idle_conns":  poolStats.IdleConns,
		"stale_conns": poolStats.StaleConns,
	}

	dbSize, err := client.DBSize(ctx).Result()
	if err != nil {
		cm.logger.Warn("failed to get database size", zap.Error(err))
	} else {
		stats["db_size"] = dbSize
	}

	reports, err := client.Keys(ctx, ReportPrefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to count cached reports: %w", err)
	}
	stats["cached_reports"] = len(reports)

	return stats, nil
}
