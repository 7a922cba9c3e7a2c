package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ReportKey derives the cache key for a report URL.
func ReportKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return ReportPrefix + hex.EncodeToString(sum[:12])
}

// GetReport returns the cached body for url
func (r *RedisCache) GetReport(ctx context.Context, url string) ([]byte, bool, error) {
	body, err := r.Get(ctx, ReportKey(url))
	if err != nil {
		var notFound ErrCacheKeyNotFound
		if errors.As(err, &notFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(body), true, nil
}

// PutReport stores body for url. A non-positive ttl uses ReportTTL.
func (r *RedisCache) PutReport(ctx context.Context, url string, body []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ReportTTL
	}
	if err := r.Set(ctx, ReportKey(url), body, ttl); err != nil {
		return err
	}
	r.logger.Debug("report cached",
		zap.String("url", url),
		zap.Int("bytes", len(body)),
		zap.Duration("ttl", ttl))
	return nil
}
