//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/config"
	"github.com/davidleathers/phonenumbers-na/internal/testutil/containers"
)

func TestCacheManager_Integration(t *testing.T) {
	ctx := context.Background()
	rc, err := containers.NewRedisContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Terminate(context.Background()) })

	cm, err := NewCacheManager(&config.RedisConfig{
		URL:         rc.URL,
		PoolSize:    5,
		DialTimeout: 5 * time.Second,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cm.Close() })

	require.NoError(t, cm.HealthCheck(ctx))

	url := "https://nationalnanpa.com/nanp1/npa_report.csv"
	require.NoError(t, cm.Cache.PutReport(ctx, url, []byte("NPA_ID\n206\n"), time.Minute))

	body, ok, err := cm.Cache.GetReport(ctx, url)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "NPA_ID\n206\n", string(body))

	stats, err := cm.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats["cached_reports"])

	for i := 0; i < 3; i++ {
		allowed, err := cm.RateLimiter.Allow(ctx, "203.0.113.7", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := cm.RateLimiter.Allow(ctx, "203.0.113.7", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}
