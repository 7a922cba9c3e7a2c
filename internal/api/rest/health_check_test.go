package rest

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthService_Readiness(t *testing.T) {
	okCheck := NewPingChecker("database", func(context.Context) error { return nil })
	failing := NewPingChecker("redis", func(context.Context) error { return errors.New("connection refused") })

	t.Run("all pass", func(t *testing.T) {
		router := newTestRouter(t, withHealthCheckers(okCheck))
		rec := makeRequest(router, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/health+json", rec.Header().Get("Content-Type"))

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, HealthStatusPass, resp.Status)
		assert.Equal(t, "test", resp.Version)
		assert.Equal(t, HealthStatusPass, resp.Checks["database"].Status)
	})

	t.Run("one fails", func(t *testing.T) {
		router := newTestRouter(t, withHealthCheckers(okCheck, failing))
		rec := makeRequest(router, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, HealthStatusFail, resp.Status)
		assert.Equal(t, "connection refused", resp.Checks["redis"].Error)
		assert.Equal(t, HealthStatusPass, resp.Checks["database"].Status)
	})

	t.Run("liveness ignores dependencies", func(t *testing.T) {
		router := newTestRouter(t, withHealthCheckers(failing))
		rec := makeRequest(router, http.MethodGet, "/healthz", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestPingChecker_HonoursTimeout(t *testing.T) {
	slow := NewPingChecker("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	svc := NewHealthService("test", slow)
	svc.timeout = 10 * time.Millisecond

	results := svc.runChecks(context.Background())
	assert.Equal(t, HealthStatusFail, results["slow"].Status)
	assert.Equal(t, context.DeadlineExceeded.Error(), results["slow"].Error)
}
