package rest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/phonenumbers-na/internal/domain/crosscheck"
	"github.com/davidleathers/phonenumbers-na/internal/domain/values"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/config"
	"github.com/davidleathers/phonenumbers-na/internal/service/extraction"
)

const testJWTSecret = "test-secret-key"

type MockIngestRepository struct {
	mock.Mock
}

func (m *MockIngestRepository) Save(ctx context.Context, numbers []values.IngestedNumber) (int, error) {
	args := m.Called(ctx, numbers)
	return args.Int(0), args.Error(1)
}

func (m *MockIngestRepository) Recent(ctx context.Context, source string, limit int) ([]values.IngestedNumber, error) {
	args := m.Called(ctx, source, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]values.IngestedNumber), args.Error(1)
}

type MockCrossCheckService struct {
	mock.Mock
}

func (m *MockCrossCheckService) Run(ctx context.Context) (*crosscheck.Result, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crosscheck.Result), args.Error(1)
}

func (m *MockCrossCheckService) Start(ctx context.Context, interval time.Duration) {
	m.Called(ctx, interval)
}

func (m *MockCrossCheckService) Last(ctx context.Context) (*crosscheck.Result, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crosscheck.Result), args.Error(1)
}

func (m *MockCrossCheckService) Sources() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// testEnvelope mirrors ResponseEnvelope with the payload left raw.
type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorResponse  `json:"error"`
	Meta    ResponseMeta    `json:"meta"`
}

type routerOption func(*Config)

func withIngestRepository(repo extraction.IngestRepository) routerOption {
	return func(c *Config) {
		c.Extraction = extraction.NewService(config.IngestConfig{MaxInputBytes: 1 << 16, DefaultSource: "api"}, repo, nil, c.Logger)
	}
}

func withCrossCheck(svc *MockCrossCheckService) routerOption {
	return func(c *Config) { c.CrossCheck = svc }
}

func withRateLimit(rps, burst int) routerOption {
	return func(c *Config) { c.RateLimit = RateLimitConfig{RequestsPerSecond: rps, Burst: burst} }
}

func withStats(stats map[string]StatsFunc) routerOption {
	return func(c *Config) { c.Stats = stats }
}

func withHealthCheckers(checkers ...HealthChecker) routerOption {
	return func(c *Config) { c.HealthCheckers = checkers }
}

func newTestRouter(t *testing.T, opts ...routerOption) *Router {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &Config{
		Version:          "v1",
		ServiceVersion:   "test",
		MaxBodyBytes:     1 << 16,
		ValidateContract: true,
		Logger:           logger,
		Auth: AuthConfig{
			JWTSecret: []byte(testJWTSecret),
			Issuer:    "phonenumbers-na",
		},
	}
	cfg.Extraction = extraction.NewService(config.IngestConfig{MaxInputBytes: 1 << 16, DefaultSource: "api"}, nil, nil, logger)
	for _, opt := range opts {
		opt(cfg)
	}

	router, err := NewRouter(cfg)
	require.NoError(t, err)
	return router
}

func makeRequest(handler http.Handler, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, _ := json.Marshal(b)
			reader = bytes.NewBuffer(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, env testEnvelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func adminToken(t *testing.T, role string) string {
	t.Helper()
	auth := NewAuthMiddleware(&AuthConfig{JWTSecret: []byte(testJWTSecret), Issuer: "phonenumbers-na"}, nil)
	token, err := auth.IssueToken("ops@example.com", role)
	require.NoError(t, err)
	return "Bearer " + token
}
