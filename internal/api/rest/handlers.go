package rest

import (
	"context"
	"net/http"
	"sort"
	"strconv"

	"github.com/davidleathers/phonenumbers-na/internal/domain/errors"
	"github.com/davidleathers/phonenumbers-na/internal/service/crosscheck"
	"github.com/davidleathers/phonenumbers-na/internal/service/extraction"
)

// errCrossCheckDisabled is returned by the admin endpoints when the server
// runs without report sources.
var errCrossCheckDisabled = errors.NewUnavailableError(errors.CodeCrossCheckFailed, "Cross-check is not configured")

// StatsFunc reports runtime statistics for one backend.
type StatsFunc func(ctx context.Context) (map[string]interface{}, error)

// Handlers serves the v1 API.
type Handlers struct {
	*BaseHandler
	extraction extraction.Service
	crossCheck crosscheck.Service
	stats      map[string]StatsFunc
}

// NewHandlers creates the v1 handlers. crossCheck may be nil.
func NewHandlers(base *BaseHandler, extractionSvc extraction.Service, crossCheck crosscheck.Service) *Handlers {
	return &Handlers{
		BaseHandler: base,
		extraction:  extractionSvc,
		crossCheck:  crossCheck,
	}
}

// WithStats registers the backends reported by the admin stats endpoint.
func (h *Handlers) WithStats(stats map[string]StatsFunc) *Handlers {
	h.stats = stats
	return h
}

// RegisterRoutes mounts the v1 endpoints on mux. admin wraps the admin routes.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux, admin Middleware) {
	mux.Handle("POST /api/v1/extract", h.Wrap(h.handleExtract))
	mux.Handle("GET /api/v1/numbers/{input}", h.Wrap(h.handleParse))
	mux.Handle("GET /api/v1/numbers/{input}/validate", h.Wrap(h.handleValidate))
	mux.Handle("GET /api/v1/areacodes/{npa}", h.Wrap(h.handleAreaCode))
	mux.Handle("GET /api/v1/states", h.Wrap(h.handleStates))
	mux.Handle("GET /api/v1/states/{abbr}", h.Wrap(h.handleState))
	mux.Handle("GET /api/v1/ingested", h.Wrap(h.handleIngested))

	mux.Handle("POST /api/v1/admin/crosscheck", admin(h.Wrap(h.handleRunCrossCheck)))
	mux.Handle("GET /api/v1/admin/crosscheck", admin(h.Wrap(h.handleLastCrossCheck)))
	mux.Handle("GET /api/v1/admin/stats", admin(h.Wrap(h.handleStats)))
}

func (h *Handlers) handleExtract(ctx context.Context, r *http.Request) (interface{}, error) {
	var req extraction.ExtractRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		return nil, err
	}
	return h.extraction.Extract(ctx, &req)
}

func (h *Handlers) handleParse(ctx context.Context, r *http.Request) (interface{}, error) {
	p, err := h.extraction.Parse(ctx, r.PathValue("input"))
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (h *Handlers) handleValidate(ctx context.Context, r *http.Request) (interface{}, error) {
	return h.extraction.Validate(ctx, r.PathValue("input")), nil
}

func (h *Handlers) handleAreaCode(ctx context.Context, r *http.Request) (interface{}, error) {
	return h.extraction.LookupAreaCode(ctx, r.PathValue("npa"))
}

func (h *Handlers) handleStates(ctx context.Context, _ *http.Request) (interface{}, error) {
	return h.extraction.States(ctx), nil
}

func (h *Handlers) handleState(ctx context.Context, r *http.Request) (interface{}, error) {
	state, err := h.extraction.State(ctx, r.PathValue("abbr"))
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (h *Handlers) handleIngested(ctx context.Context, r *http.Request) (interface{}, error) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, &ValidationError{
				Message: "Validation failed",
				Fields:  map[string][]string{"limit": {"Must be a positive integer"}},
			}
		}
		limit = n
	}

	return h.extraction.Recent(ctx, q.Get("source"), limit)
}

func (h *Handlers) handleRunCrossCheck(ctx context.Context, _ *http.Request) (interface{}, error) {
	if h.crossCheck == nil {
		return nil, errCrossCheckDisabled
	}
	return h.crossCheck.Run(ctx)
}

func (h *Handlers) handleLastCrossCheck(ctx context.Context, _ *http.Request) (interface{}, error) {
	if h.crossCheck == nil {
		return nil, errCrossCheckDisabled
	}
	return h.crossCheck.Last(ctx)
}

// handleStats reports every registered backend. A failing backend is reported
// with its error instead of failing the request.
func (h *Handlers) handleStats(ctx context.Context, _ *http.Request) (interface{}, error) {
	names := make([]string, 0, len(h.stats))
	for name := range h.stats {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]interface{}, len(names)+1)
	if h.crossCheck != nil {
		out["crosscheck_sources"] = h.crossCheck.Sources()
	}
	for _, name := range names {
		stats, err := h.stats[name](ctx)
		if err != nil {
			h.logger.Warn(ctx, "stats backend failed", "backend", name, "error", err)
			out[name] = map[string]interface{}{"error": err.Error()}
			continue
		}
		out[name] = stats
	}
	return out, nil
}
