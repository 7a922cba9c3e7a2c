package extraction

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/davidleathers/phonenumbers-na/internal/domain/areacode"
	"github.com/davidleathers/phonenumbers-na/internal/domain/errors"
	"github.com/davidleathers/phonenumbers-na/internal/domain/nanp"
	"github.com/davidleathers/phonenumbers-na/internal/domain/values"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/config"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/telemetry"
)

// DefaultRecentLimit applies when Recent is called without a limit.
const DefaultRecentLimit = 50

// service implements the Service interface
type service struct {
	cfg     config.IngestConfig
	repo    IngestRepository
	metrics MetricsCollector
	logger  *telemetry.LoggerWithTrace
	nowFn   func() time.Time
}

// NewService creates an extraction service. repo and metrics may be nil; without
// a repository nothing is persisted and Recent reports storage as disabled.
func NewService(cfg config.IngestConfig, repo IngestRepository, metrics MetricsCollector, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.DefaultSource) == "" {
		cfg.DefaultSource = "unknown"
	}
	return &service{
		cfg:     cfg,
		repo:    repo,
		metrics: metrics,
		logger:  telemetry.NewLoggerWithTrace(logger.With("component", "extraction")),
		nowFn:   time.Now,
	}
}

// Extract scans req.Text with the ten digit window. When the scan finds
// nothing, the whole text is tried as an SMS short code.
func (s *service) Extract(ctx context.Context, req *ExtractRequest) (*ExtractResponse, error) {
	if req == nil {
		return nil, errors.NewValidationError(errors.CodeInvalidInput, "request cannot be nil")
	}
	if s.cfg.MaxInputBytes > 0 && len(req.Text) > s.cfg.MaxInputBytes {
		return nil, errors.ErrInvalidInput.WithDetails(map[string]interface{}{
			"reason":    "text too large",
			"max_bytes": s.cfg.MaxInputBytes,
			"bytes":     len(req.Text),
		})
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = s.cfg.DefaultSource
	}

	ctx, span := telemetry.StartSpan(ctx, "extraction.Extract",
		attribute.String("extraction.source", source),
		attribute.Int("extraction.bytes", len(req.Text)))
	var spanErr error
	defer func() { telemetry.EndSpan(span, spanErr) }()

	start := s.nowFn()
	var (
		found    []values.PhoneNumber
		rejected int
		fallback bool
	)
	for candidate, ok := range nanp.Windows(req.Text) {
		if !ok {
			rejected++
			continue
		}
		if p, ok := nanp.TryParseExact(candidate); ok {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		if p, ok := nanp.TryParseShortCode(req.Text); ok {
			found = append(found, p)
			fallback = true
		}
	}

	resp := &ExtractResponse{
		BatchID:           uuid.New(),
		Source:            source,
		DialedNumbers:     make([]string, 0, len(found)),
		Numbers:           make([]values.IngestedNumber, 0, len(found)),
		Rejected:          rejected,
		ShortCodeFallback: fallback,
	}
	byType := make(map[string]int)
	for _, p := range found {
		resp.DialedNumbers = append(resp.DialedNumbers, p.DialedNumber)
		resp.Numbers = append(resp.Numbers, values.NewIngestedNumber(p, source, resp.BatchID, start))
		byType[p.Type.String()]++
	}

	if s.metrics != nil {
		s.metrics.RecordExtraction(ctx, s.nowFn().Sub(start), source, byType, rejected, fallback)
	}
	span.SetAttributes(
		attribute.Int("extraction.found", len(found)),
		attribute.Int("extraction.rejected", rejected),
	)

	if (req.Persist || s.cfg.Persist) && len(resp.Numbers) > 0 {
		if s.repo == nil {
			if req.Persist {
				spanErr = errors.ErrStorageDisabled
				return nil, errors.ErrStorageDisabled
			}
		} else {
			n, err := s.repo.Save(ctx, resp.Numbers)
			if err != nil {
				spanErr = err
				s.logger.Error(ctx, "failed to persist extracted numbers",
					"batch_id", resp.BatchID.String(),
					"error", err)
				return nil, err
			}
			resp.Persisted = n
			if s.metrics != nil {
				s.metrics.RecordPersisted(ctx, source, n)
			}
		}
	}

	s.logger.Info(ctx, "text scanned",
		"source", source,
		"batch_id", resp.BatchID.String(),
		"found", len(found),
		"rejected", rejected,
		"short_code", fallback,
		"persisted", resp.Persisted)

	return resp, nil
}

func (s *service) Validate(ctx context.Context, text string) *ValidateResponse {
	valid := nanp.IsValidPhoneNumber(text)
	s.logger.Debug(ctx, "validated input", "valid", valid)
	return &ValidateResponse{Input: text, Valid: valid}
}

func (s *service) Parse(ctx context.Context, text string) (values.PhoneNumber, error) {
	start := s.nowFn()
	p, err := nanp.Parse(text)
	if s.metrics != nil {
		typeName := values.Invalid.String()
		if err == nil {
			typeName = p.Type.String()
		}
		s.metrics.RecordParse(ctx, s.nowFn().Sub(start), typeName, err == nil)
	}
	return p, err
}

func (s *service) LookupAreaCode(_ context.Context, npa string) (*AreaCodeInfo, error) {
	npa = strings.TrimSpace(npa)
	code, ok := areacode.ParseDigits(npa, 3)
	if !ok {
		return nil, errors.ErrInvalidAreaCode.WithDetails(map[string]interface{}{
			"npa": npa,
		})
	}

	info := &AreaCodeInfo{
		NPA:                npa,
		Valid:              areacode.ValidNPA(code),
		Tollfree:           areacode.ValidTollfree(code),
		NonGeographic:      areacode.ValidNonGeographic(code),
		Canadian:           areacode.ValidCanadian(code),
		CountryOrTerritory: areacode.ValidCountryOrTerritory(code),
		Type:               nanp.Classify(code, 200, 0),
	}
	if state, ok := areacode.StateForNPA(code); ok {
		info.State = &state
	}
	return info, nil
}

func (s *service) States(context.Context) []areacode.State {
	return areacode.States()
}

func (s *service) State(_ context.Context, abbr string) (areacode.State, error) {
	state, ok := areacode.StateByAbbreviation(abbr)
	if !ok {
		return areacode.State{}, errors.ErrStateNotFound.WithDetails(map[string]interface{}{
			"abbreviation": abbr,
		})
	}
	return state, nil
}

func (s *service) Recent(ctx context.Context, source string, limit int) ([]values.IngestedNumber, error) {
	if s.repo == nil {
		return nil, errors.ErrStorageDisabled
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.repo.Recent(ctx, strings.TrimSpace(source), limit)
}
