package extraction

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/davidleathers/phonenumbers-na/internal/domain/areacode"
	"github.com/davidleathers/phonenumbers-na/internal/domain/values"
)

// Service exposes extraction, validation and area code lookups to the API and CLI.
type Service interface {
	// Extract pulls every number out of free text and optionally stores them
	Extract(ctx context.Context, req *ExtractRequest) (*ExtractResponse, error)
	// Validate reports whether text is exactly one NANP number
	Validate(ctx context.Context, text string) *ValidateResponse
	// Parse reads one number or short code from text
	Parse(ctx context.Context, text string) (values.PhoneNumber, error)
	// LookupAreaCode describes a three digit NPA
	LookupAreaCode(ctx context.Context, npa string) (*AreaCodeInfo, error)
	// States lists the geographic NPAs of every state
	States(ctx context.Context) []areacode.State
	// State finds a state by postal abbreviation
	State(ctx context.Context, abbr string) (areacode.State, error)
	// Recent lists stored numbers, newest first
	Recent(ctx context.Context, source string, limit int) ([]values.IngestedNumber, error)
}

// IngestRepository stores extracted numbers.
type IngestRepository interface {
	Save(ctx context.Context, numbers []values.IngestedNumber) (int, error)
	Recent(ctx context.Context, source string, limit int) ([]values.IngestedNumber, error)
}

// MetricsCollector records extraction activity.
type MetricsCollector interface {
	RecordExtraction(ctx context.Context, duration time.Duration, source string, byType map[string]int, rejected int, shortCodeFallback bool)
	RecordParse(ctx context.Context, duration time.Duration, numberType string, success bool)
	RecordPersisted(ctx context.Context, source string, n int)
}

// ExtractRequest is a block of text to scan.
type ExtractRequest struct {
	Text    string `json:"text" validate:"required"`
	Source  string `json:"source,omitempty" validate:"omitempty,max=64,printascii"`
	Persist bool   `json:"persist,omitempty"`
}

// ExtractResponse lists what was found in one request.
type ExtractResponse struct {
	BatchID           uuid.UUID               `json:"batch_id"`
	Source            string                  `json:"source"`
	DialedNumbers     []string                `json:"dialed_numbers"`
	Numbers           []values.IngestedNumber `json:"numbers"`
	Rejected          int                     `json:"rejected"`
	ShortCodeFallback bool                    `json:"short_code_fallback"`
	Persisted         int                     `json:"persisted"`
}

// ValidateResponse answers a validation query.
type ValidateResponse struct {
	Input string `json:"input"`
	Valid bool   `json:"valid"`
}

// AreaCodeInfo is everything the tables know about one NPA.
type AreaCodeInfo struct {
	NPA                string            `json:"npa"`
	Valid              bool              `json:"valid"`
	Tollfree           bool              `json:"tollfree"`
	NonGeographic      bool              `json:"non_geographic"`
	Canadian           bool              `json:"canadian"`
	CountryOrTerritory bool              `json:"country_or_territory"`
	Type               values.NumberType `json:"type"`
	State              *areacode.State   `json:"state,omitempty"`
}
