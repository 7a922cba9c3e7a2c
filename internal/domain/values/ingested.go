package values

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// IngestedNumber records where and when a number was pulled from text.
type IngestedNumber struct {
	PhoneNumber
	DateIngested time.Time `json:"DateIngested"`
	IngestedFrom string    `json:"IngestedFrom"`
	BatchID      uuid.UUID `json:"BatchID"`
}

// NewIngestedNumber stamps p with its provenance. An empty source becomes "unknown".
func NewIngestedNumber(p PhoneNumber, source string, batchID uuid.UUID, at time.Time) IngestedNumber {
	source = strings.TrimSpace(source)
	if source == "" {
		source = "unknown"
	}
	return IngestedNumber{
		PhoneNumber:  p,
		DateIngested: at.UTC(),
		IngestedFrom: source,
		BatchID:      batchID,
	}
}

// String renders the flat JSON object, provenance included.
func (n IngestedNumber) String() string {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Sprintf("{%q:%q,%q:%q}", "DialedNumber", n.DialedNumber, "IngestedFrom", n.IngestedFrom)
	}
	return string(data)
}
