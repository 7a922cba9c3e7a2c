package values

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIngestedNumber(t *testing.T) {
	p := MustNewPhoneNumber(819, 934, 6352, Canada)
	batch := uuid.New()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("PST", -8*3600))

	in := NewIngestedNumber(p, "  ", batch, at)

	assert.Equal(t, "unknown", in.IngestedFrom)
	assert.Equal(t, time.UTC, in.DateIngested.Location())
	assert.True(t, in.DateIngested.Equal(at))
	assert.Equal(t, batch, in.BatchID)
	assert.True(t, in.IsValid())
}

func TestIngestedNumber_JSONIsFlat(t *testing.T) {
	in := NewIngestedNumber(MustNewPhoneNumber(202, 418, 1500, Local), "contacts.csv", uuid.Nil, time.Unix(0, 0))

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "2024181500", flat["DialedNumber"])
	assert.Equal(t, "Local", flat["Type"])
	assert.Equal(t, "contacts.csv", flat["IngestedFrom"])
	assert.Contains(t, flat, "DateIngested")
}

func TestIngestedNumber_StringCarriesProvenance(t *testing.T) {
	batch := uuid.MustParse("6f1c2b1e-9a43-4d57-8a51-0d2f3c4b5a69")
	in := NewIngestedNumber(MustNewPhoneNumber(800, 576, 4377, Tollfree), "crm", batch,
		time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	s := in.String()
	assert.NotEqual(t, in.PhoneNumber.String(), s)

	var flat map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &flat))
	assert.Equal(t, "8005764377", flat["DialedNumber"])
	assert.Equal(t, "Tollfree", flat["Type"])
	assert.Equal(t, "crm", flat["IngestedFrom"])
	assert.Equal(t, batch.String(), flat["BatchID"])
	assert.Equal(t, "2024-03-01T12:00:00Z", flat["DateIngested"])
	assert.Equal(t, s, fmt.Sprint(in))
}
