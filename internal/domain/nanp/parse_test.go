package nanp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/phonenumbers-na/internal/domain/errors"
	"github.com/davidleathers/phonenumbers-na/internal/domain/values"
)

func TestTryParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
		want   values.PhoneNumber
	}{
		{
			name:   "vanity toll-free",
			input:  "1800KROGERS",
			wantOK: true,
			want:   values.PhoneNumber{DialedNumber: "8005764377", NPA: 800, NXX: 576, XXXX: 4377, Type: values.Tollfree},
		},
		{
			name:   "leading country code",
			input:  "12068589310",
			wantOK: true,
			want:   values.PhoneNumber{DialedNumber: "2068589310", NPA: 206, NXX: 858, XXXX: 9310, Type: values.Local},
		},
		{
			name:   "canadian",
			input:  "(819) 934-6352",
			wantOK: true,
			want:   values.PhoneNumber{DialedNumber: "8199346352", NPA: 819, NXX: 934, XXXX: 6352, Type: values.Canada},
		},
		{
			name:   "country or territory",
			input:  "264 497-2651",
			wantOK: true,
			want:   values.PhoneNumber{DialedNumber: "2644972651", NPA: 264, NXX: 497, XXXX: 2651, Type: values.CountryOrTerritory},
		},
		{
			name:   "non-geographic",
			input:  "500-234-5678",
			wantOK: true,
			want:   values.PhoneNumber{DialedNumber: "5002345678", NPA: 500, NXX: 234, XXXX: 5678, Type: values.NonGeographic},
		},
		{
			name:   "short code from letters",
			input:  "FUNNY",
			wantOK: true,
			want:   values.PhoneNumber{DialedNumber: "38669", Type: values.ShortCode},
		},
		{
			name:   "six digit short code",
			input:  "275285",
			wantOK: true,
			want:   values.PhoneNumber{DialedNumber: "275285", Type: values.ShortCode},
		},
		{
			name:   "seven characters reduce to a short code",
			input:  "1-67378",
			wantOK: true,
			want:   values.PhoneNumber{DialedNumber: "67378", Type: values.ShortCode},
		},
		{name: "gibberish", input: "ppboinine"},
		{name: "too short", input: "2sma"},
		{name: "all ones", input: "1 (111) 111-1111"},
		{name: "fictional area code", input: "15555551212"},
		{name: "empty", input: ""},
		{name: "whitespace", input: "       "},
		{name: "eight characters", input: "20685893"},
		{name: "seven digits", input: "2345678"},
		{name: "short code leading zeros leave too few", input: "0012345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TryParse(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTryParseShortCode(t *testing.T) {
	for _, code := range []string{"67378", "58865", "275285", "30471"} {
		p, ok := TryParseShortCode(code)
		require.True(t, ok, code)
		assert.Equal(t, code, p.DialedNumber)
		assert.Equal(t, values.ShortCode, p.Type)
		assert.True(t, p.IsShortCode())
	}

	for _, input := range []string{"1234", "12345678", "1 2 3 4", "٣٣٣٣٣", "00000"} {
		_, ok := TryParseShortCode(input)
		assert.False(t, ok, "%q", input)
	}
}

func TestTryParseExact(t *testing.T) {
	p, ok := TryParseExact("8449876543")
	require.True(t, ok)
	assert.Equal(t, values.Tollfree, p.Type)

	for _, input := range []string{"844987654", "84498765431", "844-987654", "1449876543", "8441876543"} {
		_, ok := TryParseExact(input)
		assert.False(t, ok, input)
	}
}

func TestFailedParsesAreInvalid(t *testing.T) {
	tests := []struct {
		name  string
		parse func(string) (values.PhoneNumber, bool)
		input string
	}{
		{"try parse blank", TryParse, "   "},
		{"try parse too short", TryParse, "206"},
		{"try parse npa not in service", TryParse, "555-867-5309"},
		{"try parse exact wrong length", TryParseExact, "844987654"},
		{"try parse exact bad nxx", TryParseExact, "8441876543"},
		{"short code too long", TryParseShortCode, "12345678"},
		{"short code leading zeros only", TryParseShortCode, "00000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := tt.parse(tt.input)
			require.False(t, ok)
			assert.Equal(t, values.Invalid, p.Type)
			assert.False(t, p.IsValid())
		})
	}

	p, err := Parse("Choose...")
	require.Error(t, err)
	assert.Equal(t, values.Invalid, p.Type)
}

func TestParse(t *testing.T) {
	p, err := Parse("202-418-1500")
	require.NoError(t, err)
	assert.Equal(t, "tel:+1-202-418-1500", p.URI())

	_, err = Parse("Choose...")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidPhoneNumber)
	assert.Equal(t, errors.CodeInvalidPhoneNumber, errors.GetCode(err))
}

func TestParse_AgreesWithExtract(t *testing.T) {
	for _, input := range []string{"264 497-2651", "819-934-6352", "202-418-1500", "571-363-3838"} {
		parsed, ok := TryParse(input)
		require.True(t, ok)
		extracted := ExtractPhoneNumbers(input)
		require.Len(t, extracted, 1)
		assert.Equal(t, parsed, extracted[0])
	}
}
