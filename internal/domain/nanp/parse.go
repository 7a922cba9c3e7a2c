package nanp

import (
	"strings"

	"github.com/davidleathers/phonenumbers-na/internal/domain/errors"
	"github.com/davidleathers/phonenumbers-na/internal/domain/values"
)

const (
	minShortCodeInput = 5
	maxShortCodeInput = 7
	maxShortCode      = 6
)

// invalidNumber is returned by every failed parse.
var invalidNumber = values.PhoneNumber{Type: values.Invalid}

// TryParse reads a single number from text. Inputs of five to seven characters
// are tried as short codes; longer inputs must reduce to exactly ten digits.
func TryParse(text string) (values.PhoneNumber, bool) {
	if strings.TrimSpace(text) == "" {
		return invalidNumber, false
	}
	if n := charCount(text); n < DialedLength {
		if n >= minShortCodeInput && n <= maxShortCodeInput {
			return TryParseShortCode(text)
		}
		return invalidNumber, false
	}
	dialed, ok := dialedFrom(text)
	if !ok {
		return invalidNumber, false
	}
	return TryParseExact(dialed)
}

// TryParseExact classifies a string that is already ten digits.
func TryParseExact(dialed string) (values.PhoneNumber, bool) {
	npa, nxx, xxxx, ok := split(dialed)
	if !ok {
		return invalidNumber, false
	}
	kind := Classify(npa, nxx, xxxx)
	if kind == values.Invalid {
		return invalidNumber, false
	}
	return values.PhoneNumber{
		DialedNumber: dialed,
		NPA:          npa,
		NXX:          nxx,
		XXXX:         xxxx,
		Type:         kind,
	}, true
}

// TryParseShortCode reads a five or six digit SMS short code from an input of
// five to seven characters. Leading 1s and 0s are dropped and letters map to
// keypad digits.
func TryParseShortCode(text string) (values.PhoneNumber, bool) {
	if n := charCount(text); n < minShortCodeInput || n > maxShortCodeInput {
		return invalidNumber, false
	}
	digits, ok := collect(text, shortCodeRules, maxShortCode)
	if !ok {
		return invalidNumber, false
	}
	p, err := values.NewShortCode(digits)
	if err != nil {
		return invalidNumber, false
	}
	return p, true
}

// Parse is TryParse for callers that want an error.
func Parse(text string) (values.PhoneNumber, error) {
	p, ok := TryParse(text)
	if !ok {
		return invalidNumber, errors.ErrInvalidPhoneNumber.WithDetails(map[string]interface{}{
			"input": text,
		})
	}
	return p, nil
}

// Validate is IsValidPhoneNumber.
func Validate(text string) bool {
	return IsValidPhoneNumber(text)
}
