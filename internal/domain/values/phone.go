package values

import (
	"fmt"
	"net/url"

	"github.com/goccy/go-json"

	"github.com/davidleathers/phonenumbers-na/internal/domain/areacode"
)

// PhoneNumber is a classified NANP number. For short codes only DialedNumber
// and Type carry meaning; the fields stay zero.
type PhoneNumber struct {
	DialedNumber string     `json:"DialedNumber"`
	NPA          int        `json:"NPA"`
	NXX          int        `json:"NXX"`
	XXXX         int        `json:"XXXX"`
	Type         NumberType `json:"Type"`
}

// npaCategories run in priority order; the first match wins. Toll-free codes
// are also non-geographic, so order matters.
var npaCategories = [...]struct {
	match func(int) bool
	kind  NumberType
}{
	{areacode.ValidTollfree, Tollfree},
	{areacode.ValidNonGeographic, NonGeographic},
	{areacode.ValidCanadian, Canada},
	{areacode.ValidCountryOrTerritory, CountryOrTerritory},
}

// TypeForNPA returns the category an in-service area code puts a ten digit
// number in. Area codes in none of the special sets are Local.
func TypeForNPA(npa int) NumberType {
	for _, c := range npaCategories {
		if c.match(npa) {
			return c.kind
		}
	}
	return Local
}

// NewPhoneNumber builds a ten digit number from its fields. The fields are
// checked against the reference tables and numberType must be the category
// the area code implies.
func NewPhoneNumber(npa, nxx, xxxx int, numberType NumberType) (PhoneNumber, error) {
	p := PhoneNumber{
		NPA:  npa,
		NXX:  nxx,
		XXXX: xxxx,
		Type: numberType,
	}
	p.DialedNumber = p.fields()

	switch {
	case numberType == ShortCode || numberType == Invalid:
		return PhoneNumber{Type: Invalid}, PhoneValidationError{Number: p.DialedNumber, Reason: "type " + numberType.String() + " has no NPA-NXX-XXXX form"}
	case !areacode.ValidNPA(npa):
		return PhoneNumber{Type: Invalid}, PhoneValidationError{Number: p.DialedNumber, Reason: "area code not in service"}
	case !areacode.ValidNXX(nxx):
		return PhoneNumber{Type: Invalid}, PhoneValidationError{Number: p.DialedNumber, Reason: "exchange out of range"}
	case !areacode.ValidXXXX(xxxx):
		return PhoneNumber{Type: Invalid}, PhoneValidationError{Number: p.DialedNumber, Reason: "subscriber number out of range"}
	case TypeForNPA(npa) != numberType:
		return PhoneNumber{Type: Invalid}, PhoneValidationError{
			Number: p.DialedNumber,
			Reason: "area code " + p.NPAString() + " is " + TypeForNPA(npa).String() + ", not " + numberType.String(),
		}
	}
	return p, nil
}

// NewShortCode wraps an already reduced five or six digit short code.
func NewShortCode(dialed string) (PhoneNumber, error) {
	if !isShortCodeDigits(dialed) {
		return PhoneNumber{Type: Invalid}, PhoneValidationError{Number: dialed, Reason: "short codes are 5 or 6 digits and cannot start with 0 or 1"}
	}
	return PhoneNumber{DialedNumber: dialed, Type: ShortCode}, nil
}

// MustNewPhoneNumber creates PhoneNumber and panics on error (for constants/tests)
func MustNewPhoneNumber(npa, nxx, xxxx int, numberType NumberType) PhoneNumber {
	p, err := NewPhoneNumber(npa, nxx, xxxx, numberType)
	if err != nil {
		panic(err)
	}
	return p
}

func (p PhoneNumber) fields() string {
	return fmt.Sprintf("%03d%03d%04d", p.NPA, p.NXX, p.XXXX)
}

// NPAString returns the area code zero padded to three digits.
func (p PhoneNumber) NPAString() string { return fmt.Sprintf("%03d", p.NPA) }

// NXXString returns the exchange zero padded to three digits.
func (p PhoneNumber) NXXString() string { return fmt.Sprintf("%03d", p.NXX) }

// XXXXString returns the subscriber number zero padded to four digits.
func (p PhoneNumber) XXXXString() string { return fmt.Sprintf("%04d", p.XXXX) }

// IsShortCode reports whether p is a well formed short code.
func (p PhoneNumber) IsShortCode() bool {
	return p.Type == ShortCode && isShortCodeDigits(p.DialedNumber)
}

// IsValid reports whether p is a ten digit number whose fields pass the
// reference checks and agree with DialedNumber. Short codes are not valid
// ten digit numbers; use IsShortCode.
func (p PhoneNumber) IsValid() bool {
	if p.Type == ShortCode || p.Type == Invalid || !p.Type.valid() {
		return false
	}
	if !areacode.ValidNPA(p.NPA) || !areacode.ValidNXX(p.NXX) || !areacode.ValidXXXX(p.XXXX) {
		return false
	}
	return p.DialedNumber == p.fields()
}

// URI renders the number as tel:+1-NPA-NXX-XXXX, or "" when p is not valid.
func (p PhoneNumber) URI() string {
	if !p.IsValid() {
		return ""
	}
	return "tel:" + p.e164Dashed()
}

// TelURL is URI as a *url.URL, nil when p is not valid.
func (p PhoneNumber) TelURL() *url.URL {
	if !p.IsValid() {
		return nil
	}
	return &url.URL{Scheme: "tel", Opaque: p.e164Dashed()}
}

// FormatUS returns (NPA) NXX-XXXX, or the dialed digits for short codes.
func (p PhoneNumber) FormatUS() string {
	if !p.IsValid() {
		return p.DialedNumber
	}
	return fmt.Sprintf("(%s) %s-%s", p.NPAString(), p.NXXString(), p.XXXXString())
}

func (p PhoneNumber) e164Dashed() string {
	return "+1-" + p.NPAString() + "-" + p.NXXString() + "-" + p.XXXXString()
}

// Equal checks if two PhoneNumber values are equal
func (p PhoneNumber) Equal(other PhoneNumber) bool {
	return p == other
}

// String renders the flat JSON object.
func (p PhoneNumber) String() string {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Sprintf("{%q:%q}", "DialedNumber", p.DialedNumber)
	}
	return string(data)
}

func isShortCodeDigits(s string) bool {
	if len(s) != 5 && len(s) != 6 {
		return false
	}
	if s[0] == '0' || s[0] == '1' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// PhoneValidationError represents validation errors for phone numbers
type PhoneValidationError struct {
	Number string
	Reason string
}

func (e PhoneValidationError) Error() string {
	return fmt.Sprintf("invalid phone number '%s': %s", e.Number, e.Reason)
}
