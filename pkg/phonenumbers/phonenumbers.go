// Package phonenumbers is the importable surface of the NANP engine: extraction
// of numbers from free text, validation and classification against the static
// area code tables.
package phonenumbers

import (
	"iter"

	"github.com/davidleathers/phonenumbers-na/internal/domain/areacode"
	"github.com/davidleathers/phonenumbers-na/internal/domain/nanp"
	"github.com/davidleathers/phonenumbers-na/internal/domain/values"
)

type (
	PhoneNumber    = values.PhoneNumber
	NumberType     = values.NumberType
	IngestedNumber = values.IngestedNumber
	State          = areacode.State
	Set            = areacode.Set
)

const (
	Local              = values.Local
	Tollfree           = values.Tollfree
	NonGeographic      = values.NonGeographic
	CountryOrTerritory = values.CountryOrTerritory
	Canada             = values.Canada
	ShortCode          = values.ShortCode
	Invalid            = values.Invalid
)

// Extraction.

func DialedNumbers(text string) iter.Seq[string]        { return nanp.DialedNumbers(text) }
func PhoneNumbers(text string) iter.Seq[PhoneNumber]    { return nanp.PhoneNumbers(text) }
func ExtractDialedNumbers(text string) []string         { return nanp.ExtractDialedNumbers(text) }
func ExtractPhoneNumbers(text string) []PhoneNumber     { return nanp.ExtractPhoneNumbers(text) }
func IsValidPhoneNumber(text string) bool               { return nanp.IsValidPhoneNumber(text) }
func TryParse(text string) (PhoneNumber, bool)          { return nanp.TryParse(text) }
func TryParseShortCode(text string) (PhoneNumber, bool) { return nanp.TryParseShortCode(text) }
func Parse(text string) (PhoneNumber, error)            { return nanp.Parse(text) }
func LetterToDigit(c rune) byte                         { return nanp.LetterToDigit(c) }

// Classify returns Invalid unless all three fields pass their checks.
func Classify(npa, nxx, xxxx int) NumberType { return nanp.Classify(npa, nxx, xxxx) }

// Field checks.

func ValidNPA(npa int) bool                { return areacode.ValidNPA(npa) }
func ValidNXX(nxx int) bool                { return areacode.ValidNXX(nxx) }
func ValidXXXX(xxxx int) bool              { return areacode.ValidXXXX(xxxx) }
func ValidTollfree(npa int) bool           { return areacode.ValidTollfree(npa) }
func ValidNonGeographic(npa int) bool      { return areacode.ValidNonGeographic(npa) }
func ValidCanadian(npa int) bool           { return areacode.ValidCanadian(npa) }
func ValidCountryOrTerritory(npa int) bool { return areacode.ValidCountryOrTerritory(npa) }

// String predicates accept a bare three digit NPA or, for the category
// checks, a ten digit number.

func IsValidNPA(s string) bool           { return areacode.IsValidNPA(s) }
func IsValidNXX(s string) bool           { return areacode.IsValidNXX(s) }
func IsValidXXXX(s string) bool          { return areacode.IsValidXXXX(s) }
func IsTollfree(s string) bool           { return areacode.IsTollfree(s) }
func IsNonGeographic(s string) bool      { return areacode.IsNonGeographic(s) }
func IsCanadian(s string) bool           { return areacode.IsCanadian(s) }
func IsCountryOrTerritory(s string) bool { return areacode.IsCountryOrTerritory(s) }

// Reference data.

func States() []State                               { return areacode.States() }
func StateForNPA(npa int) (State, bool)             { return areacode.StateForNPA(npa) }
func StateByAbbreviation(abbr string) (State, bool) { return areacode.StateByAbbreviation(abbr) }
