// Package areacode holds the static NANP reference tables and the O(1)
// predicates built over them. All state is initialized with the package and is
// safe for concurrent use.
package areacode

const (
	minNXX  = 200
	maxNXX  = 999
	minXXXX = 0
	maxXXXX = 9999
)

// ValidNPA reports whether npa is an in-service area code.
func ValidNPA(npa int) bool { return SetAll.Contains(npa) }

// ValidTollfree reports whether npa is an in-service toll-free code.
func ValidTollfree(npa int) bool { return SetTollFree.Contains(npa) }

// ValidNonGeographic reports whether npa is an in-service non-geographic code.
func ValidNonGeographic(npa int) bool { return SetNonGeographic.Contains(npa) }

// ValidCanadian reports whether npa serves Canada.
func ValidCanadian(npa int) bool { return SetCanadian.Contains(npa) }

// ValidCountryOrTerritory reports whether npa serves a country or territory outside the US and Canada.
func ValidCountryOrTerritory(npa int) bool { return SetCountryOrTerritory.Contains(npa) }

// ValidNXX checks the exchange envelope only. Real exchange assignments are not tracked.
func ValidNXX(nxx int) bool { return nxx >= minNXX && nxx <= maxNXX }

// ValidXXXX checks the subscriber envelope.
func ValidXXXX(xxxx int) bool { return xxxx >= minXXXX && xxxx <= maxXXXX }

func ValidNPAString(npa string) bool {
	n, ok := ParseDigits(npa, 3)
	return ok && ValidNPA(n)
}

func ValidTollfreeString(npa string) bool {
	n, ok := ParseDigits(npa, 3)
	return ok && ValidTollfree(n)
}

func ValidNonGeographicString(npa string) bool {
	n, ok := ParseDigits(npa, 3)
	return ok && ValidNonGeographic(n)
}

func ValidCanadianString(npa string) bool {
	n, ok := ParseDigits(npa, 3)
	return ok && ValidCanadian(n)
}

func ValidCountryOrTerritoryString(npa string) bool {
	n, ok := ParseDigits(npa, 3)
	return ok && ValidCountryOrTerritory(n)
}

func ValidNXXString(nxx string) bool {
	n, ok := ParseDigits(nxx, 3)
	return ok && ValidNXX(n)
}

func ValidXXXXString(xxxx string) bool {
	n, ok := ParseDigits(xxxx, 4)
	return ok && ValidXXXX(n)
}

// ParseDigits converts s when it is exactly width ASCII digits.
func ParseDigits(s string, width int) (int, bool) {
	if width <= 0 || len(s) != width {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// IsValidNPA reports whether s is a three digit in-service area code.
func IsValidNPA(s string) bool { return ValidNPAString(s) }

// IsValidNXX reports whether s is a three digit exchange within the envelope.
func IsValidNXX(s string) bool { return ValidNXXString(s) }

// IsValidXXXX reports whether s is a four digit subscriber number.
func IsValidXXXX(s string) bool { return ValidXXXXString(s) }

// IsTollfree checks a bare NPA or the leading NPA of a ten digit number.
func IsTollfree(s string) bool { return ValidTollfreeString(npaOf(s)) }

// IsNonGeographic checks a bare NPA or the leading NPA of a ten digit number.
func IsNonGeographic(s string) bool { return ValidNonGeographicString(npaOf(s)) }

// IsCanadian checks a bare NPA or the leading NPA of a ten digit number.
func IsCanadian(s string) bool { return ValidCanadianString(npaOf(s)) }

// IsCountryOrTerritory checks a bare NPA or the leading NPA of a ten digit number.
func IsCountryOrTerritory(s string) bool { return ValidCountryOrTerritoryString(npaOf(s)) }

func npaOf(s string) string {
	if len(s) == 10 {
		return s[:3]
	}
	return s
}
