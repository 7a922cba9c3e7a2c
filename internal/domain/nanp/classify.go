package nanp

import (
	"github.com/davidleathers/phonenumbers-na/internal/domain/areacode"
	"github.com/davidleathers/phonenumbers-na/internal/domain/values"
)

// Classify assigns the category of a number. It returns Invalid when any field
// fails its check. Toll-free wins over non-geographic, then Canada, then
// country or territory; everything else in service is Local.
func Classify(npa, nxx, xxxx int) values.NumberType {
	if !ValidPhoneNumber(npa, nxx, xxxx) {
		return values.Invalid
	}
	return values.TypeForNPA(npa)
}

// ValidPhoneNumber checks the three fields against the reference tables.
func ValidPhoneNumber(npa, nxx, xxxx int) bool {
	return areacode.ValidNPA(npa) && areacode.ValidNXX(nxx) && areacode.ValidXXXX(xxxx)
}

// ValidDialedNumber checks a string of exactly ten ASCII digits.
func ValidDialedNumber(dialed string) bool {
	npa, nxx, xxxx, ok := split(dialed)
	return ok && ValidPhoneNumber(npa, nxx, xxxx)
}

func split(dialed string) (npa, nxx, xxxx int, ok bool) {
	if len(dialed) != DialedLength {
		return 0, 0, 0, false
	}
	if npa, ok = areacode.ParseDigits(dialed[:3], 3); !ok {
		return 0, 0, 0, false
	}
	if nxx, ok = areacode.ParseDigits(dialed[3:6], 3); !ok {
		return 0, 0, 0, false
	}
	if xxxx, ok = areacode.ParseDigits(dialed[6:], 4); !ok {
		return 0, 0, 0, false
	}
	return npa, nxx, xxxx, true
}
