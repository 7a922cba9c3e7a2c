package areacode

import (
	"fmt"
	"slices"
	"strings"
)

// lookupSize covers every three digit value.
const lookupSize = 1000

// FlatLookup is a membership table indexed by the numeric value of an NPA.
type FlatLookup [lookupSize]bool

func newFlatLookup(codes []int) FlatLookup {
	var l FlatLookup
	for _, code := range codes {
		l[code] = true
	}
	return l
}

// Contains reports whether n is marked. Values outside [0,999] are never members.
func (l *FlatLookup) Contains(n int) bool {
	return n >= 0 && n < lookupSize && l[n]
}

// Set names one of the reference tables.
type Set int

const (
	SetAll Set = iota
	SetTollFree
	SetNonGeographic
	SetCanadian
	SetCountryOrTerritory
)

var setNames = [...]string{
	SetAll:                "all",
	SetTollFree:           "tollfree",
	SetNonGeographic:      "nongeographic",
	SetCanadian:           "canadian",
	SetCountryOrTerritory: "country_or_territory",
}

var setCodes = [...][]int{
	SetAll:                allCodes[:],
	SetTollFree:           tollFreeCodes[:],
	SetNonGeographic:      nonGeographicCodes[:],
	SetCanadian:           canadianCodes[:],
	SetCountryOrTerritory: countryOrTerritoryCodes[:],
}

// lookups is built once at package initialization and never written again.
var lookups = [...]FlatLookup{
	SetAll:                newFlatLookup(allCodes[:]),
	SetTollFree:           newFlatLookup(tollFreeCodes[:]),
	SetNonGeographic:      newFlatLookup(nonGeographicCodes[:]),
	SetCanadian:           newFlatLookup(canadianCodes[:]),
	SetCountryOrTerritory: newFlatLookup(countryOrTerritoryCodes[:]),
}

// Sets returns every reference set in declaration order.
func Sets() []Set {
	return []Set{SetAll, SetTollFree, SetNonGeographic, SetCanadian, SetCountryOrTerritory}
}

// ParseSet resolves a set by name. Hyphens, spaces and case are ignored.
func ParseSet(name string) (Set, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	switch normalized {
	case "toll_free", "tf":
		return SetTollFree, nil
	case "non_geographic", "nongeo":
		return SetNonGeographic, nil
	case "canada", "ca":
		return SetCanadian, nil
	case "countryorterritory", "territory":
		return SetCountryOrTerritory, nil
	}
	for s, n := range setNames {
		if n == normalized {
			return Set(s), nil
		}
	}
	return 0, fmt.Errorf("unknown area code set %q", name)
}

func (s Set) valid() bool {
	return s >= SetAll && s <= SetCountryOrTerritory
}

func (s Set) String() string {
	if !s.valid() {
		return fmt.Sprintf("Set(%d)", int(s))
	}
	return setNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Set) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("invalid area code set %d", int(s))
	}
	return []byte(setNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Set) UnmarshalText(text []byte) error {
	parsed, err := ParseSet(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Contains reports whether npa belongs to the set.
func (s Set) Contains(npa int) bool {
	if !s.valid() {
		return false
	}
	return lookups[s].Contains(npa)
}

// Codes returns the members of the set in ascending order. The slice is a copy.
func (s Set) Codes() []int {
	if !s.valid() {
		return nil
	}
	return slices.Clone(setCodes[s])
}

// Len returns the number of codes in the set.
func (s Set) Len() int {
	if !s.valid() {
		return 0
	}
	return len(setCodes[s])
}

// Lookup returns a copy of the set's flat lookup table.
func (s Set) Lookup() FlatLookup {
	if !s.valid() {
		return FlatLookup{}
	}
	return lookups[s]
}

// All returns every in-service NPA.
func All() []int { return SetAll.Codes() }

// TollFree returns the toll-free NPAs.
func TollFree() []int { return SetTollFree.Codes() }

// NonGeographic returns the non-geographic NPAs, toll-free included.
func NonGeographic() []int { return SetNonGeographic.Codes() }

// Canadian returns the NPAs serving Canada.
func Canadian() []int { return SetCanadian.Codes() }

// CountryOrTerritory returns the NPAs serving countries and territories other than the US and Canada.
func CountryOrTerritory() []int { return SetCountryOrTerritory.Codes() }
