package values

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// NumberType is the single category assigned to a parsed number.
type NumberType int

// The numeric order is part of the stored and serialized contract.
const (
	Local NumberType = iota
	Tollfree
	NonGeographic
	CountryOrTerritory
	Canada
	ShortCode
	Invalid
)

var numberTypeNames = [...]string{
	Local:              "Local",
	Tollfree:           "Tollfree",
	NonGeographic:      "NonGeographic",
	CountryOrTerritory: "CountryOrTerritory",
	Canada:             "Canada",
	ShortCode:          "ShortCode",
	Invalid:            "Invalid",
}

// NumberTypes returns every category in numeric order.
func NumberTypes() []NumberType {
	return []NumberType{Local, Tollfree, NonGeographic, CountryOrTerritory, Canada, ShortCode, Invalid}
}

// ParseNumberType accepts a category name in any case or its numeric value.
func ParseNumberType(s string) (NumberType, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		t := NumberType(n)
		if !t.valid() {
			return Invalid, fmt.Errorf("number type %d out of range", n)
		}
		return t, nil
	}
	for i, name := range numberTypeNames {
		if strings.EqualFold(name, s) {
			return NumberType(i), nil
		}
	}
	return Invalid, fmt.Errorf("unknown number type %q", s)
}

func (t NumberType) valid() bool {
	return t >= Local && t <= Invalid
}

func (t NumberType) String() string {
	if !t.valid() {
		return fmt.Sprintf("NumberType(%d)", int(t))
	}
	return numberTypeNames[t]
}

// IsGeographic reports whether numbers of this type are tied to a location.
func (t NumberType) IsGeographic() bool {
	return t == Local || t == Canada || t == CountryOrTerritory
}

// MarshalText implements encoding.TextMarshaler
func (t NumberType) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("cannot marshal %s", t)
	}
	return []byte(numberTypeNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *NumberType) UnmarshalText(text []byte) error {
	parsed, err := ParseNumberType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalJSON accepts both the name and the integer form
func (t *NumberType) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" {
		return nil
	}
	return t.UnmarshalText([]byte(raw))
}

// Value implements driver.Valuer for database storage
func (t NumberType) Value() (driver.Value, error) {
	if !t.valid() {
		return nil, fmt.Errorf("cannot store %s", t)
	}
	return numberTypeNames[t], nil
}

// Scan implements sql.Scanner for database retrieval
func (t *NumberType) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = Invalid
		return nil
	case string:
		return t.UnmarshalText([]byte(v))
	case []byte:
		return t.UnmarshalText(v)
	case int64:
		return t.UnmarshalText([]byte(strconv.FormatInt(v, 10)))
	default:
		return fmt.Errorf("cannot scan %T into NumberType", value)
	}
}
