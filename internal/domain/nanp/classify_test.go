package nanp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davidleathers/phonenumbers-na/internal/domain/areacode"
	"github.com/davidleathers/phonenumbers-na/internal/domain/values"
)

func TestClassify_TollFreeWinsOverNonGeographic(t *testing.T) {
	for _, npa := range areacode.TollFree() {
		assert.True(t, areacode.ValidNonGeographic(npa))
		assert.Equal(t, values.Tollfree, Classify(npa, 555, 1234), "npa %d", npa)
	}
}

func TestClassify_EveryNPA(t *testing.T) {
	for _, npa := range areacode.All() {
		got := Classify(npa, 234, 5678)
		switch {
		case areacode.ValidTollfree(npa):
			assert.Equal(t, values.Tollfree, got)
		case areacode.ValidNonGeographic(npa):
			assert.Equal(t, values.NonGeographic, got)
		case areacode.ValidCanadian(npa):
			assert.Equal(t, values.Canada, got)
		case areacode.ValidCountryOrTerritory(npa):
			assert.Equal(t, values.CountryOrTerritory, got)
		default:
			assert.Equal(t, values.Local, got, "npa %d", npa)
		}
	}
}

func TestClassify_InvalidFields(t *testing.T) {
	tests := []struct {
		name           string
		npa, nxx, xxxx int
	}{
		{"npa not in service", 555, 234, 5678},
		{"npa below range", 199, 234, 5678},
		{"nxx below range", 206, 199, 5678},
		{"nxx above range", 206, 1000, 5678},
		{"xxxx negative", 206, 858, -1},
		{"xxxx above range", 206, 858, 10000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, values.Invalid, Classify(tt.npa, tt.nxx, tt.xxxx))
			assert.False(t, ValidPhoneNumber(tt.npa, tt.nxx, tt.xxxx))
		})
	}
}

func TestValidDialedNumber(t *testing.T) {
	assert.True(t, ValidDialedNumber("2068589310"))
	assert.True(t, ValidDialedNumber("2062000000"))
	assert.False(t, ValidDialedNumber("206858931"))
	assert.False(t, ValidDialedNumber("206*589310"))
	assert.False(t, ValidDialedNumber("２０６8589310"))
}
