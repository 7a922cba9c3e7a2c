package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberType_Order(t *testing.T) {
	assert.Equal(t, 0, int(Local))
	assert.Equal(t, 1, int(Tollfree))
	assert.Equal(t, 2, int(NonGeographic))
	assert.Equal(t, 3, int(CountryOrTerritory))
	assert.Equal(t, 4, int(Canada))
	assert.Equal(t, 5, int(ShortCode))
	assert.Equal(t, 6, int(Invalid))
}

func TestParseNumberType(t *testing.T) {
	tests := []struct {
		input   string
		want    NumberType
		wantErr bool
	}{
		{input: "Local", want: Local},
		{input: "tollfree", want: Tollfree},
		{input: " CANADA ", want: Canada},
		{input: "5", want: ShortCode},
		{input: "7", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "mobile", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNumberType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumberType_TextRoundTrip(t *testing.T) {
	for _, nt := range NumberTypes() {
		text, err := nt.MarshalText()
		require.NoError(t, err)
		var got NumberType
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, nt, got)
	}

	_, err := NumberType(42).MarshalText()
	assert.Error(t, err)
}

func TestNumberType_Database(t *testing.T) {
	v, err := Canada.Value()
	require.NoError(t, err)
	assert.Equal(t, "Canada", v)

	var nt NumberType
	require.NoError(t, nt.Scan("NonGeographic"))
	assert.Equal(t, NonGeographic, nt)
	require.NoError(t, nt.Scan([]byte("Tollfree")))
	assert.Equal(t, Tollfree, nt)
	require.NoError(t, nt.Scan(int64(4)))
	assert.Equal(t, Canada, nt)
	require.NoError(t, nt.Scan(nil))
	assert.Equal(t, Invalid, nt)
	assert.Error(t, nt.Scan(3.5))
}

func TestNumberType_IsGeographic(t *testing.T) {
	assert.True(t, Local.IsGeographic())
	assert.True(t, Canada.IsGeographic())
	assert.True(t, CountryOrTerritory.IsGeographic())
	assert.False(t, Tollfree.IsGeographic())
	assert.False(t, NonGeographic.IsGeographic())
	assert.False(t, ShortCode.IsGeographic())
}
