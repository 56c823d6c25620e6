package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"plain decimal", "119.22", 119.22, true},
		{"us thousands", "1,234.56", 1234.56, true},
		{"european decimal", "12,5", 12.5, true},
		{"comma with three digits is decimal", "1,234", 1.234, true},
		{"comma with four digits groups", "1,2345", 12345, true},
		{"several commas group", "1,234,567", 1234567, true},
		{"currency symbol", "$ 42", 42, true},
		{"euro suffix", "19,99€", 19.99, true},
		{"trailing text", "12abc", 12, true},
		{"leading dot", ".5", 0.5, true},
		{"empty", "", 0, false},
		{"letters", "abc", 0, false},
		{"only symbol", "£", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParseNumberRoundTripsUSFormat(t *testing.T) {
	for _, v := range []float64{0, 0.5, 7, 119.22, 1000, 1234.5, 99999.99, 1234567.89, -42.1} {
		got, ok := ParseNumber(FormatNumber(v))
		require.True(t, ok, FormatNumber(v))
		assert.InDelta(t, v, got, 1e-9, FormatNumber(v))
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234,567.89", FormatNumber(1234567.89))
	assert.Equal(t, "999.00", FormatNumber(999))
	assert.Equal(t, "-1,000.50", FormatNumber(-1000.5))
}

func TestParseDimensionValue(t *testing.T) {
	v, ok := ParseDimensionValue("1/4")
	require.True(t, ok)
	assert.Equal(t, 0.25, v)

	_, ok = ParseDimensionValue("3/0")
	assert.False(t, ok)

	v, ok = ParseDimensionValue(" 12,5 ")
	require.True(t, ok)
	assert.Equal(t, 12.5, v)

	_, ok = ParseDimensionValue("x/2")
	assert.False(t, ok)
}

func TestNormalizeUnit(t *testing.T) {
	tests := map[string]string{
		"Inches":      "in",
		"inch":        "in",
		`"`:           "in",
		"FEET":        "ft",
		"'":           "ft",
		" mm ":        "mm",
		"Centimeters": "cm",
		"xyz":         "xyz",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeUnit(in), "token %q", in)
	}
}

func TestToMillimeters(t *testing.T) {
	v, ok := ToMillimeters(12, UnitIn)
	require.True(t, ok)
	assert.InDelta(t, 304.8, v, 1e-9)

	v, ok = ToMillimeters(2, UnitFt)
	require.True(t, ok)
	assert.InDelta(t, 609.6, v, 1e-9)

	v, ok = ToMillimeters(3, UnitCM)
	require.True(t, ok)
	assert.InDelta(t, 30, v, 1e-9)

	_, ok = ToMillimeters(3, "furlong")
	assert.False(t, ok)
}
