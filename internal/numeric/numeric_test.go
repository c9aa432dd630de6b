package numeric

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{name: "decimal comma with dot thousands", input: "1.234,56", want: 1234.56},
		{name: "decimal dot with comma thousands", input: "1,234.56", want: 1234.56},
		{name: "single decimal comma", input: "12,34", want: 12.34},
		{name: "single digit after comma", input: "7,5", want: 7.5},
		{name: "comma thousands only", input: "1,234", want: 1234},
		{name: "repeated comma thousands", input: "1,234,567", want: 1234567},
		{name: "trailing comma", input: "12,", want: 12},
		{name: "empty", input: "", want: 0},
		{name: "whitespace", input: "   ", want: 0},
		{name: "garbage", input: "abc", want: 0},
		{name: "nil", input: nil, want: 0},
		{name: "currency prefix", input: "US$ 1.500,00", want: 1500},
		{name: "real symbol", input: "R$ 12,5", want: 12.5},
		{name: "negative", input: "-42.5", want: -42.5},
		{name: "explicit plus", input: "+3", want: 3},
		{name: "too many dots", input: "1.2.3", want: 0},
		{name: "dangling sign", input: "-", want: 0},
		{name: "float passthrough", input: 19.99, want: 19.99},
		{name: "int passthrough", input: 12, want: 12},
		{name: "int64 passthrough", input: int64(7), want: 7},
		{name: "NaN", input: math.NaN(), want: 0},
		{name: "infinity", input: math.Inf(1), want: 0},
		{name: "json number", input: json.Number("1,5"), want: 1.5},
		{name: "decimal value", input: decimal.RequireFromString("3.25"), want: 3.25},
		{name: "multiple dot thousands", input: "1.234.567,89", want: 1234567.89},
		{name: "ambiguous separators", input: "1.234,567.8", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Parse(tt.input), 1e-9)
		})
	}
}

func TestParseStrict(t *testing.T) {
	t.Run("garbage is an error", func(t *testing.T) {
		_, err := ParseStrict("n/a")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotNumeric)
	})

	t.Run("empty is zero without error", func(t *testing.T) {
		f, err := ParseStrict("")
		require.NoError(t, err)
		assert.Zero(t, f)
	})

	t.Run("numeric string", func(t *testing.T) {
		f, err := ParseStrict("21")
		require.NoError(t, err)
		assert.Equal(t, 21.0, f)
	})
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "1234.56", Normalize("1.234,56"))
	assert.Equal(t, "1234.56", Normalize("1,234.56"))
	assert.Equal(t, "12.34", Normalize("12,34"))
	assert.Equal(t, "1234", Normalize("1,234"))
	assert.Equal(t, "", Normalize("abc"))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1199.5, Round2(1199.5))
	assert.Equal(t, 2.35, Round2(2.345))
	assert.Equal(t, 0.0, Round2(math.NaN()))
	assert.Equal(t, 33.33, Round2(100.0/3))
}
