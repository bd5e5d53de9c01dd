package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "thousands dot with decimal comma",
			input:    "1.234,56",
			expected: "1234.56",
		},
		{
			name:     "plain decimal comma",
			input:    "199,90",
			expected: "199.9",
		},
		{
			name:     "already canonical decimal point survives",
			input:    "1234.56",
			expected: "1234.56",
		},
		{
			name:     "grouped thousands without decimals",
			input:    "1.299 TL",
			expected: "1299",
		},
		{
			name:     "multiple thousands groups without comma",
			input:    "1.234.567",
			expected: "1234567",
		},
		{
			name:     "two decimal digits after dot are not a group",
			input:    "1299.99",
			expected: "1299.99",
		},
		{
			name:     "four digits after dot are not a group",
			input:    "1.2345",
			expected: "1.2345",
		},
		{
			name:     "currency symbol and label stripped",
			input:    "1.299,90 TL",
			expected: "1299.9",
		},
		{
			name:     "whitespace and symbol prefix",
			input:    "₺ 49,99",
			expected: "49.99",
		},
		{
			name:     "no digits",
			input:    "fiyat yok",
			expected: "0",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "0",
		},
		{
			name:     "zero is not a valid price",
			input:    "0,00",
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)),
				"Clean(%q) = %s, want %s", tt.input, got, tt.expected)
		})
	}
}

func TestParseState(t *testing.T) {
	assert.True(t, ParseState("1299.99").Equal(decimal.RequireFromString("1299.99")))
	assert.True(t, ParseState("42").Equal(decimal.NewFromInt(42)))
	assert.True(t, ParseState("not a number").IsZero())
	assert.True(t, ParseState("-5").IsZero())
	assert.True(t, ParseState("0").IsZero())
}

func TestMarkupApply(t *testing.T) {
	markup := Markup{Percent: decimal.NewFromInt(10)}

	tests := []struct {
		name     string
		base     string
		expected string
	}{
		{name: "default ten percent", base: "100.00", expected: "110.00"},
		{name: "rounded to two decimals", base: "1299.99", expected: "1429.99"},
		{name: "small price", base: "0.10", expected: "0.11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := decimal.RequireFromString(tt.base)
			got := markup.Apply(base)
			require.Equal(t, tt.expected, got.StringFixed(2))
		})
	}

	t.Run("non-positive base yields zero", func(t *testing.T) {
		assert.True(t, markup.Apply(decimal.Zero).IsZero())
		assert.True(t, markup.Apply(decimal.NewFromInt(-10)).IsZero())
	})

	t.Run("zero percent markup is identity", func(t *testing.T) {
		none := Markup{Percent: decimal.Zero}
		assert.Equal(t, "55.50", none.Apply(decimal.RequireFromString("55.5")).StringFixed(2))
	})
}
