package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-api/internal/decimal"
)

func TestFromString(t *testing.T) {
	d, err := decimal.FromString("123456.78")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.RequireFromString("123456.78")))

	_, err = decimal.FromString("not-a-number")
	require.Error(t, err)
}

func TestMustFromString(t *testing.T) {
	d := decimal.MustFromString("999.99")
	assert.True(t, d.Equal(dec.RequireFromString("999.99")))

	assert.Panics(t, func() {
		decimal.MustFromString("invalid")
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		minorUnits int32
		expected   string
		wantErr    bool
	}{
		{name: "plain", input: "1234.5", minorUnits: 2, expected: "1234.5"},
		{name: "thousands separator", input: "1,234.50", minorUnits: 2, expected: "1234.5"},
		{name: "rounds to cents", input: "10.005", minorUnits: 2, expected: "10.01"},
		{name: "zero decimal currency", input: "1500000.4", minorUnits: 0, expected: "1500000"},
		{name: "whitespace", input: "  42 ", minorUnits: 2, expected: "42"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "twelve", wantErr: true},
		{name: "negative", input: "-5", minorUnits: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.ParseAmount(tt.input, tt.minorUnits)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, d.Equal(dec.RequireFromString(tt.expected)),
				"Expected %s, got %s", tt.expected, d.String())
		})
	}
}

func TestRound(t *testing.T) {
	d := dec.RequireFromString("3.14159")
	assert.True(t, decimal.Round(d, 2).Equal(dec.RequireFromString("3.14")))
	assert.True(t, decimal.Round(d, -1).Equal(dec.NewFromInt(3)))
}

func TestIsPositive(t *testing.T) {
	assert.True(t, decimal.IsPositive(dec.NewFromInt(1)))
	assert.False(t, decimal.IsPositive(dec.Zero))
	assert.False(t, decimal.IsPositive(dec.NewFromInt(-1)))
}
