package currency_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-api/internal/currency"
)

func TestCodes(t *testing.T) {
	codes := currency.Codes()

	require.NotEmpty(t, codes)
	assert.Contains(t, codes, "USD")
	assert.Contains(t, codes, "EUR")
	for _, c := range codes {
		assert.Len(t, c, 3)
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := currency.All()
	require.NotEmpty(t, all)
	all[0].Code = "XXX"

	assert.NotEqual(t, "XXX", currency.All()[0].Code)
}

func TestLookup(t *testing.T) {
	usd, ok := currency.Lookup("usd")
	require.True(t, ok)
	assert.Equal(t, "USD", usd.Code)
	assert.Equal(t, int32(2), usd.MinorUnits)

	jpy, ok := currency.Lookup(" JPY ")
	require.True(t, ok)
	assert.Equal(t, int32(0), jpy.MinorUnits)

	_, ok = currency.Lookup("ZZZ")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	currencies, err := currency.Load([]byte("- code: sek\n  name: Swedish Krona\n  minor_units: 2\n"))
	require.NoError(t, err)
	require.Len(t, currencies, 1)
	assert.Equal(t, "SEK", currencies[0].Code)

	_, err = currency.Load([]byte("- code: SEKK\n"))
	require.Error(t, err)

	_, err = currency.Load([]byte("- code: SEK\n- code: sek\n"))
	require.Error(t, err)

	_, err = currency.Load([]byte("not: [a list"))
	require.Error(t, err)
}
