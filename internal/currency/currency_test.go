package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		code   string
		want   int64
	}{
		{"two decimal currency", "12.34", "USD", 1234},
		{"whole amount", "100", "EUR", 10000},
		{"zero decimal currency", "500", "JPY", 500},
		{"three decimal currency", "1.234", "KWD", 1234},
		{"trailing zeros", "10.50", "USD", 1050},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMinorUnits(decimal.RequireFromString(tt.amount), tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToMinorUnits_TooPrecise(t *testing.T) {
	tests := []struct {
		amount string
		code   string
	}{
		{"10.001", "USD"},
		{"500.5", "JPY"},
		{"1.2345", "KWD"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+" "+tt.code, func(t *testing.T) {
			_, err := ToMinorUnits(decimal.RequireFromString(tt.amount), tt.code)
			assert.ErrorIs(t, err, ErrTooPrecise)
		})
	}
}

func TestUnsupportedCurrency(t *testing.T) {
	_, err := ToMinorUnits(decimal.NewFromInt(10), "XTS")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)

	_, err = Exponent("DOGE")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)

	assert.False(t, IsSupported("XTS"))
	assert.True(t, IsSupported("USD"))
}

func TestFromMinorUnits(t *testing.T) {
	got, err := FromMinorUnits(1234, "USD")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("12.34")))

	got, err = FromMinorUnits(500, "JPY")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(500)))
}

func TestRoundTrip(t *testing.T) {
	for _, amount := range []string{"0.01", "19.99", "1000000.00"} {
		d := decimal.RequireFromString(amount)
		minor, err := ToMinorUnits(d, "USD")
		require.NoError(t, err)
		back, err := FromMinorUnits(minor, "USD")
		require.NoError(t, err)
		assert.True(t, back.Equal(d), "round trip of %s", amount)
	}
}
