package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAmount(t *testing.T) {
	ok := []string{"0", "0.5", "29.99", "29.990", "1000000.00", "7"}
	for _, s := range ok {
		assert.NoError(t, ValidateAmount(decimal.RequireFromString(s)), s)
	}

	assert.ErrorIs(t, ValidateAmount(decimal.RequireFromString("-0.01")), ErrNegative)
	assert.ErrorIs(t, ValidateAmount(decimal.RequireFromString("29.999")), ErrTooPrecise)
	assert.ErrorIs(t, ValidateAmount(decimal.RequireFromString("0.001")), ErrTooPrecise)
}

func TestParse(t *testing.T) {
	d, err := Parse("29.99")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("29.99")))

	_, err = Parse("abc")
	assert.ErrorIs(t, err, ErrNotANumber)

	_, err = Parse("-5")
	assert.ErrorIs(t, err, ErrNegative)

	_, err = Parse("1.234")
	assert.ErrorIs(t, err, ErrTooPrecise)
}
