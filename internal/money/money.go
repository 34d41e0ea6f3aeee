// Package money holds the fixed-point price rules shared by catalog and
// orders: non-negative, at most 2 fractional digits, exact comparison.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNegative   = errors.New("amount must not be negative")
	ErrTooPrecise = errors.New("amount must have at most 2 decimal places")
	ErrNotANumber = errors.New("amount is not a valid decimal")
)

// ValidateAmount checks the marketplace money contract. Trailing zeros are
// fine (29.990 == 29.99); a third significant fractional digit is not.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return ErrNegative
	}
	if !d.Equal(d.Round(2)) {
		return ErrTooPrecise
	}
	return nil
}

// Parse reads a decimal string and validates it as a money amount.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNotANumber
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
