// Package currency converts between decimal amounts and integer minor units.
//
// All money inside the application is carried as int64 minor units (cents,
// fils, paise...). Decimals exist only at the API boundary, so rounding can
// never leak into the ledger.
package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrUnsupportedCurrency = errors.New("unsupported currency code")
	ErrTooPrecise          = errors.New("amount has more precision than the currency allows")
)

// exponents maps ISO-4217 codes to the number of digits after the decimal
// point in their minor unit.
var exponents = map[string]int32{
	"USD": 2,
	"EUR": 2,
	"GBP": 2,
	"INR": 2,
	"SAR": 2,
	"AED": 2,
	"CAD": 2,
	"AUD": 2,
	"JPY": 0,
	"KRW": 0,
	"KWD": 3,
	"BHD": 3,
}

// IsSupported reports whether the currency code is known.
func IsSupported(code string) bool {
	_, ok := exponents[code]
	return ok
}

// Exponent returns the minor-unit exponent for a currency code.
func Exponent(code string) (int32, error) {
	exp, ok := exponents[code]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
	}
	return exp, nil
}

// ToMinorUnits converts a decimal amount to integer minor units.
// It fails if the amount carries more fractional digits than the currency's
// minor unit can represent, rather than silently rounding user input.
func ToMinorUnits(amount decimal.Decimal, code string) (int64, error) {
	exp, err := Exponent(code)
	if err != nil {
		return 0, err
	}
	scaled := amount.Shift(exp)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: %s %s", ErrTooPrecise, amount.String(), code)
	}
	return scaled.IntPart(), nil
}

// FromMinorUnits converts integer minor units back to a decimal amount.
func FromMinorUnits(minor int64, code string) (decimal.Decimal, error) {
	exp, err := Exponent(code)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(minor).Shift(-exp), nil
}
