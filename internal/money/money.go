// Package money converts between user-entered decimal amounts and the
// integer cent values stored in the database.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxCents is the largest storable amount, 9,999,999,999.99.
const MaxCents int64 = 999_999_999_999

var (
	ErrInvalidAmount = errors.New("amount is not a decimal number")
	ErrNegative      = errors.New("amount is negative")
	ErrSubCent       = errors.New("amount has more than two decimal places")
	ErrOutOfRange    = errors.New("amount exceeds the maximum")
)

var maxAmount = decimal.New(MaxCents, -2)

// ParseCents parses a decimal string such as "12.50" into cents.
// Values with fractions of a cent, negative values and values above MaxCents
// are rejected.
func ParseCents(raw string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, ErrNegative
	}
	if d.GreaterThan(maxAmount) {
		return 0, ErrOutOfRange
	}
	if !d.Equal(d.Round(2)) {
		return 0, ErrSubCent
	}
	return d.Shift(2).IntPart(), nil
}

// Format renders cents with exactly two decimals, e.g. 1250 as "12.50".
func Format(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
