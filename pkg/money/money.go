// Package money holds the fixed-point helpers shared by every monetary field:
// two fraction digits, at most twelve integer digits, never a float.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// Scale is the number of fraction digits carried by stored amounts.
	Scale = 2
	// MaxIntegerDigits bounds the integer part of stored amounts.
	MaxIntegerDigits = 12
)

var (
	ErrInvalid   = errors.New("invalid money amount")
	ErrPrecision = errors.New("money amount exceeds precision")

	upperBound = decimal.New(1, MaxIntegerDigits)
)

// Parse reads a plain decimal string such as "1000.00" and rejects anything
// that would not round-trip through a DECIMAL(14,2) column.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalid)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	if err := Check(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Check verifies d fits the storage precision.
func Check(d decimal.Decimal) error {
	if !d.Equal(d.Truncate(Scale)) {
		return fmt.Errorf("%w: more than %d fraction digits in %s", ErrPrecision, Scale, d.String())
	}
	if !d.Abs().LessThan(upperBound) {
		return fmt.Errorf("%w: more than %d integer digits in %s", ErrPrecision, MaxIntegerDigits, d.String())
	}
	return nil
}

// Round rounds half away from zero to Scale places, i.e. half-up for the
// non-negative amounts the ledger deals with.
func Round(d decimal.Decimal) decimal.Decimal { return d.Round(Scale) }

// Format renders d with exactly Scale fraction digits.
func Format(d decimal.Decimal) string { return d.StringFixed(Scale) }
