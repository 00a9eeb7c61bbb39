package entity

import (
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	"github.com/shopspring/decimal"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

// MaxAmount is the largest value a NUMERIC(15,2) column can hold
var MaxAmount = decimal.RequireFromString("9999999999999.99")

const (
	// maxAmountLength bounds the raw text so the exponent bounds below also bound the digit count
	maxAmountLength = 32

	// Exponent bounds checked before any comparison rescales the value.
	// A positive value with exponent above maxAmountExponent exceeds MaxAmount and one
	// below minAmountExponent cannot reduce to two decimal places within maxAmountLength digits.
	maxAmountExponent = 13
	minAmountExponent = -maxAmountLength
)

// ParseAmount validates a client supplied amount.
// The value must be present, numeric, strictly positive and carry at most two decimal places.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", errs.ErrInvalidAmount)
	}
	if len(raw) > maxAmountLength {
		return decimal.Zero, fmt.Errorf("%w: amount is too long", errs.ErrInvalidAmount)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", errs.ErrInvalidAmount, raw)
	}

	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be greater than zero", errs.ErrInvalidAmount)
	}

	if amount.Exponent() > maxAmountExponent {
		return decimal.Zero, fmt.Errorf("%w: maximum is %s", errs.ErrAmountOverflow, FormatAmount(MaxAmount))
	}
	if amount.Exponent() < minAmountExponent {
		return decimal.Zero, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}

	if !amount.Equal(amount.Truncate(MaxDecimalPlaces)) {
		return decimal.Zero, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}

	if amount.GreaterThan(MaxAmount) {
		return decimal.Zero, fmt.Errorf("%w: maximum is %s", errs.ErrAmountOverflow, FormatAmount(MaxAmount))
	}

	return amount, nil
}

// ParseBalance parses a configured balance, which may be zero
func ParseBalance(raw string) (decimal.Decimal, error) {
	if d, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil && d.IsZero() {
		return decimal.Zero, nil
	}
	return ParseAmount(raw)
}

// FormatAmount renders an amount with exactly two decimal places.
// For example 105000 becomes "105000.00".
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(MaxDecimalPlaces)
}
