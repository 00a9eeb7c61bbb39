package balance

import (
	"fmt"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	"github.com/shopspring/decimal"
)

// AdjustmentValidator checks an adjustment before any storage is touched
type AdjustmentValidator struct{}

// NewAdjustmentValidator creates a new AdjustmentValidator
func NewAdjustmentValidator() *AdjustmentValidator {
	return &AdjustmentValidator{}
}

// Validate returns the parsed amount of a well-formed adjustment
func (v *AdjustmentValidator) Validate(accountID uint64, direction entity.EntryType, amount string) (decimal.Decimal, error) {
	if accountID == 0 {
		return decimal.Zero, errs.ErrInvalidAccountID
	}

	if !direction.IsDirection() {
		return decimal.Zero, fmt.Errorf("%w: got %q", errs.ErrInvalidDirection, direction)
	}

	return entity.ParseAmount(amount)
}
