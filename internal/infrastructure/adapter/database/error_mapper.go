package database

import (
	"context"
	"errors"
	"fmt"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	"gorm.io/gorm"
)

// ErrorMapper maps transaction control errors to domain errors
type ErrorMapper struct{}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError wraps a failure of begin, commit or rollback as a storage failure
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s timed out", errs.ErrStorageFailure, operation)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %s canceled", errs.ErrStorageFailure, operation)
	case errors.Is(err, gorm.ErrInvalidTransaction):
		return fmt.Errorf("%w: %s outside a transaction", errs.ErrInternalServer, operation)
	default:
		return fmt.Errorf("%w: %s: %s", errs.ErrStorageFailure, operation, err.Error())
	}
}
