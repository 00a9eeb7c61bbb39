package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL error codes the classifier understands
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"
	pgQueryCanceled       = "57014"
)

// ErrorType represents the type of database error that occurred
type ErrorType string

const (
	DuplicateKeyError ErrorType = "duplicate_key"
	ForeignKeyError   ErrorType = "foreign_key"
	ConstraintError   ErrorType = "constraint"
	OverflowError     ErrorType = "overflow"
	TimeoutError      ErrorType = "timeout"
	NotFoundError     ErrorType = "not_found"
	UnknownError      ErrorType = "unknown"
)

// ErrorClassifier turns driver errors into domain errors
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// Classify returns the type of error
func (c *ErrorClassifier) Classify(err error) ErrorType {
	if err == nil {
		return ""
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return TimeoutError
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return DuplicateKeyError
		case pgForeignKeyViolation:
			return ForeignKeyError
		case pgCheckViolation:
			return ConstraintError
		case pgNumericOutOfRange:
			return OverflowError
		case pgQueryCanceled:
			return TimeoutError
		}
		return UnknownError
	}

	// sqlite reports constraint failures as text only
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return DuplicateKeyError
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ForeignKeyError
	case strings.Contains(msg, "CHECK constraint failed"):
		return ConstraintError
	}

	return UnknownError
}

// Map converts a database error into the domain error callers expect.
// notFound is returned for gorm.ErrRecordNotFound and foreign key failures.
func (c *ErrorClassifier) Map(err error, notFound error) error {
	switch c.Classify(err) {
	case "":
		return nil
	case NotFoundError, ForeignKeyError:
		if notFound == nil {
			return errs.ErrNotFound
		}
		return notFound
	case DuplicateKeyError:
		return c.duplicate(err)
	case OverflowError:
		return fmt.Errorf("%w: %s", errs.ErrAmountOverflow, err.Error())
	case ConstraintError:
		return fmt.Errorf("%w: %s", errs.ErrConstraintViolation, err.Error())
	default:
		return fmt.Errorf("%w: %s", errs.ErrStorageFailure, err.Error())
	}
}

// duplicate picks the unique column that collided from the constraint name or message
func (c *ErrorClassifier) duplicate(err error) error {
	target := err.Error()
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		target = pgErr.ConstraintName
	}

	switch {
	case strings.Contains(target, "username"):
		return errs.ErrDuplicateUsername
	case strings.Contains(target, "email"):
		return errs.ErrDuplicateEmail
	default:
		return fmt.Errorf("%w: %s", errs.ErrConstraintViolation, err.Error())
	}
}
