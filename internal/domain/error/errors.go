package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientFunds  = 4001
	CodeInvalidAmount      = 4002
	CodeInvalidAccountID   = 4003
	CodeValidation         = 4004
	CodeAmountOverflow     = 4006
	CodeDuplicateUsername  = 4091
	CodeDuplicateEmail     = 4092
	CodeUnauthorized       = 4010
	CodeInvalidCredentials = 4011
	CodeAccountNotFound    = 4040
	CodeNotFound           = 4041

	// 5xxx - Server errors
	CodeInternalServer = 5000
	CodeStorageFailure = 5001
)

// Kind groups errors by how they are reported to callers
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindInsufficientFunds
	KindConflict
	KindStorage
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage"
	default:
		return "internal"
	}
}

// Base error types
var (
	// ErrInsufficientFunds is returned when a debit exceeds the account balance
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount is returned when an amount is absent, non-numeric or not positive
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmountOverflow is returned when an amount does not fit the balance column
	ErrAmountOverflow = errors.New("amount is too large")

	// ErrInvalidAccountID is returned when the account ID is zero
	ErrInvalidAccountID = errors.New("account ID must be positive")

	// ErrInvalidDirection is returned for adjustments that are neither credit nor debit
	ErrInvalidDirection = errors.New("direction must be credit or debit")

	// ErrValidation is returned when a request is missing required fields or is malformed
	ErrValidation = errors.New("validation failed")

	// ErrWeakPassword is returned when a new password does not meet the length rule
	ErrWeakPassword = errors.New("password length is out of range")

	// ErrNoLocalPassword is returned for externally authenticated accounts
	ErrNoLocalPassword = errors.New("account has no local password")

	// ErrUnauthorized is returned when a request carries no live session
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken is returned when a token signature or claim check fails
	ErrInvalidToken = errors.New("invalid token")

	// ErrSessionExpired is returned when the session row is past its expiry
	ErrSessionExpired = errors.New("session expired")

	// ErrInvalidCredentials is returned when a username/password pair does not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrGoogleAuthUnavailable is returned when Google sign-in is not configured or rejects the token
	ErrGoogleAuthUnavailable = errors.New("google sign-in failed")

	// ErrDuplicateUsername is returned when registering an existing username
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateEmail is returned when registering an existing email
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrAccountNotFound is returned when the requested account doesn't exist
	ErrAccountNotFound = errors.New("account not found")

	// ErrSessionNotFound is returned when no session row matches a token
	ErrSessionNotFound = errors.New("session not found")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrStorageFailure is returned for persistence errors, including timeouts
	ErrStorageFailure = errors.New("storage failure")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// KindOf classifies an error into the reporting taxonomy
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrAmountOverflow),
		errors.Is(err, ErrInvalidAccountID),
		errors.Is(err, ErrInvalidDirection),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrWeakPassword),
		errors.Is(err, ErrNoLocalPassword):
		return KindValidation
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrSessionExpired),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrGoogleAuthUnavailable):
		return KindAuth
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateUsername), errors.Is(err, ErrDuplicateEmail):
		return KindConflict
	case errors.Is(err, ErrStorageFailure), errors.Is(err, ErrConstraintViolation):
		return KindStorage
	default:
		return KindInternal
	}
}

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrAmountOverflow):
		return CodeAmountOverflow
	case errors.Is(err, ErrInvalidAccountID):
		return CodeInvalidAccountID
	case errors.Is(err, ErrDuplicateUsername):
		return CodeDuplicateUsername
	case errors.Is(err, ErrDuplicateEmail):
		return CodeDuplicateEmail
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrAccountNotFound):
		return CodeAccountNotFound
	case errors.Is(err, ErrStorageFailure), errors.Is(err, ErrConstraintViolation):
		return CodeStorageFailure
	}

	switch KindOf(err) {
	case KindValidation:
		return CodeValidation
	case KindAuth:
		return CodeUnauthorized
	case KindNotFound:
		return CodeNotFound
	default:
		return CodeInternalServer
	}
}

// BalanceError represents an error related to balance operations
type BalanceError struct {
	AccountID uint64
	Direction string
	Amount    string
	Err       error
}

// Error implements the error interface for BalanceError
func (e *BalanceError) Error() string {
	return fmt.Sprintf("%s of %s failed for account %d: %v", e.Direction, e.Amount, e.AccountID, e.Err)
}

// Unwrap returns the underlying error
func (e *BalanceError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *BalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "balance_error",
		"account_id": e.AccountID,
		"direction":  e.Direction,
		"amount":     e.Amount,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewBalanceError wraps err with the adjustment that produced it
func NewBalanceError(accountID uint64, direction, amount string, err error) error {
	return &BalanceError{
		AccountID: accountID,
		Direction: direction,
		Amount:    amount,
		Err:       err,
	}
}

// InsufficientFundsError provides detailed error information for a rejected debit
type InsufficientFundsError struct {
	AccountID uint64
	Amount    string
	Available string
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for account %d: required %s, available %s",
		e.AccountID, e.Amount, e.Available)
}

// Is checks if the target error is an ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"account_id": e.AccountID,
		"amount":     e.Amount,
		"available":  e.Available,
		"error_code": CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(accountID uint64, amount, available string) error {
	return &InsufficientFundsError{
		AccountID: accountID,
		Amount:    amount,
		Available: available,
	}
}

// IsInsufficientFunds checks whether err is a rejected debit
func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

// IsStorageFailure checks whether err came from the persistence layer
func IsStorageFailure(err error) bool {
	return KindOf(err) == KindStorage
}

// LogFielder is implemented by errors that carry structured context
type LogFielder interface {
	LogFields() map[string]any
}

// LogFieldsOf returns err's structured fields, or just the message
func LogFieldsOf(err error) map[string]any {
	var lf LogFielder
	if errors.As(err, &lf) {
		return lf.LogFields()
	}
	return map[string]any{"error": err.Error()}
}
