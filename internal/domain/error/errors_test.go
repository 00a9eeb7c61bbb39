package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"InsufficientFunds", ErrInsufficientFunds, CodeInsufficientFunds},
		{"InvalidAmount", ErrInvalidAmount, CodeInvalidAmount},
		{"AmountOverflow", ErrAmountOverflow, CodeAmountOverflow},
		{"DuplicateUsername", ErrDuplicateUsername, CodeDuplicateUsername},
		{"DuplicateEmail", ErrDuplicateEmail, CodeDuplicateEmail},
		{"AccountNotFound", ErrAccountNotFound, CodeAccountNotFound},
		{"SessionExpired", ErrSessionExpired, CodeUnauthorized},
		{"WeakPassword", ErrWeakPassword, CodeValidation},
		{"StorageFailure", ErrStorageFailure, CodeStorageFailure},
		{"UnknownError", errors.New("unknown error"), CodeInternalServer},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrInvalidAccountID), CodeInvalidAccountID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ErrorCode(tc.err))
		})
	}
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"amount", ErrInvalidAmount, KindValidation},
		{"missing field", fmt.Errorf("%w: username is required", ErrValidation), KindValidation},
		{"no local password", ErrNoLocalPassword, KindValidation},
		{"bad credentials", ErrInvalidCredentials, KindAuth},
		{"revoked session", ErrSessionNotFound, KindAuth},
		{"google", ErrGoogleAuthUnavailable, KindAuth},
		{"missing account", ErrAccountNotFound, KindNotFound},
		{"debit", NewInsufficientFundsError(1, "10.00", "5.00"), KindInsufficientFunds},
		{"duplicate", ErrDuplicateEmail, KindConflict},
		{"storage", fmt.Errorf("%w: connection refused", ErrStorageFailure), KindStorage},
		{"constraint", ErrConstraintViolation, KindStorage},
		{"unknown", errors.New("boom"), KindInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, KindOf(tc.err))
		})
	}
}

func TestBalanceError(t *testing.T) {
	balanceErr := NewBalanceError(123, "debit", "100.50", ErrInsufficientFunds)

	assert.Equal(t, "debit of 100.50 failed for account 123: insufficient funds", balanceErr.Error())
	assert.ErrorIs(t, balanceErr, ErrInsufficientFunds)

	fields := LogFieldsOf(balanceErr)
	assert.Equal(t, "balance_error", fields["error_type"])
	assert.Equal(t, uint64(123), fields["account_id"])
	assert.Equal(t, CodeInsufficientFunds, fields["error_code"])
}

func TestInsufficientFundsError(t *testing.T) {
	err := NewInsufficientFundsError(7, "200000.00", "102000.00")

	assert.True(t, IsInsufficientFunds(err))
	assert.True(t, IsInsufficientFunds(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsInsufficientFunds(ErrInvalidAmount))
	assert.Contains(t, err.Error(), "available 102000.00")

	var detailed *InsufficientFundsError
	assert.True(t, errors.As(err, &detailed))
	assert.Equal(t, "102000.00", detailed.Available)
}

func TestLogFieldsOf_PlainError(t *testing.T) {
	fields := LogFieldsOf(errors.New("plain"))
	assert.Equal(t, map[string]any{"error": "plain"}, fields)
}

func TestIsStorageFailure(t *testing.T) {
	assert.True(t, IsStorageFailure(fmt.Errorf("%w: timeout", ErrStorageFailure)))
	assert.False(t, IsStorageFailure(ErrAccountNotFound))
}
