package dto

import (
	"errors"
	"net/http"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
)

// Response is the envelope of every API response
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

// Success wraps a payload in a successful envelope
func Success(message string, data any) Response {
	return Response{Success: true, Data: data, Message: message}
}

// ErrorResponse builds the failure envelope for err
func ErrorResponse(err error) Response {
	return Response{
		Success: false,
		Message: ErrorMessage(err),
		Code:    errs.ErrorCode(err),
	}
}

// ErrorStatus maps an error to its HTTP status code
func ErrorStatus(err error) int {
	switch errs.KindOf(err) {
	case errs.KindValidation, errs.KindConflict, errs.KindInsufficientFunds:
		return http.StatusBadRequest
	case errs.KindAuth:
		return http.StatusUnauthorized
	case errs.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage returns the client-facing text for err. Storage and internal failures never expose details.
func ErrorMessage(err error) string {
	switch errs.KindOf(err) {
	case errs.KindInsufficientFunds:
		return "Insufficient funds"
	case errs.KindConflict:
		if errors.Is(err, errs.ErrDuplicateEmail) {
			return "Email already exists"
		}
		return "Username already exists"
	case errs.KindNotFound:
		if errors.Is(err, errs.ErrAccountNotFound) {
			return "Account not found"
		}
		return "Resource not found"
	case errs.KindAuth:
		switch {
		case errors.Is(err, errs.ErrInvalidCredentials):
			return "Invalid username or password"
		case errors.Is(err, errs.ErrSessionExpired):
			return "Session expired, please log in again"
		case errors.Is(err, errs.ErrGoogleAuthUnavailable):
			return "Google sign-in failed"
		default:
			return "Unauthorized"
		}
	case errs.KindValidation:
		var balanceErr *errs.BalanceError
		if errors.As(err, &balanceErr) {
			return balanceErr.Err.Error()
		}
		return err.Error()
	default:
		return "Internal server error"
	}
}
