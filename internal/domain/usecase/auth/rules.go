package auth

import (
	"errors"
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest accepted local password.
// bcrypt ignores input past 72 bytes, so longer passwords are refused.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

type registrationRules struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email,max=100"`
	Password string `validate:"required,min=6,max=72"`
	Phone    string `validate:"omitempty,max=20"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateRegistration(rules registrationRules) error {
	if err := validate.Struct(rules); err != nil {
		return describe(err)
	}
	return nil
}

func validatePassword(password string) error {
	if err := validate.Var(password, "required"); err != nil {
		return fmt.Errorf("%w: new password is required", errs.ErrValidation)
	}
	if err := validate.Var(password, fmt.Sprintf("min=%d,max=%d", MinPasswordLength, MaxPasswordLength)); err != nil {
		return fmt.Errorf("%w: must be %d to %d characters", errs.ErrWeakPassword, MinPasswordLength, MaxPasswordLength)
	}
	return nil
}

// describe turns the first validator failure into a client-facing ErrValidation
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %s", errs.ErrValidation, err.Error())
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	if field == "password" && (fe.Tag() == "min" || fe.Tag() == "max") {
		return fmt.Errorf("%w: must be %d to %d characters", errs.ErrWeakPassword, MinPasswordLength, MaxPasswordLength)
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", errs.ErrValidation, field)
	case "email":
		return fmt.Errorf("%w: %s must be a valid email address", errs.ErrValidation, field)
	case "min":
		return fmt.Errorf("%w: %s must be at least %s characters", errs.ErrValidation, field, fe.Param())
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", errs.ErrValidation, field, fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", errs.ErrValidation, field)
	}
}
