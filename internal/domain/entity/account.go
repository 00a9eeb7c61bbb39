package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/shopspring/decimal"
)

// ExternalAuthPassword is stored instead of a hash for accounts created through Google sign-in.
// Such accounts cannot authenticate with a local password.
const ExternalAuthPassword = "GOOGLE_AUTH"

// RoleCustomer is the role given to every self-registered account
const RoleCustomer = "customer"

// Account represents a bank customer with a balance
type Account struct {
	ID           uint64
	Username     string
	Email        string
	PasswordHash string
	Phone        string
	Role         string
	ProfileImage string
	balance      decimal.Decimal // never negative
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAccount creates an account that has not been persisted yet
func NewAccount(username, email, passwordHash, phone string, startingBalance decimal.Decimal, timeProvider coreport.TimeProvider) (*Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, fmt.Errorf("%w: username is required", errs.ErrValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", errs.ErrValidation)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("%w: password is required", errs.ErrValidation)
	}

	now := timeProvider.Now()
	account := &Account{
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Phone:        strings.TrimSpace(phone),
		Role:         RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := account.SetBalance(startingBalance); err != nil {
		return nil, err
	}

	return account, nil
}

// Balance returns the current balance
func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// GetBalance returns the balance as a string with 2 decimal places
func (a *Account) GetBalance() string {
	return FormatAmount(a.balance)
}

// SetBalance replaces the balance, used by repositories when loading rows
func (a *Account) SetBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return fmt.Errorf("%w: balance cannot be negative", errs.ErrConstraintViolation)
	}
	a.balance = balance
	return nil
}

// HasLocalPassword reports whether the account can authenticate with a password
func (a *Account) HasLocalPassword() bool {
	return a.PasswordHash != "" && a.PasswordHash != ExternalAuthPassword
}

// AccountProfile is the non-secret projection of an account
type AccountProfile struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Balance      string    `json:"balance"`
	Phone        string    `json:"phone,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile projects the account without its credential
func (a *Account) Profile() AccountProfile {
	return AccountProfile{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		Role:         a.Role,
		Balance:      a.GetBalance(),
		Phone:        a.Phone,
		ProfileImage: a.ProfileImage,
		CreatedAt:    a.CreatedAt,
	}
}
