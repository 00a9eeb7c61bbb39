package persistence

import (
	"context"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the operations on the account store
type AccountRepository interface {
	// GetByID retrieves an account by ID
	//
	// Possible errors:
	// - ErrAccountNotFound: If no account has this ID
	// - ErrStorageFailure: If the store cannot be reached or times out
	GetByID(ctx context.Context, id uint64) (*entity.Account, error)

	// GetByUsername retrieves an account by its unique username
	//
	// Possible errors:
	// - ErrAccountNotFound: If no account has this username
	// - ErrStorageFailure: If the store cannot be reached or times out
	GetByUsername(ctx context.Context, username string) (*entity.Account, error)

	// GetByEmail retrieves an account by its unique email
	//
	// Possible errors:
	// - ErrAccountNotFound: If no account has this email
	// - ErrStorageFailure: If the store cannot be reached or times out
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)

	// Create inserts a new account and sets its ID
	//
	// Possible errors:
	// - ErrDuplicateUsername / ErrDuplicateEmail: If a unique column collides
	// - ErrStorageFailure: If the store cannot be reached or times out
	Create(ctx context.Context, account *entity.Account) error

	// UpdatePassword replaces the credential of an account
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	// - ErrStorageFailure: If the store cannot be reached or times out
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error

	// UpdateProfile replaces the optional profile fields of an account
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	// - ErrStorageFailure: If the store cannot be reached or times out
	UpdateProfile(ctx context.Context, id uint64, phone, profileImage string) error

	// Credit increases the balance in a single statement and returns the stored balance
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	// - ErrAmountOverflow: If the new balance does not fit the column
	// - ErrStorageFailure: If the store cannot be reached or times out
	Credit(ctx context.Context, id uint64, amount decimal.Decimal) (decimal.Decimal, error)

	// Debit decreases the balance only where it covers amount and returns the stored balance.
	// Nothing is written when the condition fails.
	//
	// Possible errors:
	// - ErrAccountNotFound: If the account doesn't exist
	// - ErrInsufficientFunds: If the balance is lower than amount
	// - ErrStorageFailure: If the store cannot be reached or times out
	Debit(ctx context.Context, id uint64, amount decimal.Decimal) (decimal.Decimal, error)
}
