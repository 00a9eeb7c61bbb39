package usecase

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
)

// Registration is the input of a new local account
type Registration struct {
	Username string
	Email    string
	Password string
	Phone    string
}

// LoginResult is a freshly issued session
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   entity.AccountProfile
}

// AuthUseCase covers registration, sessions and credential changes
type AuthUseCase interface {
	Register(ctx context.Context, registration Registration) (*entity.AccountProfile, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	GoogleLogin(ctx context.Context, idToken string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	// ChangePassword replaces the local password and revokes every session of the account
	ChangePassword(ctx context.Context, accountID uint64, currentPassword, newPassword string) error
	// ResolveAccount maps a presented token to an account ID.
	// The token must have a live session row and a valid signature.
	ResolveAccount(ctx context.Context, token string) (uint64, error)
}

// SessionSweeper removes expired sessions
type SessionSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}
