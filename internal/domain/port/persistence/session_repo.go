package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
)

// SessionRepository defines the session token store
type SessionRepository interface {
	// Create stores a new session
	Create(ctx context.Context, session *entity.Session) error

	// GetByTokenHash returns the session for a token hash
	//
	// Possible errors:
	// - ErrSessionNotFound: If the token was never issued or has been revoked
	// - ErrStorageFailure: If the store cannot be reached or times out
	GetByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error)

	// DeleteByTokenHash revokes one session. Deleting an unknown token is not an error.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteByAccount revokes every session of an account and returns how many were removed
	DeleteByAccount(ctx context.Context, accountID uint64) (int64, error)

	// DeleteExpired removes sessions whose expiry is not after now
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
