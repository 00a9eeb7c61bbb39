package security

import (
	"context"
	"time"
)

// PasswordHasher hashes and verifies local passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify returns nil when password matches hash
	Verify(hash, password string) error
}

// TokenClaims is what a signed session token asserts
type TokenClaims struct {
	AccountID uint64
	Username  string
	Role      string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies session tokens
type TokenIssuer interface {
	// Issue returns a signed token for the claims and its expiry
	Issue(accountID uint64, username, role string) (string, time.Time, error)
	// Verify checks the signature and expiry of a token
	Verify(token string) (*TokenClaims, error)
}

// ExternalIdentity is the identity asserted by a verified Google ID token
type ExternalIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// IdentityVerifier verifies third-party ID tokens
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*ExternalIdentity, error)
}
