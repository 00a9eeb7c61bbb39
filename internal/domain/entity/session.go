package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Session is a live login. Only the hash of the issued token is stored.
type Session struct {
	ID        uint64
	TokenHash string
	AccountID uint64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewSession creates a session for token that expires at expiresAt
func NewSession(token string, accountID uint64, createdAt, expiresAt time.Time) *Session {
	return &Session{
		TokenHash: HashToken(token),
		AccountID: accountID,
		ExpiresAt: expiresAt,
		CreatedAt: createdAt,
	}
}

// IsExpired reports whether the session is no longer honored at now
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// HashToken returns the hex encoded SHA-256 of a token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
