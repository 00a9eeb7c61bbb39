package security

import (
	"errors"
	"fmt"
	"time"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	secport "github.com/amirhossein-jamali/kodbank/internal/domain/port/security"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// MinSecretLength is the shortest accepted signing secret
const MinSecretLength = 32

// ErrWeakSecret is returned when the signing secret is too short
var ErrWeakSecret = fmt.Errorf("jwt secret must be at least %d characters", MinSecretLength)

type sessionClaims struct {
	UID      uint64 `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 session tokens
type JWTIssuer struct {
	secret       []byte
	ttl          time.Duration
	timeProvider coreport.TimeProvider
}

// NewJWTIssuer creates an issuer. The secret must be at least MinSecretLength characters.
func NewJWTIssuer(secret string, ttl time.Duration, timeProvider coreport.TimeProvider) (*JWTIssuer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, timeProvider: timeProvider}, nil
}

var _ secport.TokenIssuer = (*JWTIssuer)(nil)

// Issue signs a token for the account and returns it with its expiry
func (i *JWTIssuer) Issue(accountID uint64, username, role string) (string, time.Time, error) {
	now := i.timeProvider.Now().Truncate(time.Second)
	expiresAt := now.Add(i.ttl)

	claims := sessionClaims{
		UID:      accountID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature, algorithm and expiry of a token
func (i *JWTIssuer) Verify(token string) (*secport.TokenClaims, error) {
	var claims sessionClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, errs.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidToken, err.Error())
	}
	if claims.UID == 0 {
		return nil, fmt.Errorf("%w: missing uid", errs.ErrInvalidToken)
	}

	result := &secport.TokenClaims{
		AccountID: claims.UID,
		Username:  claims.Username,
		Role:      claims.Role,
		TokenID:   claims.ID,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, nil
}
