package security

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	"github.com/amirhossein-jamali/kodbank/mocks/port/core"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, hasher.Verify(hash, "s3cret-pass"))
	assert.ErrorIs(t, hasher.Verify(hash, "wrong"), errs.ErrInvalidCredentials)
	assert.ErrorIs(t, hasher.Verify("GOOGLE_AUTH", "anything"), errs.ErrInvalidCredentials)
}

func TestNewBcryptHasher_OutOfRangeCost(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(0).cost)
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(99).cost)
}

func TestJWTIssuer_RoundTrip(t *testing.T) {
	// Arrange
	now := time.Now().UTC()
	issuer, err := NewJWTIssuer(testSecret, time.Hour, core.NewMockTimeProvider(t).Fixed(now))
	require.NoError(t, err)

	// Act
	token, expiresAt, err := issuer.Issue(42, "dave", "customer")
	require.NoError(t, err)
	claims, err := issuer.Verify(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.AccountID)
	assert.Equal(t, "dave", claims.Username)
	assert.Equal(t, "customer", claims.Role)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.Equal(expiresAt))
	assert.Equal(t, now.Truncate(time.Second).Add(time.Hour), expiresAt)
}

func TestJWTIssuer_TokensAreUnique(t *testing.T) {
	issuer, err := NewJWTIssuer(testSecret, time.Hour, core.NewMockTimeProvider(t).Fixed(time.Now()))
	require.NoError(t, err)

	first, _, err := issuer.Issue(1, "a", "customer")
	require.NoError(t, err)
	second, _, err := issuer.Issue(1, "a", "customer")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestJWTIssuer_Rejects(t *testing.T) {
	now := time.Now().UTC()
	issuer, err := NewJWTIssuer(testSecret, time.Hour, core.NewMockTimeProvider(t).Fixed(now))
	require.NoError(t, err)
	valid, _, err := issuer.Issue(42, "dave", "customer")
	require.NoError(t, err)

	expiredIssuer, err := NewJWTIssuer(testSecret, time.Minute, core.NewMockTimeProvider(t).Fixed(now.Add(-2*time.Hour)))
	require.NoError(t, err)
	expired, _, err := expiredIssuer.Issue(42, "dave", "customer")
	require.NoError(t, err)

	otherIssuer, err := NewJWTIssuer(strings.Repeat("z", 40), time.Hour, core.NewMockTimeProvider(t).Fixed(now))
	require.NoError(t, err)
	foreign, _, err := otherIssuer.Issue(42, "dave", "customer")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"uid": 42}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	testCases := []struct {
		name     string
		token    string
		expected error
	}{
		{"expired", expired, errs.ErrSessionExpired},
		{"wrong secret", foreign, errs.ErrInvalidToken},
		{"tampered", valid[:len(valid)-2] + "xx", errs.ErrInvalidToken},
		{"alg none", unsigned, errs.ErrInvalidToken},
		{"garbage", "not.a.token", errs.ErrInvalidToken},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := issuer.Verify(tc.token)

			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestNewJWTIssuer_ShortSecret(t *testing.T) {
	_, err := NewJWTIssuer("short", time.Hour, nil)

	assert.ErrorIs(t, err, ErrWeakSecret)
}

func TestGoogleVerifier(t *testing.T) {
	t.Run("disabled without client id", func(t *testing.T) {
		assert.Nil(t, NewGoogleVerifier(""))
	})

	t.Run("extracts identity from a valid token", func(t *testing.T) {
		verifier := &GoogleVerifier{
			clientID: "client-1",
			validate: func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
				assert.Equal(t, "id-token", token)
				assert.Equal(t, "client-1", audience)
				return &idtoken.Payload{
					Subject: "10987",
					Claims: map[string]interface{}{
						"email":          "erin@gmail.com",
						"email_verified": true,
						"name":           "Erin",
						"picture":        "https://example.com/p.png",
					},
				}, nil
			},
		}

		identity, err := verifier.Verify(context.Background(), "id-token")

		require.NoError(t, err)
		assert.Equal(t, "10987", identity.Subject)
		assert.Equal(t, "erin@gmail.com", identity.Email)
		assert.Equal(t, "https://example.com/p.png", identity.Picture)
	})

	t.Run("validation failure", func(t *testing.T) {
		verifier := &GoogleVerifier{
			clientID: "client-1",
			validate: func(context.Context, string, string) (*idtoken.Payload, error) {
				return nil, errors.New("idtoken: audience provided does not match aud claim in the JWT")
			},
		}

		_, err := verifier.Verify(context.Background(), "id-token")

		assert.ErrorIs(t, err, errs.ErrGoogleAuthUnavailable)
	})

	t.Run("unverified email", func(t *testing.T) {
		_, err := identityFromPayload(&idtoken.Payload{Claims: map[string]interface{}{
			"email":          "x@gmail.com",
			"email_verified": false,
		}})

		assert.ErrorIs(t, err, errs.ErrGoogleAuthUnavailable)
	})
}
