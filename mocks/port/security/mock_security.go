package security

import (
	"context"
	"time"

	port "github.com/amirhossein-jamali/kodbank/internal/domain/port/security"
	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher is a testify mock of security.PasswordHasher
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Verify(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

// MockTokenIssuer is a testify mock of security.TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(accountID uint64, username, role string) (string, time.Time, error) {
	args := m.Called(accountID, username, role)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenIssuer) Verify(token string) (*port.TokenClaims, error) {
	args := m.Called(token)
	if v := args.Get(0); v != nil {
		return v.(*port.TokenClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockIdentityVerifier is a testify mock of security.IdentityVerifier
type MockIdentityVerifier struct {
	mock.Mock
}

func (m *MockIdentityVerifier) Verify(ctx context.Context, idToken string) (*port.ExternalIdentity, error) {
	args := m.Called(ctx, idToken)
	if v := args.Get(0); v != nil {
		return v.(*port.ExternalIdentity), args.Error(1)
	}
	return nil, args.Error(1)
}
